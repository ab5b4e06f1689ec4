// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func fullEnv() map[string]string {
	return map[string]string{
		EnvSourceDir:   "/srv/drop",
		EnvDestUser:    "loader",
		EnvDestHost:    "warehouse.internal",
		EnvDestDir:     "/data/incoming",
		EnvTemplateDir: "/etc/csvship/templates",
		EnvFileSuffix:  "%Y%m%d%H%M%S",
		EnvWaitSeconds: "5",
	}
}

func without(m map[string]string, key string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		if k != key {
			out[k] = v
		}
	}
	return out
}

func with(m map[string]string, key, value string) map[string]string {
	out := without(m, key)
	out[key] = value
	return out
}

func TestLoadFromEnv(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "required_only_gets_defaults",
			env:  fullEnv(),
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/srv/drop", cfg.SourceDir)
				assert.Equal(t, "loader", cfg.DestUser)
				assert.Equal(t, 5*time.Second, cfg.Wait())
				assert.Equal(t, 2*time.Second, cfg.PollInterval(), "poll interval should default")
				assert.Equal(t, "**/*.csv", cfg.IncludeGlob)
				assert.Equal(t, "rsync", cfg.RsyncBinary)
				assert.Equal(t, "tmp", cfg.RsyncPartialDir)
				assert.Equal(t, zerolog.InfoLevel, cfg.Level())
			},
		},
		{
			name: "optional_settings",
			env: with(with(with(fullEnv(), EnvRsyncArgs, "--timeout=60  --bwlimit=1000"), EnvPollInterval, "1"), EnvLogLevel, "DEBUG"),
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"--timeout=60", "--bwlimit=1000"}, cfg.RsyncArgs)
				assert.Equal(t, time.Second, cfg.PollInterval())
				assert.Equal(t, zerolog.DebugLevel, cfg.Level())
			},
		},
		{name: "missing_source_dir", env: without(fullEnv(), EnvSourceDir), wantErr: true, errContains: "SOURCE_DIR is required"},
		{name: "missing_dest_host", env: without(fullEnv(), EnvDestHost), wantErr: true, errContains: "DEST_HOST is required"},
		{name: "missing_suffix", env: without(fullEnv(), EnvFileSuffix), wantErr: true, errContains: "FILE_SUFFIX is required"},
		{name: "missing_wait", env: without(fullEnv(), EnvWaitSeconds), wantErr: true, errContains: "CSV_EVENT_WAIT_SECONDS must be a positive integer"},
		{name: "zero_wait", env: with(fullEnv(), EnvWaitSeconds, "0"), wantErr: true, errContains: "must be a positive integer"},
		{name: "unparsable_wait", env: with(fullEnv(), EnvWaitSeconds, "five"), wantErr: true, errContains: "CSV_EVENT_WAIT_SECONDS"},
		{name: "suffix_with_separator", env: with(fullEnv(), EnvFileSuffix, "%Y/%m"), wantErr: true, errContains: "FILE_SUFFIX"},
		{name: "bad_glob", env: with(fullEnv(), EnvIncludeGlob, "**/[.csv"), wantErr: true, errContains: "INCLUDE_GLOB"},
		{name: "bad_log_level", env: with(fullEnv(), EnvLogLevel, "loud"), wantErr: true, errContains: "LOG_LEVEL"},
	}

	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(ctx, LoadOptions{LookupEnv: envMap(tt.env)})
			if tt.wantErr {
				require.Error(t, err, "Load should return error")
				assert.True(t, errors.Is(err, ErrConfig), "error should wrap ErrConfig")
				assert.Contains(t, err.Error(), tt.errContains, "error should contain expected message")
				return
			}

			require.NoError(t, err, "Load should succeed")
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoadPriority(t *testing.T) {
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	dir := t.TempDir()

	file := filepath.Join(dir, "csvship.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
source_dir: /from/file
dest_user: file-user
dest_host: file-host
dest_dir: /file/dest
template_dir: /file/templates
file_suffix: "%Y"
wait_seconds: 9
rsync_args: ["--timeout=30"]
`), 0644))

	dotenv := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(dotenv, []byte("DEST_USER=dotenv-user\nDEST_HOST=dotenv-host\n"), 0644))

	cfg, err := Load(ctx, LoadOptions{
		File:      file,
		DotEnv:    dotenv,
		LookupEnv: envMap(map[string]string{EnvDestHost: "env-host"}),
	})
	require.NoError(t, err)

	assert.Equal(t, "/from/file", cfg.SourceDir, "file value kept when nothing overrides it")
	assert.Equal(t, "dotenv-user", cfg.DestUser, ".env overrides file")
	assert.Equal(t, "env-host", cfg.DestHost, "environment overrides .env")
	assert.Equal(t, 9, cfg.WaitSeconds)
	assert.Equal(t, []string{"--timeout=30"}, cfg.RsyncArgs)
}

func TestLoadMissingDotEnvIsIgnored(t *testing.T) {
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	_, err := Load(ctx, LoadOptions{
		DotEnv:    filepath.Join(t.TempDir(), ".env"),
		LookupEnv: envMap(fullEnv()),
	})
	assert.NoError(t, err)
}

func TestLoadFile(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		content     string
		errContains string
	}{
		{
			name: "json",
			file: "csvship.json",
			content: `{"source_dir": "/srv/drop", "dest_user": "loader", "dest_host": "h", "dest_dir": "/d",
				"template_dir": "/t", "file_suffix": "%Y", "wait_seconds": 3}`,
		},
		{
			name: "hcl",
			file: "csvship.hcl",
			content: `
source_dir   = "/srv/drop"
dest_user    = "loader"
dest_host    = "h"
dest_dir     = "/d"
template_dir = "/t"
file_suffix  = "%Y"
wait_seconds = 3
`,
		},
		{
			name: "yml",
			file: "csvship.yml",
			content: `
source_dir: /srv/drop
dest_user: loader
dest_host: h
dest_dir: /d
template_dir: /t
file_suffix: "%Y"
wait_seconds: 3
`,
		},
		{name: "unknown_yaml_field", file: "c.yaml", content: "surprise: true\n", errContains: "parsing YAML"},
		{name: "unknown_json_field", file: "c.json", content: `{"surprise": true}`, errContains: "parsing JSON"},
		{name: "json_trailing_object", file: "c.json", content: `{"dest_user": "a"} {"dest_user": "b"}`, errContains: "unexpected data after the config object"},
		{name: "unknown_hcl_field", file: "c.hcl", content: "surprise = true\n", errContains: "decoding HCL"},
		{name: "unsupported_extension", file: "c.toml", content: "x = 1", errContains: "no parser found"},
	}

	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			cfg, err := LoadFile(ctx, path)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrConfig))
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}

			require.NoError(t, err)
			require.NoError(t, cfg.Validate())
			assert.Equal(t, "/srv/drop", cfg.SourceDir)
			assert.Equal(t, 3, cfg.WaitSeconds)
		})
	}
}

func TestLoadEmptyFile(t *testing.T) {
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

	for _, name := range []string{"empty.json", "empty.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, os.WriteFile(path, []byte("\n"), 0644))

			cfg, err := LoadFile(ctx, path)
			require.NoError(t, err, "an empty file leaves every field to the environment")
			assert.Equal(t, "", cfg.SourceDir)
		})
	}
}

func TestConfigString(t *testing.T) {
	cfg := &Config{
		SourceDir:   "/srv/drop",
		DestUser:    "loader",
		DestHost:    "warehouse.internal",
		DestDir:     "/data/incoming",
		TemplateDir: "/etc/csvship/templates",
		WaitSeconds: 5,
	}
	assert.Equal(t, "/srv/drop -> loader@warehouse.internal:/data/incoming (templates /etc/csvship/templates, wait 5s)", cfg.String())
}
