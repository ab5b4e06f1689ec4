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
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🌱 Environment variable names
const (
	EnvSourceDir       = "SOURCE_DIR"
	EnvDestUser        = "DEST_USER"
	EnvDestHost        = "DEST_HOST"
	EnvDestDir         = "DEST_DIR"
	EnvTemplateDir     = "TEMPLATE_DIR"
	EnvFileSuffix      = "FILE_SUFFIX"
	EnvWaitSeconds     = "CSV_EVENT_WAIT_SECONDS"
	EnvPollInterval    = "POLL_INTERVAL_SECONDS"
	EnvIncludeGlob     = "INCLUDE_GLOB"
	EnvRsyncBinary     = "RSYNC_BINARY"
	EnvRsyncPartialDir = "RSYNC_PARTIAL_DIR"
	EnvRsyncArgs       = "RSYNC_ARGS"
	EnvLogLevel        = "LOG_LEVEL"
)

// DefaultDotEnv is read from the working directory when present
const DefaultDotEnv = ".env"

// readDotEnv reads key/value pairs without touching the process environment
func readDotEnv(ctx context.Context, path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			zerolog.Ctx(ctx).Debug().Str("path", path).Msg("no dotenv file")
			return map[string]string{}, nil
		}
		return nil, errors.Errorf("%w: checking dotenv file: %w", ErrConfig, err)
	}

	env, err := godotenv.Read(path)
	if err != nil {
		return nil, errors.Errorf("%w: reading dotenv file %s: %w", ErrConfig, path, err)
	}
	zerolog.Ctx(ctx).Debug().Str("path", path).Int("keys", len(env)).Msg("loaded dotenv file")
	return env, nil
}

// applyEnv overlays every variable lookup finds onto cfg
func (cfg *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		EnvSourceDir:       &cfg.SourceDir,
		EnvDestUser:        &cfg.DestUser,
		EnvDestHost:        &cfg.DestHost,
		EnvDestDir:         &cfg.DestDir,
		EnvTemplateDir:     &cfg.TemplateDir,
		EnvFileSuffix:      &cfg.FileSuffix,
		EnvIncludeGlob:     &cfg.IncludeGlob,
		EnvRsyncBinary:     &cfg.RsyncBinary,
		EnvRsyncPartialDir: &cfg.RsyncPartialDir,
		EnvLogLevel:        &cfg.LogLevel,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		EnvWaitSeconds:  &cfg.WaitSeconds,
		EnvPollInterval: &cfg.PollIntervalSeconds,
	}
	for key, dst := range ints {
		v, ok := lookup(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return errors.Errorf("%w: %s: parsing %q: %w", ErrConfig, key, v, err)
		}
		*dst = n
	}

	if v, ok := lookup(EnvRsyncArgs); ok {
		cfg.RsyncArgs = strings.Fields(v)
	}

	return nil
}
