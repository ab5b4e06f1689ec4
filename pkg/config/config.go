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
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/csvship/pkg/metadata"
	"github.com/walteh/csvship/pkg/transfer"
	"github.com/walteh/csvship/pkg/watch"
	"gitlab.com/tozd/go/errors"
)

// ErrConfig marks every configuration failure; it is fatal at startup
var ErrConfig = errors.Base("invalid configuration")

// ⚙️ Defaults for optional settings
const (
	DefaultPollIntervalSeconds = 2
	DefaultLogLevel            = "info"
)

// 🔌 Parser is the interface for config file parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Config represents the complete configuration
type Config struct {
	SourceDir   string `json:"source_dir" yaml:"source_dir" hcl:"source_dir,optional"`
	DestUser    string `json:"dest_user" yaml:"dest_user" hcl:"dest_user,optional"`
	DestHost    string `json:"dest_host" yaml:"dest_host" hcl:"dest_host,optional"`
	DestDir     string `json:"dest_dir" yaml:"dest_dir" hcl:"dest_dir,optional"`
	TemplateDir string `json:"template_dir" yaml:"template_dir" hcl:"template_dir,optional"`
	FileSuffix  string `json:"file_suffix" yaml:"file_suffix" hcl:"file_suffix,optional"` // strftime format
	WaitSeconds int    `json:"wait_seconds" yaml:"wait_seconds" hcl:"wait_seconds,optional"`

	PollIntervalSeconds int      `json:"poll_interval_seconds,omitempty" yaml:"poll_interval_seconds,omitempty" hcl:"poll_interval_seconds,optional"`
	IncludeGlob         string   `json:"include_glob,omitempty" yaml:"include_glob,omitempty" hcl:"include_glob,optional"`
	RsyncBinary         string   `json:"rsync_binary,omitempty" yaml:"rsync_binary,omitempty" hcl:"rsync_binary,optional"`
	RsyncPartialDir     string   `json:"rsync_partial_dir,omitempty" yaml:"rsync_partial_dir,omitempty" hcl:"rsync_partial_dir,optional"`
	RsyncArgs           []string `json:"rsync_args,omitempty" yaml:"rsync_args,omitempty" hcl:"rsync_args,optional"`
	LogLevel            string   `json:"log_level,omitempty" yaml:"log_level,omitempty" hcl:"log_level,optional"`
}

// 🔧 LoadOptions selects the configuration sources
type LoadOptions struct {
	// File is an optional yaml, json or hcl config file
	File string
	// DotEnv is the .env file to read; missing files are ignored
	DotEnv string
	// LookupEnv defaults to os.LookupEnv
	LookupEnv func(key string) (string, bool)
}

// 🎯 Load builds the configuration from, in increasing priority, the config
// file, the .env file and the process environment, then validates it
func Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	logger := zerolog.Ctx(ctx)

	cfg := &Config{}
	if opts.File != "" {
		logger.Debug().Str("path", opts.File).Msg("loading configuration file")
		fileCfg, err := LoadFile(ctx, opts.File)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	env, err := readDotEnv(ctx, opts.DotEnv)
	if err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := env[key]
		return v, ok
	}); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().Str("config", cfg.String()).Msg("configuration loaded")
	return cfg, nil
}

// 🎯 LoadFile parses a config file without validating it
func LoadFile(ctx context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("%w: reading config file: %w", ErrConfig, err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("%w: no parser found for file: %s", ErrConfig, path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("%w: parsing config: %w", ErrConfig, err)
	}
	return cfg, nil
}

// 🔍 Validate checks required values and fills in defaults
func (cfg *Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{EnvSourceDir, cfg.SourceDir},
		{EnvDestUser, cfg.DestUser},
		{EnvDestHost, cfg.DestHost},
		{EnvDestDir, cfg.DestDir},
		{EnvTemplateDir, cfg.TemplateDir},
		{EnvFileSuffix, cfg.FileSuffix},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return errors.Errorf("%w: %s is required", ErrConfig, r.name)
		}
	}

	if cfg.WaitSeconds <= 0 {
		return errors.Errorf("%w: %s must be a positive integer, got %d", ErrConfig, EnvWaitSeconds, cfg.WaitSeconds)
	}
	if cfg.PollIntervalSeconds < 0 {
		return errors.Errorf("%w: %s must be positive, got %d", ErrConfig, EnvPollInterval, cfg.PollIntervalSeconds)
	}

	if err := metadata.ValidateFormat(cfg.FileSuffix); err != nil {
		return errors.Errorf("%w: %s: %w", ErrConfig, EnvFileSuffix, err)
	}

	if cfg.IncludeGlob != "" && !doublestar.ValidatePattern(cfg.IncludeGlob) {
		return errors.Errorf("%w: %s: invalid glob %q", ErrConfig, EnvIncludeGlob, cfg.IncludeGlob)
	}

	if cfg.LogLevel != "" {
		if _, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel)); err != nil {
			return errors.Errorf("%w: %s: %w", ErrConfig, EnvLogLevel, err)
		}
	}

	// Clean up paths
	cfg.SourceDir = filepath.Clean(cfg.SourceDir)
	cfg.TemplateDir = filepath.Clean(cfg.TemplateDir)

	// Set defaults
	if cfg.PollIntervalSeconds == 0 {
		cfg.PollIntervalSeconds = DefaultPollIntervalSeconds
	}
	if cfg.IncludeGlob == "" {
		cfg.IncludeGlob = watch.DefaultInclude
	}
	if cfg.RsyncBinary == "" {
		cfg.RsyncBinary = transfer.DefaultRsyncBinary
	}
	if cfg.RsyncPartialDir == "" {
		cfg.RsyncPartialDir = transfer.DefaultPartialDir
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	return nil
}

// Wait is the debounce threshold
func (cfg *Config) Wait() time.Duration {
	return time.Duration(cfg.WaitSeconds) * time.Second
}

// PollInterval is the pipeline tick period
func (cfg *Config) PollInterval() time.Duration {
	return time.Duration(cfg.PollIntervalSeconds) * time.Second
}

// Level is the parsed zerolog level, info when unset or invalid
func (cfg *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || cfg.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s -> %s@%s:%s (templates %s, wait %ds)",
		cfg.SourceDir, cfg.DestUser, cfg.DestHost, cfg.DestDir, cfg.TemplateDir, cfg.WaitSeconds)
}
