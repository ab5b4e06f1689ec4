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

// Package metadata renames accepted files with a timestamp token and writes
// their provenance sidecar.
package metadata

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
	"github.com/rs/zerolog"
	"github.com/walteh/csvship/pkg/dispatch"
	"gitlab.com/tozd/go/errors"
)

const (
	// Extension is appended to the renamed source path to name its sidecar
	Extension = ".metadata"
	// TimeLayout is the sidecar timestamp layout
	TimeLayout = "2006-01-02 15:04:05"
)

// ErrTargetExists is returned when the renamed path is already taken
var ErrTargetExists = errors.Base("rename target already exists")

// 🔧 Options configures a Generator
type Options struct {
	// Format is the strftime format of the rename token, e.g. %Y%m%d%H%M%S
	Format string
	// Identity resolves file owners; a nil Identity leaves the owner empty
	Identity IdentityResolver
	// Now defaults to time.Now
	Now func() time.Time
}

// 🏷️ Generator renames accepted files and writes their sidecars
type Generator struct {
	format   string
	identity IdentityResolver
	now      func() time.Time
}

// 🏭 New creates a generator
func New(opts Options) (*Generator, error) {
	if err := ValidateFormat(opts.Format); err != nil {
		return nil, err
	}
	g := &Generator{
		format:   opts.Format,
		identity: opts.Identity,
		now:      opts.Now,
	}
	if g.now == nil {
		g.now = time.Now
	}
	return g, nil
}

// ValidateFormat checks that format is a usable strftime rename token
func ValidateFormat(format string) error {
	if format == "" {
		return errors.Errorf("file suffix format is empty")
	}
	token := strftime.Format(format, time.Unix(0, 0))
	if strings.TrimSpace(token) == "" {
		return errors.Errorf("file suffix format %q renders an empty token", format)
	}
	if strings.ContainsRune(token, filepath.Separator) || strings.ContainsRune(token, '/') {
		return errors.Errorf("file suffix format %q produces a path separator", format)
	}
	return nil
}

// RenamedPath inserts `_<token>` between the stem and extension of path
func RenamedPath(path, token string) string {
	dir, base := filepath.Split(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, stem+"_"+token+ext)
}

// SidecarPath names the sidecar of a renamed source
func SidecarPath(renamed string) string {
	return renamed + Extension
}

// Record renders the single sidecar line
func Record(created time.Time, owner, originalName string) string {
	return created.Local().Format(TimeLayout) + "," + owner + "," + originalName
}

// Process renames path and writes its sidecar. A rename failure is returned;
// a sidecar failure is logged and yields an empty Metadata path.
func (g *Generator) Process(ctx context.Context, table, path string) (dispatch.ClassifiedFile, error) {
	logger := zerolog.Ctx(ctx).With().Str("path", path).Str("table", table).Logger()
	ctx = logger.WithContext(ctx)

	renamed, err := g.Rename(ctx, path)
	if err != nil {
		return dispatch.ClassifiedFile{}, err
	}

	cf := dispatch.ClassifiedFile{Table: table, Source: renamed}

	sidecar, err := g.WriteSidecar(ctx, renamed, filepath.Base(path))
	if err != nil {
		logger.Error().Err(err).Str("renamed", renamed).Msg("failed to write metadata sidecar, continuing without it")
		return cf, nil
	}
	cf.Metadata = sidecar
	return cf, nil
}

// Rename moves path to its timestamped name, refusing to overwrite
func (g *Generator) Rename(ctx context.Context, path string) (string, error) {
	renamed := RenamedPath(path, strftime.Format(g.format, g.now()))

	if _, err := os.Lstat(renamed); err == nil {
		return "", errors.Errorf("renaming %s: %w: %s", filepath.Base(path), ErrTargetExists, filepath.Base(renamed))
	} else if !os.IsNotExist(err) {
		return "", errors.Errorf("checking rename target: %w", err)
	}

	if err := os.Rename(path, renamed); err != nil {
		return "", errors.Errorf("renaming %s: %w", filepath.Base(path), err)
	}

	zerolog.Ctx(ctx).Debug().Str("renamed", renamed).Msg("renamed accepted file")
	return renamed, nil
}

// WriteSidecar writes `<renamed>.metadata` describing renamed
func (g *Generator) WriteSidecar(ctx context.Context, renamed, originalName string) (string, error) {
	info, err := statFile(renamed)
	if err != nil {
		return "", errors.Errorf("stating renamed file: %w", err)
	}

	owner := ""
	if g.identity != nil && info.uid != "" {
		owner, err = g.identity.Username(ctx, info.uid)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("uid", info.uid).Msg("owner lookup failed, leaving it empty")
			owner = ""
		}
	}

	sidecar := SidecarPath(renamed)
	if err := writeFileAtomic(sidecar, []byte(Record(info.created, owner, originalName))); err != nil {
		return "", err
	}
	return sidecar, nil
}

func writeFileAtomic(path string, content []byte) error {
	tempPath := path + ".tmp"

	if err := os.WriteFile(tempPath, content, 0644); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}
