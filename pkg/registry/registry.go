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

// Package registry maps CSV header signatures to destination table names.
//
// Templates live in a single directory. Each template file is named
// `<table>_template[.ext]` and its first line is the exact header row that
// files destined for `<table>` must carry.
package registry

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// TemplateSuffix must end the stem of every template file name
const TemplateSuffix = "_template"

// ErrTemplates is the base error for an unusable template directory
var ErrTemplates = errors.Base("loading header templates")

// 📚 Entry is one signature → table mapping
type Entry struct {
	Signature string
	Table     string
	Source    string // template file the entry came from
}

// 🗺️ Registry is an immutable header signature → table lookup
type Registry struct {
	entries map[string]Entry
}

// Signature normalises a header line for lookup: surrounding whitespace is
// trimmed and every trailing delimiter is dropped, so exports with empty
// trailing columns match their template.
func Signature(line string) string {
	return strings.TrimRight(strings.TrimSpace(line), ",")
}

// TableName derives the table identifier from a template file name.
// ok is false when the stem does not carry TemplateSuffix.
func TableName(fileName string) (string, bool) {
	stem := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	table, ok := strings.CutSuffix(stem, TemplateSuffix)
	if !ok || table == "" {
		return "", false
	}
	return table, true
}

// 🎯 New builds a registry from explicit entries, last write wins
func New(entries ...Entry) *Registry {
	r := &Registry{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		e.Signature = Signature(e.Signature)
		r.entries[e.Signature] = e
	}
	return r
}

// 🏭 Load reads every template in dir.
// Unreadable directories and files are fatal, misnamed files are skipped.
func Load(ctx context.Context, dir string) (*Registry, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("dir", dir).Msg("loading header templates")

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Errorf("%w: reading template dir %s: %w", ErrTemplates, dir, err)
	}

	r := &Registry{entries: make(map[string]Entry, len(dirEntries))}
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}

		table, ok := TableName(de.Name())
		if !ok {
			logger.Warn().Str("file", de.Name()).Msgf("template name has no %s suffix, skipping", TemplateSuffix)
			continue
		}

		path := filepath.Join(dir, de.Name())
		header, err := readHeader(path)
		if err != nil {
			return nil, errors.Errorf("%w: reading template %s: %w", ErrTemplates, path, err)
		}

		sig := Signature(header)
		if prev, exists := r.entries[sig]; exists {
			logger.Warn().
				Str("signature", sig).
				Str("previous", prev.Table).
				Str("table", table).
				Msg("duplicate header signature, last template wins")
		}
		r.entries[sig] = Entry{Signature: sig, Table: table, Source: path}
		logger.Debug().Str("table", table).Str("signature", sig).Msg("template loaded")
	}

	logger.Info().Int("templates", len(r.entries)).Str("dir", dir).Msg("header templates loaded")
	return r, nil
}

// readHeader returns the first non-blank line of a template
func readHeader(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	for {
		line, err := br.ReadString('\n')
		if strings.TrimSpace(line) != "" {
			return line, nil
		}
		if err == io.EOF {
			return "", nil
		}
		if err != nil {
			return "", err
		}
	}
}

// Lookup returns the table for a header line
func (r *Registry) Lookup(header string) (string, bool) {
	e, ok := r.entries[Signature(header)]
	return e.Table, ok
}

// Len returns the number of known signatures
func (r *Registry) Len() int {
	return len(r.entries)
}

// Entries returns all mappings ordered by table then signature
func (r *Registry) Entries() []Entry {
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Table != out[j].Table {
			return out[i].Table < out[j].Table
		}
		return out[i].Signature < out[j].Signature
	})
	return out
}
