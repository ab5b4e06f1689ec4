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

// Package classify decides which destination table a dropped CSV file
// belongs to by matching its header row against the registry.
package classify

import (
	"bufio"
	"context"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// MaxHeaderBytes caps how much of a file is read looking for the header row
const MaxHeaderBytes = 1 << 20

var (
	// ErrNoMatchingSchema is the rejection reason for headers no template knows
	ErrNoMatchingSchema = errors.Base("No matching table headers found.")
	// ErrHeaderTooLong is returned when no line break appears within MaxHeaderBytes
	ErrHeaderTooLong = errors.Base("header row too long")
)

// 📊 Status of a classification
type Status int

const (
	Accepted Status = iota + 1
	Rejected
	Vanished // file disappeared before it could be read
)

// String returns a string representation of Status
func (s Status) String() string {
	switch s {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	case Vanished:
		return "vanished"
	default:
		return "unknown"
	}
}

// 🎯 Verdict is the result of classifying one file
type Verdict struct {
	Status Status
	Table  string // set when Accepted
	Header string // first line without its terminator
	Reason error  // set when Rejected
}

// 🔍 Matcher looks up a header line
type Matcher interface {
	Lookup(header string) (table string, ok bool)
}

// Classifier matches file headers against a Matcher
type Classifier struct {
	matcher Matcher
}

// 🏭 New creates a classifier backed by m
func New(m Matcher) *Classifier {
	return &Classifier{matcher: m}
}

// Classify reads the first line of path and resolves its table.
// A missing file yields a Vanished verdict rather than an error; other read
// failures are returned.
func (c *Classifier) Classify(ctx context.Context, path string) (Verdict, error) {
	logger := zerolog.Ctx(ctx).With().Str("path", path).Logger()

	header, err := FirstLine(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug().Msg("file vanished before classification")
			return Verdict{Status: Vanished}, nil
		}
		return Verdict{}, errors.Errorf("reading header: %w", err)
	}

	logger.Debug().Str("header", header).Msg("csv header read")

	table, ok := c.matcher.Lookup(header)
	if !ok {
		logger.Info().Msg("no matching table headers found, ignoring csv file")
		return Verdict{Status: Rejected, Header: header, Reason: ErrNoMatchingSchema}, nil
	}

	logger.Info().Str("table", table).Msg("matching table headers found")
	return Verdict{Status: Accepted, Table: table, Header: header}, nil
}

// FirstLine returns the first line of the file without its line terminator.
// An empty file yields an empty string. At most MaxHeaderBytes are read.
func FirstLine(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	line, err := bufio.NewReader(io.LimitReader(f, MaxHeaderBytes+1)).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	if !strings.HasSuffix(line, "\n") && len(line) > MaxHeaderBytes {
		return "", errors.Errorf("%w: no line break in the first %d bytes", ErrHeaderTooLong, MaxHeaderBytes)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
