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

// Package dispatch ships grouped table batches and cleans up after them.
package dispatch

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/csvship/pkg/status"
	"github.com/walteh/csvship/pkg/transfer"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Destination is where every table directory lives remotely
type Destination struct {
	User string
	Host string
	Dir  string
}

// 🔧 Options configures a Dispatcher
type Options struct {
	Destination Destination
	Client      transfer.TransferClient
	Recorder    status.Recorder
}

// 📊 FileOutcome is the result for one source file
type FileOutcome struct {
	Table   string
	Source  string
	Outcome status.Outcome
	Err     error
}

// 📈 Report summarises one Dispatch call
type Report struct {
	Succeeded []string // tables
	Failed    []string // tables
	Files     []FileOutcome
}

// 🚚 Dispatcher issues one transfer per table batch
type Dispatcher struct {
	dest     Destination
	client   transfer.TransferClient
	recorder status.Recorder
}

// 🏭 New creates a dispatcher
func New(opts Options) (*Dispatcher, error) {
	if opts.Client == nil {
		return nil, errors.Errorf("transfer client is required")
	}
	if opts.Recorder == nil {
		return nil, errors.Errorf("status recorder is required")
	}
	if opts.Destination.User == "" || opts.Destination.Host == "" || opts.Destination.Dir == "" {
		return nil, errors.Errorf("destination user, host and dir are required")
	}
	return &Dispatcher{
		dest:     opts.Destination,
		client:   opts.Client,
		recorder: opts.Recorder,
	}, nil
}

// Dispatch transfers every batch in order. A failed table never affects the
// others: its files stay on disk and the remaining batches still run.
func (d *Dispatcher) Dispatch(ctx context.Context, batches []*TableBatch) Report {
	var report Report
	for _, b := range batches {
		if b.Len() == 0 {
			continue
		}
		files, err := d.dispatchTable(ctx, b)
		report.Files = append(report.Files, files...)
		if err != nil {
			report.Failed = append(report.Failed, b.Table)
		} else {
			report.Succeeded = append(report.Succeeded, b.Table)
		}
	}
	return report
}

func (d *Dispatcher) dispatchTable(ctx context.Context, b *TableBatch) ([]FileOutcome, error) {
	logger := zerolog.Ctx(ctx).With().Str("table", b.Table).Logger()
	ctx = logger.WithContext(ctx)

	req := transfer.Request{
		User:    d.dest.User,
		Host:    d.dest.Host,
		DestDir: d.dest.Dir,
		Table:   b.Table,
		Paths:   b.TransferPaths(),
	}

	logger.Info().Int("files", b.Len()).Str("target", req.Target()).Msg("transferring table batch")
	err := d.client.Transfer(ctx, req)

	outcomes := make([]FileOutcome, 0, b.Len())
	for _, e := range b.entries {
		dir, name := filepath.Dir(e.Source), filepath.Base(e.Source)
		o := FileOutcome{Table: b.Table, Source: e.Source}

		if err != nil {
			o.Outcome = status.OutcomeTransferFailed
			o.Err = err
			d.recorder.Record(ctx, dir, status.FormatFailed(name, err))
		} else {
			removeLocal(ctx, e.Source, e.Metadata)
			o.Outcome = status.OutcomeTransferred
			d.recorder.Record(ctx, dir, status.FormatSucceeded(name))
		}

		outcomes = append(outcomes, o)
	}

	if err != nil {
		logger.Error().Err(err).Msg("table transfer failed, local files kept")
		return outcomes, errors.Errorf("transferring table %s: %w", b.Table, err)
	}
	return outcomes, nil
}

// removeLocal deletes a shipped source and its sidecar, logging failures
func removeLocal(ctx context.Context, paths ...string) {
	logger := zerolog.Ctx(ctx)
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil {
			logger.Error().Err(err).Str("path", p).Msg("failed to remove shipped file")
			continue
		}
		logger.Debug().Str("path", p).Msg("removed shipped file")
	}
}
