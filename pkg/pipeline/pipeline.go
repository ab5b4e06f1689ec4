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

// Package pipeline runs the single loop that turns watcher events into
// debounced, classified and dispatched table batches.
package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/walteh/csvship/pkg/classify"
	"github.com/walteh/csvship/pkg/debounce"
	"github.com/walteh/csvship/pkg/dispatch"
	"github.com/walteh/csvship/pkg/log"
	"github.com/walteh/csvship/pkg/status"
	"github.com/walteh/csvship/pkg/watch"
	"gitlab.com/tozd/go/errors"
)

// DefaultPollInterval is how often the debounce threshold is checked
const DefaultPollInterval = 2 * time.Second

// suppressTTL bounds how long a self-produced path waits for its event
const suppressTTL = time.Minute

// 📡 Source is a stream of change events, normally a *watch.Watcher
type Source interface {
	Events() <-chan watch.Event
	Errors() <-chan error
}

// 🔍 Classifier decides which table a file belongs to
type Classifier interface {
	Classify(ctx context.Context, path string) (classify.Verdict, error)
}

// 🏷️ Generator renames an accepted file and writes its sidecar
type Generator interface {
	Process(ctx context.Context, table, path string) (dispatch.ClassifiedFile, error)
}

// 🚚 Dispatcher ships grouped table batches
type Dispatcher interface {
	Dispatch(ctx context.Context, batches []*dispatch.TableBatch) dispatch.Report
}

// 🔧 Options configures a Pipeline
type Options struct {
	Source     Source
	Classifier Classifier
	Generator  Generator
	Dispatcher Dispatcher
	Recorder   status.Recorder
	// Reporter prints per-file outcomes; optional
	Reporter *log.Logger
	// Root is shown in batch headers
	Root string

	Wait         time.Duration
	PollInterval time.Duration
	// Now defaults to time.Now
	Now func() time.Time
}

// 🔄 Pipeline owns the debounce state and drives every later stage
type Pipeline struct {
	opts       Options
	aggregator *debounce.Aggregator
	now        func() time.Time

	// paths created by our own renames, mapped to when they were created
	suppressed map[string]time.Time
}

// 🏭 New creates a pipeline
func New(opts Options) (*Pipeline, error) {
	switch {
	case opts.Source == nil:
		return nil, errors.Errorf("event source is required")
	case opts.Classifier == nil:
		return nil, errors.Errorf("classifier is required")
	case opts.Generator == nil:
		return nil, errors.Errorf("metadata generator is required")
	case opts.Dispatcher == nil:
		return nil, errors.Errorf("dispatcher is required")
	case opts.Recorder == nil:
		return nil, errors.Errorf("status recorder is required")
	case opts.Wait <= 0:
		return nil, errors.Errorf("debounce wait must be positive, got %s", opts.Wait)
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		opts:       opts,
		aggregator: debounce.New(opts.Wait),
		now:        now,
		suppressed: make(map[string]time.Time),
	}, nil
}

// Pending returns how many events are waiting for the debounce threshold
func (p *Pipeline) Pending() int {
	return p.aggregator.Len()
}

// Run loops until ctx is cancelled or the source closes. A batch still
// waiting for its threshold at that point is dropped.
func (p *Pipeline) Run(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)
	ticker := time.NewTicker(p.opts.PollInterval)
	defer ticker.Stop()

	events := p.opts.Source.Events()
	errs := p.opts.Source.Errors()

	defer func() {
		if n := p.aggregator.Len(); n > 0 {
			logger.Warn().Int("events", n).Msg("discarding events still waiting for the debounce threshold")
			p.warnf("discarding %d events still waiting for the debounce threshold", n)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("pipeline stopping")
			return nil

		case ev, ok := <-events:
			if !ok {
				logger.Info().Msg("event stream closed, pipeline stopping")
				return nil
			}
			p.Observe(ctx, ev)

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Error().Err(err).Msg("watch notification error")
			p.warnf("watch notification error: %v", err)

		case <-ticker.C:
			p.Tick(ctx)
		}
	}
}

// Observe feeds one event to the aggregator unless our own rename produced it.
// It reports whether the event was accepted.
func (p *Pipeline) Observe(ctx context.Context, ev watch.Event) bool {
	if _, ok := p.suppressed[ev.Path]; ok {
		delete(p.suppressed, ev.Path)
		zerolog.Ctx(ctx).Debug().Str("path", ev.Path).Msg("ignoring event from our own rename")
		return false
	}
	p.aggregator.Observe(ev, p.now())
	zerolog.Ctx(ctx).Debug().Str("path", ev.Path).Stringer("kind", ev.Kind).Int("pending", p.aggregator.Len()).Msg("event observed")
	return true
}

// Tick flushes and processes the pending batch once the threshold has passed
func (p *Pipeline) Tick(ctx context.Context) {
	now := p.now()
	for path, at := range p.suppressed {
		if now.Sub(at) > suppressTTL {
			delete(p.suppressed, path)
		}
	}

	batch, ok := p.aggregator.Poll(now)
	if !ok {
		return
	}
	p.ProcessBatch(ctx, batch)
}

// ProcessBatch classifies, renames and dispatches one debounced batch.
// A batch that has started runs to completion even if ctx is cancelled.
func (p *Pipeline) ProcessBatch(ctx context.Context, batch debounce.Batch) dispatch.Report {
	ctx = context.WithoutCancel(ctx)
	id := uuid.NewString()
	logger := zerolog.Ctx(ctx).With().Str("batch", id).Logger()
	ctx = logger.WithContext(ctx)

	if p.opts.Reporter != nil {
		p.opts.Reporter.StartBatch(ctx, log.BatchInfo{ID: id, Root: p.opts.Root, Events: len(batch)})
		defer p.summarize(ctx)
	}

	var accepted []dispatch.ClassifiedFile
	for _, ev := range batch {
		cf, ok := p.prepare(ctx, ev.Path)
		if ok {
			accepted = append(accepted, cf)
		}
	}

	if len(accepted) == 0 {
		logger.Debug().Int("events", len(batch)).Msg("no accepted files in batch")
		return dispatch.Report{}
	}

	report := p.opts.Dispatcher.Dispatch(ctx, dispatch.Group(accepted))

	// rename events are still queued behind the transfer, so the suppression
	// window starts once it returns
	done := p.now()
	for _, cf := range accepted {
		p.suppressed[cf.Source] = done
	}

	for _, f := range report.Files {
		o := log.FileOutcome{Path: filepath.Base(f.Source), Table: f.Table, Outcome: f.Outcome}
		if f.Err != nil {
			o.Detail = f.Err.Error()
		}
		p.report(ctx, o)
	}

	logger.Info().
		Strs("succeeded", report.Succeeded).
		Strs("failed", report.Failed).
		Msg("batch dispatched")
	return report
}

// prepare runs classification and metadata for one file
func (p *Pipeline) prepare(ctx context.Context, path string) (dispatch.ClassifiedFile, bool) {
	logger := zerolog.Ctx(ctx).With().Str("path", path).Logger()
	ctx = logger.WithContext(ctx)
	dir, name := filepath.Dir(path), filepath.Base(path)

	verdict, err := p.opts.Classifier.Classify(ctx, path)
	if err != nil {
		logger.Error().Err(err).Msg("classification failed")
		p.opts.Recorder.Record(ctx, dir, status.FormatFailed(name, err))
		p.report(ctx, log.FileOutcome{Path: name, Outcome: status.OutcomeFailed, Detail: err.Error()})
		return dispatch.ClassifiedFile{}, false
	}

	switch verdict.Status {
	case classify.Vanished:
		logger.Debug().Msg("file vanished before classification")
		return dispatch.ClassifiedFile{}, false
	case classify.Rejected:
		logger.Warn().Str("header", verdict.Header).Msg("no matching table headers found")
		p.opts.Recorder.Record(ctx, dir, status.FormatFailed(name, verdict.Reason))
		p.report(ctx, log.FileOutcome{Path: name, Outcome: status.OutcomeRejected, Detail: verdict.Reason.Error()})
		return dispatch.ClassifiedFile{}, false
	}

	cf, err := p.opts.Generator.Process(ctx, verdict.Table, path)
	if err != nil {
		logger.Error().Err(err).Str("table", verdict.Table).Msg("preparing accepted file failed")
		p.opts.Recorder.Record(ctx, dir, status.FormatFailed(name, err))
		p.report(ctx, log.FileOutcome{Path: name, Table: verdict.Table, Outcome: status.OutcomeFailed, Detail: err.Error()})
		return dispatch.ClassifiedFile{}, false
	}

	return cf, true
}

// summarize closes the reporter's batch with a one-line tally
func (p *Pipeline) summarize(ctx context.Context) {
	r := p.opts.Reporter
	counts := r.EndBatch(ctx)
	transferred := counts[status.OutcomeTransferred]
	kept := counts[status.OutcomeTransferFailed]
	rejected := counts[status.OutcomeRejected]
	failed := counts[status.OutcomeFailed]

	if kept+rejected+failed == 0 {
		r.Successf("%d files transferred", transferred)
	} else {
		r.Warningf("%d transferred, %d kept for retry, %d rejected, %d failed", transferred, kept, rejected, failed)
	}
	r.LogNewline()
}

func (p *Pipeline) warnf(format string, args ...interface{}) {
	if p.opts.Reporter != nil {
		p.opts.Reporter.Warningf(format, args...)
	}
}

func (p *Pipeline) report(ctx context.Context, o log.FileOutcome) {
	if p.opts.Reporter != nil {
		p.opts.Reporter.LogOutcome(ctx, o)
	}
}
