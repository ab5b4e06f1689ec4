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

// Package watch turns filesystem notifications under a drop directory into a
// stream of change events for matching files.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultInclude matches csv files at any depth below the root
const DefaultInclude = "**/*.csv"

var (
	// ErrWatch is returned when the watch cannot be established at all
	ErrWatch = errors.Base("establishing directory watch")
	// ErrClosed is returned when starting a watcher that was already closed
	ErrClosed = errors.Base("watcher closed")
)

// 🎨 Kind is the kind of change observed for a path
type Kind int

const (
	Created Kind = iota + 1
	Modified
)

// String returns a string representation of Kind
func (k Kind) String() string {
	switch k {
	case Created:
		return "created"
	case Modified:
		return "modified"
	default:
		return "unknown"
	}
}

// 📄 Event is a single change to a watched file
type Event struct {
	Path string // absolute path
	Kind Kind
}

// 🔧 Option configures a Watcher
type Option func(*Watcher)

// WithInclude sets the doublestar pattern paths must match, relative to the root
func WithInclude(pattern string) Option {
	return func(w *Watcher) {
		w.include = pattern
	}
}

// WithBuffer sets the capacity of the event channel
func WithBuffer(n int) Option {
	return func(w *Watcher) {
		w.buffer = n
	}
}

// 👀 Watcher monitors a directory tree and emits events for matching files
type Watcher struct {
	fs      *fsnotify.Watcher
	root    string
	include string
	buffer  int

	events chan Event
	errors chan error

	mu      sync.Mutex
	started bool
	closed  bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// 🏭 New establishes a recursive watch on root.
// Any failure here wraps ErrWatch and should be treated as fatal.
func New(root string, opts ...Option) (*Watcher, error) {
	w := &Watcher{
		include: DefaultInclude,
		buffer:  256,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	if !doublestar.ValidatePattern(w.include) {
		return nil, errors.Errorf("%w: invalid include pattern %q", ErrWatch, w.include)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Errorf("%w: resolving root: %w", ErrWatch, err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, errors.Errorf("%w: stat root: %w", ErrWatch, err)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("%w: %s is not a directory", ErrWatch, absRoot)
	}
	w.root = absRoot

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Errorf("%w: creating watcher: %w", ErrWatch, err)
	}
	w.fs = fsw

	if err := w.addTree(absRoot); err != nil {
		fsw.Close()
		return nil, errors.Errorf("%w: %w", ErrWatch, err)
	}

	w.events = make(chan Event, w.buffer)
	w.errors = make(chan error, 16)

	return w, nil
}

// Root returns the absolute watched directory
func (w *Watcher) Root() string {
	return w.root
}

// Events returns the stream of matching change events.
// The channel is closed once the watcher stops.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns per-event notification errors. They are never fatal.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// 🏃 Start begins translating notifications until ctx ends or Close is called
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	if w.started {
		return errors.New("watcher already started")
	}
	w.started = true

	w.wg.Add(1)
	go w.loop(ctx)
	return nil
}

// Close stops the watcher; it cannot be restarted
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	started := w.started
	close(w.done)
	w.mu.Unlock()

	err := w.fs.Close()
	if started {
		w.wg.Wait()
	} else {
		close(w.events)
		close(w.errors)
	}
	if err != nil {
		return errors.Errorf("closing watcher: %w", err)
	}
	return nil
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()
	defer close(w.events)
	defer close(w.errors)

	logger := zerolog.Ctx(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			out, ok := w.translate(ctx, ev)
			if !ok {
				continue
			}
			logger.Debug().Str("path", out.Path).Stringer("kind", out.Kind).Msg("csv file event detected")
			select {
			case w.events <- out:
			case <-ctx.Done():
				return
			case <-w.done:
				return
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- errors.Errorf("watch notification: %w", err):
			default:
				logger.Error().Err(err).Msg("watch error dropped, error channel full")
			}
		}
	}
}

// translate maps a raw notification to an Event, reporting false when the
// notification is not one we act on
func (w *Watcher) translate(ctx context.Context, ev fsnotify.Event) (Event, bool) {
	var kind Kind
	switch {
	case ev.Has(fsnotify.Create):
		kind = Created
	case ev.Has(fsnotify.Write):
		kind = Modified
	default:
		return Event{}, false
	}

	path := ev.Name
	if !filepath.IsAbs(path) {
		path = filepath.Join(w.root, path)
	}

	if kind == Created {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.addTree(path); err != nil {
				zerolog.Ctx(ctx).Error().Err(err).Str("path", path).Msg("watching new directory")
			}
			return Event{}, false
		}
	}

	if !w.Matches(path) {
		return Event{}, false
	}
	return Event{Path: path, Kind: kind}, true
}

// Matches reports whether an absolute path under the root passes the include pattern
func (w *Watcher) Matches(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return false
	}
	matched, err := doublestar.Match(w.include, rel)
	return err == nil && matched
}

// addTree watches dir and every directory below it
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Errorf("walking %s: %w", path, err)
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fs.Add(path); err != nil {
			return errors.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}
