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

package watch

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

func startWatcher(t *testing.T, root string, opts ...Option) *Watcher {
	t.Helper()
	ctx, cancel := context.WithCancel(zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background()))
	t.Cleanup(cancel)

	w, err := New(root, opts...)
	require.NoError(t, err, "creating watcher")
	t.Cleanup(func() { w.Close() })
	require.NoError(t, w.Start(ctx), "starting watcher")
	return w
}

// waitFor drains events until one for path arrives or the deadline passes
func waitFor(t *testing.T, w *Watcher, path string) (Event, bool) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-w.Events():
			if !ok {
				return Event{}, false
			}
			if ev.Path == path {
				return ev, true
			}
		case <-deadline:
			return Event{}, false
		}
	}
}

func TestNewErrors(t *testing.T) {
	t.Run("missing_root", func(t *testing.T) {
		_, err := New(filepath.Join(t.TempDir(), "missing"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrWatch), "should wrap ErrWatch")
	})

	t.Run("root_is_file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file.csv")
		require.NoError(t, os.WriteFile(file, nil, 0644))
		_, err := New(file)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrWatch))
		assert.Contains(t, err.Error(), "is not a directory")
	})

	t.Run("invalid_include", func(t *testing.T) {
		_, err := New(t.TempDir(), WithInclude("[unterminated"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrWatch))
	})
}

func TestMatches(t *testing.T) {
	root := t.TempDir()
	w, err := New(root)
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "top_level_csv", path: filepath.Join(root, "orders.csv"), want: true},
		{name: "nested_csv", path: filepath.Join(root, "a", "b", "orders.csv"), want: true},
		{name: "metadata_sidecar", path: filepath.Join(root, "orders.csv.metadata"), want: false},
		{name: "upload_log", path: filepath.Join(root, "upload.log"), want: false},
		{name: "upper_case_extension", path: filepath.Join(root, "orders.CSV"), want: false},
		{name: "outside_root", path: filepath.Join(filepath.Dir(root), "x.csv"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.Matches(tt.path))
		})
	}
}

func TestWatcherEmitsCsvEvents(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root)

	ignored := filepath.Join(root, "notes.txt")
	require.NoError(t, os.WriteFile(ignored, []byte("x"), 0644))

	csv := filepath.Join(root, "orders.csv")
	require.NoError(t, os.WriteFile(csv, []byte("id,amount,date\n"), 0644))

	ev, ok := waitFor(t, w, csv)
	require.True(t, ok, "expected an event for %s", csv)
	assert.Equal(t, Created, ev.Kind)
}

func TestWatcherFollowsNewDirectories(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root)

	sub := filepath.Join(root, "incoming")
	require.NoError(t, os.Mkdir(sub, 0755))

	csv := filepath.Join(sub, "orders.csv")
	// the directory watch is added asynchronously, keep touching the file
	// until the watcher reports it
	found := make(chan Event, 1)
	go func() {
		if ev, ok := waitFor(t, w, csv); ok {
			found <- ev
		}
		close(found)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		require.NoError(t, os.WriteFile(csv, []byte("id\n"), 0644))
		select {
		case ev, ok := <-found:
			require.True(t, ok, "watcher stopped before reporting %s", csv)
			assert.Equal(t, csv, ev.Path)
			return
		case <-time.After(100 * time.Millisecond):
		}
	}
	t.Fatalf("no event for %s", csv)
}

func TestWatcherIsNotRestartable(t *testing.T) {
	w, err := New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	err = w.Start(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrClosed))

	_, ok := <-w.Events()
	assert.False(t, ok, "events channel should be closed")
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "created", Created.String())
	assert.Equal(t, "modified", Modified.String())
	assert.Equal(t, "unknown", Kind(0).String())
}
