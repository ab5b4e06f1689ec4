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

// Package debounce coalesces bursts of change events into batches that are
// released only after a quiet period.
package debounce

import (
	"time"

	"github.com/walteh/csvship/pkg/watch"
)

// State of an Aggregator
type State int

const (
	Idle         State = iota // nothing pending
	Accumulating              // at least one event pending
)

func (s State) String() string {
	if s == Accumulating {
		return "accumulating"
	}
	return "idle"
}

// Batch is the ordered set of events released in one cycle
type Batch []watch.Event

// Paths returns the event paths in order
func (b Batch) Paths() []string {
	out := make([]string, len(b))
	for i, ev := range b {
		out[i] = ev.Path
	}
	return out
}

// ⏳ Aggregator buffers events until no new event has been seen for longer
// than the wait threshold. Timestamps come from the caller. It is not safe
// for concurrent use; the pipeline loop owns it.
type Aggregator struct {
	wait    time.Duration
	pending Batch
	index   map[string]int
	last    time.Time
}

// 🏭 New creates an idle aggregator
func New(wait time.Duration) *Aggregator {
	return &Aggregator{
		wait:  wait,
		index: make(map[string]int),
	}
}

// Wait returns the configured quiet period
func (a *Aggregator) Wait() time.Duration {
	return a.wait
}

// State reports whether anything is pending
func (a *Aggregator) State() State {
	if len(a.pending) == 0 {
		return Idle
	}
	return Accumulating
}

// Len returns the number of pending events
func (a *Aggregator) Len() int {
	return len(a.pending)
}

// LastEvent returns the time of the most recent observation
func (a *Aggregator) LastEvent() time.Time {
	return a.last
}

// Observe buffers ev seen at time at. A repeat event for a path already
// pending keeps its original position but still restarts the quiet period.
func (a *Aggregator) Observe(ev watch.Event, at time.Time) {
	if _, ok := a.index[ev.Path]; !ok {
		a.index[ev.Path] = len(a.pending)
		a.pending = append(a.pending, ev)
	}
	a.last = at
}

// Ready reports whether a batch is pending and the quiet period has passed
func (a *Aggregator) Ready(now time.Time) bool {
	return len(a.pending) > 0 && now.Sub(a.last) > a.wait
}

// Flush returns everything pending and resets to Idle
func (a *Aggregator) Flush() Batch {
	out := a.pending
	a.pending = nil
	a.index = make(map[string]int)
	return out
}

// Poll flushes and returns the pending batch if it is ready
func (a *Aggregator) Poll(now time.Time) (Batch, bool) {
	if !a.Ready(now) {
		return nil, false
	}
	return a.Flush(), true
}
