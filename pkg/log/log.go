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

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/csvship/pkg/status"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	tableWidth  = 15 // Width for table name
	statusWidth = 15 // Width for status text
)

// 🎯 FileOutcome is one file's line in the console report
type FileOutcome struct {
	Path    string         // File path, as shown
	Table   string         // Destination table, empty when rejected
	Outcome status.Outcome // Final outcome
	Detail  string         // Optional reason
}

// 📦 BatchInfo describes a dispatch cycle for logging
type BatchInfo struct {
	ID     string // Batch id
	Root   string // Watched directory
	Events int    // Number of debounced events
}

// 🎯 Logger prints per-file outcomes to the console and mirrors them to zerolog
type Logger struct {
	zlog     zerolog.Logger
	console  io.Writer
	mu       sync.Mutex
	current  *BatchInfo
	outcomes []FileOutcome
}

// 🏭 New creates a new logger
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 📝 formatOutcome formats a file outcome for display
func (l *Logger) formatOutcome(o FileOutcome) string {
	var symbol rune
	var symbolColor color.Attribute
	switch o.Outcome {
	case status.OutcomeTransferred:
		symbol = '✓'
		symbolColor = color.FgGreen
	case status.OutcomeTransferFailed:
		symbol = '⟳'
		symbolColor = color.FgYellow
	case status.OutcomeRejected:
		symbol = '-'
		symbolColor = color.FgBlue
	case status.OutcomeFailed:
		symbol = '✗'
		symbolColor = color.FgRed
	default:
		symbol = '•'
		symbolColor = color.FgCyan
	}

	table := o.Table
	if table == "" {
		table = "none"
	}

	line := fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, o.Path),
		color.New(color.FgCyan).Sprint(fmt.Sprintf("%-*s", tableWidth, table)),
		fmt.Sprintf("%-*s", statusWidth, o.Outcome.String()))
	if o.Detail != "" {
		line += color.New(color.Faint).Sprint(o.Detail)
	}
	return line
}

// 📝 LogOutcome logs a file outcome
func (l *Logger) LogOutcome(ctx context.Context, o FileOutcome) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.outcomes = append(l.outcomes, o)

	fmt.Fprintln(l.console, l.formatOutcome(o))

	ev := l.zlog.Info()
	if o.Outcome != status.OutcomeTransferred {
		ev = l.zlog.Warn()
	}
	if l.current != nil {
		ev = ev.Str("batch", l.current.ID)
	}
	ev.Str("file", o.Path).
		Str("table", o.Table).
		Str("outcome", o.Outcome.String()).
		Str("detail", o.Detail).
		Msg("file outcome")
}

// 📝 StartBatch starts a new dispatch cycle
func (l *Logger) StartBatch(ctx context.Context, b BatchInfo) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.current = &b
	l.outcomes = nil

	fmt.Fprintf(l.console, "[dispatching %s]\n",
		color.New(color.FgCyan).Sprint(b.Root))

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(b.ID),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprintf("%d events", b.Events))

	l.zlog.Info().
		Str("batch", b.ID).
		Str("root", b.Root).
		Int("events", b.Events).
		Msg("starting batch")
}

// 📝 EndBatch ends the current batch and returns its outcome counts
func (l *Logger) EndBatch(ctx context.Context) map[status.Outcome]int {
	l.mu.Lock()
	defer l.mu.Unlock()

	counts := make(map[status.Outcome]int)
	if l.current == nil {
		return counts
	}
	for _, o := range l.outcomes {
		counts[o.Outcome]++
	}

	l.zlog.Info().
		Str("batch", l.current.ID).
		Int("files", len(l.outcomes)).
		Int("transferred", counts[status.OutcomeTransferred]).
		Int("transfer_failed", counts[status.OutcomeTransferFailed]).
		Int("rejected", counts[status.OutcomeRejected]).
		Int("failed", counts[status.OutcomeFailed]).
		Msg("batch complete")

	l.current = nil
	l.outcomes = nil
	return counts
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("csvship")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
