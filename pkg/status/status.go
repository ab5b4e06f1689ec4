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

package status

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LogFileName is the name of the per-directory upload log
const LogFileName = "upload.log"

// TimeLayout is the local time layout used for upload log lines and sidecars
const TimeLayout = "2006-01-02 15:04:05"

// 📊 Outcome is the final state of a single file in a dispatch cycle
type Outcome int

const (
	OutcomeUnknown        Outcome = iota
	OutcomeTransferred            // accepted and shipped, local copies removed
	OutcomeTransferFailed         // accepted but the table's transfer failed
	OutcomeRejected               // header matched no template
	OutcomeFailed                 // read, rename or other local failure
)

// String returns a string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeTransferred:
		return "transferred"
	case OutcomeTransferFailed:
		return "transfer failed"
	case OutcomeRejected:
		return "rejected"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📈 Recorder appends outcome messages to the status log of a directory.
// Implementations must never fail the caller.
type Recorder interface {
	Record(ctx context.Context, dir string, msg string)
}

// 🔧 FileLogOptions configures a FileLog
type FileLogOptions struct {
	// FileName overrides LogFileName
	FileName string
	// Now overrides time.Now
	Now func() time.Time
}

// 📝 FileLog writes `<time> - <message>` lines to `<dir>/upload.log`
type FileLog struct {
	fileName string
	now      func() time.Time

	mu sync.Mutex
}

var _ Recorder = (*FileLog)(nil)

// 🏭 NewFileLog creates a new upload log recorder
func NewFileLog(opts FileLogOptions) *FileLog {
	fl := &FileLog{
		fileName: opts.FileName,
		now:      opts.Now,
	}
	if fl.fileName == "" {
		fl.fileName = LogFileName
	}
	if fl.now == nil {
		fl.now = time.Now
	}
	return fl
}

// Path returns the upload log path for dir
func (f *FileLog) Path(dir string) string {
	return filepath.Join(dir, f.fileName)
}

// Record appends msg to the upload log in dir, creating the file if needed.
// Errors are reported to the context logger only.
func (f *FileLog) Record(ctx context.Context, dir string, msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	logger := zerolog.Ctx(ctx)
	path := f.Path(dir)
	line := fmt.Sprintf("%s - %s\n", f.now().Format(TimeLayout), msg)

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("opening upload log")
		return
	}
	defer file.Close()

	if _, err := file.WriteString(line); err != nil {
		logger.Error().Err(err).Str("path", path).Msg("writing upload log")
		return
	}

	logger.Debug().Str("path", path).Str("message", msg).Msg("upload log updated")
}
