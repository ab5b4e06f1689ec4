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

// Package transfer ships local files to a remote host.
package transfer

import (
	"context"
	"fmt"
	"path"
)

// 🚚 TransferClient copies a set of local files into one remote table directory
// in a single operation. A nil error means every file arrived.
type TransferClient interface {
	Transfer(ctx context.Context, req Request) error
}

// 📦 Request describes one per-table transfer
type Request struct {
	User    string
	Host    string
	DestDir string   // remote base directory
	Table   string   // sub-directory created under DestDir
	Paths   []string // local files, sources then sidecars
}

// RemoteDir is the remote directory the files land in
func (r Request) RemoteDir() string {
	return path.Join(r.DestDir, r.Table)
}

// Target is the `user@host:dir/` destination argument
func (r Request) Target() string {
	return fmt.Sprintf("%s@%s:%s/", r.User, r.Host, r.RemoteDir())
}

// ❌ Error is a failed transfer. Message carries the transfer tool's own
// error text so it can be written to upload logs verbatim.
type Error struct {
	Table   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("transfer of table %s failed", e.Table)
}

func (e *Error) Unwrap() error {
	return e.Err
}
