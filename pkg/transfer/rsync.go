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

package transfer

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/alessio/shellescape"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const (
	DefaultRsyncBinary = "rsync"
	DefaultPartialDir  = "tmp"
)

// 🔧 RsyncOptions configures the rsync client
type RsyncOptions struct {
	// Binary is the rsync executable, DefaultRsyncBinary if empty
	Binary string
	// PartialDir is the staging dir for partially transferred files
	PartialDir string
	// ExtraArgs are inserted before the file list, e.g. --timeout=60
	ExtraArgs []string
}

// 🔄 Rsync transfers files by running rsync over ssh.
// The remote table directory is created by the remote side before the copy.
type Rsync struct {
	binary     string
	partialDir string
	extraArgs  []string
}

var _ TransferClient = (*Rsync)(nil)

// 🏭 NewRsync creates an rsync client
func NewRsync(opts RsyncOptions) *Rsync {
	r := &Rsync{
		binary:     opts.Binary,
		partialDir: opts.PartialDir,
		extraArgs:  opts.ExtraArgs,
	}
	if r.binary == "" {
		r.binary = DefaultRsyncBinary
	}
	if r.partialDir == "" {
		r.partialDir = DefaultPartialDir
	}
	return r
}

// Args builds the rsync argument list for req
func (r *Rsync) Args(req Request) []string {
	mkdir := "mkdir -p " + shellescape.Quote(req.RemoteDir()) + " && rsync"

	args := []string{
		"-aLvz",
		"--partial-dir=" + r.partialDir,
		"--rsync-path=" + mkdir,
	}
	args = append(args, r.extraArgs...)
	args = append(args, req.Paths...)
	args = append(args, req.Target())
	return args
}

// Binary returns the rsync executable this client runs
func (r *Rsync) Binary() string {
	return r.binary
}

// Version runs `rsync --version` and returns its first line
func (r *Rsync) Version(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, r.binary, "--version").Output()
	if err != nil {
		return "", errors.Errorf("running %s --version: %w", r.binary, err)
	}
	first, _, _ := strings.Cut(string(out), "\n")
	return strings.Join(strings.Fields(first), " "), nil
}

// Transfer runs one rsync invocation covering every path in req
func (r *Rsync) Transfer(ctx context.Context, req Request) error {
	if len(req.Paths) == 0 {
		return errors.Errorf("no files to transfer for table %s", req.Table)
	}

	args := r.Args(req)
	logger := zerolog.Ctx(ctx).With().Str("table", req.Table).Logger()
	logger.Info().Str("command", r.binary+" "+strings.Join(args, " ")).Msg("running rsync command")

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		logger.Error().Err(err).Str("stderr", msg).Msg("rsync failed")
		return &Error{Table: req.Table, Message: msg, Err: errors.Errorf("running %s: %w", r.binary, err)}
	}

	logger.Info().Str("stdout", strings.TrimSpace(stdout.String())).Msg("rsync succeeded")
	return nil
}
