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

//go:build linux

package metadata

import (
	"strconv"
	"time"

	"golang.org/x/sys/unix"
)

type fileInfo struct {
	created time.Time
	uid     string
}

// statFile prefers the birth time; filesystems without one fall back to mtime
func statFile(path string) (fileInfo, error) {
	var stx unix.Statx_t
	if err := unix.Statx(unix.AT_FDCWD, path, 0, unix.STATX_BTIME|unix.STATX_MTIME|unix.STATX_UID, &stx); err != nil {
		return fileInfo{}, err
	}

	ts := stx.Mtime
	if stx.Mask&unix.STATX_BTIME != 0 && stx.Btime.Sec != 0 {
		ts = stx.Btime
	}

	return fileInfo{
		created: time.Unix(ts.Sec, int64(ts.Nsec)),
		uid:     strconv.FormatUint(uint64(stx.Uid), 10),
	}, nil
}
