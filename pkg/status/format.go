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
	"fmt"
	"strings"
)

// 🎯 FormatSucceeded formats the upload log message for a shipped file
func FormatSucceeded(name string) string {
	return fmt.Sprintf("Upload succeeded! File: %s", name)
}

// 🎯 FormatFailed formats the upload log message for a file that was not shipped.
// Multi-line reasons (rsync stderr) are folded so each outcome stays on one line.
func FormatFailed(name string, reason error) string {
	if reason == nil {
		return fmt.Sprintf("Upload failed! File: %s", name)
	}
	return fmt.Sprintf("Upload failed! File: %s Reason: %s", name, foldLines(reason.Error()))
}

func foldLines(s string) string {
	lines := strings.FieldsFunc(s, func(r rune) bool {
		return r == '\n' || r == '\r'
	})
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, " | ")
}
