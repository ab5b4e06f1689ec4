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

package dispatch

// 📄 ClassifiedFile is an accepted, renamed file ready to ship
type ClassifiedFile struct {
	Table    string
	Source   string // renamed source path
	Metadata string // sidecar path, empty when it could not be written
}

// Entry pairs a source file with its sidecar
type Entry struct {
	Source   string
	Metadata string
}

// 📦 TableBatch holds every file of one table in a dispatch cycle.
// Sources and sidecars are stored as pairs so they cannot drift apart.
type TableBatch struct {
	Table   string
	entries []Entry
}

// Add appends a source and its sidecar (may be empty)
func (b *TableBatch) Add(source, metadata string) {
	b.entries = append(b.entries, Entry{Source: source, Metadata: metadata})
}

// Entries returns the pairs in insertion order
func (b *TableBatch) Entries() []Entry {
	return append([]Entry(nil), b.entries...)
}

// Len returns the number of source files
func (b *TableBatch) Len() int {
	return len(b.entries)
}

// Sources returns the source paths in order
func (b *TableBatch) Sources() []string {
	out := make([]string, len(b.entries))
	for i, e := range b.entries {
		out[i] = e.Source
	}
	return out
}

// Metadata returns the sidecar paths aligned with Sources; missing sidecars are ""
func (b *TableBatch) Metadata() []string {
	out := make([]string, len(b.entries))
	for i, e := range b.entries {
		out[i] = e.Metadata
	}
	return out
}

// TransferPaths lists every source followed by every existing sidecar
func (b *TableBatch) TransferPaths() []string {
	out := make([]string, 0, 2*len(b.entries))
	out = append(out, b.Sources()...)
	for _, e := range b.entries {
		if e.Metadata != "" {
			out = append(out, e.Metadata)
		}
	}
	return out
}

// 🗂️ Group partitions files by table, tables ordered by first appearance
func Group(files []ClassifiedFile) []*TableBatch {
	var batches []*TableBatch
	byTable := make(map[string]*TableBatch)
	for _, f := range files {
		b, ok := byTable[f.Table]
		if !ok {
			b = &TableBatch{Table: f.Table}
			byTable[f.Table] = b
			batches = append(batches, b)
		}
		b.Add(f.Source, f.Metadata)
	}
	return batches
}
