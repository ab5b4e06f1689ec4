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

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/csvship/gen/mockery"
	"github.com/walteh/csvship/pkg/status"
	"github.com/walteh/csvship/pkg/transfer"
	"gitlab.com/tozd/go/errors"
)

var testDest = Destination{User: "loader", Host: "warehouse.internal", Dir: "/data/incoming"}

func TestGroup(t *testing.T) {
	files := []ClassifiedFile{
		{Table: "orders", Source: "/drop/orders_1.csv", Metadata: "/drop/orders_1.csv.metadata"},
		{Table: "customers", Source: "/drop/customers_1.csv", Metadata: "/drop/customers_1.csv.metadata"},
		{Table: "orders", Source: "/drop/orders_2.csv", Metadata: ""},
	}

	batches := Group(files)
	require.Len(t, batches, 2)

	assert.Equal(t, "orders", batches[0].Table)
	assert.Equal(t, []string{"/drop/orders_1.csv", "/drop/orders_2.csv"}, batches[0].Sources())
	assert.Equal(t, []string{"/drop/orders_1.csv.metadata", ""}, batches[0].Metadata())
	assert.Equal(t, []string{"/drop/orders_1.csv", "/drop/orders_2.csv", "/drop/orders_1.csv.metadata"}, batches[0].TransferPaths())

	assert.Equal(t, "customers", batches[1].Table)
	assert.Equal(t, 1, batches[1].Len())

	total := 0
	for _, b := range batches {
		assert.Len(t, b.Metadata(), b.Len(), "sources and sidecars stay aligned")
		total += b.Len()
	}
	assert.Equal(t, len(files), total, "every file lands in exactly one batch")

	assert.Empty(t, Group(nil))
}

func TestNew(t *testing.T) {
	client := mockery.NewMockTransferClient_transfer(t)
	rec := mockery.NewMockRecorder_status(t)

	tests := []struct {
		name string
		opts Options
	}{
		{name: "missing_client", opts: Options{Recorder: rec, Destination: testDest}},
		{name: "missing_recorder", opts: Options{Client: client, Destination: testDest}},
		{name: "missing_host", opts: Options{Client: client, Recorder: rec, Destination: Destination{User: "u", Dir: "/d"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts)
			assert.Error(t, err)
		})
	}
}

// dropFiles creates renamed sources and sidecars for table in dir
func dropFiles(t *testing.T, dir, table string, names ...string) []ClassifiedFile {
	t.Helper()
	var out []ClassifiedFile
	for _, n := range names {
		src := filepath.Join(dir, n)
		meta := src + ".metadata"
		require.NoError(t, os.WriteFile(src, []byte("id,amount,date\n1,2,3\n"), 0644))
		require.NoError(t, os.WriteFile(meta, []byte("2025-01-02 03:04:05,loader,"+n), 0644))
		out = append(out, ClassifiedFile{Table: table, Source: src, Metadata: meta})
	}
	return out
}

func TestDispatch(t *testing.T) {
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

	t.Run("success_deletes_and_logs_each_file", func(t *testing.T) {
		dir := t.TempDir()
		files := dropFiles(t, dir, "orders", "orders_1.csv", "orders_2.csv")

		client := mockery.NewMockTransferClient_transfer(t)
		client.EXPECT().Transfer(mock.Anything, mock.MatchedBy(func(r transfer.Request) bool {
			return r.Table == "orders" && len(r.Paths) == 4 && r.RemoteDir() == "/data/incoming/orders"
		})).Return(nil).Once()

		rec := mockery.NewMockRecorder_status(t)
		rec.EXPECT().Record(mock.Anything, dir, "Upload succeeded! File: orders_1.csv").Once()
		rec.EXPECT().Record(mock.Anything, dir, "Upload succeeded! File: orders_2.csv").Once()

		d, err := New(Options{Destination: testDest, Client: client, Recorder: rec})
		require.NoError(t, err)

		report := d.Dispatch(ctx, Group(files))
		assert.Equal(t, []string{"orders"}, report.Succeeded)
		assert.Empty(t, report.Failed)
		require.Len(t, report.Files, 2)
		assert.Equal(t, status.OutcomeTransferred, report.Files[0].Outcome)

		for _, f := range files {
			assert.NoFileExists(t, f.Source)
			assert.NoFileExists(t, f.Metadata)
		}
	})

	t.Run("failure_keeps_files_and_logs_reason", func(t *testing.T) {
		dir := t.TempDir()
		files := dropFiles(t, dir, "orders", "orders_1.csv")

		terr := &transfer.Error{Table: "orders", Message: "rsync: connection unexpectedly closed"}
		client := mockery.NewMockTransferClient_transfer(t)
		client.EXPECT().Transfer(mock.Anything, mock.Anything).Return(terr).Once()

		rec := mockery.NewMockRecorder_status(t)
		rec.EXPECT().Record(mock.Anything, dir, "Upload failed! File: orders_1.csv Reason: rsync: connection unexpectedly closed").Once()

		d, err := New(Options{Destination: testDest, Client: client, Recorder: rec})
		require.NoError(t, err)

		report := d.Dispatch(ctx, Group(files))
		assert.Equal(t, []string{"orders"}, report.Failed)
		require.Len(t, report.Files, 1)
		assert.Equal(t, status.OutcomeTransferFailed, report.Files[0].Outcome)
		assert.True(t, errors.Is(report.Files[0].Err, terr))

		assert.FileExists(t, files[0].Source)
		assert.FileExists(t, files[0].Metadata)
	})

	t.Run("failures_are_isolated_per_table", func(t *testing.T) {
		dir := t.TempDir()
		orders := dropFiles(t, dir, "orders", "orders_1.csv")
		customers := dropFiles(t, dir, "customers", "customers_1.csv")

		client := mockery.NewMockTransferClient_transfer(t)
		client.EXPECT().Transfer(mock.Anything, mock.MatchedBy(func(r transfer.Request) bool { return r.Table == "orders" })).
			Return(errors.New("mkdir: permission denied")).Once()
		client.EXPECT().Transfer(mock.Anything, mock.MatchedBy(func(r transfer.Request) bool { return r.Table == "customers" })).
			Return(nil).Once()

		d, err := New(Options{
			Destination: testDest,
			Client:      client,
			Recorder:    status.NewFileLog(status.FileLogOptions{}),
		})
		require.NoError(t, err)

		report := d.Dispatch(ctx, Group(append(orders, customers...)))
		assert.Equal(t, []string{"customers"}, report.Succeeded)
		assert.Equal(t, []string{"orders"}, report.Failed)
		require.Len(t, report.Files, 2)
		assert.Equal(t, status.OutcomeTransferFailed, report.Files[0].Outcome)
		assert.Equal(t, status.OutcomeTransferred, report.Files[1].Outcome)

		assert.FileExists(t, orders[0].Source)
		assert.NoFileExists(t, customers[0].Source)

		data, err := os.ReadFile(filepath.Join(dir, status.LogFileName))
		require.NoError(t, err)
		assert.Contains(t, string(data), "Upload failed! File: orders_1.csv Reason: mkdir: permission denied")
		assert.Contains(t, string(data), "Upload succeeded! File: customers_1.csv")
	})

	t.Run("missing_sidecar_still_transfers", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "orders_1.csv")
		require.NoError(t, os.WriteFile(src, []byte("id\n"), 0644))

		client := mockery.NewMockTransferClient_transfer(t)
		client.EXPECT().Transfer(mock.Anything, mock.MatchedBy(func(r transfer.Request) bool {
			return assert.ObjectsAreEqual([]string{src}, r.Paths)
		})).Return(nil).Once()

		rec := mockery.NewMockRecorder_status(t)
		rec.EXPECT().Record(mock.Anything, dir, mock.Anything).Once()

		d, err := New(Options{Destination: testDest, Client: client, Recorder: rec})
		require.NoError(t, err)

		report := d.Dispatch(ctx, Group([]ClassifiedFile{{Table: "orders", Source: src}}))
		assert.Equal(t, []string{"orders"}, report.Succeeded)
		assert.NoFileExists(t, src)
	})
}
