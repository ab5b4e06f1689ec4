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

package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/csvship/cmd/csvship/opts"
	"github.com/walteh/csvship/pkg/classify"
	"github.com/walteh/csvship/pkg/dispatch"
	"github.com/walteh/csvship/pkg/log"
	"github.com/walteh/csvship/pkg/metadata"
	"github.com/walteh/csvship/pkg/pipeline"
	"github.com/walteh/csvship/pkg/registry"
	"github.com/walteh/csvship/pkg/status"
	"github.com/walteh/csvship/pkg/transfer"
	"github.com/walteh/csvship/pkg/watch"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// NewWatchCmd creates the long-running watch command
func NewWatchCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the drop directory and ship matching CSV files",
		Long: `Watch monitors SOURCE_DIR for new or changed CSV files.
After CSV_EVENT_WAIT_SECONDS without further changes, it:
1. Classifies every pending file by its header row
2. Renames accepted files with a FILE_SUFFIX timestamp and writes a .metadata sidecar
3. Ships each table's files with one rsync call to DEST_HOST:DEST_DIR/<table>/
4. Deletes local copies only when the transfer succeeded
Every outcome is appended to upload.log next to the file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, o)
		},
	}

	return cmd
}

func runWatch(cmd *cobra.Command, o *opts.RootOpts) error {
	ctx := cmd.Context()

	cfg, err := o.LoadConfig(ctx)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}

	if !o.Debug {
		logger := zerolog.Ctx(ctx).Level(cfg.Level())
		ctx = logger.WithContext(ctx)
	}
	logger := zerolog.Ctx(ctx)
	logger.Info().Str("config", cfg.String()).Msg("starting watcher")

	reg, err := registry.Load(ctx, cfg.TemplateDir)
	if err != nil {
		return err
	}
	if reg.Len() == 0 {
		logger.Warn().Str("dir", cfg.TemplateDir).Msg("no header templates loaded, every file will be rejected")
	}

	w, err := watch.New(cfg.SourceDir, watch.WithInclude(cfg.IncludeGlob))
	if err != nil {
		return err
	}
	defer w.Close()

	gen, err := metadata.New(metadata.Options{Format: cfg.FileSuffix, Identity: metadata.OSIdentity{}})
	if err != nil {
		return errors.Errorf("creating metadata generator: %w", err)
	}

	rec := status.NewFileLog(status.FileLogOptions{})

	disp, err := dispatch.New(dispatch.Options{
		Destination: dispatch.Destination{User: cfg.DestUser, Host: cfg.DestHost, Dir: cfg.DestDir},
		Client: transfer.NewRsync(transfer.RsyncOptions{
			Binary:     cfg.RsyncBinary,
			PartialDir: cfg.RsyncPartialDir,
			ExtraArgs:  cfg.RsyncArgs,
		}),
		Recorder: rec,
	})
	if err != nil {
		return errors.Errorf("creating dispatcher: %w", err)
	}

	console := log.New(cmd.OutOrStdout(), *logger)

	p, err := pipeline.New(pipeline.Options{
		Source:       w,
		Classifier:   classify.New(reg),
		Generator:    gen,
		Dispatcher:   disp,
		Recorder:     rec,
		Reporter:     console,
		Root:         w.Root(),
		Wait:         cfg.Wait(),
		PollInterval: cfg.PollInterval(),
	})
	if err != nil {
		return errors.Errorf("creating pipeline: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := w.Start(ctx); err != nil {
		return errors.Errorf("starting watcher: %w", err)
	}

	console.Header("watching " + w.Root())
	console.Infof("%d header templates loaded from %s", reg.Len(), cfg.TemplateDir)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return p.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		if err := w.Close(); err != nil {
			return errors.Errorf("closing watcher: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		console.Errorf("watcher stopped: %v", err)
		return err
	}

	console.Success("watcher stopped")
	return nil
}
