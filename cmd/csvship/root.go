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

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/csvship/cmd/csvship/commands"
	"github.com/walteh/csvship/cmd/csvship/opts"
	"github.com/walteh/csvship/pkg/config"
)

// newRootCmd builds the command tree; logs go to logOut
func newRootCmd(o *opts.RootOpts, logOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "csvship",
		Short: "Ship CSV drops to a remote warehouse by header schema",
		Long: `csvship watches a drop directory for CSV files, matches each file's header
row against a directory of templates, and rsyncs matched files to a per-table
directory on a remote host. Local copies are removed only after a confirmed
transfer.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := setupLogging(logOut, o.Debug)
			cmd.SetContext(logger.WithContext(cmd.Context()))
		},
	}

	addRootFlags(rootCmd, o)

	rootCmd.AddCommand(
		commands.NewWatchCmd(o),
		commands.NewClassifyCmd(o),
		commands.NewTemplatesCmd(o),
		newVersionCmd(o),
	)

	return rootCmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", "", "optional config file (.yaml, .yml, .json or .hcl)")
	cmd.PersistentFlags().StringVar(&o.DotEnv, "env-file", config.DefaultDotEnv, "dotenv file, ignored when missing")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags
func setupLogging(out io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	return logger
}

func newVersionCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information and the rsync binary uploads use",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			rsync := GetRsyncInfo(cmd.Context(), o.RsyncBinary())
			if rsync.Err != nil {
				zerolog.Ctx(cmd.Context()).Debug().Err(rsync.Err).Msg("rsync version check failed")
			}
			fmt.Fprint(cmd.OutOrStdout(), FormatVersion(rsync))
		},
	}
}
