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
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/csvship/cmd/csvship/opts"
	"github.com/walteh/csvship/pkg/classify"
	"github.com/walteh/csvship/pkg/registry"
	"gitlab.com/tozd/go/errors"
)

// templateDirFlag lets the read-only commands skip the full config
type templateDirFlag struct {
	dir string
}

func (f *templateDirFlag) add(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.dir, "templates", "t", "", "header template directory (defaults to TEMPLATE_DIR)")
}

func (f *templateDirFlag) load(ctx context.Context, o *opts.RootOpts) (*registry.Registry, error) {
	dir := f.dir
	if dir == "" {
		cfg, err := o.LoadConfig(ctx)
		if err != nil {
			return nil, errors.Errorf("loading config: %w", err)
		}
		dir = cfg.TemplateDir
	}
	return registry.Load(ctx, dir)
}

// NewClassifyCmd creates the dry-run classify command
func NewClassifyCmd(o *opts.RootOpts) *cobra.Command {
	var templates templateDirFlag

	cmd := &cobra.Command{
		Use:   "classify FILE...",
		Short: "Show which table each CSV file would be shipped to",
		Long: `Classify reads only the header row of each file and reports the table it
matches. Nothing is renamed, transferred or logged.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			reg, err := templates.load(ctx, o)
			if err != nil {
				return err
			}

			c := classify.New(reg)
			data := pterm.TableData{{"File", "Status", "Table", "Header"}}
			rejected := 0
			for _, path := range args {
				v, err := c.Classify(ctx, path)
				if err != nil {
					data = append(data, []string{path, "error", "", err.Error()})
					rejected++
					continue
				}
				if v.Status != classify.Accepted {
					rejected++
				}
				data = append(data, []string{path, v.Status.String(), v.Table, v.Header})
			}

			out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return errors.Errorf("rendering table: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)

			if rejected > 0 {
				return errors.Errorf("%d of %d files would not be shipped", rejected, len(args))
			}
			return nil
		},
	}

	templates.add(cmd)
	return cmd
}
