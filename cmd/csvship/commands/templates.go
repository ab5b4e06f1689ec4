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
	"fmt"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/csvship/cmd/csvship/opts"
	"gitlab.com/tozd/go/errors"
)

// NewTemplatesCmd creates the templates listing command
func NewTemplatesCmd(o *opts.RootOpts) *cobra.Command {
	var templates templateDirFlag

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the header templates and the tables they map to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := templates.load(cmd.Context(), o)
			if err != nil {
				return err
			}

			data := pterm.TableData{{"Table", "Header", "Template"}}
			for _, e := range reg.Entries() {
				data = append(data, []string{e.Table, e.Signature, filepath.Base(e.Source)})
			}

			out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return errors.Errorf("rendering table: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	templates.add(cmd)
	return cmd
}
