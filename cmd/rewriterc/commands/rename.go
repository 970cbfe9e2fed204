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
	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
	"github.com/walteh/rewriterc/pkg/rules"
	"github.com/walteh/rewriterc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// NewRenameCmd renames one identifier across the tree
func NewRenameCmd(opts *opts.RootOpts) *cobra.Command {
	var (
		dryRun bool
		diff   bool
	)

	cmd := &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a whole-word identifier in .vue, .js and .ts files",
		Long: `Rename replaces every whole-word occurrence of old with new.
someOldName is not touched when renaming oldName.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			from, to := args[0], args[1]
			if from == to {
				return errors.Errorf("%q renames to itself", from)
			}

			return runBatch(ctx, opts, batchRequest{
				command: "rename",
				sets:    []string{from + " → " + to},
				rules:   []*text.Rule{rules.RenameRule(from, to)},
				dryRun:  dryRun,
				diff:    diff,
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute changes without writing them")
	cmd.Flags().BoolVar(&diff, "diff", false, "print a unified diff of every change")

	return cmd
}
