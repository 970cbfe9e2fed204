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
	"github.com/walteh/rewriterc/pkg/fileset"
	"github.com/walteh/rewriterc/pkg/rules"
	"github.com/walteh/rewriterc/pkg/status"
	"github.com/walteh/rewriterc/pkg/text"
)

// NewExtensionsCmd adds missing file extensions to relative imports
func NewExtensionsCmd(opts *opts.RootOpts) *cobra.Command {
	var (
		dryRun bool
		diff   bool
	)

	cmd := &cobra.Command{
		Use:   "extensions",
		Short: "Add .vue, .js or .ts to relative imports that lack an extension",
		Long: `Extensions resolves every relative import without an extension against
the importing file's directory and appends the first of .vue, .js and .ts
that names an existing file. Imports that already carry an extension, and
imports of directories or missing files, are left alone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd.Context(), opts, batchRequest{
				command: "extensions",
				sets:    []string{"extensions"},
				build: func(set *fileset.FileSet) []*text.Rule {
					return rules.ImportExtensionRules(status.New(set.Root).Exists)
				},
				dryRun: dryRun,
				diff:   diff,
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute changes without writing them")
	cmd.Flags().BoolVar(&diff, "diff", false, "print a unified diff of every change")

	return cmd
}
