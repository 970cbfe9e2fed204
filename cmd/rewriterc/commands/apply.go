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
	"gitlab.com/tozd/go/errors"
)

// NewApplyCmd rewrites the tree with the configured rule sets
func NewApplyCmd(opts *opts.RootOpts) *cobra.Command {
	var (
		sets   []string
		dryRun bool
		diff   bool
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Rewrite files with the selected rule sets",
		Long: `Apply runs every selected rule set over the tree, in registry order
(deep, vue3, vite, patches, rename), followed by the rules and renames
declared in the config. Files no rule changes are never written.
It will:
1. Collect files under the root
2. Rewrite each file, writing changes atomically
3. Report unclosed regions and patterns left to migrate by hand
4. Print per-rule totals`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			selected := sets
			if len(selected) == 0 {
				selected = opts.Config.Sets
			}

			built, err := opts.Config.BuildRules(selected)
			if err != nil {
				return errors.Errorf("building rules: %w", err)
			}

			return runBatch(ctx, opts, batchRequest{
				command:   "apply",
				sets:      selected,
				rules:     built,
				dryRun:    dryRun,
				diff:      diff,
				residuals: true,
			})
		},
	}

	cmd.Flags().StringSliceVar(&sets, "sets", nil, "rule sets to run (default: sets from the config, or all)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute changes without writing them")
	cmd.Flags().BoolVar(&diff, "diff", false, "print a unified diff of every change")

	return cmd
}

// NewCheckCmd reports what apply would change without writing anything
func NewCheckCmd(opts *opts.RootOpts) *cobra.Command {
	var (
		sets []string
		diff bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Show what apply would change, without writing",
		Long: `Check is apply in dry-run mode. It also flags script lines with an odd
number of single quotes, which usually means an earlier rewrite cut a
string in half. The exit status is 1 when anything needs attention.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			selected := sets
			if len(selected) == 0 {
				selected = opts.Config.Sets
			}

			built, err := opts.Config.BuildRules(selected)
			if err != nil {
				return errors.Errorf("building rules: %w", err)
			}

			return runBatch(ctx, opts, batchRequest{
				command:   "check",
				sets:      selected,
				rules:     built,
				dryRun:    true,
				diff:      diff,
				residuals: true,
				quotes:    true,
			})
		},
	}

	cmd.Flags().StringSliceVar(&sets, "sets", nil, "rule sets to run (default: sets from the config, or all)")
	cmd.Flags().BoolVar(&diff, "diff", false, "print a unified diff of every change")

	return cmd
}
