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

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
	"github.com/walteh/rewriterc/pkg/fileset"
	"github.com/walteh/rewriterc/pkg/findings"
	"github.com/walteh/rewriterc/pkg/log"
	"github.com/walteh/rewriterc/pkg/operation"
	"github.com/walteh/rewriterc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// NewDuplicatesCmd reports duplicate loads, mixed .js/.ts imports and
// .js/.ts file pairs
func NewDuplicatesCmd(opts *opts.RootOpts) *cobra.Command {
	var (
		scriptPath string
		noScript   bool
	)

	cmd := &cobra.Command{
		Use:   "duplicates",
		Short: "Find duplicate imports and .js/.ts file pairs",
		Long: `Duplicates reports:
1. modules loaded more than once in one file
2. files importing both name.js and name.ts
3. name.js and name.ts living side by side, with a keep recommendation

When pairs exist it writes a cleanup script with every rm commented out.
Nothing is ever deleted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			lg := opts.Logger

			set, err := collect(ctx, opts)
			if err != nil {
				return err
			}

			lg.StartRun(ctx, log.RunOperation{Command: "duplicates", Root: set.Root})
			defer lg.EndRun(ctx)

			pairs, err := findings.DuplicatePairs(ctx, set)
			if err != nil {
				return errors.Errorf("finding duplicate pairs: %w", err)
			}

			found := make([]findings.Finding, 0, len(pairs))
			for _, p := range pairs {
				found = append(found, p.Finding())
			}

			imports, unreadable, err := scanImports(ctx, set, opts.Config.Concurrency)
			if err != nil {
				return err
			}
			found = append(found, imports...)

			for _, op := range unreadable {
				lg.LogFileOperation(ctx, op)
			}

			for _, f := range found {
				lg.LogFinding(ctx, f)
			}
			if err := lg.FindingSummary(found); err != nil {
				return err
			}

			if len(pairs) > 0 && !noScript {
				target := scriptPath
				if target == "" {
					target = opts.Config.CleanupScript
				}
				mgr := status.New(set.Root)
				if err := findings.WriteCleanupScript(ctx, mgr, target, pairs); err != nil {
					return errors.Errorf("writing cleanup script: %w", err)
				}
				lg.Infof("wrote cleanup script %s", mgr.Abs(target))
			}

			if len(found) > 0 || len(unreadable) > 0 {
				return errors.Errorf("%d findings, %d unreadable files: %w", len(found), len(unreadable), ErrNeedsAttention)
			}

			lg.Success("no duplicates found")
			return nil
		},
	}

	cmd.Flags().StringVar(&scriptPath, "script", "", "cleanup script path, relative to the root (default: cleanup_script from the config)")
	cmd.Flags().BoolVar(&noScript, "no-script", false, "do not write a cleanup script")

	return cmd
}

// scanImports reads every script and component once and reports duplicate
// and mixed imports in set order. Files that cannot be read come back as
// errored operations so the caller can surface them.
func scanImports(ctx context.Context, set *fileset.FileSet, concurrency int) ([]findings.Finding, []log.FileOperation, error) {
	code := set.WithExt(".vue", ".js", ".ts")
	mgr := status.New(set.Root)
	runner := operation.NewRunner(concurrency)

	perFile := make([][]findings.Finding, code.Len())
	readErrs := make([]error, code.Len())

	err := runner.Run(ctx, code.Len(), func(ctx context.Context, i int) {
		rel := code.Paths[i]
		doc, err := mgr.Read(ctx, rel)
		if err != nil {
			readErrs[i] = err
			return
		}
		perFile[i] = append(findings.DuplicateLoads(rel, doc.Text), findings.MixedImports(rel, doc.Text)...)
	})
	if err != nil {
		return nil, nil, errors.Errorf("scanning imports: %w", err)
	}

	logger := zerolog.Ctx(ctx)
	var out []findings.Finding
	var unreadable []log.FileOperation
	for i, fs := range perFile {
		if readErrs[i] != nil {
			logger.Warn().Err(readErrs[i]).Str("path", code.Paths[i]).Msg("unreadable file")
			unreadable = append(unreadable, log.FileOperation{
				Path:   code.Paths[i],
				Status: status.StatusErrored,
				DryRun: true,
				Err:    readErrs[i],
			})
			continue
		}
		out = append(out, fs...)
	}
	return out, unreadable, nil
}
