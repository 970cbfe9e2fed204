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
	"path"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
	"github.com/walteh/rewriterc/pkg/fileset"
	"github.com/walteh/rewriterc/pkg/findings"
	"github.com/walteh/rewriterc/pkg/log"
	"github.com/walteh/rewriterc/pkg/operation"
	"github.com/walteh/rewriterc/pkg/rules"
	"github.com/walteh/rewriterc/pkg/status"
	"github.com/walteh/rewriterc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// ErrNeedsAttention is returned when a run finished but found files that
// errored, unclosed regions or other findings. It maps to exit status 1.
var ErrNeedsAttention = errors.Base("needs attention")

// collect selects the files of a run
func collect(ctx context.Context, o *opts.RootOpts) (*fileset.FileSet, error) {
	set, err := fileset.Collect(ctx, o.Config.FileSetOptions())
	if err != nil {
		return nil, errors.Errorf("collecting files: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Str("root", set.Root).Int("files", set.Len()).Msg("collected files")
	return set, nil
}

// batchRequest describes one rewrite run
type batchRequest struct {
	command string
	sets    []string
	rules   []*text.Rule
	dryRun  bool
	diff    bool

	// build replaces rules when they depend on the collected files
	build func(set *fileset.FileSet) []*text.Rule

	// residuals reports migration patterns left after the rewrite
	residuals bool
	quotes    bool
}

// runBatch rewrites the collected files and prints results, diffs, findings
// and the summary
func runBatch(ctx context.Context, o *opts.RootOpts, req batchRequest) error {
	lg := o.Logger

	set, err := collect(ctx, o)
	if err != nil {
		return err
	}

	if req.build != nil {
		req.rules = req.build(set)
	}

	lg.StartRun(ctx, log.RunOperation{
		Command: req.command,
		Root:    set.Root,
		Sets:    req.sets,
		DryRun:  req.dryRun,
	})
	defer lg.EndRun(ctx)

	report, err := operation.RunBatch(ctx, set, operation.Options{
		Rules:       req.rules,
		DryRun:      req.dryRun,
		Concurrency: o.Config.Concurrency,
		Observer: func(res operation.FileResult, done, total int) {
			if res.Status != status.StatusUnchanged || res.Mismatched() || o.Verbose {
				lg.LogResult(ctx, res)
			}
		},
	})
	if err != nil {
		return errors.Errorf("running batch: %w", err)
	}

	if req.diff {
		for _, fr := range report.ChangedResults() {
			if err := lg.Diff(fr.Path, fr.Result.Original, fr.Result.Final); err != nil {
				return err
			}
		}
	}

	found := reportFindings(report, req.residuals, req.quotes)
	if len(found) > 0 {
		lg.LogNewline()
		for _, f := range found {
			lg.LogFinding(ctx, f)
		}
	}

	if err := lg.Summary(report, o.Verbose); err != nil {
		return err
	}
	if err := lg.FindingSummary(found); err != nil {
		return err
	}

	if report.NeedsAttention() || len(found) > 0 {
		return errors.Errorf("%d errored, %d mismatched, %d findings: %w", report.Errored, report.Mismatched, len(found), ErrNeedsAttention)
	}

	if report.DryRun {
		lg.Successf("%d files would change", report.Changed)
	} else {
		lg.Successf("%d files rewritten", report.Changed)
	}
	return nil
}

// reportFindings lists unclosed regions and, when asked, patterns still
// present after the rewrite. Quote balance is only checked in script files.
func reportFindings(report *operation.Report, residuals, quotes bool) []findings.Finding {
	var detectors []*text.Rule
	if residuals {
		detectors = rules.Residuals()
	}

	var out []findings.Finding
	for _, fr := range report.Results {
		if fr.Result == nil || fr.Status == status.StatusErrored {
			continue
		}
		out = append(out, findings.FromMismatches(fr.Path, fr.Result.Mismatches)...)
		out = append(out, findings.Residual(fr.Path, fr.Result.Final, detectors)...)
		if quotes && isScript(fr.Path) {
			out = append(out, findings.UnbalancedQuotes(fr.Path, fr.Result.Final)...)
		}
	}
	return out
}

func isScript(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".js", ".ts":
		return true
	}
	return false
}
