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

package operation

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/fileset"
	"github.com/walteh/rewriterc/pkg/status"
	"github.com/walteh/rewriterc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// Observer is called after each file completes. Calls may come from several
// goroutines at once.
type Observer func(res FileResult, done, total int)

// 🔧 Options configures a batch run
type Options struct {
	// Rules are applied to every file in order
	Rules []*text.Rule

	// DryRun computes changes without writing them
	DryRun bool

	// Concurrency bounds the number of files processed at once; below 1
	// means one worker per CPU
	Concurrency int

	// Observer, when set, receives every result as it completes
	Observer Observer
}

// 📊 RuleTotal aggregates one rule's firings over a batch
type RuleTotal struct {
	Rule         string
	Files        int
	Replacements int
}

// 📋 Report is the aggregate outcome of a batch. Results follow the FileSet
// enumeration order regardless of completion order.
type Report struct {
	Results []FileResult

	Scanned    int
	Changed    int
	Unchanged  int
	Errored    int
	Mismatched int

	// Rules lists every rule in declared order, including rules that never
	// fired
	Rules []RuleTotal

	DryRun bool
}

// Replacements returns the total number of replacements in the batch
func (r *Report) Replacements() int {
	total := 0
	for _, rt := range r.Rules {
		total += rt.Replacements
	}
	return total
}

// Failed returns the results of files that errored
func (r *Report) Failed() []FileResult {
	return r.filter(func(fr FileResult) bool { return fr.Status == status.StatusErrored })
}

// ChangedResults returns the results of files that were (or would be) rewritten
func (r *Report) ChangedResults() []FileResult {
	return r.filter(func(fr FileResult) bool { return fr.Status == status.StatusChanged })
}

// MismatchedResults returns the results of files with unclosed regions
func (r *Report) MismatchedResults() []FileResult {
	return r.filter(FileResult.Mismatched)
}

func (r *Report) filter(keep func(FileResult) bool) []FileResult {
	var out []FileResult
	for _, fr := range r.Results {
		if keep(fr) {
			out = append(out, fr)
		}
	}
	return out
}

// NeedsAttention reports whether any file errored or had an unclosed region
func (r *Report) NeedsAttention() bool {
	return r.Errored > 0 || r.Mismatched > 0
}

// 🏃 RunBatch rewrites every file in set independently. One file's failure
// never stops the others. The returned error is non-nil only when ctx is
// cancelled; files that were never started are then reported as errored.
func RunBatch(ctx context.Context, set *fileset.FileSet, opts Options) (*Report, error) {
	if err := text.ValidateRules(opts.Rules); err != nil {
		return nil, errors.Errorf("validating rules: %w", err)
	}

	logger := zerolog.Ctx(ctx)
	mgr := status.New(set.Root)
	runner := NewRunner(opts.Concurrency)
	total := set.Len()

	logger.Debug().
		Int("files", total).
		Int("rules", len(opts.Rules)).
		Int("concurrency", runner.Concurrency()).
		Bool("dry_run", opts.DryRun).
		Msg("starting batch")

	results := make([]FileResult, total)
	started := make([]bool, total)
	var done atomic.Int64

	runErr := runner.Run(ctx, total, func(ctx context.Context, i int) {
		started[i] = true
		res := RewriteFile(ctx, mgr, set.Paths[i], opts.Rules, opts.DryRun)
		results[i] = res

		mgr.Track(ctx, res.Path, res.Status, res.Replacements(), res.Err)

		n := int(done.Add(1))
		mgr.Progress(ctx, n, total)
		if opts.Observer != nil {
			opts.Observer(res, n, total)
		}
	})

	if runErr != nil {
		for i := range results {
			if !started[i] {
				results[i] = FileResult{Path: set.Paths[i], Status: status.StatusErrored, Err: runErr}
			}
		}
	}

	report := summarize(results, opts.Rules)
	report.DryRun = opts.DryRun

	logger.Debug().
		Int("scanned", report.Scanned).
		Int("changed", report.Changed).
		Int("unchanged", report.Unchanged).
		Int("errored", report.Errored).
		Int("mismatched", report.Mismatched).
		Msg("batch finished")

	return report, runErr
}

func summarize(results []FileResult, rules []*text.Rule) *Report {
	report := &Report{Results: results, Scanned: len(results)}

	index := make(map[string]int, len(rules))
	report.Rules = make([]RuleTotal, len(rules))
	for i, r := range rules {
		report.Rules[i] = RuleTotal{Rule: r.Name()}
		index[r.Name()] = i
	}

	for _, fr := range results {
		switch fr.Status {
		case status.StatusChanged:
			report.Changed++
		case status.StatusErrored:
			report.Errored++
		default:
			report.Unchanged++
		}
		if fr.Mismatched() {
			report.Mismatched++
		}
		if fr.Result == nil || fr.Status == status.StatusErrored {
			continue
		}
		for _, f := range fr.Result.Fired {
			i, ok := index[f.Rule]
			if !ok {
				continue
			}
			report.Rules[i].Files++
			report.Rules[i].Replacements += f.Count
		}
	}

	return report
}
