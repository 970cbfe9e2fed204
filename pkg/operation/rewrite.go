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

	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/status"
	"github.com/walteh/rewriterc/pkg/text"
)

// 📄 FileResult is the outcome of rewriting one file
type FileResult struct {
	Path   string
	Status status.FileStatus

	// Result is nil when the file could not be read or decoded
	Result *text.Result

	// Err is set when Status is StatusErrored
	Err error

	// DryRun is true when a change was computed but not written
	DryRun bool
}

// Replacements returns the number of replacements made in the file
func (r FileResult) Replacements() int {
	if r.Result == nil {
		return 0
	}
	return r.Result.Replacements()
}

// Mismatched reports whether any scoped rule met an unclosed region
func (r FileResult) Mismatched() bool {
	return r.Result != nil && len(r.Result.Mismatches) > 0
}

// 📝 RewriteFile reads the whole file at path, applies rules in order and
// writes the file back atomically only when the content changed and dryRun
// is false. A file no rule changes is never written. Errors are returned in
// the result, never as a panic or a batch failure.
func RewriteFile(ctx context.Context, mgr *status.Manager, path string, rules []*text.Rule, dryRun bool) FileResult {
	logger := zerolog.Ctx(ctx).With().Str("path", path).Logger()

	doc, err := mgr.Read(ctx, path)
	if err != nil {
		return FileResult{Path: path, Status: status.StatusErrored, Err: err}
	}

	res := text.Rewrite(path, doc.Text, rules)

	for _, m := range res.Mismatches {
		logger.Warn().
			Str("kind", "region_mismatch").
			Str("region", m.Kind).
			Int("line", m.Line).
			Msg("unclosed region left untouched")
	}

	if !res.Changed() {
		return FileResult{Path: path, Status: status.StatusUnchanged, Result: res}
	}

	for _, f := range res.Fired {
		logger.Debug().Str("rule", f.Rule).Int("count", f.Count).Msg("rule fired")
	}

	if dryRun {
		return FileResult{Path: path, Status: status.StatusChanged, Result: res, DryRun: true}
	}

	if err := mgr.Write(ctx, doc, res.Final); err != nil {
		return FileResult{Path: path, Status: status.StatusErrored, Result: res, Err: err}
	}

	return FileResult{Path: path, Status: status.StatusChanged, Result: res}
}
