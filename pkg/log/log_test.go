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

package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/rewriterc/pkg/findings"
	"github.com/walteh/rewriterc/pkg/operation"
	"github.com/walteh/rewriterc/pkg/region"
	"github.com/walteh/rewriterc/pkg/rules"
	"github.com/walteh/rewriterc/pkg/status"
	"github.com/walteh/rewriterc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

func noColor(t *testing.T) {
	t.Helper()
	color.NoColor = true
	pterm.DisableStyling()
	t.Cleanup(func() {
		color.NoColor = false
		pterm.EnableStyling()
	})
}

func TestLogger(t *testing.T) {
	noColor(t)

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_run_header",
			op: func(t *testing.T, logger *Logger) {
				logger.StartRun(context.Background(), RunOperation{
					Command: "apply",
					Root:    "/tmp/project",
					Sets:    []string{"deep", "vue3"},
					DryRun:  true,
				})
			},
			wantLogs: []string{
				"[apply /tmp/project]",
				"◆ deep, vue3 • dry run",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error("error message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"❌ error message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("info %s", "test")
				logger.Warningf("warning %s", "test")
				logger.Errorf("error %s", "test")
				logger.Successf("success %s", "test")
			},
			wantLogs: []string{
				"ℹ️  info test",
				"⚠️  warning test",
				"❌ error test",
				"✅ success test",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("rewriting sources")
			},
			wantLogs: []string{
				"rewriterc • rewriting sources",
			},
		},
		{
			name: "log_newline",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("first")
				logger.LogNewline()
				logger.Info("second")
			},
			wantLogs: []string{
				"ℹ️  first",
				"",
				"ℹ️  second",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.Disabled)

			tt.op(t, logger)

			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	logger := New(io.Discard, zerolog.Disabled)

	ctx := NewContext(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx), "logger from context should be the same instance")

	assert.Panics(t, func() {
		FromContext(context.Background())
	}, "FromContext should panic when logger is missing")
}

func TestFileOperationFormatting(t *testing.T) {
	noColor(t)

	tests := []struct {
		name string
		op   FileOperation
		want string
	}{
		{
			name: "rewritten",
			op:   FileOperation{Path: "src/App.vue", Status: status.StatusChanged, Replacements: 2},
			want: fmt.Sprintf("⟳ %-45s %-14s %s", "src/App.vue", "rewritten", "2 replacements"),
		},
		{
			name: "would_rewrite_one",
			op:   FileOperation{Path: "src/main.js", Status: status.StatusChanged, Replacements: 1, DryRun: true},
			want: fmt.Sprintf("⟳ %-45s %-14s %s", "src/main.js", "would rewrite", "1 replacement"),
		},
		{
			name: "unchanged",
			op:   FileOperation{Path: "src/util.ts", Status: status.StatusUnchanged},
			want: fmt.Sprintf("• %-45s %s", "src/util.ts", "unchanged"),
		},
		{
			name: "failed",
			op:   FileOperation{Path: "logo.png", Status: status.StatusErrored, Err: errors.New("binary content")},
			want: fmt.Sprintf("✗ %-45s %-14s %s", "logo.png", "failed", "binary content"),
		},
		{
			name: "unclosed_region",
			op:   FileOperation{Path: "src/Broken.vue", Status: status.StatusChanged, Replacements: 1, Mismatches: 1},
			want: fmt.Sprintf("! %-45s %-14s %s", "src/Broken.vue", "rewritten", "1 replacement, 1 unclosed regions"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.Disabled)

			logger.LogFileOperation(context.Background(), tt.op)

			assert.Equal(t, tt.want, strings.TrimSpace(buf.String()), "formatted output should match")
		})
	}
}

func TestFileOperationFromResult(t *testing.T) {
	res := operation.FileResult{
		Path:   "src/App.vue",
		Status: status.StatusChanged,
		Result: &text.Result{
			Path:       "src/App.vue",
			Fired:      []text.Firing{{Rule: "deep/>>>", Count: 3}},
			Mismatches: []region.Mismatch{{Kind: "style", Offset: 10, Line: 2}},
		},
		DryRun: true,
	}

	op := FileOperationFromResult(res)
	assert.Equal(t, FileOperation{
		Path:         "src/App.vue",
		Status:       status.StatusChanged,
		Replacements: 3,
		Mismatches:   1,
		DryRun:       true,
	}, op)
}

func TestLogFinding(t *testing.T) {
	noColor(t)

	buf := &bytes.Buffer{}
	logger := New(buf, zerolog.Disabled)

	logger.LogFinding(context.Background(), findings.Finding{
		Kind:   findings.KindDuplicateImport,
		Path:   "src/main.js",
		Line:   4,
		Module: "./api",
		Detail: "loaded 2 times",
	})

	want := fmt.Sprintf("%-18s %s %s", "duplicate_import", "src/main.js:4", `"./api" loaded 2 times`)
	assert.Equal(t, want, strings.TrimSpace(buf.String()))
}

func TestRenderSummary(t *testing.T) {
	noColor(t)

	report := &operation.Report{
		Scanned:   3,
		Changed:   1,
		Unchanged: 2,
		Rules: []operation.RuleTotal{
			{Rule: "deep/>>>", Files: 1, Replacements: 2},
			{Rule: "vite/NODE_ENV", Files: 0, Replacements: 0},
		},
		DryRun: true,
	}

	out, err := RenderSummary(report, false)
	require.NoError(t, err)
	assert.Contains(t, out, "would change")
	assert.Contains(t, out, "deep/>>>")
	assert.NotContains(t, out, "vite/NODE_ENV", "rules that never fired are hidden")

	verbose, err := RenderSummary(report, true)
	require.NoError(t, err)
	assert.Contains(t, verbose, "vite/NODE_ENV")
}

func TestRenderFindingCounts(t *testing.T) {
	noColor(t)

	out, err := RenderFindingCounts([]findings.Finding{
		{Kind: findings.KindMixedImport},
		{Kind: findings.KindDuplicateImport},
		{Kind: findings.KindMixedImport},
	})
	require.NoError(t, err)

	dup := strings.Index(out, "duplicate_import")
	mixed := strings.Index(out, "mixed_import")
	require.GreaterOrEqual(t, dup, 0)
	require.GreaterOrEqual(t, mixed, 0)
	assert.Less(t, dup, mixed, "kinds are sorted")
	assert.Contains(t, out[mixed:], "2")
}

func TestUnifiedDiff(t *testing.T) {
	before := "<style>\n.a >>> .b {}\n</style>\n"
	after := "<style>\n.a :deep(.b) {}\n</style>\n"

	diff, err := UnifiedDiff("src/App.vue", before, after)
	require.NoError(t, err)
	assert.Contains(t, diff, "--- a/src/App.vue")
	assert.Contains(t, diff, "+++ b/src/App.vue")
	assert.Contains(t, diff, "-.a >>> .b {}")
	assert.Contains(t, diff, "+.a :deep(.b) {}")

	same, err := UnifiedDiff("src/App.vue", before, before)
	require.NoError(t, err)
	assert.Empty(t, same)
}

func TestLoggerDiff(t *testing.T) {
	noColor(t)

	buf := &bytes.Buffer{}
	logger := New(buf, zerolog.Disabled)

	require.NoError(t, logger.Diff("a.js", "process.env.NODE_ENV\n", "import.meta.env.MODE\n"))
	assert.Contains(t, buf.String(), "+import.meta.env.MODE")

	buf.Reset()
	require.NoError(t, logger.Diff("a.js", "x\n", "x\n"))
	assert.Empty(t, buf.String())
}

func TestRenderRuleSets(t *testing.T) {
	noColor(t)

	out, err := RenderRuleSets(rules.Sets())
	require.NoError(t, err)
	assert.Contains(t, out, "deep/>>>")
	assert.Contains(t, out, "rename (optional)")
	assert.Contains(t, out, "style")
}
