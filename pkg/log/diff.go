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
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
	"gitlab.com/tozd/go/errors"
)

// diffContext is the number of unchanged lines around each hunk
const diffContext = 3

// 🔀 UnifiedDiff returns a unified diff of a file's content before and after
// a rewrite, or "" when nothing changed
func UnifiedDiff(path, before, after string) (string, error) {
	if before == after {
		return "", nil
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  diffContext,
	})
	if err != nil {
		return "", errors.Errorf("diffing %s: %w", path, err)
	}
	return diff, nil
}

// colorizeDiff colors added and removed lines
func colorizeDiff(diff string) string {
	lines := strings.SplitAfter(diff, "\n")
	var b strings.Builder
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			b.WriteString(color.New(color.Bold).Sprint(line))
		case strings.HasPrefix(line, "@@"):
			b.WriteString(color.New(color.FgCyan).Sprint(line))
		case strings.HasPrefix(line, "+"):
			b.WriteString(color.New(color.FgGreen).Sprint(line))
		case strings.HasPrefix(line, "-"):
			b.WriteString(color.New(color.FgRed).Sprint(line))
		default:
			b.WriteString(line)
		}
	}
	return b.String()
}

// 📝 Diff prints the diff of one file to the console
func (l *Logger) Diff(path, before, after string) error {
	diff, err := UnifiedDiff(path, before, after)
	if err != nil {
		return err
	}
	if diff == "" {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprint(l.console, colorizeDiff(diff))
	if !strings.HasSuffix(diff, "\n") {
		fmt.Fprintln(l.console)
	}
	return nil
}
