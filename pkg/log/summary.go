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
	"slices"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/walteh/rewriterc/pkg/findings"
	"github.com/walteh/rewriterc/pkg/operation"
	"github.com/walteh/rewriterc/pkg/rules"
	"gitlab.com/tozd/go/errors"
)

// 📊 RenderSummary renders the totals and per rule counts of a batch as
// tables. Rules that never fired are left out unless verbose is set.
func RenderSummary(report *operation.Report, verbose bool) (string, error) {
	changedLabel := "changed"
	if report.DryRun {
		changedLabel = "would change"
	}

	totals := pterm.TableData{
		{"scanned", changedLabel, "unchanged", "errored", "mismatched", "replacements"},
		{
			strconv.Itoa(report.Scanned),
			strconv.Itoa(report.Changed),
			strconv.Itoa(report.Unchanged),
			strconv.Itoa(report.Errored),
			strconv.Itoa(report.Mismatched),
			strconv.Itoa(report.Replacements()),
		},
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithData(totals).Srender()
	if err != nil {
		return "", errors.Errorf("rendering totals: %w", err)
	}

	perRule := pterm.TableData{{"rule", "files", "replacements"}}
	for _, rt := range report.Rules {
		if rt.Replacements == 0 && !verbose {
			continue
		}
		perRule = append(perRule, []string{rt.Rule, strconv.Itoa(rt.Files), strconv.Itoa(rt.Replacements)})
	}
	if len(perRule) == 1 {
		return out + "\n", nil
	}

	ruleOut, err := pterm.DefaultTable.WithHasHeader().WithData(perRule).Srender()
	if err != nil {
		return "", errors.Errorf("rendering rule totals: %w", err)
	}
	return out + "\n\n" + ruleOut + "\n", nil
}

// 📝 Summary prints the batch summary to the console
func (l *Logger) Summary(report *operation.Report, verbose bool) error {
	s, err := RenderSummary(report, verbose)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
	fmt.Fprint(l.console, s)

	l.zlog.Info().
		Int("scanned", report.Scanned).
		Int("changed", report.Changed).
		Int("unchanged", report.Unchanged).
		Int("errored", report.Errored).
		Int("mismatched", report.Mismatched).
		Int("replacements", report.Replacements()).
		Bool("dry_run", report.DryRun).
		Msg("batch summary")
	return nil
}

// 🔎 RenderFindingCounts renders how many findings of each kind were found
func RenderFindingCounts(fs []findings.Finding) (string, error) {
	counts := map[findings.Kind]int{}
	for _, f := range fs {
		counts[f.Kind]++
	}

	kinds := make([]findings.Kind, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)

	data := pterm.TableData{{"finding", "count"}}
	for _, k := range kinds {
		data = append(data, []string{string(k), strconv.Itoa(counts[k])})
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", errors.Errorf("rendering finding counts: %w", err)
	}
	return out + "\n", nil
}

// 📝 FindingSummary prints finding counts to the console
func (l *Logger) FindingSummary(fs []findings.Finding) error {
	if len(fs) == 0 {
		return nil
	}

	s, err := RenderFindingCounts(fs)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
	fmt.Fprint(l.console, s)
	return nil
}

// 📚 RenderRuleSets renders the built-in sets and their rules
func RenderRuleSets(sets []*rules.Set) (string, error) {
	data := pterm.TableData{{"set", "rule", "scope", "files", "description"}}
	for _, s := range sets {
		setName := s.Name
		if s.Optional {
			setName += " (optional)"
		}
		for _, r := range s.Rules {
			scope := "-"
			if r.Scope() != nil {
				scope = r.Scope().Kind()
			}
			files := r.FileGlob()
			if files == "" {
				files = "*"
			}
			data = append(data, []string{setName, r.Name(), scope, files, r.Description()})
			setName = ""
		}
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", errors.Errorf("rendering rule sets: %w", err)
	}
	return out + "\n", nil
}
