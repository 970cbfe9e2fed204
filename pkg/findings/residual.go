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

package findings

import (
	"strings"

	"github.com/walteh/rewriterc/pkg/region"
	"github.com/walteh/rewriterc/pkg/text"
)

// 🧹 Residual reports patterns that are still present in content, one
// finding per detector and line. Detectors whose file glob excludes
// filePath are skipped.
func Residual(filePath, content string, detectors []*text.Rule) []Finding {
	var out []Finding
	for _, d := range detectors {
		if !d.AppliesTo(filePath) {
			continue
		}

		detail := d.Description()
		if detail == "" {
			detail = "unresolved pattern " + d.Name()
		}

		lastLine := 0
		for _, o := range d.Locate(content) {
			line := lineAt(content, o.Start)
			if line == lastLine {
				continue
			}
			lastLine = line
			out = append(out, Finding{
				Kind:   KindResidualPattern,
				Path:   filePath,
				Line:   line,
				Module: d.Name(),
				Detail: detail,
			})
		}
	}
	return out
}

// ⚠️ FromMismatches converts unclosed regions into findings
func FromMismatches(filePath string, mismatches []region.Mismatch) []Finding {
	out := make([]Finding, 0, len(mismatches))
	for _, m := range mismatches {
		out = append(out, Finding{
			Kind:   KindRegionMismatch,
			Path:   filePath,
			Line:   m.Line,
			Detail: m.String(),
		})
	}
	return out
}

// ✏️ UnbalancedQuotes reports lines with an odd number of single quotes,
// a common leftover of rewrites that cut a string literal in half. A line
// whose first quote comes after a // comment marker is ignored.
func UnbalancedQuotes(filePath, content string) []Finding {
	var out []Finding
	for i, line := range strings.Split(content, "\n") {
		if strings.Count(line, "'")%2 == 0 {
			continue
		}
		if c := strings.Index(line, "//"); c >= 0 && c < strings.Index(line, "'") {
			continue
		}
		out = append(out, Finding{
			Kind:   KindUnbalancedQuotes,
			Path:   filePath,
			Line:   i + 1,
			Detail: "odd number of single quotes",
		})
	}
	return out
}
