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
	"fmt"
	"strings"
)

// 🏷️ Kind classifies a finding
type Kind string

const (
	KindDuplicateImport  Kind = "duplicate_import"
	KindMixedImport      Kind = "mixed_import"
	KindDuplicatePair    Kind = "duplicate_pair"
	KindResidualPattern  Kind = "residual_pattern"
	KindRegionMismatch   Kind = "region_mismatch"
	KindUnbalancedQuotes Kind = "unbalanced_quote"
)

// 🔎 Finding is an advisory observation about a file. Findings never stop a
// run; they only affect the exit status.
type Finding struct {
	Kind Kind
	Path string

	// Line is 1-based, 0 when the finding is about the whole file
	Line int

	// Module is the module path for import findings, verbatim as written
	Module string

	Detail string
}

func (f Finding) String() string {
	var b strings.Builder
	b.WriteString(f.Path)
	if f.Line > 0 {
		fmt.Fprintf(&b, ":%d", f.Line)
	}
	fmt.Fprintf(&b, ": %s", f.Kind)
	if f.Module != "" {
		fmt.Fprintf(&b, " %q", f.Module)
	}
	if f.Detail != "" {
		fmt.Fprintf(&b, ": %s", f.Detail)
	}
	return b.String()
}

// lineAt returns the 1-based line of offset in content
func lineAt(content string, offset int) int {
	return strings.Count(content[:offset], "\n") + 1
}
