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

package rules

import (
	"strings"

	"github.com/walteh/rewriterc/pkg/text"
)

// combinator rewrites "<ws>COMB target<ws>{" into "<ws>:deep(target)<ws>{".
// Group 1 is leading space, group 2 the target, group 3 the trailing { or ,
func combinator(o text.Occurrence) string {
	target := strings.TrimSpace(o.Group(2))
	if target == "" || strings.Contains(target, ">>>") || strings.Contains(target, "/deep/") || strings.Contains(target, ":deep(") {
		return o.Text
	}
	return o.Group(1) + ":deep(" + target + ")" + o.Group(3)
}

func deepRules() []*text.Rule {
	var out []*text.Rule

	out = append(out, styled("deep/>>>",
		"`.a >>> .b {` to `.a :deep(.b) {`",
		text.MustRegexp(`(\s*)>>>\s*([^{},]+?)(\s*[{,])`),
		combinator,
	)...)

	out = append(out, styled("deep//deep/",
		"`.a /deep/ .b {` to `.a :deep(.b) {`",
		text.MustRegexp(`(\s*)/deep/\s*([^{},]+?)(\s*[{,])`),
		combinator,
	)...)

	out = append(out, styled("deep/::v-deep()",
		"`::v-deep(.b)` to `:deep(.b)`",
		text.MustRegexp(`::v-deep\s*\(`),
		text.Constant(":deep("),
	)...)

	out = append(out, styled("deep/::v-deep",
		"`::v-deep .b {` to `:deep(.b) {`",
		text.MustRegexp(`::v-deep\s+([^{},(]+?)(\s*[{,])`),
		text.Template(":deep($1)$2"),
	)...)

	return out
}
