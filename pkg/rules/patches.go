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

// doubleClose drops the extra ) of ":deep(x)) {" unless the inner selector
// opened a paren of its own, as in ":deep(a:not(.b)) {"
func doubleClose(o text.Occurrence) string {
	if strings.Contains(o.Group(1), "(") {
		return o.Text
	}
	return ":deep(" + o.Group(1) + ")" + o.Group(2)
}

func patchRules() []*text.Rule {
	var out []*text.Rule

	out = append(out, styled("patches/::deep",
		"`::deep(` to `:deep(`",
		text.MustRegexp(`::deep\(`),
		text.Constant(":deep("),
	)...)

	out = append(out, styled("patches/double-close",
		"`:deep(.b)) {` to `:deep(.b) {`",
		text.MustRegexp(`:deep\(([^)]+)\)\)(\s*\{)`),
		doubleClose,
	)...)

	out = append(out, styled("patches/unclosed-not",
		"`:deep(a:not(.b) {` to `:deep(a:not(.b)) {`",
		text.MustRegexp(`:deep\(([^:)]*:not\([^)]+)\)(\s*\{)`),
		text.Template(":deep($1))$2"),
	)...)

	out = append(out, styled("patches/unclosed",
		"`:deep(.b {` to `:deep(.b) {`",
		text.MustRegexp(`:deep\(([^(){}\n]*?)\s*\{`),
		text.Template(":deep($1) {"),
	)...)

	out = append(out, styled("patches/trailing-space",
		"`:deep(.b ) {` to `:deep(.b) {`",
		text.MustRegexp(`:deep\(([^()]*?)\s+\)(\s*\{)`),
		text.Template(":deep($1)$2"),
	)...)

	out = append(out, text.NewRule("patches/image-comma",
		text.MustRegexp(`(image:\s*'[^'\n]+\.(?:jpg|jpeg|png|gif)')\n([ \t]+event:)`),
		text.Template("$1,\n$2"),
		text.WithFileGlob("**/*.{vue,js}"),
		text.WithDescription("missing comma after `image: 'x.png'` before `event:`"),
	))

	return out
}
