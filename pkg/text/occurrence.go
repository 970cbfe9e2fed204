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

package text

import (
	"strconv"
	"strings"
)

// 🎯 Occurrence is one match of a Matcher in a buffer
type Occurrence struct {
	// Start and End are byte offsets into the matched buffer
	Start int
	End   int

	// Text is the matched span
	Text string

	// Groups holds the captured sub-groups; Groups[0] is Text. Groups that
	// did not participate in the match are empty.
	Groups []string

	// Names holds the sub-group names aligned with Groups, "" when unnamed
	Names []string
}

// Group returns captured group i, or "" when it does not exist
func (o Occurrence) Group(i int) string {
	if i < 0 || i >= len(o.Groups) {
		return ""
	}
	return o.Groups[i]
}

// Named returns the captured group with the given name
func (o Occurrence) Named(name string) string {
	for i, n := range o.Names {
		if n != "" && n == name {
			return o.Group(i)
		}
	}
	return ""
}

// 📝 Expand substitutes $1, ${1}, ${name} and $$ in template with the
// occurrence's groups. Unlike regexp.Expand, "$1x" means group 1 then "x".
func (o Occurrence) Expand(template string) string {
	if !strings.Contains(template, "$") {
		return template
	}

	var b strings.Builder
	for i := 0; i < len(template); i++ {
		c := template[i]
		if c != '$' || i+1 >= len(template) {
			b.WriteByte(c)
			continue
		}

		switch n := template[i+1]; {
		case n == '$':
			b.WriteByte('$')
			i++
		case n == '{':
			end := strings.IndexByte(template[i+2:], '}')
			if end < 0 {
				b.WriteByte(c)
				continue
			}
			b.WriteString(o.lookup(template[i+2 : i+2+end]))
			i += 2 + end
		case isDigit(n):
			j := i + 1
			for j < len(template) && isDigit(template[j]) {
				j++
			}
			b.WriteString(o.lookup(template[i+1 : j]))
			i = j - 1
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func (o Occurrence) lookup(ref string) string {
	if idx, err := strconv.Atoi(ref); err == nil {
		return o.Group(idx)
	}
	return o.Named(ref)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
