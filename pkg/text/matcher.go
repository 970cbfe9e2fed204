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
	"regexp"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🔍 Matcher finds occurrences of a pattern in a buffer.
//
// Find must return non-overlapping occurrences in ascending order and must
// not retain or modify content. Matching is textual; a structural matcher can
// implement this interface without changes to rules or the batch runner.
type Matcher interface {
	Find(content string) []Occurrence
}

type regexpMatcher struct {
	re *regexp.Regexp
}

// Regexp returns a Matcher backed by an RE2 regular expression
func Regexp(pattern string) (Matcher, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Errorf("compiling pattern %q: %w", pattern, err)
	}
	return &regexpMatcher{re: re}, nil
}

// MustRegexp is like Regexp but panics on error. Use it for rule tables.
func MustRegexp(pattern string) Matcher {
	m, err := Regexp(pattern)
	if err != nil {
		panic(err)
	}
	return m
}

// Word returns a Matcher for word as a whole word: it must be bounded by a
// word boundary on both sides, so "userName" does not match inside
// "someUserNameField".
func Word(word string) Matcher {
	return &regexpMatcher{re: regexp.MustCompile(`\b` + regexp.QuoteMeta(word) + `\b`)}
}

func (m *regexpMatcher) Find(content string) []Occurrence {
	locs := m.re.FindAllStringSubmatchIndex(content, -1)
	if len(locs) == 0 {
		return nil
	}

	names := m.re.SubexpNames()
	out := make([]Occurrence, 0, len(locs))
	for _, loc := range locs {
		groups := make([]string, len(loc)/2)
		for g := range groups {
			if loc[2*g] >= 0 {
				groups[g] = content[loc[2*g]:loc[2*g+1]]
			}
		}
		out = append(out, Occurrence{
			Start:  loc[0],
			End:    loc[1],
			Text:   groups[0],
			Groups: groups,
			Names:  names,
		})
	}
	return out
}

func (m *regexpMatcher) String() string {
	return m.re.String()
}

type literalMatcher struct {
	needle string
}

// Literal returns a Matcher for an exact substring
func Literal(needle string) Matcher {
	return &literalMatcher{needle: needle}
}

func (m *literalMatcher) Find(content string) []Occurrence {
	if m.needle == "" {
		return nil
	}

	var out []Occurrence
	for pos := 0; ; {
		idx := strings.Index(content[pos:], m.needle)
		if idx < 0 {
			return out
		}
		start := pos + idx
		end := start + len(m.needle)
		out = append(out, Occurrence{
			Start:  start,
			End:    end,
			Text:   m.needle,
			Groups: []string{m.needle},
			Names:  []string{""},
		})
		pos = end
	}
}

func (m *literalMatcher) String() string {
	return m.needle
}

type wholeMatcher struct{}

// Whole returns a Matcher whose only occurrence is the entire buffer, or the
// entire region body for a scoped rule. Its transform sees the whole text at
// once, for rewrites that move code, such as hoisting imports.
func Whole() Matcher {
	return wholeMatcher{}
}

func (wholeMatcher) Find(content string) []Occurrence {
	if content == "" {
		return nil
	}
	return []Occurrence{{
		Start:  0,
		End:    len(content),
		Text:   content,
		Groups: []string{content},
		Names:  []string{""},
	}}
}

func (wholeMatcher) String() string {
	return "(whole)"
}
