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

package region

import (
	"fmt"
	"iter"
	"regexp"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🏷️ Marker is a start/end delimiter pair for one kind of region
type Marker struct {
	kind  string
	start *regexp.Regexp
	end   *regexp.Regexp
}

var (
	// Style matches <style ...>...</style> blocks of single file components.
	Style = MustMarker("style", `(?i)<style\b[^>]*>`, `(?i)</style\s*>`)
	// Script matches <script ...>...</script> blocks.
	Script = MustMarker("script", `(?i)<script\b[^>]*>`, `(?i)</script\s*>`)
	// Template matches <template ...>...</template> blocks. Nested templates
	// end at the nearest closing tag.
	Template = MustMarker("template", `(?i)<template\b[^>]*>`, `(?i)</template\s*>`)
)

// 🏭 NewMarker compiles a marker from start and end patterns
func NewMarker(kind, start, end string) (*Marker, error) {
	if kind == "" {
		return nil, errors.Errorf("marker kind is required")
	}

	startRe, err := regexp.Compile(start)
	if err != nil {
		return nil, errors.Errorf("compiling start pattern for %s: %w", kind, err)
	}

	endRe, err := regexp.Compile(end)
	if err != nil {
		return nil, errors.Errorf("compiling end pattern for %s: %w", kind, err)
	}

	// an empty delimiter would never advance the scan
	if startRe.MatchString("") || endRe.MatchString("") {
		return nil, errors.Errorf("marker %s: delimiters must not match the empty string", kind)
	}

	return &Marker{kind: kind, start: startRe, end: endRe}, nil
}

// MustMarker is like NewMarker but panics on error
func MustMarker(kind, start, end string) *Marker {
	m, err := NewMarker(kind, start, end)
	if err != nil {
		panic(err)
	}
	return m
}

// Kind returns the marker's region kind, e.g. "style"
func (m *Marker) Kind() string {
	return m.kind
}

// Lookup returns one of the built-in markers by kind
func Lookup(kind string) (*Marker, bool) {
	switch strings.ToLower(kind) {
	case "style":
		return Style, true
	case "script":
		return Script, true
	case "template":
		return Template, true
	}
	return nil, false
}

// 📦 Region is one delimited span of a buffer
type Region struct {
	Kind string

	// Start and End span the whole region, markers included
	Start int
	End   int

	// BodyStart and BodyEnd span the text between the markers
	BodyStart int
	BodyEnd   int
}

// Body returns the text between the region's markers
func (r Region) Body(content string) string {
	return content[r.BodyStart:r.BodyEnd]
}

// ⚠️ Mismatch records an opening marker that has no closing marker
type Mismatch struct {
	Kind   string
	Offset int
	Line   int
}

func (m Mismatch) String() string {
	return fmt.Sprintf("unclosed %s region at line %d", m.Kind, m.Line)
}

// next finds the first region at or after pos. When an opening marker is
// found without a closing marker, ok is false and mismatch is set.
func next(content string, m *Marker, pos int) (r Region, ok bool, mismatch *Mismatch) {
	loc := m.start.FindStringIndex(content[pos:])
	if loc == nil {
		return Region{}, false, nil
	}
	start, bodyStart := pos+loc[0], pos+loc[1]

	endLoc := m.end.FindStringIndex(content[bodyStart:])
	if endLoc == nil {
		return Region{}, false, &Mismatch{
			Kind:   m.kind,
			Offset: start,
			Line:   strings.Count(content[:start], "\n") + 1,
		}
	}

	return Region{
		Kind:      m.kind,
		Start:     start,
		End:       bodyStart + endLoc[1],
		BodyStart: bodyStart,
		BodyEnd:   bodyStart + endLoc[0],
	}, true, nil
}

// 🔍 Extract lazily yields the regions of content delimited by m, in
// ascending order. Every range over the returned sequence rescans content.
//
// An unclosed opening marker ends the sequence: no later opening marker can
// have a closing marker either. Use Scan to learn about it.
func Extract(content string, m *Marker) iter.Seq[Region] {
	return func(yield func(Region) bool) {
		pos := 0
		for pos < len(content) {
			r, ok, _ := next(content, m, pos)
			if !ok {
				return
			}
			if !yield(r) {
				return
			}
			pos = r.End
		}
	}
}

// 🔍 Scan collects every region of content and any unclosed opening marker.
// Unclosed regions are skipped, never treated as running to end of file.
func Scan(content string, m *Marker) ([]Region, []Mismatch) {
	var regions []Region
	pos := 0
	for pos < len(content) {
		r, ok, mismatch := next(content, m, pos)
		if mismatch != nil {
			return regions, []Mismatch{*mismatch}
		}
		if !ok {
			break
		}
		regions = append(regions, r)
		pos = r.End
	}
	return regions, nil
}
