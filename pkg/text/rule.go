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
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/walteh/rewriterc/pkg/region"
	"gitlab.com/tozd/go/errors"
)

// 🔄 Transform maps one occurrence to its replacement text
type Transform func(o Occurrence) string

// Template returns a Transform that expands tmpl with the occurrence groups
func Template(tmpl string) Transform {
	return func(o Occurrence) string {
		return o.Expand(tmpl)
	}
}

// Constant returns a Transform that always yields s
func Constant(s string) Transform {
	return func(Occurrence) string {
		return s
	}
}

// PathTransform builds the transform used for the file at path, for rules
// whose replacement depends on where the file lives
type PathTransform func(path string) Transform

// Identity leaves every occurrence as it is. Rules built with it only detect.
func Identity(o Occurrence) string {
	return o.Text
}

// 📜 Rule is an immutable (matcher, transform) pair, optionally confined to
// regions of one kind and to files matching a glob
type Rule struct {
	name        string
	description string
	matcher     Matcher
	transform   Transform
	bind        PathTransform
	scope       *region.Marker
	fileGlob    string
}

// Option configures a Rule at construction
type Option func(*Rule)

// WithScope confines the rule to the bodies of regions delimited by m
func WithScope(m *region.Marker) Option {
	return func(r *Rule) {
		r.scope = m
	}
}

// WithFileGlob restricts the rule to files matching a doublestar glob. A
// glob without a slash is matched against the base name.
func WithFileGlob(glob string) Option {
	return func(r *Rule) {
		r.fileGlob = glob
	}
}

// WithDescription attaches a human readable description
func WithDescription(desc string) Option {
	return func(r *Rule) {
		r.description = desc
	}
}

// 🏭 NewRule creates a rule
func NewRule(name string, m Matcher, t Transform, opts ...Option) *Rule {
	r := &Rule{
		name:      name,
		matcher:   m,
		transform: t,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewPathRule creates a rule whose transform is built per file by pt. Use
// For to bind it to a file; Rewrite does this for every file it rewrites.
func NewPathRule(name string, m Matcher, pt PathTransform, opts ...Option) *Rule {
	r := NewRule(name, m, nil, opts...)
	r.bind = pt
	return r
}

// For returns r bound to the file at p. Rules not built with NewPathRule are
// returned as they are.
func (r *Rule) For(p string) *Rule {
	if r.bind == nil {
		return r
	}
	bound := *r
	bound.transform = r.bind(p)
	bound.bind = nil
	return &bound
}

// Detect creates a rule that finds occurrences without changing them
func Detect(name string, m Matcher, opts ...Option) *Rule {
	return NewRule(name, m, Identity, opts...)
}

func (r *Rule) Name() string          { return r.name }
func (r *Rule) Description() string   { return r.description }
func (r *Rule) Matcher() Matcher      { return r.matcher }
func (r *Rule) Scope() *region.Marker { return r.scope }
func (r *Rule) FileGlob() string      { return r.fileGlob }

// AppliesTo reports whether the rule should run for the file at p
func (r *Rule) AppliesTo(p string) bool {
	if r.fileGlob == "" || p == "" {
		return true
	}

	p = filepath.ToSlash(p)
	if !strings.Contains(r.fileGlob, "/") {
		p = path.Base(p)
	}

	ok, err := doublestar.Match(r.fileGlob, p)
	return err == nil && ok
}

// 📊 Application is the outcome of applying one rule to one buffer
type Application struct {
	Content    string
	Count      int
	Mismatches []region.Mismatch
}

// Apply runs the rule over content. It does no I/O and never modifies its
// input. Only occurrences whose replacement differs from the matched text
// are counted, so already-migrated text reports zero.
func (r *Rule) Apply(content string) Application {
	if r.transform == nil && r.bind != nil {
		return r.For("").Apply(content)
	}
	if r.scope == nil {
		out, n := r.replace(content)
		return Application{Content: out, Count: n}
	}

	regions, mismatches := region.Scan(content, r.scope)
	if len(regions) == 0 {
		return Application{Content: content, Mismatches: mismatches}
	}

	var b strings.Builder
	b.Grow(len(content))
	last, total := 0, 0
	for _, reg := range regions {
		body, n := r.replace(reg.Body(content))
		b.WriteString(content[last:reg.BodyStart])
		b.WriteString(body)
		last = reg.BodyEnd
		total += n
	}
	b.WriteString(content[last:])

	if total == 0 {
		return Application{Content: content, Mismatches: mismatches}
	}
	return Application{Content: b.String(), Count: total, Mismatches: mismatches}
}

// ApplyRule applies r to content and returns the new content and the number
// of replacements made
func ApplyRule(content string, r *Rule) (string, int) {
	app := r.Apply(content)
	return app.Content, app.Count
}

// Locate returns the rule's occurrences in content with offsets relative to
// content, honoring the rule's scope
func (r *Rule) Locate(content string) []Occurrence {
	if r.scope == nil {
		return r.matcher.Find(content)
	}

	var out []Occurrence
	for reg := range region.Extract(content, r.scope) {
		for _, o := range r.matcher.Find(reg.Body(content)) {
			o.Start += reg.BodyStart
			o.End += reg.BodyStart
			out = append(out, o)
		}
	}
	return out
}

func (r *Rule) replace(content string) (string, int) {
	occs := r.matcher.Find(content)
	if len(occs) == 0 {
		return content, 0
	}

	var b strings.Builder
	last, n := 0, 0
	for _, o := range occs {
		// zero-width and overlapping matches are never rewritten
		if o.End <= o.Start || o.Start < last {
			continue
		}
		repl := r.transform(o)
		if repl == o.Text {
			continue
		}
		if n == 0 {
			b.Grow(len(content))
		}
		b.WriteString(content[last:o.Start])
		b.WriteString(repl)
		last = o.End
		n++
	}

	if n == 0 {
		return content, 0
	}
	b.WriteString(content[last:])
	return b.String(), n
}

// ✅ ValidateRules checks that every rule is complete and uniquely named
func ValidateRules(rules []*Rule) error {
	seen := make(map[string]struct{}, len(rules))
	for i, r := range rules {
		if r == nil {
			return errors.Errorf("rule %d: rule is nil", i)
		}
		if r.name == "" {
			return errors.Errorf("rule %d: name is required", i)
		}
		if r.matcher == nil {
			return errors.Errorf("rule %d (%s): matcher is required", i, r.name)
		}
		if r.transform == nil && r.bind == nil {
			return errors.Errorf("rule %d (%s): transform is required", i, r.name)
		}
		if r.fileGlob != "" && !doublestar.ValidatePattern(r.fileGlob) {
			return errors.Errorf("rule %d (%s): invalid file glob %q", i, r.name, r.fileGlob)
		}
		if _, dup := seen[r.name]; dup {
			return errors.Errorf("rule %d: duplicate rule name %q", i, r.name)
		}
		seen[r.name] = struct{}{}
	}
	return nil
}
