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
	"github.com/walteh/rewriterc/pkg/region"
)

// 🔥 Firing records how many replacements one rule made
type Firing struct {
	Rule  string
	Count int
}

// 📊 Result is the outcome of rewriting one buffer with an ordered rule list
type Result struct {
	Path     string
	Original string
	Final    string

	// Fired lists the rules that made at least one replacement, in the order
	// they ran
	Fired []Firing

	// Mismatches lists unclosed regions met by scoped rules
	Mismatches []region.Mismatch
}

// Changed reports whether the final content differs from the original
func (r *Result) Changed() bool {
	return r.Original != r.Final
}

// Replacements returns the total number of replacements made
func (r *Result) Replacements() int {
	total := 0
	for _, f := range r.Fired {
		total += f.Count
	}
	return total
}

// 🏃 Rewrite applies rules in order to content. Rules whose file glob does
// not match path are skipped. An empty path runs every rule. Path-bound
// rules are bound to path first.
func Rewrite(path, content string, rules []*Rule) *Result {
	res := &Result{
		Path:     path,
		Original: content,
		Final:    content,
	}

	type mismatchKey struct {
		kind string
		line int
	}
	seen := map[mismatchKey]struct{}{}

	for _, r := range rules {
		if !r.AppliesTo(path) {
			continue
		}

		app := r.For(path).Apply(res.Final)
		for _, m := range app.Mismatches {
			key := mismatchKey{m.Kind, m.Line}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			res.Mismatches = append(res.Mismatches, m)
		}

		if app.Count == 0 {
			continue
		}
		res.Final = app.Content
		res.Fired = append(res.Fired, Firing{Rule: r.Name(), Count: app.Count})
	}

	return res
}
