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
	"slices"
	"strings"

	"github.com/walteh/rewriterc/pkg/region"
	"github.com/walteh/rewriterc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// ErrUnknownSet is returned when a rule set name is not registered
var ErrUnknownSet = errors.Base("unknown rule set")

// All selects every set except rename
const All = "all"

// file globs shared by the built-in rules
const (
	vueFiles    = "**/*.vue"
	styleFiles  = "**/*.{css,scss,less}"
	scriptFiles = "**/*.{js,ts}"
	codeFiles   = "**/*.{vue,js,ts}"
)

// 📚 Set is a named, ordered group of rules
type Set struct {
	Name        string
	Description string
	Rules       []*text.Rule

	// Optional sets are only run when named explicitly
	Optional bool
}

// registry order is the order sets run in
var registry = []*Set{
	{Name: "deep", Description: "Vue 2 deep combinators (>>>, /deep/, ::v-deep) to :deep()", Rules: deepRules()},
	{Name: "vue3", Description: "Vue 3 API and template changes ($set, slot-scope, gradients)", Rules: vue3Rules()},
	{Name: "vite", Description: "Webpack to Vite (process.env, require)", Rules: viteRules()},
	{Name: "patches", Description: "repairs for known-bad output of earlier migration passes", Rules: patchRules()},
	{Name: "rename", Description: "camelCase to snake_case field renames", Rules: RenameRules(DefaultRenames), Optional: true},
}

// Names returns every registered set name in run order
func Names() []string {
	out := make([]string, 0, len(registry))
	for _, s := range registry {
		out = append(out, s.Name)
	}
	return out
}

// Sets returns every registered set in run order
func Sets() []*Set {
	return slices.Clone(registry)
}

// Lookup returns a registered set by name
func Lookup(name string) (*Set, bool) {
	for _, s := range registry {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// 🔗 Resolve returns the rules of the named sets. "all" selects every set
// that is not optional. Sets always run in registry order, whatever the
// order of names, so repair passes follow the passes they repair.
func Resolve(names []string) ([]*text.Rule, error) {
	want := map[string]bool{}
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		if n == All {
			for _, s := range registry {
				if !s.Optional {
					want[s.Name] = true
				}
			}
			continue
		}
		if _, ok := Lookup(n); !ok {
			return nil, errors.Errorf("%q (known: %s, %s): %w", n, strings.Join(Names(), ", "), All, ErrUnknownSet)
		}
		want[n] = true
	}

	var out []*text.Rule
	for _, s := range registry {
		if want[s.Name] {
			out = append(out, s.Rules...)
		}
	}
	return out, nil
}

// styled builds a rule for <style> blocks of .vue files and a twin for whole
// stylesheet files
func styled(name, desc string, m text.Matcher, t text.Transform) []*text.Rule {
	return scoped(name, desc, region.Style, styleFiles, "css", m, t)
}

// scripted builds a rule for <script> blocks of .vue files and a twin for
// whole .js/.ts files
func scripted(name, desc string, m text.Matcher, t text.Transform) []*text.Rule {
	return scoped(name, desc, region.Script, scriptFiles, "js", m, t)
}

func scoped(name, desc string, marker *region.Marker, plainGlob, suffix string, m text.Matcher, t text.Transform) []*text.Rule {
	return []*text.Rule{
		text.NewRule(name, m, t, text.WithScope(marker), text.WithFileGlob(vueFiles), text.WithDescription(desc)),
		text.NewRule(name+"/"+suffix, m, t, text.WithFileGlob(plainGlob), text.WithDescription(desc)),
	}
}
