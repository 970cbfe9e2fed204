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
	"path"
	"regexp"
	"strings"
)

// matches require('p'), import('p'), import x from 'p' and import 'p'
var loadPattern = regexp.MustCompile(`(?:\brequire\s*\(\s*|\bimport\s*\(\s*|\bfrom\s+|\bimport\s+)['"]([^'"\n]+)['"]`)

type load struct {
	module string
	offset int
}

func loads(content string) []load {
	var out []load
	for _, loc := range loadPattern.FindAllStringSubmatchIndex(content, -1) {
		out = append(out, load{module: content[loc[2]:loc[3]], offset: loc[2]})
	}
	return out
}

// 🔁 DuplicateLoads reports every module path loaded two or more times in
// one file, once per module, in order of first appearance. The line is the
// line of the second load.
func DuplicateLoads(filePath, content string) []Finding {
	counts := map[string]int{}
	var order []string
	second := map[string]int{}

	for _, l := range loads(content) {
		counts[l.module]++
		switch counts[l.module] {
		case 1:
			order = append(order, l.module)
		case 2:
			second[l.module] = l.offset
		}
	}

	var out []Finding
	for _, module := range order {
		if counts[module] < 2 {
			continue
		}
		out = append(out, Finding{
			Kind:   KindDuplicateImport,
			Path:   filePath,
			Line:   lineAt(content, second[module]),
			Module: module,
			Detail: fmt.Sprintf("loaded %d times", counts[module]),
		})
	}
	return out
}

// 🔀 MixedImports reports modules that one file loads as both base.js and
// base.ts
func MixedImports(filePath, content string) []Finding {
	js := map[string]int{}
	ts := map[string]int{}
	var order []string

	for _, l := range loads(content) {
		ext := path.Ext(l.module)
		base := strings.TrimSuffix(l.module, ext)
		switch ext {
		case ".js":
			if _, ok := js[base]; !ok {
				js[base] = l.offset
				order = append(order, base)
			}
		case ".ts":
			if _, ok := ts[base]; !ok {
				ts[base] = l.offset
				order = append(order, base)
			}
		}
	}

	seen := map[string]bool{}
	var out []Finding
	for _, base := range order {
		jsOff, hasJS := js[base]
		tsOff, hasTS := ts[base]
		if !hasJS || !hasTS || seen[base] {
			continue
		}
		seen[base] = true
		out = append(out, Finding{
			Kind:   KindMixedImport,
			Path:   filePath,
			Line:   lineAt(content, max(jsOff, tsOff)),
			Module: base,
			Detail: fmt.Sprintf("imports both %s.js and %s.ts", base, base),
		})
	}
	return out
}
