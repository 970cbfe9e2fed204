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
	"regexp"

	"github.com/walteh/rewriterc/pkg/text"
)

var identifier = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)

// setCall rewrites this.$set(obj, 'key', value) into a plain assignment
func setCall(o text.Occurrence) string {
	obj, key, value := o.Group(2), o.Group(3), o.Group(4)
	if identifier.MatchString(key) {
		return obj + "." + key + " = " + value
	}
	return obj + "['" + key + "'] = " + value
}

// slotScope rewrites <template slot-scope="s"> keeping the quote style
func slotScope(o text.Occurrence) string {
	if v := o.Group(1); v != "" {
		return `<template #default="` + v + `">`
	}
	return `<template #default='` + o.Group(2) + `'>`
}

var gradientDirections = map[string]string{
	"left":   "to right",
	"right":  "to left",
	"top":    "to bottom",
	"bottom": "to top",
}

func gradient(o text.Occurrence) string {
	return o.Group(1) + "(" + gradientDirections[o.Group(2)] + ","
}

func vue3Rules() []*text.Rule {
	return []*text.Rule{
		text.NewRule("vue3/$set",
			text.MustRegexp(`\b(this|vm)\.\$set\s*\(\s*([^,()]+?)\s*,\s*['"]([^'"]+)['"]\s*,\s*([^()]+?)\s*\)`),
			setCall,
			text.WithFileGlob(codeFiles),
			text.WithDescription("`this.$set(o, 'k', v)` to `o.k = v`"),
		),
		text.NewRule("vue3/slot-scope",
			text.MustRegexp(`<template\s+slot-scope\s*=\s*(?:"([^"]+)"|'([^']+)')\s*>`),
			slotScope,
			text.WithFileGlob(vueFiles),
			text.WithDescription("`<template slot-scope=\"s\">` to `<template #default=\"s\">`"),
		),
		text.NewRule("vue3/gradient",
			text.MustRegexp(`((?:-webkit-|-moz-|-o-|-ms-)?linear-gradient)\s*\(\s*(left|right|top|bottom)\s*,`),
			gradient,
			text.WithFileGlob("**/*.{vue,css,scss,less}"),
			text.WithDescription("`linear-gradient(left, ...)` to `linear-gradient(to right, ...)`"),
		),
	}
}
