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
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/walteh/rewriterc/pkg/text"
)

var (
	// a require of a relative or @-aliased module with a literal path.
	// Groups: 1 module, 2 ".default".
	localRequire = regexp.MustCompile(`\brequire\(\s*['"]((?:\.\.?/|@/)[^'"]*)['"]\s*\)(\.default\b)?`)

	hoistedName   = regexp.MustCompile(`\b_imported_(\d+)\b`)
	leadingImport = regexp.MustCompile(`^import\b[^\n]*['"];?[ \t]*$`)
)

// isLocalModule reports whether p is a relative or @-aliased project path
func isLocalModule(p string) bool {
	return strings.HasPrefix(p, "./") || strings.HasPrefix(p, "../") || strings.HasPrefix(p, "@/")
}

// requireToImport rewrites a top-level `const x = require('p')` statement.
// Groups: 2 name, 3 module, 4 ".default", 5 optional semicolon.
func requireToImport(o text.Occurrence) string {
	name, module, semi := o.Group(2), o.Group(3), o.Group(5)
	if o.Group(4) == "" && isLocalModule(module) {
		return "import * as " + name + " from '" + module + "'" + semi
	}
	return "import " + name + " from '" + module + "'" + semi
}

// destructuredRequire rewrites `const { a, b: c } = require('p')` into a
// named import. Rest elements and nested patterns are left alone.
func destructuredRequire(o text.Occurrence) string {
	body, module, semi := o.Group(2), o.Group(3), o.Group(4)
	if strings.ContainsAny(body, "{}[]=") || strings.Contains(body, "...") {
		return o.Text
	}

	var names []string
	for _, part := range strings.Split(body, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if from, to, ok := strings.Cut(part, ":"); ok {
			part = strings.TrimSpace(from) + " as " + strings.TrimSpace(to)
		}
		names = append(names, part)
	}
	if len(names) == 0 {
		return o.Text
	}
	return "import { " + strings.Join(names, ", ") + " } from '" + module + "'" + semi
}

// isAsset reports whether module names a non-script file, whose require
// returns its default export
func isAsset(module string) bool {
	switch path.Ext(module) {
	case "", ".js", ".mjs", ".ts", ".jsx", ".tsx", ".vue":
		return false
	default:
		return true
	}
}

// hoistRequires replaces every remaining local require in a script with a
// hoisted `_imported_N` import. The same module and form share one import.
// Numbering continues after any `_imported_N` already in the script.
func hoistRequires(o text.Occurrence) string {
	body := o.Text
	locs := localRequire.FindAllStringSubmatchIndex(body, -1)
	if len(locs) == 0 {
		return body
	}

	next := 1
	for _, m := range hoistedName.FindAllStringSubmatch(body, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= next {
			next = n + 1
		}
	}

	type key struct {
		module     string
		hasDefault bool
	}
	names := make(map[key]string)
	var imports []string

	var b strings.Builder
	b.Grow(len(body))
	last := 0
	for _, loc := range locs {
		module := body[loc[2]:loc[3]]
		k := key{module: module, hasDefault: loc[4] >= 0 || isAsset(module)}
		name, ok := names[k]
		if !ok {
			name = fmt.Sprintf("_imported_%d", next)
			next++
			names[k] = name
			if k.hasDefault {
				imports = append(imports, "import "+name+" from '"+k.module+"'")
			} else {
				imports = append(imports, "import * as "+name+" from '"+k.module+"'")
			}
		}
		b.WriteString(body[last:loc[0]])
		b.WriteString(name)
		last = loc[1]
	}
	b.WriteString(body[last:])

	return insertImports(b.String(), imports)
}

// insertImports puts imports after the leading single-line imports of body,
// or at its top when there are none
func insertImports(body string, imports []string) string {
	block := strings.Join(imports, "\n") + "\n"

	off, after := 0, -1
	for _, line := range strings.SplitAfter(body, "\n") {
		trimmed := strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(trimmed) == "" {
			off += len(line)
			continue
		}
		if !leadingImport.MatchString(trimmed) {
			break
		}
		off += len(line)
		after = off
	}

	switch {
	case after >= 0:
		if !strings.HasSuffix(body[:after], "\n") {
			block = "\n" + block
		}
		return body[:after] + block + body[after:]
	case strings.HasPrefix(body, "\n"):
		return "\n" + block + body[1:]
	default:
		return block + "\n" + body
	}
}

func viteRules() []*text.Rule {
	out := []*text.Rule{
		text.NewRule("vite/NODE_ENV",
			text.MustRegexp(`\bprocess\.env\.NODE_ENV\b`),
			text.Constant("import.meta.env.MODE"),
			text.WithFileGlob(codeFiles),
			text.WithDescription("`process.env.NODE_ENV` to `import.meta.env.MODE`"),
		),
		text.NewRule("vite/VUE_APP_",
			text.MustRegexp(`\bprocess\.env\.VUE_APP_`),
			text.Constant("import.meta.env.VITE_"),
			text.WithFileGlob(codeFiles),
			text.WithDescription("`process.env.VUE_APP_X` to `import.meta.env.VITE_X`"),
		),
		text.NewRule("vite/BASE_API",
			text.MustRegexp(`\bprocess\.env\.BASE_API\b`),
			text.Constant("import.meta.env.VITE_BASE_API"),
			text.WithFileGlob(codeFiles),
			text.WithDescription("`process.env.BASE_API` to `import.meta.env.VITE_BASE_API`"),
		),
		text.NewRule("vite/image-require",
			text.MustRegexp(`\brequire\(\s*['"]((?:\.\.?/)*(?:@/)?(?:[\w.-]+/)*images/[^'"]+)['"]\s*\)`),
			text.Template("'$1'"),
			text.WithFileGlob(codeFiles),
			text.WithDescription("`require('../images/x.png')` to `'../images/x.png'`"),
		),
	}

	out = append(out, scripted("vite/require",
		"top-level `const x = require('p')` to `import x from 'p'`",
		text.MustRegexp(`(?m)^(const|let|var)\s+([\w$]+)\s*=\s*require\(\s*['"]([^'"]+)['"]\s*\)(\.default)?[ \t]*(;?)[ \t]*$`),
		requireToImport,
	)...)

	out = append(out, scripted("vite/require-destructure",
		"top-level `const { a } = require('p')` to `import { a } from 'p'`",
		text.MustRegexp(`(?m)^(const|let|var)\s*\{([^{}]+)\}\s*=\s*require\(\s*['"]([^'"]+)['"]\s*\)[ \t]*(;?)[ \t]*$`),
		destructuredRequire,
	)...)

	out = append(out, scripted("vite/require-hoist",
		"nested `require('./p')` to a hoisted `import _imported_N from './p'`",
		text.Whole(),
		hoistRequires,
	)...)

	return out
}
