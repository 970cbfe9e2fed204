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
	"path"
	"path/filepath"
	"strings"

	"github.com/walteh/rewriterc/pkg/region"
	"github.com/walteh/rewriterc/pkg/text"
)

// ImportExtensions are tried in order when an import has no extension
var ImportExtensions = []string{".vue", ".js", ".ts"}

// imports that already name one of these are left alone
var resolvedExtensions = []string{".vue", ".js", ".ts", ".jsx", ".tsx"}

// Groups: 1 keyword, 2 spacing, 3 quote, 4 relative specifier.
var relativeImport = text.MustRegexp(`\b(from|import)(\s+)(['"])(\.\.?/[^'"\n]+)['"]`)

func hasResolvedExtension(spec string) bool {
	for _, ext := range resolvedExtensions {
		if strings.HasSuffix(spec, ext) {
			return true
		}
	}
	return false
}

// importExtension resolves relative imports against the importing file's
// directory. exists is called with root-relative slash paths.
func importExtension(exists func(rel string) bool) text.PathTransform {
	return func(importer string) text.Transform {
		dir := path.Dir(filepath.ToSlash(importer))
		return func(o text.Occurrence) string {
			spec := o.Group(4)
			if hasResolvedExtension(spec) {
				return o.Text
			}
			target := path.Join(dir, spec)
			for _, ext := range ImportExtensions {
				if exists(target + ext) {
					quote := o.Group(3)
					return o.Group(1) + o.Group(2) + quote + spec + ext + quote
				}
			}
			return o.Text
		}
	}
}

// 📎 ImportExtensionRules adds the file extension Vite needs to relative
// imports without one. The first of ImportExtensions naming an existing file,
// relative to the importer, wins. Imports of directories and of missing files
// are left alone.
func ImportExtensionRules(exists func(rel string) bool) []*text.Rule {
	desc := "`import X from './X'` to `import X from './X.vue'` when ./X.vue exists"
	pt := importExtension(exists)
	return []*text.Rule{
		text.NewPathRule("extensions/import", relativeImport, pt,
			text.WithScope(region.Script), text.WithFileGlob(vueFiles), text.WithDescription(desc)),
		text.NewPathRule("extensions/import/js", relativeImport, pt,
			text.WithFileGlob(scriptFiles), text.WithDescription(desc)),
	}
}
