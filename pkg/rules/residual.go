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
	"github.com/walteh/rewriterc/pkg/region"
	"github.com/walteh/rewriterc/pkg/text"
)

func detector(name, desc string, m text.Matcher, opts ...text.Option) *text.Rule {
	return text.Detect(name, m, append(opts, text.WithDescription(desc))...)
}

// Residuals returns detect-only rules for Vue 2 and Webpack idioms that
// should be gone after a full migration
func Residuals() []*text.Rule {
	return []*text.Rule{
		detector("residual/>>>", "deep combinator >>> left behind",
			text.Literal(">>>"), text.WithScope(region.Style), text.WithFileGlob(vueFiles)),
		detector("residual/>>>/css", "deep combinator >>> left behind",
			text.Literal(">>>"), text.WithFileGlob(styleFiles)),
		detector("residual//deep/", "deep combinator /deep/ left behind",
			text.Literal("/deep/"), text.WithScope(region.Style), text.WithFileGlob(vueFiles)),
		detector("residual//deep//css", "deep combinator /deep/ left behind",
			text.Literal("/deep/"), text.WithFileGlob(styleFiles)),
		detector("residual/::v-deep", "::v-deep left behind",
			text.Literal("::v-deep"), text.WithFileGlob("**/*.{vue,css,scss,less}")),
		detector("residual/$set", "this.$set or vm.$set call left behind",
			text.MustRegexp(`\b(?:this|vm)\.\$set\s*\(`), text.WithFileGlob(codeFiles)),
		detector("residual/slot-scope", "slot-scope attribute left behind",
			text.MustRegexp(`\bslot-scope\s*=`), text.WithFileGlob(vueFiles)),
		detector("residual/require", "CommonJS require left behind",
			text.MustRegexp(`\brequire(?:\.context)?\s*\(`), text.WithScope(region.Script), text.WithFileGlob(vueFiles)),
		detector("residual/require/js", "CommonJS require left behind",
			text.MustRegexp(`\brequire(?:\.context)?\s*\(`), text.WithFileGlob(scriptFiles)),
		detector("residual/process.env", "webpack environment variable left behind",
			text.MustRegexp(`\bprocess\.env\.(?:VUE_APP_|NODE_ENV\b|BASE_API\b)`), text.WithFileGlob(codeFiles)),
	}
}
