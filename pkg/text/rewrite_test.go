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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/rewriterc/pkg/region"
)

func TestRewrite(t *testing.T) {
	rules := []*Rule{
		NewRule("deep", Literal(">>>"), Constant("::v-deep"), WithScope(region.Style)),
		NewRule("v-deep", MustRegexp(`::v-deep\s+([^{]+?)(\s*\{)`), Template(":deep($1)$2"), WithScope(region.Style)),
		NewRule("env", Literal("process.env.NODE_ENV"), Constant("import.meta.env.MODE"), WithFileGlob("**/*.{js,vue}")),
	}

	tests := []struct {
		name        string
		path        string
		content     string
		want        string
		wantFired   []Firing
		wantChanged bool
	}{
		{
			name:    "rules_compose_in_order",
			path:    "src/App.vue",
			content: "<style scoped>\n.a >>> .b { color: red; }\n</style>",
			want:    "<style scoped>\n.a :deep(.b) { color: red; }\n</style>",
			wantFired: []Firing{
				{Rule: "deep", Count: 1},
				{Rule: "v-deep", Count: 1},
			},
			wantChanged: true,
		},
		{
			name:        "file_glob_skips_rule",
			path:        "src/env.ts",
			content:     "if (process.env.NODE_ENV) {}",
			want:        "if (process.env.NODE_ENV) {}",
			wantChanged: false,
		},
		{
			name:        "file_glob_runs_rule",
			path:        "src/env.js",
			content:     "if (process.env.NODE_ENV) {}",
			want:        "if (import.meta.env.MODE) {}",
			wantFired:   []Firing{{Rule: "env", Count: 1}},
			wantChanged: true,
		},
		{
			name:        "already_migrated",
			path:        "src/App.vue",
			content:     "<style>\n.a :deep(.b) {}\n</style>",
			want:        "<style>\n.a :deep(.b) {}\n</style>",
			wantChanged: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Rewrite(tt.path, tt.content, rules)
			assert.Equal(t, tt.want, res.Final)
			assert.Equal(t, tt.content, res.Original)
			assert.Equal(t, tt.wantFired, res.Fired)
			assert.Equal(t, tt.wantChanged, res.Changed())
		})
	}
}

func TestRewriteIsIdempotent(t *testing.T) {
	rules := []*Rule{
		NewRule("deep", MustRegexp(`>>>\s*([^{]+?)(\s*\{)`), Template(":deep($1)$2"), WithScope(region.Style)),
		NewRule("rename", Word("userName"), Constant("user_name")),
	}
	content := "<script>\nconst userName = 1\n</script>\n<style>\n.a >>> .b {}\n</style>\n"

	first := Rewrite("a.vue", content, rules)
	require.True(t, first.Changed())
	assert.Equal(t, 2, first.Replacements())

	second := Rewrite("a.vue", first.Final, rules)
	assert.False(t, second.Changed(), "second pass should not change anything")
	assert.Equal(t, 0, second.Replacements())
	assert.Empty(t, second.Fired)
}

func TestRewriteDeduplicatesMismatches(t *testing.T) {
	rules := []*Rule{
		NewRule("one", Literal("a"), Constant("b"), WithScope(region.Style)),
		NewRule("two", Literal("c"), Constant("d"), WithScope(region.Style)),
	}
	content := "<template></template>\n<style>\na c\n"

	res := Rewrite("a.vue", content, rules)
	assert.False(t, res.Changed())
	require.Len(t, res.Mismatches, 1)
	assert.Equal(t, "style", res.Mismatches[0].Kind)
	assert.Equal(t, 2, res.Mismatches[0].Line)
}
