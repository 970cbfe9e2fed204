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

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
	return root
}

func readFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

type result struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, args ...string) result {
	t.Helper()
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	var stdout, stderr bytes.Buffer
	code := run(ctx, args, &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

const (
	appVue = "<template><div/></template>\n<style scoped>\n.a >>> .b { color: red; }\n</style>\n"
	mainJS = "if (process.env.NODE_ENV === 'production') {}\n"
)

func TestApply(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/App.vue":            appVue,
		"src/main.js":            mainJS,
		"node_modules/x/App.vue": appVue,
	})

	res := runCLI(t, "apply", "--root", root)
	require.Equal(t, 0, res.code, "stderr: %s", res.stderr)

	assert.Equal(t, "<template><div/></template>\n<style scoped>\n.a :deep(.b) { color: red; }\n</style>\n", readFile(t, root, "src/App.vue"))
	assert.Equal(t, "if (import.meta.env.MODE === 'production') {}\n", readFile(t, root, "src/main.js"))
	assert.Equal(t, appVue, readFile(t, root, "node_modules/x/App.vue"), "excluded directories are never touched")
	assert.Contains(t, res.stdout, "deep/>>>")

	again := runCLI(t, "apply", "--root", root)
	require.Equal(t, 0, again.code, "stderr: %s", again.stderr)
	assert.Contains(t, again.stdout, "0 files rewritten")
}

func TestApplySelectedSets(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/App.vue": appVue,
		"src/main.js": mainJS,
	})

	res := runCLI(t, "apply", "--root", root, "--sets", "vite")
	require.Equal(t, 1, res.code, "the untouched >>> is reported as residual")

	assert.Equal(t, appVue, readFile(t, root, "src/App.vue"))
	assert.Equal(t, "if (import.meta.env.MODE === 'production') {}\n", readFile(t, root, "src/main.js"))
	assert.Contains(t, res.stdout, "residual_pattern")
}

func TestApplyHoistsNestedRequires(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/Menu.vue": "<script>\nexport default {\n  data() {\n    return { icon: require('@/assets/icons/index.js').default }\n  }\n}\n</script>\n",
		"src/mock.js":  "if (dev) {\n  const mock = require('mockjs')\n}\n",
	})

	res := runCLI(t, "apply", "--root", root)
	assert.Equal(t, 1, res.code, "the package require left in mock.js needs attention")

	assert.Equal(t,
		"<script>\nimport _imported_1 from '@/assets/icons/index.js'\nexport default {\n  data() {\n    return { icon: _imported_1 }\n  }\n}\n</script>\n",
		readFile(t, root, "src/Menu.vue"))
	assert.Contains(t, res.stdout, "residual/require/js")
	assert.Contains(t, res.stdout, "src/mock.js:2")
}

func TestCheckDoesNotWrite(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/App.vue": appVue,
	})

	res := runCLI(t, "check", "--root", root, "--diff")
	require.Equal(t, 0, res.code, "stderr: %s", res.stderr)

	assert.Equal(t, appVue, readFile(t, root, "src/App.vue"))
	assert.Contains(t, res.stdout, "would change")
	assert.Contains(t, res.stdout, "+.a :deep(.b) { color: red; }")
}

func TestApplyUnclosedRegionNeedsAttention(t *testing.T) {
	content := "<template><div/></template>\n<style>\n.a >>> .b {}\n"
	root := writeTree(t, map[string]string{
		"src/Broken.vue": content,
	})

	res := runCLI(t, "apply", "--root", root)
	assert.Equal(t, 1, res.code)
	assert.Equal(t, content, readFile(t, root, "src/Broken.vue"), "the unclosed region is left alone")
	assert.Contains(t, res.stdout, "region_mismatch")
	assert.Empty(t, res.stderr, "attention is reported on stdout only")
}

func TestDuplicates(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/api.js":  "export const a = 1\n",
		"src/api.ts":  "export const a: number = 1\nexport const b = 2\n",
		"src/main.js": "import a from './api.js'\nimport b from './api.ts'\n",
	})

	res := runCLI(t, "duplicates", "--root", root)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stdout, "duplicate_pair")
	assert.Contains(t, res.stdout, "mixed_import")

	script := readFile(t, root, "cleanup-js-ts-duplicates.sh")
	assert.Contains(t, script, "#!/bin/bash")
	assert.FileExists(t, filepath.Join(root, "src/api.js"), "nothing is deleted")
	assert.FileExists(t, filepath.Join(root, "src/api.ts"), "nothing is deleted")
}

func TestDuplicatesClean(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/main.js": "import a from './a'\n",
	})

	res := runCLI(t, "duplicates", "--root", root)
	require.Equal(t, 0, res.code, "stderr: %s", res.stderr)
	assert.NoFileExists(t, filepath.Join(root, "cleanup-js-ts-duplicates.sh"))
}

func TestDuplicatesUnreadableFileNeedsAttention(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/main.js":   "import a from './a'\n",
		"src/broken.js": "const a = '\xc3\x28'\n",
	})

	res := runCLI(t, "duplicates", "--root", root)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stdout, "src/broken.js")
	assert.Contains(t, res.stdout, "failed")
	assert.NotContains(t, res.stdout, "no duplicates found")
}

func TestExtensions(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/App.vue":            "<script>\nimport Foo from './components/Foo'\nimport Gone from './components/Gone'\n</script>\n",
		"src/components/Foo.vue": "<template><div/></template>\n",
	})

	res := runCLI(t, "extensions", "--root", root)
	require.Equal(t, 0, res.code, "stderr: %s", res.stderr)
	assert.Equal(t, "<script>\nimport Foo from './components/Foo.vue'\nimport Gone from './components/Gone'\n</script>\n", readFile(t, root, "src/App.vue"))

	again := runCLI(t, "extensions", "--root", root)
	require.Equal(t, 0, again.code, "stderr: %s", again.stderr)
	assert.Contains(t, again.stdout, "0 files rewritten")
}

func TestRename(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/User.vue": "<script>\nconst userName = row.userName + someUserNameField\n</script>\n",
		"src/a.css":    ".userName {}\n",
	})

	res := runCLI(t, "rename", "userName", "user_name", "--root", root)
	require.Equal(t, 0, res.code, "stderr: %s", res.stderr)

	assert.Equal(t, "<script>\nconst user_name = row.user_name + someUserNameField\n</script>\n", readFile(t, root, "src/User.vue"))
	assert.Equal(t, ".userName {}\n", readFile(t, root, "src/a.css"))
}

func TestConfigFile(t *testing.T) {
	root := writeTree(t, map[string]string{
		".rewriterc.yaml": "sets: [vite]\nrules:\n  - name: api-v2\n    pattern: '/api/v1/'\n    replace: /api/v2/\n",
		"src/main.js":     "fetch('/api/v1/users')\n",
	})

	res := runCLI(t, "apply", "--root", root)
	require.Equal(t, 0, res.code, "stderr: %s", res.stderr)
	assert.Equal(t, "fetch('/api/v2/users')\n", readFile(t, root, "src/main.js"))
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		errContains string
	}{
		{name: "unknown_set", args: []string{"apply", "--sets", "react"}, errContains: "unknown rule set"},
		{name: "rename_needs_two_args", args: []string{"rename", "a"}, errContains: "accepts 2 arg(s)"},
		{name: "rename_to_itself", args: []string{"rename", "a", "a"}, errContains: "renames to itself"},
		{name: "missing_config", args: []string{"apply", "-c", "nope.yaml"}, errContains: "loading config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			res := runCLI(t, append(tt.args, "--root", root)...)
			assert.Equal(t, 1, res.code)
			assert.Contains(t, res.stderr, tt.errContains)
		})
	}
}

func TestRulesAndVersion(t *testing.T) {
	res := runCLI(t, "rules", "--root", t.TempDir())
	require.Equal(t, 0, res.code, "stderr: %s", res.stderr)
	assert.Contains(t, res.stdout, "deep/>>>")
	assert.Contains(t, res.stdout, "rename (optional)")

	res = runCLI(t, "version")
	require.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "rewriterc version info")
}
