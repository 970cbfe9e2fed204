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

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/rewriterc/pkg/rules"
	"github.com/walteh/rewriterc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// 🧪 TestParserSelection tests parser selection by file extension
func TestParserSelection(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     Parser
	}{
		{name: "yaml_file", filename: ".rewriterc.yaml", want: &YAMLParser{}},
		{name: "yml_file", filename: "config.yml", want: &YAMLParser{}},
		{name: "upper_case_yaml", filename: "CONFIG.YAML", want: &YAMLParser{}},
		{name: "hcl_file", filename: ".rewriterc.hcl", want: &HCLParser{}},
		{name: "json_file", filename: ".rewriterc.json", want: &JSONParser{}},
		{name: "toml_file", filename: ".rewriterc.toml", want: &TOMLParser{}},
		{name: "unknown_extension", filename: "config.txt", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetParser(tt.filename)
			if tt.want == nil {
				assert.Nil(t, got, "should return nil for unknown extension")
				return
			}
			require.NotNil(t, got, "should return a parser")
			assert.IsType(t, tt.want, got, "should return correct parser type")
		})
	}
}

func TestParserRegistration(t *testing.T) {
	original := parsers
	defer func() {
		parsers = original
	}()

	parsers = nil
	Register(&TOMLParser{})

	assert.Len(t, parsers, 1)
	assert.Nil(t, GetParser("a.yaml"))
	assert.IsType(t, &TOMLParser{}, GetParser("a.toml"))
}

// 🧪 TestLoad loads the same configuration from every supported format
func TestLoad(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		config string
	}{
		{
			name: "hcl",
			file: ".rewriterc.hcl",
			config: `
root        = "src"
extensions  = [".vue", ".js"]
ignore      = ["**/legacy/**"]
sets        = ["deep", "vite"]
concurrency = 4

rule "api-prefix" {
  pattern = "/api/v1/(\\w+)"
  replace = "/api/v2/$1"
  scope   = "script"
  files   = "**/*.vue"
}

rename {
  from = "userName"
  to   = "login_name"
}
`,
		},
		{
			name: "yaml",
			file: ".rewriterc.yaml",
			config: `
root: src
extensions: [.vue, .js]
ignore: ["**/legacy/**"]
sets: [deep, vite]
concurrency: 4
rules:
  - name: api-prefix
    pattern: '/api/v1/(\w+)'
    replace: /api/v2/$1
    scope: script
    files: "**/*.vue"
renames:
  - from: userName
    to: login_name
`,
		},
		{
			name: "json",
			file: ".rewriterc.json",
			config: `{
  "root": "src",
  "extensions": [".vue", ".js"],
  "ignore": ["**/legacy/**"],
  "sets": ["deep", "vite"],
  "concurrency": 4,
  "rules": [
    {
      "name": "api-prefix",
      "pattern": "/api/v1/(\\w+)",
      "replace": "/api/v2/$1",
      "scope": "script",
      "files": "**/*.vue"
    }
  ],
  "renames": [{"from": "userName", "to": "login_name"}]
}`,
		},
		{
			name: "toml",
			file: ".rewriterc.toml",
			config: `
root = "src"
extensions = [".vue", ".js"]
ignore = ["**/legacy/**"]
sets = ["deep", "vite"]
concurrency = 4

[[rules]]
name = "api-prefix"
pattern = '/api/v1/(\w+)'
replace = "/api/v2/$1"
scope = "script"
files = "**/*.vue"

[[renames]]
from = "userName"
to = "login_name"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.config)

			cfg, err := Load(testContext(t), path)
			require.NoError(t, err)

			assert.Equal(t, filepath.Join(filepath.Dir(path), "src"), cfg.Root, "root should resolve against the config dir")
			assert.Equal(t, []string{".vue", ".js"}, cfg.Extensions)
			assert.Nil(t, cfg.Exclude, "exclude should stay nil so defaults apply")
			assert.Equal(t, []string{"**/legacy/**"}, cfg.Ignore)
			assert.Equal(t, []string{"deep", "vite"}, cfg.Sets)
			assert.Equal(t, 4, cfg.Concurrency)
			assert.Equal(t, DefaultCleanupScript, cfg.CleanupScript)
			assert.Equal(t, path, cfg.Location())

			require.Len(t, cfg.Rules, 1)
			assert.Equal(t, RuleBlock{
				Name:    "api-prefix",
				Pattern: `/api/v1/(\w+)`,
				Replace: "/api/v2/$1",
				Scope:   "script",
				Files:   "**/*.vue",
			}, cfg.Rules[0])

			assert.Equal(t, []RenameBlock{{From: "userName", To: "login_name"}}, cfg.Renames)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		config      string
		errContains string
	}{
		{
			name:        "unknown_yaml_field",
			file:        "c.yaml",
			config:      "destination: /tmp\n",
			errContains: "parsing YAML",
		},
		{
			name:        "unknown_json_field",
			file:        "c.json",
			config:      `{"destination": "/tmp"}`,
			errContains: "parsing JSON",
		},
		{
			name:        "unknown_toml_field",
			file:        "c.toml",
			config:      "destination = \"/tmp\"\n",
			errContains: "parsing TOML",
		},
		{
			name:        "unknown_hcl_attribute",
			file:        "c.hcl",
			config:      "destination = \"/tmp\"\n",
			errContains: "decoding HCL",
		},
		{
			name:        "unknown_extension",
			file:        "c.ini",
			config:      "root = .",
			errContains: "no parser found",
		},
		{
			name:        "unknown_set",
			file:        "c.yaml",
			config:      "sets: [react]\n",
			errContains: "unknown rule set",
		},
		{
			name:        "pattern_and_word",
			file:        "c.yaml",
			config:      "rules:\n  - name: x\n    pattern: a\n    word: b\n",
			errContains: "exactly one of pattern and word",
		},
		{
			name:        "neither_pattern_nor_word",
			file:        "c.yaml",
			config:      "rules:\n  - name: x\n    replace: b\n",
			errContains: "exactly one of pattern and word",
		},
		{
			name:        "unknown_scope",
			file:        "c.yaml",
			config:      "rules:\n  - name: x\n    word: a\n    scope: markdown\n",
			errContains: "unknown scope",
		},
		{
			name:        "negative_concurrency",
			file:        "c.json",
			config:      `{"concurrency": -1}`,
			errContains: "concurrency must not be negative",
		},
		{
			name:        "self_rename",
			file:        "c.yaml",
			config:      "renames:\n  - from: a\n    to: a\n",
			errContains: "renames to itself",
		},
		{
			name:        "invalid_ignore_glob",
			file:        "c.yaml",
			config:      "ignore: [\"a/[b\"]\n",
			errContains: "invalid ignore pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.config)

			_, err := Load(testContext(t), path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestLoadUnknownSetIsSentinel(t *testing.T) {
	path := writeConfig(t, "c.yaml", "sets: [react]\n")

	_, err := Load(testContext(t), path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, rules.ErrUnknownSet))
}

func TestHCLReadsEnvironment(t *testing.T) {
	t.Setenv("REWRITERC_TEST_ROOT", "/srv/project")
	path := writeConfig(t, "c.hcl", "root = env.REWRITERC_TEST_ROOT\n")

	cfg, err := Load(testContext(t), path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/project", cfg.Root)
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults_without_config_file", func(t *testing.T) {
		dir := t.TempDir()

		cfg, err := LoadConfig(testContext(t), "", dir)
		require.NoError(t, err)
		assert.Equal(t, dir, cfg.Root)
		assert.Equal(t, []string{rules.All}, cfg.Sets)
		assert.Equal(t, DefaultCleanupScript, cfg.CleanupScript)
		assert.Empty(t, cfg.Location())
	})

	t.Run("discovers_config_file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, ".rewriterc.yaml")
		require.NoError(t, os.WriteFile(path, []byte("sets: [deep]\n"), 0644))

		cfg, err := LoadConfig(testContext(t), "", dir)
		require.NoError(t, err)
		assert.Equal(t, path, cfg.Location())
		assert.Equal(t, dir, cfg.Root, "root defaults to the config dir")
		assert.Equal(t, []string{"deep"}, cfg.Sets)
	})

	t.Run("bare_rewriterc_as_hcl", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".rewriterc"), []byte("sets = [\"vue3\"]\n"), 0644))

		cfg, err := LoadConfig(testContext(t), "", dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"vue3"}, cfg.Sets)
	})

	t.Run("bare_rewriterc_as_yaml", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".rewriterc"), []byte("sets:\n  - vite\n"), 0644))

		cfg, err := LoadConfig(testContext(t), "", dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"vite"}, cfg.Sets)
	})

	t.Run("explicit_path_wins", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".rewriterc.yaml"), []byte("sets: [deep]\n"), 0644))
		other := writeConfig(t, "other.json", `{"sets": ["patches"]}`)

		cfg, err := LoadConfig(testContext(t), other, dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"patches"}, cfg.Sets)
	})
}

func TestBuildRules(t *testing.T) {
	cfg := Default()
	cfg.Rules = []RuleBlock{
		{Name: "api-prefix", Pattern: `/api/v1/(\w+)`, Replace: "/api/v2/$1"},
		{Name: "store", Word: "mapGetters", Replace: "mapState", Files: "**/*.vue"},
	}
	cfg.Renames = []RenameBlock{{From: "userName", To: "login_name"}}
	require.NoError(t, cfg.Validate())

	t.Run("sets_then_rules_then_renames", func(t *testing.T) {
		built, err := cfg.BuildRules([]string{"deep"})
		require.NoError(t, err)

		deep, err := rules.Resolve([]string{"deep"})
		require.NoError(t, err)
		require.Len(t, built, len(deep)+3)

		assert.Equal(t, deep[0].Name(), built[0].Name())
		assert.Equal(t, "api-prefix", built[len(deep)].Name())
		assert.Equal(t, "store", built[len(deep)+1].Name())
		assert.Equal(t, "rename/userName", built[len(deep)+2].Name())
	})

	t.Run("declared_rules_rewrite", func(t *testing.T) {
		built, err := cfg.BuildRules([]string{"deep"})
		require.NoError(t, err)

		byName := map[string]*text.Rule{}
		for _, r := range built {
			byName[r.Name()] = r
		}

		out, n := text.ApplyRule("fetch('/api/v1/users')", byName["api-prefix"])
		assert.Equal(t, "fetch('/api/v2/users')", out)
		assert.Equal(t, 1, n)

		assert.True(t, byName["store"].AppliesTo("src/App.vue"))
		assert.False(t, byName["store"].AppliesTo("src/main.js"))
	})

	t.Run("declared_rename_overrides_builtin", func(t *testing.T) {
		built, err := cfg.BuildRules([]string{"rename"})
		require.NoError(t, err)

		var renames []*text.Rule
		for _, r := range built {
			if r.Name() == "rename/userName" {
				renames = append(renames, r)
			}
		}
		require.Len(t, renames, 1)

		out, _ := text.ApplyRule("userName", renames[0])
		assert.Equal(t, "login_name", out)
	})

	t.Run("config_sets_when_none_given", func(t *testing.T) {
		built, err := cfg.BuildRules(nil)
		require.NoError(t, err)

		all, err := rules.Resolve([]string{rules.All})
		require.NoError(t, err)
		assert.Len(t, built, len(all)+3)
	})

	t.Run("duplicate_rule_name", func(t *testing.T) {
		dup := Default()
		dup.Rules = []RuleBlock{
			{Name: "x", Word: "a", Replace: "b"},
			{Name: "x", Word: "c", Replace: "d"},
		}

		_, err := dup.BuildRules(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate rule name")
	})
}

func TestFileSetOptions(t *testing.T) {
	cfg := &Config{
		Root:       "/project",
		Extensions: []string{".vue"},
		Exclude:    []string{"dist"},
		Ignore:     []string{"**/*.min.js"},
	}

	opts := cfg.FileSetOptions()
	assert.Equal(t, "/project", opts.Root)
	assert.Equal(t, []string{".vue"}, opts.Extensions)
	assert.Equal(t, []string{"dist"}, opts.Exclude)
	assert.Equal(t, []string{"**/*.min.js"}, opts.Ignore)
}
