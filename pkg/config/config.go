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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/fileset"
	"github.com/walteh/rewriterc/pkg/region"
	"github.com/walteh/rewriterc/pkg/rules"
	"github.com/walteh/rewriterc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// DefaultCleanupScript is where the duplicate cleanup script is written
// when the config does not say otherwise
const DefaultCleanupScript = "cleanup-js-ts-duplicates.sh"

// 🔄 RuleBlock declares a project specific rewrite rule. Exactly one of
// Pattern and Word is set. Replace is a template ($1, ${name}) for patterns
// and a literal for words.
type RuleBlock struct {
	Name        string `hcl:"name,label" yaml:"name" json:"name" toml:"name"`
	Pattern     string `hcl:"pattern,optional" yaml:"pattern,omitempty" json:"pattern,omitempty" toml:"pattern,omitempty"`
	Word        string `hcl:"word,optional" yaml:"word,omitempty" json:"word,omitempty" toml:"word,omitempty"`
	Replace     string `hcl:"replace,optional" yaml:"replace,omitempty" json:"replace,omitempty" toml:"replace,omitempty"`
	Scope       string `hcl:"scope,optional" yaml:"scope,omitempty" json:"scope,omitempty" toml:"scope,omitempty"`
	Files       string `hcl:"files,optional" yaml:"files,omitempty" json:"files,omitempty" toml:"files,omitempty"`
	Description string `hcl:"description,optional" yaml:"description,omitempty" json:"description,omitempty" toml:"description,omitempty"`
}

// 🏷️ RenameBlock declares an identifier rename
type RenameBlock struct {
	From string `hcl:"from" yaml:"from" json:"from" toml:"from"`
	To   string `hcl:"to" yaml:"to" json:"to" toml:"to"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Root          string        `hcl:"root,optional" yaml:"root,omitempty" json:"root,omitempty" toml:"root,omitempty"`
	Extensions    []string      `hcl:"extensions,optional" yaml:"extensions,omitempty" json:"extensions,omitempty" toml:"extensions,omitempty"`
	Exclude       []string      `hcl:"exclude,optional" yaml:"exclude,omitempty" json:"exclude,omitempty" toml:"exclude,omitempty"`
	Ignore        []string      `hcl:"ignore,optional" yaml:"ignore,omitempty" json:"ignore,omitempty" toml:"ignore,omitempty"`
	Sets          []string      `hcl:"sets,optional" yaml:"sets,omitempty" json:"sets,omitempty" toml:"sets,omitempty"`
	Concurrency   int           `hcl:"concurrency,optional" yaml:"concurrency,omitempty" json:"concurrency,omitempty" toml:"concurrency,omitempty"`
	CleanupScript string        `hcl:"cleanup_script,optional" yaml:"cleanup_script,omitempty" json:"cleanup_script,omitempty" toml:"cleanup_script,omitempty"`
	Rules         []RuleBlock   `hcl:"rule,block" yaml:"rules,omitempty" json:"rules,omitempty" toml:"rules,omitempty"`
	Renames       []RenameBlock `hcl:"rename,block" yaml:"renames,omitempty" json:"renames,omitempty" toml:"renames,omitempty"`

	// location is the file the config was loaded from, if any
	location string
}

// Default returns the configuration used when no config file is found
func Default() *Config {
	return &Config{
		Root:          ".",
		Sets:          []string{rules.All},
		CleanupScript: DefaultCleanupScript,
	}
}

// Location returns the file the config was loaded from, or "" for defaults
func (cfg *Config) Location() string {
	return cfg.location
}

// 🎯 Load loads the configuration from a file. A relative root is resolved
// against the directory of the file.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	cfg.location = path

	cfg.resolveRoot(path)

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().Str("config", cfg.String()).Msg("configuration loaded")

	return cfg, nil
}

// resolveRoot makes root relative to the directory of the config file
func (cfg *Config) resolveRoot(path string) {
	switch {
	case cfg.Root == "":
		cfg.Root = filepath.Dir(path)
	case !filepath.IsAbs(cfg.Root):
		cfg.Root = filepath.Join(filepath.Dir(path), cfg.Root)
	}
}

// 🔍 Validate checks if the configuration is valid and fills in defaults
func (cfg *Config) Validate() error {
	if cfg.Root == "" {
		cfg.Root = "."
	}
	cfg.Root = filepath.Clean(cfg.Root)

	if len(cfg.Sets) == 0 {
		cfg.Sets = []string{rules.All}
	}
	if cfg.CleanupScript == "" {
		cfg.CleanupScript = DefaultCleanupScript
	}
	if cfg.Concurrency < 0 {
		return errors.Errorf("concurrency must not be negative, got %d", cfg.Concurrency)
	}

	for _, pattern := range cfg.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid ignore pattern %q", pattern)
		}
	}

	for i, r := range cfg.Rules {
		if err := r.validate(); err != nil {
			return errors.Errorf("rule %d: %w", i, err)
		}
	}

	for i, r := range cfg.Renames {
		if r.From == "" || r.To == "" {
			return errors.Errorf("rename %d: from and to are required", i)
		}
		if r.From == r.To {
			return errors.Errorf("rename %d: %q renames to itself", i, r.From)
		}
	}

	// surfaces unknown set names before any file is touched
	if _, err := rules.Resolve(cfg.Sets); err != nil {
		return errors.Errorf("sets: %w", err)
	}

	return nil
}

func (r RuleBlock) validate() error {
	if r.Name == "" {
		return errors.Errorf("name is required")
	}
	if (r.Pattern == "") == (r.Word == "") {
		return errors.Errorf("%s: exactly one of pattern and word is required", r.Name)
	}
	if r.Scope != "" {
		if _, ok := region.Lookup(r.Scope); !ok {
			return errors.Errorf("%s: unknown scope %q (known: style, script, template)", r.Name, r.Scope)
		}
	}
	if r.Files != "" && !doublestar.ValidatePattern(r.Files) {
		return errors.Errorf("%s: invalid file glob %q", r.Name, r.Files)
	}
	return nil
}

// 🔧 Build turns the block into a rule
func (r RuleBlock) Build() (*text.Rule, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}

	var opts []text.Option
	if r.Scope != "" {
		m, _ := region.Lookup(r.Scope)
		opts = append(opts, text.WithScope(m))
	}
	if r.Files != "" {
		opts = append(opts, text.WithFileGlob(r.Files))
	}
	if r.Description != "" {
		opts = append(opts, text.WithDescription(r.Description))
	}

	if r.Word != "" {
		return text.NewRule(r.Name, text.Word(r.Word), text.Constant(r.Replace), opts...), nil
	}

	m, err := text.Regexp(r.Pattern)
	if err != nil {
		return nil, errors.Errorf("%s: %w", r.Name, err)
	}
	return text.NewRule(r.Name, m, text.Template(r.Replace), opts...), nil
}

// 📋 BuildRules returns the rules of a run: the selected built-in sets, then
// the declared rules, then the declared renames. A declared rename replaces
// a built-in rename of the same identifier.
func (cfg *Config) BuildRules(sets []string) ([]*text.Rule, error) {
	if len(sets) == 0 {
		sets = cfg.Sets
	}

	builtin, err := rules.Resolve(sets)
	if err != nil {
		return nil, err
	}

	renames := make([]rules.Rename, 0, len(cfg.Renames))
	for _, r := range cfg.Renames {
		renames = append(renames, rules.Rename{From: r.From, To: r.To})
	}
	renameRules := rules.RenameRules(renames)

	overridden := make(map[string]bool, len(renameRules))
	for _, r := range renameRules {
		overridden[r.Name()] = true
	}

	out := make([]*text.Rule, 0, len(builtin)+len(cfg.Rules)+len(renameRules))
	for _, r := range builtin {
		if !overridden[r.Name()] {
			out = append(out, r)
		}
	}

	for _, block := range cfg.Rules {
		r, err := block.Build()
		if err != nil {
			return nil, errors.Errorf("building rule: %w", err)
		}
		out = append(out, r)
	}
	out = append(out, renameRules...)

	if err := text.ValidateRules(out); err != nil {
		return nil, err
	}
	return out, nil
}

// FileSetOptions returns the file selection of the config
func (cfg *Config) FileSetOptions() fileset.Options {
	return fileset.Options{
		Root:       cfg.Root,
		Extensions: cfg.Extensions,
		Exclude:    cfg.Exclude,
		Ignore:     cfg.Ignore,
	}
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s sets=[%s] rules=%d renames=%d", cfg.Root, strings.Join(cfg.Sets, ","), len(cfg.Rules), len(cfg.Renames))
}
