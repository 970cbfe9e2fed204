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

package fileset

import (
	"context"
	"io/fs"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultExcludes are directory names never descended into
var DefaultExcludes = []string{
	"node_modules",
	".git",
	"dist",
	"build",
	".vite",
	"coverage",
	"__pycache__",
	".pytest_cache",
	"vendor",
}

// DefaultExtensions are the file extensions selected when none are given
var DefaultExtensions = []string{".vue", ".js", ".ts", ".css", ".scss"}

// 📋 Options selects the files of a run
type Options struct {
	// Root is the directory to walk
	Root string

	// Extensions are matched case-insensitively against the file name; a
	// missing leading dot is added. Empty means DefaultExtensions.
	Extensions []string

	// Exclude lists directory names that are skipped wherever they appear.
	// Nil means DefaultExcludes.
	Exclude []string

	// Ignore lists doublestar globs matched against root-relative slash paths
	Ignore []string
}

// 📦 FileSet is the ordered list of files selected for one run. Paths are
// relative to Root, use forward slashes and are sorted.
type FileSet struct {
	Root  string
	Paths []string
}

// New creates a FileSet from already-selected relative paths
func New(root string, paths []string) *FileSet {
	sorted := slices.Clone(paths)
	slices.Sort(sorted)
	return &FileSet{Root: root, Paths: slices.Compact(sorted)}
}

// Len returns the number of files in the set
func (s *FileSet) Len() int {
	return len(s.Paths)
}

// Abs returns the absolute path of a relative path in the set
func (s *FileSet) Abs(rel string) string {
	return filepath.Join(s.Root, filepath.FromSlash(rel))
}

// Filter returns the subset of files for which keep returns true
func (s *FileSet) Filter(keep func(rel string) bool) *FileSet {
	out := &FileSet{Root: s.Root}
	for _, p := range s.Paths {
		if keep(p) {
			out.Paths = append(out.Paths, p)
		}
	}
	return out
}

// WithExt returns the subset of files whose extension is one of exts
func (s *FileSet) WithExt(exts ...string) *FileSet {
	norm := normalizeExtensions(exts)
	return s.Filter(func(rel string) bool {
		return slices.Contains(norm, strings.ToLower(path.Ext(rel)))
	})
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

// ✅ Validate checks the options before a walk
func (o Options) Validate() error {
	if o.Root == "" {
		return errors.Errorf("root is required")
	}
	for _, pattern := range o.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid ignore pattern %q", pattern)
		}
	}
	return nil
}

// 🔍 Collect walks opts.Root once and returns every regular file with a
// selected extension that is not inside an excluded directory and not
// matched by an ignore glob
func Collect(ctx context.Context, opts Options) (*FileSet, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx)

	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, errors.Errorf("resolving root: %w", err)
	}

	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	exts = normalizeExtensions(exts)

	exclude := opts.Exclude
	if exclude == nil {
		exclude = DefaultExcludes
	}

	var paths []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Errorf("walking %s: %w", p, err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return errors.Errorf("relativizing %s: %w", p, err)
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && slices.Contains(exclude, d.Name()) {
				logger.Trace().Str("dir", rel).Msg("skipping excluded directory")
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		if !slices.Contains(exts, strings.ToLower(path.Ext(rel))) {
			return nil
		}
		if shouldIgnore(ctx, opts.Ignore, rel) {
			return nil
		}

		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("collecting files under %s: %w", opts.Root, err)
	}

	logger.Debug().Str("root", root).Int("files", len(paths)).Msg("collected files")

	return New(root, paths), nil
}

// 🔍 shouldIgnore checks if a file matches any ignore pattern
func shouldIgnore(ctx context.Context, patterns []string, rel string) bool {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Str("pattern", pattern).Str("path", rel).Err(err).Msg("error matching pattern")
			continue
		}
		if matched {
			zerolog.Ctx(ctx).Trace().Str("file", rel).Str("pattern", pattern).Msg("file ignored by pattern")
			return true
		}
	}
	return false
}
