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

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// FileNames are the config file names looked for by Discover, in order
var FileNames = []string{
	".rewriterc.hcl",
	".rewriterc.yaml",
	".rewriterc.yml",
	".rewriterc.json",
	".rewriterc.toml",
	".rewriterc",
}

// 🔎 Discover returns the first config file found in dir, or "" if there is
// none
func Discover(dir string) (string, error) {
	for _, name := range FileNames {
		p := filepath.Join(dir, name)
		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", errors.Errorf("checking %s: %w", p, err)
		}
		if info.Mode().IsRegular() {
			return p, nil
		}
	}
	return "", nil
}

// 📂 LoadConfig loads the config at path. An empty path discovers a config
// file in dir and falls back to Default when there is none. A bare
// .rewriterc file may be YAML or HCL.
func LoadConfig(ctx context.Context, path, dir string) (*Config, error) {
	logger := zerolog.Ctx(ctx)

	if path == "" {
		found, err := Discover(dir)
		if err != nil {
			return nil, err
		}
		if found == "" {
			logger.Debug().Str("dir", dir).Msg("no config file found, using defaults")
			cfg := Default()
			cfg.Root = dir
			if err := cfg.Validate(); err != nil {
				return nil, errors.Errorf("validating default config: %w", err)
			}
			return cfg, nil
		}
		path = found
	}

	if filepath.Base(path) != ".rewriterc" {
		return Load(ctx, path)
	}

	// bare .rewriterc: YAML first, then HCL
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	cfg, yamlErr := (&YAMLParser{}).Parse(ctx, data)
	if yamlErr != nil {
		var hclErr error
		cfg, hclErr = (&HCLParser{}).Parse(ctx, data)
		if hclErr != nil {
			return nil, errors.Errorf("failed to parse %s as YAML (%v) or HCL: %w", path, yamlErr, hclErr)
		}
	}

	cfg.location = path
	cfg.resolveRoot(path)
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}
	return cfg, nil
}
