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
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
	"github.com/walteh/rewriterc/pkg/config"
	"github.com/walteh/rewriterc/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// rootFlags are the flags shared by every command
type rootFlags struct {
	configFile  string
	debug       bool
	verbose     bool
	root        string
	extensions  []string
	exclude     []string
	ignore      []string
	concurrency int
}

// newRootOpts loads the config and applies flag overrides
func newRootOpts(ctx context.Context, cmd *cobra.Command, flags *rootFlags, console io.Writer) (*opts.RootOpts, error) {
	dir := flags.root
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Errorf("getting working directory: %w", err)
		}
		dir = wd
	}

	cfg, err := config.LoadConfig(ctx, flags.configFile, dir)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}

	pf := cmd.Flags()
	if pf.Changed("root") {
		cfg.Root = flags.root
	}
	if pf.Changed("ext") {
		cfg.Extensions = flags.extensions
	}
	if pf.Changed("exclude") {
		cfg.Exclude = flags.exclude
	}
	if pf.Changed("ignore") {
		cfg.Ignore = append(cfg.Ignore, flags.ignore...)
	}
	if pf.Changed("concurrency") {
		cfg.Concurrency = flags.concurrency
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	level := zerolog.InfoLevel
	if flags.debug {
		level = zerolog.DebugLevel
	}

	return &opts.RootOpts{
		Config:  cfg,
		Logger:  log.New(console, level),
		Verbose: flags.verbose,
	}, nil
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, flags *rootFlags) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.configFile, "config", "c", "", "config file path (default: discover .rewriterc.* in the root)")
	pf.BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "list unchanged files and idle rules")
	pf.StringVar(&flags.root, "root", "", "directory to process (default: working directory)")
	pf.StringSliceVar(&flags.extensions, "ext", nil, "file extensions to process")
	pf.StringSliceVar(&flags.exclude, "exclude", nil, "directory names to skip")
	pf.StringSliceVar(&flags.ignore, "ignore", nil, "extra doublestar globs to ignore")
	pf.IntVar(&flags.concurrency, "concurrency", 0, "files processed at once (default: number of CPUs)")
}

// setupLogging configures zerolog based on flags
func setupLogging(debug bool) zerolog.Logger {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	return logger
}
