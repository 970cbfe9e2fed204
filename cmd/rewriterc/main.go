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
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/cmd/rewriterc/commands"
	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
	"gitlab.com/tozd/go/errors"
)

func main() {
	logger := setupLogging(false)
	ctx := logger.WithContext(context.Background())

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit status
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd(stdout)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, commands.ErrNeedsAttention) {
			fmt.Fprintf(stderr, "❌ %v\n", err)
		}
		return 1
	}
	return 0
}

// newRootCmd creates the root command. Subcommands share one RootOpts that
// is filled in once flags are parsed.
func newRootCmd(console io.Writer) *cobra.Command {
	flags := &rootFlags{}
	rootOpts := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "rewriterc",
		Short: "Rewrite Vue 2 and Webpack sources for Vue 3 and Vite",
		Long: `rewriterc applies ordered, idempotent regex rewrite rules to a source tree.
Rules can be confined to <style>, <script> or <template> blocks and to
file globs. Running it twice changes nothing the second time.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if flags.debug {
				logger := setupLogging(true).Level(zerolog.DebugLevel)
				ctx = logger.WithContext(ctx)
				cmd.SetContext(ctx)
			}

			o, err := newRootOpts(ctx, cmd, flags, console)
			if err != nil {
				return err
			}
			*rootOpts = *o
			return nil
		},
	}

	addRootFlags(rootCmd, flags)

	rootCmd.AddCommand(
		commands.NewApplyCmd(rootOpts),
		commands.NewCheckCmd(rootOpts),
		commands.NewDuplicatesCmd(rootOpts),
		commands.NewExtensionsCmd(rootOpts),
		commands.NewRenameCmd(rootOpts),
		commands.NewRulesCmd(rootOpts),
		newVersionCmd(console),
	)

	return rootCmd
}
