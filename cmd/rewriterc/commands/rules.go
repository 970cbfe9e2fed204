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

package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
	"github.com/walteh/rewriterc/pkg/log"
	"github.com/walteh/rewriterc/pkg/rules"
)

// NewRulesCmd lists the built-in rule sets
func NewRulesCmd(opts *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List built-in rule sets and their rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := log.RenderRuleSets(rules.Sets())
			if err != nil {
				return err
			}
			opts.Logger.Print(out)

			if n := len(opts.Config.Rules) + len(opts.Config.Renames); n > 0 {
				opts.Logger.Infof("%s declares %d more rules", opts.Config.Location(), n)
			}
			return nil
		},
	}
}
