// Copyright 2025 Tom Barlow
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

package cli

import (
	"github.com/spf13/cobra"

	"github.com/tombee/cdpgen/internal/commands/shared"
)

// SetVersion sets the version information (called from main)
func SetVersion(v, c, b string) {
	shared.SetVersion(v, c, b)
}

// NewRootCommand creates the root Cobra command for cdpgen
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cdpgen",
		Short: "cdpgen - Go bindings for Chrome DevTools-style protocols",
		Long: `cdpgen compiles protocol descriptions in the Chrome DevTools Protocol JSON
format into a Go package: typed structs and enums for every declared type,
one method per command overload, and a subscription method per event.

The generated code depends only on an Invoker interface that your
transport implements.

Run 'cdpgen init' to create a cdpgen.yaml.
Run 'cdpgen generate protocol.json -o ./cdp' for a one-off build.`,
		SilenceUsage:  true, // Don't show usage on errors
		SilenceErrors: true, // We handle errors ourselves for proper exit codes
	}

	// Get flag pointers from shared package
	verbose, quiet, json, config := shared.RegisterFlagPointers()

	// Add global flags
	cmd.PersistentFlags().BoolVarP(verbose, "verbose", "v", false, "Enable verbose output")
	cmd.PersistentFlags().BoolVarP(quiet, "quiet", "q", false, "Suppress non-error output")
	cmd.PersistentFlags().BoolVar(json, "json", false, "Output in JSON format")
	cmd.PersistentFlags().StringVar(config, "config", "", "Path to config file (default: ./cdpgen.yaml, then ~/.config/cdpgen/cdpgen.yaml)")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddGroup(
		&cobra.Group{ID: "generation", Title: "Generation Commands:"},
		&cobra.Group{ID: "project", Title: "Project Commands:"},
	)

	return cmd
}

// AddCommands attaches subcommands, placing each in the group named by its
// "group" annotation.
func AddCommands(root *cobra.Command, cmds ...*cobra.Command) {
	for _, c := range cmds {
		if group, ok := c.Annotations["group"]; ok && root.ContainsGroup(group) {
			c.GroupID = group
		}
		root.AddCommand(c)
	}
}

// GetVersion returns version information
func GetVersion() (string, string, string) {
	return shared.GetVersion()
}

// HandleExitError handles exit errors with proper exit codes
func HandleExitError(err error) {
	shared.HandleExitError(err)
}
