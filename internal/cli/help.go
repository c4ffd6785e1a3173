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
	"github.com/spf13/pflag"

	"github.com/tombee/cdpgen/internal/commands/shared"
	cdpgenerrors "github.com/tombee/cdpgen/pkg/errors"
)

// CommandMetadata describes one command in help --json output.
type CommandMetadata struct {
	Name        string         `json:"name"`
	Path        string         `json:"path"`
	Short       string         `json:"short"`
	Long        string         `json:"long,omitempty"`
	Usage       string         `json:"usage"`
	Group       string         `json:"group,omitempty"`
	Aliases     []string       `json:"aliases,omitempty"`
	Examples    string         `json:"examples,omitempty"`
	Flags       []FlagMetadata `json:"flags,omitempty"`
	Subcommands []string       `json:"subcommands,omitempty"`
}

// FlagMetadata describes one flag.
type FlagMetadata struct {
	Name      string `json:"name"`
	Shorthand string `json:"shorthand,omitempty"`
	Usage     string `json:"usage"`
	Default   string `json:"default,omitempty"`
	Required  bool   `json:"required"`
}

// HelpResponse is the help --json envelope. Commands is set for the
// command list and Command for a single command.
type HelpResponse struct {
	shared.JSONResponse
	Commands    []CommandMetadata `json:"commands,omitempty"`
	Command     *CommandMetadata  `json:"command,omitempty"`
	GlobalFlags []FlagMetadata    `json:"global_flags,omitempty"`
}

// NewHelpCommand replaces cobra's help command with one that also
// describes the command tree as JSON.
func NewHelpCommand(rootCmd *cobra.Command) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "help [command]",
		Short: "Help about any command",
		Long: `Show help for cdpgen or one of its commands.

With --json the command tree, or the named command, is written as a JSON
document listing usage, flags and subcommands.`,
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			var names []string
			for _, c := range rootCmd.Commands() {
				if c.IsAvailableCommand() {
					names = append(names, c.Name()+"\t"+c.Short)
				}
			}
			return names, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON := shared.GetJSON() || jsonOutput

			target := rootCmd
			if len(args) > 0 {
				found, rest, err := rootCmd.Find(args)
				if err != nil || len(rest) > 0 {
					return &cdpgenerrors.NotFoundError{Resource: "command", ID: args[0]}
				}
				target = found
			}

			if !asJSON {
				return target.Help()
			}

			resp := HelpResponse{
				JSONResponse: shared.NewJSONResponse("help", true),
				GlobalFlags:  visibleFlags(rootCmd.PersistentFlags()),
			}
			if target == rootCmd {
				resp.Commands = []CommandMetadata{}
				for _, c := range rootCmd.Commands() {
					if !c.Hidden {
						resp.Commands = append(resp.Commands, describe(c))
					}
				}
			} else {
				meta := describe(target)
				resp.Command = &meta
				resp.JSONResponse = shared.NewJSONResponse("help "+target.Name(), true)
			}
			return shared.EmitJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	return cmd
}

func describe(cmd *cobra.Command) CommandMetadata {
	meta := CommandMetadata{
		Name:     cmd.Name(),
		Path:     cmd.CommandPath(),
		Short:    cmd.Short,
		Long:     cmd.Long,
		Usage:    cmd.UseLine(),
		Group:    cmd.Annotations["group"],
		Aliases:  cmd.Aliases,
		Examples: cmd.Example,
		Flags:    visibleFlags(cmd.LocalNonPersistentFlags()),
	}
	for _, sub := range cmd.Commands() {
		if !sub.Hidden {
			meta.Subcommands = append(meta.Subcommands, sub.Name())
		}
	}
	return meta
}

// visibleFlags lists the non-hidden flags of fs. MarkFlagRequired records
// the requirement only as a completion annotation, so that is where
// Required comes from.
func visibleFlags(fs *pflag.FlagSet) []FlagMetadata {
	var flags []FlagMetadata
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		_, required := f.Annotations[cobra.BashCompOneRequiredFlag]
		flags = append(flags, FlagMetadata{
			Name:      f.Name,
			Shorthand: f.Shorthand,
			Usage:     f.Usage,
			Default:   f.DefValue,
			Required:  required,
		})
	})
	return flags
}
