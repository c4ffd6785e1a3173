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

package completion

import (
	"fmt"

	"github.com/spf13/cobra"
)

var shells = []string{"bash", "zsh", "fish", "powershell"}

// NewCommand creates the completion command.
func NewCommand() *cobra.Command {
	var noDescriptions bool

	cmd := &cobra.Command{
		Use:         "completion <shell>",
		Annotations: map[string]string{"group": "project"},
		Short:       "Generate shell completion scripts",
		Long: `Write a completion script for bash, zsh, fish or powershell to stdout.

Besides subcommands and flags, completion offers target names for --target,
template names for init --template and, for --include and --exclude, the
domains of the protocol documents already on the command line.

Examples:
  source <(cdpgen completion bash)
  cdpgen completion zsh > "${fpath[1]}/_cdpgen"
  cdpgen completion fish > ~/.config/fish/completions/cdpgen.fish
  cdpgen completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             shells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeScript(cmd, args[0], !noDescriptions)
		},
	}

	cmd.Flags().BoolVar(&noDescriptions, "no-descriptions", false, "Omit completion descriptions")
	return cmd
}

func writeScript(cmd *cobra.Command, shell string, descriptions bool) error {
	root, out := cmd.Root(), cmd.OutOrStdout()
	switch shell {
	case "bash":
		return root.GenBashCompletionV2(out, descriptions)
	case "zsh":
		if descriptions {
			return root.GenZshCompletion(out)
		}
		return root.GenZshCompletionNoDesc(out)
	case "fish":
		return root.GenFishCompletion(out, descriptions)
	case "powershell":
		if descriptions {
			return root.GenPowerShellCompletionWithDesc(out)
		}
		return root.GenPowerShellCompletion(out)
	}
	return fmt.Errorf("unsupported shell %q", shell)
}
