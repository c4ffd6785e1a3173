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
	"strings"

	"github.com/spf13/cobra"

	"github.com/tombee/cdpgen/internal/templates"
	"github.com/tombee/cdpgen/pkg/protocol"
)

// CompleteProtocolFiles completes positional arguments with JSON files.
func CompleteProtocolFiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
}

// CompleteTargets completes --target with the configured target names.
func CompleteTargets(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return complete(func() []string {
		cfg := projectConfig()
		if cfg == nil {
			return nil
		}
		var names []string
		for _, t := range cfg.Targets {
			if strings.HasPrefix(t.Name, toComplete) {
				names = append(names, t.Name+"\t"+t.Output)
			}
		}
		return names
	})
}

// CompleteTemplates completes init --template.
func CompleteTemplates(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return complete(func() []string {
		list, err := templates.List()
		if err != nil {
			return nil
		}
		var names []string
		for _, t := range list {
			if strings.HasPrefix(t.Name, toComplete) {
				names = append(names, t.Name+"\t"+t.Description)
			}
		}
		return names
	})
}

// CompleteDomains completes --include and --exclude with the domains of
// the protocol documents already on the command line, or of the
// configured targets when there are none.
func CompleteDomains(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return complete(func() []string {
		inputs := args
		if len(inputs) == 0 {
			if cfg := projectConfig(); cfg != nil {
				for _, t := range cfg.Targets {
					inputs = append(inputs, t.Inputs...)
				}
			}
		}

		seen := make(map[string]bool)
		var names []string
		for _, in := range inputs {
			doc, err := protocol.ReadFile(in)
			if err != nil {
				continue
			}
			for _, d := range doc.Domains {
				if seen[d.Name] || !strings.HasPrefix(d.Name, toComplete) {
					continue
				}
				seen[d.Name] = true
				names = append(names, fmt.Sprintf("%s\t%s", d.Name, domainSummary(d)))
			}
		}
		return names
	})
}

func domainSummary(d *protocol.Domain) string {
	summary := fmt.Sprintf("%d commands, %d events", len(d.Commands), len(d.Events))
	if d.Experimental {
		summary += ", experimental"
	}
	return summary
}
