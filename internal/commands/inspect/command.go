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

// Package inspect implements 'cdpgen inspect'.
package inspect

import (
	"github.com/spf13/cobra"

	"github.com/tombee/cdpgen/internal/cli/format"
	"github.com/tombee/cdpgen/internal/commands/completion"
	"github.com/tombee/cdpgen/internal/commands/shared"
	"github.com/tombee/cdpgen/internal/jq"
	"github.com/tombee/cdpgen/pkg/compiler"
	"github.com/tombee/cdpgen/pkg/protocol"
)

type options struct {
	sel       compiler.Selection
	query     string
	rawOutput bool
	raw       bool
	markdown  bool
}

// NewCommand creates the inspect command
func NewCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "inspect <protocol.json>...",
		Short: "Show the planned bindings of protocol documents",
		Annotations: map[string]string{
			"group": "generation",
		},
		Long: `Inspect prints what 'cdpgen generate' would emit, as JSON: every compiled
domain with its file name, named types, generated methods (one entry per
overload) and event subscriptions.

--query filters the output with a jq expression. --raw prints the merged,
selected protocol document instead of the plan, which is handy for
querying the schema itself. --markdown renders the plan as an API
reference.`,
		Example: `  # Example 1: Full plan
  cdpgen inspect protocol.json

  # Example 2: Method names of one domain
  cdpgen inspect protocol.json --query '.domains[] | select(.name == "DOM") | .methods[].name' -r

  # Example 3: Commands that got an Extended overload
  cdpgen inspect protocol.json --query '[.domains[].methods[] | select(.variant == "extended") | .name]'

  # Example 4: Merged Chrome protocol, experimental domains only
  cdpgen inspect browser_protocol.json js_protocol.json --raw --where experimental

  # Example 5: Reference documentation
  cdpgen inspect protocol.json --markdown > REFERENCE.md`,
		Args:              cobra.MinimumNArgs(1),
		SilenceUsage:      true,
		SilenceErrors:     true,
		ValidArgsFunction: completion.CompleteProtocolFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.query, "query", "", "jq expression applied to the output")
	cmd.Flags().BoolVarP(&opts.rawOutput, "raw-output", "r", false, "Print string results without JSON quoting")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "Print the merged protocol document instead of the plan")
	cmd.Flags().BoolVar(&opts.markdown, "markdown", false, "Render the plan as a Markdown reference")
	cmd.Flags().StringSliceVar(&opts.sel.Include, "include", nil, "Glob of domains to show (repeatable)")
	cmd.Flags().StringSliceVar(&opts.sel.Exclude, "exclude", nil, "Glob of domains to hide (repeatable)")
	cmd.Flags().StringVar(&opts.sel.Where, "where", "", "Expression a domain must satisfy")
	cmd.RegisterFlagCompletionFunc("include", completion.CompleteDomains)
	cmd.RegisterFlagCompletionFunc("exclude", completion.CompleteDomains)
	cmd.MarkFlagsMutuallyExclusive("markdown", "query")
	cmd.MarkFlagsMutuallyExclusive("markdown", "raw")

	return cmd
}

func runInspect(cmd *cobra.Command, args []string, opts options) error {
	out := cmd.OutOrStdout()

	cfg, err := shared.LoadConfig()
	if err != nil {
		return shared.Fail(out, "inspect", err)
	}
	logger := shared.NewLogger(cmd.ErrOrStderr(), cfg)

	if err := opts.sel.Validate(); err != nil {
		return shared.Fail(out, "inspect", err)
	}
	if err := jq.NewExecutor(0, 0).Validate(opts.query); err != nil {
		return shared.Fail(out, "inspect", err)
	}

	doc, err := protocol.ReadFiles(args...)
	if err != nil {
		return shared.Fail(out, "inspect", err)
	}

	var value any
	if opts.raw {
		selected, _, err := compiler.Select(doc, opts.sel)
		if err != nil {
			return shared.Fail(out, "inspect", err)
		}
		value = selected
	} else {
		a, err := compiler.Analyze(cmd.Context(), doc, compiler.Options{Selection: opts.sel, Logger: logger})
		if err != nil {
			return shared.Fail(out, "inspect", err)
		}
		view := NewView(doc, a)
		if opts.markdown {
			if err := format.NewPrinter(out).Print(format.Markdown, Markdown(view)); err != nil {
				return shared.Fail(out, "inspect", err)
			}
			return nil
		}
		value = view
	}

	// Without a query the value is printed as is, keeping field order.
	results := []any{value}
	if opts.query != "" {
		results, err = jq.NewExecutor(0, 0).Execute(cmd.Context(), opts.query, value)
		if err != nil {
			return shared.Fail(out, "inspect", shared.NewInvalidInputError("", err))
		}
	}
	return printResults(format.NewPrinter(out), results, opts.rawOutput)
}

// printResults writes one result per line, jq style.
func printResults(p *format.Printer, results []any, rawOutput bool) error {
	for _, r := range results {
		var err error
		if s, ok := r.(string); ok && rawOutput {
			err = p.Print(format.Text, s)
		} else {
			err = p.PrintValue(r)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
