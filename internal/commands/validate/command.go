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

package validate

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tombee/cdpgen/internal/commands/completion"
	"github.com/tombee/cdpgen/internal/commands/shared"
	"github.com/tombee/cdpgen/pkg/compiler"
	"github.com/tombee/cdpgen/pkg/protocol"
	"github.com/tombee/cdpgen/pkg/protocol/emit"
)

// NewCommand creates the validate command
func NewCommand() *cobra.Command {
	var sel compiler.Selection

	cmd := &cobra.Command{
		Use:   "validate <protocol.json>...",
		Short: "Check that protocol documents compile",
		Annotations: map[string]string{
			"group": "generation",
		},
		Long: `Validate runs the compiler up to the point of writing source: documents are
parsed, references resolved, types mapped and method overloads planned.
Nothing is written.

The first problem found is reported with its error code:
  E001  malformed document
  E002  reference to an undeclared type
  E003  cross-domain reference to a domain missing from dependencies
  E004  optional parameter followed by a required one
  E005  two declarations map to the same Go name

Exit status is 0 when the documents compile, 1 when they do not and 2 when
they cannot be read.

See also: cdpgen generate, cdpgen inspect`,
		Example: `  # Example 1: Basic validation
  cdpgen validate protocol.json

  # Example 2: Validate Chrome's split protocol as one document
  cdpgen validate browser_protocol.json js_protocol.json

  # Example 3: Validate only what a target would compile
  cdpgen validate protocol.json --include 'DOM*'

  # Example 4: Machine-readable result
  cdpgen validate protocol.json --json | jq '.errors[0].code'`,
		Args:              cobra.MinimumNArgs(1),
		SilenceUsage:      true, // Don't print usage on validation errors
		SilenceErrors:     true, // Don't print error message (we handle it ourselves)
		ValidArgsFunction: completion.CompleteProtocolFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args, sel)
		},
	}

	cmd.Flags().StringSliceVar(&sel.Include, "include", nil, "Glob of domains to check (repeatable)")
	cmd.Flags().StringSliceVar(&sel.Exclude, "exclude", nil, "Glob of domains to skip (repeatable)")
	cmd.Flags().StringVar(&sel.Where, "where", "", "Expression a domain must satisfy")
	cmd.RegisterFlagCompletionFunc("include", completion.CompleteDomains)
	cmd.RegisterFlagCompletionFunc("exclude", completion.CompleteDomains)

	return cmd
}

// summary describes a document that compiles.
type summary struct {
	Version       string   `json:"version,omitempty"`
	Domains       []string `json:"domains"`
	Added         []string `json:"added,omitempty"`
	Types         int      `json:"types"`
	Commands      int      `json:"commands"`
	Events        int      `json:"events"`
	Methods       int      `json:"methods"`
	Subscriptions int      `json:"subscriptions"`
}

func runValidate(cmd *cobra.Command, args []string, sel compiler.Selection) error {
	// Use global --json flag
	useJSON := shared.GetJSON()

	cfg, err := shared.LoadConfig()
	if err != nil {
		return shared.Fail(cmd.OutOrStdout(), "validate", err)
	}
	logger := shared.NewLogger(cmd.ErrOrStderr(), cfg)

	s, err := check(cmd, args, sel, logger)
	if err != nil {
		code := shared.ExitCode(err)
		if useJSON {
			if emitErr := shared.EmitJSONError(cmd.OutOrStdout(), "validate", []shared.JSONError{shared.NewJSONError(err)}); emitErr != nil {
				return emitErr
			}
			return shared.Silent(code)
		}
		printError(cmd.ErrOrStderr(), args, err)
		return &shared.ExitError{Code: code, Message: "validation failed"}
	}

	if useJSON {
		type validateResponse struct {
			shared.JSONResponse
			Inputs   []string `json:"inputs"`
			Protocol summary  `json:"protocol"`
		}
		return shared.EmitJSON(cmd.OutOrStdout(), validateResponse{
			JSONResponse: shared.NewJSONResponse("validate", true),
			Inputs:       args,
			Protocol:     *s,
		})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, shared.RenderOK(label(args)+" compiles"))
	if shared.GetQuiet() {
		return nil
	}
	if s.Version != "" {
		shared.WriteField(out, "Protocol:", s.Version)
	}
	shared.WriteField(out, "Domains:", strings.Join(s.Domains, ", "))
	if len(s.Added) > 0 {
		shared.WriteField(out, "Added:", strings.Join(s.Added, ", "))
	}
	shared.WriteField(out, "Surface:", shared.RenderCounts(
		shared.Count{N: s.Types, Noun: "type"},
		shared.Count{N: s.Methods, Noun: "method"},
		shared.Count{N: s.Subscriptions, Noun: "subscription"},
	))
	return nil
}

// check parses, analyzes and name-checks the documents.
func check(cmd *cobra.Command, args []string, sel compiler.Selection, logger *slog.Logger) (*summary, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	doc, err := protocol.ReadFiles(args...)
	if err != nil {
		return nil, err
	}
	a, err := compiler.Analyze(cmd.Context(), doc, compiler.Options{Selection: sel, Logger: logger})
	if err != nil {
		return nil, err
	}
	if err := emit.Check(a.Plan); err != nil {
		return nil, err
	}

	s := &summary{
		Version: doc.Version.String(),
		Domains: a.Domains,
		Added:   a.Added,
	}
	for _, d := range a.Mapping.Domains {
		s.Types += len(d.Types)
		s.Commands += len(d.Commands)
		s.Events += len(d.Events)
	}
	for _, d := range a.Plan.Domains {
		s.Methods += len(d.Methods)
		s.Subscriptions += len(d.Subscriptions)
	}
	return s, nil
}

func label(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return strings.Join(args, " + ")
}

// printError writes err in the compiler's "file:line: error[code]: message"
// form. Errors attributed to one input document name that file instead of
// the argument label.
func printError(w io.Writer, args []string, err error) {
	je := shared.NewJSONError(err)
	prefix := label(args)
	if loc := je.Location; loc != nil {
		if loc.File != "" {
			prefix = loc.File
			je.Message = strings.TrimPrefix(je.Message, loc.File+": ")
		}
		if loc.Line > 0 {
			prefix = fmt.Sprintf("%s:%d", prefix, loc.Line)
		}
	}
	fmt.Fprintf(w, "%s: error[%s]: %s\n", prefix, je.Code, je.Message)
	if je.Suggestion != "" {
		fmt.Fprintf(w, "  Suggestion: %s\n", je.Suggestion)
	}
}
