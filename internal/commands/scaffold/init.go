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

// Package scaffold implements 'cdpgen init'.
package scaffold

import (
	"context"
	"errors"
	"fmt"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tombee/cdpgen/internal/cli/prompt"
	"github.com/tombee/cdpgen/internal/commands/completion"
	"github.com/tombee/cdpgen/internal/commands/shared"
	"github.com/tombee/cdpgen/internal/config"
	"github.com/tombee/cdpgen/internal/templates"
	cdpgenerrors "github.com/tombee/cdpgen/pkg/errors"
	"github.com/tombee/cdpgen/schemas"
)

type initOptions struct {
	template    string
	name        string
	pkg         string
	output      string
	inputs      []string
	force       bool
	list        bool
	interactive bool
	schema      bool
}

// newPrompter is replaced in tests.
var newPrompter = func() prompt.Prompter {
	return prompt.NewSurveyPrompter(term.IsTerminal(int(os.Stdin.Fd())))
}

// NewInitCommand creates the init command
func NewInitCommand() *cobra.Command {
	var opts initOptions

	cmd := &cobra.Command{
		Use: "init [dir]",
		Annotations: map[string]string{
			"group": "project",
		},
		Short: "Create a cdpgen.yaml configuration",
		Long: `Init writes a cdpgen.yaml from a template into dir, or the current directory.
With a config file in place, 'cdpgen generate' needs no arguments.

Examples:
  cdpgen init                                # Single-document project
  cdpgen init --template chrome              # Chrome's browser and js protocols
  cdpgen init --package devtools -o ./gen    # Custom package and output
  cdpgen init --list                         # List available templates
  cdpgen init --interactive                  # Answer questions instead of passing flags
  cdpgen init --schema > cdpgen.schema.json  # JSON Schema of the file, for editors`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.template, "template", "minimal", "Template to start from")
	cmd.Flags().StringVar(&opts.name, "name", "", "Name of the first target")
	cmd.Flags().StringVar(&opts.pkg, "package", "", "Go package name of the generated bindings")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output directory of the generated bindings")
	cmd.Flags().StringSliceVarP(&opts.inputs, "input", "i", nil, "Protocol document (repeatable)")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Overwrite an existing cdpgen.yaml")
	cmd.Flags().BoolVar(&opts.list, "list", false, "List available templates")
	cmd.Flags().BoolVar(&opts.interactive, "interactive", false, "Prompt for each setting, using flags as defaults")
	cmd.Flags().BoolVar(&opts.schema, "schema", false, "Print the JSON Schema of cdpgen.yaml instead of writing one")
	cmd.MarkFlagsMutuallyExclusive("interactive", "list", "schema")
	cmd.RegisterFlagCompletionFunc("template", completion.CompleteTemplates)

	return cmd
}

func runInit(cmd *cobra.Command, args []string, opts initOptions) error {
	out := cmd.OutOrStdout()

	if opts.list {
		return listTemplates(cmd)
	}

	if opts.schema {
		data, err := schemas.GetConfigSchema()
		if err != nil {
			return shared.Fail(out, "init", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}

	if opts.interactive {
		if err := askOptions(cmd.Context(), newPrompter(), &opts); err != nil {
			return shared.Fail(out, "init", promptError(err))
		}
	}

	if !templates.Exists(opts.template) {
		return shared.Fail(out, "init", &cdpgenerrors.NotFoundError{Resource: "template", ID: opts.template})
	}

	data := templates.DefaultData(opts.template)
	if opts.name != "" {
		data.Name = opts.name
	}
	if opts.pkg != "" {
		if !token.IsIdentifier(opts.pkg) {
			return shared.Fail(out, "init", &cdpgenerrors.ValidationError{
				Field:      "package",
				Message:    fmt.Sprintf("%q is not a valid Go package name", opts.pkg),
				Suggestion: "use a lower case identifier such as \"cdp\"",
			})
		}
		data.Package = opts.pkg
	}
	if opts.output != "" {
		data.Output = opts.output
	}
	if len(opts.inputs) > 0 {
		data.Inputs = opts.inputs
	}

	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	path := filepath.Join(dir, config.FileName)

	if _, err := os.Stat(path); err == nil && !opts.force {
		return shared.Fail(out, "init", &cdpgenerrors.ValidationError{
			Field:      "init",
			Message:    path + " already exists",
			Suggestion: "use --force to overwrite it",
		})
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return shared.Fail(out, "init", err)
	}

	content, err := templates.Render(opts.template, data)
	if err != nil {
		return shared.Fail(out, "init", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return shared.Fail(out, "init", fmt.Errorf("failed to create %s: %w", dir, err))
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return shared.Fail(out, "init", fmt.Errorf("failed to write %s: %w", path, err))
	}

	if shared.GetJSON() {
		type initResponse struct {
			shared.JSONResponse
			Path     string `json:"path"`
			Template string `json:"template"`
		}
		return shared.EmitJSON(out, initResponse{
			JSONResponse: shared.NewJSONResponse("init", true),
			Path:         path,
			Template:     opts.template,
		})
	}

	fmt.Fprintln(out, shared.RenderOK("Created "+path))
	if !shared.GetQuiet() {
		fmt.Fprintln(out)
		fmt.Fprintln(out, shared.Header.Render("Next steps:"))
		fmt.Fprintf(out, "  1. Put %s next to the config\n", joinInputs(data.Inputs))
		fmt.Fprintln(out, "  2. Run: cdpgen generate")
	}
	return nil
}

func listTemplates(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	list, err := templates.List()
	if err != nil {
		return shared.Fail(out, "init", err)
	}

	if shared.GetJSON() {
		type templateEntry struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		}
		entries := make([]templateEntry, len(list))
		for i, t := range list {
			entries[i] = templateEntry{Name: t.Name, Description: t.Description}
		}
		return shared.EmitJSON(out, struct {
			shared.JSONResponse
			Templates []templateEntry `json:"templates"`
		}{shared.NewJSONResponse("init", true), entries})
	}

	fmt.Fprintln(out, shared.Header.Render("Templates:"))
	for _, t := range list {
		fmt.Fprintf(out, "  %-10s %s\n", t.Name, shared.Muted.Render(t.Description))
	}
	return nil
}

func joinInputs(inputs []string) string {
	switch len(inputs) {
	case 1:
		return inputs[0]
	case 2:
		return inputs[0] + " and " + inputs[1]
	}
	return fmt.Sprintf("the %d protocol documents", len(inputs))
}

// askOptions fills opts from the user's answers. The template is asked
// first because it decides the defaults offered for the rest.
func askOptions(ctx context.Context, p prompt.Prompter, opts *initOptions) error {
	list, err := templates.List()
	if err != nil {
		return err
	}
	names := make([]string, len(list))
	for i, t := range list {
		names[i] = t.Name
	}

	session := prompt.NewSession(p)
	answers, err := session.Ask(ctx, prompt.Question{
		Name:    "template",
		Message: "Template",
		Kind:    prompt.KindEnum,
		Options: names,
		Default: opts.template,
	})
	if err != nil {
		return err
	}
	opts.template = answers["template"]

	data := templates.DefaultData(opts.template)
	inputs := data.Inputs
	if len(opts.inputs) > 0 {
		inputs = opts.inputs
	}

	answers, err = session.Ask(ctx,
		prompt.Question{
			Name:     "name",
			Message:  "Target name",
			Default:  firstNonEmpty(opts.name, data.Name),
			Validate: prompt.ValidateRequired,
		},
		prompt.Question{
			Name:     "package",
			Message:  "Go package name",
			Default:  firstNonEmpty(opts.pkg, data.Package),
			Validate: prompt.ValidatePackageName,
		},
		prompt.Question{
			Name:     "output",
			Message:  "Output directory",
			Default:  firstNonEmpty(opts.output, data.Output),
			Validate: prompt.ValidateRequired,
		},
		prompt.Question{
			Name:     "inputs",
			Message:  "Protocol documents (comma-separated)",
			Kind:     prompt.KindList,
			Default:  strings.Join(inputs, ", "),
			Validate: validateInputs,
		},
	)
	if err != nil {
		return err
	}

	opts.name = answers["name"]
	opts.pkg = answers["package"]
	opts.output = answers["output"]
	opts.inputs = prompt.SplitList(answers["inputs"])
	return nil
}

// promptError maps prompt failures onto invalid input.
func promptError(err error) error {
	var verr *prompt.ValidationError
	switch {
	case errors.Is(err, prompt.ErrNotInteractive):
		return &cdpgenerrors.ValidationError{
			Field:      "interactive",
			Message:    "--interactive needs a terminal",
			Suggestion: "pass the settings as flags instead",
		}
	case errors.As(err, &verr):
		return &cdpgenerrors.ValidationError{
			Field:   verr.Question,
			Message: verr.Reason,
		}
	}
	return err
}

func validateInputs(s string) error {
	if len(prompt.SplitList(s)) == 0 {
		return fmt.Errorf("at least one protocol document is required")
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
