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

// Package generate implements 'cdpgen generate'.
package generate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tombee/cdpgen/internal/commands/completion"
	"github.com/tombee/cdpgen/internal/commands/shared"
	"github.com/tombee/cdpgen/internal/config"
	"github.com/tombee/cdpgen/internal/watch"
	"github.com/tombee/cdpgen/pkg/compiler"
	cdpgenerrors "github.com/tombee/cdpgen/pkg/errors"
)

type options struct {
	output  string
	pkg     string
	header  string
	include []string
	exclude []string
	where   string
	targets []string
	watch   bool
}

// argumentOnlyFlags only apply to protocol files given on the command line.
var argumentOnlyFlags = []string{"output", "package", "header", "include", "exclude", "where"}

// NewCommand creates the generate command
func NewCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "generate [protocol.json...]",
		Short: "Generate Go bindings from protocol documents",
		Annotations: map[string]string{
			"group": "generation",
		},
		Long: `Generate compiles protocol documents into a Go package: one file per
domain plus client.go, which ties the domains together. Documents given as
arguments are merged in order and written to --output.

Without arguments, every target in cdpgen.yaml is generated in parallel.
Use --target to pick targets by name.

A failed run writes nothing. Files in the output directory that carry the
generated-code marker but are no longer produced are removed; hand-written
files are left alone.

Domain selection:
  --include <glob>   Compile only matching domains (repeatable)
  --exclude <glob>   Drop matching domains (repeatable)
  --where <expr>     Keep domains for which the expression is true

Dependencies of a selected domain are always compiled.

See also: cdpgen validate, cdpgen inspect`,
		Example: `  # Example 1: Compile a single document
  cdpgen generate protocol.json -o ./cdp

  # Example 2: Merge Chrome's split protocol into package devtools
  cdpgen generate browser_protocol.json js_protocol.json -o ./devtools --package devtools

  # Example 3: Only stable DOM domains
  cdpgen generate protocol.json -o ./cdp --include 'DOM*' --where '!experimental'

  # Example 4: Run the targets of cdpgen.yaml and rebuild on change
  cdpgen generate --watch`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		ValidArgsFunction: completion.CompleteProtocolFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output directory (default: defaults.output from config)")
	cmd.Flags().StringVar(&opts.pkg, "package", "", "Go package name (default: defaults.package from config)")
	cmd.Flags().StringVar(&opts.header, "header", "", "Text prepended to every generated file")
	cmd.Flags().StringSliceVar(&opts.include, "include", nil, "Glob of domains to compile (repeatable)")
	cmd.Flags().StringSliceVar(&opts.exclude, "exclude", nil, "Glob of domains to skip (repeatable)")
	cmd.Flags().StringVar(&opts.where, "where", "", "Expression a domain must satisfy, e.g. '!experimental'")
	cmd.Flags().StringSliceVarP(&opts.targets, "target", "t", nil, "Config target to generate (repeatable, default: all)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Regenerate when an input document changes")
	cmd.RegisterFlagCompletionFunc("target", completion.CompleteTargets)
	cmd.RegisterFlagCompletionFunc("include", completion.CompleteDomains)
	cmd.RegisterFlagCompletionFunc("exclude", completion.CompleteDomains)

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string, opts options) error {
	out := cmd.OutOrStdout()

	cfg, err := shared.LoadConfig()
	if err != nil {
		return shared.Fail(out, "generate", err)
	}
	logger := shared.NewLogger(cmd.ErrOrStderr(), cfg)

	targets, err := buildTargets(cmd, cfg, args, opts, logger)
	if err != nil {
		return shared.Fail(out, "generate", err)
	}

	if !opts.watch {
		results, err := compiler.RunAll(cmd.Context(), targets)
		if err != nil {
			return shared.Fail(out, "generate", err)
		}
		return report(out, targets, results)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	build := func(ctx context.Context) error {
		results, err := compiler.RunAll(ctx, targets)
		if err != nil {
			return err
		}
		return report(out, targets, results)
	}

	// A broken document at startup is reported and then watched like any
	// other.
	if err := build(ctx); err != nil && ctx.Err() == nil {
		shared.WriteExitError(cmd.ErrOrStderr(), err)
	}

	inputs := inputsOf(targets)
	logger.Info("watching for changes", slog.Int("files", len(inputs)))
	return watch.Run(ctx, inputs, watch.Options{Logger: logger}, func(ctx context.Context, events []watch.Event) error {
		logger.Info("input changed, regenerating", slog.String("files", strings.Join(watch.Paths(events), ", ")))
		return build(ctx)
	})
}

// buildTargets turns the arguments, or the configured targets when there are
// none, into compiler targets.
func buildTargets(cmd *cobra.Command, cfg *config.Config, args []string, opts options, logger *slog.Logger) ([]compiler.Target, error) {
	if len(args) > 0 {
		if len(opts.targets) > 0 {
			return nil, &cdpgenerrors.ValidationError{
				Field:      "target",
				Message:    "--target cannot be combined with protocol file arguments",
				Suggestion: "drop the file arguments to run configured targets",
			}
		}
		t := compiler.Target{
			Inputs: args,
			Output: firstNonEmpty(opts.output, cfg.Defaults.Output),
			Options: compiler.Options{
				Package: firstNonEmpty(opts.pkg, cfg.Defaults.Package),
				Header:  firstNonEmpty(opts.header, cfg.Defaults.Header),
				Selection: compiler.Selection{
					Include: opts.include,
					Exclude: opts.exclude,
					Where:   opts.where,
				},
				Logger: logger,
			},
		}
		return []compiler.Target{t}, nil
	}

	for _, name := range argumentOnlyFlags {
		if cmd.Flags().Changed(name) {
			return nil, &cdpgenerrors.ValidationError{
				Field:      name,
				Message:    fmt.Sprintf("--%s only applies to protocol files given as arguments", name),
				Suggestion: "set it on the target in " + config.FileName + " instead",
			}
		}
	}

	configured := cfg.Targets
	if len(opts.targets) > 0 {
		configured = nil
		for _, name := range opts.targets {
			tc, err := cfg.Target(name)
			if err != nil {
				return nil, err
			}
			configured = append(configured, *tc)
		}
	}
	if len(configured) == 0 {
		return nil, &cdpgenerrors.ValidationError{
			Field:      "inputs",
			Message:    "no protocol documents given and no targets configured",
			Suggestion: "pass protocol files as arguments or run 'cdpgen init' to create " + config.FileName,
		}
	}

	targets := make([]compiler.Target, 0, len(configured))
	for _, tc := range configured {
		targets = append(targets, compiler.Target{
			Name:   tc.Name,
			Inputs: tc.Inputs,
			Output: tc.Output,
			Options: compiler.Options{
				Package: tc.Package,
				Header:  tc.Header,
				Selection: compiler.Selection{
					Include: tc.Include,
					Exclude: tc.Exclude,
					Where:   tc.Where,
				},
				Logger: logger,
			},
		})
	}
	return targets, nil
}

func inputsOf(targets []compiler.Target) []string {
	seen := make(map[string]bool)
	var inputs []string
	for _, t := range targets {
		for _, in := range t.Inputs {
			if !seen[in] {
				seen[in] = true
				inputs = append(inputs, in)
			}
		}
	}
	return inputs
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

type targetReport struct {
	Name    string   `json:"name,omitempty"`
	Output  string   `json:"output"`
	Package string   `json:"package"`
	RunID   string   `json:"run_id"`
	Domains []string `json:"domains"`
	Added   []string `json:"added,omitempty"`
	Files   []string `json:"files"`
}

func report(w io.Writer, targets []compiler.Target, results []*compiler.Result) error {
	reports := make([]targetReport, len(results))
	for i, res := range results {
		files := make([]string, len(res.Files))
		for j, f := range res.Files {
			files[j] = f.Name
		}
		reports[i] = targetReport{
			Name:    targets[i].Name,
			Output:  res.Output,
			Package: targets[i].Package,
			RunID:   res.RunID,
			Domains: res.Domains,
			Added:   res.Added,
			Files:   files,
		}
	}

	if shared.GetJSON() {
		type generateResponse struct {
			shared.JSONResponse
			Targets []targetReport `json:"targets"`
		}
		return shared.EmitJSON(w, generateResponse{
			JSONResponse: shared.NewJSONResponse("generate", true),
			Targets:      reports,
		})
	}
	if shared.GetQuiet() {
		return nil
	}

	for _, r := range reports {
		label := r.Output
		if r.Name != "" {
			label = r.Name + " (" + r.Output + ")"
		}
		fmt.Fprintf(w, "%s %s\n", shared.RenderOK("Generated"), label)
		fmt.Fprintf(w, "  %s\n", shared.RenderCounts(
			shared.Count{N: len(r.Domains), Noun: "domain"},
			shared.Count{N: len(r.Files), Noun: "file"},
		))
		if len(r.Added) > 0 {
			shared.WriteField(w, "dependencies added:", strings.Join(r.Added, ", "))
		}
	}
	return nil
}
