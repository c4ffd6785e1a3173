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

package compiler

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tombee/cdpgen/internal/log"
	"github.com/tombee/cdpgen/pkg/protocol"

	cdpgenerrors "github.com/tombee/cdpgen/pkg/errors"
)

// Target is one compilation: input documents, output directory and the
// options to compile with.
type Target struct {
	// Name identifies the target in logs and reports.
	Name string

	// Inputs are protocol documents, merged in order.
	Inputs []string

	// Output is the directory the generated package is written to.
	Output string

	Options
}

// Validate checks that the target can run.
func (t *Target) Validate() error {
	if len(t.Inputs) == 0 {
		return &cdpgenerrors.ValidationError{
			Field:      "inputs",
			Message:    "at least one protocol document is required",
			Suggestion: "pass protocol files as arguments or list them under targets[].inputs",
		}
	}
	if t.Output == "" {
		return &cdpgenerrors.ValidationError{
			Field:      "output",
			Message:    "an output directory is required",
			Suggestion: "set --output or targets[].output",
		}
	}
	return t.Selection.Validate()
}

// Run reads the target's inputs, compiles them and writes the files into
// the output directory. On any error nothing is written.
func Run(ctx context.Context, t Target) (*Result, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	doc, err := protocol.ReadFiles(t.Inputs...)
	if err != nil {
		return nil, err
	}

	opts := t.Options
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if t.Name != "" {
		opts.Logger = opts.Logger.With(log.TargetKey, t.Name)
	}

	res, err := Compile(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := WriteFiles(t.Output, res.Files); err != nil {
		return nil, err
	}
	res.Output = t.Output
	log.WithRunContext(opts.Logger, opts.RunID, "").Debug("wrote generated package",
		"output", t.Output, "files", len(res.Files))
	return res, nil
}

// RunAll runs targets in parallel. The first failure cancels the targets
// still compiling; targets already written stay written. Results are in
// target order.
func RunAll(ctx context.Context, targets []Target) ([]*Result, error) {
	results := make([]*Result, len(targets))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, t := range targets {
		g.Go(func() error {
			res, err := Run(ctx, t)
			if err != nil {
				if t.Name != "" {
					return fmt.Errorf("target %s: %w", t.Name, err)
				}
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
