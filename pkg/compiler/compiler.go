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
	"log/slog"

	"github.com/google/uuid"

	"github.com/tombee/cdpgen/internal/log"
	"github.com/tombee/cdpgen/pkg/protocol"
	"github.com/tombee/cdpgen/pkg/protocol/emit"
	"github.com/tombee/cdpgen/pkg/protocol/overload"
	"github.com/tombee/cdpgen/pkg/protocol/resolve"
	"github.com/tombee/cdpgen/pkg/protocol/typemap"
)

// Options control a compilation.
type Options struct {
	// Package is the Go package name of the generated files.
	Package string

	// Header is prepended to every generated file.
	Header string

	// Selection picks the domains to compile.
	Selection Selection

	// Logger receives stage logs. Defaults to slog.Default().
	Logger *slog.Logger

	// RunID identifies the run in logs. A random id is used when empty.
	RunID string
}

// Analysis is a planned document, ready for emission.
type Analysis struct {
	RunID string

	// Domains lists the compiled domains in document order.
	Domains []string

	// Added lists domains compiled only because a selected domain depends
	// on them.
	Added []string

	Model   *resolve.Model
	Mapping *typemap.Mapping
	Plan    *overload.Plan
}

// Result is the outcome of a compilation.
type Result struct {
	*Analysis

	// Files holds the rendered files: one per domain, then the support file.
	Files []*emit.File

	// Output is the directory the files were written to. It is empty for
	// Compile, which writes nothing.
	Output string
}

func (o *Options) logger() *slog.Logger {
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if o.RunID == "" {
		o.RunID = uuid.NewString()
	}
	return log.WithRunContext(logger, o.RunID, "")
}

// Analyze selects, resolves, maps and plans doc without rendering any
// source. It reports the first error the pipeline meets.
func Analyze(ctx context.Context, doc *protocol.Document, opts Options) (*Analysis, error) {
	logger := opts.logger()
	return analyze(ctx, doc, opts, logger)
}

func analyze(ctx context.Context, doc *protocol.Document, opts Options, logger *slog.Logger) (*Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a := &Analysis{RunID: opts.RunID}

	var selected *protocol.Document
	err := log.Stage(logger, &log.StageRequest{Stage: "select"}, func() (map[string]any, error) {
		var err error
		selected, a.Added, err = Select(doc, opts.Selection)
		if err != nil {
			return nil, err
		}
		for _, d := range selected.Domains {
			a.Domains = append(a.Domains, d.Name)
		}
		return map[string]any{"domains": len(a.Domains), "added": len(a.Added)}, nil
	})
	if err != nil {
		return nil, err
	}
	for _, name := range a.Added {
		log.WithDomain(logger, name).Info("including dependency of a selected domain")
	}

	err = log.Stage(logger, &log.StageRequest{Stage: "resolve"}, func() (map[string]any, error) {
		var err error
		if a.Model, err = resolve.Resolve(selected); err != nil {
			return nil, err
		}
		return map[string]any{"types": a.Model.Table.Len()}, nil
	})
	if err != nil {
		return nil, err
	}

	err = log.Stage(logger, &log.StageRequest{Stage: "map"}, func() (map[string]any, error) {
		var err error
		if a.Mapping, err = typemap.Map(a.Model); err != nil {
			return nil, err
		}
		named := 0
		for _, d := range a.Mapping.Domains {
			named += len(d.Types)
		}
		return map[string]any{"named_types": named}, nil
	})
	if err != nil {
		return nil, err
	}

	err = log.Stage(logger, &log.StageRequest{Stage: "plan"}, func() (map[string]any, error) {
		var err error
		if a.Plan, err = overload.Build(a.Mapping); err != nil {
			return nil, err
		}
		methods := 0
		for _, d := range a.Plan.Domains {
			methods += len(d.Methods)
		}
		return map[string]any{"methods": methods}, nil
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Compile analyzes doc and renders every selected domain. Nothing is
// written. ctx is checked once per domain; a cancelled run returns
// ctx.Err() and no files.
func Compile(ctx context.Context, doc *protocol.Document, opts Options) (*Result, error) {
	logger := opts.logger()

	a, err := analyze(ctx, doc, opts, logger)
	if err != nil {
		return nil, err
	}
	if err := emit.Check(a.Plan); err != nil {
		return nil, err
	}
	e, err := emit.New(emit.Options{Package: opts.Package, Header: opts.Header})
	if err != nil {
		return nil, err
	}

	res := &Result{Analysis: a}
	for _, d := range a.Plan.Domains {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		err := log.Stage(logger, &log.StageRequest{Stage: "emit", Domain: d.Name()}, func() (map[string]any, error) {
			f, err := e.EmitDomain(a.Plan, d)
			if err != nil {
				return nil, err
			}
			res.Files = append(res.Files, f)
			return map[string]any{
				"file":          f.Name,
				"methods":       len(d.Methods),
				"subscriptions": len(d.Subscriptions),
				"bytes":         len(f.Content),
			}, nil
		})
		if err != nil {
			return nil, err
		}
	}

	support, err := e.EmitSupport(a.Plan)
	if err != nil {
		return nil, err
	}
	res.Files = append(res.Files, support)
	return res, nil
}
