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
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/tombee/cdpgen/pkg/protocol"

	cdpgenerrors "github.com/tombee/cdpgen/pkg/errors"
)

// Selection picks domains by name and by metadata.
type Selection struct {
	// Include holds glob patterns a domain name must match. Empty means
	// every domain.
	Include []string

	// Exclude holds glob patterns that drop a matching domain.
	Exclude []string

	// Where is a boolean expression evaluated against each domain, e.g.
	// "!experimental && commands > 0". See DomainEnv for the fields.
	Where string
}

// DomainEnv is what a Where expression sees.
type DomainEnv struct {
	Name         string   `expr:"name"`
	Description  string   `expr:"description"`
	Experimental bool     `expr:"experimental"`
	Deprecated   bool     `expr:"deprecated"`
	Dependencies []string `expr:"dependencies"`
	Types        int      `expr:"types"`
	Commands     int      `expr:"commands"`
	Events       int      `expr:"events"`
}

func domainEnv(d *protocol.Domain) DomainEnv {
	deps := d.Dependencies
	if deps == nil {
		deps = []string{}
	}
	return DomainEnv{
		Name:         d.Name,
		Description:  d.Description,
		Experimental: d.Experimental,
		Deprecated:   d.Deprecated,
		Dependencies: deps,
		Types:        len(d.Types),
		Commands:     len(d.Commands),
		Events:       len(d.Events),
	}
}

// Validate checks the patterns and the expression without a document.
func (s Selection) Validate() error {
	for _, p := range append(append([]string{}, s.Include...), s.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return &cdpgenerrors.ValidationError{
				Field:      "include/exclude",
				Message:    fmt.Sprintf("invalid domain pattern %q", p),
				Suggestion: "use glob syntax such as \"DOM*\" or \"{Page,Runtime}\"",
			}
		}
	}
	_, err := compileWhere(s.Where)
	return err
}

func compileWhere(where string) (*vm.Program, error) {
	if strings.TrimSpace(where) == "" {
		return nil, nil
	}
	program, err := expr.Compile(where, expr.Env(DomainEnv{}), expr.AsBool())
	if err != nil {
		return nil, &cdpgenerrors.ValidationError{
			Field:      "where",
			Message:    fmt.Sprintf("failed to compile expression: %s", err.Error()),
			Suggestion: "use fields such as name, experimental, deprecated, dependencies, commands",
		}
	}
	return program, nil
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

// Select returns a document holding the selected domains in document
// order, closed over their declared dependencies so the result always
// resolves. added lists the domains pulled in only as dependencies.
// Dependencies missing from doc are left for the resolver to report.
func Select(doc *protocol.Document, sel Selection) (selected *protocol.Document, added []string, err error) {
	if len(sel.Include) == 0 && len(sel.Exclude) == 0 && strings.TrimSpace(sel.Where) == "" {
		return doc, nil, nil
	}
	if err := sel.Validate(); err != nil {
		return nil, nil, err
	}
	program, err := compileWhere(sel.Where)
	if err != nil {
		return nil, nil, err
	}

	picked := make(map[string]bool, len(doc.Domains))
	for _, d := range doc.Domains {
		if len(sel.Include) > 0 && !matchAny(sel.Include, d.Name) {
			continue
		}
		if matchAny(sel.Exclude, d.Name) {
			continue
		}
		if program != nil {
			out, err := expr.Run(program, domainEnv(d))
			if err != nil {
				return nil, nil, &cdpgenerrors.ValidationError{
					Field:   "where",
					Message: fmt.Sprintf("expression evaluation failed for domain %s: %s", d.Name, err.Error()),
				}
			}
			if ok, _ := out.(bool); !ok {
				continue
			}
		}
		picked[d.Name] = true
	}
	if len(picked) == 0 {
		return nil, nil, &cdpgenerrors.ValidationError{
			Field:      "include/exclude",
			Message:    "no domain matches the selection",
			Suggestion: "run 'cdpgen inspect' to list the domains of the document",
		}
	}

	// Close over dependencies, walking each new domain once.
	queue := make([]string, 0, len(picked))
	for _, d := range doc.Domains {
		if picked[d.Name] {
			queue = append(queue, d.Name)
		}
	}
	pulled := make(map[string]bool)
	for len(queue) > 0 {
		d := doc.Domain(queue[0])
		queue = queue[1:]
		for _, dep := range d.Dependencies {
			if picked[dep] || doc.Domain(dep) == nil {
				continue
			}
			picked[dep] = true
			pulled[dep] = true
			queue = append(queue, dep)
		}
	}

	selected = &protocol.Document{Version: doc.Version}
	for _, d := range doc.Domains {
		if !picked[d.Name] {
			continue
		}
		selected.Domains = append(selected.Domains, d)
		if pulled[d.Name] {
			added = append(added, d.Name)
		}
	}
	return selected, added, nil
}
