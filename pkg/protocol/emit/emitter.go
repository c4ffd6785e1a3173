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

// Package emit renders a planned protocol as Go source.
//
// All domains are emitted into one Go package, one file per domain, so
// that domains referring to each other's types never form an import
// cycle. A support file declares the Invoker and Subscription interfaces
// that generated code calls through, and a Client aggregating every domain.
package emit

import (
	"bytes"
	"embed"
	"fmt"
	"go/format"
	"go/token"
	"strings"
	"text/template"

	"github.com/tombee/cdpgen/pkg/protocol/overload"
	"github.com/tombee/cdpgen/pkg/protocol/typemap"

	cdpgenerrors "github.com/tombee/cdpgen/pkg/errors"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// DefaultPackage is the package name used when Options.Package is empty.
const DefaultPackage = "cdp"

// SupportFile is the name of the file EmitSupport renders.
const SupportFile = "client.go"

// Options configure an Emitter.
type Options struct {
	// Package is the Go package name of the generated files.
	Package string

	// Header is placed at the top of every file, typically a license.
	// Lines not already starting with "//" are commented.
	Header string
}

// File is one rendered Go source file.
type File struct {
	// Name is the base file name, e.g. "dom.go".
	Name string

	// Domain is the domain the file declares, empty for the support file.
	Domain string

	Content []byte
}

// Emitter renders Go source files. It holds no state between calls and may
// be used concurrently.
type Emitter struct {
	opts Options
	tmpl *template.Template
}

// New returns an Emitter.
func New(opts Options) (*Emitter, error) {
	if opts.Package == "" {
		opts.Package = DefaultPackage
	}
	if !isIdentifier(opts.Package) {
		return nil, &cdpgenerrors.ValidationError{
			Field:      "package",
			Message:    fmt.Sprintf("%q is not a valid Go package name", opts.Package),
			Suggestion: "use a lower case identifier such as \"cdp\"",
		}
	}
	tmpl, err := template.New("emit").ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Emitter{opts: opts, tmpl: tmpl}, nil
}

// Package returns the Go package name files are emitted into.
func (e *Emitter) Package() string { return e.opts.Package }

// EmitDomain renders the file of one planned domain.
func (e *Emitter) EmitDomain(plan *overload.Plan, domain *overload.DomainPlan) (*File, error) {
	view := newDomainView(plan.Mapping, domain)
	view.Header = e.header()
	view.Package = e.opts.Package

	content, err := e.render("domain.go.tmpl", view)
	if err != nil {
		return nil, fmt.Errorf("emit %s: %w", domain.Name(), err)
	}
	return &File{Name: fileName(domain.Name()), Domain: domain.Name(), Content: content}, nil
}

// EmitSupport renders the support file shared by every domain file.
func (e *Emitter) EmitSupport(plan *overload.Plan) (*File, error) {
	view := supportView{Header: e.header(), Package: e.opts.Package}
	for _, d := range plan.Domains {
		view.Domains = append(view.Domains, clientField{
			Field:       exported(d.Name()),
			Interface:   interfaceName(d.Name()),
			Constructor: constructorName(d.Name()),
		})
	}

	content, err := e.render("client.go.tmpl", view)
	if err != nil {
		return nil, fmt.Errorf("emit %s: %w", SupportFile, err)
	}
	return &File{Name: SupportFile, Content: content}, nil
}

func (e *Emitter) render(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("failed to render template %q: %w", name, err)
	}
	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to format generated source: %w", err)
	}
	return out, nil
}

func (e *Emitter) header() string {
	h := strings.TrimSpace(e.opts.Header)
	if h == "" {
		return ""
	}
	var b strings.Builder
	for _, line := range strings.Split(h, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if !strings.HasPrefix(line, "//") {
			if line == "" {
				line = "//"
			} else {
				line = "// " + line
			}
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	return b.String()
}

// Check reports package-level Go identifiers that two declarations would
// share. Domain and type names are concatenated, so distinct schema names
// can meet: DOM + StorageId and DOMStorage + Id.
func Check(plan *overload.Plan) error {
	owner := map[string]string{
		"Invoker":      "support",
		"Subscription": "support",
		"Client":       "support",
		"NewClient":    "support",
		"subscribe":    "support",
	}
	claim := func(name, by string) error {
		if prev, ok := owner[name]; ok {
			return &cdpgenerrors.NameCollisionError{
				Domain: strings.SplitN(by, ".", 2)[0],
				Name:   name,
				Reason: fmt.Sprintf("Go identifier of %s is already declared by %s", by, prev),
			}
		}
		owner[name] = by
		return nil
	}

	for _, d := range plan.Domains {
		dom := d.Name()
		for _, name := range []string{interfaceName(dom), implName(dom), constructorName(dom)} {
			if err := claim(name, dom); err != nil {
				return err
			}
		}
		for _, nt := range domainTypes(d) {
			id := typeName(nt.Domain, nt.Name)
			if err := claim(id, nt.Domain+"."+nt.Name); err != nil {
				return err
			}
			if nt.Kind == typemap.Struct {
				fields := make([]string, len(nt.Fields))
				for i, f := range nt.Fields {
					fields[i] = exported(f.Name)
				}
				if err := distinct(dom, id, "fields", fields); err != nil {
					return err
				}
			}
			if nt.Kind != typemap.Enum {
				continue
			}
			for _, c := range enumConsts(id, nt.Values) {
				if err := claim(c.Name, nt.Domain+"."+nt.Name+"."+c.Value); err != nil {
					return err
				}
			}
		}

		for _, m := range d.Methods {
			args := []string{"ctx"}
			for _, a := range m.Args {
				args = append(args, local(a.Name))
			}
			if err := distinct(dom, goMethodName(m), "arguments", args); err != nil {
				return err
			}
		}

		methods := make(map[string]bool)
		for _, name := range memberNames(d) {
			if methods[name] {
				return &cdpgenerrors.NameCollisionError{
					Domain: dom,
					Name:   name,
					Reason: "two methods of the domain interface share the name",
				}
			}
			methods[name] = true
		}
	}
	return nil
}

// distinct reports the first Go identifier among names that repeats an
// earlier one. Schema names that differ only in case or separators, such
// as "url" and "URL", map to the same identifier.
func distinct(domain, owner, what string, names []string) error {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			return &cdpgenerrors.NameCollisionError{
				Domain: domain,
				Name:   name,
				Reason: fmt.Sprintf("two %s of %s share the Go identifier", what, owner),
			}
		}
		seen[name] = true
	}
	return nil
}

func memberNames(d *overload.DomainPlan) []string {
	var names []string
	for _, m := range d.Methods {
		names = append(names, goMethodName(m))
	}
	for _, s := range d.Subscriptions {
		names = append(names, subscriptionName(s.Event))
	}
	return names
}

func isIdentifier(s string) bool {
	return s != "_" && token.IsIdentifier(s)
}
