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

// Package templates holds the starter configuration files written by
// 'cdpgen init'.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"slices"
	"strings"
	"text/template"
)

//go:embed *.yaml
var files embed.FS

// Data fills a starter config.
type Data struct {
	// Name of the first target.
	Name string

	// Package is the Go package name of the generated bindings.
	Package string

	Output string

	// Inputs are the protocol documents.
	Inputs []string
}

// Template is a starter config.
type Template struct {
	Name        string
	Description string

	// Defaults are used for every value 'cdpgen init' is not given.
	Defaults Data
}

func (t Template) file() string { return t.Name + ".yaml" }

var registry = []Template{
	{
		Name:        "minimal",
		Description: "One target compiling a single protocol document",
		Defaults:    Data{Name: "cdp", Package: "cdp", Output: "./cdp", Inputs: []string{"protocol.json"}},
	},
	{
		Name:        "chrome",
		Description: "Chrome's split protocol, with a full and a stable-only target",
		Defaults:    Data{Name: "tip", Package: "cdp", Output: "./cdp", Inputs: []string{"browser_protocol.json", "js_protocol.json"}},
	},
}

// List returns the starter configs in presentation order.
func List() ([]Template, error) {
	list := make([]Template, 0, len(registry))
	for _, t := range registry {
		if _, err := files.Open(t.file()); err != nil {
			return nil, fmt.Errorf("template %q is not embedded: %w", t.Name, err)
		}
		list = append(list, t)
	}
	return list, nil
}

// Lookup returns the template called name.
func Lookup(name string) (Template, bool) {
	for _, t := range registry {
		if t.Name == name {
			return t, true
		}
	}
	return Template{}, false
}

// Exists reports whether a template called name exists.
func Exists(name string) bool {
	_, ok := Lookup(name)
	return ok
}

// DefaultData returns the defaults of the named template, or those of
// minimal for an unknown name.
func DefaultData(name string) Data {
	t, ok := Lookup(name)
	if !ok {
		t = registry[0]
	}
	d := t.Defaults
	d.Inputs = slices.Clone(d.Inputs)
	return d
}

// Get returns the unrendered content of the named template.
func Get(name string) ([]byte, error) {
	t, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown template %q (have %s)", name, strings.Join(names(), ", "))
	}
	return files.ReadFile(t.file())
}

// Render fills the named template with data. Every field the template
// references must be set.
func Render(name string, data Data) ([]byte, error) {
	content, err := Get(name)
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New(name).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %q: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render template %q: %w", name, err)
	}
	return buf.Bytes(), nil
}

func names() []string {
	out := make([]string, len(registry))
	for i, t := range registry {
		out[i] = t.Name
	}
	return out
}
