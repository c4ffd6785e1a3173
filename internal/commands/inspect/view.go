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

package inspect

import (
	"github.com/tombee/cdpgen/pkg/compiler"
	"github.com/tombee/cdpgen/pkg/protocol"
	"github.com/tombee/cdpgen/pkg/protocol/emit"
	"github.com/tombee/cdpgen/pkg/protocol/overload"
	"github.com/tombee/cdpgen/pkg/protocol/typemap"
)

// View is the planned model of a protocol: what 'cdpgen generate' would
// emit, per domain. Slices are never nil so queries can iterate them.
type View struct {
	Version string        `json:"version,omitempty"`
	Domains []*DomainView `json:"domains"`
}

// DomainView is one compiled domain.
type DomainView struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Experimental bool     `json:"experimental,omitempty"`
	Deprecated   bool     `json:"deprecated,omitempty"`
	Dependencies []string `json:"dependencies"`
	File         string   `json:"file"`

	// Added is set for domains compiled only as a dependency of the
	// selection.
	Added bool `json:"added,omitempty"`

	Types         []*TypeView         `json:"types"`
	Methods       []*MethodView       `json:"methods"`
	Subscriptions []*SubscriptionView `json:"subscriptions"`
}

// TypeView is a named type.
type TypeView struct {
	Name         string       `json:"name"`
	Kind         string       `json:"kind"`
	Description  string       `json:"description,omitempty"`
	Experimental bool         `json:"experimental,omitempty"`
	Deprecated   bool         `json:"deprecated,omitempty"`
	Values       []string     `json:"values,omitempty"`
	Fields       []*FieldView `json:"fields,omitempty"`
	Underlying   string       `json:"underlying,omitempty"`
	Synthesized  bool         `json:"synthesized,omitempty"`
	Aggregate    bool         `json:"aggregate,omitempty"`
	Source       string       `json:"source,omitempty"`
}

// FieldView is a struct field or method argument. Type is the schema-level
// type: a primitive kind, "any", "map", "Domain.Type" or "[]T".
type FieldView struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Optional bool   `json:"optional,omitempty"`
	Nullable bool   `json:"nullable,omitempty"`
}

// MethodView is one generated method of a command.
type MethodView struct {
	Name         string       `json:"name"`
	Command      string       `json:"command"`
	Variant      string       `json:"variant"`
	Args         []*FieldView `json:"args"`
	Params       string       `json:"params,omitempty"`
	Result       string       `json:"result,omitempty"`
	Experimental bool         `json:"experimental,omitempty"`
	Deprecated   bool         `json:"deprecated,omitempty"`
	Redirect     string       `json:"redirect,omitempty"`
}

// SubscriptionView is the subscription method of an event.
type SubscriptionView struct {
	Name         string `json:"name"`
	Event        string `json:"event"`
	Payload      string `json:"payload,omitempty"`
	Experimental bool   `json:"experimental,omitempty"`
	Deprecated   bool   `json:"deprecated,omitempty"`
}

// NewView builds the view of an analyzed document.
func NewView(doc *protocol.Document, a *compiler.Analysis) *View {
	added := make(map[string]bool, len(a.Added))
	for _, name := range a.Added {
		added[name] = true
	}

	v := &View{Version: doc.Version.String(), Domains: []*DomainView{}}
	for _, d := range a.Plan.Domains {
		dom := d.Domain
		dv := &DomainView{
			Name:          dom.Name,
			Description:   dom.Description,
			Experimental:  dom.Annotations.Experimental,
			Deprecated:    dom.Annotations.Deprecated,
			Dependencies:  nonNil(dom.Dependencies),
			File:          emit.FileName(dom.Name),
			Added:         added[dom.Name],
			Types:         []*TypeView{},
			Methods:       []*MethodView{},
			Subscriptions: []*SubscriptionView{},
		}
		for _, t := range dom.Types {
			dv.Types = append(dv.Types, typeView(t))
		}
		for _, m := range d.Methods {
			dv.Methods = append(dv.Methods, methodView(m))
		}
		for _, s := range d.Subscriptions {
			dv.Subscriptions = append(dv.Subscriptions, &SubscriptionView{
				Name:         emit.SubscriptionName(s),
				Event:        s.Event,
				Payload:      qualified(s.Payload),
				Experimental: s.Annotations.Experimental,
				Deprecated:   s.Annotations.Deprecated,
			})
		}
		v.Domains = append(v.Domains, dv)
	}
	return v
}

func typeView(t *typemap.NamedType) *TypeView {
	tv := &TypeView{
		Name:         t.Domain + "." + t.Name,
		Kind:         t.Kind.String(),
		Description:  t.Description,
		Experimental: t.Annotations.Experimental,
		Deprecated:   t.Annotations.Deprecated,
		Values:       t.Values,
		Synthesized:  t.Synthesized,
		Aggregate:    t.Aggregate,
		Source:       t.Source,
	}
	if t.Underlying != nil {
		tv.Underlying = t.Underlying.String()
	}
	for _, f := range t.Fields {
		tv.Fields = append(tv.Fields, &FieldView{Name: f.Name, Type: f.Type.String(), Optional: f.Optional})
	}
	return tv
}

func methodView(m *overload.Method) *MethodView {
	mv := &MethodView{
		Name:         emit.MethodName(m),
		Command:      m.Command,
		Variant:      m.Variant.String(),
		Args:         []*FieldView{},
		Params:       qualified(m.Params),
		Result:       qualified(m.Result),
		Experimental: m.Annotations.Experimental,
		Deprecated:   m.Annotations.Deprecated,
		Redirect:     m.Annotations.Redirect,
	}
	for _, arg := range m.Args {
		mv.Args = append(mv.Args, &FieldView{
			Name:     arg.Name,
			Type:     arg.Type.String(),
			Optional: arg.Optional,
			Nullable: arg.Nullable,
		})
	}
	return mv
}

func qualified(t *typemap.NamedType) string {
	if t == nil {
		return ""
	}
	return t.Domain + "." + t.Name
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
