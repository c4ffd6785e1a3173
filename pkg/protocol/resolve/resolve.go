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

package resolve

import (
	"github.com/tombee/cdpgen/pkg/protocol"

	cdpgenerrors "github.com/tombee/cdpgen/pkg/errors"
)

// Ref is a resolved type reference.
//
// Exactly one of the following holds: Target is valid (a $ref), Kind is
// KindArray with Items set, Kind is KindString with Enum set (inline enum),
// Kind is KindObject with Properties set (inline object), or Kind is a plain
// primitive.
type Ref struct {
	Kind       protocol.Kind
	Target     Handle
	Items      *Ref
	Enum       []string
	Properties []*Field
}

// IsRef reports whether r points at a declaration.
func (r *Ref) IsRef() bool { return r.Target.Valid() }

// IsInlineEnum reports whether r is an anonymous enum.
func (r *Ref) IsInlineEnum() bool { return !r.IsRef() && r.Kind == protocol.KindString && len(r.Enum) > 0 }

// IsInlineObject reports whether r is an anonymous object.
func (r *Ref) IsInlineObject() bool {
	return !r.IsRef() && r.Kind == protocol.KindObject && len(r.Properties) > 0
}

// Field is a property, parameter or return field with its resolved type.
type Field struct {
	*protocol.Property
	Type *Ref
}

// Type is a resolved type declaration.
type Type struct {
	Handle     Handle
	Def        *protocol.TypeDef
	Properties []*Field
	Items      *Ref
}

// Command is a command with resolved parameters and return fields.
type Command struct {
	Def     *protocol.Command
	Params  []*Field
	Returns []*Field
}

// Event is an event with resolved payload parameters.
type Event struct {
	Def    *protocol.Event
	Params []*Field
}

// Domain is a domain whose references have all been resolved.
type Domain struct {
	Def      *protocol.Domain
	Types    []*Type
	Commands []*Command
	Events   []*Event
}

// Model is the resolved form of a document.
type Model struct {
	Doc     *protocol.Document
	Table   *Table
	Domains []*Domain
}

// Domain returns the resolved domain with the given name, or nil.
func (m *Model) Domain(name string) *Domain {
	for _, d := range m.Domains {
		if d.Def.Name == name {
			return d
		}
	}
	return nil
}

// Resolve builds the declaration table and resolves every reference in doc.
// The first error in document order aborts resolution; no partial model is
// returned.
func Resolve(doc *protocol.Document) (*Model, error) {
	table := newTable()
	seen := make(map[string]bool, len(doc.Domains))
	for _, dom := range doc.Domains {
		if seen[dom.Name] {
			return nil, &cdpgenerrors.NameCollisionError{Name: dom.Name, Reason: "duplicate domain"}
		}
		seen[dom.Name] = true
		for _, def := range dom.Types {
			if !table.add(dom, def) {
				return nil, &cdpgenerrors.NameCollisionError{Domain: dom.Name, Name: def.ID, Reason: "duplicate type id"}
			}
		}
	}

	model := &Model{Doc: doc, Table: table}
	for _, dom := range doc.Domains {
		r := &resolver{table: table, dom: dom}
		resolved, err := r.domain()
		if err != nil {
			return nil, err
		}
		model.Domains = append(model.Domains, resolved)
	}
	return model, nil
}

// resolver resolves references on behalf of a single domain.
type resolver struct {
	table *Table
	dom   *protocol.Domain
}

func (r *resolver) domain() (*Domain, error) {
	out := &Domain{Def: r.dom}
	for _, def := range r.dom.Types {
		h, _ := r.table.Lookup(Key{Domain: r.dom.Name, ID: def.ID})
		typ := &Type{Handle: h, Def: def}
		from := r.dom.Name + "." + def.ID
		var err error
		if typ.Properties, err = r.fields(def.Properties, from); err != nil {
			return nil, err
		}
		if def.Items != nil {
			if typ.Items, err = r.ref(*def.Items, from+"[]"); err != nil {
				return nil, err
			}
		}
		out.Types = append(out.Types, typ)
	}

	for _, def := range r.dom.Commands {
		cmd := &Command{Def: def}
		from := r.dom.Name + "." + def.Name
		var err error
		if cmd.Params, err = r.fields(def.Parameters, from); err != nil {
			return nil, err
		}
		if cmd.Returns, err = r.fields(def.Returns, from+".returns"); err != nil {
			return nil, err
		}
		out.Commands = append(out.Commands, cmd)
	}

	for _, def := range r.dom.Events {
		ev := &Event{Def: def}
		var err error
		if ev.Params, err = r.fields(def.Parameters, r.dom.Name+"."+def.Name); err != nil {
			return nil, err
		}
		out.Events = append(out.Events, ev)
	}
	return out, nil
}

func (r *resolver) fields(props []*protocol.Property, from string) ([]*Field, error) {
	if len(props) == 0 {
		return nil, nil
	}
	out := make([]*Field, 0, len(props))
	for _, p := range props {
		ref, err := r.ref(p.Type, from+"."+p.Name)
		if err != nil {
			return nil, err
		}
		out = append(out, &Field{Property: p, Type: ref})
	}
	return out, nil
}

// ref resolves a single reference. Unqualified ids resolve in the owning
// domain only. Qualified ids require the target domain to be a declared
// dependency, unless the qualifier names the owning domain itself.
func (r *resolver) ref(tr protocol.TypeRef, from string) (*Ref, error) {
	if tr.IsRef() {
		target, id := tr.SplitRef()
		if target == "" || target == r.dom.Name {
			target = r.dom.Name
		} else if !r.dom.DependsOn(target) {
			return nil, &cdpgenerrors.UndeclaredDependencyError{FromDomain: r.dom.Name, ToDomain: target, From: from}
		}
		h, ok := r.table.Lookup(Key{Domain: target, ID: id})
		if !ok {
			return nil, &cdpgenerrors.UnresolvedReferenceError{Domain: target, ID: id, From: from}
		}
		return &Ref{Target: h}, nil
	}

	out := &Ref{Kind: tr.Kind, Enum: tr.Enum}
	if tr.Items != nil {
		items, err := r.ref(*tr.Items, from+"[]")
		if err != nil {
			return nil, err
		}
		out.Items = items
	}
	if len(tr.Properties) > 0 {
		props, err := r.fields(tr.Properties, from)
		if err != nil {
			return nil, err
		}
		out.Properties = props
	}
	return out, nil
}
