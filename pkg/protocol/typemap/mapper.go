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

package typemap

import (
	"fmt"

	"github.com/tombee/cdpgen/pkg/protocol"
	"github.com/tombee/cdpgen/pkg/protocol/resolve"
)

// Mapping is the result of Map: every domain with its named types and the
// descriptors of all command and event members.
type Mapping struct {
	Domains []*Domain

	named map[string]*NamedType
}

// Domain returns the mapped domain with the given name, or nil.
func (m *Mapping) Domain(name string) *Domain {
	for _, d := range m.Domains {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// Lookup returns the named type a Named descriptor points at, or nil.
func (m *Mapping) Lookup(domain, name string) *NamedType {
	return m.named[domain+"."+name]
}

// Resolve is Lookup for a descriptor. It returns nil unless d is Named.
func (m *Mapping) Resolve(d *Descriptor) *NamedType {
	if d == nil || d.Kind != Named {
		return nil
	}
	return m.Lookup(d.Domain, d.Name)
}

// Domain is a mapped domain.
type Domain struct {
	Name         string
	Description  string
	Dependencies []string
	Annotations  Annotations

	// Types holds every non-aggregate named type of the domain in the
	// order it was materialized: declarations and the shapes they inline,
	// then shapes inlined by commands and events, then forced aliases.
	// Aggregates hang off their command or event instead.
	Types []*NamedType

	Commands []*Command
	Events   []*Event
}

// Command is a mapped command.
type Command struct {
	Name        string
	Description string
	Annotations Annotations
	Params      []*Field
	Returns     []*Field

	// ParamsType aggregates Params. It is nil when there are none.
	ParamsType *NamedType

	// ResultType aggregates Returns. It is nil when there are none.
	ResultType *NamedType
}

// Event is a mapped event.
type Event struct {
	Name        string
	Description string
	Annotations Annotations
	Params      []*Field

	// Payload aggregates Params. It is always set.
	Payload *NamedType
}

// Map assigns a descriptor to every member of model and materializes the
// named types the descriptors point at. It is deterministic: the result
// depends only on the document order of model.
func Map(model *resolve.Model) (*Mapping, error) {
	m := &mapper{
		model:     model,
		out:       &Mapping{named: make(map[string]*NamedType)},
		types:     make(map[int]*resolve.Type, model.Table.Len()),
		open:      make(map[int]bool),
		forced:    make(map[int]bool),
		inline:    make(map[*resolve.Ref]*Descriptor),
		namespace: make(map[string]*Namespace, len(model.Domains)),
		domains:   make(map[string]*Domain, len(model.Domains)),
	}
	if err := m.run(); err != nil {
		return nil, err
	}
	return m.out, nil
}

type mapper struct {
	model *resolve.Model
	out   *Mapping

	// types indexes resolved declarations by handle index.
	types map[int]*resolve.Type

	// open is the working set of aliases currently being expanded.
	open map[int]bool

	// forced holds aliases that were re-entered while open and therefore
	// must be materialized as named aliases.
	forced map[int]bool

	// inline memoizes synthesized shapes so that an alias expanded at
	// several use sites names its inline shapes once.
	inline map[*resolve.Ref]*Descriptor

	namespace map[string]*Namespace
	domains   map[string]*Domain
}

func (m *mapper) run() error {
	for _, dom := range m.model.Domains {
		ns := NewNamespace(dom.Def.Name)
		for _, typ := range dom.Types {
			m.types[typ.Handle.Index()] = typ
			ns.Reserve(typ.Def.ID)
		}
		m.namespace[dom.Def.Name] = ns

		out := &Domain{
			Name:         dom.Def.Name,
			Description:  dom.Def.Description,
			Dependencies: dom.Def.Dependencies,
			Annotations:  Annotations{Experimental: dom.Def.Experimental, Deprecated: dom.Def.Deprecated},
		}
		m.domains[dom.Def.Name] = out
		m.out.Domains = append(m.out.Domains, out)
	}

	// Declarations are mapped before any command or event so that inline
	// shapes of declared types claim their names first.
	for _, dom := range m.model.Domains {
		for _, typ := range dom.Types {
			if err := m.declare(typ); err != nil {
				return err
			}
		}
	}
	for _, dom := range m.model.Domains {
		for _, cmd := range dom.Commands {
			if err := m.command(dom.Def.Name, cmd); err != nil {
				return err
			}
		}
		for _, ev := range dom.Events {
			if err := m.event(dom.Def.Name, ev); err != nil {
				return err
			}
		}
	}
	return m.materializeAliases()
}

func (m *mapper) register(t *NamedType) {
	m.out.named[t.Domain+"."+t.Name] = t
	dom := m.domains[t.Domain]
	if !t.Aggregate {
		dom.Types = append(dom.Types, t)
	}
}

func annotations(experimental, deprecated bool) Annotations {
	return Annotations{Experimental: experimental, Deprecated: deprecated}
}

// declare maps a declared type. Enums and objects become named types under
// their own id. Aliases are expanded once so that their inline shapes are
// named in document order and self-reference is detected.
func (m *mapper) declare(typ *resolve.Type) error {
	def := typ.Def
	domain := typ.Handle.Key().Domain
	nt := &NamedType{
		Domain:      domain,
		Name:        def.ID,
		Description: def.Description,
		Annotations: annotations(def.Experimental, def.Deprecated),
		Source:      domain + "." + def.ID,
	}

	switch {
	case def.IsEnum():
		nt.Kind = Enum
		nt.Values = def.Enum
		m.register(nt)
	case def.IsObject() && len(typ.Properties) > 0:
		nt.Kind = Struct
		m.register(nt)
		fields, err := m.fields(domain, def.ID, typ.Properties)
		if err != nil {
			return err
		}
		nt.Fields = fields
	case def.IsObject():
		nt.Kind = OpenMap
		m.register(nt)
	default:
		if _, err := m.target(typ.Handle); err != nil {
			return err
		}
	}
	return nil
}

// materializeAliases declares every forced alias. Expanding one alias may
// force another, so this repeats until no new alias is forced.
func (m *mapper) materializeAliases() error {
	done := make(map[int]bool)
	for {
		progress := false
		for i := 0; i < m.model.Table.Len(); i++ {
			if !m.forced[i] || done[i] {
				continue
			}
			done[i] = true
			progress = true

			h := m.model.Table.At(i)
			m.open[i] = true
			underlying, err := m.expand(h)
			delete(m.open, i)
			if err != nil {
				return err
			}
			def := h.Def()
			m.register(&NamedType{
				Domain:      h.Key().Domain,
				Name:        def.ID,
				Kind:        Alias,
				Description: def.Description,
				Annotations: annotations(def.Experimental, def.Deprecated),
				Underlying:  underlying,
				Source:      h.Key().String(),
			})
		}
		if !progress {
			return nil
		}
	}
}

func (m *mapper) command(domain string, cmd *resolve.Command) error {
	def := cmd.Def
	owner := UpperCamel(def.Name)
	out := &Command{
		Name:        def.Name,
		Description: def.Description,
		Annotations: Annotations{Experimental: def.Experimental, Deprecated: def.Deprecated, Redirect: def.Redirect},
	}
	source := domain + "." + def.Name

	var err error
	if out.Params, err = m.fields(domain, owner, cmd.Params); err != nil {
		return err
	}
	if len(out.Params) > 0 {
		if out.ParamsType, err = m.aggregate(domain, owner+"Params", source, out.Params); err != nil {
			return err
		}
	}
	if out.Returns, err = m.fields(domain, owner, cmd.Returns); err != nil {
		return err
	}
	if len(out.Returns) > 0 {
		if out.ResultType, err = m.aggregate(domain, owner+"Result", source+".returns", out.Returns); err != nil {
			return err
		}
	}

	m.domains[domain].Commands = append(m.domains[domain].Commands, out)
	return nil
}

func (m *mapper) event(domain string, ev *resolve.Event) error {
	def := ev.Def
	owner := UpperCamel(def.Name)
	out := &Event{
		Name:        def.Name,
		Description: def.Description,
		Annotations: annotations(def.Experimental, def.Deprecated),
	}

	var err error
	if out.Params, err = m.fields(domain, owner, ev.Params); err != nil {
		return err
	}
	if out.Payload, err = m.aggregate(domain, owner+"Event", domain+"."+def.Name, out.Params); err != nil {
		return err
	}

	m.domains[domain].Events = append(m.domains[domain].Events, out)
	return nil
}

func (m *mapper) aggregate(domain, base, source string, fields []*Field) (*NamedType, error) {
	name, err := m.namespace[domain].Synthesize(base)
	if err != nil {
		return nil, err
	}
	nt := &NamedType{
		Domain:      domain,
		Name:        name,
		Kind:        Struct,
		Fields:      fields,
		Synthesized: true,
		Aggregate:   true,
		Source:      source,
	}
	m.register(nt)
	return nt, nil
}

func (m *mapper) fields(domain, owner string, in []*resolve.Field) ([]*Field, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]*Field, 0, len(in))
	for _, f := range in {
		d, err := m.descriptor(domain, owner, f.Name, f.Type)
		if err != nil {
			return nil, err
		}
		out = append(out, &Field{
			Name:        f.Name,
			Description: f.Description,
			Type:        d,
			Optional:    f.Optional,
			Annotations: annotations(f.Experimental, f.Deprecated),
		})
	}
	return out, nil
}

// descriptor maps a resolved reference found on field of owner in domain.
// Inline shapes are named in domain after owner and field.
func (m *mapper) descriptor(domain, owner, field string, ref *resolve.Ref) (*Descriptor, error) {
	switch {
	case ref.IsRef():
		return m.target(ref.Target)
	case ref.IsInlineEnum(), ref.IsInlineObject():
		return m.synthesize(domain, owner, field, ref)
	case ref.Kind == protocol.KindArray:
		elem, err := m.descriptor(domain, owner, field, ref.Items)
		if err != nil {
			return nil, err
		}
		return collection(elem), nil
	default:
		return primitive(ref.Kind), nil
	}
}

// target maps a reference to a declaration. Enums and objects are named.
// Aliases are expanded in place unless already open, in which case the
// alias is forced to be materialized and referenced by name.
func (m *mapper) target(h resolve.Handle) (*Descriptor, error) {
	def := h.Def()
	key := h.Key()
	if def.IsEnum() || def.IsObject() {
		return named(key.Domain, key.ID), nil
	}

	i := h.Index()
	if m.open[i] {
		m.forced[i] = true
		return named(key.Domain, key.ID), nil
	}
	m.open[i] = true
	defer delete(m.open, i)
	return m.expand(h)
}

// expand returns the structural descriptor of an alias.
func (m *mapper) expand(h resolve.Handle) (*Descriptor, error) {
	typ, ok := m.types[h.Index()]
	if !ok {
		return nil, fmt.Errorf("typemap: no declaration for %s", h.Key())
	}
	if typ.Def.Kind == protocol.KindArray {
		elem, err := m.descriptor(h.Key().Domain, typ.Def.ID, "Item", typ.Items)
		if err != nil {
			return nil, err
		}
		return collection(elem), nil
	}
	return primitive(typ.Def.Kind), nil
}

func (m *mapper) synthesize(domain, owner, field string, ref *resolve.Ref) (*Descriptor, error) {
	if d, ok := m.inline[ref]; ok {
		return d, nil
	}

	name, err := m.namespace[domain].Synthesize(owner + UpperCamel(field))
	if err != nil {
		return nil, err
	}
	d := named(domain, name)
	m.inline[ref] = d

	nt := &NamedType{
		Domain:      domain,
		Name:        name,
		Synthesized: true,
		Source:      domain + "." + owner + "." + field,
	}
	if ref.IsInlineEnum() {
		nt.Kind = Enum
		nt.Values = ref.Enum
		m.register(nt)
		return d, nil
	}

	nt.Kind = Struct
	m.register(nt)
	if nt.Fields, err = m.fields(domain, name, ref.Properties); err != nil {
		return nil, err
	}
	return d, nil
}
