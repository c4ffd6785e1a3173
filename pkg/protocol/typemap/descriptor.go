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

// Package typemap maps resolved protocol references to type descriptors and
// materializes the named types a binding needs: declared enums and objects,
// synthesized types for inline enums and anonymous objects, the parameter,
// result and event aggregates, and aliases that must stay named because
// they refer to themselves.
package typemap

import (
	"github.com/tombee/cdpgen/pkg/protocol"
)

// DescriptorKind classifies a Descriptor.
type DescriptorKind int

const (
	// Primitive is an integer, number, string, boolean or binary value.
	Primitive DescriptorKind = iota

	// Opaque is an untyped value with no structural guarantees.
	Opaque

	// OpenObject is an object with no declared properties.
	OpenObject

	// Named refers to a NamedType by domain and name.
	Named

	// Collection is an array of Elem.
	Collection
)

// String returns the kind name.
func (k DescriptorKind) String() string {
	switch k {
	case Primitive:
		return "primitive"
	case Opaque:
		return "opaque"
	case OpenObject:
		return "map"
	case Named:
		return "named"
	case Collection:
		return "collection"
	default:
		return "unknown"
	}
}

// Descriptor describes the type of a field, parameter or array element.
type Descriptor struct {
	Kind DescriptorKind

	// Primitive is set for Primitive descriptors.
	Primitive protocol.Kind

	// Domain and Name are set for Named descriptors.
	Domain string
	Name   string

	// Elem is set for Collection descriptors.
	Elem *Descriptor
}

// String renders the descriptor in a compact, language-neutral form:
// "integer", "any", "map", "DOM.Node", "[]DOM.Node".
func (d *Descriptor) String() string {
	switch d.Kind {
	case Primitive:
		return string(d.Primitive)
	case Opaque:
		return "any"
	case OpenObject:
		return "map"
	case Named:
		return d.Domain + "." + d.Name
	case Collection:
		return "[]" + d.Elem.String()
	default:
		return "?"
	}
}

func primitive(kind protocol.Kind) *Descriptor {
	switch kind {
	case protocol.KindAny:
		return &Descriptor{Kind: Opaque}
	case protocol.KindObject:
		return &Descriptor{Kind: OpenObject}
	default:
		return &Descriptor{Kind: Primitive, Primitive: kind}
	}
}

func named(domain, name string) *Descriptor {
	return &Descriptor{Kind: Named, Domain: domain, Name: name}
}

func collection(elem *Descriptor) *Descriptor {
	return &Descriptor{Kind: Collection, Elem: elem}
}

// NamedKind classifies a NamedType.
type NamedKind int

const (
	// Enum is a closed set of string values.
	Enum NamedKind = iota

	// Struct is an object with declared fields.
	Struct

	// OpenMap is an object declared without properties.
	OpenMap

	// Alias is a named alias of Underlying. Aliases are normally expanded
	// at their use sites; only self-referential ones are materialized.
	Alias
)

// String returns the kind name.
func (k NamedKind) String() string {
	switch k {
	case Enum:
		return "enum"
	case Struct:
		return "struct"
	case OpenMap:
		return "map"
	case Alias:
		return "alias"
	default:
		return "unknown"
	}
}

// Annotations are metadata tags carried for documentation only.
type Annotations struct {
	Experimental bool
	Deprecated   bool

	// Redirect names the domain a command is redirected to, if any.
	Redirect string
}

// NamedType is a type a binding declares.
type NamedType struct {
	Domain      string
	Name        string
	Kind        NamedKind
	Description string
	Annotations Annotations

	// Values holds the enum values, in declared order.
	Values []string

	// Fields holds the struct fields, in declared order.
	Fields []*Field

	// Underlying is set for aliases.
	Underlying *Descriptor

	// Synthesized is set for types the schema does not name.
	Synthesized bool

	// Aggregate is set for command parameter, command result and event
	// payload types.
	Aggregate bool

	// Source locates the schema element the type was built from, e.g.
	// "Emulation.SetVirtualTimePolicy.policy".
	Source string
}

// Field is a struct field, parameter or return field.
type Field struct {
	Name        string
	Description string
	Type        *Descriptor
	Optional    bool
	Annotations Annotations
}
