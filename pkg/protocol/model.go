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

package protocol

import "strings"

// Kind is the primitive tag of a type declaration or type reference.
type Kind string

const (
	KindString  Kind = "string"
	KindInteger Kind = "integer"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindAny     Kind = "any"
	KindBinary  Kind = "binary"
	KindObject  Kind = "object"
	KindArray   Kind = "array"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindString, KindInteger, KindNumber, KindBoolean, KindAny, KindBinary, KindObject, KindArray:
		return true
	}
	return false
}

// Scalar reports whether k maps to a primitive value without structure.
func (k Kind) Scalar() bool {
	switch k {
	case KindString, KindInteger, KindNumber, KindBoolean, KindBinary:
		return true
	}
	return false
}

// Document is the root of a protocol description.
type Document struct {
	Version Version   `json:"version"`
	Domains []*Domain `json:"domains"`
}

// Version is the protocol version marker.
type Version struct {
	Major string `json:"major"`
	Minor string `json:"minor"`
}

// String returns "major.minor", or "" when no version was declared.
func (v Version) String() string {
	if v.Major == "" && v.Minor == "" {
		return ""
	}
	return v.Major + "." + v.Minor
}

// Domain returns the domain with the given name, or nil.
func (d *Document) Domain(name string) *Domain {
	for _, dom := range d.Domains {
		if dom.Name == name {
			return dom
		}
	}
	return nil
}

// Domain is a named group of types, commands and events.
type Domain struct {
	Name         string     `json:"domain"`
	Description  string     `json:"description,omitempty"`
	Experimental bool       `json:"experimental,omitempty"`
	Deprecated   bool       `json:"deprecated,omitempty"`
	Dependencies []string   `json:"dependencies,omitempty"`
	Types        []*TypeDef `json:"types,omitempty"`
	Commands     []*Command `json:"commands,omitempty"`
	Events       []*Event   `json:"events,omitempty"`
}

// DependsOn reports whether name is listed in the domain's dependencies.
func (d *Domain) DependsOn(name string) bool {
	for _, dep := range d.Dependencies {
		if dep == name {
			return true
		}
	}
	return false
}

// TypeDef is a named type declaration. Exactly one shape applies:
// an enum (string kind with Enum values), an object (Properties, possibly
// none for an open map), an array (Items) or a primitive alias.
type TypeDef struct {
	ID           string      `json:"id"`
	Description  string      `json:"description,omitempty"`
	Kind         Kind        `json:"type"`
	Enum         []string    `json:"enum,omitempty"`
	Properties   []*Property `json:"properties,omitempty"`
	Items        *TypeRef    `json:"items,omitempty"`
	Experimental bool        `json:"experimental,omitempty"`
	Deprecated   bool        `json:"deprecated,omitempty"`
}

// IsEnum reports whether the declaration is a string enumeration.
func (t *TypeDef) IsEnum() bool { return t.Kind == KindString && len(t.Enum) > 0 }

// IsObject reports whether the declaration is an object shape.
func (t *TypeDef) IsObject() bool { return t.Kind == KindObject }

// Ref returns the declaration's own shape as a type reference. It is how
// aliases are expanded: a string alias becomes {"type":"string"}, an array
// alias becomes {"type":"array","items":...}.
func (t *TypeDef) Ref() TypeRef {
	return TypeRef{Kind: t.Kind, Items: t.Items, Enum: t.Enum, Properties: t.Properties}
}

// TypeRef is a type-reference-shaped value: a primitive kind, a $ref to a
// declared type (local "Id" or qualified "Domain.Id"), or an array of
// another reference. Enum and Properties are set when a field declares an
// anonymous enum or object shape inline.
type TypeRef struct {
	Kind       Kind        `json:"type,omitempty"`
	Ref        string      `json:"$ref,omitempty"`
	Items      *TypeRef    `json:"items,omitempty"`
	Enum       []string    `json:"enum,omitempty"`
	Properties []*Property `json:"properties,omitempty"`
}

// IsRef reports whether the reference points at a declared type.
func (r TypeRef) IsRef() bool { return r.Ref != "" }

// IsInlineEnum reports whether the reference carries an anonymous enum.
func (r TypeRef) IsInlineEnum() bool { return r.Ref == "" && r.Kind == KindString && len(r.Enum) > 0 }

// IsInlineObject reports whether the reference carries an anonymous object
// with declared properties.
func (r TypeRef) IsInlineObject() bool {
	return r.Ref == "" && r.Kind == KindObject && len(r.Properties) > 0
}

// SplitRef splits a reference into its domain qualifier and type id. The
// qualifier is empty for local references.
func (r TypeRef) SplitRef() (domain, id string) {
	if i := strings.LastIndexByte(r.Ref, '.'); i >= 0 {
		return r.Ref[:i], r.Ref[i+1:]
	}
	return "", r.Ref
}

// Property is a named, typed member. It is used for object properties,
// command and event parameters, and command return fields.
type Property struct {
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Type         TypeRef `json:"-"`
	Optional     bool    `json:"optional,omitempty"`
	Experimental bool    `json:"experimental,omitempty"`
	Deprecated   bool    `json:"deprecated,omitempty"`
}

// Parameter is a command or event parameter.
type Parameter = Property

// ReturnField is a member of a command result. Optional means the field may
// be absent from the result.
type ReturnField = Property

// Command is a request-shaped operation.
type Command struct {
	Name         string         `json:"name"`
	Description  string         `json:"description,omitempty"`
	Parameters   []*Parameter   `json:"parameters,omitempty"`
	Returns      []*ReturnField `json:"returns,omitempty"`
	Experimental bool           `json:"experimental,omitempty"`
	Deprecated   bool           `json:"deprecated,omitempty"`
	Redirect     string         `json:"redirect,omitempty"`
}

// Event is a notification with a payload.
type Event struct {
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	Parameters   []*Parameter `json:"parameters,omitempty"`
	Experimental bool         `json:"experimental,omitempty"`
	Deprecated   bool         `json:"deprecated,omitempty"`
}
