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

import (
	"fmt"
	"os"

	cdpgenerrors "github.com/tombee/cdpgen/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Parse decodes a protocol document. JSON is the canonical form; YAML is
// accepted because every JSON document is also a YAML document.
//
// Only the structural shape is checked: required keys, lists where lists
// are expected, strings and booleans where those are expected. Violations
// return *errors.MalformedSchemaError naming the path inside the document.
func Parse(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &cdpgenerrors.MalformedSchemaError{Reason: "document is not valid JSON", Cause: err}
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, &cdpgenerrors.MalformedSchemaError{Reason: "document is empty"}
	}
	return parseDocument(root.Content[0])
}

// ReadFile reads and parses a single protocol document.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read protocol document: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, cdpgenerrors.InFile(err, path)
	}
	return doc, nil
}

// ReadFiles reads several documents and concatenates their domains in
// argument order. The first declared version wins. Chrome ships its
// protocol split in two files (browser and js), which is the main use.
func ReadFiles(paths ...string) (*Document, error) {
	merged := &Document{}
	for _, path := range paths {
		doc, err := ReadFile(path)
		if err != nil {
			return nil, err
		}
		if merged.Version.String() == "" {
			merged.Version = doc.Version
		}
		merged.Domains = append(merged.Domains, doc.Domains...)
	}
	return merged, nil
}

// node is a yaml node paired with its path inside the document.
type node struct {
	n    *yaml.Node
	path string
}

func malformed(n *yaml.Node, path, format string, args ...any) error {
	line := 0
	if n != nil {
		line = n.Line
	}
	return &cdpgenerrors.MalformedSchemaError{Path: path, Line: line, Reason: fmt.Sprintf(format, args...)}
}

func asObject(n *yaml.Node, path string) (node, error) {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	if n.Kind != yaml.MappingNode {
		return node{}, malformed(n, path, "expected an object")
	}
	return node{n: n, path: path}, nil
}

func (o node) child(key string) string {
	if o.path == "" {
		return key
	}
	return o.path + "." + key
}

// get returns the value for key, or nil when absent or null.
func (o node) get(key string) *yaml.Node {
	for i := 0; i+1 < len(o.n.Content); i += 2 {
		if o.n.Content[i].Value != key {
			continue
		}
		v := o.n.Content[i+1]
		if v.Kind == yaml.AliasNode && v.Alias != nil {
			v = v.Alias
		}
		if v.Kind == yaml.ScalarNode && v.Tag == "!!null" {
			return nil
		}
		return v
	}
	return nil
}

func (o node) str(key string, required bool) (string, error) {
	v := o.get(key)
	if v == nil {
		if required {
			return "", malformed(o.n, o.path, "missing required key %q", key)
		}
		return "", nil
	}
	if v.Kind != yaml.ScalarNode || v.Tag != "!!str" {
		return "", malformed(v, o.child(key), "expected a string")
	}
	return v.Value, nil
}

// scalar accepts any scalar, for values like version numbers that appear
// both quoted and unquoted in the wild.
func (o node) scalar(key string) (string, error) {
	v := o.get(key)
	if v == nil {
		return "", nil
	}
	if v.Kind != yaml.ScalarNode {
		return "", malformed(v, o.child(key), "expected a scalar value")
	}
	return v.Value, nil
}

func (o node) boolean(key string) (bool, error) {
	v := o.get(key)
	if v == nil {
		return false, nil
	}
	var b bool
	if v.Kind != yaml.ScalarNode || v.Tag != "!!bool" || v.Decode(&b) != nil {
		return false, malformed(v, o.child(key), "expected a boolean")
	}
	return b, nil
}

func (o node) list(key string) ([]*yaml.Node, error) {
	v := o.get(key)
	if v == nil {
		return nil, nil
	}
	if v.Kind != yaml.SequenceNode {
		return nil, malformed(v, o.child(key), "expected a list")
	}
	return v.Content, nil
}

func (o node) strings(key string) ([]string, error) {
	items, err := o.list(key)
	if err != nil || items == nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
			return nil, malformed(item, fmt.Sprintf("%s[%d]", o.child(key), i), "expected a string")
		}
		out = append(out, item.Value)
	}
	return out, nil
}

// objects visits every element of the list under key as an object.
func (o node) objects(key string, visit func(node) error) error {
	items, err := o.list(key)
	if err != nil {
		return err
	}
	for i, item := range items {
		elem, err := asObject(item, fmt.Sprintf("%s[%d]", o.child(key), i))
		if err != nil {
			return err
		}
		if err := visit(elem); err != nil {
			return err
		}
	}
	return nil
}

// flags reads the common description/experimental/deprecated triple.
func (o node) flags() (desc string, experimental, deprecated bool, err error) {
	if desc, err = o.str("description", false); err != nil {
		return
	}
	if experimental, err = o.boolean("experimental"); err != nil {
		return
	}
	deprecated, err = o.boolean("deprecated")
	return
}

func parseDocument(n *yaml.Node) (*Document, error) {
	root, err := asObject(n, "")
	if err != nil {
		return nil, err
	}
	doc := &Document{}

	if v := root.get("version"); v != nil {
		ver, err := asObject(v, "version")
		if err != nil {
			return nil, err
		}
		if doc.Version.Major, err = ver.scalar("major"); err != nil {
			return nil, err
		}
		if doc.Version.Minor, err = ver.scalar("minor"); err != nil {
			return nil, err
		}
	}

	if root.get("domains") == nil {
		return nil, malformed(n, "", "missing required key %q", "domains")
	}
	err = root.objects("domains", func(o node) error {
		dom, err := parseDomain(o)
		if err != nil {
			return err
		}
		doc.Domains = append(doc.Domains, dom)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func parseDomain(o node) (*Domain, error) {
	dom := &Domain{}
	var err error
	if dom.Name, err = o.str("domain", true); err != nil {
		return nil, err
	}
	if dom.Description, dom.Experimental, dom.Deprecated, err = o.flags(); err != nil {
		return nil, err
	}
	if dom.Dependencies, err = o.strings("dependencies"); err != nil {
		return nil, err
	}

	err = o.objects("types", func(t node) error {
		td, err := parseTypeDef(t)
		if err == nil {
			dom.Types = append(dom.Types, td)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	err = o.objects("commands", func(c node) error {
		cmd, err := parseCommand(c)
		if err == nil {
			dom.Commands = append(dom.Commands, cmd)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	err = o.objects("events", func(e node) error {
		ev, err := parseEvent(e)
		if err == nil {
			dom.Events = append(dom.Events, ev)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return dom, nil
}

func parseTypeDef(o node) (*TypeDef, error) {
	td := &TypeDef{}
	var err error
	if td.ID, err = o.str("id", true); err != nil {
		return nil, err
	}
	if td.Description, td.Experimental, td.Deprecated, err = o.flags(); err != nil {
		return nil, err
	}
	kind, err := o.str("type", true)
	if err != nil {
		return nil, err
	}
	td.Kind = Kind(kind)
	if !td.Kind.Valid() {
		return nil, malformed(o.get("type"), o.child("type"), "unknown type %q", kind)
	}

	shape, err := parseShape(o, td.Kind)
	if err != nil {
		return nil, err
	}
	td.Enum, td.Properties, td.Items = shape.Enum, shape.Properties, shape.Items
	return td, nil
}

// parseShape reads the kind-specific keys shared by type declarations and
// inline type references.
func parseShape(o node, kind Kind) (TypeRef, error) {
	ref := TypeRef{Kind: kind}
	var err error
	switch kind {
	case KindString:
		ref.Enum, err = o.strings("enum")
	case KindObject:
		ref.Properties, err = parseProperties(o, "properties")
	case KindArray:
		v := o.get("items")
		if v == nil {
			return ref, malformed(o.n, o.path, "array type requires %q", "items")
		}
		items, err := asObject(v, o.child("items"))
		if err != nil {
			return ref, err
		}
		elem, err := parseTypeRef(items)
		if err != nil {
			return ref, err
		}
		ref.Items = &elem
	}
	return ref, err
}

func parseTypeRef(o node) (TypeRef, error) {
	ref, err := o.str("$ref", false)
	if err != nil {
		return TypeRef{}, err
	}
	if ref != "" {
		return TypeRef{Ref: ref}, nil
	}
	kind, err := o.str("type", false)
	if err != nil {
		return TypeRef{}, err
	}
	if kind == "" {
		return TypeRef{}, malformed(o.n, o.path, "expected %q or %q", "type", "$ref")
	}
	if !Kind(kind).Valid() {
		return TypeRef{}, malformed(o.get("type"), o.child("type"), "unknown type %q", kind)
	}
	return parseShape(o, Kind(kind))
}

func parseProperties(o node, key string) ([]*Property, error) {
	var props []*Property
	err := o.objects(key, func(p node) error {
		prop, err := parseProperty(p)
		if err == nil {
			props = append(props, prop)
		}
		return err
	})
	return props, err
}

func parseProperty(o node) (*Property, error) {
	prop := &Property{}
	var err error
	if prop.Name, err = o.str("name", true); err != nil {
		return nil, err
	}
	if prop.Description, prop.Experimental, prop.Deprecated, err = o.flags(); err != nil {
		return nil, err
	}
	if prop.Optional, err = o.boolean("optional"); err != nil {
		return nil, err
	}
	if prop.Type, err = parseTypeRef(o); err != nil {
		return nil, err
	}
	return prop, nil
}

func parseCommand(o node) (*Command, error) {
	cmd := &Command{}
	var err error
	if cmd.Name, err = o.str("name", true); err != nil {
		return nil, err
	}
	if cmd.Description, cmd.Experimental, cmd.Deprecated, err = o.flags(); err != nil {
		return nil, err
	}
	if cmd.Redirect, err = o.str("redirect", false); err != nil {
		return nil, err
	}
	if cmd.Parameters, err = parseProperties(o, "parameters"); err != nil {
		return nil, err
	}
	if cmd.Returns, err = parseProperties(o, "returns"); err != nil {
		return nil, err
	}
	return cmd, nil
}

func parseEvent(o node) (*Event, error) {
	ev := &Event{}
	var err error
	if ev.Name, err = o.str("name", true); err != nil {
		return nil, err
	}
	if ev.Description, ev.Experimental, ev.Deprecated, err = o.flags(); err != nil {
		return nil, err
	}
	if ev.Parameters, err = parseProperties(o, "parameters"); err != nil {
		return nil, err
	}
	return ev, nil
}
