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

package emit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tombee/cdpgen/pkg/protocol"
	"github.com/tombee/cdpgen/pkg/protocol/overload"
	"github.com/tombee/cdpgen/pkg/protocol/typemap"
)

// wrapWidth is the width descriptions are wrapped to in doc comments.
const wrapWidth = 76

type domainView struct {
	Header        string
	Package       string
	Imports       []string
	Domain        string
	Doc           string
	Interface     string
	Impl          string
	Constructor   string
	Types         []typeView
	Methods       []methodView
	Subscriptions []subscriptionView
}

type typeView struct {
	Doc        string
	Name       string
	Kind       string
	Underlying string
	Consts     []constView
	Fields     []fieldView
}

type constView struct {
	Name  string
	Value string
}

type fieldView struct {
	Doc  string
	Name string
	Type string
	Tag  string
}

type methodView struct {
	Doc       string
	Name      string
	Signature string
	Returns   string
	Wire      string
	Params    string
	Result    string
	Assign    []assignView
}

type assignView struct {
	Field string
	Value string
}

type subscriptionView struct {
	Doc     string
	Name    string
	Wire    string
	Payload string
}

type supportView struct {
	Header  string
	Package string
	Domains []clientField
}

type clientField struct {
	Field       string
	Interface   string
	Constructor string
}

// typeEntry is a type to declare with the first sentence of its doc.
type typeEntry struct {
	*typemap.NamedType
	summary string
}

// domainTypes returns the types a domain file declares: data types sorted
// so that every type follows the types it refers to, then the aggregates
// in command and event order.
func domainTypes(d *overload.DomainPlan) []typeEntry {
	var out []typeEntry
	for _, nt := range sortTypes(d.Name(), d.Domain.Types) {
		summary := fmt.Sprintf("represents the %s type.", nt.Source)
		if nt.Synthesized {
			summary = fmt.Sprintf("is the inline type of %s.", nt.Source)
		}
		out = append(out, typeEntry{nt, summary})
	}
	for _, c := range d.Domain.Commands {
		wire := d.Name() + "." + c.Name
		if c.ParamsType != nil {
			out = append(out, typeEntry{c.ParamsType, fmt.Sprintf("holds the parameters of %s.", wire)})
		}
		if c.ResultType != nil {
			out = append(out, typeEntry{c.ResultType, fmt.Sprintf("holds the result of %s.", wire)})
		}
	}
	for _, e := range d.Domain.Events {
		wire := d.Name() + "." + e.Name
		out = append(out, typeEntry{e.Payload, fmt.Sprintf("holds the payload of the %s event.", wire)})
	}
	return out
}

// sortTypes orders types depth first so that a type comes after the types
// of the same domain it refers to. Cycles are broken at the first type
// reached twice; ties keep document order.
func sortTypes(domain string, types []*typemap.NamedType) []*typemap.NamedType {
	byName := make(map[string]*typemap.NamedType, len(types))
	for _, t := range types {
		byName[t.Name] = t
	}
	seen := make(map[string]bool, len(types))
	out := make([]*typemap.NamedType, 0, len(types))

	var visit func(t *typemap.NamedType)
	visit = func(t *typemap.NamedType) {
		if seen[t.Name] {
			return
		}
		seen[t.Name] = true
		for _, ref := range references(t) {
			if ref.Domain != domain {
				continue
			}
			if dep, ok := byName[ref.Name]; ok {
				visit(dep)
			}
		}
		out = append(out, t)
	}
	for _, t := range types {
		visit(t)
	}
	return out
}

// references returns the Named descriptors t refers to, in field order.
func references(t *typemap.NamedType) []*typemap.Descriptor {
	var out []*typemap.Descriptor
	var walk func(d *typemap.Descriptor)
	walk = func(d *typemap.Descriptor) {
		switch d.Kind {
		case typemap.Named:
			out = append(out, d)
		case typemap.Collection:
			walk(d.Elem)
		}
	}
	for _, f := range t.Fields {
		walk(f.Type)
	}
	if t.Underlying != nil {
		walk(t.Underlying)
	}
	return out
}

func enumConsts(typeID string, values []string) []constView {
	used := make(map[string]bool, len(values))
	out := make([]constView, 0, len(values))
	for _, v := range values {
		name := typeID + exported(v)
		for i := 2; used[name]; i++ {
			name = typeID + exported(v) + strconv.Itoa(i)
		}
		used[name] = true
		out = append(out, constView{Name: name, Value: v})
	}
	return out
}

// goMethodName returns the Go name of a planned method.
func goMethodName(m *overload.Method) string {
	if m.Variant == overload.Extended {
		return methodName(m.Command, m.Optional()[0])
	}
	return methodName(m.Command, "")
}

// MethodName returns the Go name of a planned method.
func MethodName(m *overload.Method) string { return goMethodName(m) }

// SubscriptionName returns the Go name of an event's subscription method.
func SubscriptionName(s *overload.Subscription) string { return subscriptionName(s.Event) }

// FileName returns the name of the file a domain is emitted to.
func FileName(domain string) string { return fileName(domain) }

// typer renders descriptors as Go types.
type typer struct {
	mapping *typemap.Mapping
}

func (t typer) goType(d *typemap.Descriptor) string {
	switch d.Kind {
	case typemap.Opaque:
		return "any"
	case typemap.OpenObject:
		return "map[string]any"
	case typemap.Collection:
		return "[]" + t.goType(d.Elem)
	case typemap.Named:
		name := typeName(d.Domain, d.Name)
		if nt := t.mapping.Resolve(d); nt != nil && nt.Kind == typemap.Struct {
			return "*" + name
		}
		return name
	}
	switch d.Primitive {
	case protocol.KindInteger:
		return "int"
	case protocol.KindNumber:
		return "float64"
	case protocol.KindBoolean:
		return "bool"
	case protocol.KindBinary:
		return "[]byte"
	default:
		return "string"
	}
}

// nillable reports whether the Go type of d already has a nil value.
func (t typer) nillable(d *typemap.Descriptor) bool {
	switch d.Kind {
	case typemap.Opaque, typemap.OpenObject, typemap.Collection:
		return true
	case typemap.Named:
		nt := t.mapping.Resolve(d)
		if nt == nil {
			return false
		}
		switch nt.Kind {
		case typemap.Struct, typemap.OpenMap:
			return true
		case typemap.Alias:
			return t.nillable(nt.Underlying)
		}
		return false
	}
	return d.Primitive == protocol.KindBinary
}

// fieldType is the Go type of a field: optional fields get a pointer unless
// their type can already be nil.
func (t typer) fieldType(d *typemap.Descriptor, optional bool) string {
	if optional && !t.nillable(d) {
		return "*" + t.goType(d)
	}
	return t.goType(d)
}

func newDomainView(mapping *typemap.Mapping, d *overload.DomainPlan) *domainView {
	tp := typer{mapping: mapping}
	dom := d.Name()
	v := &domainView{
		Domain:      dom,
		Interface:   interfaceName(dom),
		Impl:        implName(dom),
		Constructor: constructorName(dom),
	}
	v.Doc = comment("", paragraphs(
		fmt.Sprintf("%s is the %s domain.", v.Interface, dom),
		d.Domain.Description, d.Domain.Annotations)...)
	if len(d.Methods) > 0 {
		v.Imports = []string{"context"}
	}

	for _, entry := range domainTypes(d) {
		v.Types = append(v.Types, tp.typeView(entry))
	}
	for _, m := range d.Methods {
		v.Methods = append(v.Methods, tp.methodView(m))
	}
	for _, s := range d.Subscriptions {
		name := subscriptionName(s.Event)
		v.Subscriptions = append(v.Subscriptions, subscriptionView{
			Doc: comment("\t", paragraphs(
				fmt.Sprintf("%s subscribes to %s.%s.", name, s.Domain, s.Event),
				s.Description, s.Annotations)...),
			Name:    name,
			Wire:    s.Domain + "." + s.Event,
			Payload: typeName(s.Payload.Domain, s.Payload.Name),
		})
	}
	return v
}

func (t typer) typeView(entry typeEntry) typeView {
	nt := entry.NamedType
	name := typeName(nt.Domain, nt.Name)
	v := typeView{
		Doc:  comment("", paragraphs(name+" "+entry.summary, nt.Description, nt.Annotations)...),
		Name: name,
		Kind: nt.Kind.String(),
	}
	switch nt.Kind {
	case typemap.Enum:
		v.Underlying = "string"
		v.Consts = enumConsts(name, nt.Values)
	case typemap.Struct:
		for _, f := range nt.Fields {
			tag := f.Name
			if f.Optional {
				tag += ",omitempty"
			}
			v.Fields = append(v.Fields, fieldView{
				Doc:  comment("\t", paragraphs("", f.Description, f.Annotations)...),
				Name: exported(f.Name),
				Type: t.fieldType(f.Type, f.Optional),
				Tag:  tag,
			})
		}
	case typemap.OpenMap:
		v.Underlying = "map[string]any"
	case typemap.Alias:
		v.Underlying = t.goType(nt.Underlying)
	}
	return v
}

func (t typer) methodView(m *overload.Method) methodView {
	name := goMethodName(m)
	wire := m.Domain + "." + m.Command

	summary := fmt.Sprintf("%s calls %s.", name, wire)
	if m.Variant == overload.Extended {
		summary = fmt.Sprintf("%s calls %s with %s.", name, wire, m.Optional()[0])
	}
	lines := paragraphs(summary, m.Description, m.Annotations)
	if m.Variant == overload.Full && len(m.Optional()) > 0 {
		lines = append(lines, "", "Optional arguments may be nil.")
	}

	v := methodView{
		Doc:  comment("\t", lines...),
		Name: name,
		Wire: wire,
	}
	sig := []string{"ctx context.Context"}
	for _, a := range m.Args {
		arg := local(a.Name)
		typ := t.goType(a.Type)
		value := arg
		if a.Nullable {
			typ = t.fieldType(a.Type, true)
		} else if a.Optional && !t.nillable(a.Type) {
			value = "&" + arg
		}
		sig = append(sig, arg+" "+typ)
		v.Assign = append(v.Assign, assignView{Field: exported(a.Name), Value: value})
	}
	v.Signature = strings.Join(sig, ", ")

	if m.Params != nil {
		v.Params = typeName(m.Params.Domain, m.Params.Name)
	}
	v.Returns = "error"
	if m.Result != nil {
		v.Result = typeName(m.Result.Domain, m.Result.Name)
		v.Returns = "(*" + v.Result + ", error)"
	}
	return v
}

// paragraphs returns the lines of a doc comment: the summary, the wrapped
// description and the annotation notes, separated by blank lines.
func paragraphs(summary, description string, ann typemap.Annotations) []string {
	var blocks [][]string
	if summary != "" {
		blocks = append(blocks, wrap(summary))
	}
	if d := strings.TrimSpace(description); d != "" {
		var lines []string
		for _, p := range strings.Split(d, "\n") {
			lines = append(lines, wrap(p)...)
		}
		blocks = append(blocks, lines)
	}
	if ann.Redirect != "" {
		blocks = append(blocks, []string{fmt.Sprintf("Redirected to the %s domain.", ann.Redirect)})
	}
	if ann.Experimental {
		blocks = append(blocks, []string{"Experimental: may change or be removed without notice."})
	}
	if ann.Deprecated {
		blocks = append(blocks, []string{"Deprecated: no longer supported by the protocol."})
	}

	var out []string
	for i, b := range blocks {
		if i > 0 {
			out = append(out, "")
		}
		out = append(out, b...)
	}
	return out
}

// wrap splits s into lines of at most wrapWidth characters at spaces.
func wrap(s string) []string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return []string{""}
	}
	var lines []string
	line := fields[0]
	for _, f := range fields[1:] {
		if len(line)+1+len(f) > wrapWidth {
			lines = append(lines, line)
			line = f
			continue
		}
		line += " " + f
	}
	return append(lines, line)
}

// comment renders lines as a // comment block, each line prefixed by indent.
func comment(indent string, lines ...string) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(indent)
		if l == "" {
			b.WriteString("//\n")
			continue
		}
		b.WriteString("// ")
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}
