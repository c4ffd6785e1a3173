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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cdpgenerrors "github.com/tombee/cdpgen/pkg/errors"
	"github.com/tombee/cdpgen/pkg/protocol"
	"github.com/tombee/cdpgen/pkg/protocol/resolve"
)

func mapFixture(t *testing.T) *Mapping {
	t.Helper()
	doc, err := protocol.ReadFile(filepath.Join("..", "testdata", "protocol.json"))
	require.NoError(t, err)
	return mapDoc(t, doc)
}

func mapSource(t *testing.T, src string) (*Mapping, error) {
	t.Helper()
	doc, err := protocol.Parse([]byte(src))
	require.NoError(t, err)
	model, err := resolve.Resolve(doc)
	require.NoError(t, err)
	return Map(model)
}

func mapDoc(t *testing.T, doc *protocol.Document) *Mapping {
	t.Helper()
	model, err := resolve.Resolve(doc)
	require.NoError(t, err)
	mapping, err := Map(model)
	require.NoError(t, err)
	return mapping
}

func typeNames(d *Domain) []string {
	names := make([]string, 0, len(d.Types))
	for _, t := range d.Types {
		names = append(names, t.Name)
	}
	return names
}

// summary flattens a mapping into comparable lines.
func summary(m *Mapping) []string {
	var out []string
	fields := func(prefix string, fs []*Field) {
		for _, f := range fs {
			out = append(out, fmt.Sprintf("%s.%s %s optional=%t", prefix, f.Name, f.Type, f.Optional))
		}
	}
	for _, d := range m.Domains {
		for _, t := range d.Types {
			out = append(out, fmt.Sprintf("type %s.%s %s %v", t.Domain, t.Name, t.Kind, t.Values))
			fields(t.Domain+"."+t.Name, t.Fields)
			if t.Underlying != nil {
				out = append(out, "  = "+t.Underlying.String())
			}
		}
		for _, c := range d.Commands {
			fields(d.Name+"."+c.Name, c.Params)
			fields(d.Name+"."+c.Name+".returns", c.Returns)
			if c.ParamsType != nil {
				out = append(out, "params "+c.ParamsType.Name)
			}
			if c.ResultType != nil {
				out = append(out, "result "+c.ResultType.Name)
			}
		}
		for _, e := range d.Events {
			fields(d.Name+"."+e.Name, e.Params)
			out = append(out, "payload "+e.Payload.Name)
		}
	}
	return out
}

func TestMap_DeclaredAndSynthesizedTypes(t *testing.T) {
	m := mapFixture(t)

	runtime := m.Domain("Runtime")
	require.NotNil(t, runtime)
	assert.Equal(t, []string{
		"RemoteObject", "RemoteObjectType", "RemoteObjectSubtype", "StackTrace", "EvaluateExceptionDetails",
	}, typeNames(runtime))

	remote := m.Lookup("Runtime", "RemoteObject")
	require.NotNil(t, remote)
	assert.Equal(t, Struct, remote.Kind)
	assert.False(t, remote.Synthesized)
	require.Len(t, remote.Fields, 4)
	assert.Equal(t, "Runtime.RemoteObjectType", remote.Fields[0].Type.String())
	assert.Equal(t, Opaque, remote.Fields[2].Type.Kind)
	// Primitive aliases are expanded in place.
	assert.Equal(t, "string", remote.Fields[3].Type.String())

	subtype := m.Lookup("Runtime", "RemoteObjectSubtype")
	require.NotNil(t, subtype)
	assert.Equal(t, Enum, subtype.Kind)
	assert.True(t, subtype.Synthesized)
	assert.Equal(t, []string{"array", "null", "node", "regexp"}, subtype.Values)

	dialog := m.Lookup("Page", "DialogType")
	require.NotNil(t, dialog)
	assert.Equal(t, Enum, dialog.Kind)
	assert.False(t, dialog.Synthesized)

	// The alias RemoteObjectId is never materialized.
	assert.Nil(t, m.Lookup("Runtime", "RemoteObjectId"))
}

func TestMap_InlineEnumNaming(t *testing.T) {
	m := mapFixture(t)

	emulation := m.Domain("Emulation")
	require.NotNil(t, emulation)
	policy := emulation.Commands[0]
	require.Equal(t, "setVirtualTimePolicy", policy.Name)
	assert.Equal(t, "Emulation.SetVirtualTimePolicyPolicy", policy.Params[0].Type.String())

	nt := m.Resolve(policy.Params[0].Type)
	require.NotNil(t, nt)
	assert.Equal(t, Enum, nt.Kind)
	assert.Equal(t, []string{"advance", "pause", "pauseIfNetworkFetchesPending"}, nt.Values)
	assert.Equal(t, "Emulation.SetVirtualTimePolicy.policy", nt.Source)

	assert.Equal(t, []string{"ScreenOrientation", "ScreenOrientationType", "SetVirtualTimePolicyPolicy"}, typeNames(emulation))
}

func TestMap_Collections(t *testing.T) {
	m := mapFixture(t)

	dom := m.Domain("DOM")
	node := m.Lookup("DOM", "Node")
	require.NotNil(t, node)
	assert.Equal(t, "[]DOM.Node", node.Fields[2].Type.String())
	assert.Equal(t, "[]string", node.Fields[3].Type.String())

	query := dom.Commands[3]
	require.Equal(t, "querySelectorAll", query.Name)
	assert.Equal(t, "[]integer", query.Returns[0].Type.String())

	// Array aliases are expanded without flattening.
	items := m.Domain("DOMStorage").Commands[2]
	require.Equal(t, "getDOMStorageItems", items.Name)
	assert.Equal(t, "[][]string", items.Returns[0].Type.String())
}

func TestMap_Aggregates(t *testing.T) {
	m := mapFixture(t)

	runtime := m.Domain("Runtime")
	enable := runtime.Commands[0]
	assert.Nil(t, enable.ParamsType)
	assert.Nil(t, enable.ResultType)

	evaluate := runtime.Commands[1]
	require.NotNil(t, evaluate.ParamsType)
	require.NotNil(t, evaluate.ResultType)
	assert.Equal(t, "EvaluateParams", evaluate.ParamsType.Name)
	assert.Equal(t, "EvaluateResult", evaluate.ResultType.Name)
	assert.True(t, evaluate.ResultType.Aggregate)
	assert.Equal(t, "Runtime.EvaluateExceptionDetails", evaluate.Returns[1].Type.String())

	// A single return field is still wrapped in a result aggregate.
	canEmulate := m.Domain("Emulation").Commands[3]
	require.Equal(t, "canEmulate", canEmulate.Name)
	require.NotNil(t, canEmulate.ResultType)
	require.Len(t, canEmulate.ResultType.Fields, 1)
	assert.Equal(t, "boolean", canEmulate.ResultType.Fields[0].Type.String())

	// Events always get a payload, even an empty one.
	cleared := runtime.Events[0]
	require.NotNil(t, cleared.Payload)
	assert.Equal(t, "ExecutionContextsClearedEvent", cleared.Payload.Name)
	assert.Empty(t, cleared.Payload.Fields)
	assert.Equal(t, cleared.Payload, m.Lookup("Runtime", "ExecutionContextsClearedEvent"))
}

func TestMap_Deterministic(t *testing.T) {
	first := summary(mapFixture(t))
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, summary(mapFixture(t)))
	}
}

func TestMap_AnnotationsDoNotAffectShape(t *testing.T) {
	doc, err := protocol.ReadFile(filepath.Join("..", "testdata", "protocol.json"))
	require.NoError(t, err)
	withTags := summary(mapDoc(t, doc))

	for _, d := range doc.Domains {
		d.Experimental, d.Deprecated = false, false
		for _, c := range d.Commands {
			c.Experimental, c.Deprecated = false, false
			for _, p := range c.Parameters {
				p.Experimental, p.Deprecated = false, false
			}
		}
	}
	assert.Equal(t, withTags, summary(mapDoc(t, doc)))
}

func TestMap_CollisionSuffix(t *testing.T) {
	m, err := mapSource(t, `{"domains": [{"domain": "A",
		"types": [{"id": "RunMode", "type": "string"}, {"id": "GetParams", "type": "object"}],
		"commands": [
			{"name": "run", "parameters": [{"name": "mode", "type": "string", "enum": ["x", "y"]}]},
			{"name": "set", "parameters": [{"name": "modeValue", "type": "string", "enum": ["a"]}]},
			{"name": "setMode", "parameters": [{"name": "value", "type": "string", "enum": ["b"]}]},
			{"name": "get", "parameters": [{"name": "id", "type": "integer"}]}
		]
	}]}`)
	require.NoError(t, err)

	a := m.Domain("A")
	assert.Equal(t, "A.RunMode2", a.Commands[0].Params[0].Type.String())
	assert.Equal(t, "A.SetModeValue", a.Commands[1].Params[0].Type.String())
	assert.Equal(t, "A.SetModeValue2", a.Commands[2].Params[0].Type.String())
	assert.Equal(t, "GetParams2", a.Commands[3].ParamsType.Name)
	assert.Equal(t, OpenMap, m.Lookup("A", "GetParams").Kind)
}

func TestMap_NestedInlineObjects(t *testing.T) {
	m, err := mapSource(t, `{"domains": [{"domain": "A", "events": [
		{"name": "changed", "parameters": [
			{"name": "box", "type": "object", "properties": [
				{"name": "origin", "type": "object", "properties": [{"name": "x", "type": "number"}]},
				{"name": "kinds", "type": "array", "items": {"type": "string", "enum": ["a", "b"]}}
			]}
		]}
	]}]}`)
	require.NoError(t, err)

	box := m.Lookup("A", "ChangedBox")
	require.NotNil(t, box)
	require.Len(t, box.Fields, 2)
	assert.Equal(t, "A.ChangedBoxOrigin", box.Fields[0].Type.String())
	assert.Equal(t, "[]A.ChangedBoxKinds", box.Fields[1].Type.String())
	assert.Equal(t, Enum, m.Lookup("A", "ChangedBoxKinds").Kind)
	assert.Equal(t, []string{"ChangedBox", "ChangedBoxOrigin", "ChangedBoxKinds"}, typeNames(m.Domain("A")))
}

func TestMap_SelfReferentialAlias(t *testing.T) {
	m, err := mapSource(t, `{"domains": [{"domain": "A",
		"types": [
			{"id": "Tree", "type": "array", "items": {"$ref": "Tree"}},
			{"id": "Odd", "type": "array", "items": {"$ref": "Even"}},
			{"id": "Even", "type": "array", "items": {"$ref": "Odd"}},
			{"id": "Flat", "type": "array", "items": {"type": "integer"}}
		],
		"commands": [{"name": "plant", "parameters": [{"name": "tree", "$ref": "Tree"}, {"name": "flat", "$ref": "Flat"}]}]
	}]}`)
	require.NoError(t, err)

	tree := m.Lookup("A", "Tree")
	require.NotNil(t, tree)
	assert.Equal(t, Alias, tree.Kind)
	assert.Equal(t, "[]A.Tree", tree.Underlying.String())

	odd := m.Lookup("A", "Odd")
	require.NotNil(t, odd)
	assert.Equal(t, "[][]A.Odd", odd.Underlying.String())
	even := m.Lookup("A", "Even")
	require.NotNil(t, even)
	assert.Equal(t, "[][]A.Even", even.Underlying.String())

	assert.Nil(t, m.Lookup("A", "Flat"))

	plant := m.Domain("A").Commands[0]
	assert.Equal(t, "[]A.Tree", plant.Params[0].Type.String())
	assert.Equal(t, "[]integer", plant.Params[1].Type.String())
	assert.Equal(t, []string{"Tree", "Odd", "Even"}, typeNames(m.Domain("A")))
}

func TestMap_CrossDomainObjectCycle(t *testing.T) {
	m, err := mapSource(t, `{"domains": [
		{"domain": "A", "dependencies": ["B"], "types": [
			{"id": "X", "type": "object", "properties": [{"name": "y", "$ref": "B.Y", "optional": true}]}
		]},
		{"domain": "B", "dependencies": ["A"], "types": [
			{"id": "Y", "type": "object", "properties": [{"name": "x", "$ref": "A.X", "optional": true}]}
		]}
	]}`)
	require.NoError(t, err)

	assert.Equal(t, "B.Y", m.Lookup("A", "X").Fields[0].Type.String())
	assert.Equal(t, "A.X", m.Lookup("B", "Y").Fields[0].Type.String())
}

func TestNamespace_Exhaustion(t *testing.T) {
	ns := NewNamespace("A")
	ns.limit = 3
	require.True(t, ns.Reserve("X"))

	name, err := ns.Synthesize("X")
	require.NoError(t, err)
	assert.Equal(t, "X2", name)
	name, err = ns.Synthesize("X")
	require.NoError(t, err)
	assert.Equal(t, "X3", name)

	_, err = ns.Synthesize("X")
	var collision *cdpgenerrors.NameCollisionError
	require.ErrorAs(t, err, &collision)
	assert.Equal(t, "A", collision.Domain)
	assert.Equal(t, "X", collision.Name)
}

func TestNamespace_ComparesGoNames(t *testing.T) {
	ns := NewNamespace("Page")
	require.True(t, ns.Reserve("FrameID"))
	assert.True(t, ns.Taken("FrameId"))
	assert.False(t, ns.Reserve("frameId"))

	name, err := ns.Synthesize("FrameId")
	require.NoError(t, err)
	assert.Equal(t, "FrameId2", name)
}

func TestMap_SynthesizedAvoidsInitialismClash(t *testing.T) {
	m, err := mapSource(t, `{"domains": [{"domain": "A",
		"types": [{"id": "FooID", "type": "string"}],
		"commands": [{"name": "foo", "parameters": [{"name": "id", "type": "string", "enum": ["x"]}]}]
	}]}`)
	require.NoError(t, err)

	assert.Equal(t, "A.FooId2", m.Domain("A").Commands[0].Params[0].Type.String())
}

func TestMap_OpenObjectDescriptor(t *testing.T) {
	m, err := mapSource(t, `{"domains": [{"domain": "Network", "commands": [
		{"name": "setExtraHeaders", "parameters": [{"name": "headers", "type": "object"}]}
	]}]}`)
	require.NoError(t, err)

	d := m.Domain("Network").Commands[0].Params[0].Type
	assert.Equal(t, OpenObject, d.Kind)
	assert.Equal(t, "map", d.String())
	assert.Equal(t, "map", OpenObject.String())
}

func TestGoName(t *testing.T) {
	tests := map[string]string{
		"frameId":     "FrameID",
		"url":         "URL",
		"URL":         "URL",
		"DOMStorage":  "DOMStorage",
		"backendIds":  "BackendIDs",
		"text-input":  "TextInput",
		"requestUrls": "RequestURLs",
	}
	for in, want := range tests {
		assert.Equal(t, want, GoName(in), in)
	}
}

func TestUpperCamel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"setVirtualTimePolicy", "SetVirtualTimePolicy"},
		{"policy", "Policy"},
		{"RGBA", "RGBA"},
		{"text-input", "TextInput"},
		{"pauseIfNetworkFetchesPending", "PauseIfNetworkFetchesPending"},
		{"3", "V3"},
		{"", "V"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, UpperCamel(tt.in))
		})
	}
	assert.Equal(t, "nodeId", LowerCamel("nodeId"))
	assert.Equal(t, "textInput", LowerCamel("text-input"))
}
