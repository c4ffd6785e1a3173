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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cdpgenerrors "github.com/tombee/cdpgen/pkg/errors"
	"github.com/tombee/cdpgen/pkg/protocol"
)

func parse(t *testing.T, src string) *protocol.Document {
	t.Helper()
	doc, err := protocol.Parse([]byte(src))
	require.NoError(t, err)
	return doc
}

func TestResolve_Fixture(t *testing.T) {
	doc, err := protocol.ReadFile(filepath.Join("..", "testdata", "protocol.json"))
	require.NoError(t, err)

	model, err := Resolve(doc)
	require.NoError(t, err)
	require.Len(t, model.Domains, len(doc.Domains))

	dom := model.Domain("DOM")
	require.NotNil(t, dom)
	assert.Nil(t, model.Domain("Network"))

	// describeNode.objectId crosses into Runtime.
	describe := dom.Commands[2]
	require.Equal(t, "describeNode", describe.Def.Name)
	objectID := describe.Params[2].Type
	require.True(t, objectID.IsRef())
	assert.Equal(t, Key{Domain: "Runtime", ID: "RemoteObjectId"}, objectID.Target.Key())
	assert.Equal(t, "Runtime", objectID.Target.Domain().Name)
	assert.Equal(t, protocol.KindString, objectID.Target.Def().Kind)

	// Returns are resolved too.
	resolveNode := dom.Commands[4]
	require.Equal(t, "resolveNode", resolveNode.Def.Name)
	assert.Equal(t, "Runtime.RemoteObject", resolveNode.Returns[0].Type.Target.Key().String())

	// Event payloads.
	setChildNodes := dom.Events[1]
	nodes := setChildNodes.Params[1].Type
	assert.Equal(t, protocol.KindArray, nodes.Kind)
	require.NotNil(t, nodes.Items)
	assert.Equal(t, "DOM.Node", nodes.Items.Target.Key().String())
}

func TestResolve_SelfReferenceIsAHandle(t *testing.T) {
	doc, err := protocol.ReadFile(filepath.Join("..", "testdata", "protocol.json"))
	require.NoError(t, err)
	model, err := Resolve(doc)
	require.NoError(t, err)

	node := model.Domain("DOM").Types[2]
	require.Equal(t, "Node", node.Def.ID)
	children := node.Properties[2].Type
	require.NotNil(t, children.Items)
	assert.Equal(t, node.Handle, children.Items.Target)
	assert.Same(t, node.Def, children.Items.Target.Def())

	trace := model.Domain("Runtime").Types[2]
	require.Equal(t, "StackTrace", trace.Def.ID)
	assert.Equal(t, trace.Handle, trace.Properties[1].Type.Target)
}

func TestResolve_InlineShapes(t *testing.T) {
	doc, err := protocol.ReadFile(filepath.Join("..", "testdata", "protocol.json"))
	require.NoError(t, err)
	model, err := Resolve(doc)
	require.NoError(t, err)

	capture := model.Domain("Page").Commands[1]
	require.Equal(t, "captureScreenshot", capture.Def.Name)

	format := capture.Params[0].Type
	assert.True(t, format.IsInlineEnum())
	assert.Equal(t, []string{"jpeg", "png"}, format.Enum)

	clip := capture.Params[2].Type
	assert.True(t, clip.IsInlineObject())
	require.Len(t, clip.Properties, 2)
	assert.Equal(t, "x", clip.Properties[0].Name)
	assert.Equal(t, protocol.KindNumber, clip.Properties[0].Type.Kind)

	quality := capture.Params[1].Type
	assert.False(t, quality.IsRef())
	assert.False(t, quality.IsInlineEnum())
	assert.Equal(t, protocol.KindInteger, quality.Kind)
}

func TestResolve_CrossDomainCycle(t *testing.T) {
	doc := parse(t, `{"domains": [
		{"domain": "A", "dependencies": ["B"], "types": [
			{"id": "X", "type": "object", "properties": [{"name": "y", "$ref": "B.Y", "optional": true}]}
		]},
		{"domain": "B", "dependencies": ["A"], "types": [
			{"id": "Y", "type": "object", "properties": [{"name": "x", "$ref": "A.X", "optional": true}]}
		]}
	]}`)

	model, err := Resolve(doc)
	require.NoError(t, err)

	x := model.Domain("A").Types[0]
	y := model.Domain("B").Types[0]
	assert.Equal(t, y.Handle, x.Properties[0].Type.Target)
	assert.Equal(t, x.Handle, y.Properties[0].Type.Target)
	assert.Equal(t, 2, model.Table.Len())
	assert.Equal(t, x.Handle, model.Table.At(0))
}

func TestResolve_SelfQualifiedReference(t *testing.T) {
	doc := parse(t, `{"domains": [
		{"domain": "A", "types": [
			{"id": "Id", "type": "string"},
			{"id": "X", "type": "object", "properties": [{"name": "id", "$ref": "A.Id"}]}
		]}
	]}`)

	model, err := Resolve(doc)
	require.NoError(t, err)
	assert.Equal(t, "A.Id", model.Domains[0].Types[1].Properties[0].Type.Target.Key().String())
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		check func(t *testing.T, err error)
	}{
		{
			name: "unknown local type",
			src: `{"domains": [{"domain": "A", "commands": [
				{"name": "run", "parameters": [{"name": "x", "$ref": "Missing"}]}
			]}]}`,
			check: func(t *testing.T, err error) {
				var target *cdpgenerrors.UnresolvedReferenceError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, "A", target.Domain)
				assert.Equal(t, "Missing", target.ID)
				assert.Equal(t, "A.run.x", target.From)
			},
		},
		{
			name: "unqualified reference does not search other domains",
			src: `{"domains": [
				{"domain": "A", "types": [{"id": "Id", "type": "string"}]},
				{"domain": "B", "dependencies": ["A"], "events": [
					{"name": "fired", "parameters": [{"name": "id", "$ref": "Id"}]}
				]}
			]}`,
			check: func(t *testing.T, err error) {
				var target *cdpgenerrors.UnresolvedReferenceError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, "B", target.Domain)
				assert.Equal(t, "B.fired.id", target.From)
			},
		},
		{
			name: "declared dependency without the type",
			src: `{"domains": [
				{"domain": "A"},
				{"domain": "B", "dependencies": ["A"], "types": [
					{"id": "List", "type": "array", "items": {"$ref": "A.Gone"}}
				]}
			]}`,
			check: func(t *testing.T, err error) {
				var target *cdpgenerrors.UnresolvedReferenceError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, "A", target.Domain)
				assert.Equal(t, "Gone", target.ID)
				assert.Equal(t, "B.List[]", target.From)
			},
		},
		{
			name: "undeclared dependency even though the type exists",
			src: `{"domains": [
				{"domain": "A", "types": [{"id": "Id", "type": "string"}]},
				{"domain": "B", "commands": [
					{"name": "get", "returns": [{"name": "id", "$ref": "A.Id"}]}
				]}
			]}`,
			check: func(t *testing.T, err error) {
				var target *cdpgenerrors.UndeclaredDependencyError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, "B", target.FromDomain)
				assert.Equal(t, "A", target.ToDomain)
				assert.Equal(t, "B.get.returns.id", target.From)
			},
		},
		{
			name: "reference inside an inline object",
			src: `{"domains": [{"domain": "A", "commands": [
				{"name": "run", "parameters": [{"name": "opts", "type": "object", "properties": [
					{"name": "mode", "$ref": "Mode"}
				]}]}
			]}]}`,
			check: func(t *testing.T, err error) {
				var target *cdpgenerrors.UnresolvedReferenceError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, "A.run.opts.mode", target.From)
			},
		},
		{
			name: "duplicate domain",
			src:  `{"domains": [{"domain": "A"}, {"domain": "A"}]}`,
			check: func(t *testing.T, err error) {
				var target *cdpgenerrors.NameCollisionError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, "A", target.Name)
			},
		},
		{
			name: "duplicate type id",
			src: `{"domains": [{"domain": "A", "types": [
				{"id": "T", "type": "string"},
				{"id": "T", "type": "integer"}
			]}]}`,
			check: func(t *testing.T, err error) {
				var target *cdpgenerrors.NameCollisionError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, "A", target.Domain)
				assert.Equal(t, "T", target.Name)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, err := Resolve(parse(t, tt.src))
			require.Error(t, err)
			assert.Nil(t, model)
			tt.check(t, err)
		})
	}
}

func TestResolve_FirstErrorWins(t *testing.T) {
	doc := parse(t, `{"domains": [
		{"domain": "A", "types": [{"id": "X", "type": "array", "items": {"$ref": "First"}}]},
		{"domain": "B", "types": [{"id": "Y", "type": "array", "items": {"$ref": "Second"}}]}
	]}`)

	_, err := Resolve(doc)
	var target *cdpgenerrors.UnresolvedReferenceError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, "First", target.ID)
}
