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

// Package resolve turns every type reference of a protocol document into a
// Handle that dereferences to its declaration in O(1).
//
// Handles identify declarations by position in a shared Table, so cyclic
// references between types (or between domains) never expand: resolving
// DOM.Node's "children" yields a handle to DOM.Node itself.
package resolve

import (
	"github.com/tombee/cdpgen/pkg/protocol"
)

// Key identifies a type declaration across the document.
type Key struct {
	Domain string
	ID     string
}

// String returns the qualified "Domain.ID" form.
func (k Key) String() string { return k.Domain + "." + k.ID }

// Table indexes every type declaration of a document by Key.
type Table struct {
	keys    []Key
	defs    []*protocol.TypeDef
	domains []*protocol.Domain
	index   map[Key]int
}

func newTable() *Table {
	return &Table{index: make(map[Key]int)}
}

func (t *Table) add(dom *protocol.Domain, def *protocol.TypeDef) bool {
	key := Key{Domain: dom.Name, ID: def.ID}
	if _, ok := t.index[key]; ok {
		return false
	}
	t.index[key] = len(t.defs)
	t.keys = append(t.keys, key)
	t.defs = append(t.defs, def)
	t.domains = append(t.domains, dom)
	return true
}

// Lookup returns the handle for key.
func (t *Table) Lookup(key Key) (Handle, bool) {
	i, ok := t.index[key]
	if !ok {
		return Handle{}, false
	}
	return Handle{table: t, idx: i}, true
}

// Len returns the number of declarations.
func (t *Table) Len() int { return len(t.defs) }

// At returns the handle at position i, in document order.
func (t *Table) At(i int) Handle { return Handle{table: t, idx: i} }

// Handle is a resolved reference to a type declaration. The zero Handle
// refers to nothing.
type Handle struct {
	table *Table
	idx   int
}

// Valid reports whether h refers to a declaration.
func (h Handle) Valid() bool { return h.table != nil }

// Index is the declaration's position in document order.
func (h Handle) Index() int { return h.idx }

// Key returns the qualified name of the declaration.
func (h Handle) Key() Key { return h.table.keys[h.idx] }

// Def returns the declaration.
func (h Handle) Def() *protocol.TypeDef { return h.table.defs[h.idx] }

// Domain returns the domain that declares the type.
func (h Handle) Domain() *protocol.Domain { return h.table.domains[h.idx] }
