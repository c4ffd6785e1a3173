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
	"encoding/json"
	"io"
)

// Write serializes doc as indented JSON. Empty values are omitted so that a
// parsed document writes back in the same shape it was read.
func Write(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(doc)
}

// MarshalJSON flattens the type reference into the property object, which
// is how the protocol format writes it.
func (p *Property) MarshalJSON() ([]byte, error) {
	type flat struct {
		Name         string      `json:"name"`
		Description  string      `json:"description,omitempty"`
		Ref          string      `json:"$ref,omitempty"`
		Kind         Kind        `json:"type,omitempty"`
		Items        *TypeRef    `json:"items,omitempty"`
		Enum         []string    `json:"enum,omitempty"`
		Properties   []*Property `json:"properties,omitempty"`
		Optional     bool        `json:"optional,omitempty"`
		Experimental bool        `json:"experimental,omitempty"`
		Deprecated   bool        `json:"deprecated,omitempty"`
	}
	return json.Marshal(flat{
		Name:         p.Name,
		Description:  p.Description,
		Ref:          p.Type.Ref,
		Kind:         p.Type.Kind,
		Items:        p.Type.Items,
		Enum:         p.Type.Enum,
		Properties:   p.Type.Properties,
		Optional:     p.Optional,
		Experimental: p.Experimental,
		Deprecated:   p.Deprecated,
	})
}
