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

// Package schemas publishes the JSON Schema of cdpgen.yaml for editors
// and external validators.
package schemas

import (
	"encoding/json"

	"github.com/invopop/jsonschema"

	"github.com/tombee/cdpgen/internal/config"
)

// ConfigSchemaID is the $id of the configuration schema.
const ConfigSchemaID = "https://github.com/tombee/cdpgen/schemas/cdpgen.schema.json"

// ConfigSchema reflects the configuration types into a JSON Schema. Field
// names follow the yaml tags, so the schema matches the file on disk.
func ConfigSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		FieldNameTag:               "yaml",
		RequiredFromJSONSchemaTags: true,
	}
	s := r.Reflect(&config.Config{})
	s.ID = ConfigSchemaID
	s.Title = "cdpgen configuration"
	s.Description = "Targets compiled by 'cdpgen generate' and the defaults they inherit."
	return s
}

// GetConfigSchema returns the configuration schema as indented JSON.
func GetConfigSchema() ([]byte, error) {
	return json.MarshalIndent(ConfigSchema(), "", "  ")
}
