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

/*
Package protocol holds the in-memory model of a remote-debugging protocol
document: an ordered list of domains, each declaring types, commands and
events.

A Document is built once by Parse (or ReadFile) and is read-only afterwards.
Parse only checks the structural shape of the document. Type references are
kept as written and resolved later by package resolve.

# Pipeline

	protocol.Parse     -> *protocol.Document
	resolve.Resolve    -> *resolve.Model
	typemap.Map        -> *typemap.Mapping
	overload.Build     -> *overload.Plan
	emit.Emitter       -> []emit.File

# Input Shape

	{
	  "version": {"major": "1", "minor": "3"},
	  "domains": [{
	    "domain": "Storage",
	    "dependencies": ["Page"],
	    "types": [{"id": "StorageId", "type": "string"}],
	    "commands": [{"name": "clear", "parameters": [{"name": "storageId", "$ref": "StorageId"}]}],
	    "events": [{"name": "itemsCleared", "parameters": [{"name": "storageId", "type": "string"}]}]
	  }]
	}
*/
package protocol
