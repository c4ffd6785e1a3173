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

// Package compiler runs the protocol binding pipeline end to end.
//
// Compile turns a parsed document into Go source files held in memory:
//
//	doc -> Select -> resolve.Resolve -> typemap.Map -> overload.Build -> emit
//
// Run reads the input files of a Target, compiles them and writes the
// files into the target's output directory. Either every file of a run is
// written or none is: rendering completes in memory before anything
// touches the file system, and the files are staged in a temporary
// directory next to the output before being moved into place.
package compiler
