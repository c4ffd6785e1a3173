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

// Package cli assembles the cdpgen command tree.
//
// NewRootCommand builds the root command with the persistent flags every
// subcommand inherits (-v/--verbose, -q/--quiet, --json and --config) and
// two help groups, "generation" and "project". Commands under
// internal/commands declare their group with a "group" annotation;
// AddCommands attaches them and files each under its group:
//
//	cdpgen
//	  generate     compile protocol documents into Go packages
//	  validate     check protocol documents without writing output
//	  inspect      query the compiled model with jq
//	  init         write a cdpgen.yaml
//	  completion   shell completion scripts
//	  version      build information
//	  help         help, also as JSON
//
// Commands return errors instead of exiting. HandleExitError turns the
// error that escapes Execute into exit status 1 when compilation failed
// and 2 when the input or the invocation was invalid.
package cli
