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

package completion

import (
	"github.com/spf13/cobra"

	"github.com/tombee/cdpgen/internal/commands/shared"
	"github.com/tombee/cdpgen/internal/config"
)

// projectConfig returns the configuration a command run from the shell
// would see: the --config file, else the discovered cdpgen.yaml. Missing
// or unloadable configuration yields nil.
func projectConfig() *config.Config {
	path := shared.GetConfigPath()
	if path == "" {
		if path = config.Discover(); path == "" {
			return nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil
	}
	return cfg
}

// candidates is the body of a completion function.
type candidates func() []string

// complete runs fn and offers its result without file fallback. A
// completion function must never break the shell, so a panic yields an
// empty list.
func complete(fn candidates) (out []string, directive cobra.ShellCompDirective) {
	directive = cobra.ShellCompDirectiveNoFileComp
	defer func() {
		if recover() != nil {
			out = []string{}
		}
	}()
	if out = fn(); out == nil {
		out = []string{}
	}
	return out, directive
}
