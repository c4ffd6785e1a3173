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

package cli

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/tombee/cdpgen/internal/commands/shared"
)

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	if cmd.Use != "cdpgen" {
		t.Errorf("Use = %q, want cdpgen", cmd.Use)
	}
	if cmd.Short == "" || cmd.Long == "" {
		t.Error("root command needs short and long descriptions")
	}
	if !cmd.SilenceErrors || !cmd.SilenceUsage {
		t.Error("errors and usage are printed by HandleExitError, not cobra")
	}
	for _, group := range []string{"generation", "project"} {
		if !cmd.ContainsGroup(group) {
			t.Errorf("missing group %q", group)
		}
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	tests := []struct {
		name      string
		shorthand string
	}{
		{"verbose", "v"},
		{"quiet", "q"},
		{"json", ""},
		{"config", ""},
	}
	for _, tt := range tests {
		f := cmd.PersistentFlags().Lookup(tt.name)
		if f == nil {
			t.Errorf("--%s not registered", tt.name)
			continue
		}
		if f.Shorthand != tt.shorthand {
			t.Errorf("--%s shorthand = %q, want %q", tt.name, f.Shorthand, tt.shorthand)
		}
	}
}

func TestVerboseQuietExclusive(t *testing.T) {
	cmd := NewRootCommand()
	cmd.AddCommand(&cobra.Command{Use: "noop", RunE: func(*cobra.Command, []string) error { return nil }})
	cmd.SetArgs([]string{"noop", "-v", "-q"})
	t.Cleanup(shared.ResetFlagsForTest)

	if err := cmd.Execute(); err == nil {
		t.Error("expected -v and -q together to fail")
	}
}

func TestSetVersion(t *testing.T) {
	SetVersion("0.4.0", "9f1c2ab", "2025-12-22")

	if v, c, b := GetVersion(); v != "0.4.0" || c != "9f1c2ab" || b != "2025-12-22" {
		t.Errorf("GetVersion() = %q, %q, %q", v, c, b)
	}
}

func TestAddCommandsGroups(t *testing.T) {
	root := NewRootCommand()

	grouped := &cobra.Command{Use: "generate", Annotations: map[string]string{"group": "generation"}}
	unknown := &cobra.Command{Use: "other", Annotations: map[string]string{"group": "nope"}}
	plain := &cobra.Command{Use: "version"}
	AddCommands(root, grouped, unknown, plain)

	if grouped.GroupID != "generation" {
		t.Errorf("expected group 'generation', got %q", grouped.GroupID)
	}
	if unknown.GroupID != "" {
		t.Errorf("expected no group for an unregistered group, got %q", unknown.GroupID)
	}
	if plain.GroupID != "" {
		t.Errorf("expected no group, got %q", plain.GroupID)
	}
	if len(root.Commands()) != 3 {
		t.Errorf("expected 3 subcommands, got %d", len(root.Commands()))
	}
}
