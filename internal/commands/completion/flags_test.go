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
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

const twoDomains = `{"domains": [
	{"domain": "Page", "commands": [{"name": "enable"}], "events": [{"name": "loaded"}]},
	{"domain": "Preload", "experimental": true}
]}`

func TestCompleteTargets(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "cdpgen.yaml"), `targets:
  - name: tip
    inputs: [p.json]
    output: ./tip
  - name: stable
    inputs: [p.json]
    output: ./stable
`)

	results, directive := CompleteTargets(&cobra.Command{}, nil, "")
	if len(results) != 2 {
		t.Fatalf("expected 2 targets, got %v", results)
	}
	// The discovered config is relative to the working directory.
	if results[0] != "tip\ttip" {
		t.Errorf("unexpected completion %q", results[0])
	}
	if directive != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("expected NoFileComp, got %v", directive)
	}

	results, _ = CompleteTargets(&cobra.Command{}, nil, "st")
	if len(results) != 1 || !strings.HasPrefix(results[0], "stable\t") {
		t.Errorf("expected prefix filtering, got %v", results)
	}
}

func TestCompleteTargets_NoConfig(t *testing.T) {
	isolate(t)

	results, _ := CompleteTargets(&cobra.Command{}, nil, "")
	if len(results) != 0 {
		t.Errorf("expected no completions, got %v", results)
	}
}

func TestCompleteDomains(t *testing.T) {
	dir := isolate(t)
	doc := filepath.Join(dir, "protocol.json")
	writeFile(t, doc, twoDomains)

	results, _ := CompleteDomains(&cobra.Command{}, []string{doc, doc}, "P")
	want := []string{"Page\t1 commands, 1 events", "Preload\t0 commands, 0 events, experimental"}
	if strings.Join(results, "|") != strings.Join(want, "|") {
		t.Errorf("got %v, want %v", results, want)
	}

	results, _ = CompleteDomains(&cobra.Command{}, []string{doc}, "Pr")
	if len(results) != 1 {
		t.Errorf("expected prefix filtering, got %v", results)
	}

	results, _ = CompleteDomains(&cobra.Command{}, []string{filepath.Join(dir, "missing.json")}, "")
	if len(results) != 0 {
		t.Errorf("unreadable documents should be skipped, got %v", results)
	}
}

func TestCompleteDomains_FromConfig(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "protocol.json"), twoDomains)
	writeFile(t, filepath.Join(dir, "cdpgen.yaml"), "targets:\n  - name: a\n    inputs: [protocol.json]\n    output: out\n")

	results, _ := CompleteDomains(&cobra.Command{}, nil, "")
	if len(results) != 2 {
		t.Errorf("expected domains of the configured inputs, got %v", results)
	}
}

func TestCompleteTemplates(t *testing.T) {
	results, _ := CompleteTemplates(&cobra.Command{}, nil, "")
	joined := strings.Join(results, "\n")
	if !strings.Contains(joined, "minimal\t") || !strings.Contains(joined, "chrome\t") {
		t.Errorf("expected both templates, got %v", results)
	}
}

func TestCompleteProtocolFiles(t *testing.T) {
	results, directive := CompleteProtocolFiles(&cobra.Command{}, nil, "")
	if len(results) != 1 || results[0] != "json" || directive != cobra.ShellCompDirectiveFilterFileExt {
		t.Errorf("unexpected completion %v %v", results, directive)
	}
}

func TestCompletionCommand(t *testing.T) {
	root := &cobra.Command{Use: "cdpgen"}
	root.AddCommand(NewCommand())

	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			var buf bytes.Buffer
			root.SetOut(&buf)
			root.SetArgs([]string{"completion", shell})
			if err := root.Execute(); err != nil {
				t.Fatalf("completion %s failed: %v", shell, err)
			}
			if !strings.Contains(buf.String(), "cdpgen") {
				t.Errorf("%s script does not mention the program", shell)
			}
		})
	}

	t.Run("no descriptions", func(t *testing.T) {
		var withDesc, withoutDesc bytes.Buffer
		root.SetOut(&withDesc)
		root.SetArgs([]string{"completion", "zsh"})
		if err := root.Execute(); err != nil {
			t.Fatal(err)
		}
		root.SetOut(&withoutDesc)
		root.SetArgs([]string{"completion", "zsh", "--no-descriptions"})
		if err := root.Execute(); err != nil {
			t.Fatal(err)
		}
		if withDesc.String() == withoutDesc.String() {
			t.Error("--no-descriptions should change the zsh script")
		}
	})

	root.SetArgs([]string{"completion", "tcsh"})
	root.SetErr(&bytes.Buffer{})
	if err := root.Execute(); err == nil {
		t.Error("expected an error for an unsupported shell")
	}
}
