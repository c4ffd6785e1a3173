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

package templates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tombee/cdpgen/internal/config"
)

func TestList(t *testing.T) {
	list, err := List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}

	var got []string
	for _, tmpl := range list {
		got = append(got, tmpl.Name)
		if tmpl.Description == "" {
			t.Errorf("template %s has no description", tmpl.Name)
		}
		if tmpl.Defaults.Package == "" || len(tmpl.Defaults.Inputs) == 0 {
			t.Errorf("template %s has incomplete defaults: %+v", tmpl.Name, tmpl.Defaults)
		}
	}
	if strings.Join(got, ",") != "minimal,chrome" {
		t.Errorf("List() = %v, want minimal then chrome", got)
	}
}

func TestDefaultData(t *testing.T) {
	if d := DefaultData("chrome"); d.Name != "tip" || len(d.Inputs) != 2 {
		t.Errorf("chrome defaults = %+v", d)
	}
	if d := DefaultData("nope"); d.Name != "cdp" || d.Inputs[0] != "protocol.json" {
		t.Errorf("unknown name should fall back to minimal, got %+v", d)
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		name        string
		template    string
		expectError bool
	}{
		{"minimal template", "minimal", false},
		{"chrome template", "chrome", false},
		{"unknown template", "nonexistent", true},
		{"path traversal", "../templates", true},
		{"separator", "a/b", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, err := Get(tt.template)
			if (err != nil) != tt.expectError {
				t.Fatalf("Get(%q) error = %v, expectError %v", tt.template, err, tt.expectError)
			}
			if !tt.expectError && len(content) == 0 {
				t.Errorf("Get(%q) returned empty content", tt.template)
			}
			if Exists(tt.template) == tt.expectError {
				t.Errorf("Exists(%q) = %v", tt.template, !tt.expectError)
			}
		})
	}
}

// TestRender_Loads checks that every rendered template is a valid config.
func TestRender_Loads(t *testing.T) {
	for _, name := range []string{"minimal", "chrome"} {
		t.Run(name, func(t *testing.T) {
			t.Setenv("CDPGEN_OUTPUT", "")
			t.Setenv("CDPGEN_PACKAGE", "")
			t.Chdir(t.TempDir())

			content, err := Render(name, DefaultData(name))
			if err != nil {
				t.Fatalf("Render() failed: %v", err)
			}
			path := filepath.Join(t.TempDir(), config.FileName)
			if err := os.WriteFile(path, content, 0o644); err != nil {
				t.Fatal(err)
			}

			cfg, err := config.Load(path)
			if err != nil {
				t.Fatalf("rendered template does not load: %v\n%s", err, content)
			}
			if len(cfg.Targets) == 0 {
				t.Fatal("expected at least one target")
			}
			if cfg.Targets[0].Package != "cdp" {
				t.Errorf("expected package cdp, got %q", cfg.Targets[0].Package)
			}
		})
	}
}

func TestRender_Data(t *testing.T) {
	content, err := Render("chrome", Data{
		Name:    "r1300",
		Package: "devtools",
		Output:  "./gen",
		Inputs:  []string{"a.json", "b.json"},
	})
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}

	for _, want := range []string{"name: r1300\n", "name: r1300-stable\n", "package: devtools", "      - a.json\n      - b.json\n", "output: ./gen/stable"} {
		if !strings.Contains(string(content), want) {
			t.Errorf("rendered template missing %q:\n%s", want, content)
		}
	}
}
