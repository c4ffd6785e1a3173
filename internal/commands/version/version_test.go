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

package version

import (
	"bytes"
	"encoding/json"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/tombee/cdpgen/internal/commands/shared"
)

// run executes version under a root carrying the --json flag.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	shared.SetVersion("0.4.0", "9f1c2ab", "2025-12-22")
	t.Cleanup(func() {
		shared.SetVersion("dev", "unknown", "unknown")
		shared.ResetFlagsForTest()
	})

	root := &cobra.Command{Use: "cdpgen", SilenceUsage: true, SilenceErrors: true}
	_, _, jsonPtr, _ := shared.RegisterFlagPointers()
	root.PersistentFlags().BoolVar(jsonPtr, "json", false, "JSON output")
	root.AddCommand(NewVersionCommand())

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(append([]string{"version"}, args...))
	err := root.Execute()
	return buf.String(), err
}

func TestVersionText(t *testing.T) {
	out, err := run(t)
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %q", out)
	}
	if lines[0] != "cdpgen version 0.4.0" {
		t.Errorf("first line = %q", lines[0])
	}
	for _, want := range []string{"9f1c2ab", "2025-12-22", runtime.GOOS + "/" + runtime.GOARCH} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestVersionJSON(t *testing.T) {
	out, err := run(t, "--json")
	if err != nil {
		t.Fatal(err)
	}

	var got VersionInfo
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	want := VersionInfo{
		Version:   "0.4.0",
		Commit:    "9f1c2ab",
		BuildDate: "2025-12-22",
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestVersionArgs(t *testing.T) {
	if _, err := run(t, "extra"); err == nil {
		t.Error("expected an error for unexpected arguments")
	}
}

func TestInfoDevBuild(t *testing.T) {
	shared.SetVersion("dev", "unknown", "unknown")

	info := Info()
	if info.Version == "" {
		t.Error("version must never be empty")
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q", info.GoVersion)
	}
}
