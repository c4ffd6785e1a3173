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

package validate

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tombee/cdpgen/internal/commands/shared"
)

func setup(t *testing.T) (dir, fixture string) {
	t.Helper()
	fixture, err := filepath.Abs(filepath.Join("..", "..", "..", "pkg", "protocol", "testdata", "protocol.json"))
	if err != nil {
		t.Fatal(err)
	}
	dir = t.TempDir()
	t.Chdir(dir)
	for _, key := range []string{"CDPGEN_PACKAGE", "CDPGEN_OUTPUT", "LOG_LEVEL", "LOG_FORMAT", "CDPGEN_DEBUG", "CDPGEN_LOG_LEVEL"} {
		t.Setenv(key, "")
	}
	t.Setenv("XDG_CONFIG_HOME", dir)
	shared.ResetFlagsForTest()
	t.Cleanup(shared.ResetFlagsForTest)
	return dir, fixture
}

func writeDoc(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("failed to create test document: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewCommand()
	var outBuf, errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

func TestNewCommand(t *testing.T) {
	cmd := NewCommand()

	if cmd.Use != "validate <protocol.json>..." {
		t.Errorf("unexpected use %q", cmd.Use)
	}
	for _, name := range []string{"include", "exclude", "where"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("--%s flag not defined", name)
		}
	}
	// Note: --json flag is global and added by root command, not locally
}

func TestValidateValidDocument(t *testing.T) {
	_, fixture := setup(t)

	stdout, stderr, err := execute(t, fixture)
	if err != nil {
		t.Fatalf("expected valid document to pass, got error: %v\nStderr: %s", err, stderr)
	}
	if !strings.Contains(stdout, fixture+" compiles") {
		t.Errorf("expected success message, got %q", stdout)
	}
	if !strings.Contains(stdout, "Protocol: 1.3") {
		t.Errorf("expected protocol version, got %q", stdout)
	}
	if !strings.Contains(stdout, "Runtime, DOM, DOMStorage, HeapProfiler, Emulation, Page") {
		t.Errorf("expected domain list, got %q", stdout)
	}
	if !strings.Contains(stdout, "8 subscriptions") {
		t.Errorf("expected subscription count, got %q", stdout)
	}
}

func TestValidateJSON(t *testing.T) {
	_, fixture := setup(t)
	shared.SetJSONForTest(true)

	stdout, _, err := execute(t, fixture, "--include", "Emulation")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp struct {
		Command  string   `json:"command"`
		Success  bool     `json:"success"`
		Inputs   []string `json:"inputs"`
		Protocol struct {
			Version       string   `json:"version"`
			Domains       []string `json:"domains"`
			Added         []string `json:"added"`
			Commands      int      `json:"commands"`
			Events        int      `json:"events"`
			Subscriptions int      `json:"subscriptions"`
		} `json:"protocol"`
	}
	if err := json.Unmarshal([]byte(stdout), &resp); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, stdout)
	}
	if resp.Command != "validate" || !resp.Success {
		t.Errorf("unexpected envelope: %+v", resp)
	}
	if strings.Join(resp.Protocol.Domains, ",") != "Runtime,DOM,Emulation" {
		t.Errorf("unexpected domains %v", resp.Protocol.Domains)
	}
	if strings.Join(resp.Protocol.Added, ",") != "Runtime,DOM" {
		t.Errorf("unexpected added %v", resp.Protocol.Added)
	}
	if resp.Protocol.Commands != 11 || resp.Protocol.Events != 3 || resp.Protocol.Subscriptions != 3 {
		t.Errorf("unexpected counts %+v", resp.Protocol)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		code     string
		exitCode int
	}{
		{
			name:     "malformed",
			src:      `{"domains": [{"commands": []}]}`,
			code:     shared.ErrorCodeMalformedSchema,
			exitCode: shared.ExitInvalidInput,
		},
		{
			name:     "unresolved reference",
			src:      `{"domains": [{"domain": "A", "types": [{"id": "X", "type": "array", "items": {"$ref": "Y"}}]}]}`,
			code:     shared.ErrorCodeUnresolvedReference,
			exitCode: shared.ExitCompileFailed,
		},
		{
			name: "undeclared dependency",
			src: `{"domains": [
				{"domain": "A", "types": [{"id": "X", "type": "string"}]},
				{"domain": "B", "types": [{"id": "Y", "type": "array", "items": {"$ref": "A.X"}}]}
			]}`,
			code:     shared.ErrorCodeUndeclaredDependency,
			exitCode: shared.ExitCompileFailed,
		},
		{
			name: "non-trailing optional",
			src: `{"domains": [{"domain": "A", "commands": [{"name": "x", "parameters": [
				{"name": "a", "type": "string", "optional": true}, {"name": "b", "type": "string"}
			]}]}]}`,
			code:     shared.ErrorCodeNonTrailingOptional,
			exitCode: shared.ExitCompileFailed,
		},
		{
			name: "name collision",
			src: `{"domains": [
				{"domain": "DOM", "types": [{"id": "StorageId", "type": "object"}]},
				{"domain": "DOMStorage", "types": [{"id": "Id", "type": "object"}]}
			]}`,
			code:     shared.ErrorCodeNameCollision,
			exitCode: shared.ExitCompileFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, _ := setup(t)
			path := writeDoc(t, dir, "protocol.json", tt.src)

			_, stderr, err := execute(t, path)
			if err == nil {
				t.Fatal("expected error")
			}
			if code := shared.ExitCode(err); code != tt.exitCode {
				t.Errorf("expected exit code %d, got %d", tt.exitCode, code)
			}
			if !strings.HasPrefix(stderr, path) {
				t.Errorf("expected error to start with the file name, got %q", stderr)
			}
			if !strings.Contains(stderr, "error["+tt.code+"]") {
				t.Errorf("expected %s in %q", tt.code, stderr)
			}
			if !strings.Contains(stderr, "Suggestion:") {
				t.Errorf("expected a suggestion in %q", stderr)
			}

			shared.SetJSONForTest(true)
			stdout, _, err := execute(t, path)
			if code := shared.ExitCode(err); code != tt.exitCode {
				t.Errorf("json: expected exit code %d, got %d", tt.exitCode, code)
			}
			var resp struct {
				Success bool               `json:"success"`
				Errors  []shared.JSONError `json:"errors"`
			}
			if err := json.Unmarshal([]byte(stdout), &resp); err != nil {
				t.Fatalf("invalid JSON output: %v\n%s", err, stdout)
			}
			if resp.Success || len(resp.Errors) != 1 || resp.Errors[0].Code != tt.code {
				t.Errorf("unexpected response: %+v", resp)
			}
		})
	}
}

func TestValidateMalformedLine(t *testing.T) {
	dir, _ := setup(t)
	path := writeDoc(t, dir, "protocol.json", "{\n  \"domains\": [\n    {\"commands\": []}\n  ]\n}\n")

	_, stderr, _ := execute(t, path)
	if !strings.HasPrefix(stderr, path+":3: error[E001]: ") {
		t.Errorf("expected line-qualified error, got %q", stderr)
	}
}

func TestValidateMissingFile(t *testing.T) {
	dir, _ := setup(t)

	_, stderr, err := execute(t, filepath.Join(dir, "missing.json"))
	if code := shared.ExitCode(err); code != shared.ExitInvalidInput {
		t.Errorf("expected exit code %d, got %d", shared.ExitInvalidInput, code)
	}
	if !strings.Contains(stderr, "error["+shared.ErrorCodeFileNotFound+"]") {
		t.Errorf("expected %s in %q", shared.ErrorCodeFileNotFound, stderr)
	}
}

func TestValidateRequiresArgument(t *testing.T) {
	setup(t)

	if _, _, err := execute(t); err == nil {
		t.Error("expected an error without arguments")
	}
}
