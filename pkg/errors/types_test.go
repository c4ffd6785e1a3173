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

package errors_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	cdpgenerrors "github.com/tombee/cdpgen/pkg/errors"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *cdpgenerrors.ValidationError
		wantMsg string
	}{
		{
			name: "with field",
			err: &cdpgenerrors.ValidationError{
				Field:      "output",
				Message:    "required field is missing",
				Suggestion: "Pass --output",
			},
			wantMsg: "validation failed on output: required field is missing",
		},
		{
			name: "without field",
			err: &cdpgenerrors.ValidationError{
				Message: "invalid format",
			},
			wantMsg: "validation failed: invalid format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("ValidationError.Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestNotFoundError_Error(t *testing.T) {
	err := &cdpgenerrors.NotFoundError{Resource: "target", ID: "tip"}
	if got, want := err.Error(), "target not found: tip"; got != want {
		t.Errorf("NotFoundError.Error() = %q, want %q", got, want)
	}
}

func TestConfigError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *cdpgenerrors.ConfigError
		wantMsg string
	}{
		{
			name:    "with key",
			err:     &cdpgenerrors.ConfigError{Key: "targets[0].output", Reason: "must not be empty"},
			wantMsg: "config error at targets[0].output: must not be empty",
		},
		{
			name:    "without key",
			err:     &cdpgenerrors.ConfigError{Reason: "file not readable"},
			wantMsg: "config error: file not readable",
		},
		{
			name:    "with cause",
			err:     &cdpgenerrors.ConfigError{Key: "config_file", Reason: "failed to load", Cause: errors.New("permission denied")},
			wantMsg: "config error at config_file: failed to load: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("ConfigError.Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestConfigError_Unwrap(t *testing.T) {
	cause := errors.New("permission denied")
	err := &cdpgenerrors.ConfigError{Key: "config_file", Reason: "read failed", Cause: cause}
	if !errors.Is(err, cause) {
		t.Error("ConfigError should unwrap to its cause")
	}
}

func TestMalformedSchemaError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *cdpgenerrors.MalformedSchemaError
		want string
	}{
		{
			name: "path and line",
			err:  &cdpgenerrors.MalformedSchemaError{Path: "domains[1].commands[0]", Line: 42, Reason: `missing required key "name"`},
			want: `malformed schema at domains[1].commands[0] (line 42): missing required key "name"`,
		},
		{
			name: "no path",
			err:  &cdpgenerrors.MalformedSchemaError{Reason: "empty document"},
			want: "malformed schema at document: empty document",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompileErrors_Messages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "unresolved reference",
			err:  &cdpgenerrors.UnresolvedReferenceError{Domain: "DOM", ID: "Nope", From: "DOM.getDocument.depth"},
			want: []string{"DOM.Nope", "DOM.getDocument.depth"},
		},
		{
			name: "undeclared dependency",
			err:  &cdpgenerrors.UndeclaredDependencyError{FromDomain: "Page", ToDomain: "Network"},
			want: []string{"Page", "Network", "dependency"},
		},
		{
			name: "non-trailing optional",
			err:  &cdpgenerrors.NonTrailingOptionalParameterError{Domain: "Page", Member: "navigate", Parameter: "url"},
			want: []string{"Page.navigate", `"url"`},
		},
		{
			name: "name collision",
			err:  &cdpgenerrors.NameCollisionError{Domain: "DOM", Name: "Node", Reason: "duplicate type id"},
			want: []string{"DOM.Node", "duplicate type id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, w := range tt.want {
				if !strings.Contains(msg, w) {
					t.Errorf("Error() = %q, want it to contain %q", msg, w)
				}
			}
		})
	}
}

func TestCompileErrors_Classification(t *testing.T) {
	tests := []struct {
		err      error
		wantType string
	}{
		{&cdpgenerrors.MalformedSchemaError{}, cdpgenerrors.TypeMalformedSchema},
		{&cdpgenerrors.UnresolvedReferenceError{}, cdpgenerrors.TypeUnresolvedRef},
		{&cdpgenerrors.UndeclaredDependencyError{}, cdpgenerrors.TypeUndeclaredDep},
		{&cdpgenerrors.NonTrailingOptionalParameterError{}, cdpgenerrors.TypeNonTrailingOptional},
		{&cdpgenerrors.NameCollisionError{}, cdpgenerrors.TypeNameCollision},
	}

	for _, tt := range tests {
		t.Run(tt.wantType, func(t *testing.T) {
			classified, ok := tt.err.(cdpgenerrors.ErrorClassifier)
			if !ok {
				t.Fatalf("%T does not implement ErrorClassifier", tt.err)
			}
			if classified.ErrorType() != tt.wantType {
				t.Errorf("ErrorType() = %q, want %q", classified.ErrorType(), tt.wantType)
			}
			if classified.IsRetryable() {
				t.Error("compile errors must not be retryable")
			}

			visible, ok := tt.err.(cdpgenerrors.UserVisibleError)
			if !ok {
				t.Fatalf("%T does not implement UserVisibleError", tt.err)
			}
			if visible.Suggestion() == "" {
				t.Error("expected a suggestion")
			}
		})
	}
}

func TestErrorWrapping(t *testing.T) {
	original := &cdpgenerrors.UndeclaredDependencyError{FromDomain: "A", ToDomain: "B"}
	wrapped := fmt.Errorf("compile tip: %w", original)

	var target *cdpgenerrors.UndeclaredDependencyError
	if !errors.As(wrapped, &target) {
		t.Fatal("errors.As should find UndeclaredDependencyError")
	}
	if target.ToDomain != "B" {
		t.Errorf("ToDomain = %q, want %q", target.ToDomain, "B")
	}
}
