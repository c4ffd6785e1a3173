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

package errors

import (
	"fmt"
)

// Error type identifiers returned by ErrorType.
const (
	TypeMalformedSchema     = "malformed_schema"
	TypeUnresolvedRef       = "unresolved_reference"
	TypeUndeclaredDep       = "undeclared_dependency"
	TypeNonTrailingOptional = "non_trailing_optional_parameter"
	TypeNameCollision       = "name_collision"
)

// ValidationError represents user input validation failures.
// Use this for invalid flags, malformed arguments, or constraint violations.
type ValidationError struct {
	// Field identifies which input field failed validation
	Field string

	// Message is the human-readable error description
	Message string

	// Suggestion provides actionable guidance for fixing the error
	Suggestion string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// NotFoundError represents a missing resource, such as an input document
// or a compile target named on the command line.
type NotFoundError struct {
	// Resource is the type of resource (e.g., "target", "input")
	Resource string

	// ID is the identifier that was not found
	ID string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ConfigError represents configuration problems.
type ConfigError struct {
	// Key is the configuration key that has the problem (e.g., "targets[0].output")
	Key string

	// Reason explains what's wrong with the configuration
	Reason string

	// Cause is the underlying error (e.g., file read error, parse error)
	Cause error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("config error: %s", e.Reason)
	if e.Key != "" {
		msg = fmt.Sprintf("config error at %s: %s", e.Key, e.Reason)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// MalformedSchemaError reports a protocol document that violates the basic
// document shape: a missing required key or a value of the wrong kind.
type MalformedSchemaError struct {
	// Path locates the offending value, e.g. "domains[2].commands[0].name".
	Path string

	// Line is the 1-based source line, 0 when unknown.
	Line int

	// Reason describes the violation.
	Reason string

	// Cause is the underlying decode error, if any.
	Cause error
}

// Error implements the error interface.
func (e *MalformedSchemaError) Error() string {
	loc := e.Path
	if loc == "" {
		loc = "document"
	}
	if e.Line > 0 {
		return fmt.Sprintf("malformed schema at %s (line %d): %s", loc, e.Line, e.Reason)
	}
	return fmt.Sprintf("malformed schema at %s: %s", loc, e.Reason)
}

// Unwrap returns the underlying cause.
func (e *MalformedSchemaError) Unwrap() error { return e.Cause }

// Location implements Locator.
func (e *MalformedSchemaError) Location() Location { return Location{Path: e.Path, Line: e.Line} }

func (e *MalformedSchemaError) ErrorType() string { return TypeMalformedSchema }
func (e *MalformedSchemaError) IsRetryable() bool { return false }
func (e *MalformedSchemaError) IsUserVisible() bool { return true }
func (e *MalformedSchemaError) UserMessage() string { return e.Error() }
func (e *MalformedSchemaError) Suggestion() string {
	return "Check the protocol document against the expected domain/type/command layout"
}

// UnresolvedReferenceError reports a type reference naming a type that does
// not exist in the target domain.
type UnresolvedReferenceError struct {
	// Domain is the domain the reference was resolved against.
	Domain string

	// ID is the type id that was not found.
	ID string

	// From locates the reference, e.g. "DOM.getDocument.depth".
	From string
}

// Error implements the error interface.
func (e *UnresolvedReferenceError) Error() string {
	if e.From != "" {
		return fmt.Sprintf("unresolved reference %s.%s (from %s)", e.Domain, e.ID, e.From)
	}
	return fmt.Sprintf("unresolved reference %s.%s", e.Domain, e.ID)
}

// Location implements Locator.
func (e *UnresolvedReferenceError) Location() Location { return Location{Path: e.From} }

func (e *UnresolvedReferenceError) ErrorType() string { return TypeUnresolvedRef }
func (e *UnresolvedReferenceError) IsRetryable() bool { return false }
func (e *UnresolvedReferenceError) IsUserVisible() bool { return true }
func (e *UnresolvedReferenceError) UserMessage() string { return e.Error() }
func (e *UnresolvedReferenceError) Suggestion() string {
	return fmt.Sprintf("Declare type %q in domain %q or fix the $ref", e.ID, e.Domain)
}

// UndeclaredDependencyError reports a qualified reference into a domain that
// the referencing domain does not list in its dependencies.
type UndeclaredDependencyError struct {
	FromDomain string
	ToDomain   string

	// From locates the reference.
	From string
}

// Error implements the error interface.
func (e *UndeclaredDependencyError) Error() string {
	msg := fmt.Sprintf("domain %s references %s without declaring it as a dependency", e.FromDomain, e.ToDomain)
	if e.From != "" {
		msg += " (from " + e.From + ")"
	}
	return msg
}

// Location implements Locator.
func (e *UndeclaredDependencyError) Location() Location { return Location{Path: e.From} }

func (e *UndeclaredDependencyError) ErrorType() string { return TypeUndeclaredDep }
func (e *UndeclaredDependencyError) IsRetryable() bool { return false }
func (e *UndeclaredDependencyError) IsUserVisible() bool { return true }
func (e *UndeclaredDependencyError) UserMessage() string { return e.Error() }
func (e *UndeclaredDependencyError) Suggestion() string {
	return fmt.Sprintf("Add %q to the dependencies of domain %q", e.ToDomain, e.FromDomain)
}

// NonTrailingOptionalParameterError reports a command or event whose
// optional parameters do not all follow its required ones.
type NonTrailingOptionalParameterError struct {
	Domain string

	// Member is the command or event name.
	Member string

	// Parameter is the first required parameter following an optional one.
	Parameter string
}

// Error implements the error interface.
func (e *NonTrailingOptionalParameterError) Error() string {
	return fmt.Sprintf("%s.%s: required parameter %q follows an optional parameter", e.Domain, e.Member, e.Parameter)
}

func (e *NonTrailingOptionalParameterError) ErrorType() string { return TypeNonTrailingOptional }
func (e *NonTrailingOptionalParameterError) IsRetryable() bool { return false }
func (e *NonTrailingOptionalParameterError) IsUserVisible() bool { return true }
func (e *NonTrailingOptionalParameterError) UserMessage() string { return e.Error() }
func (e *NonTrailingOptionalParameterError) Suggestion() string {
	return "Move optional parameters after all required parameters in the schema"
}

// NameCollisionError reports a name that cannot be made unique: duplicate
// declarations, or a synthesized name whose disambiguation was exhausted.
type NameCollisionError struct {
	Domain string
	Name   string
	Reason string
}

// Error implements the error interface.
func (e *NameCollisionError) Error() string {
	if e.Domain == "" {
		return fmt.Sprintf("name collision on %s: %s", e.Name, e.Reason)
	}
	return fmt.Sprintf("name collision on %s.%s: %s", e.Domain, e.Name, e.Reason)
}

func (e *NameCollisionError) ErrorType() string { return TypeNameCollision }
func (e *NameCollisionError) IsRetryable() bool { return false }
func (e *NameCollisionError) IsUserVisible() bool { return true }
func (e *NameCollisionError) UserMessage() string { return e.Error() }
func (e *NameCollisionError) Suggestion() string {
	return "Rename the conflicting type, command or event in the schema"
}
