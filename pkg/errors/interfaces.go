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

// UserVisibleError is implemented by errors the CLI prints as is, followed
// by a suggestion for fixing the input.
type UserVisibleError interface {
	error

	// IsUserVisible returns true if this error should be shown to users.
	IsUserVisible() bool

	// UserMessage returns the message printed for the error.
	UserMessage() string

	// Suggestion returns how to fix the input, or "".
	Suggestion() string
}

// ErrorClassifier is implemented by compile errors. ErrorType selects the
// E-code reported by the CLI.
type ErrorClassifier interface {
	error

	// ErrorType returns one of the Type* constants.
	ErrorType() string

	// IsRetryable is always false for compile errors: the input is static
	// and a second run fails the same way.
	IsRetryable() bool
}

// Location points into a protocol document.
type Location struct {
	// File is the input document, when known.
	File string

	// Path is the position inside the document, either structural
	// ("domains[2].commands[0]") or by name ("DOM.describeNode.depth").
	Path string

	// Line is 1-based, 0 when unknown.
	Line int
}

// Locator is implemented by errors that know where in the input they
// arose.
type Locator interface {
	error
	Location() Location
}
