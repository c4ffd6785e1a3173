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

package shared

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	cdpgenerrors "github.com/tombee/cdpgen/pkg/errors"
)

// Exit codes
const (
	ExitSuccess       = 0
	ExitCompileFailed = 1 // The document was read but does not compile
	ExitInvalidInput  = 2 // Bad flags, config, or an unreadable or malformed document
)

// ExitError is an error that carries an exit code
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

func (e *ExitError) Error() string {
	switch {
	case e.Message != "" && e.Cause != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	case e.Cause != nil:
		return e.Cause.Error()
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewCompileError creates an error for documents that fail to compile
func NewCompileError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitCompileFailed,
		Message: msg,
		Cause:   cause,
	}
}

// NewInvalidInputError creates an error for invalid flags, configuration
// or input documents
func NewInvalidInputError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitInvalidInput,
		Message: msg,
		Cause:   cause,
	}
}

// Silent returns an error that sets the exit code without printing
// anything, for commands that already reported the failure (for example
// as JSON).
func Silent(code int) *ExitError {
	return &ExitError{Code: code}
}

// ExitCode classifies err: input problems exit 2, everything else 1.
func ExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var (
		malformed  *cdpgenerrors.MalformedSchemaError
		validation *cdpgenerrors.ValidationError
		cfgErr     *cdpgenerrors.ConfigError
		notFound   *cdpgenerrors.NotFoundError
	)
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &malformed), errors.As(err, &validation),
		errors.As(err, &cfgErr), errors.As(err, &notFound),
		errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return ExitInvalidInput
	}
	return ExitCompileFailed
}

// Classify wraps err in an ExitError with the code ExitCode picks. An
// ExitError is returned as is.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	return &ExitError{Code: ExitCode(err), Cause: err}
}

// HandleExitError prints err with any suggestion and exits with its code.
func HandleExitError(err error) {
	if err == nil {
		return
	}
	code := WriteExitError(os.Stderr, err)
	os.Exit(code)
}

// WriteExitError prints err to w the way HandleExitError does and returns
// the exit code.
func WriteExitError(w io.Writer, err error) int {
	code := ExitCode(err)
	if errors.Is(err, context.Canceled) {
		return code
	}

	if msg := err.Error(); msg != "" {
		fmt.Fprintln(w, RenderError("Error: "+msg))
	}
	if suggestion := Suggestion(err); suggestion != "" {
		fmt.Fprintf(w, "\nSuggestion: %s\n", suggestion)
	}
	return code
}

// Suggestion walks the error chain for a fix to offer the user.
func Suggestion(err error) string {
	for err != nil {
		if v, ok := err.(*cdpgenerrors.ValidationError); ok {
			return v.Suggestion
		}
		if userErr, ok := err.(cdpgenerrors.UserVisibleError); ok {
			if userErr.IsUserVisible() {
				return userErr.Suggestion()
			}
			return ""
		}

		// Continue unwrapping
		err = errors.Unwrap(err)
	}
	return ""
}
