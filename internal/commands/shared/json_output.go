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
	"encoding/json"
	"errors"
	"io"

	cdpgenerrors "github.com/tombee/cdpgen/pkg/errors"
)

// JSONVersion is the envelope version of every JSON response.
const JSONVersion = "1.0"

// JSONResponse is the base envelope for all JSON output
type JSONResponse struct {
	Version string `json:"@version"`
	Command string `json:"command"`
	Success bool   `json:"success"`
}

// NewJSONResponse returns an envelope for command.
func NewJSONResponse(command string, success bool) JSONResponse {
	return JSONResponse{Version: JSONVersion, Command: command, Success: success}
}

// JSONError represents a structured error with code, message, location, and suggestion
type JSONError struct {
	Code       string        `json:"code"`
	Message    string        `json:"message"`
	Type       string        `json:"type,omitempty"`
	Location   *JSONLocation `json:"location,omitempty"`
	Suggestion string        `json:"suggestion,omitempty"`
}

// JSONLocation points into an input document. Path is the position inside
// the document, such as "domains[2].commands[0]" or "DOM.describeNode.depth".
type JSONLocation struct {
	File string `json:"file,omitempty"`
	Path string `json:"path,omitempty"`
	Line int    `json:"line,omitempty"`
}

// NewJSONError converts err into its structured form.
func NewJSONError(err error) JSONError {
	je := JSONError{
		Code:       ErrorCode(err),
		Message:    err.Error(),
		Suggestion: Suggestion(err),
	}

	var classified cdpgenerrors.ErrorClassifier
	if errors.As(err, &classified) {
		je.Type = classified.ErrorType()
	}

	if loc, ok := cdpgenerrors.LocationOf(err); ok {
		je.Location = &JSONLocation{File: loc.File, Path: loc.Path, Line: loc.Line}
	}
	return je
}

// EmitJSON writes response to w as indented JSON.
func EmitJSON(w io.Writer, response any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}

// EmitJSONError writes a failed envelope for command carrying errs.
func EmitJSONError(w io.Writer, command string, errs []JSONError) error {
	type errorResponse struct {
		JSONResponse
		Errors []JSONError `json:"errors"`
	}

	return EmitJSON(w, errorResponse{
		JSONResponse: NewJSONResponse(command, false),
		Errors:       errs,
	})
}

// Fail reports err for command and returns the error the command should
// return. With --json the error is written to w as an envelope and the
// returned error only sets the exit code; otherwise err is classified and
// returned for HandleExitError to print.
func Fail(w io.Writer, command string, err error) error {
	if !GetJSON() {
		return Classify(err)
	}
	if emitErr := EmitJSONError(w, command, []JSONError{NewJSONError(err)}); emitErr != nil {
		return emitErr
	}
	return Silent(ExitCode(err))
}
