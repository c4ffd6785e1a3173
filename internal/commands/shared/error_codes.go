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
	"errors"
	"io/fs"

	cdpgenerrors "github.com/tombee/cdpgen/pkg/errors"
)

// Error codes for structured JSON output
const (
	// Schema errors (E001-E099)
	ErrorCodeMalformedSchema      = "E001" // Document violates the basic shape
	ErrorCodeUnresolvedReference  = "E002" // $ref names no declared type
	ErrorCodeUndeclaredDependency = "E003" // Cross-domain $ref to an undeclared domain
	ErrorCodeNonTrailingOptional  = "E004" // Optional parameter before a required one
	ErrorCodeNameCollision        = "E005" // Two types or members map to one name

	// Configuration errors (E200-E299)
	ErrorCodeInvalidConfig = "E202" // Invalid configuration file

	// Input errors (E300-E399)
	ErrorCodeInvalidInput = "E302" // Invalid flag, pattern or expression
	ErrorCodeFileNotFound = "E303" // File not found

	// Resource errors (E400-E499)
	ErrorCodeNotFound = "E401" // Resource not found
	ErrorCodeInternal = "E402" // Internal error
)

// errorTypeCodes maps ErrorClassifier types to codes.
var errorTypeCodes = map[string]string{
	cdpgenerrors.TypeMalformedSchema:     ErrorCodeMalformedSchema,
	cdpgenerrors.TypeUnresolvedRef:       ErrorCodeUnresolvedReference,
	cdpgenerrors.TypeUndeclaredDep:       ErrorCodeUndeclaredDependency,
	cdpgenerrors.TypeNonTrailingOptional: ErrorCodeNonTrailingOptional,
	cdpgenerrors.TypeNameCollision:       ErrorCodeNameCollision,
}

// ErrorCode maps err to its JSON error code.
func ErrorCode(err error) string {
	var classified cdpgenerrors.ErrorClassifier
	if errors.As(err, &classified) {
		if code, ok := errorTypeCodes[classified.ErrorType()]; ok {
			return code
		}
	}

	var (
		validation *cdpgenerrors.ValidationError
		cfgErr     *cdpgenerrors.ConfigError
		notFound   *cdpgenerrors.NotFoundError
	)
	switch {
	case errors.As(err, &cfgErr):
		return ErrorCodeInvalidConfig
	case errors.As(err, &validation):
		return ErrorCodeInvalidInput
	case errors.As(err, &notFound):
		return ErrorCodeNotFound
	case errors.Is(err, fs.ErrNotExist):
		return ErrorCodeFileNotFound
	}
	return ErrorCodeInternal
}
