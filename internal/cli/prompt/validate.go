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

package prompt

import (
	"fmt"
	"go/token"
	"strconv"
	"strings"
	"unicode"
)

// ValidateString rejects null bytes, control characters, and oversized
// answers.
func ValidateString(input string) error {
	if len(input) > MaxInputSize {
		return fmt.Errorf("input exceeds maximum size of %d bytes", MaxInputSize)
	}

	for i, r := range input {
		if r == 0 {
			return fmt.Errorf("input contains null byte at position %d", i)
		}
		if unicode.IsControl(r) && r != '\t' {
			return fmt.Errorf("input contains invalid control character at position %d", i)
		}
	}

	return nil
}

// ValidateRequired rejects blank answers.
func ValidateRequired(input string) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("a value is required")
	}
	return nil
}

// ValidatePackageName accepts Go identifiers.
func ValidatePackageName(input string) error {
	if !token.IsIdentifier(input) {
		return fmt.Errorf("%q is not a valid Go package name", input)
	}
	return nil
}

// ParseBool accepts y/yes/true/1 and n/no/false/0 (case-insensitive).
func ParseBool(input string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes", "true", "1":
		return true, nil
	case "n", "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("input must be y/yes/true/1 or n/no/false/0")
	}
}

// ValidateEnum resolves input to one of options, either by name
// (case-insensitive) or by 1-based position.
func ValidateEnum(input string, options []string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("no options available")
	}
	input = strings.TrimSpace(input)

	if idx, err := strconv.Atoi(input); err == nil {
		if idx < 1 || idx > len(options) {
			return "", fmt.Errorf("selection must be between 1 and %d", len(options))
		}
		return options[idx-1], nil
	}

	for _, opt := range options {
		if strings.EqualFold(input, opt) {
			return opt, nil
		}
	}

	return "", fmt.Errorf("input must be one of %s", strings.Join(options, ", "))
}

// SplitList splits comma-separated values, dropping empty entries. A
// backslash escapes the next character, so "a\,b" is a single value.
func SplitList(input string) []string {
	var result []string
	var current strings.Builder
	escaped := false

	flush := func() {
		if val := strings.TrimSpace(current.String()); val != "" {
			result = append(result, val)
		}
		current.Reset()
	}

	for _, r := range input {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == ',':
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return result
}
