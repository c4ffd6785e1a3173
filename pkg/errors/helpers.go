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
	"errors"
	"fmt"
)

// Wrap annotates err with message. A nil err stays nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// FileError attributes an error to the input document it came from.
type FileError struct {
	File string
	Err  error
}

// Error implements the error interface.
func (e *FileError) Error() string {
	return e.File + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *FileError) Unwrap() error { return e.Err }

// Location returns the location of the wrapped error with File filled in.
func (e *FileError) Location() Location {
	loc, _ := LocationOf(e.Err)
	loc.File = e.File
	return loc
}

// InFile attributes err to file. A nil err stays nil.
func InFile(err error, file string) error {
	if err == nil {
		return nil
	}
	return &FileError{File: file, Err: err}
}

// LocationOf returns the location of the first Locator in err's tree.
func LocationOf(err error) (Location, bool) {
	var l Locator
	if errors.As(err, &l) {
		return l.Location(), true
	}
	return Location{}, false
}
