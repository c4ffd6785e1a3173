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

// Package watch reruns a function when protocol documents change on disk.
package watch

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Op names a filesystem change.
type Op string

const (
	OpCreated  Op = "created"
	OpModified Op = "modified"
	OpDeleted  Op = "deleted"
	OpRenamed  Op = "renamed"
)

// opFor maps fsnotify operations to Ops. Chmod is not mapped.
func opFor(op fsnotify.Op) (Op, bool) {
	switch {
	case op.Has(fsnotify.Create):
		return OpCreated, true
	case op.Has(fsnotify.Write):
		return OpModified, true
	case op.Has(fsnotify.Remove):
		return OpDeleted, true
	case op.Has(fsnotify.Rename):
		return OpRenamed, true
	}
	return "", false
}

// Event is one change to a watched file.
type Event struct {
	// Path is the absolute path of the file
	Path string `json:"path"`

	// Name is the filename without directory component
	Name string `json:"name"`

	Op Op `json:"op"`

	// Time is when the change was observed
	Time time.Time `json:"time"`
}

func newEvent(path string, op Op) Event {
	return Event{Path: path, Name: filepath.Base(path), Op: op, Time: time.Now()}
}

// Paths returns the distinct paths of events in first-seen order.
func Paths(events []Event) []string {
	seen := make(map[string]bool, len(events))
	var paths []string
	for _, e := range events {
		if !seen[e.Path] {
			seen[e.Path] = true
			paths = append(paths, e.Path)
		}
	}
	return paths
}
