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

import "fmt"

// Kind selects how a question is asked.
type Kind string

const (
	// KindString asks for free text
	KindString Kind = "string"

	// KindList asks for comma-separated values; see SplitList
	KindList Kind = "list"

	// KindEnum offers a fixed set of options
	KindEnum Kind = "enum"

	// KindBool asks a yes/no question
	KindBool Kind = "bool"
)

// Question is one value collected from the user.
type Question struct {
	// Name keys the answer in the map returned by Session.Ask.
	Name    string
	Message string
	Kind    Kind
	Options []string // For KindEnum
	Default string

	// Validate, when set, runs after the built-in checks. An error makes
	// the session ask again.
	Validate func(string) error
}

// ValidationError reports a question that got no valid answer.
type ValidationError struct {
	Question string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Question, e.Reason)
}

// MaxRetries is the number of attempts a question gets before the session
// gives up.
const MaxRetries = 3

// MaxInputSize is the maximum allowed answer size in bytes.
const MaxInputSize = 4096
