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
	"context"
	"fmt"
)

// MockPrompter answers prompts from a script, in order. Once the script
// runs out every prompt returns its default.
type MockPrompter struct {
	interactive bool
	script      []any
	calls       []string
}

// NewMockPrompter returns a MockPrompter that answers with script.
// String and enum prompts take strings, bool prompts take bools.
func NewMockPrompter(interactive bool, script ...any) *MockPrompter {
	return &MockPrompter{interactive: interactive, script: script}
}

func answer[T any](mp *MockPrompter, call, name string, def T) (T, error) {
	mp.calls = append(mp.calls, call+"("+name+")")
	if len(mp.script) == 0 {
		return def, nil
	}
	next := mp.script[0]
	mp.script = mp.script[1:]
	v, ok := next.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("scripted answer for %s is a %T, want %T", name, next, zero)
	}
	return v, nil
}

// PromptString implements Prompter.
func (mp *MockPrompter) PromptString(_ context.Context, name, _, def string) (string, error) {
	return answer(mp, "PromptString", name, def)
}

// PromptEnum implements Prompter. The answer is not checked against
// options; Session does that.
func (mp *MockPrompter) PromptEnum(_ context.Context, name, _ string, _ []string, def string) (string, error) {
	return answer(mp, "PromptEnum", name, def)
}

// PromptBool implements Prompter.
func (mp *MockPrompter) PromptBool(_ context.Context, name, _ string, def bool) (bool, error) {
	return answer(mp, "PromptBool", name, def)
}

// IsInteractive implements Prompter.
func (mp *MockPrompter) IsInteractive() bool {
	return mp.interactive
}

// Calls lists the prompts made so far, as "PromptString(name)".
func (mp *MockPrompter) Calls() []string {
	return mp.calls
}
