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

// Package prompt collects answers from the terminal for 'cdpgen init
// --interactive'. Prompter hides the terminal library so commands can be
// tested with MockPrompter.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

// ErrNotInteractive is returned when a prompt is attempted without a
// terminal.
var ErrNotInteractive = errors.New("cannot prompt in non-interactive mode")

// Prompter asks single questions.
// Implementations include SurveyPrompter (production) and MockPrompter (testing).
type Prompter interface {
	// PromptString collects free text
	PromptString(ctx context.Context, name, message, def string) (string, error)

	// PromptEnum presents options and returns the selected one
	PromptEnum(ctx context.Context, name, message string, options []string, def string) (string, error)

	// PromptBool asks a yes/no question
	PromptBool(ctx context.Context, name, message string, def bool) (bool, error)

	// IsInteractive returns true if prompts can be displayed
	IsInteractive() bool
}

// Session asks a sequence of questions through a Prompter.
type Session struct {
	prompter Prompter
	progress ProgressTracker
}

// ProgressTracker tracks progress through a session.
type ProgressTracker struct {
	current int
	total   int
}

// NewSession creates a session that asks through p.
func NewSession(p Prompter) *Session {
	return &Session{prompter: p}
}

// FormatProgressPrefix returns a progress indicator such as "[2/4] ", or
// nothing for single questions.
func (s *Session) FormatProgressPrefix() string {
	if s.progress.total > 1 {
		return fmt.Sprintf("[%d/%d] ", s.progress.current, s.progress.total)
	}
	return ""
}

// Ask collects the answers to questions in order, keyed by question name.
// An invalid answer is asked again, up to MaxRetries times.
func (s *Session) Ask(ctx context.Context, questions ...Question) (map[string]string, error) {
	if !s.prompter.IsInteractive() {
		return nil, ErrNotInteractive
	}

	answers := make(map[string]string, len(questions))
	for i, q := range questions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s.progress = ProgressTracker{current: i + 1, total: len(questions)}

		answer, err := s.ask(ctx, q)
		if err != nil {
			return nil, err
		}
		answers[q.Name] = answer
	}
	return answers, nil
}

func (s *Session) ask(ctx context.Context, q Question) (string, error) {
	message := s.FormatProgressPrefix() + q.Message

	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		answer, err := s.once(ctx, q, message)
		if err != nil {
			return "", err
		}
		answer, err = check(q, answer)
		if err == nil {
			return answer, nil
		}
		lastErr = err
	}

	return "", &ValidationError{
		Question: q.Name,
		Reason:   fmt.Sprintf("no valid answer after %d attempts: %v", MaxRetries, lastErr),
	}
}

func (s *Session) once(ctx context.Context, q Question, message string) (string, error) {
	switch q.Kind {
	case KindEnum:
		return s.prompter.PromptEnum(ctx, q.Name, message, q.Options, q.Default)
	case KindBool:
		def, _ := ParseBool(q.Default)
		b, err := s.prompter.PromptBool(ctx, q.Name, message, def)
		return strconv.FormatBool(b), err
	default:
		return s.prompter.PromptString(ctx, q.Name, message, q.Default)
	}
}

// check applies the built-in validation for q's kind followed by
// q.Validate. Enum answers are normalized to the matching option.
func check(q Question, answer string) (string, error) {
	if err := ValidateString(answer); err != nil {
		return "", err
	}
	if q.Kind == KindEnum {
		option, err := ValidateEnum(answer, q.Options)
		if err != nil {
			return "", err
		}
		answer = option
	}
	if q.Validate != nil {
		if err := q.Validate(answer); err != nil {
			return "", err
		}
	}
	return answer, nil
}
