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
	"slices"

	"github.com/AlecAivazis/survey/v2"
)

// SurveyPrompter implements Prompter using the survey library.
type SurveyPrompter struct {
	interactive bool
	opts        []survey.AskOpt
}

// NewSurveyPrompter creates a new survey-based prompter. Extra options are
// passed to every survey.AskOne call.
func NewSurveyPrompter(interactive bool, opts ...survey.AskOpt) *SurveyPrompter {
	return &SurveyPrompter{
		interactive: interactive,
		opts:        opts,
	}
}

// PromptString collects a string input using survey.Input.
func (sp *SurveyPrompter) PromptString(ctx context.Context, name, message, def string) (string, error) {
	if err := sp.ready(ctx); err != nil {
		return "", err
	}

	var result string
	prompt := &survey.Input{
		Message: message,
		Default: def,
	}

	opts := append([]survey.AskOpt{survey.WithValidator(func(ans interface{}) error {
		if str, ok := ans.(string); ok {
			return ValidateString(str)
		}
		return nil
	})}, sp.opts...)

	err := survey.AskOne(prompt, &result, opts...)
	return result, err
}

// PromptEnum collects a selection using survey.Select.
func (sp *SurveyPrompter) PromptEnum(ctx context.Context, name, message string, options []string, def string) (string, error) {
	if err := sp.ready(ctx); err != nil {
		return "", err
	}
	if len(options) == 0 {
		return "", fmt.Errorf("no options provided for %s", name)
	}

	var result string
	prompt := &survey.Select{
		Message: message,
		Options: options,
	}
	// survey rejects a default that is not one of the options.
	if slices.Contains(options, def) {
		prompt.Default = def
	}

	err := survey.AskOne(prompt, &result, sp.opts...)
	return result, err
}

// PromptBool collects a yes/no answer using survey.Confirm.
func (sp *SurveyPrompter) PromptBool(ctx context.Context, name, message string, def bool) (bool, error) {
	if err := sp.ready(ctx); err != nil {
		return false, err
	}

	var result bool
	prompt := &survey.Confirm{
		Message: message,
		Default: def,
	}

	err := survey.AskOne(prompt, &result, sp.opts...)
	return result, err
}

// IsInteractive returns whether prompts can be shown.
func (sp *SurveyPrompter) IsInteractive() bool {
	return sp.interactive
}

func (sp *SurveyPrompter) ready(ctx context.Context) error {
	if !sp.interactive {
		return ErrNotInteractive
	}
	return ctx.Err()
}
