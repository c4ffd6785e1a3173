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

// Package jq filters JSON views of a protocol model with jq expressions.
package jq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/itchyny/gojq"

	cdpgenerrors "github.com/tombee/cdpgen/pkg/errors"
)

const (
	// DefaultTimeout is the default timeout for a query
	DefaultTimeout = 5 * time.Second

	// DefaultMaxInputSize is the default maximum encoded input size (64MB)
	DefaultMaxInputSize = 64 * 1024 * 1024
)

// Executor handles jq expression evaluation with timeout and size limits.
type Executor struct {
	timeout      time.Duration
	maxInputSize int64
}

// NewExecutor creates a new jq executor with the given configuration.
func NewExecutor(timeout time.Duration, maxInputSize int64) *Executor {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if maxInputSize == 0 {
		maxInputSize = DefaultMaxInputSize
	}

	return &Executor{
		timeout:      timeout,
		maxInputSize: maxInputSize,
	}
}

// Execute runs a jq expression against v and returns every value the
// expression produces, in order. v may be any value that encodes to JSON;
// it is converted to plain JSON values first. An empty expression yields v
// itself.
func (e *Executor) Execute(ctx context.Context, expression string, v any) ([]any, error) {
	data, err := e.normalize(v)
	if err != nil {
		return nil, err
	}
	if expression == "" {
		return []any{data}, nil
	}

	code, err := compile(expression)
	if err != nil {
		return nil, err
	}

	execCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var results []any
	iter := code.RunWithContext(execCtx, data)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			var halt *gojq.HaltError
			if errors.As(err, &halt) && halt.Value() == nil {
				break
			}
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("query timeout after %v", e.timeout)
			}
			return nil, fmt.Errorf("query failed: %w", err)
		}
		results = append(results, v)
	}
	return results, nil
}

// Validate validates a jq expression by attempting to compile it.
func (e *Executor) Validate(expression string) error {
	if expression == "" {
		return nil
	}
	_, err := compile(expression)
	return err
}

func compile(expression string) (*gojq.Code, error) {
	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, &cdpgenerrors.ValidationError{
			Field:      "query",
			Message:    fmt.Sprintf("invalid jq expression: %s", err.Error()),
			Suggestion: "see https://jqlang.github.io/jq/manual/ for the expression syntax",
		}
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, &cdpgenerrors.ValidationError{
			Field:   "query",
			Message: fmt.Sprintf("jq compilation failed: %s", err.Error()),
		}
	}
	return code, nil
}

// normalize round-trips v through JSON so gojq only sees maps, slices,
// strings, float64, bool and nil.
func (e *Executor) normalize(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal data: %w", err)
	}
	if int64(len(raw)) > e.maxInputSize {
		return nil, fmt.Errorf("data size (%d bytes) exceeds maximum (%d bytes)",
			len(raw), e.maxInputSize)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode data: %w", err)
	}
	return out, nil
}
