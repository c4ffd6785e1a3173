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

package log

import (
	"context"
	"log/slog"
	"time"
)

// StageRequest describes a pipeline stage about to run.
type StageRequest struct {
	// Stage is the stage name (e.g., "resolve", "emit").
	Stage string

	// Domain is set for per-domain stages.
	Domain string

	// Metadata contains additional fields.
	Metadata map[string]any
}

// StageResponse describes how a pipeline stage finished.
type StageResponse struct {
	Success bool

	// Error is the error message if the stage failed.
	Error string

	// DurationMs is the duration of the stage in milliseconds.
	DurationMs int64

	// Metadata contains additional fields, typically counts.
	Metadata map[string]any
}

func stageAttrs(req *StageRequest, event string) []any {
	attrs := []any{
		EventKey, event,
		StageKey, req.Stage,
	}
	if req.Domain != "" {
		attrs = append(attrs, DomainKey, req.Domain)
	}
	for k, v := range req.Metadata {
		attrs = append(attrs, k, v)
	}
	return attrs
}

// LogStageStart logs the start of a stage at trace level.
func LogStageStart(logger *slog.Logger, req *StageRequest) {
	logger.Log(context.Background(), LevelTrace, "stage started", stageAttrs(req, "stage_start")...)
}

// LogStageDone logs the outcome of a stage at debug level.
func LogStageDone(logger *slog.Logger, req *StageRequest, resp *StageResponse) {
	attrs := stageAttrs(req, "stage_done")
	attrs = append(attrs,
		"success", resp.Success,
		DurationKey, resp.DurationMs,
	)
	if resp.Error != "" {
		attrs = append(attrs, "error", resp.Error)
	}
	for k, v := range resp.Metadata {
		attrs = append(attrs, k, v)
	}

	message := "stage completed"
	if !resp.Success {
		message = "stage failed"
	}
	logger.Log(context.Background(), slog.LevelDebug, message, attrs...)
}

// Stage runs fn as the stage described by req, logging its start and
// outcome. The metadata fn returns is attached to the completion record.
func Stage(logger *slog.Logger, req *StageRequest, fn func() (map[string]any, error)) error {
	start := time.Now()
	LogStageStart(logger, req)

	metadata, err := fn()

	resp := &StageResponse{
		Success:    err == nil,
		DurationMs: time.Since(start).Milliseconds(),
		Metadata:   metadata,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	LogStageDone(logger, req, resp)
	return err
}
