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

// Package log configures the structured logger shared by the CLI and the
// compiler.
package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format is a log output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// LevelTrace sits below debug and carries the start record of every
// pipeline stage.
const LevelTrace = slog.Level(-8)

// Record keys shared by every component.
const (
	RunIDKey    = "run_id"
	TargetKey   = "target"
	DomainKey   = "domain"
	StageKey    = "stage"
	DurationKey = "duration_ms"
	EventKey    = "event"
)

// Config holds logger configuration. The zero value logs text at info
// level to stderr.
type Config struct {
	// Level is trace, debug, info, warn or error.
	Level string

	Format Format

	// Output defaults to os.Stderr.
	Output io.Writer

	AddSource bool
}

// ApplyEnv lets the environment override c. CDPGEN_DEBUG=1 (or "true")
// selects debug with source locations; otherwise CDPGEN_LOG_LEVEL, if
// set, replaces the level.
func (c *Config) ApplyEnv() {
	if debug := os.Getenv("CDPGEN_DEBUG"); debug == "true" || debug == "1" {
		c.Level = "debug"
		c.AddSource = true
	} else if level := os.Getenv("CDPGEN_LOG_LEVEL"); level != "" {
		c.Level = strings.ToLower(level)
	}
}

// New builds a logger from cfg. A nil cfg uses the zero Config.
func New(cfg *Config) *slog.Logger {
	if cfg == nil {
		cfg = &Config{}
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level), AddSource: cfg.AddSource}

	if cfg.Format == FormatJSON {
		return slog.New(slog.NewJSONHandler(out, opts))
	}
	return slog.New(slog.NewTextHandler(out, opts))
}

// ParseLevel converts a level name to a slog.Level. Unknown names map to
// info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// WithComponent tags records with the emitting component.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With("component", component)
}

// WithRunContext tags records with a compile run and, when set, the
// config target it builds.
func WithRunContext(logger *slog.Logger, runID, target string) *slog.Logger {
	logger = logger.With(slog.String(RunIDKey, runID))
	if target != "" {
		logger = logger.With(slog.String(TargetKey, target))
	}
	return logger
}

// WithDomain tags records with a protocol domain.
func WithDomain(logger *slog.Logger, domain string) *slog.Logger {
	return logger.With(slog.String(DomainKey, domain))
}

// Error creates an error attribute.
func Error(err error) slog.Attr {
	return slog.Any("error", err)
}
