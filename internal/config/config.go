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

package config

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	cdpgenerrors "github.com/tombee/cdpgen/pkg/errors"
)

var (
	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// FileName is the name of the configuration file looked up in the working
// directory and in the XDG config directory.
const FileName = "cdpgen.yaml"

// Config represents the complete cdpgen configuration.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Targets  []TargetConfig `yaml:"targets,omitempty"`

	// Path is the file the configuration was loaded from, if any.
	Path string `yaml:"-"`
}

// LogConfig configures logging behavior.
type LogConfig struct {
	// Level sets the minimum log level (trace, debug, info, warn, error).
	// Environment: LOG_LEVEL
	// Default: info
	Level string `yaml:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error"`

	// Format sets the output format (json, text).
	// Environment: LOG_FORMAT
	// Default: text
	Format string `yaml:"format" jsonschema:"enum=text,enum=json"`

	// AddSource adds source file and line information to logs.
	// Environment: LOG_SOURCE
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// DefaultsConfig holds values inherited by every target that leaves them
// unset.
type DefaultsConfig struct {
	// Package is the Go package name of generated bindings.
	// Environment: CDPGEN_PACKAGE
	// Default: cdp
	Package string `yaml:"package"`

	// Output is the directory generated files are written to.
	// Environment: CDPGEN_OUTPUT
	Output string `yaml:"output,omitempty"`

	// Header is a comment block placed at the top of every generated file,
	// typically a license.
	Header string `yaml:"header,omitempty"`
}

// TargetConfig describes one generated package.
type TargetConfig struct {
	// Name identifies the target on the command line and in logs.
	Name string `yaml:"name" jsonschema:"required,minLength=1"`

	// Inputs are protocol documents, merged in order. Relative paths are
	// resolved against the directory of the configuration file.
	Inputs []string `yaml:"inputs" jsonschema:"required,minItems=1"`

	// Output is the directory the package is written to. Relative paths
	// are resolved against the directory of the configuration file.
	Output string `yaml:"output,omitempty"`

	Package string `yaml:"package,omitempty"`
	Header  string `yaml:"header,omitempty"`

	// Include and Exclude are glob patterns over domain names.
	Include []string `yaml:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`

	// Where is a boolean expression over domain metadata, for example
	// "!experimental && !deprecated".
	Where string `yaml:"where,omitempty"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:     "info",
			Format:    "text",
			AddSource: false,
		},
		Defaults: DefaultsConfig{
			Package: "cdp",
		},
	}
}

// Load loads configuration from environment variables and optionally from a YAML file.
// Environment variables take precedence over file-based configuration.
// If configPath is empty, only environment variables are used.
//
// A .env file in the working directory, and one beside the configuration
// file, are loaded first. Variables already set in the environment win.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	dotenv := []string{".env"}
	if configPath != "" {
		dotenv = append(dotenv, filepath.Join(filepath.Dir(configPath), ".env"))
	}
	if err := loadDotenv(dotenv...); err != nil {
		return nil, &cdpgenerrors.ConfigError{
			Key:    "dotenv",
			Reason: "failed to load .env file",
			Cause:  err,
		}
	}

	if configPath != "" {
		if err := cfg.loadFromFile(configPath); err != nil {
			return nil, &cdpgenerrors.ConfigError{
				Key:    "config_file",
				Reason: fmt.Sprintf("failed to load from %s", configPath),
				Cause:  err,
			}
		}
	}

	// Override with environment variables before targets inherit defaults
	cfg.loadFromEnv()

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, &cdpgenerrors.ConfigError{
			Key:    "validation",
			Reason: "configuration validation failed",
			Cause:  err,
		}
	}

	return cfg, nil
}

// loadDotenv loads each .env file that exists, once.
func loadDotenv(paths ...string) error {
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		if _, err := os.Stat(abs); err != nil {
			continue
		}
		if err := godotenv.Load(abs); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// applyDefaults fills in zero values with sensible defaults and lets
// targets inherit the shared defaults.
func (c *Config) applyDefaults() {
	defaults := Default()

	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = defaults.Log.Format
	}
	if c.Defaults.Package == "" {
		c.Defaults.Package = defaults.Defaults.Package
	}

	for i := range c.Targets {
		t := &c.Targets[i]
		if t.Package == "" {
			t.Package = c.Defaults.Package
		}
		if t.Output == "" {
			t.Output = c.Defaults.Output
		}
		if t.Header == "" {
			t.Header = c.Defaults.Header
		}
	}
}

// loadFromFile loads configuration from a YAML file.
func (c *Config) loadFromFile(path string) error {
	// Expand home directory if present
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	c.Path = path
	base := filepath.Dir(path)
	for i := range c.Targets {
		t := &c.Targets[i]
		for j, input := range t.Inputs {
			t.Inputs[j] = relativeTo(base, input)
		}
		t.Output = relativeTo(base, t.Output)
	}
	c.Defaults.Output = relativeTo(base, c.Defaults.Output)

	return nil
}

func relativeTo(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// loadFromEnv loads configuration from environment variables.
func (c *Config) loadFromEnv() {
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = strings.ToLower(val)
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = strings.ToLower(val)
	}
	if val := os.Getenv("LOG_SOURCE"); val != "" {
		c.Log.AddSource = val == "1" || strings.EqualFold(val, "true")
	}

	if val := os.Getenv("CDPGEN_PACKAGE"); val != "" {
		c.Defaults.Package = val
	}
	if val := os.Getenv("CDPGEN_OUTPUT"); val != "" {
		c.Defaults.Output = val
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	var errs []string

	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !validLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level must be one of [trace, debug, info, warn, warning, error], got %q", c.Log.Level))
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Log.Format] {
		errs = append(errs, fmt.Sprintf("log.format must be one of [json, text], got %q", c.Log.Format))
	}
	if !token.IsIdentifier(c.Defaults.Package) {
		errs = append(errs, fmt.Sprintf("defaults.package must be a Go identifier, got %q", c.Defaults.Package))
	}

	names := make(map[string]bool, len(c.Targets))
	for i, t := range c.Targets {
		field := fmt.Sprintf("targets[%d]", i)
		if t.Name == "" {
			errs = append(errs, fmt.Sprintf("%s.name is required", field))
		} else {
			field = fmt.Sprintf("targets[%s]", t.Name)
			if names[t.Name] {
				errs = append(errs, fmt.Sprintf("%s is defined more than once", field))
			}
			names[t.Name] = true
		}
		if len(t.Inputs) == 0 {
			errs = append(errs, fmt.Sprintf("%s.inputs must list at least one protocol document", field))
		}
		if t.Output == "" {
			errs = append(errs, fmt.Sprintf("%s.output is required (or set defaults.output or CDPGEN_OUTPUT)", field))
		}
		if !token.IsIdentifier(t.Package) {
			errs = append(errs, fmt.Sprintf("%s.package must be a Go identifier, got %q", field, t.Package))
		}
		for _, p := range append(append([]string{}, t.Include...), t.Exclude...) {
			if !doublestar.ValidatePattern(p) {
				errs = append(errs, fmt.Sprintf("%s has an invalid domain pattern %q", field, p))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, "; "))
	}
	return nil
}

// Target returns the target named name.
func (c *Config) Target(name string) (*TargetConfig, error) {
	for i := range c.Targets {
		if c.Targets[i].Name == name {
			return &c.Targets[i], nil
		}
	}
	return nil, &cdpgenerrors.NotFoundError{Resource: "target", ID: name}
}
