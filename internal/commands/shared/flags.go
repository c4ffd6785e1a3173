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

package shared

import (
	"io"
	"log/slog"

	"github.com/tombee/cdpgen/internal/config"
	"github.com/tombee/cdpgen/internal/log"
)

// Global flag values - set by root command
var (
	verboseFlag bool
	quietFlag   bool
	jsonFlag    bool
	configFlag  string

	// Build-time version information
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// RegisterFlagPointers returns pointers to flag variables for binding.
// Called by root command to register flags.
func RegisterFlagPointers() (*bool, *bool, *bool, *string) {
	return &verboseFlag, &quietFlag, &jsonFlag, &configFlag
}

// SetVersion sets the version information (called from main)
func SetVersion(v, c, b string) {
	version = v
	commit = c
	buildDate = b
}

// GetVerbose returns the verbose flag value
func GetVerbose() bool {
	return verboseFlag
}

// GetQuiet returns the quiet flag value
func GetQuiet() bool {
	return quietFlag
}

// GetJSON returns the JSON output flag value
func GetJSON() bool {
	return jsonFlag
}

// GetConfigPath returns the config file path
func GetConfigPath() string {
	return configFlag
}

// GetVersion returns version information
func GetVersion() (string, string, string) {
	return version, commit, buildDate
}

// SetConfigPathForTest sets the config path for testing purposes
func SetConfigPathForTest(path string) {
	configFlag = path
}

// SetJSONForTest sets the --json flag for testing purposes
func SetJSONForTest(enabled bool) {
	jsonFlag = enabled
}

// SetQuietForTest sets the --quiet flag for testing purposes
func SetQuietForTest(enabled bool) {
	quietFlag = enabled
}

// ResetFlagsForTest restores every global flag to its zero value.
func ResetFlagsForTest() {
	verboseFlag, quietFlag, jsonFlag, configFlag = false, false, false, ""
}

// LoadConfig loads the file named by --config, or the discovered
// cdpgen.yaml when the flag is unset. With neither, defaults and the
// environment apply.
func LoadConfig() (*config.Config, error) {
	path := configFlag
	if path == "" {
		path = config.Discover()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, NewInvalidInputError("", err)
	}
	return cfg, nil
}

// NewLogger builds the command logger. Logs go to w (normally stderr) so
// stdout stays clean for generated output and JSON. --verbose lowers the
// level to debug and --quiet raises it to warn; CDPGEN_DEBUG and
// CDPGEN_LOG_LEVEL still win over both.
func NewLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	lc := &log.Config{
		Level:     cfg.Log.Level,
		Format:    log.Format(cfg.Log.Format),
		Output:    w,
		AddSource: cfg.Log.AddSource,
	}
	switch {
	case verboseFlag:
		lc.Level = "debug"
	case quietFlag:
		lc.Level = "warn"
	}
	lc.ApplyEnv()
	return log.New(lc)
}
