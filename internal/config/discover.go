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
	"os"
	"path/filepath"
)

// UserConfigPath returns $XDG_CONFIG_HOME/cdpgen/cdpgen.yaml, with
// XDG_CONFIG_HOME defaulting to ~/.config on every platform.
func UserConfigPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "cdpgen", FileName), nil
}

// Discover returns the config file used when --config is not given: the
// project's ./cdpgen.yaml, else the user config. It returns "" when
// neither exists.
func Discover() string {
	candidates := []string{FileName}
	if user, err := UserConfigPath(); err == nil {
		candidates = append(candidates, user)
	}
	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
