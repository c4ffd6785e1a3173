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

package compiler

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tombee/cdpgen/pkg/protocol/emit"
)

// generatedMarker identifies files this tool wrote.
var generatedMarker = []byte("// Code generated by cdpgen. DO NOT EDIT.")

// WriteFiles writes files into dir as one unit. The files are first written
// to a temporary directory beside dir. When dir already exists it is moved
// aside whole and the staging directory is renamed into its place, so a
// reader never sees a mix of old and new generated files. Entries of the old
// directory that are not generated Go files are then moved into the new one;
// generated files that are no longer part of files are dropped with the old
// directory.
func WriteFiles(dir string, files []*emit.File) (err error) {
	dir = filepath.Clean(dir)
	parent := filepath.Dir(dir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", parent, err)
	}

	staging, err := os.MkdirTemp(parent, "."+filepath.Base(dir)+".tmp-")
	if err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(staging); rmErr != nil && err == nil {
			err = fmt.Errorf("failed to remove staging directory: %w", rmErr)
		}
	}()

	keep := make(map[string]bool, len(files))
	for _, f := range files {
		if f.Name != filepath.Base(f.Name) || !strings.HasSuffix(f.Name, ".go") {
			return fmt.Errorf("invalid generated file name %q", f.Name)
		}
		if err := os.WriteFile(filepath.Join(staging, f.Name), f.Content, 0o644); err != nil {
			return fmt.Errorf("failed to stage %s: %w", f.Name, err)
		}
		keep[f.Name] = true
	}


	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		if err := os.Chmod(staging, 0o755); err != nil {
			return fmt.Errorf("failed to set permissions on %s: %w", staging, err)
		}
		if err := os.Rename(staging, dir); err != nil {
			return fmt.Errorf("failed to move output into %s: %w", dir, err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("failed to stat %s: %w", dir, err)
	case !info.IsDir():
		return fmt.Errorf("output %s exists and is not a directory", dir)
	}

	carried, err := carriedEntries(dir, keep)
	if err != nil {
		return err
	}
	if err := os.Chmod(staging, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", staging, err)
	}

	holder, err := os.MkdirTemp(parent, "."+filepath.Base(dir)+".old-")
	if err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}
	previous := filepath.Join(holder, filepath.Base(dir))
	if err := os.Rename(dir, previous); err != nil {
		_ = os.Remove(holder)
		return fmt.Errorf("failed to move %s aside: %w", dir, err)
	}
	if err := os.Rename(staging, dir); err != nil {
		if rbErr := os.Rename(previous, dir); rbErr != nil {
			return fmt.Errorf("failed to move output into %s: %w (previous output kept in %s)", dir, err, previous)
		}
		_ = os.Remove(holder)
		return fmt.Errorf("failed to move output into %s: %w", dir, err)
	}

	// The new output is complete from here on; a failure only strands
	// non-generated entries, which stay in the backup.
	for _, name := range carried {
		if err := os.Rename(filepath.Join(previous, name), filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("failed to carry %s into %s: %w (previous output kept in %s)", name, dir, err, previous)
		}
	}
	if err := os.RemoveAll(holder); err != nil {
		return fmt.Errorf("failed to remove previous output: %w", err)
	}
	return nil
}

// carriedEntries lists the entries of dir that survive regeneration: every
// entry except generated Go files and files named in keep.
func carriedEntries(dir string, keep map[string]bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}
	var carried []string
	for _, entry := range entries {
		name := entry.Name()
		if keep[name] {
			continue
		}
		if entry.IsDir() || !strings.HasSuffix(name, ".go") {
			carried = append(carried, name)
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		if !bytes.Contains(content, generatedMarker) {
			carried = append(carried, name)
		}
	}
	return carried, nil
}
