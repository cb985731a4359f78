// Copyright 2026 The qmapcontrol-llar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package module defines the module.Version type along with support code.
package module

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// A Version (for clients, a module.Version) represents a specific version
// of a module identified by its path.
type Version struct {
	Path    string // Module path in the form "owner/repo"
	Version string // Version string (e.g., "3.2.1")
}

// String returns "path@version", or just the path when no version is set.
func (v Version) String() string {
	if v.Version == "" {
		return v.Path
	}
	return v.Path + "@" + v.Version
}

var errEmptyPath = errors.New("empty module path")

// Parse parses a module argument in the form "owner/repo@version" or
// "owner/repo". The version is split at the last '@'.
func Parse(arg string) (Version, error) {
	path, ver := arg, ""
	if i := strings.LastIndexByte(arg, '@'); i >= 0 {
		path, ver = arg[:i], arg[i+1:]
	}
	if path == "" {
		return Version{}, fmt.Errorf("invalid module %q: %w", arg, errEmptyPath)
	}
	if _, _, ok := strings.Cut(path, "/"); !ok {
		return Version{}, fmt.Errorf("invalid module %q: path must be owner/repo", arg)
	}
	return Version{Path: path, Version: ver}, nil
}

// EscapePath returns the escaped form of the given module path as a valid
// file system path. It fails if the module path is invalid.
func EscapePath(path string) (escaped string, err error) {
	return filepath.Localize(path)
}
