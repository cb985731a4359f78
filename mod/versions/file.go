// Copyright 2026 The qmapcontrol-llar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package versions parses a recipe's versions.json, the table of pinned
// dependencies for each recipe version.
package versions

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"slices"

	"github.com/studiofuga/qmapcontrol-llar/mod/module"
)

// Versions represents a module's version file containing its dependencies.
type Versions struct {
	Path         string                      `json:"path"` // Module Path
	Dependencies map[string][]module.Version `json:"deps"` // Recipe version to pinned deps
}

// Parse reads and parses a version file from either provided data or a file path.
// If data is non-nil, it is used directly and the file parameter is ignored.
func Parse(file string, data []byte) (*Versions, error) {
	var reader io.Reader

	if data != nil {
		reader = bytes.NewBuffer(data)
	} else {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		reader = f
	}

	var v Versions

	if err := json.NewDecoder(reader).Decode(&v); err != nil {
		return nil, err
	}

	return &v, nil
}

// Lookup returns the pinned version of dep for the given recipe version.
func (v *Versions) Lookup(version, dep string) (string, bool) {
	pinned := v.Dependencies[version]
	idx := slices.IndexFunc(pinned, func(m module.Version) bool {
		return m.Path == dep
	})
	if idx < 0 {
		return "", false
	}
	return pinned[idx].Version, true
}
