// Copyright 2026 The qmapcontrol-llar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package versions

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/studiofuga/qmapcontrol-llar/mod/module"
)

func TestParse_WithData(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    *Versions
		wantErr bool
	}{
		{
			name: "pinned gdal",
			data: `{
				"path": "studiofuga/QMapControl",
				"deps": {
					"1.1.101": [{"path": "OSGeo/gdal", "version": "3.2.1"}]
				}
			}`,
			want: &Versions{
				Path: "studiofuga/QMapControl",
				Dependencies: map[string][]module.Version{
					"1.1.101": {{Path: "OSGeo/gdal", Version: "3.2.1"}},
				},
			},
		},
		{
			name: "no deps field",
			data: `{"path": "studiofuga/QMapControl"}`,
			want: &Versions{Path: "studiofuga/QMapControl"},
		},
		{
			name:    "invalid json",
			data:    `{"path": invalid}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse("", []byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestParse_WithFile(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("valid file", func(t *testing.T) {
		content := `{"path": "studiofuga/QMapControl", "deps": {"1.1.101": [{"path": "OSGeo/gdal", "version": "3.2.1"}]}}`
		file := filepath.Join(tmpDir, "versions.json")
		if err := os.WriteFile(file, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		got, err := Parse(file, nil)
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if got.Path != "studiofuga/QMapControl" {
			t.Errorf("Parse() Path = %v", got.Path)
		}
	})

	t.Run("file not found", func(t *testing.T) {
		if _, err := Parse(filepath.Join(tmpDir, "nonexistent.json"), nil); err == nil {
			t.Error("Parse() expected error for nonexistent file")
		}
	})
}

func TestLookup(t *testing.T) {
	v := &Versions{
		Dependencies: map[string][]module.Version{
			"1.1.101": {{Path: "OSGeo/gdal", Version: "3.2.1"}},
		},
	}
	if got, ok := v.Lookup("1.1.101", "OSGeo/gdal"); !ok || got != "3.2.1" {
		t.Errorf("Lookup = %q, %v; want 3.2.1, true", got, ok)
	}
	if _, ok := v.Lookup("1.1.101", "madler/zlib"); ok {
		t.Error("Lookup found an undeclared dep")
	}
	if _, ok := v.Lookup("0.9.0", "OSGeo/gdal"); ok {
		t.Error("Lookup found a dep for an unknown recipe version")
	}
}
