// Copyright 2026 The qmapcontrol-llar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package module

import (
	"path/filepath"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		arg     string
		want    Version
		wantErr bool
	}{
		{arg: "studiofuga/QMapControl@1.1.101", want: Version{Path: "studiofuga/QMapControl", Version: "1.1.101"}},
		{arg: "OSGeo/gdal", want: Version{Path: "OSGeo/gdal"}},
		{arg: "owner/repo@v1@beta", want: Version{Path: "owner/repo@v1", Version: "beta"}},
		{arg: "@1.0.0", wantErr: true},
		{arg: "noslash@1.0.0", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := Parse(tt.arg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.arg, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.arg, got, tt.want)
			}
		})
	}
}

func TestVersionString(t *testing.T) {
	if got := (Version{Path: "OSGeo/gdal", Version: "3.2.1"}).String(); got != "OSGeo/gdal@3.2.1" {
		t.Errorf("String() = %q", got)
	}
	if got := (Version{Path: "OSGeo/gdal"}).String(); got != "OSGeo/gdal" {
		t.Errorf("String() without version = %q", got)
	}
}

func TestEscapePath(t *testing.T) {
	got, err := EscapePath("studiofuga/QMapControl")
	if err != nil {
		t.Fatalf("EscapePath: %v", err)
	}
	if want := filepath.Join("studiofuga", "QMapControl"); got != want {
		t.Errorf("EscapePath = %q, want %q", got, want)
	}
	if _, err := EscapePath("../escape"); err == nil {
		t.Error("EscapePath should reject parent traversal")
	}
}
