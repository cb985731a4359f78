// Copyright 2026 The qmapcontrol-llar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ixgo registers the recipe classfile and the Go packages recipes
// may use with the ixgo interpreter. Import it for its side effects.
package ixgo

import (
	"github.com/goplus/ixgo/xgobuild"
	"github.com/goplus/mod/modfile"

	_ "github.com/studiofuga/qmapcontrol-llar/internal/ixgo/pkg/github.com/qiniu/x/gsh"
	_ "github.com/studiofuga/qmapcontrol-llar/internal/ixgo/pkg/github.com/studiofuga/qmapcontrol-llar/formula"
	_ "github.com/studiofuga/qmapcontrol-llar/internal/ixgo/pkg/github.com/studiofuga/qmapcontrol-llar/mod/module"
	_ "github.com/studiofuga/qmapcontrol-llar/internal/ixgo/pkg/github.com/studiofuga/qmapcontrol-llar/pkgs/buildsys"
	_ "github.com/studiofuga/qmapcontrol-llar/internal/ixgo/pkg/github.com/studiofuga/qmapcontrol-llar/pkgs/buildsys/cmake"
)

// ClassExt is the file suffix of recipe classfiles.
const ClassExt = "_llar.gox"

func init() {
	xgobuild.RegisterProject(&modfile.Project{
		Ext:   ClassExt,
		Class: "ModuleF",
		PkgPaths: []string{
			"github.com/studiofuga/qmapcontrol-llar/formula",
		},
	})
}
