// export by github.com/goplus/ixgo/cmd/qexp

package formula

import (
	q "github.com/studiofuga/qmapcontrol-llar/formula"

	"go/constant"
	"reflect"

	"github.com/goplus/ixgo"
)

func init() {
	ixgo.RegisterPackage(&ixgo.Package{
		Name: "formula",
		Path: "github.com/studiofuga/qmapcontrol-llar/formula",
		Deps: map[string]string{
			"context":                "context",
			"errors":                 "errors",
			"fmt":                    "fmt",
			"github.com/qiniu/x/gsh": "gsh",
			"github.com/rs/zerolog":  "zerolog",
			"github.com/studiofuga/qmapcontrol-llar/mod/module": "module",
			"io":            "io",
			"io/fs":         "fs",
			"maps":          "maps",
			"os":            "os",
			"path/filepath": "filepath",
			"slices":        "slices",
			"sort":          "sort",
			"strings":       "strings",
		},
		Interfaces: map[string]reflect.Type{},
		NamedTypes: map[string]reflect.Type{
			"BuildResult": reflect.TypeOf((*q.BuildResult)(nil)).Elem(),
			"Context":     reflect.TypeOf((*q.Context)(nil)).Elem(),
			"Matrix":      reflect.TypeOf((*q.Matrix)(nil)).Elem(),
			"Metadata":    reflect.TypeOf((*q.Metadata)(nil)).Elem(),
			"ModuleDeps":  reflect.TypeOf((*q.ModuleDeps)(nil)).Elem(),
			"ModuleF":     reflect.TypeOf((*q.ModuleF)(nil)).Elem(),
			"PackageInfo": reflect.TypeOf((*q.PackageInfo)(nil)).Elem(),
			"Project":     reflect.TypeOf((*q.Project)(nil)).Elem(),
		},
		AliasTypes: map[string]reflect.Type{},
		Vars:       map[string]reflect.Value{},
		Funcs: map[string]reflect.Value{
			"Gopt_ModuleF_Main": reflect.ValueOf(q.Gopt_ModuleF_Main),
		},
		TypedConsts: map[string]ixgo.TypedConst{},
		UntypedConsts: map[string]ixgo.UntypedConst{
			"GopPackage": {Typ: "untyped bool", Value: constant.MakeBool(bool(q.GopPackage))},
		},
	})
}
