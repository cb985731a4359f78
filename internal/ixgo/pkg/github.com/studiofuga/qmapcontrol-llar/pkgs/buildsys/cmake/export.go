// export by github.com/goplus/ixgo/cmd/qexp

package cmake

import (
	q "github.com/studiofuga/qmapcontrol-llar/pkgs/buildsys/cmake"

	"reflect"

	"github.com/goplus/ixgo"
)

func init() {
	ixgo.RegisterPackage(&ixgo.Package{
		Name: "cmake",
		Path: "github.com/studiofuga/qmapcontrol-llar/pkgs/buildsys/cmake",
		Deps: map[string]string{
			"fmt": "fmt",
			"github.com/studiofuga/qmapcontrol-llar/formula":       "formula",
			"github.com/studiofuga/qmapcontrol-llar/mod/module":    "module",
			"github.com/studiofuga/qmapcontrol-llar/pkgs/buildsys": "buildsys",
			"os":            "os",
			"os/exec":       "exec",
			"path/filepath": "filepath",
			"runtime":       "runtime",
			"sort":          "sort",
			"strings":       "strings",
		},
		Interfaces: map[string]reflect.Type{},
		NamedTypes: map[string]reflect.Type{
			"CMake": reflect.TypeOf((*q.CMake)(nil)).Elem(),
		},
		AliasTypes: map[string]reflect.Type{},
		Vars: map[string]reflect.Value{
			"Bin": reflect.ValueOf(&q.Bin),
		},
		Funcs: map[string]reflect.Value{
			"New": reflect.ValueOf(q.New),
		},
		TypedConsts:   map[string]ixgo.TypedConst{},
		UntypedConsts: map[string]ixgo.UntypedConst{},
	})
}
