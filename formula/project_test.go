package formula

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"testing/fstest"

	"github.com/studiofuga/qmapcontrol-llar/mod/module"
)

func TestModuleDeps(t *testing.T) {
	deps := &ModuleDeps{}

	deps.Require("owner/repo", "1.2.3")
	deps.BuildRequire("OSGeo/gdal", "3.2.1")

	if got, want := deps.Deps(), []module.Version{{Path: "owner/repo", Version: "1.2.3"}}; !reflect.DeepEqual(got, want) {
		t.Fatalf("ModuleDeps.Deps() = %#v, want %#v", got, want)
	}
	if got, want := deps.BuildDeps(), []module.Version{{Path: "OSGeo/gdal", Version: "3.2.1"}}; !reflect.DeepEqual(got, want) {
		t.Fatalf("ModuleDeps.BuildDeps() = %#v, want %#v", got, want)
	}
}

func TestBuildResult_ErrsAndMetadata(t *testing.T) {
	result := &BuildResult{}
	if result.Err() != nil {
		t.Fatalf("BuildResult.Err() = %v, want nil", result.Err())
	}
	errA := errors.New("configure failed")
	errB := errors.New("build failed")

	result.AddErr(errA)
	result.AddErr(nil)
	result.AddErr(errB)

	if got := result.Errs(); len(got) != 2 || got[0] != errA || got[1] != errB {
		t.Fatalf("BuildResult.Errs() = %#v, want [%v %v]", got, errA, errB)
	}
	if err := result.Err(); !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Fatalf("BuildResult.Err() = %v, want both errors", err)
	}

	result.SetMetadata("-lqmapcontrol")
	if result.Metadata() != "-lqmapcontrol" {
		t.Fatalf("BuildResult.Metadata() = %q", result.Metadata())
	}
}

func TestProject_ReadFile(t *testing.T) {
	proj := &Project{
		SourceFS: fstest.MapFS{
			"CMakeLists.txt": {Data: []byte("project(QMapControl)")},
		},
	}

	got, err := proj.ReadFile("CMakeLists.txt")
	if err != nil {
		t.Fatalf("Project.ReadFile() error = %v", err)
	}
	if string(got) != "project(QMapControl)" {
		t.Fatalf("Project.ReadFile() = %q", string(got))
	}
	if _, err := proj.ReadFile("missing.txt"); err == nil {
		t.Fatalf("Project.ReadFile() error = nil, want error")
	}
	if !proj.Exists("CMakeLists.txt") || proj.Exists("missing.txt") {
		t.Fatalf("Project.Exists() mismatch")
	}
}

func TestContext_Options(t *testing.T) {
	ctx := &Context{}
	ctx.SetCurrentMatrix(Matrix{
		Options:        map[string][]string{"shared": {"sharedOFF"}},
		DefaultOptions: map[string][]string{"shared": {"sharedON"}},
	})
	if ctx.BoolOption("shared") {
		t.Error("BoolOption(shared) = true, want false")
	}
	if got := ctx.Option("shared"); got != "sharedOFF" {
		t.Errorf("Option(shared) = %q", got)
	}
	if ctx.Std() != context.Background() {
		t.Error("Std() should fall back to context.Background")
	}
	ctx.Log().Info().Msg("dropped")

	var nilCtx *Context
	if nilCtx.Log() == nil || nilCtx.Std() == nil {
		t.Error("nil Context should still hand out a logger and a context")
	}
}

func TestContext_BuildResult(t *testing.T) {
	ctx := &Context{}
	gdal := module.Version{Path: "OSGeo/gdal", Version: "3.2.1"}

	if _, ok := ctx.BuildResult(gdal); ok {
		t.Fatalf("Context.BuildResult() ok = true, want false")
	}

	result := BuildResult{}
	result.SetOutputDir("/opt/gdal")
	ctx.AddBuildResult(gdal, result)
	ctx.AddBuildResult(module.Version{Path: "madler/zlib", Version: "1.3"}, BuildResult{})

	got, ok := ctx.BuildResult(gdal)
	if !ok || got.OutputDir() != "/opt/gdal" {
		t.Fatalf("Context.BuildResult() = %+v, %v", got, ok)
	}
	if deps := ctx.Deps(); len(deps) != 2 || deps[0] != gdal {
		t.Fatalf("Context.Deps() = %v, want gdal first", deps)
	}
}

func TestPackageInfo_Metadata(t *testing.T) {
	var info PackageInfo
	info.Libs("qmapcontrol")

	if got := info.LinkNames(); !reflect.DeepEqual(got, []string{"qmapcontrol"}) {
		t.Fatalf("LinkNames() = %v", got)
	}
	got := info.Metadata("/pkg")
	want := "-I/pkg/include -L/pkg/lib -lqmapcontrol"
	if got != want {
		t.Errorf("Metadata() = %q, want %q", got, want)
	}

	info.IncludeDirs("include/QMapControl")
	info.Defines("QMAPCONTROL_SHARED")
	got = info.Metadata("/pkg")
	want = "-I/pkg/include/QMapControl -DQMAPCONTROL_SHARED -L/pkg/lib -lqmapcontrol"
	if got != want {
		t.Errorf("Metadata() = %q, want %q", got, want)
	}
}
