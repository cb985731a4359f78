package build

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/studiofuga/qmapcontrol-llar/mod/module"
)

var fixedTime = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func TestSaveAndLoadCache(t *testing.T) {
	b := &Builder{workspaceDir: t.TempDir(), log: zerolog.Nop()}

	cache := &buildCache{}
	cache.set("1.1.101", "amd64-linux|sharedON", &buildEntry{
		BuildTime:   fixedTime,
		PackageTime: fixedTime,
		OutputDir:   "/tmp/output",
		Metadata:    "-lqmapcontrol",
		Libs:        []string{"qmapcontrol"},
		SourceDir:   "/src/QMapControl",
	})
	if err := b.saveCache("studiofuga/QMapControl", cache); err != nil {
		t.Fatalf("saveCache: %v", err)
	}

	loaded, err := b.loadCache("studiofuga/QMapControl")
	if err != nil {
		t.Fatalf("loadCache: %v", err)
	}
	entry, ok := loaded.get("1.1.101", "amd64-linux|sharedON")
	if !ok {
		t.Fatal("entry missing after reload")
	}
	if entry.OutputDir != "/tmp/output" || entry.Metadata != "-lqmapcontrol" || !entry.PackageTime.Equal(fixedTime) ||
		entry.Version != "1.1.101" || entry.SourceDir != "/src/QMapControl" {
		t.Errorf("entry = %+v", entry)
	}
	if _, ok := loaded.get("1.1.101", "amd64-linux|sharedOFF"); ok {
		t.Error("unexpected entry for another matrix")
	}
}

func TestLoadCacheMissing(t *testing.T) {
	b := &Builder{workspaceDir: t.TempDir()}
	cache, err := b.loadCache("studiofuga/QMapControl")
	if err != nil {
		t.Fatal(err)
	}
	if len(cache.Cache) != 0 {
		t.Errorf("cache = %v, want empty", cache.Cache)
	}
}

func TestLoadCacheInvalidJSON(t *testing.T) {
	b := &Builder{workspaceDir: t.TempDir()}
	dir, err := b.cacheDir("studiofuga/QMapControl")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, cacheFile), []byte("invalid json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := b.loadCache("studiofuga/QMapControl"); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestBuildStampIsNotPackaged(t *testing.T) {
	var cache buildCache
	cache.set("1.1.101", "amd64-linux|sharedON", &buildEntry{BuildTime: fixedTime})
	if _, ok := cache.packagedAt("1.1.101"); ok {
		t.Error("build stamp counted as a package")
	}
	cache.set("1.1.101", "amd64-linux|sharedOFF", &buildEntry{BuildTime: fixedTime, PackageTime: fixedTime, OutputDir: "/out"})
	if dir, ok := cache.packagedAt("1.1.101"); !ok || dir != "/out" {
		t.Errorf("packagedAt = %q, %v", dir, ok)
	}
	if _, ok := cache.packagedAt("1.1.10"); ok {
		t.Error("packagedAt matched a version prefix")
	}
}

func TestPackagedAtExactVersion(t *testing.T) {
	var cache buildCache
	cache.set("3.2.1-rc1", "amd64-linux", &buildEntry{PackageTime: fixedTime, OutputDir: "/rc1"})
	if dir, ok := cache.packagedAt("3.2.1"); ok {
		t.Errorf("packagedAt(3.2.1) = %q, matched a 3.2.1-rc1 entry", dir)
	}
	if dir, ok := cache.packagedAt("3.2.1-rc1"); !ok || dir != "/rc1" {
		t.Errorf("packagedAt(3.2.1-rc1) = %q, %v", dir, ok)
	}

	cache.set("3.2.1", "amd64-linux", &buildEntry{PackageTime: fixedTime, OutputDir: "/final"})
	if dir, ok := cache.packagedAt("3.2.1"); !ok || dir != "/final" {
		t.Errorf("packagedAt(3.2.1) = %q, %v, want /final", dir, ok)
	}
}

func TestInstallDir(t *testing.T) {
	b := &Builder{workspaceDir: "/ws"}
	got, err := b.installDir(module.Version{Path: "studiofuga/QMapControl", Version: "1.1.101"}, "amd64-linux|sharedON")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/ws", "studiofuga", "QMapControl@1.1.101-amd64-linux+sharedON"); got != want {
		t.Errorf("installDir = %q, want %q", got, want)
	}
}

func TestLookupPackaged(t *testing.T) {
	b := &Builder{workspaceDir: t.TempDir(), log: zerolog.Nop()}
	gdal := module.Version{Path: "OSGeo/gdal", Version: "3.2.1"}
	if _, ok := b.lookupPackaged(gdal); ok {
		t.Fatal("found package in an empty workspace")
	}

	out := filepath.Join(b.workspaceDir, "gdal-out")
	var cache buildCache
	cache.set(gdal.Version, "amd64-linux", &buildEntry{PackageTime: fixedTime, OutputDir: out})
	if err := b.saveCache(gdal.Path, &cache); err != nil {
		t.Fatal(err)
	}
	if _, ok := b.lookupPackaged(gdal); ok {
		t.Error("found package whose output dir is gone")
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		t.Fatal(err)
	}
	if dir, ok := b.lookupPackaged(gdal); !ok || dir != out {
		t.Errorf("lookupPackaged = %q, %v", dir, ok)
	}
}
