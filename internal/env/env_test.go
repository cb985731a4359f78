package env

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/studiofuga/qmapcontrol-llar/mod/module"
)

func TestHomeDefault(t *testing.T) {
	t.Setenv(HomeEnv, "")
	home, err := Home()
	if err != nil {
		t.Fatalf("Home() returned error: %v", err)
	}

	userCacheDir, err := os.UserCacheDir()
	if err != nil {
		t.Fatalf("os.UserCacheDir() returned error: %v", err)
	}
	if want := filepath.Join(userCacheDir, ".llar"); home != want {
		t.Errorf("Home() = %q, want %q", home, want)
	}
}

func TestHomeOverride(t *testing.T) {
	home := t.TempDir()
	t.Setenv(HomeEnv, home)

	ws, err := WorkspaceDir()
	if err != nil {
		t.Fatalf("WorkspaceDir() error: %v", err)
	}
	if want := filepath.Join(home, "workspace"); ws != want {
		t.Errorf("WorkspaceDir() = %q, want %q", ws, want)
	}

	info, err := os.Stat(ws)
	if err != nil {
		t.Fatalf("workspace not created: %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0700 {
		t.Errorf("workspace perm = %v, want 0700", info.Mode().Perm())
	}
}

func TestSourceDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv(HomeEnv, home)

	got, err := SourceDir(module.Version{Path: "studiofuga/QMapControl", Version: "1.1.101"})
	if err != nil {
		t.Fatalf("SourceDir() error: %v", err)
	}
	want := filepath.Join(home, "sources", "studiofuga", "QMapControl@1.1.101")
	if got != want {
		t.Errorf("SourceDir() = %q, want %q", got, want)
	}

	if _, err := SourceDir(module.Version{Path: "../evil", Version: "1"}); err == nil {
		t.Error("SourceDir() accepted a path escaping the sources dir")
	}
}
