// Package env locates the directories qmapcontrol-llar keeps its state in.
package env

import (
	"os"
	"path/filepath"

	"github.com/studiofuga/qmapcontrol-llar/mod/module"
)

// HomeEnv overrides the root of all state directories.
const HomeEnv = "LLAR_HOME"

// Home returns the state root: $LLAR_HOME if set, otherwise
// <UserCacheDir>/.llar.
func Home() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return filepath.Abs(dir)
	}
	userCacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userCacheDir, ".llar"), nil
}

// WorkspaceDir returns the directory build, package and cache outputs
// live in.
func WorkspaceDir() (string, error) {
	return subdir("workspace")
}

// SourceDir returns the checkout directory for mod's sources.
func SourceDir(mod module.Version) (string, error) {
	root, err := subdir("sources")
	if err != nil {
		return "", err
	}
	escaped, err := module.EscapePath(mod.Path)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, escaped+"@"+mod.Version), nil
}

func subdir(name string) (string, error) {
	home, err := Home()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, name)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return dir, nil
}
