// Copyright 2026 The qmapcontrol-llar Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vcs

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

// newUpstream creates a local repository with two tagged commits and
// returns its path.
func newUpstream(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH")
	}
	dir := t.TempDir()
	git := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
		)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}
	write := func(content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, "CMakeLists.txt"), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	git("init", "--quiet")
	write("project(QMapControl VERSION 1.1.100)\n")
	git("add", ".")
	git("commit", "--quiet", "-m", "1.1.100")
	git("tag", "1.1.100")
	write("project(QMapControl VERSION 1.1.101)\n")
	git("add", ".")
	git("commit", "--quiet", "-m", "1.1.101")
	git("tag", "1.1.101")
	return dir
}

func TestGitVCS_Tags(t *testing.T) {
	upstream := newUpstream(t)

	tags, err := NewGitVCS().Tags(context.Background(), upstream)
	if err != nil {
		t.Fatalf("Tags failed: %v", err)
	}
	slices.Sort(tags)
	if want := []string{"1.1.100", "1.1.101"}; !slices.Equal(tags, want) {
		t.Errorf("Tags() = %v, want %v", tags, want)
	}
}

func TestGitVCS_Sync(t *testing.T) {
	// shallow fetches need a URL, not a plain path
	upstream := "file://" + filepath.ToSlash(newUpstream(t))
	vcs := NewGitVCS()
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "QMapControl@1.1.100")

	if err := vcs.Sync(ctx, upstream, "1.1.100", dir); err != nil {
		t.Fatalf("Sync (init) failed: %v", err)
	}
	assertContent(t, dir, "1.1.100")

	if err := vcs.Sync(ctx, upstream, "1.1.101", dir); err != nil {
		t.Fatalf("Sync (update) failed: %v", err)
	}
	assertContent(t, dir, "1.1.101")

	err := vcs.Sync(ctx, upstream, "9.9.9", dir)
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Errorf("Sync to a missing tag = %v, want a wrapped *exec.ExitError", err)
	}
	assertContent(t, dir, "1.1.101")
}

func TestWithGitPath(t *testing.T) {
	vcs := NewGitVCS(WithGitPath(filepath.Join(t.TempDir(), "no-git")))
	if _, err := vcs.Tags(context.Background(), "anything"); err == nil {
		t.Error("Tags with a missing git binary succeeded")
	}
}

func TestRemoteOf(t *testing.T) {
	if got := RemoteOf("studiofuga/QMapControl"); got != "https://github.com/studiofuga/QMapControl" {
		t.Errorf("RemoteOf() = %q", got)
	}
}

func assertContent(t *testing.T, dir, version string) {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "CMakeLists.txt"))
	if err != nil {
		t.Fatalf("read checkout: %v", err)
	}
	if !strings.Contains(string(data), version) {
		t.Errorf("checkout content = %q, want version %s", data, version)
	}
}
