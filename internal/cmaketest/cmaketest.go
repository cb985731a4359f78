// Package cmaketest provides a fake cmake executable for tests that
// exercise recipes without a C++ toolchain.
package cmaketest

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"
)

// Fake is a shell script standing in for cmake. Every invocation appends
// its arguments as one line to Log and exits with the configured code.
type Fake struct {
	Bin string
	Log string
}

// New writes a fake cmake into a temp dir. It skips the test on platforms
// without a POSIX shell.
func New(t testing.TB, exitCode int) *Fake {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake cmake needs a POSIX shell")
	}
	dir := t.TempDir()
	f := &Fake{
		Bin: filepath.Join(dir, "cmake"),
		Log: filepath.Join(dir, "calls.log"),
	}
	script := "#!/bin/sh\necho \"$@\" >> '" + f.Log + "'\nexit " + strconv.Itoa(exitCode) + "\n"
	if err := os.WriteFile(f.Bin, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake cmake: %v", err)
	}
	return f
}

// Calls returns the recorded invocations, one argument line each.
func (f *Fake) Calls(t testing.TB) []string {
	t.Helper()
	data, err := os.ReadFile(f.Log)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("read fake cmake log: %v", err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}
