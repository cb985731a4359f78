package resolve

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"

	"github.com/studiofuga/qmapcontrol-llar/mod/module"
)

// pkgConfigNames maps module paths to their pkg-config package names where
// the lowercased repository name is wrong.
var pkgConfigNames = map[string]string{
	"OSGeo/gdal":  "gdal",
	"madler/zlib": "zlib",
	"OSGeo/PROJ":  "proj",
}

// PkgConfigName returns the pkg-config package name of a module path.
func PkgConfigName(modPath string) string {
	if name, ok := pkgConfigNames[modPath]; ok {
		return name
	}
	return strings.ToLower(path.Base(modPath))
}

// -----------------------------------------------------------------------------

// Prefixes resolves modules to install prefixes given explicitly, usually
// from a build profile. The version is read from the prefix's .pc file
// when there is one.
type Prefixes map[string]string

func (Prefixes) Name() string { return "profile" }

func (p Prefixes) Lookup(_ context.Context, mod module.Version) (Found, error) {
	prefix, ok := p[mod.Path]
	if !ok {
		return Found{}, ErrNotFound
	}
	if _, err := os.Stat(prefix); err != nil {
		return Found{}, fmt.Errorf("prefix %s: %w", prefix, err)
	}
	pc := filepath.Join(prefix, "lib", "pkgconfig", PkgConfigName(mod.Path)+".pc")
	ver, err := pcVersion(pc)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Found{}, err
	}
	return Found{Prefix: prefix, Version: ver}, nil
}

// pcVersion reads the Version field of a pkg-config file.
func pcVersion(file string) (string, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if v, ok := strings.CutPrefix(strings.TrimSpace(sc.Text()), "Version:"); ok {
			return strings.TrimSpace(v), nil
		}
	}
	return "", sc.Err()
}

// -----------------------------------------------------------------------------

// Func adapts a lookup function, such as the workspace cache, to a Source.
type Func struct {
	Label string
	Fn    func(mod module.Version) (prefix string, ok bool)
}

func (f Func) Name() string { return f.Label }

func (f Func) Lookup(_ context.Context, mod module.Version) (Found, error) {
	prefix, ok := f.Fn(mod)
	if !ok {
		return Found{}, ErrNotFound
	}
	return Found{Prefix: prefix, Version: mod.Version}, nil
}

// -----------------------------------------------------------------------------

// PkgConfig queries the host with pkg-config.
type PkgConfig struct {
	Bin string // defaults to "pkg-config"
}

func (PkgConfig) Name() string { return "pkg-config" }

func (p PkgConfig) Lookup(ctx context.Context, mod module.Version) (Found, error) {
	bin := p.Bin
	if bin == "" {
		bin = "pkg-config"
	}
	if _, err := exec.LookPath(bin); err != nil {
		return Found{}, ErrNotFound
	}
	name := PkgConfigName(mod.Path)
	ver, err := p.query(ctx, bin, "--modversion", name)
	if err != nil {
		// pkg-config exits non-zero for unknown packages
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Found{}, ErrNotFound
		}
		return Found{}, err
	}
	prefix, err := p.query(ctx, bin, "--variable=prefix", name)
	if err != nil {
		return Found{}, err
	}
	return Found{Prefix: prefix, Version: ver}, nil
}

func (PkgConfig) query(ctx context.Context, bin string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, bin, args...).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
