// Package config loads build profiles. A profile pins option values,
// points build requirements at installed prefixes and selects the CMake
// generator and build type:
//
//	build_type = "Release"
//	generator  = "Ninja"
//
//	[options]
//	shared = "false"
//
//	[deps]
//	"OSGeo/gdal" = "/opt/gdal-3.2.1"
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/studiofuga/qmapcontrol-llar/internal/env"
)

// DefaultFile is the profile looked up in the state root when no
// profile is given explicitly.
const DefaultFile = "profile.toml"

// Profile is a decoded build profile.
type Profile struct {
	BuildType string            `toml:"build_type"`
	Generator string            `toml:"generator"`
	Source    string            `toml:"source"`
	Options   map[string]string `toml:"options"`
	Deps      map[string]string `toml:"deps"`
	Env       map[string]string `toml:"env"`
}

// Decode reads a profile from r. Unknown keys are an error.
func Decode(r io.Reader) (*Profile, error) {
	var p Profile
	md, err := toml.NewDecoder(r).Decode(&p)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown profile keys: %s", strings.Join(keys, ", "))
	}
	return &p, nil
}

// Load reads the profile at path. An empty path loads DefaultFile from the
// state root, and a missing default profile yields an empty Profile.
func Load(path string) (*Profile, error) {
	explicit := path != ""
	if !explicit {
		home, err := env.Home()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, DefaultFile)
	}
	f, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return &Profile{}, nil
		}
		return nil, err
	}
	defer f.Close()

	p, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

// WithOptions returns a copy of p whose option values are overridden by
// opts.
func (p *Profile) WithOptions(opts map[string]string) *Profile {
	out := *p
	out.Options = maps.Clone(p.Options)
	if out.Options == nil {
		out.Options = make(map[string]string, len(opts))
	}
	maps.Copy(out.Options, opts)
	return &out
}

// Settings returns the host settings the profile selects.
func (p *Profile) Settings() map[string]string {
	s := make(map[string]string, 2)
	if p.BuildType != "" {
		s["build_type"] = p.BuildType
	}
	if p.Generator != "" {
		s["cmake.generator"] = p.Generator
	}
	return s
}

// ParseOptions parses "name=value" pairs as given on the command line.
func ParseOptions(pairs []string) (map[string]string, error) {
	opts := make(map[string]string, len(pairs))
	for _, kv := range pairs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid option %q, want name=value", kv)
		}
		opts[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return opts, nil
}
