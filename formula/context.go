package formula

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/studiofuga/qmapcontrol-llar/mod/module"
)

// Context carries the per-build state handed to formula events.
// It is also a context.Context; builds are cancelled through it.
type Context struct {
	context.Context

	SourceDir  string // exported source tree
	BuildDir   string // out-of-source build tree
	PackageDir string // install prefix of the packaged result

	// Settings holds host settings such as os, arch, build_type and
	// cmake.generator.
	Settings map[string]string

	Stdout io.Writer
	Stderr io.Writer

	// Logger receives log events of the recipe and its build system.
	Logger *zerolog.Logger

	matrix       Matrix
	buildResults map[module.Version]BuildResult
}

// Std returns the underlying context.Context, never nil.
func (c *Context) Std() context.Context {
	if c == nil || c.Context == nil {
		return context.Background()
	}
	return c.Context
}

// Log returns the build logger, a no-op logger when none is set.
func (c *Context) Log() *zerolog.Logger {
	if c == nil || c.Logger == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return c.Logger
}

// Setting returns the host setting name, "" if unset.
func (c *Context) Setting(name string) string {
	return c.Settings[name]
}

// SetCurrentMatrix records the selected matrix of this build.
func (c *Context) SetCurrentMatrix(m Matrix) {
	c.matrix = m
}

// CurrentMatrix returns the selected matrix of this build.
func (c *Context) CurrentMatrix() Matrix {
	return c.matrix
}

// Option returns the selected value of option name.
func (c *Context) Option(name string) string {
	v, _ := c.matrix.Option(name)
	return v
}

// BoolOption reports whether the bool option name is switched on.
func (c *Context) BoolOption(name string) bool {
	return c.Option(name) == name+"ON"
}

// AddBuildResult records the packaged result of a dependency.
func (c *Context) AddBuildResult(mod module.Version, result BuildResult) {
	if c.buildResults == nil {
		c.buildResults = make(map[module.Version]BuildResult)
	}
	c.buildResults[mod] = result
}

// BuildResult returns the packaged result of a dependency.
func (c *Context) BuildResult(mod module.Version) (BuildResult, bool) {
	r, ok := c.buildResults[mod]
	return r, ok
}

// Deps returns the dependencies with a recorded result, sorted by path.
func (c *Context) Deps() []module.Version {
	mods := make([]module.Version, 0, len(c.buildResults))
	for mod := range c.buildResults {
		mods = append(mods, mod)
	}
	slices.SortFunc(mods, func(a, b module.Version) int {
		return strings.Compare(a.String(), b.String())
	})
	return mods
}

func (c *Context) stdout() io.Writer {
	if c == nil || c.Stdout == nil {
		return os.Stdout
	}
	return c.Stdout
}

func (c *Context) stderr() io.Writer {
	if c == nil || c.Stderr == nil {
		return os.Stderr
	}
	return c.Stderr
}

// Output returns the writers subprocesses should use.
func (c *Context) Output() (stdout, stderr io.Writer) {
	return c.stdout(), c.stderr()
}

// -----------------------------------------------------------------------------

// BuildResult represents the result of building a project.
type BuildResult struct {
	errs      []error
	outputDir string
	metadata  string // build output metadata, for C/C++ it's the result of pkg-config.
}

// AddErr records a build error.
func (b *BuildResult) AddErr(err error) {
	if err != nil {
		b.errs = append(b.errs, err)
	}
}

// Errs returns all errors collected during build.
func (b *BuildResult) Errs() []error {
	return b.errs
}

// Err joins all collected errors, nil if there are none.
func (b *BuildResult) Err() error {
	return errors.Join(b.errs...)
}

// OutputDir returns the install prefix of the result.
func (b *BuildResult) OutputDir() string {
	return b.outputDir
}

// SetOutputDir sets the install prefix of the result.
func (b *BuildResult) SetOutputDir(dir string) {
	b.outputDir = dir
}

// Metadata returns the build output metadata.
func (b *BuildResult) Metadata() string {
	return b.metadata
}

// SetMetadata sets the build output metadata.
func (b *BuildResult) SetMetadata(metadata string) {
	b.metadata = metadata
}

// -----------------------------------------------------------------------------

// PackageInfo is what a packaged module exposes to consumers.
type PackageInfo struct {
	libs        []string
	includeDirs []string
	libDirs     []string
	defines     []string
}

// Libs declares the link targets consumers link against.
func (p *PackageInfo) Libs(names ...string) {
	p.libs = append(p.libs, names...)
}

// IncludeDirs declares include directories relative to the package prefix.
func (p *PackageInfo) IncludeDirs(dirs ...string) {
	p.includeDirs = append(p.includeDirs, dirs...)
}

// LibDirs declares library directories relative to the package prefix.
func (p *PackageInfo) LibDirs(dirs ...string) {
	p.libDirs = append(p.libDirs, dirs...)
}

func (p *PackageInfo) Defines(defs ...string) {
	p.defines = append(p.defines, defs...)
}

// LinkNames returns the declared link targets.
func (p *PackageInfo) LinkNames() []string {
	return slices.Clone(p.libs)
}

// Metadata renders pkg-config style flags for a package installed at prefix.
// Include and library dirs default to "include" and "lib".
func (p *PackageInfo) Metadata(prefix string) string {
	includeDirs := p.includeDirs
	if len(includeDirs) == 0 {
		includeDirs = []string{"include"}
	}
	libDirs := p.libDirs
	if len(libDirs) == 0 {
		libDirs = []string{"lib"}
	}

	var flags []string
	for _, d := range includeDirs {
		flags = append(flags, "-I"+filepath.Join(prefix, d))
	}
	for _, d := range p.defines {
		flags = append(flags, "-D"+d)
	}
	for _, d := range libDirs {
		flags = append(flags, "-L"+filepath.Join(prefix, d))
	}
	for _, l := range p.libs {
		flags = append(flags, "-l"+l)
	}
	return strings.Join(flags, " ")
}
