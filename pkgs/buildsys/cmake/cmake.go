// Package cmake wraps the cmake configure/build/install workflow for formulas.
package cmake

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/studiofuga/qmapcontrol-llar/formula"
	"github.com/studiofuga/qmapcontrol-llar/mod/module"
	"github.com/studiofuga/qmapcontrol-llar/pkgs/buildsys"
)

type defineValue struct {
	value    string
	typeName string
}

// CMake wraps common CMake build steps with chainable configuration.
type CMake struct {
	ctx        *formula.Context
	SourceDir  string
	buildDir   string
	installDir string
	generator  string
	buildType  string
	toolchain  string
	Defines    map[string]defineValue
	env        map[string]string
}

var _ buildsys.BuildSystem = (*CMake)(nil)

// Bin is the cmake executable used by all helpers.
var Bin = "cmake"

// New creates a new CMake helper rooted at the context's source, build and
// package directories. A nil context builds in "./build".
func New(ctx *formula.Context) *CMake {
	c := &CMake{
		ctx:     ctx,
		Defines: map[string]defineValue{},
		env:     map[string]string{},
	}
	if ctx == nil {
		c.buildDir = "build"
		return c
	}
	c.SourceDir = ctx.SourceDir
	c.buildDir = ctx.BuildDir
	c.installDir = ctx.PackageDir
	if c.buildDir == "" {
		c.buildDir = filepath.Join(ctx.SourceDir, "build")
	}
	c.buildType = ctx.Setting("build_type")
	c.generator = ctx.Setting("cmake.generator")
	return c
}

func (c *CMake) Source(dir string) {
	c.SourceDir = dir
}

func (c *CMake) InstallDir(dir string) {
	c.installDir = dir
}

func (c *CMake) Generator(name string) *CMake {
	c.generator = name
	return c
}

func (c *CMake) BuildType(name string) *CMake {
	c.buildType = name
	return c
}

func (c *CMake) Toolchain(path string) *CMake {
	c.toolchain = path
	return c
}

func (c *CMake) Define(key, value string) *CMake {
	if c.Defines == nil {
		c.Defines = map[string]defineValue{}
	}
	c.Defines[key] = defineValue{value: value, typeName: "STRING"}
	return c
}

func (c *CMake) DefineBool(key string, value bool) *CMake {
	if c.Defines == nil {
		c.Defines = map[string]defineValue{}
	}
	if value {
		c.Defines[key] = defineValue{value: "ON", typeName: "BOOL"}
		return c
	}
	c.Defines[key] = defineValue{value: "OFF", typeName: "BOOL"}
	return c
}

// Shared selects a shared (ON) or static (OFF) library via BUILD_SHARED_LIBS.
func (c *CMake) Shared(shared bool) *CMake {
	return c.DefineBool("BUILD_SHARED_LIBS", shared)
}

func (c *CMake) Env(key, value string) {
	if c.env == nil {
		c.env = map[string]string{}
	}
	c.env[key] = value
}

// Use configures the build environment to use the specified module.
func (c *CMake) Use(mod module.Version) {
	if c.ctx == nil {
		panic("cmake: context is not set")
	}
	depResult, ok := c.ctx.BuildResult(mod)
	if !ok {
		panic(fmt.Sprintf("cmake: dep not found: %s", mod))
	}
	usePrefix(depResult.OutputDir())
}

// UseDeps calls Use for every dependency recorded in the context.
func (c *CMake) UseDeps() *CMake {
	if c.ctx == nil {
		return c
	}
	for _, mod := range c.ctx.Deps() {
		c.Use(mod)
	}
	return c
}

func usePrefix(prefix string) {
	includeDir := filepath.Join(prefix, "include")
	libDir := filepath.Join(prefix, "lib")
	pkgconfigDir := filepath.Join(prefix, "lib", "pkgconfig")

	if _, err := os.Stat(pkgconfigDir); err == nil {
		prependEnv("PKG_CONFIG_PATH", pkgconfigDir)
	}
	if _, err := os.Stat(prefix); err == nil {
		prependEnv("CMAKE_PREFIX_PATH", prefix)
	}
	if _, err := os.Stat(includeDir); err == nil {
		prependEnv("CMAKE_INCLUDE_PATH", includeDir)
	}
	if _, err := os.Stat(libDir); err == nil {
		prependEnv("CMAKE_LIBRARY_PATH", libDir)
	}

	if runtime.GOOS == "windows" {
		if _, err := os.Stat(includeDir); err == nil {
			prependEnv("INCLUDE", includeDir)
		}
		if _, err := os.Stat(libDir); err == nil {
			prependEnv("LIB", libDir)
		}
	} else {
		if _, err := os.Stat(includeDir); err == nil {
			appendFlag("CPPFLAGS", "-I"+includeDir)
		}
		if _, err := os.Stat(libDir); err == nil {
			appendFlag("LDFLAGS", "-L"+libDir)
		}
	}
}

// Configure runs "cmake -S <source> -B <build>" with all configured
// definitions. Extra args are appended at the end.
func (c *CMake) Configure(args ...string) error {
	if err := os.MkdirAll(c.buildDir, 0o755); err != nil {
		return err
	}
	cmakeArgs := []string{"-S", c.SourceDir, "-B", c.buildDir}
	if c.generator != "" {
		cmakeArgs = append(cmakeArgs, "-G", c.generator)
	}
	if c.installDir != "" {
		c.Define("CMAKE_INSTALL_PREFIX", c.installDir)
	}
	if c.toolchain != "" {
		c.Define("CMAKE_TOOLCHAIN_FILE", c.toolchain)
	}
	if c.buildType != "" {
		c.Define("CMAKE_BUILD_TYPE", c.buildType)
	}
	cmakeArgs = append(cmakeArgs, c.definesArgs()...)
	cmakeArgs = append(cmakeArgs, args...)

	return c.run("configure", cmakeArgs)
}

// Build runs "cmake --build <build>".
func (c *CMake) Build(args ...string) error {
	cmdArgs := []string{"--build", c.buildDir}
	if c.buildType != "" {
		cmdArgs = append(cmdArgs, "--config", c.buildType)
	}
	cmdArgs = append(cmdArgs, args...)
	return c.run("build", cmdArgs)
}

// Install runs "cmake --install <build>" into the install dir.
func (c *CMake) Install(args ...string) error {
	cmdArgs := []string{"--install", c.buildDir}
	if c.buildType != "" {
		cmdArgs = append(cmdArgs, "--config", c.buildType)
	}
	if c.installDir != "" {
		cmdArgs = append(cmdArgs, "--prefix", c.installDir)
	}
	cmdArgs = append(cmdArgs, args...)
	return c.run("install", cmdArgs)
}

// OutputDir returns the install dir if set, otherwise the build dir.
func (c *CMake) OutputDir() string {
	if c.installDir != "" {
		return c.installDir
	}
	return c.buildDir
}

// BuildDir returns the out-of-source build tree.
func (c *CMake) BuildDir() string {
	return c.buildDir
}

func (c *CMake) definesArgs() []string {
	if len(c.Defines) == 0 {
		return nil
	}
	keys := make([]string, 0, len(c.Defines))
	for k := range c.Defines {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]string, 0, len(keys))
	for _, k := range keys {
		def := c.Defines[k]
		if def.typeName != "" {
			args = append(args, "-D"+k+":"+def.typeName+"="+def.value)
			continue
		}
		args = append(args, "-D"+k+"="+def.value)
	}
	return args
}

// run executes one cmake step; step names it in the returned error.
func (c *CMake) run(step string, args []string) error {
	c.ctx.Log().Debug().Str("bin", Bin).Str("step", step).Strs("args", args).Msg("running cmake")
	cmd := exec.CommandContext(c.ctx.Std(), Bin, args...)
	cmd.Stdout, cmd.Stderr = c.ctx.Output()
	if len(c.env) > 0 {
		cmd.Env = mergeEnv(os.Environ(), c.env)
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("cmake %s: %w", step, err)
	}
	return nil
}

func mergeEnv(base []string, override map[string]string) []string {
	envMap := make(map[string]string, len(base))
	for _, kv := range base {
		if k, v, ok := strings.Cut(kv, "="); ok {
			envMap[k] = v
		}
	}
	for k, v := range override {
		envMap[k] = v
	}
	keys := make([]string, 0, len(envMap))
	for k := range envMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+envMap[k])
	}
	return out
}

// prependEnv prepends a value to an environment variable using the appropriate separator.
func prependEnv(key, value string) {
	sep := string(os.PathListSeparator)
	if current := os.Getenv(key); current != "" {
		value += sep + current
	}
	os.Setenv(key, value)
}

// appendFlag appends a flag to an environment variable (space-separated).
func appendFlag(key, flag string) {
	if current := os.Getenv(key); current != "" {
		flag = strings.TrimSpace(current + " " + flag)
	}
	os.Setenv(key, flag)
}
