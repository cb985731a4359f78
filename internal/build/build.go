// Package build drives a loaded recipe through its build and package steps
// inside a workspace directory.
package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	classfile "github.com/studiofuga/qmapcontrol-llar/formula"
	"github.com/studiofuga/qmapcontrol-llar/internal/build/lockedfile"
	"github.com/studiofuga/qmapcontrol-llar/internal/config"
	"github.com/studiofuga/qmapcontrol-llar/internal/env"
	"github.com/studiofuga/qmapcontrol-llar/internal/formula"
	"github.com/studiofuga/qmapcontrol-llar/internal/resolve"
	"github.com/studiofuga/qmapcontrol-llar/internal/vcs"
	"github.com/studiofuga/qmapcontrol-llar/mod/module"
	"github.com/studiofuga/qmapcontrol-llar/mod/versions"
)

// ErrNotBuilt is returned by Package when the target has no successful
// build for the selected version and matrix.
var ErrNotBuilt = errors.New("target not built")

// Options configures a Builder.
type Options struct {
	// WorkspaceDir holds build trees, packaged outputs and caches.
	// Defaults to env.WorkspaceDir().
	WorkspaceDir string

	// Require holds the host settings of the matrix. Defaults to the
	// running os and arch.
	Require map[string]string

	// Profile selects options, dependency prefixes and CMake settings.
	Profile *config.Profile

	Logger zerolog.Logger

	// Stdout and Stderr receive subprocess output. Nil discards it.
	Stdout io.Writer
	Stderr io.Writer

	// Sources are consulted for build requirements after the profile and
	// the workspace. Nil means a host pkg-config query.
	Sources []resolve.Source

	// VCS fetches sources when a Target has no SourceDir.
	VCS vcs.VCS

	// Force ignores cached results.
	Force bool
}

// Target is a recipe applied to one version of its module.
type Target struct {
	Formula *formula.Formula

	// Version defaults to the recipe's fromVer.
	Version string

	// SourceDir is the source tree to build. When empty the sources are
	// fetched into the state root.
	SourceDir string

	// Versions pins dependency versions the recipe leaves blank.
	Versions *versions.Versions
}

func (t *Target) module() module.Version {
	ver := t.Version
	if ver == "" {
		ver = t.Formula.FromVer
	}
	return module.Version{Path: t.Formula.ModPath, Version: ver}
}

// Result describes a built or packaged target.
type Result struct {
	Module    module.Version
	Matrix    string
	BuildDir  string
	OutputDir string // empty until packaged
	Metadata  string
	Libs      []string
	Cached    bool
}

// Builder builds and packages recipe targets.
type Builder struct {
	workspaceDir string
	require      map[string]string
	profile      *config.Profile
	log          zerolog.Logger
	stdout       io.Writer
	stderr       io.Writer
	sources      []resolve.Source
	vcs          vcs.VCS
	force        bool
}

// NewBuilder returns a Builder for opts.
func NewBuilder(opts Options) (*Builder, error) {
	b := &Builder{
		workspaceDir: opts.WorkspaceDir,
		require:      opts.Require,
		profile:      opts.Profile,
		log:          opts.Logger,
		stdout:       opts.Stdout,
		stderr:       opts.Stderr,
		sources:      opts.Sources,
		vcs:          opts.VCS,
		force:        opts.Force,
	}
	if b.workspaceDir == "" {
		dir, err := env.WorkspaceDir()
		if err != nil {
			return nil, err
		}
		b.workspaceDir = dir
	}
	if b.require == nil {
		b.require = map[string]string{"arch": runtime.GOARCH, "os": runtime.GOOS}
	}
	if b.profile == nil {
		b.profile = &config.Profile{}
	}
	if b.stdout == nil {
		b.stdout = io.Discard
	}
	if b.stderr == nil {
		b.stderr = io.Discard
	}
	if b.sources == nil {
		b.sources = []resolve.Source{resolve.PkgConfig{}}
	}
	if b.vcs == nil {
		b.vcs = vcs.NewGitVCS()
	}
	return b, nil
}

// job is a target bound to its selected matrix and workspace paths.
type job struct {
	target     *Target
	mod        module.Version
	matrix     classfile.Matrix
	key        string
	sourceDir  string
	buildDir   string
	installDir string
	log        zerolog.Logger
}

// prepare selects the matrix of t and computes its workspace paths. It
// touches neither the network nor the workspace.
func (b *Builder) prepare(t *Target) (*job, error) {
	if t.Formula == nil || t.Formula.OnBuild == nil {
		return nil, errors.New("target has no formula with onBuild")
	}
	mod := t.module()
	matrix, err := t.Formula.Matrix.Select(b.settings(), b.profile.Options)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", mod, err)
	}
	key := matrix.String()
	installDir, err := b.installDir(mod, key)
	if err != nil {
		return nil, err
	}
	return &job{
		target:     t,
		mod:        mod,
		matrix:     matrix,
		key:        key,
		buildDir:   installDir + ".build",
		installDir: installDir,
		log: b.log.With().
			Str("module", mod.Path).
			Str("version", mod.Version).
			Str("matrix", key).
			Logger(),
	}, nil
}

// sourceDir returns the source tree of t, fetching it when t has none.
func (b *Builder) sourceDir(ctx context.Context, t *Target, mod module.Version, log zerolog.Logger) (string, error) {
	if t.SourceDir != "" {
		return filepath.Abs(t.SourceDir)
	}
	if b.profile.Source != "" {
		return filepath.Abs(b.profile.Source)
	}
	dir, err := env.SourceDir(mod)
	if err != nil {
		return "", err
	}
	remote := vcs.RemoteOf(mod.Path)
	ref, err := b.tagOf(ctx, remote, mod.Version)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", mod, err)
	}
	log.Info().Str("remote", remote).Str("ref", ref).Str("dir", dir).Msg("fetching sources")
	if err := b.vcs.Sync(ctx, remote, ref, dir); err != nil {
		return "", fmt.Errorf("fetch %s: %w", mod, err)
	}
	return dir, nil
}

// tagOf returns the remote tag of version, which upstream spells either
// bare or with a "v" prefix.
func (b *Builder) tagOf(ctx context.Context, remote, version string) (string, error) {
	tags, err := b.vcs.Tags(ctx, remote)
	if err != nil {
		return "", err
	}
	for _, ref := range []string{version, "v" + version} {
		if slices.Contains(tags, ref) {
			return ref, nil
		}
	}
	return "", fmt.Errorf("no tag %s or v%s in %s", version, version, remote)
}

// lock serializes work on one module across processes.
func (b *Builder) lock(j *job) (unlock func(), err error) {
	dir, err := b.cacheDir(j.mod.Path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return lockedfile.MutexAt(filepath.Join(dir, ".lock")).Lock()
}

// Build configures and compiles t. A packaged result in the cache makes it
// a no-op.
func (b *Builder) Build(ctx context.Context, t *Target) (*Result, error) {
	j, err := b.prepare(t)
	if err != nil {
		return nil, err
	}
	unlock, err := b.lock(j)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if res, ok := b.cached(j); ok {
		return res, nil
	}
	return b.build(ctx, j)
}

// Package installs a previously built t into its output directory and
// records the consumer metadata. It fails with ErrNotBuilt when t has no
// build stamp.
func (b *Builder) Package(ctx context.Context, t *Target) (*Result, error) {
	j, err := b.prepare(t)
	if err != nil {
		return nil, err
	}
	unlock, err := b.lock(j)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if res, ok := b.cached(j); ok {
		return res, nil
	}
	return b.pack(ctx, j)
}

// Make builds and packages t.
func (b *Builder) Make(ctx context.Context, t *Target) (*Result, error) {
	j, err := b.prepare(t)
	if err != nil {
		return nil, err
	}
	unlock, err := b.lock(j)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if res, ok := b.cached(j); ok {
		return res, nil
	}
	if _, err := b.build(ctx, j); err != nil {
		return nil, err
	}
	return b.pack(ctx, j)
}

// cached returns the packaged result of j when the cache has one and its
// output still exists.
func (b *Builder) cached(j *job) (*Result, bool) {
	if b.force {
		return nil, false
	}
	cache, err := b.loadCache(j.mod.Path)
	if err != nil {
		j.log.Warn().Err(err).Msg("ignoring unreadable cache")
		return nil, false
	}
	entry, ok := cache.get(j.mod.Version, j.key)
	if !ok || !entry.packaged() {
		return nil, false
	}
	if _, err := os.Stat(entry.OutputDir); err != nil {
		return nil, false
	}
	j.log.Info().Str("dir", entry.OutputDir).Msg("using cached package")
	return &Result{
		Module:    j.mod,
		Matrix:    j.key,
		BuildDir:  j.buildDir,
		OutputDir: entry.OutputDir,
		Metadata:  entry.Metadata,
		Libs:      entry.Libs,
		Cached:    true,
	}, true
}

func (b *Builder) build(ctx context.Context, j *job) (*Result, error) {
	log := j.log.With().Str("step", "build").Logger()

	cache, err := b.loadCache(j.mod.Path)
	if err != nil {
		return nil, err
	}
	// A failed build must not leave an older stamp behind.
	if _, ok := cache.get(j.mod.Version, j.key); ok {
		delete(cache.Cache, cacheKey(j.mod.Version, j.key))
		if err := b.saveCache(j.mod.Path, cache); err != nil {
			return nil, err
		}
	}
	j.sourceDir, err = b.sourceDir(ctx, j.target, j.mod, log)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(j.buildDir, 0o755); err != nil {
		return nil, err
	}

	start := time.Now()
	log.Info().Str("source", j.sourceDir).Msg("building")
	if err := b.run(ctx, j, log, j.target.Formula.OnBuild); err != nil {
		log.Error().Err(err).Msg("build failed")
		return nil, fmt.Errorf("build %s: %w", j.mod, err)
	}
	log.Info().Dur("took", time.Since(start)).Msg("built")

	cache.set(j.mod.Version, j.key, &buildEntry{BuildTime: time.Now(), SourceDir: j.sourceDir})
	if err := b.saveCache(j.mod.Path, cache); err != nil {
		return nil, err
	}
	return &Result{Module: j.mod, Matrix: j.key, BuildDir: j.buildDir}, nil
}

func (b *Builder) pack(ctx context.Context, j *job) (*Result, error) {
	log := j.log.With().Str("step", "package").Logger()

	cache, err := b.loadCache(j.mod.Path)
	if err != nil {
		return nil, err
	}
	entry, ok := cache.get(j.mod.Version, j.key)
	if !ok || entry.SourceDir == "" {
		return nil, fmt.Errorf("package %s (%s): %w", j.mod, j.key, ErrNotBuilt)
	}
	// Install the tree that was built, never a fresh fetch.
	if _, err := os.Stat(entry.SourceDir); err != nil {
		return nil, fmt.Errorf("package %s: %w", j.mod, err)
	}
	j.sourceDir = entry.SourceDir
	f := j.target.Formula
	if f.OnPackage == nil {
		return nil, fmt.Errorf("package %s: formula has no onPackage", j.mod)
	}

	if err := os.RemoveAll(j.installDir); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(j.installDir, 0o755); err != nil {
		return nil, err
	}
	log.Info().Str("dir", j.installDir).Msg("packaging")
	if err := b.run(ctx, j, log, f.OnPackage); err != nil {
		log.Error().Err(err).Msg("package failed")
		return nil, fmt.Errorf("package %s: %w", j.mod, err)
	}

	var info classfile.PackageInfo
	if f.OnPackageInfo != nil {
		f.OnPackageInfo(&info)
	}
	entry.PackageTime = time.Now()
	entry.OutputDir = j.installDir
	entry.Metadata = info.Metadata(j.installDir)
	entry.Libs = info.LinkNames()
	if err := b.saveCache(j.mod.Path, cache); err != nil {
		return nil, err
	}
	log.Info().Strs("libs", entry.Libs).Msg("packaged")

	return &Result{
		Module:    j.mod,
		Matrix:    j.key,
		BuildDir:  j.buildDir,
		OutputDir: entry.OutputDir,
		Metadata:  entry.Metadata,
		Libs:      entry.Libs,
	}, nil
}

type stepFunc = func(ctx *classfile.Context, proj *classfile.Project, out *classfile.BuildResult)

// run resolves the build requirements of j and calls step with a fresh
// context. The process environment is restored afterwards, since recipes
// export dependency prefixes through it.
func (b *Builder) run(ctx context.Context, j *job, log zerolog.Logger, step stepFunc) error {
	defer restoreEnv(os.Environ())
	for k, v := range b.profile.Env {
		if err := os.Setenv(k, v); err != nil {
			return err
		}
	}

	proj := &classfile.Project{SourceFS: os.DirFS(j.sourceDir)}
	deps, err := b.requirements(j, proj)
	if err != nil {
		return err
	}
	resolved, err := b.resolver().Resolve(ctx, deps)
	if err != nil {
		return err
	}

	fctx := &classfile.Context{
		Context:    ctx,
		SourceDir:  j.sourceDir,
		BuildDir:   j.buildDir,
		PackageDir: j.installDir,
		Settings:   b.settings(),
		Stdout:     b.stdout,
		Stderr:     b.stderr,
		Logger:     &log,
	}
	fctx.SetCurrentMatrix(j.matrix)
	for _, r := range resolved {
		var res classfile.BuildResult
		res.SetOutputDir(r.Prefix)
		fctx.AddBuildResult(r.Module, res)
	}

	j.target.Formula.SetStdout(b.stdout)
	j.target.Formula.SetStderr(b.stderr)

	var out classfile.BuildResult
	step(fctx, proj, &out)
	return out.Err()
}

// requirements returns the build requirements of j with blank versions
// filled from the target's versions table.
func (b *Builder) requirements(j *job, proj *classfile.Project) ([]module.Version, error) {
	onRequire := j.target.Formula.OnRequire
	if onRequire == nil {
		return nil, nil
	}
	var deps classfile.ModuleDeps
	onRequire(proj, &deps)

	mods := append(deps.BuildDeps(), deps.Deps()...)
	for i, m := range mods {
		if m.Version != "" {
			continue
		}
		if vers := j.target.Versions; vers != nil {
			if v, ok := vers.Lookup(j.mod.Version, m.Path); ok {
				mods[i].Version = v
				continue
			}
		}
		return nil, fmt.Errorf("%s: no version pinned for requirement %s", j.mod, m.Path)
	}
	return mods, nil
}

func (b *Builder) resolver() *resolve.Resolver {
	sources := []resolve.Source{
		resolve.Prefixes(b.profile.Deps),
		resolve.Func{Label: "workspace", Fn: b.lookupPackaged},
	}
	return resolve.New(b.log, append(sources, b.sources...)...)
}

// settings returns the host settings of a build: the required os and
// arch plus the profile's build type and generator. They all take part in
// the matrix key, so each combination gets its own cache entry.
func (b *Builder) settings() map[string]string {
	s := b.profile.Settings()
	for k, v := range b.require {
		s[k] = v
	}
	return s
}

// restoreEnv resets the process environment to saved.
func restoreEnv(saved []string) {
	os.Clearenv()
	for _, e := range saved {
		if k, v, ok := strings.Cut(e, "="); ok {
			os.Setenv(k, v)
		}
	}
}
