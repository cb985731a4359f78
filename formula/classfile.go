package formula

import (
	"slices"

	"github.com/qiniu/x/gsh"
	"github.com/studiofuga/qmapcontrol-llar/mod/module"
)

const GopPackage = true

// -----------------------------------------------------------------------------

// Metadata is the static description of the package a formula produces.
type Metadata struct {
	Name        string
	License     string
	Author      string
	URL         string
	Description string
	Topics      []string
	Settings    []string
}

// ModuleF represents the build formula of a module.
type ModuleF struct {
	gsh.App

	fOnRequire     func(proj *Project, deps *ModuleDeps)
	fOnBuild       func(ctx *Context, proj *Project, out *BuildResult)
	fOnPackage     func(ctx *Context, proj *Project, out *BuildResult)
	fOnPackageInfo func(info *PackageInfo)

	modPath    string
	modFromVer string
	meta       Metadata
	matrix     Matrix
}

func (p *ModuleF) app() *gsh.App {
	return &p.App
}

func (p *ModuleF) Matrix(m Matrix) {
	p.matrix = m
}

// Id sets the module path that this formula serves.
// path should be in the form of "owner/repo".
func (p *ModuleF) Id(path string) {
	p.modPath = path
}

// FromVer sets the minimum version of the module that this formula serves.
func (p *ModuleF) FromVer(ver string) {
	p.modFromVer = ver
}

// Name sets the package name consumers refer to.
func (p *ModuleF) Name(name string) {
	p.meta.Name = name
}

// License sets the license identifier of the packaged library.
func (p *ModuleF) License(license string) {
	p.meta.License = license
}

func (p *ModuleF) Author(author string) {
	p.meta.Author = author
}

// Url sets the upstream project page.
func (p *ModuleF) Url(url string) {
	p.meta.URL = url
}

func (p *ModuleF) Description(desc string) {
	p.meta.Description = desc
}

func (p *ModuleF) Topics(topics ...string) {
	p.meta.Topics = append(p.meta.Topics, topics...)
}

// Settings lists the host settings (os, compiler, build_type, arch) the
// produced binary depends on.
func (p *ModuleF) Settings(settings ...string) {
	p.meta.Settings = append(p.meta.Settings, settings...)
}

// Option declares a build option with its allowed values and default.
func (p *ModuleF) Option(name, def string, values ...string) {
	p.matrix.addOption(name, def, values)
}

// BoolOption declares an ON/OFF build option. Its matrix values are
// name+"ON" and name+"OFF".
func (p *ModuleF) BoolOption(name string, def bool) {
	p.matrix.addOption(name, boolValue(name, def), []string{name + "ON", name + "OFF"})
}

// -----------------------------------------------------------------------------

// ModuleDeps represents the dependencies of a module.
type ModuleDeps struct {
	deps      []module.Version
	buildDeps []module.Version
}

// Deps returns the collected module dependencies.
func (p *ModuleDeps) Deps() []module.Version {
	return slices.Clone(p.deps)
}

// BuildDeps returns the dependencies needed only to compile the module.
func (p *ModuleDeps) BuildDeps() []module.Version {
	return slices.Clone(p.buildDeps)
}

// Require declares that the module being built depends on the specified
// module (by its path and version).
func (p *ModuleDeps) Require(path, ver string) {
	p.deps = append(p.deps, module.Version{Path: path, Version: ver})
}

// BuildRequire declares a dependency that must be present at build time
// but is not propagated to consumers.
func (p *ModuleDeps) BuildRequire(path, ver string) {
	p.buildDeps = append(p.buildDeps, module.Version{Path: path, Version: ver})
}

// OnRequire event is used to retrieve all direct dependencies of a
// project (module). proj is the project being built, deps is used to
// declare dependencies.
func (p *ModuleF) OnRequire(f func(proj *Project, deps *ModuleDeps)) {
	p.fOnRequire = f
}

// OnBuild event is used to instruct the Formula to compile a project.
func (p *ModuleF) OnBuild(f func(ctx *Context, proj *Project, out *BuildResult)) {
	p.fOnBuild = f
}

// OnPackage event installs a compiled project into ctx.PackageDir.
// It only runs after a successful OnBuild.
func (p *ModuleF) OnPackage(f func(ctx *Context, proj *Project, out *BuildResult)) {
	p.fOnPackage = f
}

// OnPackageInfo event declares what downstream consumers link against.
func (p *ModuleF) OnPackageInfo(f func(info *PackageInfo)) {
	p.fOnPackageInfo = f
}

// -----------------------------------------------------------------------------

// Gopt_ModuleF_Main is main entry of this classfile.
func Gopt_ModuleF_Main(this interface {
	app() *gsh.App
	MainEntry()
}) {
	this.MainEntry()
	gsh.InitApp(this.app())
}
