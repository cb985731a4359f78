// Package formula loads recipe classfiles (*_llar.gox) with the ixgo
// interpreter and exposes their metadata and lifecycle events.
package formula

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/goplus/ixgo"
	"github.com/goplus/ixgo/xgobuild"
	"github.com/goplus/xgo/ast"
	"github.com/goplus/xgo/parser"
	"github.com/goplus/xgo/token"

	"github.com/studiofuga/qmapcontrol-llar/formula"
	llarixgo "github.com/studiofuga/qmapcontrol-llar/internal/ixgo"
)

// ErrNoFormula is returned when a directory holds no recipe classfile.
var ErrNoFormula = errors.New("no formula found")

// Formula represents a loaded recipe with its metadata and callbacks.
type Formula struct {
	structElem reflect.Value

	// NOTE: these signatures MUST match the fields of ModuleF in
	// formula/classfile.go
	ModPath       string
	FromVer       string
	Meta          formula.Metadata
	Matrix        formula.Matrix
	OnRequire     func(proj *formula.Project, deps *formula.ModuleDeps)
	OnBuild       func(ctx *formula.Context, proj *formula.Project, out *formula.BuildResult)
	OnPackage     func(ctx *formula.Context, proj *formula.Project, out *formula.BuildResult)
	OnPackageInfo func(info *formula.PackageInfo)
}

// Validate checks the metadata every packaged recipe must carry.
func (f *Formula) Validate() error {
	var missing []string
	if f.ModPath == "" {
		missing = append(missing, "id")
	}
	if f.FromVer == "" {
		missing = append(missing, "fromVer")
	}
	if f.Meta.Name == "" {
		missing = append(missing, "name")
	}
	if f.Meta.License == "" {
		missing = append(missing, "license")
	}
	if f.OnBuild == nil {
		missing = append(missing, "onBuild")
	}
	if len(missing) > 0 {
		return fmt.Errorf("formula %s: missing %s", f.ModPath, strings.Join(missing, ", "))
	}
	return nil
}

// FromVerOf extracts the fromVer value of the recipe file in fsys by
// parsing its AST, without interpreting it.
func FromVerOf(fsys fs.ReadFileFS, file string) (fromVer string, err error) {
	src, err := fsys.ReadFile(file)
	if err != nil {
		return "", err
	}
	fset := token.NewFileSet()
	astFile, err := parser.ParseEntry(fset, file, src, parser.Config{
		ClassKind: xgobuild.ClassKind,
	})
	if err != nil {
		return "", err
	}
	return fromVerFrom(astFile)
}

// recipeFS presents one recipe file of fsys as the only entry of its
// directory. The XGo parser decides the class kind of a file by listing
// its directory, which a single-file parse skips.
type recipeFS struct {
	fsys fs.ReadFileFS
	file string
}

func (p recipeFS) ReadDir(dirname string) ([]fs.DirEntry, error) {
	fi, err := fs.Stat(p.fsys, p.file)
	if err != nil {
		return nil, err
	}
	return []fs.DirEntry{fs.FileInfoToDirEntry(fi)}, nil
}

func (p recipeFS) ReadFile(filename string) ([]byte, error) {
	return p.fsys.ReadFile(filename)
}

func (p recipeFS) Join(elem ...string) string {
	return path.Join(elem...)
}

func (p recipeFS) Base(filename string) string {
	return path.Base(filename)
}

func (p recipeFS) Abs(path string) (string, error) {
	return path, nil
}

// loadFS builds and interprets the recipe file, then extracts the
// struct fields.
func loadFS(fsys fs.ReadFileFS, file string) (*Formula, error) {
	structName, ok := strings.CutSuffix(path.Base(file), llarixgo.ClassExt)
	if !ok || structName == "" {
		return nil, fmt.Errorf("failed to load formula: file name is not valid: %s", file)
	}
	// A recipe without fromVer is rejected before it is interpreted.
	if _, err := FromVerOf(fsys, file); err != nil {
		return nil, fmt.Errorf("failed to load formula %s: %w", file, err)
	}

	ctx := ixgo.NewContext(0)
	source, err := xgobuild.BuildFSDir(ctx, recipeFS{fsys: fsys, file: file}, path.Dir(file))
	if err != nil {
		return nil, err
	}
	pkgs, err := ctx.LoadFile("main.go", source)
	if err != nil {
		return nil, err
	}
	interp, err := ctx.NewInterp(pkgs)
	if err != nil {
		return nil, err
	}

	if err = interp.RunInit(); err != nil {
		return nil, err
	}
	typ, ok := interp.GetType(structName)
	if !ok {
		return nil, fmt.Errorf("failed to load formula: struct name not found: %s", structName)
	}
	val := reflect.New(typ)
	class := val.Elem()

	val.Interface().(interface{ Main() }).Main()

	return &Formula{
		structElem:    class,
		ModPath:       valueOf(class, "modPath").(string),
		FromVer:       valueOf(class, "modFromVer").(string),
		Meta:          valueOf(class, "meta").(formula.Metadata),
		Matrix:        valueOf(class, "matrix").(formula.Matrix),
		OnRequire:     valueOf(class, "fOnRequire").(func(*formula.Project, *formula.ModuleDeps)),
		OnBuild:       valueOf(class, "fOnBuild").(func(*formula.Context, *formula.Project, *formula.BuildResult)),
		OnPackage:     valueOf(class, "fOnPackage").(func(*formula.Context, *formula.Project, *formula.BuildResult)),
		OnPackageInfo: valueOf(class, "fOnPackageInfo").(func(*formula.PackageInfo)),
	}, nil
}

// Load loads a recipe from the local filesystem.
// The path must be within formulaDir.
func Load(formulaDir, file string) (*Formula, error) {
	relPath, err := filepath.Rel(formulaDir, file)
	if err != nil {
		return nil, err
	}
	if relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("failed to load formula: disallow non formula dir access")
	}
	return loadFS(os.DirFS(formulaDir).(fs.ReadFileFS), filepath.ToSlash(relPath))
}

// LoadFS loads a recipe from a filesystem interface.
// The path should be relative to the filesystem root.
func LoadFS(fsys fs.ReadFileFS, file string) (*Formula, error) {
	return loadFS(fsys, file)
}

// LoadDir loads the single recipe classfile found in dir of fsys.
func LoadDir(fsys fs.ReadFileFS, dir string) (*Formula, error) {
	matches, err := fs.Glob(fsys, path.Join(dir, "*"+llarixgo.ClassExt))
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%s: %w", dir, ErrNoFormula)
	case 1:
		return loadFS(fsys, matches[0])
	}
	return nil, fmt.Errorf("%s: multiple formulas: %s", dir, strings.Join(matches, ", "))
}

// SetStdout sets the stdout writer for the formula's gsh.App.
// This is used to control build output verbosity.
func (f *Formula) SetStdout(w io.Writer) {
	if f.structElem.IsValid() {
		setValue(f.structElem, "fout", w)
	}
}

// SetStderr sets the stderr writer for the formula's gsh.App.
func (f *Formula) SetStderr(w io.Writer) {
	if f.structElem.IsValid() {
		setValue(f.structElem, "ferr", w)
	}
}

// fromVerFrom extracts the fromVer value from a formula AST by finding the fromVer() call.
func fromVerFrom(formulaAST *ast.File) (fromVer string, err error) {
	ast.Inspect(formulaAST, func(n ast.Node) bool {
		c, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		if fn, ok := c.Fun.(*ast.Ident); ok && fn.Name == "fromVer" {
			fromVer, err = parseCallArg(c, fn.Name)
			return false
		}
		return true
	})
	if err == nil && fromVer == "" {
		err = errors.New("fromVer not found")
	}
	return
}

// parseCallArg extracts the first string argument from a function call expression.
func parseCallArg(c *ast.CallExpr, fnName string) (string, error) {
	if len(c.Args) == 0 {
		return "", fmt.Errorf("failed to parse %s from AST: no argument", fnName)
	}
	arg, ok := c.Args[0].(*ast.BasicLit)
	if !ok || arg.Kind != token.STRING {
		return "", fmt.Errorf("failed to parse %s from AST: argument is not a string literal", fnName)
	}
	result := strings.Trim(strings.Trim(arg.Value, `"`), "`")
	if result == "" {
		return "", fmt.Errorf("failed to parse %s from AST: empty argument", fnName)
	}
	return result, nil
}
