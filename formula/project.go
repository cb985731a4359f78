package formula

import (
	"io/fs"
)

// -----------------------------------------------------------------------------

// Project represents a project (module) being built.
type Project struct {
	SourceFS fs.FS
}

// ReadFile reads the content of a file in the project.
func (p *Project) ReadFile(path string) ([]byte, error) {
	return fs.ReadFile(p.SourceFS, path)
}

// Exists reports whether path exists in the project source tree.
func (p *Project) Exists(path string) bool {
	_, err := fs.Stat(p.SourceFS, path)
	return err == nil
}

// -----------------------------------------------------------------------------
