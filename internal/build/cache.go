package build

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/studiofuga/qmapcontrol-llar/mod/module"
)

// Workspace directory layout:
//
//	workspaceDir/
//	  <escaped>/                            # module-level dir (cacheDir)
//	    .cache.json                         # maps "version-matrix" to buildEntry
//	    .lock
//	  <escaped>@<version>-<matrix>.build/   # cmake build tree (buildDir)
//	  <escaped>@<version>-<matrix>/         # packaged output (installDir)
//	    include/
//	    lib/
//	    ...
const cacheFile = ".cache.json"

// buildEntry records the state of one version/matrix of a module. An entry
// with a zero PackageTime is a build stamp: built but not yet packaged.
// SourceDir is the tree the build ran on; packaging installs from it.
type buildEntry struct {
	Version     string    `json:"version"`
	SourceDir   string    `json:"source_dir,omitempty"`
	BuildTime   time.Time `json:"build_time"`
	PackageTime time.Time `json:"package_time,omitzero"`
	OutputDir   string    `json:"output_dir,omitempty"`
	Metadata    string    `json:"metadata,omitempty"`
	Libs        []string  `json:"libs,omitempty"`
}

func (e *buildEntry) packaged() bool {
	return !e.PackageTime.IsZero()
}

// buildCache maps "version-matrixString" keys to their build entries.
type buildCache struct {
	Cache map[string]*buildEntry `json:"cache"`
}

func cacheKey(version, matrix string) string {
	return version + "-" + matrix
}

func (c *buildCache) get(version, matrix string) (*buildEntry, bool) {
	entry, ok := c.Cache[cacheKey(version, matrix)]
	return entry, ok
}

func (c *buildCache) set(version, matrix string, entry *buildEntry) {
	if c.Cache == nil {
		c.Cache = make(map[string]*buildEntry)
	}
	entry.Version = version
	c.Cache[cacheKey(version, matrix)] = entry
}

// packagedAt returns the output dir of any packaged matrix of version.
// Keys are not split: versions and matrices may both contain "-".
func (c *buildCache) packagedAt(version string) (string, bool) {
	for _, entry := range c.Cache {
		if entry.Version == version && entry.packaged() && entry.OutputDir != "" {
			return entry.OutputDir, true
		}
	}
	return "", false
}

// dirName makes a matrix string safe to use in a file name.
var dirName = strings.NewReplacer("|", "+", ",", "_", " ", "_").Replace

// cacheDir returns the module-level directory for cache storage: workspaceDir/<escapedPath>.
func (b *Builder) cacheDir(modPath string) (string, error) {
	escaped, err := module.EscapePath(modPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(b.workspaceDir, escaped), nil
}

// installDir returns the packaged output directory: workspaceDir/<escapedPath>@<version>-<matrix>.
func (b *Builder) installDir(mod module.Version, matrix string) (string, error) {
	escaped, err := module.EscapePath(mod.Path)
	if err != nil {
		return "", err
	}
	return filepath.Join(b.workspaceDir, fmt.Sprintf("%s@%s-%s", escaped, mod.Version, dirName(matrix))), nil
}

// loadCache reads the cache file for a module from the workspace directory.
// A module that was never built has an empty cache.
func (b *Builder) loadCache(modPath string) (*buildCache, error) {
	dir, err := b.cacheDir(modPath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, cacheFile))
	if errors.Is(err, fs.ErrNotExist) {
		return &buildCache{}, nil
	}
	if err != nil {
		return nil, err
	}
	var cache buildCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Join(dir, cacheFile), err)
	}
	return &cache, nil
}

// saveCache writes the cache file for a module to the workspace directory.
func (b *Builder) saveCache(modPath string, cache *buildCache) error {
	dir, err := b.cacheDir(modPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, cacheFile), data, 0o644)
}

// lookupPackaged finds a packaged copy of mod in the workspace.
func (b *Builder) lookupPackaged(mod module.Version) (string, bool) {
	cache, err := b.loadCache(mod.Path)
	if err != nil {
		b.log.Warn().Err(err).Str("module", mod.String()).Msg("ignoring unreadable cache")
		return "", false
	}
	dir, ok := cache.packagedAt(mod.Version)
	if !ok {
		return "", false
	}
	if _, err := os.Stat(dir); err != nil {
		return "", false
	}
	return dir, true
}
