package adapters

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"sdformat/internal/ports"
)

// envSearchPath is the colon-separated list of extra model roots honored
// by the default locator.
const envSearchPath = "SDF_PATH"

// FileLocatorAdapter implements FileLocatorPort over the local
// filesystem.  URIs are tried as file:// paths, as model:// names under
// the search roots, and as plain relative or absolute paths.
type FileLocatorAdapter struct {
	searchPaths []string
}

// NewFileLocatorAdapter returns a locator seeded with the working
// directory and the roots named in SDF_PATH.
func NewFileLocatorAdapter() *FileLocatorAdapter {
	a := &FileLocatorAdapter{}
	if cwd, err := os.Getwd(); err == nil {
		a.AddSearchPath(cwd)
	}
	for _, dir := range filepath.SplitList(os.Getenv(envSearchPath)) {
		if dir != "" {
			a.AddSearchPath(dir)
		}
	}
	return a
}

// AddSearchPath appends a directory to the lookup order.
func (a *FileLocatorAdapter) AddSearchPath(dir string) {
	a.searchPaths = append(a.searchPaths, dir)
}

// Locate resolves a URI to an absolute path, or "" on miss.
func (a *FileLocatorAdapter) Locate(uri string) string {
	candidate := uri
	switch {
	case strings.HasPrefix(uri, "file://"):
		candidate = strings.TrimPrefix(uri, "file://")
	case strings.HasPrefix(uri, "model://"):
		name := strings.TrimPrefix(uri, "model://")
		for _, root := range a.searchPaths {
			p := filepath.Join(root, name)
			if exists(p) {
				return mustAbs(p)
			}
		}
		log.Debug().Str("uri", uri).Msg("model uri not found under any search path")
		return ""
	}

	if filepath.IsAbs(candidate) {
		if exists(candidate) {
			return candidate
		}
		return ""
	}
	for _, root := range a.searchPaths {
		p := filepath.Join(root, candidate)
		if exists(p) {
			return mustAbs(p)
		}
	}
	if exists(candidate) {
		return mustAbs(candidate)
	}
	return ""
}

var _ ports.FileLocatorPort = (*FileLocatorAdapter)(nil)

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func mustAbs(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
