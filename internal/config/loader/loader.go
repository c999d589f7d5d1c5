// Package loader reads configuration sources into nested maps keyed by
// section and setting name, ready to be merged and decoded.
package loader

import (
	"io/fs"
	"os"
)

// Loader is implemented by every configuration source.
type Loader interface {
	// Load returns the settings of the source. A source that does not
	// exist returns nil, nil.
	Load() (map[string]any, error)
}

// FileSystem is the file access used by file loaders.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// DefaultFS returns the OS file system.
func DefaultFS() FileSystem {
	return OSFS{}
}

// Merge copies src into dst, descending into sections present in both.
// Values from src win. dst is returned, allocated if nil.
func Merge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		sub, ok := v.(map[string]any)
		if !ok {
			dst[k] = v
			continue
		}
		existing, ok := dst[k].(map[string]any)
		if !ok {
			existing = nil
		}
		dst[k] = Merge(existing, sub)
	}
	return dst
}
