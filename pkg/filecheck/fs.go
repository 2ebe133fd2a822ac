package filecheck

import (
	"io/fs"
	"os"
	"path/filepath"
)

// FileSystem abstracts file system operations for testability.
// Names are slash-separated and relative to the project root.
type FileSystem interface {
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
}

// RealFileSystem implements FileSystem on the real file system below Root.
type RealFileSystem struct {
	Root string
}

func (r *RealFileSystem) path(name string) string {
	return filepath.Join(r.Root, filepath.FromSlash(name))
}

// Stat returns file info for the given path.
func (r *RealFileSystem) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(r.path(name))
}

// ReadFile reads a file's full contents.
func (r *RealFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(r.path(name)) //nolint:gosec // intentional: paths come from the board profile
}
