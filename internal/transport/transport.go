// Package transport is the filesystem gateway the copy engine talks to.
// The engine never touches the os package directly; every stat, walk, read,
// write and remove goes through Filesystem so tests can substitute a
// fault-injecting implementation.
package transport

import (
	"io"
	"os"
)

// FileEntry describes a single filesystem entry.
type FileEntry struct {
	Path string // path as passed to or produced by the gateway
	Name string // base name
	Size int64
	Mode os.FileMode
}

// IsDir reports whether the entry is a directory.
func (e FileEntry) IsDir() bool { return e.Mode.IsDir() }

// IsRegular reports whether the entry is a regular file.
func (e FileEntry) IsRegular() bool { return e.Mode.IsRegular() }

// IsOther reports whether the entry is neither a directory nor a regular
// file (FIFO, socket, device, dangling symlink).
func (e FileEntry) IsOther() bool { return !e.IsDir() && !e.IsRegular() }

// WalkFunc is called for every entry below the walk root. err is non-nil
// when the entry could not be examined; entry.Path is still set. Returning
// a non-nil error stops the walk and Walk returns it.
type WalkFunc func(entry FileEntry, err error) error

// Filesystem is the set of primitives the copy engine consumes.
type Filesystem interface {
	// Stat returns metadata for path, following symlinks.
	Stat(path string) (FileEntry, error)

	// Exists reports whether path exists (following symlinks).
	Exists(path string) bool

	// SameFile reports whether a and b refer to the same file.
	SameFile(a, b string) (bool, error)

	// Rel returns target expressed relative to base.
	Rel(base, target string) (string, error)

	// MkdirAll creates a directory and all parents.
	MkdirAll(path string) error

	// ReadDir lists the immediate children of a directory.
	ReadDir(path string) ([]FileEntry, error)

	// Walk recursively walks the tree below root in lexical order. The root
	// itself is not reported. Directories are reported before their contents.
	Walk(root string, fn WalkFunc) error

	// OpenRead opens a file for reading.
	OpenRead(path string) (io.ReadCloser, error)

	// Create creates or truncates a file for writing.
	Create(path string) (io.WriteCloser, error)

	// Remove deletes a single file or empty directory.
	Remove(path string) error
}
