package transport

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kr/fs"

	"github.com/bamsammich/treecopy/internal/platform"
)

// DefaultDirPerm is the mode used for directories created on the destination.
const DefaultDirPerm = 0o755

// DefaultFilePerm is the mode used for files created on the destination.
const DefaultFilePerm = 0o644

// Compile-time interface check.
var _ Filesystem = (*Local)(nil)

// Local implements Filesystem on the local disk.
type Local struct{}

// NewLocal creates a Local filesystem gateway.
func NewLocal() *Local {
	return &Local{}
}

func (*Local) Stat(path string) (FileEntry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileEntry{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return infoToEntry(path, info), nil
}

func (*Local) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (*Local) SameFile(a, b string) (bool, error) {
	ai, err := os.Stat(a)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", a, err)
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", b, err)
	}
	return os.SameFile(ai, bi), nil
}

func (*Local) Rel(base, target string) (string, error) {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return "", fmt.Errorf("rel %s from %s: %w", target, base, err)
	}
	return rel, nil
}

func (*Local) MkdirAll(path string) error {
	if err := os.MkdirAll(path, DefaultDirPerm); err != nil {
		return fmt.Errorf("mkdir %s: %w", path, err)
	}
	return nil
}

func (*Local) ReadDir(path string) ([]FileEntry, error) {
	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("readdir %s: %w", path, err)
	}

	result := make([]FileEntry, 0, len(dirEntries))
	for _, d := range dirEntries {
		childPath := filepath.Join(path, d.Name())
		result = append(result, statOrLstat(childPath))
	}
	return result, nil
}

// Walk uses kr/fs, which does not descend into symlinked directories.
// Entries are reported with symlinks resolved so a link to a directory
// reads as a directory and a link to a file as a regular file. A symlinked
// root is followed; entry paths stay under root as the caller spelled it.
func (*Local) Walk(root string, fn WalkFunc) error {
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return fmt.Errorf("walk %s: %w", root, err)
	}

	walker := fs.Walk(resolved)
	for walker.Step() {
		path := walker.Path()
		if path == resolved {
			if err := walker.Err(); err != nil {
				return fmt.Errorf("walk %s: %w", root, err)
			}
			continue
		}
		rebased := rebase(root, resolved, path)

		if err := walker.Err(); err != nil {
			entry := FileEntry{Path: rebased, Name: filepath.Base(rebased)}
			if stop := fn(entry, fmt.Errorf("walk %s: %w", rebased, err)); stop != nil {
				return stop
			}
			continue
		}

		entry := statOrLstat(path)
		entry.Path = rebased
		if err := fn(entry, nil); err != nil {
			return err
		}
	}
	return nil
}

// rebase maps a path under resolved onto the same position under root.
func rebase(root, resolved, path string) string {
	if root == resolved {
		return path
	}
	rel, err := filepath.Rel(resolved, path)
	if err != nil {
		return path
	}
	return filepath.Join(root, rel)
}

func (*Local) OpenRead(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	platform.AdviseSequential(f)
	return f, nil
}

func (*Local) Create(path string) (io.WriteCloser, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, DefaultFilePerm)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, nil
}

func (*Local) Remove(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

// statOrLstat resolves symlinks, falling back to the link itself when the
// target is missing.
func statOrLstat(path string) FileEntry {
	info, err := os.Stat(path)
	if err != nil {
		info, err = os.Lstat(path)
		if err != nil {
			return FileEntry{Path: path, Name: filepath.Base(path), Mode: os.ModeIrregular}
		}
	}
	return infoToEntry(path, info)
}

func infoToEntry(path string, info os.FileInfo) FileEntry {
	return FileEntry{
		Path: path,
		Name: info.Name(),
		Size: info.Size(),
		Mode: info.Mode(),
	}
}
