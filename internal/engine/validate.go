package engine

import (
	"fmt"
	"path/filepath"
	"strings"
)

// plan is what a validated run will do.
type plan struct {
	src    string // absolute source
	dst    string // resolved destination: dstDir/base(src)
	srcDir bool
}

// validate runs the pre-flight checks in order. It returns NoResult when the
// run may proceed, otherwise the run-level outcome (already recorded).
func (r *run) validate(src, dstDir string) (plan, Outcome) {
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return plan{}, r.reject(src, dstDir, SourceNotFound, fmt.Errorf("resolve %s: %w", src, err))
	}
	absDst, err := filepath.Abs(dstDir)
	if err != nil {
		return plan{}, r.reject(src, dstDir, IOError, fmt.Errorf("resolve %s: %w", dstDir, err))
	}
	src, dstDir = absSrc, absDst

	srcEntry, err := r.fs.Stat(src)
	if err != nil {
		return plan{}, r.reject(src, dstDir, SourceNotFound, err)
	}

	if dstEntry, err := r.fs.Stat(dstDir); err == nil && !dstEntry.IsDir() {
		return plan{}, r.reject(src, dstDir, DestinationIsFile, nil)
	}

	dst := filepath.Join(dstDir, filepath.Base(src))

	if r.fs.Exists(dst) {
		if same, err := r.fs.SameFile(src, dst); err == nil && same {
			return plan{}, r.reject(src, dst, SourceEqualsDestination, nil)
		}
	}

	p := plan{src: src, dst: dst, srcDir: srcEntry.IsDir()}
	if !p.srcDir {
		// The worker creates the parent chain for a single file.
		return p, NoResult
	}

	if rel, err := r.fs.Rel(src, dst); err == nil && isWithin(rel) {
		return plan{}, r.reject(src, dst, SourceIsSubdirectoryOfDestination, nil)
	}

	if !r.fs.Exists(dst) {
		if err := r.fs.MkdirAll(dst); err != nil {
			return plan{}, r.reject(src, dst, IOError, err)
		}
	}

	if r.cfg.Conflict == Cancel {
		if o := r.prescan(p); o != NoResult {
			return plan{}, o
		}
	}

	return p, NoResult
}

// prescan aborts a Cancel-mode run before any copy starts when an
// immediate child of the destination collides with a source entry. Two
// directories of the same name are not a collision; files below them are
// caught by the workers.
func (r *run) prescan(p plan) Outcome {
	children, err := r.fs.ReadDir(p.dst)
	if err != nil {
		return r.reject(p.src, p.dst, IOError, err)
	}
	for _, child := range children {
		srcChild := filepath.Join(p.src, child.Name)
		srcEntry, err := r.fs.Stat(srcChild)
		if err != nil {
			continue
		}
		if srcEntry.IsDir() && child.IsDir() {
			continue
		}
		return r.reject(srcChild, filepath.Join(p.dst, child.Name), FileExists, nil)
	}
	return NoResult
}

// isWithin reports whether a relative path stays inside its base (".", or
// a path that does not climb out with "..").
func isWithin(rel string) bool {
	if rel == "." {
		return true
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return !filepath.IsAbs(rel)
}
