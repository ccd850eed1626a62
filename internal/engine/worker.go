package engine

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
)

// copyFile copies one file and records exactly one terminal outcome.
//
//	ValidateSource -> ConflictResolution / CreateParent -> StreamCopy
func (r *run) copyFile(src, dst string) Outcome {
	srcEntry, err := r.fs.Stat(src)
	if err != nil {
		return r.record(CopyRecord{SourcePath: src, DestinationPath: dst, Outcome: SourceNotFound, Err: err}, 0)
	}
	if srcEntry.IsDir() {
		return r.record(CopyRecord{SourcePath: src, DestinationPath: dst, Outcome: SourceNotFound}, 0)
	}
	if !srcEntry.IsRegular() && !r.cfg.IncludeSpecial {
		return r.record(CopyRecord{SourcePath: src, DestinationPath: dst, Outcome: CopySystemFiles}, 0)
	}

	dstEntry, statErr := r.fs.Stat(dst)
	exists := statErr == nil
	if exists && dstEntry.IsDir() {
		return r.record(CopyRecord{SourcePath: src, DestinationPath: dst, Outcome: FileIsSameNameAsDirectory}, 0)
	}

	switch Resolve(exists, r.cfg.Conflict) {
	case SkipFile:
		return r.record(CopyRecord{SourcePath: src, DestinationPath: dst, Outcome: Skipped}, 0)
	case AbortRun:
		r.token.Cancel()
		return r.record(CopyRecord{SourcePath: src, DestinationPath: dst, Outcome: FileExists}, 0)
	case Proceed:
	}

	if !exists {
		if err := r.fs.MkdirAll(filepath.Dir(dst)); err != nil {
			return r.record(CopyRecord{SourcePath: src, DestinationPath: dst, Outcome: IOError, Err: err}, 0)
		}
	}

	written, err := r.stream(src, dst)
	switch {
	case errors.Is(err, errInterrupted):
		// The partial destination stays on disk; rollback only reverses
		// completed copies.
		return r.record(CopyRecord{SourcePath: src, DestinationPath: dst, Outcome: Canceled}, written)
	case err != nil:
		return r.record(CopyRecord{SourcePath: src, DestinationPath: dst, Outcome: IOError, Err: err}, written)
	default:
		return r.record(CopyRecord{SourcePath: src, DestinationPath: dst, Outcome: Success}, written)
	}
}

var errInterrupted = errors.New("copy interrupted")

// stream copies src to dst in BufferSize chunks, polling the cancellation
// signal before every chunk.
func (r *run) stream(src, dst string) (int64, error) {
	in, err := r.fs.OpenRead(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := r.fs.Create(dst)
	if err != nil {
		return 0, err
	}

	bufp := r.buffers.Get()
	defer r.buffers.Put(bufp)
	buf := *bufp

	var written int64
	for {
		if r.token.Canceled() {
			_ = out.Close()
			return written, errInterrupted
		}

		n, readErr := io.ReadFull(in, buf)
		if n > 0 {
			if _, err := out.Write(buf[:n]); err != nil {
				_ = out.Close()
				return written, fmt.Errorf("write %s: %w", dst, err)
			}
			written += int64(n)
		}
		if errors.Is(readErr, io.EOF) || errors.Is(readErr, io.ErrUnexpectedEOF) {
			break
		}
		if readErr != nil {
			_ = out.Close()
			return written, fmt.Errorf("read %s: %w", src, readErr)
		}
	}

	if err := out.Close(); err != nil {
		return written, fmt.Errorf("close %s: %w", dst, err)
	}
	return written, nil
}
