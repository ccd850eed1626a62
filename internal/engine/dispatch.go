package engine

import (
	"errors"
	"path/filepath"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/bamsammich/treecopy/internal/event"
	"github.com/bamsammich/treecopy/internal/transport"
)

var errStopWalk = errors.New("stop walk")

// execute validates, copies and aggregates one run.
func (r *run) execute(src, dstDir string) Outcome {
	r.emit(event.Event{Type: event.RunStarted, Path: src, DstPath: dstDir})

	p, o := r.validate(src, dstDir)
	if o != NoResult {
		r.emit(event.Event{Type: event.RunComplete, Path: src, DstPath: dstDir, Outcome: o.String()})
		return o
	}

	r.transition(stateCopying)
	r.logger.Info("copy started",
		"src", p.src,
		"dst", p.dst,
		"workers", r.cfg.Workers,
		"buffer", r.cfg.BufferSize,
		"conflict", r.cfg.Conflict.String(),
	)

	if p.srcDir {
		o = r.dispatchTree(p)
	} else {
		r.stats.AddFilesDispatched(1)
		o = r.copyFile(p.src, p.dst)
	}

	r.logger.Info("copy finished", "outcome", o.String(), "stats", r.stats.Snapshot().String())
	r.emit(event.Event{Type: event.RunComplete, Path: p.src, DstPath: p.dst, Outcome: o.String()})
	return o
}

// dispatchTree walks the source and runs at most cfg.Workers copies at a
// time. On cancellation it stops walking, joins the in-flight workers and
// rolls back.
func (r *run) dispatchTree(p plan) Outcome {
	sem := semaphore.NewWeighted(int64(r.cfg.Workers))
	var wg sync.WaitGroup

	walkErr := r.fs.Walk(p.src, func(entry transport.FileEntry, err error) error {
		if r.token.Canceled() {
			return errStopWalk
		}
		if err != nil {
			r.record(CopyRecord{SourcePath: entry.Path, Outcome: IOError, Err: err}, 0)
			return nil
		}
		if entry.IsDir() {
			return nil
		}

		rel, err := r.fs.Rel(p.src, entry.Path)
		if err != nil {
			r.record(CopyRecord{SourcePath: entry.Path, Outcome: IOError, Err: err}, 0)
			return nil
		}
		dst := filepath.Join(p.dst, rel)

		if err := sem.Acquire(r.ctx, 1); err != nil {
			return errStopWalk
		}
		if r.token.Canceled() {
			sem.Release(1)
			return errStopWalk
		}

		r.stats.AddFilesDispatched(1)
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)
			r.copyFile(entry.Path, dst)
		}()
		return nil
	})

	wg.Wait()

	if walkErr != nil && !errors.Is(walkErr, errStopWalk) {
		r.record(CopyRecord{SourcePath: p.src, DestinationPath: p.dst, Outcome: IOError, Err: walkErr}, 0)
	}

	if r.token.Canceled() {
		r.transition(stateRollingBack)
		r.rollback()
		return Canceled
	}
	if r.failed.Load() {
		return ErrorWhenCopying
	}
	return Success
}
