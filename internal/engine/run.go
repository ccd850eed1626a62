package engine

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/bamsammich/treecopy/internal/event"
	"github.com/bamsammich/treecopy/internal/platform"
	"github.com/bamsammich/treecopy/internal/stats"
	"github.com/bamsammich/treecopy/internal/transport"
)

// run holds everything one Copy call shares between the dispatcher and
// its workers. Its config is a snapshot taken when the run started.
type run struct {
	id      string
	cfg     Config
	fs      transport.Filesystem
	ctx     context.Context // done when the run is canceled
	token   Canceler
	log     *AuditLog
	ledger  *AuditLog // successful copies of this run, kept even without auditing
	stats   *stats.Collector
	buffers *platform.BufferPool
	logger  *slog.Logger
	failed  atomic.Bool

	// transition moves the owning engine's state machine.
	transition func(state)
}

// record is the single exit for every terminal event of the run.
func (r *run) record(rec CopyRecord, size int64) Outcome {
	if rec.Outcome.IsFailure() {
		r.failed.Store(true)
	}
	r.log.Append(rec)

	var typ event.Type
	switch rec.Outcome {
	case Success:
		r.ledger.Append(rec)
		r.stats.AddFilesCopied(1)
		r.stats.AddBytesCopied(size)
		typ = event.FileCompleted
		r.logger.Debug("copied", "src", rec.SourcePath, "dst", rec.DestinationPath, "bytes", size)
	case Skipped:
		r.stats.AddFilesSkipped(1)
		typ = event.FileSkipped
		r.logger.Debug("skipped", "src", rec.SourcePath, "dst", rec.DestinationPath)
	case Canceled:
		r.stats.AddFilesCanceled(1)
		typ = event.FileCanceled
		r.logger.Warn("copy interrupted", "src", rec.SourcePath, "dst", rec.DestinationPath, "bytes", size)
	case RollbackSuccess:
		r.stats.AddRolledBack(1)
		typ = event.RollbackFile
		r.logger.Debug("rolled back", "dst", rec.DestinationPath)
	case RollbackError:
		r.stats.AddRollbackFailed(1)
		typ = event.RollbackFailed
		r.logger.Warn("rollback failed", "dst", rec.DestinationPath, "error", rec.Err)
	default:
		r.stats.AddFilesFailed(1)
		typ = event.FileFailed
		r.logger.Warn("copy failed",
			"src", rec.SourcePath,
			"dst", rec.DestinationPath,
			"outcome", rec.Outcome.String(),
			"error", rec.Err,
		)
	}

	r.emit(event.Event{
		Type:    typ,
		Path:    rec.SourcePath,
		DstPath: rec.DestinationPath,
		Outcome: rec.Outcome.String(),
		Size:    size,
		Error:   rec.Err,
	})
	return rec.Outcome
}

// reject records a run-level precondition failure. Nothing has been
// copied, so only the audit log and the logger hear about it.
func (r *run) reject(src, dst string, o Outcome, err error) Outcome {
	r.log.Append(CopyRecord{SourcePath: src, DestinationPath: dst, Outcome: o, Err: err})
	r.logger.Info("copy rejected", "src", src, "dst", dst, "outcome", o.String(), "error", err)
	return o
}

func (r *run) emit(e event.Event) {
	if r.cfg.Events == nil {
		return
	}
	e.Timestamp = time.Now()
	e.RunID = r.id
	select {
	case r.cfg.Events <- e:
	default:
	}
}
