// Package engine copies a file or directory tree into a destination
// directory with bounded concurrency, conflict handling, cooperative
// cancellation and rollback of canceled runs.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/bamsammich/treecopy/internal/platform"
	"github.com/bamsammich/treecopy/internal/stats"
)

// state is the engine's run lifecycle. All transitions happen under
// Engine.mu, so readers never see a mix of flags from two states.
type state int

const (
	stateIdle state = iota
	stateValidating
	stateCopying
	stateRollingBack
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateValidating:
		return "validating"
	case stateCopying:
		return "copying"
	case stateRollingBack:
		return "rolling back"
	default:
		return "unknown"
	}
}

// Engine runs at most one copy at a time. Its audit log and counters stay
// readable after a run until the next run starts.
type Engine struct {
	mu    sync.Mutex
	state state
	cfg   Config
	token *Token // current run's token; nil when idle
	stats *stats.Collector // reset at the start of every run

	log *AuditLog
}

// New creates an engine. Zero Config fields take their defaults; values
// outside their limits return an error wrapping ErrOutOfRange.
func New(cfg Config) (*Engine, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	collector := stats.NewCollector()
	collector.Stop()
	return &Engine{
		cfg:   cfg,
		log:   NewAuditLog(!cfg.NoAudit),
		stats: collector,
	}, nil
}

// Copy copies src into dstDir (as dstDir/base(src)) and blocks until the
// run finishes. Canceling ctx cancels the run the same way Cancel does.
// A call made while another run is active returns InProgress and changes
// nothing.
//
// A directory source returns a run-level outcome (Success, ErrorWhenCopying
// or Canceled). A single-file source returns that file's own outcome, such
// as Success, Skipped, FileExists or IOError, whether or not auditing is on.
func (e *Engine) Copy(ctx context.Context, src, dstDir string) Outcome {
	r, ok := e.begin(ctx)
	if !ok {
		return InProgress
	}
	defer e.end()
	return r.execute(src, dstDir)
}

func (e *Engine) begin(ctx context.Context) (*run, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != stateIdle {
		return nil, false
	}

	cfg := e.cfg
	token := NewToken(ctx)
	id := uuid.New().String()

	e.state = stateValidating
	e.token = token
	e.stats.Reset()
	e.log.Reset(!cfg.NoAudit)

	return &run{
		id:         id,
		cfg:        cfg,
		fs:         cfg.FS,
		ctx:        token.Context(),
		token:      token,
		log:        e.log,
		ledger:     NewAuditLog(true),
		stats:      e.stats,
		buffers:    platform.NewBufferPool(cfg.BufferSize),
		logger:     cfg.Logger.With("run", id),
		transition: e.transition,
	}, true
}

func (e *Engine) transition(s state) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = s
}

func (e *Engine) end() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.token != nil {
		e.token.release()
		e.token = nil
	}
	e.stats.Stop()
	e.state = stateIdle
}

// Cancel asks the running copy to stop. Workers notice between chunks and
// the dispatcher before the next file; completed copies are then rolled
// back. A no-op when no copy is running.
func (e *Engine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == stateIdle || e.token == nil {
		return
	}
	e.token.Cancel()
}

// InProgress reports whether a copy is running.
func (e *Engine) InProgress() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state != stateIdle
}

// AuditLog returns the records of the current or last run in completion order.
func (e *Engine) AuditLog() []CopyRecord {
	return e.log.Records()
}

// ClearAuditLog drops the records of the last run.
func (e *Engine) ClearAuditLog() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != stateIdle {
		return ErrInProgress
	}
	e.log.Reset(!e.cfg.NoAudit)
	return nil
}

// Stats returns the counters of the current or last run.
func (e *Engine) Stats() stats.Snapshot {
	return e.stats.Snapshot()
}

// Collector exposes the live counters for progress displays. The same
// collector is reused (and reset) by every run.
func (e *Engine) Collector() *stats.Collector {
	return e.stats
}

// Config returns a copy of the current configuration.
func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// mutate applies fn to the configuration unless a run is active.
func (e *Engine) mutate(fn func(*Config)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != stateIdle {
		return ErrInProgress
	}
	fn(&e.cfg)
	return nil
}

func (e *Engine) Workers() int { return e.Config().Workers }

func (e *Engine) SetWorkers(n int) error {
	if err := checkWorkers(n); err != nil {
		return err
	}
	return e.mutate(func(c *Config) { c.Workers = n })
}

func (e *Engine) BufferSize() int { return e.Config().BufferSize }

func (e *Engine) SetBufferSize(n int) error {
	if err := checkBufferSize(n); err != nil {
		return err
	}
	return e.mutate(func(c *Config) { c.BufferSize = n })
}

func (e *Engine) ConflictMode() ConflictMode { return e.Config().Conflict }

func (e *Engine) SetConflictMode(m ConflictMode) error {
	if !m.valid() {
		return fmt.Errorf("conflict mode %d: %w", m, ErrOutOfRange)
	}
	return e.mutate(func(c *Config) { c.Conflict = m })
}

func (e *Engine) IncludeSpecial() bool { return e.Config().IncludeSpecial }

func (e *Engine) SetIncludeSpecial(v bool) error {
	return e.mutate(func(c *Config) { c.IncludeSpecial = v })
}

func (e *Engine) Audit() bool { return !e.Config().NoAudit }

func (e *Engine) SetAudit(v bool) error {
	return e.mutate(func(c *Config) { c.NoAudit = !v })
}
