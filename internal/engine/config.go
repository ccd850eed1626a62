package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/bamsammich/treecopy/internal/event"
	"github.com/bamsammich/treecopy/internal/transport"
)

// Limits and defaults for Config.
const (
	DefaultWorkers    = 8
	MaxWorkers        = 65535
	DefaultBufferSize = 80 * 1024
	MinBufferSize     = 1024
	MaxBufferSize     = 100 * 1024 * 1024
)

var (
	// ErrInProgress is returned by mutators called while a copy is running.
	ErrInProgress = errors.New("copy in progress")
	// ErrOutOfRange is returned for configuration values outside their limits.
	ErrOutOfRange = errors.New("value out of range")
)

// Config describes an engine. Zero values select the defaults.
type Config struct {
	Workers        int          // concurrent file copies, 1..MaxWorkers
	BufferSize     int          // chunk size in bytes, MinBufferSize..MaxBufferSize
	Conflict       ConflictMode // what to do when a destination file exists
	IncludeSpecial bool         // copy FIFOs, devices and other non-regular files
	NoAudit        bool         // do not keep the per-file audit log

	// FS is the filesystem gateway. Defaults to the local disk.
	FS transport.Filesystem
	// Events receives one event per terminal record. Sends never block;
	// events are dropped when the channel is full.
	Events chan<- event.Event
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.Workers == 0 {
		c.Workers = DefaultWorkers
	}
	if c.BufferSize == 0 {
		c.BufferSize = DefaultBufferSize
	}
	if c.Conflict == 0 {
		c.Conflict = DefaultConflictMode
	}
	if c.FS == nil {
		c.FS = transport.NewLocal()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

func (c Config) validate() error {
	if err := checkWorkers(c.Workers); err != nil {
		return err
	}
	if err := checkBufferSize(c.BufferSize); err != nil {
		return err
	}
	if !c.Conflict.valid() {
		return fmt.Errorf("conflict mode %d: %w", c.Conflict, ErrOutOfRange)
	}
	return nil
}

func checkWorkers(n int) error {
	if n < 1 || n > MaxWorkers {
		return fmt.Errorf("workers %d not in [1, %d]: %w", n, MaxWorkers, ErrOutOfRange)
	}
	return nil
}

func checkBufferSize(n int) error {
	if n < MinBufferSize || n > MaxBufferSize {
		return fmt.Errorf("buffer size %d not in [%d, %d]: %w", n, MinBufferSize, MaxBufferSize, ErrOutOfRange)
	}
	return nil
}
