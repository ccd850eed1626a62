package ui

import (
	"io"
	"time"

	"github.com/bamsammich/treecopy/internal/event"
	"github.com/bamsammich/treecopy/internal/stats"
)

// Presenter consumes events and displays progress.
type Presenter interface {
	// Run consumes events until the channel closes. Blocks until done.
	Run(events <-chan event.Event) error
	// Summary returns the final summary line for a run that ended with outcome.
	Summary(outcome string) string
}

// Config configures a Presenter.
type Config struct {
	Writer    io.Writer
	ErrWriter io.Writer
	Stats     *stats.Collector
	SrcRoot   string
	DstRoot   string
	Theme     Theme
	IsTTY     bool
	Width     int // terminal width for the progress line; 0 means no limit
	Quiet     bool

	// ProgressEvery is how often a progress line is written. Defaults to
	// 1s on a TTY and 5s otherwise.
	ProgressEvery time.Duration
}

// NewPresenter creates the appropriate presenter based on configuration.
//
//nolint:ireturn // factory returns the interface
func NewPresenter(cfg Config) Presenter {
	if cfg.Quiet {
		return quietPresenter{}
	}
	every := cfg.ProgressEvery
	if every <= 0 {
		every = 5 * time.Second
		if cfg.IsTTY {
			every = time.Second
		}
	}
	return &plainPresenter{
		w:       cfg.Writer,
		errW:    cfg.ErrWriter,
		stats:   cfg.Stats,
		srcRoot: cfg.SrcRoot,
		dstRoot: cfg.DstRoot,
		styles:  newStyles(cfg.Writer, cfg.Theme),
		tty:     cfg.IsTTY,
		width:   cfg.Width,
		every:   every,
	}
}
