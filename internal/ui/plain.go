package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/bamsammich/treecopy/internal/event"
	"github.com/bamsammich/treecopy/internal/stats"
)

// plainPresenter outputs one line per finished file to w, and periodic
// progress to errW. On a TTY the progress line is redrawn in place.
type plainPresenter struct {
	w       io.Writer
	errW    io.Writer
	stats   *stats.Collector
	srcRoot string
	dstRoot string
	styles  styles
	tty     bool
	width   int
	every   time.Duration

	drawn bool // a progress line is on screen
}

func (p *plainPresenter) Run(events <-chan event.Event) error {
	// The collector's rate window is fed once per second.
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	lastProgress := time.Now()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				p.clearProgress()
				return nil
			}
			p.handleEvent(ev)
		case now := <-ticker.C:
			if p.stats == nil {
				continue
			}
			p.stats.Tick()
			if now.Sub(lastProgress) >= p.every {
				lastProgress = now
				p.printProgress()
			}
		}
	}
}

func (p *plainPresenter) handleEvent(ev event.Event) {
	switch ev.Type {
	case event.FileCompleted:
		p.clearProgress()
		fmt.Fprintf(p.w, "%s %s  %s\n",
			p.styles.done.Render("✓"), p.rel(ev.Path), p.styles.muted.Render(stats.FormatBytes(ev.Size)))
	case event.FileFailed:
		p.clearProgress()
		msg := ev.Outcome
		if ev.Error != nil {
			msg += ": " + ev.Error.Error()
		}
		fmt.Fprintf(p.w, "%s %s  %s\n",
			p.styles.failed.Render("✗"), p.rel(ev.Path), p.styles.failed.Render(msg))
	case event.FileSkipped:
		p.clearProgress()
		fmt.Fprintf(p.w, "%s %s  %s\n",
			p.styles.skipped.Render("-"), p.rel(ev.Path), p.styles.muted.Render("skipped"))
	case event.FileCanceled:
		p.clearProgress()
		fmt.Fprintf(p.w, "%s %s  %s\n",
			p.styles.warn.Render("!"), p.rel(ev.Path), p.styles.warn.Render("canceled, partial file left"))
	case event.RollbackFile:
		p.clearProgress()
		fmt.Fprintf(p.w, "rollback: %s\n", StripRoot(p.dstRoot, ev.DstPath))
	case event.RollbackFailed:
		p.clearProgress()
		errMsg := "error"
		if ev.Error != nil {
			errMsg = ev.Error.Error()
		}
		fmt.Fprintf(p.w, "%s %s  %s\n",
			p.styles.failed.Render("rollback failed:"), StripRoot(p.dstRoot, ev.DstPath), errMsg)
	case event.RunStarted, event.RunComplete:
		// run boundaries are reported by the caller
	}
}

// rel shortens a source path for display.
func (p *plainPresenter) rel(path string) string {
	if p.srcRoot == "" {
		return path
	}
	// A single-file run has the file itself as root.
	return StripRoot(filepath.Dir(p.srcRoot), path)
}

func (p *plainPresenter) progressLine() string {
	snap := p.stats.Snapshot()
	return fmt.Sprintf("progress: %s copied  %s/%s files  %s  %s",
		stats.FormatBytes(snap.BytesCopied),
		formatCount(snap.FilesCopied),
		formatCount(snap.FilesDispatched),
		formatRate(p.stats.RollingSpeed(5)),
		formatElapsed(snap.Elapsed),
	)
}

func (p *plainPresenter) printProgress() {
	line := p.progressLine()
	if !p.tty {
		fmt.Fprintln(p.errW, line)
		return
	}
	if p.width > 0 && len(line) >= p.width {
		line = line[:p.width-1]
	}
	fmt.Fprint(p.errW, "\r\x1b[K"+line)
	p.drawn = true
}

func (p *plainPresenter) clearProgress() {
	if !p.drawn {
		return
	}
	fmt.Fprint(p.errW, "\r\x1b[K")
	p.drawn = false
}

func (p *plainPresenter) Summary(outcome string) string {
	return p.styles.summary(outcome).Render(CompletionSummary(p.stats.Snapshot(), outcome))
}

// StripRoot returns path relative to root when path lies below it.
func StripRoot(root, path string) string {
	if root == "" {
		return path
	}
	// Ensure root ends with separator for clean stripping.
	if !strings.HasSuffix(root, string(filepath.Separator)) {
		root += string(filepath.Separator)
	}
	if strings.HasPrefix(path, root) {
		return path[len(root):]
	}
	return path
}
