package ui

import (
	"os"
	"strconv"

	"golang.org/x/term"
)

const fallbackWidth = 80

// Terminal describes where progress output goes. Width is zero when the
// stream is not a terminal, which disables in-place redraw and truncation.
type Terminal struct {
	TTY   bool
	Width int
}

// DetectTerminal inspects f. A terminal that will not report its size
// falls back to $COLUMNS, then to 80 columns.
func DetectTerminal(f *os.File) Terminal {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return Terminal{}
	}
	if w, _, err := term.GetSize(fd); err == nil && w > 0 {
		return Terminal{TTY: true, Width: w}
	}
	return Terminal{TTY: true, Width: columnsEnv()}
}

func columnsEnv() int {
	if n, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && n > 0 {
		return n
	}
	return fallbackWidth
}
