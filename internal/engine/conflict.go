package engine

import (
	"fmt"
	"strings"
)

// ConflictMode selects what happens when a destination file already exists.
// The zero value means "use the default" (Skip).
type ConflictMode int

const (
	Overwrite ConflictMode = iota + 1
	Skip
	Cancel
)

// DefaultConflictMode is used when Config.Conflict is left unset.
const DefaultConflictMode = Skip

func (m ConflictMode) String() string {
	switch m {
	case Overwrite:
		return "overwrite"
	case Skip:
		return "skip"
	case Cancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// ParseConflictMode parses overwrite, skip or cancel (case-insensitive).
func ParseConflictMode(s string) (ConflictMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "overwrite":
		return Overwrite, nil
	case "skip":
		return Skip, nil
	case "cancel":
		return Cancel, nil
	default:
		return 0, fmt.Errorf("unknown conflict mode %q (want overwrite, skip or cancel): %w", s, ErrOutOfRange)
	}
}

func (m ConflictMode) valid() bool {
	return m >= Overwrite && m <= Cancel
}

// Decision is the action a worker takes for one destination path.
type Decision int

const (
	Proceed  Decision = iota // stream the file
	SkipFile                 // leave the destination alone
	AbortRun                 // request cancellation of the whole run
)

// Resolve is the conflict policy. It only matters when the destination
// exists as a file; a missing destination always proceeds.
func Resolve(destExists bool, mode ConflictMode) Decision {
	if !destExists {
		return Proceed
	}
	switch mode {
	case Overwrite:
		return Proceed
	case Cancel:
		return AbortRun
	default:
		return SkipFile
	}
}
