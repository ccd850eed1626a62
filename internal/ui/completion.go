package ui

import (
	"fmt"

	"github.com/bamsammich/treecopy/internal/stats"
)

// CompletionSummary builds a final summary line from a snapshot.
// Format: Success ✓  files 48,917  size 2.1 GiB  avg 641.0 MiB/s  time 3m17s  skipped 0  errors 0
func CompletionSummary(snap stats.Snapshot, outcome string) string {
	avgSpeed := 0.0
	if snap.Elapsed.Seconds() > 0 {
		avgSpeed = float64(snap.BytesCopied) / snap.Elapsed.Seconds()
	}

	icon := "✓"
	if outcome != "Success" {
		icon = "✗"
	}

	base := fmt.Sprintf("%s %s  files %s  size %s  avg %s  time %s  skipped %s  errors %s",
		outcome,
		icon,
		formatCount(snap.FilesCopied),
		stats.FormatBytes(snap.BytesCopied),
		formatRate(avgSpeed),
		formatElapsed(snap.Elapsed),
		formatCount(snap.FilesSkipped),
		formatCount(snap.FilesFailed),
	)

	if snap.FilesCanceled > 0 {
		base += fmt.Sprintf("  interrupted %s", formatTally(snap.FilesCanceled, "file"))
	}
	if snap.RolledBack > 0 || snap.RollbackFailed > 0 {
		base += fmt.Sprintf("  rolled back %s", formatTally(snap.RolledBack, "file"))
		if snap.RollbackFailed > 0 {
			base += fmt.Sprintf(" (%s failed)", formatCount(snap.RollbackFailed))
		}
	}

	return base
}
