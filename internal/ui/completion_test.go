package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bamsammich/treecopy/internal/stats"
)

func TestCompletionSummary(t *testing.T) {
	snap := stats.Snapshot{
		FilesCopied:  48917,
		BytesCopied:  10 * 1024 * 1024,
		FilesSkipped: 2,
		Elapsed:      10 * time.Second,
	}

	s := CompletionSummary(snap, "Success")
	assert.Contains(t, s, "Success ✓")
	assert.Contains(t, s, "files 48,917")
	assert.Contains(t, s, "avg 1.0 MiB/s")
	assert.Contains(t, s, "time 10s")
	assert.Contains(t, s, "skipped 2")
	assert.NotContains(t, s, "rolled back")
}

func TestCompletionSummary_Canceled(t *testing.T) {
	snap := stats.Snapshot{
		FilesCopied:    3,
		FilesCanceled:  1,
		FilesFailed:    1,
		RolledBack:     2,
		RollbackFailed: 1,
	}

	s := CompletionSummary(snap, "Canceled")
	assert.Contains(t, s, "Canceled ✗")
	assert.Contains(t, s, "errors 1")
	assert.Contains(t, s, "interrupted 1 file")
	assert.Contains(t, s, "rolled back 2 files (1 failed)")
}

func TestCompletionSummary_ShortRun(t *testing.T) {
	snap := stats.Snapshot{
		FilesCopied: 1,
		BytesCopied: 512,
		Elapsed:     40 * time.Millisecond,
		RolledBack:  1,
	}

	s := CompletionSummary(snap, "Success")
	assert.Contains(t, s, "files 1 ")
	assert.Contains(t, s, "size 512 B")
	assert.Contains(t, s, "avg 12.5 KiB/s")
	assert.Contains(t, s, "time 40ms")
	assert.Contains(t, s, "rolled back 1 file")
	assert.NotContains(t, s, "interrupted")
}
