package stats

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

const ringSize = 60

// Collector tracks copy run statistics using lock-free atomic counters.
// Workers write, presenters read.
type Collector struct {
	filesDispatched atomic.Int64
	filesCopied     atomic.Int64
	filesFailed     atomic.Int64
	filesSkipped    atomic.Int64
	filesCanceled   atomic.Int64
	bytesCopied     atomic.Int64
	rolledBack      atomic.Int64
	rollbackFailed  atomic.Int64
	startNanos      atomic.Int64
	stopNanos       atomic.Int64 // zero while running

	// Ring buffer, written only by the presenter's Tick(), never by workers.
	mu          sync.Mutex
	throughput  [ringSize]int64 // bytes delta per second
	filesPerSec [ringSize]int64 // files delta per second
	ringIdx     int
	ringCount   int // how many samples have been written (capped at ringSize)
	lastBytes   int64
	lastFiles   int64
}

// NewCollector creates a Collector with its start time set to now.
func NewCollector() *Collector {
	c := &Collector{}
	c.startNanos.Store(time.Now().UnixNano())
	return c
}

// Reset zeroes every counter and the rate history and restarts the clock.
// The engine calls it at the start of each run.
func (c *Collector) Reset() {
	c.filesDispatched.Store(0)
	c.filesCopied.Store(0)
	c.filesFailed.Store(0)
	c.filesSkipped.Store(0)
	c.filesCanceled.Store(0)
	c.bytesCopied.Store(0)
	c.rolledBack.Store(0)
	c.rollbackFailed.Store(0)

	c.mu.Lock()
	c.throughput = [ringSize]int64{}
	c.filesPerSec = [ringSize]int64{}
	c.ringIdx, c.ringCount = 0, 0
	c.lastBytes, c.lastFiles = 0, 0
	c.mu.Unlock()

	c.stopNanos.Store(0)
	c.startNanos.Store(time.Now().UnixNano())
}

// Stop freezes Elapsed at the current time.
func (c *Collector) Stop() {
	c.stopNanos.CompareAndSwap(0, time.Now().UnixNano())
}

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	FilesDispatched int64
	FilesCopied     int64
	FilesFailed     int64
	FilesSkipped    int64
	FilesCanceled   int64
	BytesCopied     int64
	RolledBack      int64
	RollbackFailed  int64
	Elapsed         time.Duration
}

func (c *Collector) AddFilesDispatched(n int64) { c.filesDispatched.Add(n) }
func (c *Collector) AddFilesCopied(n int64)     { c.filesCopied.Add(n) }
func (c *Collector) AddFilesFailed(n int64)     { c.filesFailed.Add(n) }
func (c *Collector) AddFilesSkipped(n int64)    { c.filesSkipped.Add(n) }
func (c *Collector) AddFilesCanceled(n int64)   { c.filesCanceled.Add(n) }
func (c *Collector) AddBytesCopied(n int64)     { c.bytesCopied.Add(n) }
func (c *Collector) AddRolledBack(n int64)      { c.rolledBack.Add(n) }
func (c *Collector) AddRollbackFailed(n int64)  { c.rollbackFailed.Add(n) }

// Snapshot returns a point-in-time read of all counters.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		FilesDispatched: c.filesDispatched.Load(),
		FilesCopied:     c.filesCopied.Load(),
		FilesFailed:     c.filesFailed.Load(),
		FilesSkipped:    c.filesSkipped.Load(),
		FilesCanceled:   c.filesCanceled.Load(),
		BytesCopied:     c.bytesCopied.Load(),
		RolledBack:      c.rolledBack.Load(),
		RollbackFailed:  c.rollbackFailed.Load(),
		Elapsed:         c.Elapsed(),
	}
}

// Tick snapshots byte/file deltas into the ring buffer. Called 1/sec by the presenter.
func (c *Collector) Tick() {
	currentBytes := c.bytesCopied.Load()
	currentFiles := c.filesCopied.Load()

	c.mu.Lock()
	defer c.mu.Unlock()

	bytesDelta := currentBytes - c.lastBytes
	filesDelta := currentFiles - c.lastFiles
	c.lastBytes = currentBytes
	c.lastFiles = currentFiles

	c.throughput[c.ringIdx] = bytesDelta
	c.filesPerSec[c.ringIdx] = filesDelta
	c.ringIdx = (c.ringIdx + 1) % ringSize
	if c.ringCount < ringSize {
		c.ringCount++
	}
}

// RollingSpeed returns average bytes/sec over the last n seconds of samples.
func (c *Collector) RollingSpeed(seconds int) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rollingAvg(c.throughput[:], seconds)
}

// RollingFilesPerSec returns average files/sec over the last n seconds.
func (c *Collector) RollingFilesPerSec(seconds int) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rollingAvg(c.filesPerSec[:], seconds)
}

func (c *Collector) rollingAvg(buf []int64, n int) float64 {
	count := min(n, c.ringCount)
	if count == 0 {
		return 0
	}
	var sum int64
	for i := range count {
		idx := (c.ringIdx - 1 - i + ringSize) % ringSize
		sum += buf[idx]
	}
	return float64(sum) / float64(count)
}

// Elapsed returns the time since the last Reset, or the run's duration
// once Stop has been called.
func (c *Collector) Elapsed() time.Duration {
	end := c.stopNanos.Load()
	if end == 0 {
		end = time.Now().UnixNano()
	}
	return time.Duration(end - c.startNanos.Load())
}

func (s Snapshot) String() string {
	return fmt.Sprintf(
		"dispatched=%d copied=%d failed=%d skipped=%d canceled=%d bytes=%d rolledback=%d",
		s.FilesDispatched, s.FilesCopied, s.FilesFailed, s.FilesSkipped,
		s.FilesCanceled, s.BytesCopied, s.RolledBack,
	)
}

// FormatBytes returns a human-readable byte count.
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
