package engine

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zeebo/blake3"

	"github.com/bamsammich/treecopy/internal/event"
	"github.com/bamsammich/treecopy/internal/transport"
)

// faultFS wraps the local gateway with injectable failures, hooks and a
// concurrency gauge for open source files.
type faultFS struct {
	*transport.Local

	mu        sync.Mutex
	modes     map[string]os.FileMode // Stat mode overrides
	mkdirErr  map[string]error
	openErr   map[string]error
	readErr   map[string]error // returned after the first chunk
	removeErr map[string]error

	onOpen    func(path string)
	onRead    func(path string, reads int)
	readDelay time.Duration

	active    atomic.Int32
	maxActive atomic.Int32
}

func newFaultFS() *faultFS {
	return &faultFS{
		Local:     transport.NewLocal(),
		modes:     make(map[string]os.FileMode),
		mkdirErr:  make(map[string]error),
		openErr:   make(map[string]error),
		readErr:   make(map[string]error),
		removeErr: make(map[string]error),
	}
}

func (f *faultFS) lookup(m map[string]error, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return m[path]
}

func (f *faultFS) Stat(path string) (transport.FileEntry, error) {
	entry, err := f.Local.Stat(path)
	if err != nil {
		return entry, err
	}
	f.mu.Lock()
	if mode, ok := f.modes[path]; ok {
		entry.Mode = mode
	}
	f.mu.Unlock()
	return entry, nil
}

func (f *faultFS) MkdirAll(path string) error {
	if err := f.lookup(f.mkdirErr, path); err != nil {
		return err
	}
	return f.Local.MkdirAll(path)
}

func (f *faultFS) Remove(path string) error {
	if err := f.lookup(f.removeErr, path); err != nil {
		return err
	}
	return f.Local.Remove(path)
}

func (f *faultFS) OpenRead(path string) (io.ReadCloser, error) {
	if f.onOpen != nil {
		f.onOpen(path)
	}
	if err := f.lookup(f.openErr, path); err != nil {
		return nil, err
	}
	rc, err := f.Local.OpenRead(path)
	if err != nil {
		return nil, err
	}

	n := f.active.Add(1)
	for {
		peak := f.maxActive.Load()
		if n <= peak || f.maxActive.CompareAndSwap(peak, n) {
			break
		}
	}
	return &faultReader{ReadCloser: rc, fs: f, path: path, failWith: f.lookup(f.readErr, path)}, nil
}

type faultReader struct {
	io.ReadCloser
	fs       *faultFS
	path     string
	reads    int
	failWith error
	closed   bool
}

func (r *faultReader) Read(p []byte) (int, error) {
	if r.fs.readDelay > 0 {
		time.Sleep(r.fs.readDelay)
	}
	if r.failWith != nil && r.reads > 0 {
		return 0, r.failWith
	}
	n, err := r.ReadCloser.Read(p)
	r.reads++
	if r.fs.onRead != nil {
		r.fs.onRead(r.path, r.reads)
	}
	return n, err
}

func (r *faultReader) Close() error {
	if !r.closed {
		r.closed = true
		r.fs.active.Add(-1)
	}
	return r.ReadCloser.Close()
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = quietLogger()
	}
	e, err := New(cfg)
	require.NoError(t, err)
	return e
}

// writeTree creates files (relative path -> content) under root.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func hashFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	h := blake3.Sum256(data)
	return h[:]
}

// listTree returns every regular file below root as relative paths.
func listTree(t *testing.T, root string) []string {
	t.Helper()
	var out []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			out = append(out, rel)
		}
		return nil
	})
	require.NoError(t, err)
	return out
}

func countOutcome(records []CopyRecord, o Outcome) int {
	n := 0
	for _, rec := range records {
		if rec.Outcome == o {
			n++
		}
	}
	return n
}

func bigPayload(size int) []byte {
	return bytes.Repeat([]byte("0123456789abcdef"), size/16)
}

// collectEvents drains an event channel in the background and returns
// the channel plus a function yielding everything received once the
// caller is done sending.
func collectEvents(t *testing.T) (chan event.Event, func() []event.Event) {
	t.Helper()
	ch := make(chan event.Event, 1024)
	var (
		mu  sync.Mutex
		got []event.Event
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range ch {
			mu.Lock()
			got = append(got, ev)
			mu.Unlock()
		}
	}()
	var once sync.Once
	return ch, func() []event.Event {
		once.Do(func() {
			close(ch)
			<-done
		})
		mu.Lock()
		defer mu.Unlock()
		return got
	}
}
