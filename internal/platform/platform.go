// Package platform holds the small OS-specific pieces of the copy path:
// read-ahead hints for source files and a pool of chunk buffers.
package platform

import "sync"

// BufferPool hands out byte slices of one fixed size. Workers borrow a
// buffer for the duration of a single file copy.
type BufferPool struct {
	pool sync.Pool
	size int
}

// NewBufferPool creates a pool of buffers of the given size.
func NewBufferPool(size int) *BufferPool {
	p := &BufferPool{size: size}
	p.pool.New = func() any {
		b := make([]byte, size)
		return &b
	}
	return p
}

// Size returns the length of every buffer handed out by the pool.
func (p *BufferPool) Size() int { return p.size }

// Get borrows a buffer. Return it with Put.
func (p *BufferPool) Get() *[]byte {
	return p.pool.Get().(*[]byte) //nolint:forcetypeassert // pool only stores *[]byte
}

// Put returns a buffer to the pool. Buffers of a foreign size are dropped.
func (p *BufferPool) Put(b *[]byte) {
	if b == nil || len(*b) != p.size {
		return
	}
	p.pool.Put(b)
}
