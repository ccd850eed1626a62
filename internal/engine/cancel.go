package engine

import (
	"context"
	"sync/atomic"
)

// Canceler is the cooperative cancellation signal workers poll between
// chunks. Workers may also raise it (conflict mode Cancel).
type Canceler interface {
	Cancel()
	Canceled() bool
}

// Token is the cancellation signal for one run. A fresh token is created
// for every run so a late Cancel can never reach the next one.
type Token struct {
	canceled atomic.Bool
	ctx      context.Context
	cancel   context.CancelFunc
	stop     func() bool
}

var _ Canceler = (*Token)(nil)

// NewToken creates a token that is also canceled when parent is done.
func NewToken(parent context.Context) *Token {
	ctx, cancel := context.WithCancel(parent)
	t := &Token{ctx: ctx, cancel: cancel}
	t.stop = context.AfterFunc(ctx, func() { t.canceled.Store(true) })
	return t
}

// Cancel raises the signal. Safe to call more than once and from any goroutine.
func (t *Token) Cancel() {
	t.canceled.Store(true)
	t.cancel()
}

// Canceled is the hot-path check.
func (t *Token) Canceled() bool {
	if t.canceled.Load() {
		return true
	}
	// AfterFunc runs asynchronously; don't miss a parent that is already done.
	if t.ctx.Err() != nil {
		t.canceled.Store(true)
		return true
	}
	return false
}

// Context is done once the token is canceled. Used for blocking waits.
func (t *Token) Context() context.Context { return t.ctx }

// release frees the context without marking the token canceled.
func (t *Token) release() {
	t.stop()
	t.cancel()
}
