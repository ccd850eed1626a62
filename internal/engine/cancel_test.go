package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToken_Cancel(t *testing.T) {
	t.Parallel()

	tok := NewToken(context.Background())
	defer tok.release()

	assert.False(t, tok.Canceled())
	tok.Cancel()
	tok.Cancel()
	assert.True(t, tok.Canceled())
	assert.Error(t, tok.Context().Err())
}

func TestToken_ParentCanceled(t *testing.T) {
	t.Parallel()

	parent, cancel := context.WithCancel(context.Background())
	tok := NewToken(parent)
	defer tok.release()

	cancel()
	assert.True(t, tok.Canceled())
}

func TestToken_ReleaseIsNotCancel(t *testing.T) {
	t.Parallel()

	tok := NewToken(context.Background())
	tok.release()
	assert.Error(t, tok.Context().Err())
	assert.False(t, tok.canceled.Load(), "release must not mark the run canceled")
}
