package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// poll returns the value if it has already arrived.
func poll[T any](r Response[T]) (v T, ready bool, err error) {
	select {
	case v, ok := <-r.C():
		if !ok {
			return v, true, ErrCancelled
		}
		return v, true, nil
	default:
		return v, false, nil
	}
}

func TestReplySendOnce(t *testing.T) {
	tx, rx := newReply[string]()
	assert.True(t, rx.Valid())

	_, ready, err := poll(rx)
	assert.False(t, ready)
	assert.NoError(t, err)

	assert.True(t, tx.Send("first"))
	assert.False(t, tx.Send("second"))
	tx.Cancel()

	v, err := rx.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first", v)
}

func TestReplyCancel(t *testing.T) {
	tx, rx := newReply[int]()
	tx.Cancel()
	assert.False(t, tx.Send(1))

	_, ready, err := poll(rx)
	assert.True(t, ready)
	assert.Equal(t, ErrCancelled, err)
}

func TestResponseZero(t *testing.T) {
	var rx Response[int]
	assert.False(t, rx.Valid())
	_, err := rx.Wait(context.Background())
	assert.Equal(t, ErrCancelled, err)

	var tx *reply[int]
	assert.False(t, tx.Send(1))
	tx.Cancel()
}
