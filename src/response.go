package main

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrCancelled is returned when the responding side goes away without
// sending a value.
var ErrCancelled = errors.New("response cancelled")

// reply is the sending half of a one-shot response. Send and Cancel are
// both safe to call more than once; only the first call has an effect.
type reply[T any] struct {
	ch   chan T
	done atomic.Bool
}

func newReply[T any]() (*reply[T], Response[T]) {
	ch := make(chan T, 1)
	return &reply[T]{ch: ch}, Response[T]{ch: ch}
}

func (r *reply[T]) Send(v T) bool {
	if r == nil || !r.done.CompareAndSwap(false, true) {
		return false
	}
	r.ch <- v
	close(r.ch)
	return true
}

func (r *reply[T]) Cancel() {
	if r == nil || !r.done.CompareAndSwap(false, true) {
		return
	}
	close(r.ch)
}

// Response is the receiving half of a one-shot response. Dropping it is
// fine: the sender never blocks.
type Response[T any] struct {
	ch <-chan T
}

// C exposes the channel for select loops. It yields at most one value and
// is closed afterwards; a close without a value means cancellation.
func (r Response[T]) C() <-chan T {
	return r.ch
}

// Valid reports whether r refers to a pending or completed response.
func (r Response[T]) Valid() bool {
	return r.ch != nil
}

// Wait blocks for the value. Inside a pool handler the worker slot is
// released while waiting.
func (r Response[T]) Wait(ctx context.Context) (T, error) {
	return Await(ctx, r.ch)
}

// Await receives one value from ch, yielding the caller's pool slot (if
// any) for the duration.
func Await[T any](ctx context.Context, ch <-chan T) (v T, err error) {
	if ch == nil {
		return v, ErrCancelled
	}
	// Fast path: nothing to give back if the value is already here.
	select {
	case v, ok := <-ch:
		if !ok {
			return v, ErrCancelled
		}
		return v, nil
	default:
	}
	if w := workerFrom(ctx); w != nil {
		unpark, err := w.pool.park(ctx)
		if err != nil {
			return v, err
		}
		defer unpark()
	}
	select {
	case v, ok := <-ch:
		if !ok {
			return v, ErrCancelled
		}
		return v, nil
	case <-ctx.Done():
		return v, ctx.Err()
	}
}
