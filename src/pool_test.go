package main

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTimeout = 5 * time.Second

// newTestPool is a pool whose exhaustion hook fails the test instead of
// exiting.
func newTestPool(t *testing.T, workers int) *Pool {
	t.Helper()
	p := NewPool(workers, 0, zerolog.Nop())
	p.Fatal = func(err error) { t.Errorf("pool: %v", err) }
	return p
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	t.Cleanup(cancel)
	return ctx
}

func TestPoolDefaults(t *testing.T) {
	p := NewPool(0, 0, zerolog.Nop())
	assert.Greater(t, p.Workers(), 0)
	assert.Equal(t, int32(p.Workers()*16), p.maxBlocking)
}

func TestAwaitReleasesSlot(t *testing.T) {
	ctx := testContext(t)
	p := newTestPool(t, 1)

	ch := make(chan int, 1)
	got := make(chan int, 1)
	require.NoError(t, p.Go(ctx, func(ctx context.Context) {
		v, err := Await(ctx, ch)
		assert.NoError(t, err)
		got <- v
	}))
	// Only one slot: this can only run once the first handler is parked.
	require.NoError(t, p.Go(ctx, func(ctx context.Context) {
		ch <- 42
	}))
	p.Wait()
	assert.Equal(t, 42, <-got)
	assert.Equal(t, int32(0), p.blocked.Load())
}

func TestPoolExhaustion(t *testing.T) {
	ctx := testContext(t)
	p := NewPool(1, 1, zerolog.Nop())
	var mu sync.Mutex
	var fatalErr error
	p.Fatal = func(err error) {
		mu.Lock()
		defer mu.Unlock()
		fatalErr = err
	}

	release := make(chan struct{})
	never := make(chan struct{})
	second := make(chan error, 1)
	require.NoError(t, p.Go(ctx, func(ctx context.Context) {
		_, _ = Await(ctx, release)
	}))
	require.NoError(t, p.Go(ctx, func(ctx context.Context) {
		_, err := Await(ctx, never)
		second <- err
	}))

	err := <-second
	assert.True(t, errors.Is(err, ErrPoolExhausted))
	close(release)
	p.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, errors.Is(fatalErr, ErrPoolExhausted))
}

func TestPoolRunRespectsContext(t *testing.T) {
	p := newTestPool(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ran := false
	err := p.Run(ctx, func(context.Context) { ran = true })
	assert.Error(t, err)
	assert.False(t, ran)
}

func TestAwaitOutsidePool(t *testing.T) {
	ch := make(chan int)
	close(ch)
	_, err := Await(context.Background(), ch)
	assert.Equal(t, ErrCancelled, err)

	_, err = Await[int](context.Background(), nil)
	assert.Equal(t, ErrCancelled, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = Await(ctx, make(chan int))
	assert.Equal(t, context.DeadlineExceeded, err)
}
