package main

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

var ErrPoolExhausted = errors.New("worker pool exhausted")

// Pool bounds how many actor handlers run at once. A handler that waits on
// another handler gives its slot back for the duration of the wait (see
// Await), so nested waits cannot starve the pool. MaxBlocking caps how many
// handlers may be parked at the same time.
type Pool struct {
	sem         *semaphore.Weighted
	workers     int64
	maxBlocking int32
	blocked     atomic.Int32
	wg          sync.WaitGroup
	log         zerolog.Logger

	// Fatal is called when MaxBlocking is exceeded. It must not return
	// normally in production; tests replace it.
	Fatal func(error)
}

func NewPool(workers, maxBlocking int, log zerolog.Logger) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if maxBlocking <= 0 {
		maxBlocking = workers * 16
	}
	return &Pool{
		sem:         semaphore.NewWeighted(int64(workers)),
		workers:     int64(workers),
		maxBlocking: int32(maxBlocking),
		log:         log.With().Str("component", "pool").Logger(),
		Fatal:       fatal,
	}
}

func (p *Pool) Workers() int { return int(p.workers) }

type workerKey struct{}

// worker marks a context as running on a pool slot.
type worker struct {
	pool *Pool
}

func workerFrom(ctx context.Context) *worker {
	w, _ := ctx.Value(workerKey{}).(*worker)
	return w
}

// Go runs fn on a pool slot, waiting for one to become free. The context
// handed to fn carries the slot so that Await can release it.
func (p *Pool) Go(ctx context.Context, fn func(ctx context.Context)) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.sem.Release(1)
		fn(context.WithValue(ctx, workerKey{}, &worker{pool: p}))
	}()
	return nil
}

// Run is Go for callers already on their own goroutine: fn runs inline once
// a slot is free.
func (p *Pool) Run(ctx context.Context, fn func(ctx context.Context)) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer p.sem.Release(1)
	fn(context.WithValue(ctx, workerKey{}, &worker{pool: p}))
	return nil
}

// park gives the caller's slot back while it waits. The returned function
// reacquires it.
func (p *Pool) park(ctx context.Context) (unpark func(), err error) {
	if n := p.blocked.Add(1); n > p.maxBlocking {
		p.blocked.Add(-1)
		err := fmt.Errorf("%w: %d handlers waiting, limit %d", ErrPoolExhausted, n, p.maxBlocking)
		p.log.Error().Err(err).Msg("blocking wait refused")
		p.Fatal(err)
		return nil, err
	}
	p.sem.Release(1)
	return func() {
		p.blocked.Add(-1)
		// The slot has to come back even if ctx is done: the deferred
		// Release in Go/Run expects it.
		if err := p.sem.Acquire(ctx, 1); err != nil {
			_ = p.sem.Acquire(context.Background(), 1)
		}
	}, nil
}

// Wait blocks until every handler started with Go has returned.
func (p *Pool) Wait() {
	p.wg.Wait()
}
