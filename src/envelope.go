package main

import (
	"context"
	"errors"
	"sync"
)

var ErrQueueClosed = errors.New("envelope queue closed")

// WindowRequest is work that only the owner of the WindowParts may perform.
type WindowRequest[R any] interface {
	HandleWindow(wp *WindowParts) (R, error)
}

// Result carries a request's outcome back across the envelope.
type Result[R any] struct {
	Value R
	Err   error
}

// Envelope is a request with its response channel, erased so that any
// request type can share one queue. Handle and Cancel consume it; later
// calls do nothing.
type Envelope interface {
	Handle(wp *WindowParts)
	Cancel()
}

type envelope[R any] struct {
	mu  sync.Mutex
	req WindowRequest[R]
	tx  *reply[Result[R]]
}

// Wrap bundles req with a fresh one-shot response.
func Wrap[R any](req WindowRequest[R]) (Envelope, Response[Result[R]]) {
	tx, rx := newReply[Result[R]]()
	return &envelope[R]{req: req, tx: tx}, rx
}

func (e *envelope[R]) take() (WindowRequest[R], *reply[Result[R]]) {
	e.mu.Lock()
	defer e.mu.Unlock()
	req, tx := e.req, e.tx
	e.req, e.tx = nil, nil
	return req, tx
}

func (e *envelope[R]) Handle(wp *WindowParts) {
	req, tx := e.take()
	if req == nil {
		return
	}
	// A panicking handler leaves the requester with a cancellation.
	defer tx.Cancel()
	v, err := req.HandleWindow(wp)
	tx.Send(Result[R]{Value: v, Err: err})
}

func (e *envelope[R]) Cancel() {
	_, tx := e.take()
	tx.Cancel()
}

// EnvelopeQueue is an unbounded FIFO of envelopes bound for the owning
// thread. Any goroutine may push; only the owner drains.
type EnvelopeQueue struct {
	mb *mailbox[Envelope]
}

func NewEnvelopeQueue() *EnvelopeQueue {
	return &EnvelopeQueue{mb: newMailbox[Envelope]()}
}

func (q *EnvelopeQueue) Push(e Envelope) error {
	if !q.mb.push(e) {
		e.Cancel()
		return ErrQueueClosed
	}
	return nil
}

// Ready fires after a Push. One signal may stand for several envelopes.
func (q *EnvelopeQueue) Ready() <-chan struct{} {
	return q.mb.ready
}

func (q *EnvelopeQueue) Len() int {
	return q.mb.len()
}

// Drain handles queued envelopes in arrival order until the queue is
// empty, including any pushed while draining. It returns how many were
// handled.
func (q *EnvelopeQueue) Drain(wp *WindowParts) int {
	n := 0
	for {
		e, ok := q.mb.pop()
		if !ok {
			return n
		}
		wp.Dispatch(e)
		n++
	}
}

// Close cancels everything still queued and refuses further pushes.
func (q *EnvelopeQueue) Close() {
	for _, e := range q.mb.close() {
		e.Cancel()
	}
}

// SendThenReceive queues req for the owning thread and waits for its
// answer. Inside a pool handler the worker slot is released while waiting.
func SendThenReceive[R any](ctx context.Context, q *EnvelopeQueue, req WindowRequest[R]) (R, error) {
	var zero R
	env, rx := Wrap[R](req)
	if err := q.Push(env); err != nil {
		return zero, err
	}
	res, err := rx.Wait(ctx)
	if err != nil {
		return zero, err
	}
	return res.Value, res.Err
}
