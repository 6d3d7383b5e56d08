// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package admission bounds the number of transcriptions running at once.
// Requests beyond the concurrency limit wait, bounded by a queue timeout,
// before being turned away; this has no direct analog in the teacher
// repo (a single-user desktop app never needed to bound concurrent
// requests), so its shape is built fresh in the teacher's concurrency
// idiom: a struct holding a logger, explicit timeouts as named constants
// or config fields, and context-aware blocking calls guarded by select.
package admission

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// ErrBusy is returned by Acquire when the queue wait elapses before a slot
// frees up.
var ErrBusy = errors.New("server is at capacity, try again later")

// Controller bounds concurrent work to maxConcurrent in-flight tickets,
// queueing beyond that up to queueWait before returning ErrBusy.
type Controller struct {
	sem       chan struct{}
	queueWait time.Duration

	mu          sync.Mutex
	inFlight    int
	queued      int
	maxInFlight int
}

// NewController creates a Controller admitting at most maxConcurrent
// simultaneous tickets, queueing any excess request for up to queueWait
// before it gives up.
func NewController(maxConcurrent int, queueWait time.Duration) *Controller {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Controller{
		sem:       make(chan struct{}, maxConcurrent),
		queueWait: queueWait,
	}
}

// Ticket represents one admitted unit of work. Release must be called
// exactly once; a second call panics, surfacing a caller bug immediately
// instead of silently freeing a slot twice.
type Ticket struct {
	c        *Controller
	released int32
}

// Acquire blocks until a slot is available, the queue wait elapses, or ctx
// is cancelled, whichever comes first. A non-nil error means no ticket was
// issued and the caller owns nothing to release.
func (c *Controller) Acquire(ctx context.Context) (*Ticket, error) {
	c.mu.Lock()
	c.queued++
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.queued--
		c.mu.Unlock()
	}()

	waitCtx := ctx
	var cancel context.CancelFunc
	if c.queueWait > 0 {
		waitCtx, cancel = context.WithTimeout(ctx, c.queueWait)
		defer cancel()
	}

	select {
	case c.sem <- struct{}{}:
		c.mu.Lock()
		c.inFlight++
		if c.inFlight > c.maxInFlight {
			c.maxInFlight = c.inFlight
		}
		c.mu.Unlock()
		return &Ticket{c: c}, nil
	case <-waitCtx.Done():
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, ErrBusy
	}
}

// release frees the slot held by t. It is called once per ticket, by
// Ticket.Release.
func (c *Controller) release(t *Ticket) {
	<-c.sem
	c.mu.Lock()
	c.inFlight--
	c.mu.Unlock()
}

// Release frees t's slot. Calling Release twice on the same ticket panics.
func (t *Ticket) Release() {
	if !atomic.CompareAndSwapInt32(&t.released, 0, 1) {
		panic("admission: ticket released more than once")
	}
	t.c.release(t)
}

// Stats reports current queueing and concurrency state, for a health or
// metrics endpoint.
type Stats struct {
	InFlight int
	Queued   int
	Capacity int
}

// Stats returns a point-in-time snapshot of controller load.
func (c *Controller) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		InFlight: c.inFlight,
		Queued:   c.queued,
		Capacity: cap(c.sem),
	}
}
