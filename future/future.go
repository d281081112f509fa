// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package future

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrCancelled is the error reported by Get for a cancelled future.
//
// errors.Is(ErrCancelled, context.Canceled) is true.
var ErrCancelled = fmt.Errorf("routex/future: cancelled: %w", context.Canceled)

// ErrPanic is wrapped by the error of a derived future whose function
// panicked. The message includes the panic value.
var ErrPanic = errors.New("routex/future: panic")

type state int32

const (
	pending state = iota
	succeeded
	failed
	cancelled
)

// A CancelFunc attempts to cancel the operation backing a future. It
// is invoked at most once, from Cancel, after the future has been
// marked cancelled.
type CancelFunc func()

// A Future holds the eventual result of an asynchronous operation.
//
// The zero value is not usable; create futures with New, Completed,
// or Failed. A Future is safe for concurrent use by multiple
// goroutines.
type Future[T any] struct {
	state    atomic.Int32
	done     chan struct{}
	onCancel CancelFunc
	upstream func() bool
	value    T
	err      error
}

// New returns a pending future. If onCancel is not nil, it is called
// when the future is cancelled before it completes.
func New[T any](onCancel CancelFunc) *Future[T] {
	return &Future[T]{
		done:     make(chan struct{}),
		onCancel: onCancel,
	}
}

// Completed returns a future that has already succeeded with v.
func Completed[T any](v T) *Future[T] {
	f := New[T](nil)
	f.Complete(v)
	return f
}

// Failed returns a future that has already failed with err.
func Failed[T any](err error) *Future[T] {
	f := New[T](nil)
	f.Fail(err)
	return f
}

// Complete resolves the future with value v. It returns false if the
// future was already resolved (including by cancellation), in which
// case v is discarded.
func (f *Future[T]) Complete(v T) bool {
	return f.resolve(succeeded, func() { f.value = v })
}

// Fail resolves the future with error err. It returns false if the
// future was already resolved.
func (f *Future[T]) Fail(err error) bool {
	if err == nil {
		panic("routex/future: nil error")
	}
	return f.resolve(failed, func() { f.err = err })
}

// Cancel attempts to cancel the future. If the future is still pending
// it is resolved as cancelled, its CancelFunc (if any) is invoked, and
// Cancel returns true. If the future has already resolved, Cancel has
// no effect and returns false.
//
// A future derived from another (see Then, Handle and
// PreserveCancelability) cancels its source first, and is only marked
// cancelled if cancelling the source succeeded.
func (f *Future[T]) Cancel() bool {
	if f.upstream != nil {
		if !f.upstream() {
			return false
		}
		f.markCancelled()
		return true
	}
	ok := f.markCancelled()
	if ok && f.onCancel != nil {
		f.onCancel()
	}
	return ok
}

func (f *Future[T]) markCancelled() bool {
	return f.resolve(cancelled, func() { f.err = ErrCancelled })
}

func (f *Future[T]) resolve(s state, set func()) bool {
	if !f.state.CompareAndSwap(int32(pending), int32(s)) {
		return false
	}
	set()
	close(f.done)
	return true
}

// Done returns a channel that is closed once the future has resolved.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// IsDone reports whether the future has resolved.
func (f *Future[T]) IsDone() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Cancelled reports whether the future resolved by cancellation.
func (f *Future[T]) Cancelled() bool {
	return f.IsDone() && state(f.state.Load()) == cancelled
}

// Get waits for the future to resolve, or for ctx to be done, and
// returns the outcome. A cancelled future returns ErrCancelled. If ctx
// ends first, Get returns ctx.Err() but does not cancel the future.
func (f *Future[T]) Get(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Wait blocks until the future resolves and returns the outcome.
func (f *Future[T]) Wait() (T, error) {
	<-f.done
	return f.value, f.err
}
