// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package future

import "fmt"

// PreserveCancelability wraps original in a new future that mirrors
// its outcome and forwards cancellation to it.
//
// The wrapper never resolves before original does: cancelling the
// wrapper first cancels original and only marks the wrapper cancelled
// if that succeeded. If original has already begun completing, the
// cancellation loses the race and the wrapper takes original's outcome.
func PreserveCancelability[T any](original *Future[T]) *Future[T] {
	return Handle(original, func(v T, err error) (T, error) {
		return v, err
	})
}

// Then returns a future which resolves with fn applied to the value of
// f once f succeeds. If f fails, the derived future fails with the same
// error and fn is not called. If f is cancelled, the derived future is
// cancelled and fn is not called.
//
// fn runs on the goroutine that observes f's completion; it must not
// assume any particular goroutine. Cancelling the derived future
// cancels f. If fn panics, the derived future fails with an error
// wrapping ErrPanic.
func Then[T, U any](f *Future[T], fn func(T) (U, error)) *Future[U] {
	return derive(f, func(v T, err error) (U, error) {
		if err != nil {
			var zero U
			return zero, err
		}
		return fn(v)
	}, false)
}

// Handle is like Then, except fn observes every outcome of f, including
// failure. On cancellation fn observes ErrCancelled, and the derived
// future resolves as cancelled whatever fn returns.
func Handle[T, U any](f *Future[T], fn func(T, error) (U, error)) *Future[U] {
	return derive(f, fn, true)
}

func derive[T, U any](f *Future[T], fn func(T, error) (U, error), observeCancel bool) *Future[U] {
	d := &Future[U]{
		done:     make(chan struct{}),
		upstream: f.Cancel,
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				d.Fail(fmt.Errorf("%w: %v", ErrPanic, r))
			}
		}()
		v, err := f.Wait()
		if f.Cancelled() {
			if observeCancel {
				_, _ = fn(v, err)
			}
			d.markCancelled()
			return
		}
		u, err := fn(v, err)
		if err != nil {
			d.Fail(err)
		} else {
			d.Complete(u)
		}
	}()
	return d
}
