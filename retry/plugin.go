// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"net/http"
	"sync"
	"time"

	"github.com/gogama/routex"
	"github.com/gogama/routex/future"
	"github.com/gogama/routex/request"
	"github.com/gogama/routex/transport"
)

// New returns a plugin that sends each request again for as long as p
// decides to retry, waiting p's wait time between attempts.
//
// The bodies of responses to discarded attempts are closed. Retrying
// stops when the request context ends; the outcome of the last attempt
// is kept, unless the context ended while waiting between attempts, in
// which case the request fails with the context error. Cancelling the
// returned future cancels the attempt in flight, or the wait.
//
// A request body given as an io.Reader can only be sent once; use a
// []byte, string or typed body with retries.
func New(p Policy) routex.Plugin {
	if p == nil {
		panic("routex/retry: nil policy")
	}
	return routex.SendFunc(func(next routex.Execution) routex.Execution {
		return func(args request.Arguments) *future.Future[*http.Response] {
			r := &retrier{policy: p, next: next, stop: make(chan struct{})}
			r.out = future.New[*http.Response](r.cancel)
			go r.loop(args)
			return r.out
		}
	})
}

type retrier struct {
	policy Policy
	next   routex.Execution
	out    *future.Future[*http.Response]
	stop   chan struct{}

	mu        sync.Mutex
	current   *future.Future[*http.Response]
	cancelled bool
}

func (r *retrier) cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelled = true
	close(r.stop)
	if r.current != nil {
		r.current.Cancel()
	}
}

// attempt issues one attempt, or returns nil if the retrier has been
// cancelled.
func (r *retrier) attempt(args request.Arguments) *future.Future[*http.Response] {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancelled {
		return nil
	}
	r.current = r.next(args)
	return r.current
}

func (r *retrier) loop(args request.Arguments) {
	e := &request.Exchange{Start: time.Now()}
	args = args.WithContext(request.NewContext(args.Context(), e))
	e.Arguments = args
	ctx := args.Context()

	for {
		f := r.attempt(e.Arguments)
		if f == nil {
			return
		}
		resp, err := f.Wait()
		if f.Cancelled() {
			r.out.Cancel()
			return
		}
		e.Response = resp
		e.Err = err
		if e.Timeout() {
			e.AttemptTimeouts++
		}
		if ctx.Err() != nil || !r.policy.Decide(e) {
			r.finish(resp, err)
			return
		}
		closeBody(resp)

		timer := time.NewTimer(r.policy.Wait(e))
		select {
		case <-timer.C:
		case <-r.stop:
			timer.Stop()
			return
		case <-ctx.Done():
			timer.Stop()
			r.out.Fail(transport.URLError(args.Method(), args.RequestURI(), ctx.Err()))
			return
		}
		// Err stays set so policies consulted during the next attempt,
		// such as timeout.Adaptive, can see how the last one ended.
		e.Attempt++
		e.Response = nil
	}
}

func (r *retrier) finish(resp *http.Response, err error) {
	if err != nil {
		r.out.Fail(err)
		return
	}
	if !r.out.Complete(resp) {
		closeBody(resp)
	}
}

func closeBody(resp *http.Response) {
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
}
