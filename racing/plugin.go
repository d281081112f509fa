// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package racing

import (
	"net/http"
	"sync"
	"time"

	"github.com/gogama/routex"
	"github.com/gogama/routex/future"
	"github.com/gogama/routex/request"
)

// New returns a plugin that races attempts at each request according
// to p. Install it inside the retry plugin, if any, so that each retry
// is itself a race.
func New(p Policy) routex.Plugin {
	if p == nil {
		panic("routex/racing: nil policy")
	}
	return routex.SendFunc(func(next routex.Execution) routex.Execution {
		return func(args request.Arguments) *future.Future[*http.Response] {
			r := &race{
				policy:  p,
				next:    next,
				results: make(chan outcome),
				done:    make(chan struct{}),
			}
			r.out = future.New[*http.Response](r.cancel)
			go r.run(args)
			return r.out
		}
	})
}

type outcome struct {
	resp *http.Response
	err  error
}

type race struct {
	policy  Policy
	next    routex.Execution
	out     *future.Future[*http.Response]
	results chan outcome
	done    chan struct{}

	mu       sync.Mutex
	attempts []*future.Future[*http.Response]
	over     bool
}

// cancel ends the race and cancels every attempt in flight.
func (r *race) cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.over {
		return
	}
	r.over = true
	close(r.done)
	for _, f := range r.attempts {
		f.Cancel()
	}
}

// start adds one attempt to the race. It returns false if the race is
// already over.
func (r *race) start(args request.Arguments) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.over {
		return false
	}
	f := r.next(args)
	r.attempts = append(r.attempts, f)
	go func() {
		resp, err := f.Wait()
		select {
		case r.results <- outcome{resp, err}:
		case <-r.done:
			closeBody(resp)
		}
	}()
	return true
}

func (r *race) run(args request.Arguments) {
	e := &request.Exchange{Arguments: args, Start: time.Now()}
	if !r.start(args) {
		return
	}
	e.Racing = 1
	scheduling := true

	for {
		var timer *time.Timer
		var fire <-chan time.Time
		if scheduling {
			if d := r.policy.Schedule(e); d > 0 {
				timer = time.NewTimer(d)
				fire = timer.C
			} else {
				scheduling = false
			}
		}

		select {
		case <-fire:
			if !r.policy.Start(e) {
				scheduling = false
				continue
			}
			if !r.start(args) {
				return
			}
			e.Attempt++
			e.Racing++
		case o := <-r.results:
			stopTimer(timer)
			e.Racing--
			e.Response = o.resp
			e.Err = o.err
			if o.err == nil {
				r.win(o.resp)
				return
			}
			if e.Racing == 0 {
				r.cancel()
				r.out.Fail(o.err)
				return
			}
		case <-r.done:
			stopTimer(timer)
			return
		}
	}
}

// win completes the race with resp and cancels the other attempts.
func (r *race) win(resp *http.Response) {
	if !r.out.Complete(resp) {
		closeBody(resp)
	}
	r.cancel()
}

func stopTimer(t *time.Timer) {
	if t != nil {
		t.Stop()
	}
}

func closeBody(resp *http.Response) {
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
}
