// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/gogama/routex"
	"github.com/gogama/routex/future"
	"github.com/gogama/routex/request"
	"github.com/gogama/routex/transport"
	"golang.org/x/time/rate"
)

// New returns a plugin that waits for a token from l before each send.
// The limiter may be shared with other clients.
//
// If the request context ends while waiting, the request fails with a
// *url.Error wrapping the context error. If l can never grant a token,
// for example because its burst is zero, the request fails at once.
func New(l *rate.Limiter) routex.Plugin {
	if l == nil {
		panic("routex/ratelimit: nil limiter")
	}
	return routex.SendFunc(func(next routex.Execution) routex.Execution {
		return func(args request.Arguments) *future.Future[*http.Response] {
			ctx, stop := context.WithCancel(args.Context())
			g := &gate{stop: stop}
			g.out = future.New[*http.Response](g.cancel)
			go g.run(ctx, l, next, args)
			return g.out
		}
	})
}

// NewLimiter returns a limiter allowing rps requests per second on
// average with bursts of up to burst requests. A non-positive rps
// means no limit.
func NewLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

type gate struct {
	out  *future.Future[*http.Response]
	stop context.CancelFunc

	mu        sync.Mutex
	inner     *future.Future[*http.Response]
	cancelled bool
}

func (g *gate) cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cancelled = true
	g.stop()
	if g.inner != nil {
		g.inner.Cancel()
	}
}

func (g *gate) run(ctx context.Context, l *rate.Limiter, next routex.Execution, args request.Arguments) {
	defer g.stop()
	if err := l.Wait(ctx); err != nil {
		if g.out.Cancelled() {
			return
		}
		if ctxErr := args.Context().Err(); ctxErr != nil {
			g.out.Fail(transport.URLError(args.Method(), args.RequestURI(), ctxErr))
		} else {
			g.out.Fail(fmt.Errorf("routex/ratelimit: %w", err))
		}
		return
	}

	g.mu.Lock()
	if g.cancelled {
		g.mu.Unlock()
		return
	}
	g.inner = next(args)
	g.mu.Unlock()

	resp, err := g.inner.Wait()
	if g.inner.Cancelled() {
		return
	}
	if err != nil {
		g.out.Fail(err)
	} else if !g.out.Complete(resp) && resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
}
