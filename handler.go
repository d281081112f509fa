// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package routex

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gogama/routex/future"
	"github.com/gogama/routex/request"
)

// A HandlerGroup is a group of event handler chains. Install a group
// in a Client with its Plugin method.
//
// Handlers are run synchronously on the goroutine that raises the
// event. When a plugin such as racing runs attempts in parallel, the
// events for one request may come from several goroutines, but the
// group runs them one at a time and each event sees the exchange as it
// stands for its own attempt. Handlers may therefore keep per-request
// state on the exchange with SetValue.
type HandlerGroup struct {
	handlers [][]Handler
}

// PushBack adds an event handler to the back of the event handler chain
// for a specific event type.
//
// PushBack must not be called once the group's plugin is in use.
func (g *HandlerGroup) PushBack(evt Event, h Handler) {
	if h == nil {
		panic("routex: nil handler")
	}

	if g.handlers == nil {
		g.handlers = make([][]Handler, numEvents)
	}

	g.handlers[evt] = append(g.handlers[evt], h)
}

// Plugin returns a Plugin that raises the group's events. The plugin
// creates one request.Exchange per request and passes it to every
// handler.
func (g *HandlerGroup) Plugin() Plugin {
	return handlerPlugin{g}
}

func (g *HandlerGroup) run(evt Event, e *request.Exchange) {
	i := int(evt)
	if i < len(g.handlers) {
		run(g.handlers[i], evt, e)
	}
}

func run(chain []Handler, evt Event, e *request.Exchange) {
	for _, h := range chain {
		h.Handle(evt, e)
	}
}

// A Handler handles the occurrence of an event during a request.
type Handler interface {
	Handle(Event, *request.Exchange)
}

// The HandlerFunc type is an adapter to allow the use of ordinary
// functions as event handlers. If f is a function with appropriate
// signature, then HandlerFunc(f) is a Handler that calls f.
type HandlerFunc func(Event, *request.Exchange)

// Handle calls f(evt, e).
func (f HandlerFunc) Handle(evt Event, e *request.Exchange) {
	f(evt, e)
}

type exchangeKey struct{}

// tracker carries the exchange from the dispatch hook, which sees the
// request first, to the send hook. mu guards every field and every
// event raised on the exchange.
type tracker struct {
	mu       sync.Mutex
	exchange *request.Exchange
	sends    int
}

// raise runs the handlers for evt with the exchange set up by fn.
func (t *tracker) raise(g *HandlerGroup, evt Event, fn func(e *request.Exchange)) request.Arguments {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(t.exchange)
	g.run(evt, t.exchange)
	return t.exchange.Arguments
}

type handlerPlugin struct {
	g *HandlerGroup
}

func (p handlerPlugin) BeforeDispatch(next Execution) Execution {
	return func(args request.Arguments) *future.Future[*http.Response] {
		t := &tracker{exchange: &request.Exchange{Start: time.Now()}}
		args = args.WithContext(context.WithValue(args.Context(), exchangeKey{}, t))
		t.exchange.Arguments = args
		return future.Handle(next(args), func(resp *http.Response, err error) (*http.Response, error) {
			t.raise(p.g, AfterDispatch, func(e *request.Exchange) {
				e.Response = resp
				e.Err = err
				e.End = time.Now()
			})
			return resp, err
		})
	}
}

func (p handlerPlugin) BeforeSend(next Execution) Execution {
	return func(args request.Arguments) *future.Future[*http.Response] {
		t, ok := args.Context().Value(exchangeKey{}).(*tracker)
		if !ok {
			t = &tracker{exchange: &request.Exchange{Start: time.Now()}}
		}
		var attempt int
		args = t.raise(p.g, BeforeSend, func(e *request.Exchange) {
			attempt = t.sends
			t.sends++
			e.Attempt = attempt
			e.Arguments = args
			e.Response = nil
			e.Err = nil
		})
		return future.Handle(next(args), func(resp *http.Response, err error) (*http.Response, error) {
			if errors.Is(err, future.ErrCancelled) {
				return resp, err
			}
			t.raise(p.g, AfterSend, func(e *request.Exchange) {
				e.Attempt = attempt
				e.Arguments = args
				e.Response = resp
				e.Err = err
				if e.Timeout() {
					e.AttemptTimeouts++
				}
			})
			return resp, err
		})
	}
}
