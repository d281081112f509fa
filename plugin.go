// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package routex

import (
	"net/http"

	"github.com/gogama/routex/future"
	"github.com/gogama/routex/request"
)

// An Execution issues the request described by args and returns a
// future of the raw response. The Client builds one Execution per
// request and plugins wrap it.
//
// An Execution must not block: any work that waits on the network
// belongs inside the returned future.
type Execution func(args request.Arguments) *future.Future[*http.Response]

// A Plugin intercepts request execution at two points.
//
// BeforeSend wraps the execution that sends the request through the
// transport. A wrapper installed here sees every attempt to send,
// so this is where retry, timeout and rate limiting live.
//
// BeforeDispatch wraps the execution that sends the request and then
// routes the response. A wrapper installed here sees the final outcome
// of the request, including UnexpectedResponseError and errors from
// route handlers.
//
// Plugins are shared by every request a Client makes and must be safe
// for concurrent use. A plugin must not assume it is the only wrapper.
type Plugin interface {
	BeforeSend(next Execution) Execution
	BeforeDispatch(next Execution) Execution
}

// NoPlugin is a Plugin that returns every execution unchanged.
var NoPlugin Plugin = noPlugin{}

type noPlugin struct{}

func (noPlugin) BeforeSend(next Execution) Execution     { return next }
func (noPlugin) BeforeDispatch(next Execution) Execution { return next }

// SendFunc is an adapter to allow the use of an ordinary wrapping
// function as a Plugin that only intercepts BeforeSend.
type SendFunc func(next Execution) Execution

// BeforeSend calls f(next).
func (f SendFunc) BeforeSend(next Execution) Execution { return f(next) }

// BeforeDispatch returns next unchanged.
func (f SendFunc) BeforeDispatch(next Execution) Execution { return next }

// DispatchFunc is an adapter to allow the use of an ordinary wrapping
// function as a Plugin that only intercepts BeforeDispatch.
type DispatchFunc func(next Execution) Execution

// BeforeSend returns next unchanged.
func (f DispatchFunc) BeforeSend(next Execution) Execution { return next }

// BeforeDispatch calls f(next).
func (f DispatchFunc) BeforeDispatch(next Execution) Execution { return f(next) }

// Plugins composes plugins into one. At each hook the plugins wrap the
// execution in list order, so the first plugin is innermost (closest
// to the transport) and the last is outermost (closest to the
// caller).
//
// Plugins panics if any plugin is nil.
func Plugins(plugins ...Plugin) Plugin {
	for _, p := range plugins {
		if p == nil {
			panic("routex: nil plugin")
		}
	}
	switch len(plugins) {
	case 0:
		return NoPlugin
	case 1:
		return plugins[0]
	}
	cp := make(chain, len(plugins))
	copy(cp, plugins)
	return cp
}

type chain []Plugin

func (c chain) BeforeSend(next Execution) Execution {
	for _, p := range c {
		next = p.BeforeSend(next)
	}
	return next
}

func (c chain) BeforeDispatch(next Execution) Execution {
	for _, p := range c {
		next = p.BeforeDispatch(next)
	}
	return next
}
