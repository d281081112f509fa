// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package route

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gogama/routex/codec"
)

// Result is the outcome of evaluating a Route against a response.
type Result int

const (
	// NoMatch means the route did not handle the response.
	NoMatch Result = iota
	// Matched means a terminal route handled the response.
	Matched
)

// String returns "Matched" or "NoMatch".
func (r Result) String() string {
	if r == Matched {
		return "Matched"
	}
	return "NoMatch"
}

// A Route handles, or declines, a response.
//
// Execute must be safe to call concurrently: a route tree is built once
// and shared by every in-flight request. A terminal route that returns
// NoMatch must not have performed any side effect.
type Route interface {
	Execute(resp *http.Response, reader codec.Reader) (Result, error)
}

// Func is an adapter to allow the use of ordinary functions as routes.
// A Func may return NoMatch to decline the response.
type Func func(resp *http.Response, reader codec.Reader) (Result, error)

// Execute calls f(resp, reader).
func (f Func) Execute(resp *http.Response, reader codec.Reader) (Result, error) {
	return f(resp, reader)
}

// Pass returns a terminal route that matches any response and does
// nothing with it. The response body is left for the caller.
func Pass() Route {
	return pass{}
}

type pass struct{}

func (pass) Execute(_ *http.Response, _ codec.Reader) (Result, error) {
	return Matched, nil
}

// Discard returns a terminal route that matches any response, drains
// its body, and closes it.
func Discard() Route {
	return discard{}
}

type discard struct{}

func (discard) Execute(resp *http.Response, _ codec.Reader) (Result, error) {
	if resp.Body == nil {
		return Matched, nil
	}
	_, err := io.Copy(io.Discard, resp.Body)
	cerr := resp.Body.Close()
	if err == nil {
		err = cerr
	}
	return Matched, err
}

// Call returns a terminal route that passes the response to fn. The
// route matches whatever fn returns; an error from fn fails the
// request.
func Call(fn func(resp *http.Response) error) Route {
	if fn == nil {
		panic("routex/route: nil function")
	}
	return Func(func(resp *http.Response, _ codec.Reader) (Result, error) {
		return Matched, fn(resp)
	})
}

// To returns a terminal route that reads the response body into a new
// value of type T using the client's codec and passes it to fn. The
// body is closed after reading.
func To[T any](fn func(T) error) Route {
	if fn == nil {
		panic("routex/route: nil function")
	}
	return Func(func(resp *http.Response, reader codec.Reader) (Result, error) {
		var v T
		if err := reader.Read(resp, &v); err != nil {
			return Matched, err
		}
		return Matched, fn(v)
	})
}

// Dispatch returns a route that evaluates nav against the response and
// follows the binding registered for the resulting value. If no
// binding is registered for the value, or nav cannot extract one, the
// wildcard binding is followed. If the followed route yields NoMatch,
// the wildcard binding is tried in its place. Without a usable
// wildcard the dispatch route yields NoMatch.
//
// Dispatch panics if nav is nil, if two bindings share a value, or if
// more than one wildcard binding is given.
func Dispatch[T comparable](nav Navigator[T], bindings ...Binding[T]) Route {
	if nav == nil {
		panic("routex/route: nil navigator")
	}
	d := &dispatcher[T]{
		nav:    nav,
		routes: make(map[T]Route, len(bindings)),
	}
	for _, b := range bindings {
		if b.route == nil {
			panic("routex/route: binding has no route")
		}
		if b.wildcard {
			if d.wildcard != nil {
				panic("routex/route: duplicate wildcard binding")
			}
			d.wildcard = b.route
			continue
		}
		if _, ok := d.routes[b.value]; ok {
			panic(fmt.Sprintf("routex/route: duplicate binding for %v", b.value))
		}
		d.routes[b.value] = b.route
	}
	return d
}

type dispatcher[T comparable] struct {
	nav      Navigator[T]
	routes   map[T]Route
	wildcard Route
}

func (d *dispatcher[T]) Execute(resp *http.Response, reader codec.Reader) (Result, error) {
	if v, ok := d.nav.Navigate(resp); ok {
		if r, ok := d.routes[v]; ok {
			res, err := r.Execute(resp, reader)
			if err != nil || res == Matched {
				return res, err
			}
		}
	}
	if d.wildcard == nil {
		return NoMatch, nil
	}
	return d.wildcard.Execute(resp, reader)
}

// A Binding associates one attribute value, or the wildcard, with a
// route. Create bindings with On and Any.
type Binding[T comparable] struct {
	value    T
	wildcard bool
	route    Route
}

// On binds value to r.
func On[T comparable](value T, r Route) Binding[T] {
	return Binding[T]{value: value, route: r}
}

// Any returns the wildcard binding for attribute type T, followed when
// no other binding matches. The typed helpers AnySeries, AnyStatusCode,
// AnyContentType and AnyHeader save spelling out T.
func Any[T comparable](r Route) Binding[T] {
	return Binding[T]{wildcard: true, route: r}
}

// Wildcard reports whether b is a wildcard binding.
func (b Binding[T]) Wildcard() bool {
	return b.wildcard
}

// Value returns the value b is bound to. It is the zero value for a
// wildcard binding.
func (b Binding[T]) Value() T {
	return b.value
}
