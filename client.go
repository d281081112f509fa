// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package routex

import (
	"net/http"

	"github.com/gogama/routex/codec"
	"github.com/gogama/routex/future"
	"github.com/gogama/routex/request"
	"github.com/gogama/routex/route"
	"github.com/gogama/routex/transport"
)

var defaultTransport = &transport.HTTP{}

// A Client builds requests, sends them through its plugins and
// transport, and routes each response to one handler. Its zero value
// is a valid configuration.
//
// The zero value client sends requests with http.DefaultClient (through
// transport.HTTP), serializes bodies with codec.Default, and installs
// no plugins.
//
// A Client is safe for concurrent use by multiple goroutines. Its
// fields must not be changed once the Client is in use.
//
// Client's methods should feel familiar to anyone who has used the Go
// standard HTTP client. The main differences are:
//
// • each method returns a Requester, an immutable builder for headers
// and query parameters, instead of sending immediately; and
//
// • the request is sent asynchronously and its response is handed to a
// route tree (see package route) that selects exactly one handler by
// looking at the response, instead of being returned for the caller
// to inspect.
type Client struct {
	// Transport creates and sends requests.
	//
	// If Transport is nil, a transport.HTTP using http.DefaultClient is
	// used.
	Transport transport.Factory
	// Codec serializes request bodies and deserializes response bodies
	// for route terminals such as route.To.
	//
	// If Codec is nil, codec.Default is used.
	Codec codec.Codec
	// Plugin intercepts every request the client makes. Use Plugins to
	// install more than one.
	//
	// If Plugin is nil, no plugin is installed.
	Plugin Plugin
	// BaseURL, if not empty, is prepended to every relative request
	// URI.
	BaseURL string
}

// Get returns a Requester for a GET to uri. The URI may be a template
// whose "{name}" placeholders are replaced, in order, by the
// path-escaped values of vars.
//
//	client.Get("/users/{id}", 42).Dispatch(r)
func (c *Client) Get(uri string, vars ...interface{}) Requester {
	return c.Request(http.MethodGet, uri, vars...)
}

// Head returns a Requester for a HEAD to uri. See Get for the handling
// of uri and vars.
func (c *Client) Head(uri string, vars ...interface{}) Requester {
	return c.Request(http.MethodHead, uri, vars...)
}

// Post returns a Requester for a POST to uri. See Get for the handling
// of uri and vars.
func (c *Client) Post(uri string, vars ...interface{}) Requester {
	return c.Request(http.MethodPost, uri, vars...)
}

// Put returns a Requester for a PUT to uri. See Get for the handling
// of uri and vars.
func (c *Client) Put(uri string, vars ...interface{}) Requester {
	return c.Request(http.MethodPut, uri, vars...)
}

// Patch returns a Requester for a PATCH to uri. See Get for the
// handling of uri and vars.
func (c *Client) Patch(uri string, vars ...interface{}) Requester {
	return c.Request(http.MethodPatch, uri, vars...)
}

// Delete returns a Requester for a DELETE to uri. See Get for the
// handling of uri and vars.
func (c *Client) Delete(uri string, vars ...interface{}) Requester {
	return c.Request(http.MethodDelete, uri, vars...)
}

// Options returns a Requester for an OPTIONS to uri. See Get for the
// handling of uri and vars.
func (c *Client) Options(uri string, vars ...interface{}) Requester {
	return c.Request(http.MethodOptions, uri, vars...)
}

// Trace returns a Requester for a TRACE to uri. See Get for the
// handling of uri and vars.
func (c *Client) Trace(uri string, vars ...interface{}) Requester {
	return c.Request(http.MethodTrace, uri, vars...)
}

// Request returns a Requester for method to uri. See Get for the
// handling of uri and vars.
//
// Request does no I/O. An invalid method or template does not fail
// here: the error is kept and returned through the future when the
// request is dispatched.
func (c *Client) Request(method, uri string, vars ...interface{}) Requester {
	r := Requester{client: c, method: method}
	expanded, err := request.Expand(uri, vars...)
	if err != nil {
		r.err = err
		return r
	}
	r.uri = request.Resolve(c.BaseURL, expanded)
	return r
}

// CloseIdleConnections invokes the same method on the client's
// transport, if it has one.
func (c *Client) CloseIdleConnections() {
	type idleCloser interface {
		CloseIdleConnections()
	}
	if ic, ok := c.transport().(idleCloser); ok {
		ic.CloseIdleConnections()
	}
}

// call runs the full pipeline for args: the send stage wrapped by the
// BeforeSend hooks, then the dispatch stage, wrapped by the
// BeforeDispatch hooks.
func (c *Client) call(args request.Arguments, r route.Route) *future.Future[*http.Response] {
	plugin := c.plugin()
	send := plugin.BeforeSend(c.send)
	dispatch := plugin.BeforeDispatch(c.dispatch(send, r))
	return dispatch(args)
}

// send creates the transport request, writes its body, and issues it.
// The body is fully written before the request is executed, and a
// write failure means the request is never executed.
func (c *Client) send(args request.Arguments) *future.Future[*http.Response] {
	req, err := c.transport().NewRequest(args.Context(), args.RequestURI(), args.Method())
	if err != nil {
		return future.Failed[*http.Response](err)
	}
	if err = c.codec().Write(req, args.Header(), args.Body()); err != nil {
		return future.Failed[*http.Response](err)
	}
	return future.PreserveCancelability(req.ExecuteAsync())
}

// dispatch returns an execution that runs next and then evaluates r
// against the response. A route that panics fails the future with an
// error wrapping future.ErrPanic, and the response body is closed.
func (c *Client) dispatch(next Execution, r route.Route) Execution {
	reader := c.codec()
	return func(args request.Arguments) *future.Future[*http.Response] {
		return future.Then(next(args), func(resp *http.Response) (*http.Response, error) {
			defer func() {
				if v := recover(); v != nil {
					closeBody(resp)
					panic(v)
				}
			}()
			res, err := r.Execute(resp, reader)
			if err != nil {
				closeBody(resp)
				return nil, err
			}
			if res != route.Matched {
				return nil, &UnexpectedResponseError{Response: resp}
			}
			return resp, nil
		})
	}
}

func (c *Client) transport() transport.Factory {
	if c.Transport == nil {
		return defaultTransport
	}

	return c.Transport
}

func (c *Client) codec() codec.Codec {
	if c.Codec == nil {
		return codec.Default
	}

	return c.Codec
}

func (c *Client) plugin() Plugin {
	if c.Plugin == nil {
		return NoPlugin
	}

	return c.Plugin
}

func closeBody(resp *http.Response) {
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
}
