// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package routex

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/gogama/routex/future"
	"github.com/gogama/routex/request"
	"github.com/gogama/routex/route"
)

// A Dispatcher sends a request and routes its response.
//
// Dispatch returns immediately with a future of the response. When the
// response arrives r is evaluated against it: if a terminal route
// handles it the future completes with the response, and if no route
// matches the future fails with *UnexpectedResponseError. Cancelling
// the future before the response arrives aborts the request and no
// route runs.
//
// Requester and Prepared implement Dispatcher.
type Dispatcher interface {
	Dispatch(r route.Route) *future.Future[*http.Response]
}

// A Requester accumulates the query parameters and headers of one
// request. Obtain one from a Client method such as Client.Get.
//
// Requester is immutable: every method returns a new Requester and
// leaves the receiver unchanged, so a partially configured Requester
// may be kept and reused as a template.
//
// Building a Requester never does I/O. Only Dispatch, Send, and the
// Dispatch and Send methods of the Prepared returned by Body send the
// request.
//
// Invalid input, such as a header name that is not a valid HTTP token,
// does not panic. The first such error is kept and the request fails
// with it when dispatched, without reaching the transport.
type Requester struct {
	client *Client
	method string
	uri    string
	ctx    context.Context
	query  request.Multimap
	header request.Multimap
	err    error
}

// QueryParam returns a Requester with one more query parameter. Earlier
// parameters with the same name are kept.
func (r Requester) QueryParam(name, value string) Requester {
	r.query = r.query.Add(name, value)
	return r
}

// QueryParams returns a Requester with every entry of params appended
// to its query parameters.
func (r Requester) QueryParams(params request.Multimap) Requester {
	r.query = r.query.AddAll(params)
	return r
}

// Header returns a Requester with one more header entry. Earlier
// entries with the same name are kept. The name is canonicalized in
// the manner of http.CanonicalHeaderKey.
func (r Requester) Header(name, value string) Requester {
	if !request.ValidHeader(name, value) {
		return r.fail(fmt.Errorf("routex: invalid header %q: %q", name, value))
	}
	r.header = r.header.Add(textproto.CanonicalMIMEHeaderKey(name), value)
	return r
}

// Headers returns a Requester with every entry of headers appended to
// its headers.
func (r Requester) Headers(headers request.Multimap) Requester {
	for _, p := range headers.Pairs() {
		r = r.Header(p.Name, p.Value)
	}
	return r
}

// Accept returns a Requester whose Accept header is replaced by the
// given media types. With no media types the header is removed.
func (r Requester) Accept(mediaTypes ...string) Requester {
	return r.set("Accept", mediaTypes...)
}

// ContentType returns a Requester whose Content-Type header is replaced
// by mediaType. The codec uses the declared content type to choose how
// to serialize the body.
func (r Requester) ContentType(mediaType string) Requester {
	return r.set("Content-Type", mediaType)
}

// IfModifiedSince returns a Requester whose If-Modified-Since header is
// replaced by t, formatted as an HTTP date.
func (r Requester) IfModifiedSince(t time.Time) Requester {
	return r.set("If-Modified-Since", t.UTC().Format(http.TimeFormat))
}

// IfUnmodifiedSince returns a Requester whose If-Unmodified-Since
// header is replaced by t, formatted as an HTTP date.
func (r Requester) IfUnmodifiedSince(t time.Time) Requester {
	return r.set("If-Unmodified-Since", t.UTC().Format(http.TimeFormat))
}

// IfMatch returns a Requester whose If-Match header is replaced by the
// given entity tags.
func (r Requester) IfMatch(etags ...string) Requester {
	return r.set("If-Match", etags...)
}

// IfNoneMatch returns a Requester whose If-None-Match header is
// replaced by the given entity tags.
func (r Requester) IfNoneMatch(etags ...string) Requester {
	return r.set("If-None-Match", etags...)
}

// WithContext returns a Requester bound to ctx. The request is sent
// under ctx, so ending ctx before the response arrives fails the
// request. A nil ctx is kept as an error.
func (r Requester) WithContext(ctx context.Context) Requester {
	if ctx == nil {
		return r.fail(errors.New("routex: nil context"))
	}
	r.ctx = ctx
	return r
}

// Err returns the first configuration error recorded on r, if any.
func (r Requester) Err() error {
	return r.err
}

// Body finalizes the request with body and returns a Prepared ready to
// be dispatched. Body does no I/O: nothing is sent until Send or
// Dispatch is called on the returned Prepared, so a chain ending in
// Body alone never reaches the network.
//
//	resp, err := client.Post("/users").Body(user).Send().Wait()
//
// The codec chooses how to serialize body from its Go type and the
// declared Content-Type. A nil body sends no body.
func (r Requester) Body(body interface{}) *Prepared {
	client := r.client
	if client == nil {
		client = &Client{}
	}
	p := &Prepared{client: client}
	if r.err != nil {
		p.err = r.err
		return p
	}
	ctx := r.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	args, err := request.NewArgumentsWithContext(ctx, r.method, r.uri)
	if err != nil {
		p.err = err
		return p
	}
	p.args = args.
		WithQuery(r.query).
		WithHeader(r.header).
		WithBody(body)
	return p
}

// Dispatch sends the request without a body and routes the response
// with rt. It is shorthand for r.Body(nil).Dispatch(rt).
func (r Requester) Dispatch(rt route.Route) *future.Future[*http.Response] {
	return r.Body(nil).Dispatch(rt)
}

// Send sends the request without a body and accepts any response. It
// is shorthand for r.Dispatch(route.Pass()).
func (r Requester) Send() *future.Future[*http.Response] {
	return r.Dispatch(route.Pass())
}

// set replaces the header name with values joined into one entry. With
// no values the header is removed.
func (r Requester) set(name string, values ...string) Requester {
	if len(values) == 0 {
		r.header = r.header.Set(name)
		return r
	}
	value := strings.Join(values, ", ")
	if !request.ValidHeader(name, value) {
		return r.fail(fmt.Errorf("routex: invalid header %q: %q", name, value))
	}
	r.header = r.header.Set(name, value)
	return r
}

func (r Requester) fail(err error) Requester {
	if r.err == nil {
		r.err = err
	}
	return r
}

// A Prepared is a finalized request, with its body attached, waiting
// to be dispatched. Obtain one from Requester.Body.
//
// Each call to Dispatch or Send sends the request again. A body given
// as an io.Reader is consumed by the first send.
type Prepared struct {
	client *Client
	args   request.Arguments
	err    error
}

// Arguments returns the finalized request arguments. It returns an
// error instead if the Requester recorded one.
func (p *Prepared) Arguments() (request.Arguments, error) {
	return p.args, p.err
}

// Dispatch sends the request and routes the response with rt. It
// panics if rt is nil.
func (p *Prepared) Dispatch(rt route.Route) *future.Future[*http.Response] {
	if rt == nil {
		panic("routex: nil route")
	}
	if p.err != nil {
		return future.Failed[*http.Response](p.err)
	}
	return p.client.call(p.args, rt)
}

// Send sends the request and accepts any response. It is shorthand for
// p.Dispatch(route.Pass()).
func (p *Prepared) Send() *future.Future[*http.Response] {
	return p.Dispatch(route.Pass())
}
