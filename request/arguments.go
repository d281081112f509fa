// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"errors"
	"fmt"
	urlpkg "net/url"
	"strings"

	"golang.org/x/net/http/httpguts"
)

const (
	nilCtxMsg = "routex/request: nil context"
)

// Arguments is the finalized description of one outgoing HTTP request:
// method, target URL, query parameters, headers and an optional body.
//
// Arguments is immutable. The With methods return a modified copy and
// never change the receiver, so an Arguments value may be shared freely
// between goroutines and plugins.
type Arguments struct {
	method string
	url    *urlpkg.URL
	query  Multimap
	header Multimap
	body   interface{}
	ctx    context.Context
}

// NewArguments returns Arguments for the given method and URL with no
// query parameters, headers, or body, bound to context.Background().
//
// An empty method means "GET". The method must be a valid HTTP token
// and the URL must parse.
func NewArguments(method, url string) (Arguments, error) {
	return NewArgumentsWithContext(context.Background(), method, url)
}

// NewArgumentsWithContext is like NewArguments but binds the arguments
// to ctx. The transport issues the request under ctx, so ending ctx
// fails the in-flight request.
func NewArgumentsWithContext(ctx context.Context, method, url string) (Arguments, error) {
	if ctx == nil {
		return Arguments{}, errors.New(nilCtxMsg)
	}
	if method == "" {
		method = "GET"
	}
	if !validMethod(method) {
		return Arguments{}, fmt.Errorf("routex/request: invalid method %q", method)
	}
	u, err := urlpkg.Parse(url)
	if err != nil {
		return Arguments{}, err
	}
	u.Host = removeEmptyPort(u.Host)
	return Arguments{
		ctx:    ctx,
		method: method,
		url:    u,
	}, nil
}

// Method returns the HTTP method.
func (a Arguments) Method() string {
	if a.method == "" {
		return "GET"
	}
	return a.method
}

// URL returns a copy of the target URL, without the query parameters
// held separately in Query.
func (a Arguments) URL() *urlpkg.URL {
	if a.url == nil {
		return &urlpkg.URL{}
	}
	u := *a.url
	return &u
}

// Query returns the query parameters appended to the URL when the
// request is sent.
func (a Arguments) Query() Multimap {
	return a.query
}

// Header returns the request headers.
func (a Arguments) Header() Multimap {
	return a.header
}

// Body returns the untyped request body, which may be nil.
func (a Arguments) Body() interface{} {
	return a.body
}

// Context returns the arguments' context, or context.Background() if
// none was set.
func (a Arguments) Context() context.Context {
	if a.ctx != nil {
		return a.ctx
	}
	return context.Background()
}

// RequestURI returns the URL to send the request to: URL with Query
// appended to any query already present on it.
func (a Arguments) RequestURI() *urlpkg.URL {
	u := a.URL()
	if a.query.Len() == 0 {
		return u
	}
	q := a.query.Encode()
	if u.RawQuery == "" {
		u.RawQuery = q
	} else {
		u.RawQuery = strings.TrimSuffix(u.RawQuery, "&") + "&" + q
	}
	u.ForceQuery = false
	return u
}

// WithMethod returns a copy of a with a different method. It panics
// if method is not a valid HTTP token.
func (a Arguments) WithMethod(method string) Arguments {
	if !validMethod(method) {
		panic(fmt.Sprintf("routex/request: invalid method %q", method))
	}
	a.method = method
	return a
}

// WithURL returns a copy of a targeting u. It panics if u is nil.
func (a Arguments) WithURL(u *urlpkg.URL) Arguments {
	if u == nil {
		panic("routex/request: nil url")
	}
	u2 := *u
	a.url = &u2
	return a
}

// WithQuery returns a copy of a whose query parameters are replaced by
// query.
func (a Arguments) WithQuery(query Multimap) Arguments {
	a.query = query
	return a
}

// WithHeader returns a copy of a whose headers are replaced by header.
func (a Arguments) WithHeader(header Multimap) Arguments {
	a.header = header
	return a
}

// WithBody returns a copy of a carrying body.
func (a Arguments) WithBody(body interface{}) Arguments {
	a.body = body
	return a
}

// WithContext returns a copy of a bound to ctx. It panics if ctx is
// nil.
func (a Arguments) WithContext(ctx context.Context) Arguments {
	if ctx == nil {
		panic(nilCtxMsg)
	}
	a.ctx = ctx
	return a
}

func validMethod(method string) bool {
	// The empty method is interpreted as "GET" before validation, so
	// only the token characters need checking.
	return method != "" && strings.IndexFunc(method, isNotToken) == -1
}

func isNotToken(r rune) bool {
	return !httpguts.IsTokenRune(r)
}

// ValidHeader reports whether name and value may be sent as an HTTP
// header field.
func ValidHeader(name, value string) bool {
	return httpguts.ValidHeaderFieldName(name) && httpguts.ValidHeaderFieldValue(value)
}

func hasPort(s string) bool { return strings.LastIndex(s, ":") > strings.LastIndex(s, "]") }

func removeEmptyPort(host string) string {
	if hasPort(host) {
		return strings.TrimSuffix(host, ":")
	}
	return host
}
