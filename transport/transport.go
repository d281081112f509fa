// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gogama/routex/future"
)

// An HTTPDoer implements a Do method in the same manner as the Go
// standard library http.Client from the net/http package.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response following
	// policy (such as redirects, cookies, auth) configured on the
	// HTTPDoer.
	Do(r *http.Request) (*http.Response, error)
}

// A Factory creates request handles.
type Factory interface {
	// NewRequest returns a handle for a request with the given method
	// to uri. No I/O happens until the handle's ExecuteAsync method is
	// called. The request is bound to ctx.
	NewRequest(ctx context.Context, uri *url.URL, method string) (Request, error)
}

// A Request is a handle on one outgoing request. Its headers and body
// may be written until ExecuteAsync is called, after which the handle
// must not be changed.
type Request interface {
	// Method returns the request method.
	Method() string
	// URL returns the request URL.
	URL() *url.URL
	// Header returns the header map sent with the request.
	Header() http.Header
	// Body returns the writer the body bytes are written to.
	Body() io.Writer
	// ExecuteAsync issues the request and returns a future of the
	// response. It does not block on network I/O. A handle may only be
	// executed once.
	ExecuteAsync() *future.Future[*http.Response]
}

// HTTP is a Factory whose requests are sent by an HTTPDoer. The zero
// value is ready to use and sends requests with http.DefaultClient.
type HTTP struct {
	// Doer sends the requests. If nil, http.DefaultClient is used.
	Doer HTTPDoer
}

// NewRequest implements Factory.
func (t *HTTP) NewRequest(ctx context.Context, uri *url.URL, method string) (Request, error) {
	if ctx == nil {
		return nil, errors.New("routex/transport: nil context")
	}
	if uri == nil {
		return nil, errors.New("routex/transport: nil url")
	}
	return &httpRequest{
		doer:   t.doer(),
		ctx:    ctx,
		method: method,
		url:    uri,
		header: make(http.Header),
	}, nil
}

func (t *HTTP) doer() HTTPDoer {
	if t == nil || t.Doer == nil {
		return http.DefaultClient
	}

	return t.Doer
}

// CloseIdleConnections invokes the same method on the underlying
// HTTPDoer, if it has one.
func (t *HTTP) CloseIdleConnections() {
	type idleCloser interface {
		CloseIdleConnections()
	}
	if ic, ok := t.doer().(idleCloser); ok {
		ic.CloseIdleConnections()
	}
}

type httpRequest struct {
	doer     HTTPDoer
	ctx      context.Context
	method   string
	url      *url.URL
	header   http.Header
	body     bytes.Buffer
	executed bool
}

func (r *httpRequest) Method() string      { return r.method }
func (r *httpRequest) URL() *url.URL       { return r.url }
func (r *httpRequest) Header() http.Header { return r.header }
func (r *httpRequest) Body() io.Writer     { return &r.body }

func (r *httpRequest) ExecuteAsync() *future.Future[*http.Response] {
	if r.executed {
		return future.Failed[*http.Response](errors.New("routex/transport: request already executed"))
	}
	r.executed = true

	ctx, cancel := context.WithCancel(r.ctx)
	var body io.Reader
	if r.body.Len() > 0 {
		body = bytes.NewReader(r.body.Bytes())
	}
	req, err := http.NewRequestWithContext(ctx, r.method, r.url.String(), body)
	if err != nil {
		cancel()
		return future.Failed[*http.Response](URLError(r.method, r.url, err))
	}
	req.Header = r.header.Clone()
	if host := req.Header.Get("Host"); host != "" {
		req.Host = host
		req.Header.Del("Host")
	}

	f := future.New[*http.Response](future.CancelFunc(cancel))
	go func() {
		resp, err := r.doer.Do(req)
		if err != nil {
			cancel()
			f.Fail(URLError(r.method, r.url, err))
			return
		}
		resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
		if !f.Complete(resp) {
			// Cancelled while the response was on its way.
			_ = resp.Body.Close()
		}
	}()
	return f
}

// cancelOnClose releases the request context once the caller is done
// with the response body.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}

// URLError wraps err in a *url.Error naming the method and URL, in the
// manner of the standard http.Client. If err is already a *url.Error
// it is returned unchanged.
func URLError(method string, u *url.URL, err error) error {
	if _, ok := err.(*url.Error); ok {
		return err
	}

	s := ""
	if u != nil {
		s = u.String()
	}
	return &url.Error{
		Op:  urlErrorOp(method),
		URL: s,
		Err: err,
	}
}

// urlErrorOp is lifted from net/http/client.go
func urlErrorOp(method string) string {
	if method == "" {
		return "Get"
	}
	return method[:1] + strings.ToLower(method[1:])
}
