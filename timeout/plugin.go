// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"context"
	"io"
	"net/http"

	"github.com/gogama/routex"
	"github.com/gogama/routex/future"
	"github.com/gogama/routex/request"
)

// New returns a plugin that sends each attempt under a context whose
// deadline p chooses. An attempt that runs out of time fails with an
// error whose Timeout method reports true, which transient.Categorize
// classifies as transient.Timeout.
//
// The deadline covers reading the response body as well as receiving
// the response headers. It is released when the body is closed.
func New(p Policy) routex.Plugin {
	if p == nil {
		panic("routex/timeout: nil policy")
	}
	return routex.SendFunc(func(next routex.Execution) routex.Execution {
		return func(args request.Arguments) *future.Future[*http.Response] {
			e, ok := request.FromContext(args.Context())
			if !ok {
				e = &request.Exchange{Arguments: args}
			}
			ctx, cancel := context.WithTimeout(args.Context(), p.Timeout(e))
			return future.Handle(next(args.WithContext(ctx)), func(resp *http.Response, err error) (*http.Response, error) {
				if err != nil || resp == nil || resp.Body == nil {
					cancel()
					return resp, err
				}
				resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
				return resp, nil
			})
		}
	})
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
