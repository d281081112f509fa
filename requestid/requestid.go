// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package requestid provides a routex plugin which tags each request
// with a correlation id header.
//
// The id is chosen once per request, before the first attempt, so
// every retry and racing attempt carries the same id:
//
//	client := &routex.Client{
//		Plugin: routex.Plugins(retry.New(retry.DefaultPolicy), requestid.New()),
//	}
package requestid

import (
	"net/http"

	"github.com/gogama/routex"
	"github.com/gogama/routex/future"
	"github.com/gogama/routex/request"
	"github.com/google/uuid"
)

// Header is the name of the request header carrying the id.
const Header = "X-Request-Id"

// New returns a plugin which sets Header to a random UUID on every
// request that does not already carry one.
func New() routex.Plugin {
	return NewWithGenerator(uuid.NewString)
}

// NewWithGenerator is like New but obtains ids from gen. It panics if
// gen is nil.
func NewWithGenerator(gen func() string) routex.Plugin {
	if gen == nil {
		panic("routex/requestid: nil generator")
	}
	return routex.DispatchFunc(func(next routex.Execution) routex.Execution {
		return func(args request.Arguments) *future.Future[*http.Response] {
			if !args.Header().Has(Header) {
				args = args.WithHeader(args.Header().Set(Header, gen()))
			}
			return next(args)
		}
	})
}

// Get returns the request id carried by args, or "" if there is none.
func Get(args request.Arguments) string {
	return args.Header().Get(Header)
}
