// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"net/http"
	"time"

	"github.com/gogama/routex/request"
	"github.com/gogama/routex/transient"
)

// A Decider decides, after an attempt, whether the request should be
// sent again.
//
// Implementations of Decider must be safe for concurrent use by
// multiple goroutines.
//
// Use the built-in constructors Times, Before, StatusCode and Methods,
// and the built-in deciders TransientErr and Idempotent; or implement
// your own. Compose deciders with DeciderFunc.And and DeciderFunc.Or.
type Decider interface {
	Decide(e *request.Exchange) bool
}

// The DeciderFunc type is an adapter to allow the use of ordinary
// functions as retry deciders. It implements the Decider interface, and
// also provides the logical composition methods And and Or.
type DeciderFunc func(e *request.Exchange) bool

// DefaultTimes is the number of times DefaultPolicy will retry.
const DefaultTimes = 5

// DefaultDecider allows up to DefaultTimes retries of idempotent
// requests which ended in a transient error or in one of the status
// codes 429 (Too Many Requests), 502 (Bad Gateway), 503 (Service
// Unavailable) or 504 (Gateway Timeout).
//
// Requests with a non-idempotent method, such as POST, are never
// retried by DefaultDecider: the server may have acted on the first
// attempt.
var DefaultDecider = Times(DefaultTimes).
	And(Idempotent).
	And(StatusCode(429, 502, 503, 504).Or(TransientErr))

// TransientErr is a decider that indicates a retry if the attempt
// ended in an error which transient.Categorize considers transient.
// It always returns false if a response was received.
var TransientErr DeciderFunc = transientErr

// Idempotent is a decider that returns true if the request method is
// idempotent: GET, HEAD, OPTIONS, TRACE, PUT or DELETE.
var Idempotent = Methods(
	http.MethodGet,
	http.MethodHead,
	http.MethodOptions,
	http.MethodTrace,
	http.MethodPut,
	http.MethodDelete,
)

// Decide calls f(e).
func (f DeciderFunc) Decide(e *request.Exchange) bool {
	return f(e)
}

// And composes two retry deciders into a new decider which returns true
// if both sub-deciders return true. g is not evaluated if f returns
// false.
func (f DeciderFunc) And(g DeciderFunc) DeciderFunc {
	return func(e *request.Exchange) bool {
		return f(e) && g(e)
	}
}

// Or composes two retry deciders into a new decider which returns true
// if either sub-decider returns true. g is not evaluated if f returns
// true.
func (f DeciderFunc) Or(g DeciderFunc) DeciderFunc {
	return func(e *request.Exchange) bool {
		return f(e) || g(e)
	}
}

// Times constructs a retry decider which allows up to n retries, that
// is, n+1 attempts in all.
func Times(n int) DeciderFunc {
	return func(e *request.Exchange) bool {
		return e.Attempt < n
	}
}

// Before constructs a retry decider which allows retries until d has
// elapsed since the first attempt started.
func Before(d time.Duration) DeciderFunc {
	return func(e *request.Exchange) bool {
		return e.Duration() < d
	}
}

// StatusCode constructs a retry decider which returns true if the
// attempt received a response with one of the given status codes.
func StatusCode(ss ...int) DeciderFunc {
	set := make(map[int]struct{}, len(ss))
	for _, s := range ss {
		set[s] = struct{}{}
	}
	return func(e *request.Exchange) bool {
		if e.Response == nil {
			return false
		}
		_, ok := set[e.StatusCode()]
		return ok
	}
}

// Methods constructs a retry decider which returns true if the request
// method is one of the given methods.
func Methods(methods ...string) DeciderFunc {
	set := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		set[m] = struct{}{}
	}
	return func(e *request.Exchange) bool {
		_, ok := set[e.Arguments.Method()]
		return ok
	}
}

func transientErr(e *request.Exchange) bool {
	return transient.Categorize(e.Err) != transient.Not
}
