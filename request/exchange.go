// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"net/http"
	"time"

	"github.com/gogama/routex/transient"
)

// An Exchange records the progress of one logical request through the
// plugins that observe it: the arguments sent, the attempt number, and
// the response or error received.
//
// Exchange is the input type for retry deciders and waiters, timeout
// policies, and event handlers. It is owned by the plugin that creates
// it and is not safe for concurrent mutation.
type Exchange struct {
	// Arguments holds the request arguments of the current attempt.
	Arguments Arguments

	// Start is the time the first attempt started.
	Start time.Time

	// End is the time the exchange ended. It is zero while the
	// exchange is in progress.
	End time.Time

	// Attempt is the zero-based attempt counter.
	Attempt int

	// AttemptTimeouts counts attempts that ended in a timeout.
	AttemptTimeouts int

	// Racing is the number of attempts currently in flight at the same
	// time. It is only above one while attempts are being raced.
	Racing int

	// Response is the response to the current attempt, if one was
	// received.
	Response *http.Response

	// Err is the error that ended the current attempt, if any.
	Err error

	data context.Context
}

// StatusCode returns the status code of the current response, or 0 if
// there is no response.
func (e *Exchange) StatusCode() int {
	if e.Response == nil {
		return 0
	}

	return e.Response.StatusCode
}

// Header returns the headers of the current response, or nil if there
// is no response.
func (e *Exchange) Header() http.Header {
	if e.Response == nil {
		return nil
	}

	return e.Response.Header
}

// Duration returns the time elapsed since Start, or the total duration
// of the exchange once it has ended.
func (e *Exchange) Duration() time.Duration {
	if !e.Started() {
		return time.Duration(0)
	} else if !e.Ended() {
		return time.Since(e.Start)
	}

	return e.End.Sub(e.Start)
}

// Started reports whether Start is set.
func (e *Exchange) Started() bool {
	return !e.Start.IsZero()
}

// Ended reports whether End is set.
func (e *Exchange) Ended() bool {
	return !e.End.IsZero()
}

// Timeout reports whether the current attempt ended in a timeout.
func (e *Exchange) Timeout() bool {
	return transient.Categorize(e.Err) == transient.Timeout
}

// SetValue attaches a value to the exchange, in the manner of
// context.WithValue. Handlers use it to carry state between events.
func (e *Exchange) SetValue(key, value interface{}) {
	ctx := e.data
	if ctx == nil {
		ctx = context.Background()
	}

	e.data = context.WithValue(ctx, key, value)
}

// Value returns the value attached under key, or nil.
func (e *Exchange) Value(key interface{}) interface{} {
	if e.data == nil {
		return nil
	}

	return e.data.Value(key)
}

type exchangeKey struct{}

// NewContext returns a copy of ctx carrying e. Plugins that drive more
// than one attempt use it to share the exchange with plugins running
// inside each attempt.
func NewContext(ctx context.Context, e *Exchange) context.Context {
	return context.WithValue(ctx, exchangeKey{}, e)
}

// FromContext returns the Exchange carried by ctx, if any.
func FromContext(ctx context.Context) (*Exchange, bool) {
	e, ok := ctx.Value(exchangeKey{}).(*Exchange)
	return e, ok
}
