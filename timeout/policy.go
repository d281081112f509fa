// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"time"

	"github.com/gogama/routex/request"
)

// A Policy chooses the timeout for the next attempt to send a request.
//
// Implementations of Policy must be safe for concurrent use by multiple
// goroutines.
type Policy interface {
	// Timeout returns the timeout to set on the next attempt.
	//
	// Parameter e describes the request so far. When the timeout
	// plugin runs inside the retry plugin, e is the retry plugin's
	// exchange and holds the outcome of the previous attempt;
	// otherwise it describes a first attempt.
	Timeout(e *request.Exchange) time.Duration
}

// DefaultPolicy is the default timeout policy. It sets a fixed timeout
// of 5 seconds on each attempt.
var DefaultPolicy Policy = Fixed(5 * time.Second)

// Infinite is a built-in timeout policy which never times out.
var Infinite Policy = Fixed(1<<63 - 1)

// Fixed constructs a timeout policy that uses d for every attempt.
func Fixed(d time.Duration) Policy {
	return policy([]time.Duration{d})
}

// Adaptive constructs a timeout policy that lengthens the timeout after
// an attempt times out.
//
// Parameter usual is the timeout for the first attempt and for any
// retry whose preceding attempt did not time out. Parameter after holds
// the timeouts used when the preceding attempt timed out: after[0]
// after the first timeout, after[1] after the second, and so on. Once
// after is exhausted its last element is used.
//
//	p := Adaptive(200*time.Millisecond, time.Second, 10*time.Second)
//
// Use Adaptive to cure one-off slow responses by timing out quickly and
// retrying, without causing a retry storm when the remote service goes
// through a burst of slowness.
func Adaptive(usual time.Duration, after ...time.Duration) Policy {
	p := make([]time.Duration, 1, 1+len(after))
	p[0] = usual
	return policy(append(p, after...))
}

type policy []time.Duration

func (p policy) Timeout(e *request.Exchange) time.Duration {
	if !e.Timeout() {
		return p[0]
	}

	i := e.AttemptTimeouts
	if i > len(p)-1 {
		i = len(p) - 1
	}

	return p[i]
}
