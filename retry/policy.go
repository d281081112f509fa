// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"time"

	"github.com/gogama/routex/request"
)

// A Policy controls if and how a request is sent again. After every
// attempt the retry plugin asks the Policy whether to retry and, if
// so, how long to wait first.
//
// Implementations of Policy must be safe for concurrent use by multiple
// goroutines.
//
// Build a Policy from a Decider and a Waiter with NewPolicy, or use
// DefaultPolicy or Never.
type Policy interface {
	Decider
	Waiter
}

// DefaultPolicy is a general-purpose retry policy composed of
// DefaultDecider and DefaultWaiter.
var DefaultPolicy Policy = policy{DefaultDecider, DefaultWaiter}

// Never is a policy that never retries.
var Never Policy = policy{Times(0), DefaultWaiter}

type policy struct {
	decider Decider
	waiter  Waiter
}

// NewPolicy composes a Decider and a Waiter into a retry Policy. It
// panics if either is nil.
func NewPolicy(d Decider, w Waiter) Policy {
	if d == nil {
		panic("routex/retry: nil decider")
	}
	if w == nil {
		panic("routex/retry: nil waiter")
	}
	return policy{decider: d, waiter: w}
}

func (p policy) Decide(e *request.Exchange) bool {
	return p.decider.Decide(e)
}

func (p policy) Wait(e *request.Exchange) time.Duration {
	return p.waiter.Wait(e)
}
