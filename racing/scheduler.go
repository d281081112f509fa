// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package racing

import (
	"time"

	"github.com/gogama/routex/request"
)

// A Scheduler decides when to start the next racing attempt.
//
// Schedule returns how long to wait, from the moment it is called,
// before starting another attempt. The exchange's Racing field holds
// the number of attempts in flight. A zero or negative duration means
// no further attempt is scheduled.
type Scheduler interface {
	Schedule(e *request.Exchange) time.Duration
}

// NewStaticScheduler constructs a scheduler from a fixed list of
// offsets. While n attempts are racing, the next one is scheduled
// offsets[n-1] later. Once every offset is used, no more attempts are
// scheduled.
//
//	sc := NewStaticScheduler(250*time.Millisecond, 500*time.Millisecond)
//
// With sc the second attempt starts 250ms after the first, and the
// third 500ms after the second, if neither has answered.
func NewStaticScheduler(offsets ...time.Duration) Scheduler {
	cp := make([]time.Duration, len(offsets))
	copy(cp, offsets)
	return staticScheduler(cp)
}

type staticScheduler []time.Duration

func (sc staticScheduler) Schedule(e *request.Exchange) time.Duration {
	i := e.Racing - 1
	if i < 0 || i >= len(sc) {
		return 0
	}
	return sc[i]
}
