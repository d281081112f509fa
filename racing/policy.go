// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package racing

import (
	"time"

	"github.com/gogama/routex/request"
)

// A Policy decides when to start another racing attempt. It is a
// Scheduler combined with a Starter.
type Policy interface {
	Scheduler
	Starter
}

// Disabled is a policy which never races: requests are sent once.
var Disabled Policy = disabled{}

type policy struct {
	scheduler Scheduler
	starter   Starter
}

// NewPolicy composes a Scheduler and a Starter into a racing Policy. It
// panics if either is nil.
func NewPolicy(sc Scheduler, st Starter) Policy {
	if sc == nil {
		panic("routex/racing: nil scheduler")
	}
	if st == nil {
		panic("routex/racing: nil starter")
	}
	return policy{scheduler: sc, starter: st}
}

func (p policy) Schedule(e *request.Exchange) time.Duration {
	return p.scheduler.Schedule(e)
}

func (p policy) Start(e *request.Exchange) bool {
	return p.starter.Start(e)
}

type disabled struct{}

func (disabled) Schedule(_ *request.Exchange) time.Duration {
	return 0
}

func (disabled) Start(_ *request.Exchange) bool {
	return false
}
