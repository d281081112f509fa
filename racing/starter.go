// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package racing

import (
	"sync"
	"time"

	"github.com/gogama/routex/request"
)

// A Starter confirms or discards a scheduled racing attempt.
//
// Implementations of Starter must be safe for concurrent use by
// multiple goroutines: one Starter is shared by every request the
// client races.
type Starter interface {
	// Start returns true if the scheduled attempt should join the race
	// and false if it should be discarded. Once an attempt is
	// discarded no further attempts are scheduled for the request.
	//
	// The exchange reflects the race at the time Start is called,
	// which may differ from when the attempt was scheduled.
	Start(*request.Exchange) bool
}

// AlwaysStart is a starter that starts every scheduled attempt.
var AlwaysStart = alwaysStarter(0)

type alwaysStarter int

func (st alwaysStarter) Start(_ *request.Exchange) bool {
	return true
}

// A Limit specifies the maximum number of request attempts allowed per
// unit time.
type Limit struct {
	MaxAttempts int
	Period      time.Duration
}

// NewThrottleStarter constructs a starter which throttles new racing
// attempts based on one or more limits, counted across every request
// sharing the starter.
//
// For example, the following starter would block starting any new
// parallel request attempts if more than 10 parallel request attempts
// have been started in the last half second, or more than 15 have been
// started in the last second:
//
//	s := racing.NewThrottleStarter(
//		racing.Limit{MaxAttempts: 10, Period: 500*time.Millisecond},
//		racing.Limit{MaxAttempts: 15, Period: 1*time.Second))
//
// As with all starters, the throttling starter only governs extra
// racing attempts. The first attempt of every request always starts.
func NewThrottleStarter(limits ...Limit) Starter {
	st := &throttleStarter{windows: make([]window, len(limits))}
	for i, l := range limits {
		st.windows[i] = window{period: l.Period, max: l.MaxAttempts}
	}
	return st
}

type throttleStarter struct {
	mu      sync.Mutex
	windows []window
}

func (st *throttleStarter) Start(_ *request.Exchange) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	now := time.Now()
	for i := range st.windows {
		st.windows[i].expire(now)
		if !st.windows[i].room() {
			return false
		}
	}
	for i := range st.windows {
		st.windows[i].record(now)
	}
	return true
}

// window is a sliding record of the start times seen in the last period.
type window struct {
	period time.Duration
	max    int
	starts []time.Time
}

// expire drops every start at or before now minus the period.
func (w *window) expire(now time.Time) {
	cutoff := now.Add(-w.period)
	kept := w.starts[:0]
	for _, t := range w.starts {
		if cutoff.Before(t) {
			kept = append(kept, t)
		}
	}
	w.starts = kept
}

func (w *window) room() bool {
	return len(w.starts) < w.max
}

func (w *window) record(t time.Time) {
	w.starts = append(w.starts, t)
}
