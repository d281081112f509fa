// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"math/rand"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gogama/routex/request"
)

// A Waiter specifies how long to wait before sending a request again.
//
// Implementations of Waiter must be safe for concurrent use by multiple
// goroutines.
//
// The retry plugin only calls the Waiter after the policy's Decider
// returned true.
type Waiter interface {
	Wait(e *request.Exchange) time.Duration
}

// DefaultWaiter is the default retry wait policy. It uses a jittered
// exponential backoff formula with a base wait of 50 milliseconds and a
// maximum wait of 1 second.
var DefaultWaiter = NewExpWaiter(50*time.Millisecond, 1*time.Second, time.Now())

// NewFixedWaiter constructs a Waiter that always returns the given
// duration.
//
// Use NewFixedWaiter to obtain a constant retry backoff.
func NewFixedWaiter(d time.Duration) Waiter {
	return fixedWaiter(d)
}

type fixedWaiter time.Duration

func (w fixedWaiter) Wait(_ *request.Exchange) time.Duration {
	return time.Duration(w)
}

// RetryAfter wraps w so that, when the response carries a Retry-After
// header, the wait is the delay it asks for, capped at max. Both the
// delay-seconds and HTTP-date forms are understood. Without a usable
// Retry-After header w decides.
func RetryAfter(w Waiter, max time.Duration) Waiter {
	if w == nil {
		panic("routex/retry: nil waiter")
	}
	return retryAfterWaiter{next: w, max: max}
}

type retryAfterWaiter struct {
	next Waiter
	max  time.Duration
}

func (w retryAfterWaiter) Wait(e *request.Exchange) time.Duration {
	if d, ok := retryAfter(e.Header(), time.Now()); ok {
		if d > w.max {
			d = w.max
		}
		return d
	}
	return w.next.Wait(e)
}

func retryAfter(h http.Header, now time.Time) (time.Duration, bool) {
	v := h.Get("Retry-After")
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0, false
		}
		return time.Duration(secs) * time.Second, true
	}
	t, err := http.ParseTime(v)
	if err != nil {
		return 0, false
	}
	d := t.Sub(now)
	if d < 0 {
		d = 0
	}
	return d, true
}

// NewExpWaiter constructs a Waiter implementing an exponential backoff
// formula with optional jitter.
//
// The formula implemented is the "Full Jitter" approach described in:
// https://aws.amazon.com/blogs/architecture/exponential-backoff-and-jitter.
//
// Parameters base and max control the exponential calculation of the
// ceiling:
//
//	ceil := max(base * 2**attempt, max)
//
// Base and max must be positive values, and max must be at least equal
// to base.
//
// Parameter jitter is used to generate a random number between 0 and
// ceil. To make a waiter that does not jitter and simply returns
// ceil on each attempt, pass nil for jitter. Otherwise you may specify
// either a random number generator seed value (as a time.Time, int, or
// int64) or a random number generator (as a rand.Source). If a seed
// value is specified, it is used to seed a random number generator
// for calculating jitter. If a rand.Source is specified, it is used to
// calculate jitter.
func NewExpWaiter(base, max time.Duration, jitter interface{}) Waiter {
	if base < 1 {
		panic("routex/retry: base must be positive")
	}
	if max < base {
		panic("routex/retry: max must be at least base")
	}
	r := jitterToRand(jitter)
	return &jitterExpWaiter{
		base: base,
		max:  max,
		rand: r,
	}
}

type jitterExpWaiter struct {
	base time.Duration
	max  time.Duration
	rand *rand.Rand
	lock sync.Mutex
}

func (w *jitterExpWaiter) Wait(e *request.Exchange) time.Duration {
	exp := int64(1) << e.Attempt
	if exp < 1 {
		exp = 1<<63 - 1
	}

	ceil := int64(w.base) * exp
	if ceil < int64(w.base) || int64(w.max) < ceil {
		ceil = int64(w.max)
	}

	duration := ceil
	if ceil > 0 {
		w.lock.Lock()
		defer w.lock.Unlock()
		if w.rand != nil {
			duration = w.rand.Int63n(ceil)
		}
	}

	return time.Duration(duration)
}

func jitterToRand(jitter interface{}) *rand.Rand {
	var s rand.Source
	switch j := jitter.(type) {
	case nil:
		return nil
	case time.Time:
		s = rand.NewSource(j.UnixNano())
	case int:
		s = rand.NewSource(int64(j))
	case int64:
		s = rand.NewSource(j)
	case *rand.Rand:
		if j == nil {
			panic("routex/retry: jitter may not be a typed nil")
		}
		return j
	case rand.Source:
		s = j
	default:
		panic("routex/retry: invalid jitter type")
	}
	return rand.New(s)
}
