// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/gogama/routex"
	"github.com/gogama/routex/future"
	"github.com/gogama/routex/logging"
	"github.com/gogama/routex/ratelimit"
	"github.com/gogama/routex/request"
	"github.com/gogama/routex/requestid"
	"github.com/gogama/routex/retry"
	"github.com/gogama/routex/timeout"
	"github.com/gogama/routex/tracing"
	"github.com/rs/zerolog"
)

// Logger builds a zerolog logger writing to w according to c.
func (c Log) Logger(w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(c.Level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("routex/config: %w", err)
	}
	if c.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05.000"}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

// Plugins returns the plugins c asks for, innermost first, in the
// order routex.Plugins expects:
//
//	timeout, rate limit, logging, retry, tracing, request id, headers
//
// Timeout, rate limiting and logging apply to each attempt, so they
// sit inside retry. The rest apply once per request.
func (c Config) Plugins(logger zerolog.Logger) []routex.Plugin {
	var ps []routex.Plugin
	if c.Timeout > 0 {
		ps = append(ps, timeout.New(timeout.Fixed(c.Timeout)))
	}
	if c.RateLimit.RPS > 0 {
		ps = append(ps, ratelimit.New(ratelimit.NewLimiter(c.RateLimit.RPS, c.RateLimit.Burst)))
	}
	ps = append(ps, logging.New(logger))
	if c.Retry.Times > 0 {
		var w retry.Waiter = retry.NewExpWaiter(c.Retry.Base, c.Retry.Max, time.Now())
		if c.Retry.RetryAfter {
			w = retry.RetryAfter(w, c.Retry.Max)
		}
		d := retry.Times(c.Retry.Times).
			And(retry.Idempotent).
			And(retry.StatusCode(429, 502, 503, 504).Or(retry.TransientErr))
		ps = append(ps, retry.New(retry.NewPolicy(d, w)))
	}
	if c.Tracing {
		ps = append(ps, tracing.New())
	}
	if c.RequestID {
		ps = append(ps, requestid.New())
	}
	if len(c.Headers) > 0 {
		ps = append(ps, defaultHeaders(c.Headers))
	}
	return ps
}

// NewClient assembles a client from c. Extra plugins are installed
// outside the configured ones.
func NewClient(c Config, logger zerolog.Logger, extra ...routex.Plugin) *routex.Client {
	return &routex.Client{
		BaseURL: c.BaseURL,
		Plugin:  routex.Plugins(append(c.Plugins(logger), extra...)...),
	}
}

func defaultHeaders(headers map[string]string) routex.Plugin {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)
	var pairs []request.Pair
	for _, name := range names {
		pairs = append(pairs, request.Pair{Name: http.CanonicalHeaderKey(name), Value: headers[name]})
	}
	return routex.DispatchFunc(func(next routex.Execution) routex.Execution {
		return func(args request.Arguments) *future.Future[*http.Response] {
			h := args.Header()
			for _, p := range pairs {
				if !h.Has(p.Name) {
					h = h.Add(p.Name, p.Value)
				}
			}
			return next(args.WithHeader(h))
		}
	})
}
