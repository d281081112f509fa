// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package logging provides a routex plugin which writes a structured
// log line for every attempt to send a request, using zerolog.
//
//	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
//	client := &routex.Client{
//		Plugin: routex.Plugins(retry.New(retry.DefaultPolicy), logging.New(logger)),
//	}
//
// Attempts are logged at debug level, failures at warn level. A
// request that no route matched is logged once, at warn level, with
// its status.
package logging

import (
	"errors"
	"net/http"
	"time"

	"github.com/gogama/routex"
	"github.com/gogama/routex/future"
	"github.com/gogama/routex/request"
	"github.com/gogama/routex/requestid"
	"github.com/gogama/routex/transient"
	"github.com/rs/zerolog"
)

// New returns a plugin which logs to logger.
func New(logger zerolog.Logger) routex.Plugin {
	return plugin{logger}
}

type plugin struct {
	logger zerolog.Logger
}

func (p plugin) with(args request.Arguments) zerolog.Logger {
	c := p.logger.With().
		Str("method", args.Method()).
		Str("uri", args.RequestURI().String())
	if id := requestid.Get(args); id != "" {
		c = c.Str("request_id", id)
	}
	return c.Logger()
}

func (p plugin) BeforeSend(next routex.Execution) routex.Execution {
	return func(args request.Arguments) *future.Future[*http.Response] {
		l := p.with(args)
		if e, ok := request.FromContext(args.Context()); ok {
			l = l.With().Int("attempt", e.Attempt).Logger()
		}
		l.Debug().Msg("sending request")
		start := time.Now()
		return future.Handle(next(args), func(resp *http.Response, err error) (*http.Response, error) {
			d := time.Since(start)
			switch {
			case errors.Is(err, future.ErrCancelled):
				l.Debug().Bool("cancelled", true).Dur("duration", d).Msg("request cancelled")
			case err != nil:
				l.Warn().
					Err(err).
					Str("category", transient.Categorize(err).String()).
					Dur("duration", d).
					Msg("request failed")
			default:
				ev := l.Debug()
				if resp.StatusCode >= 500 {
					ev = l.Warn()
				}
				ev.Int("status", resp.StatusCode).Dur("duration", d).Msg("received response")
			}
			return resp, err
		})
	}
}

func (p plugin) BeforeDispatch(next routex.Execution) routex.Execution {
	return func(args request.Arguments) *future.Future[*http.Response] {
		return future.Handle(next(args), func(resp *http.Response, err error) (*http.Response, error) {
			var unexpected *routex.UnexpectedResponseError
			if errors.As(err, &unexpected) && unexpected.Response != nil {
				l := p.with(args)
				l.Warn().
					Int("status", unexpected.Response.StatusCode).
					Str("content_type", unexpected.Response.Header.Get("Content-Type")).
					Msg("unexpected response")
			}
			return resp, err
		})
	}
}
