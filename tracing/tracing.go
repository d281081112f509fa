// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package tracing provides a routex plugin which traces requests with
// OpenTelemetry.
//
// Each request gets one client span covering every attempt and the
// routing of the response. Every attempt carries the span's context to
// the server in its headers, using the configured propagator, and adds
// a "send" event to the span.
//
//	client := &routex.Client{
//		Plugin: routex.Plugins(retry.New(retry.DefaultPolicy), tracing.New()),
//	}
package tracing

import (
	"errors"
	"net/http"

	"github.com/gogama/routex"
	"github.com/gogama/routex/future"
	"github.com/gogama/routex/request"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// ScopeName is the instrumentation scope name of the tracer.
const ScopeName = "github.com/gogama/routex/tracing"

// An Option configures the tracing plugin.
type Option func(*config)

type config struct {
	provider   trace.TracerProvider
	propagator propagation.TextMapPropagator
}

// WithTracerProvider sets the tracer provider. The default is the
// global provider from otel.GetTracerProvider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *config) { c.provider = tp }
}

// WithPropagator sets the propagator which writes the span context
// into request headers. The default is the global propagator from
// otel.GetTextMapPropagator.
func WithPropagator(p propagation.TextMapPropagator) Option {
	return func(c *config) { c.propagator = p }
}

// New returns a tracing plugin.
func New(opts ...Option) routex.Plugin {
	c := config{}
	for _, opt := range opts {
		opt(&c)
	}
	if c.provider == nil {
		c.provider = otel.GetTracerProvider()
	}
	if c.propagator == nil {
		c.propagator = otel.GetTextMapPropagator()
	}
	return plugin{
		tracer:     c.provider.Tracer(ScopeName),
		propagator: c.propagator,
	}
}

type plugin struct {
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
}

func (p plugin) BeforeDispatch(next routex.Execution) routex.Execution {
	return func(args request.Arguments) *future.Future[*http.Response] {
		ctx, span := p.tracer.Start(args.Context(), "HTTP "+args.Method(),
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				attribute.String("http.request.method", args.Method()),
				attribute.String("url.full", args.RequestURI().String()),
			))
		return future.Handle(next(args.WithContext(ctx)), func(resp *http.Response, err error) (*http.Response, error) {
			defer span.End()
			var unexpected *routex.UnexpectedResponseError
			switch {
			case errors.As(err, &unexpected) && unexpected.Response != nil:
				span.SetAttributes(attribute.Int("http.response.status_code", unexpected.Response.StatusCode))
				span.SetStatus(codes.Error, "unexpected response")
			case err != nil:
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			default:
				span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
			}
			return resp, err
		})
	}
}

func (p plugin) BeforeSend(next routex.Execution) routex.Execution {
	return func(args request.Arguments) *future.Future[*http.Response] {
		ctx := args.Context()
		span := trace.SpanFromContext(ctx)
		attempt := 0
		if e, ok := request.FromContext(ctx); ok {
			attempt = e.Attempt
		}
		span.AddEvent("send", trace.WithAttributes(attribute.Int("attempt", attempt)))

		carrier := propagation.HeaderCarrier(http.Header{})
		p.propagator.Inject(ctx, carrier)
		if keys := carrier.Keys(); len(keys) > 0 {
			h := args.Header()
			for _, k := range keys {
				h = h.Set(http.CanonicalHeaderKey(k), carrier.Get(k))
			}
			args = args.WithHeader(h)
		}
		return next(args)
	}
}
