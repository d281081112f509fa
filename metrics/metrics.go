// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package metrics provides a routex plugin which records Prometheus
// metrics for every attempt to send a request.
//
//	collector := metrics.NewCollector(prometheus.DefaultRegisterer)
//	client := &routex.Client{Plugin: collector.Plugin()}
//
// The metrics are:
//
//	routex_request_duration_seconds   histogram  {method, series}
//	routex_request_failures_total     counter    {method, category}
//	routex_requests_in_flight         gauge      {method}
//	routex_unexpected_responses_total counter    {method, series}
//
// The series label is the status series of the response ("2xx",
// "4xx", ...). The category label is the transient.Category of the
// failure, or "cancelled".
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/gogama/routex"
	"github.com/gogama/routex/future"
	"github.com/gogama/routex/request"
	"github.com/gogama/routex/route"
	"github.com/gogama/routex/transient"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every metric name.
const Namespace = "routex"

// A Collector owns the request metrics. It is safe for concurrent use.
type Collector struct {
	duration   *prometheus.HistogramVec
	failures   *prometheus.CounterVec
	inFlight   *prometheus.GaugeVec
	unexpected *prometheus.CounterVec
}

// NewCollector creates the metrics and registers them with reg. It
// panics if registration fails, for example because another collector
// already registered the same names with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP request attempts that received a response.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "series"},
		),
		failures: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "request_failures_total",
				Help:      "HTTP request attempts that received no response.",
			},
			[]string{"method", "category"},
		),
		inFlight: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "requests_in_flight",
				Help:      "HTTP request attempts currently awaiting a response.",
			},
			[]string{"method"},
		),
		unexpected: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "unexpected_responses_total",
				Help:      "Responses that no route matched.",
			},
			[]string{"method", "series"},
		),
	}
}

// Plugin returns a plugin which records into c.
func (c *Collector) Plugin() routex.Plugin {
	return plugin{c}
}

type plugin struct {
	c *Collector
}

func (p plugin) BeforeSend(next routex.Execution) routex.Execution {
	return func(args request.Arguments) *future.Future[*http.Response] {
		method := args.Method()
		gauge := p.c.inFlight.WithLabelValues(method)
		gauge.Inc()
		start := time.Now()
		return future.Handle(next(args), func(resp *http.Response, err error) (*http.Response, error) {
			gauge.Dec()
			switch {
			case errors.Is(err, future.ErrCancelled):
				p.c.failures.WithLabelValues(method, "cancelled").Inc()
			case err != nil:
				p.c.failures.WithLabelValues(method, transient.Categorize(err).String()).Inc()
			default:
				p.c.duration.WithLabelValues(method, series(resp.StatusCode)).Observe(time.Since(start).Seconds())
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
				p.c.unexpected.WithLabelValues(args.Method(), series(unexpected.Response.StatusCode)).Inc()
			}
			return resp, err
		})
	}
}

func series(code int) string {
	s, _ := route.SeriesOf(code)
	return s.String()
}
