// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gogama/routex"
	"github.com/gogama/routex/future"
	"github.com/gogama/routex/request"
	"github.com/gogama/routex/route"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newProvider(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp, sr
}

func attr(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestNew_Client(t *testing.T) {
	var traceparent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		traceparent = req.Header.Get("Traceparent")
		if req.URL.Path == "/missing" {
			w.WriteHeader(404)
			return
		}
		w.WriteHeader(200)
	}))
	defer server.Close()

	tp, sr := newProvider(t)
	cl := &routex.Client{
		BaseURL: server.URL,
		Plugin:  New(WithTracerProvider(tp), WithPropagator(propagation.TraceContext{})),
	}
	ok := route.Dispatch(route.StatusSeries(), route.On(route.Successful, route.Discard()))

	t.Run("success", func(t *testing.T) {
		_, err := cl.Get("/found").Dispatch(ok).Wait()
		require.NoError(t, err)
		spans := sr.Ended()
		require.Len(t, spans, 1)
		span := spans[0]
		assert.Equal(t, "HTTP GET", span.Name())
		assert.NotEmpty(t, traceparent)
		assert.Contains(t, traceparent, span.SpanContext().TraceID().String())
		v, found := attr(span.Attributes(), "http.response.status_code")
		require.True(t, found)
		assert.Equal(t, int64(200), v.AsInt64())
		v, found = attr(span.Attributes(), "url.full")
		require.True(t, found)
		assert.Equal(t, server.URL+"/found", v.AsString())
		require.Len(t, span.Events(), 1)
		assert.Equal(t, "send", span.Events()[0].Name)
		assert.Equal(t, codes.Unset, span.Status().Code)
	})
	t.Run("unexpected", func(t *testing.T) {
		_, err := cl.Get("/missing").Dispatch(ok).Wait()
		require.Error(t, err)
		spans := sr.Ended()
		require.Len(t, spans, 2)
		span := spans[1]
		assert.Equal(t, codes.Error, span.Status().Code)
		v, _ := attr(span.Attributes(), "http.response.status_code")
		assert.Equal(t, int64(404), v.AsInt64())
	})
}

func TestNew_Failure(t *testing.T) {
	tp, sr := newProvider(t)
	p := New(WithTracerProvider(tp), WithPropagator(propagation.TraceContext{}))
	var sent request.Arguments
	exec := p.BeforeDispatch(p.BeforeSend(func(args request.Arguments) *future.Future[*http.Response] {
		sent = args
		return future.Failed[*http.Response](context.DeadlineExceeded)
	}))
	args, _ := request.NewArguments("DELETE", "http://example.com/x")
	_, err := exec(args).Wait()
	require.ErrorIs(t, err, context.DeadlineExceeded)
	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "HTTP DELETE", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.True(t, sent.Header().Has("Traceparent"))
	assert.False(t, args.Header().Has("Traceparent"))
}

func TestNew_Defaults(t *testing.T) {
	p := New()
	args, _ := request.NewArguments("GET", "http://example.com")
	exec := p.BeforeDispatch(p.BeforeSend(func(request.Arguments) *future.Future[*http.Response] {
		return future.Completed(&http.Response{StatusCode: 204})
	}))
	resp, err := exec(args).Wait()
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)
}
