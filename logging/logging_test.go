// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package logging

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gogama/routex"
	"github.com/gogama/routex/future"
	"github.com/gogama/routex/request"
	"github.com/gogama/routex/requestid"
	"github.com/gogama/routex/route"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m), line)
		out = append(out, m)
	}
	return out
}

func TestNew_Client(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path == "/broken" {
			w.WriteHeader(503)
			return
		}
		w.WriteHeader(204)
	}))
	defer server.Close()

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	cl := &routex.Client{
		BaseURL: server.URL,
		Plugin: routex.Plugins(
			New(logger),
			requestid.NewWithGenerator(func() string { return "id-1" }),
		),
	}
	ok := route.Dispatch(route.StatusSeries(), route.On(route.Successful, route.Pass()))

	t.Run("success", func(t *testing.T) {
		buf.Reset()
		_, err := cl.Get("/fine").Dispatch(ok).Wait()
		require.NoError(t, err)
		ls := lines(t, &buf)
		require.Len(t, ls, 2)
		assert.Equal(t, "debug", ls[0]["level"])
		assert.Equal(t, "sending request", ls[0]["message"])
		assert.Equal(t, "GET", ls[0]["method"])
		assert.Equal(t, server.URL+"/fine", ls[0]["uri"])
		assert.Equal(t, "id-1", ls[0]["request_id"])
		assert.Equal(t, "received response", ls[1]["message"])
		assert.Equal(t, float64(204), ls[1]["status"])
		assert.Contains(t, ls[1], "duration")
	})
	t.Run("unexpected", func(t *testing.T) {
		buf.Reset()
		_, err := cl.Get("/broken").Dispatch(ok).Wait()
		require.Error(t, err)
		ls := lines(t, &buf)
		require.Len(t, ls, 3)
		assert.Equal(t, "warn", ls[1]["level"])
		assert.Equal(t, "received response", ls[1]["message"])
		assert.Equal(t, "warn", ls[2]["level"])
		assert.Equal(t, "unexpected response", ls[2]["message"])
		assert.Equal(t, float64(503), ls[2]["status"])
	})
	t.Run("level filtered", func(t *testing.T) {
		buf.Reset()
		quiet := &routex.Client{BaseURL: server.URL, Plugin: New(logger.Level(zerolog.InfoLevel))}
		_, err := quiet.Get("/fine").Send().Wait()
		require.NoError(t, err)
		assert.Zero(t, buf.Len())
	})
}

func TestNew_Failure(t *testing.T) {
	var buf bytes.Buffer
	p := New(zerolog.New(&buf))
	exec := p.BeforeSend(func(request.Arguments) *future.Future[*http.Response] {
		return future.Failed[*http.Response](context.DeadlineExceeded)
	})
	args, _ := request.NewArguments("POST", "http://example.com/x")
	_, err := exec(args).Wait()
	require.Error(t, err)
	ls := lines(t, &buf)
	require.Len(t, ls, 2)
	assert.Equal(t, "warn", ls[1]["level"])
	assert.Equal(t, "request failed", ls[1]["message"])
	assert.Equal(t, "timeout", ls[1]["category"])
	assert.Equal(t, context.DeadlineExceeded.Error(), ls[1]["error"])
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestNew_Cancelled(t *testing.T) {
	var lb lockedBuffer
	p := New(zerolog.New(&lb))
	exec := p.BeforeSend(func(request.Arguments) *future.Future[*http.Response] {
		return future.New[*http.Response](nil)
	})
	args, _ := request.NewArguments("GET", "http://example.com/x")
	ctx := request.NewContext(args.Context(), &request.Exchange{Attempt: 2})
	f := exec(args.WithContext(ctx))
	require.True(t, f.Cancel())
	assert.Eventually(t, func() bool {
		return strings.Contains(lb.String(), "request cancelled")
	}, time.Second, time.Millisecond)
	ls := lines(t, bytes.NewBufferString(lb.String()))
	require.Len(t, ls, 2)
	assert.Equal(t, true, ls[1]["cancelled"])
	assert.Equal(t, float64(2), ls[0]["attempt"])
}
