// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gogama/routex/future"
	"github.com/gogama/routex/request"
	"github.com/gogama/routex/transient"
	"github.com/gogama/routex/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func send(t *testing.T) func(request.Arguments) *future.Future[*http.Response] {
	factory := &transport.HTTP{}
	return func(args request.Arguments) *future.Future[*http.Response] {
		req, err := factory.NewRequest(args.Context(), args.RequestURI(), args.Method())
		require.NoError(t, err)
		return req.ExecuteAsync()
	}
}

func TestNew(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/slow" {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}
		_, _ = io.WriteString(w, "ok")
	}))
	defer server.Close()
	defer close(release)

	t.Run("times out", func(t *testing.T) {
		args, err := request.NewArguments(http.MethodGet, server.URL+"/slow")
		require.NoError(t, err)
		exec := New(Fixed(20 * time.Millisecond)).BeforeSend(send(t))
		start := time.Now()
		_, err = exec(args).Wait()
		require.Error(t, err)
		assert.Equal(t, transient.Timeout, transient.Categorize(err))
		assert.Less(t, time.Since(start), 5*time.Second)
	})
	t.Run("body readable after success", func(t *testing.T) {
		args, err := request.NewArguments(http.MethodGet, server.URL+"/fast")
		require.NoError(t, err)
		exec := New(Fixed(time.Second)).BeforeSend(send(t))
		resp, err := exec(args).Wait()
		require.NoError(t, err)
		b, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "ok", string(b))
		assert.NoError(t, resp.Body.Close())
	})
	t.Run("uses exchange from context", func(t *testing.T) {
		var got time.Duration
		p := policyFunc(func(e *request.Exchange) time.Duration {
			got = time.Duration(e.Attempt) * time.Second
			return got
		})
		args, err := request.NewArguments(http.MethodGet, server.URL+"/fast")
		require.NoError(t, err)
		args = args.WithContext(request.NewContext(context.Background(), &request.Exchange{Attempt: 3}))
		resp, err := New(p).BeforeSend(send(t))(args).Wait()
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, 3*time.Second, got)
	})
	t.Run("nil policy", func(t *testing.T) {
		assert.PanicsWithValue(t, "routex/timeout: nil policy", func() { New(nil) })
	})
}

type policyFunc func(e *request.Exchange) time.Duration

func (f policyFunc) Timeout(e *request.Exchange) time.Duration { return f(e) }
