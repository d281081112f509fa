// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package routex_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gogama/routex"
	"github.com/gogama/routex/future"
	"github.com/gogama/routex/racing"
	"github.com/gogama/routex/request"
	"github.com/gogama/routex/retry"
	"github.com/gogama/routex/route"
	"github.com/gogama/routex/timeout"
	"github.com/gogama/routex/transient"
	"github.com/gogama/routex/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Routing(t *testing.T) {
	for _, server := range servers {
		t.Run(serverName(server), func(t *testing.T) {
			cl := newClient(server)
			var got string
			var clientErrors int32
			r := route.Dispatch(route.StatusSeries(),
				route.On(route.Successful, route.To(func(s string) error {
					got = s
					return nil
				})),
				route.On(route.ClientError, route.Call(func(resp *http.Response) error {
					atomic.AddInt32(&clientErrors, 1)
					return resp.Body.Close()
				})))

			t.Run("success", func(t *testing.T) {
				_, err := instruct(cl.Get("/"), &serverInstruction{
					StatusCode:  200,
					ContentType: "text/plain",
					Body: []bodyChunk{
						{Data: []byte("hello, ")},
						{Pause: 10 * time.Millisecond, Data: []byte("world")},
					},
				}).Dispatch(r).Wait()
				require.NoError(t, err)
				assert.Equal(t, "hello, world", got)
				assert.Zero(t, atomic.LoadInt32(&clientErrors))
			})
			t.Run("client error", func(t *testing.T) {
				resp, err := instruct(cl.Get("/"), &serverInstruction{StatusCode: 404}).
					Dispatch(r).
					Wait()
				require.NoError(t, err)
				assert.Equal(t, 404, resp.StatusCode)
				assert.Equal(t, int32(1), atomic.LoadInt32(&clientErrors))
			})
			t.Run("unexpected", func(t *testing.T) {
				_, err := instruct(cl.Get("/"), &serverInstruction{
					StatusCode:  503,
					ContentType: "text/plain",
					Body:        []bodyChunk{{Data: []byte("down")}},
				}).Dispatch(r).Wait()
				var unexpected *routex.UnexpectedResponseError
				require.ErrorAs(t, err, &unexpected)
				assert.Equal(t, 503, unexpected.Response.StatusCode)
				b, err := io.ReadAll(unexpected.Response.Body)
				_ = unexpected.Response.Body.Close()
				require.NoError(t, err)
				assert.Equal(t, "down", string(b))
			})
			t.Run("nested", func(t *testing.T) {
				type thing struct {
					ID int `json:"id"`
				}
				var things []thing
				var other int32
				nested := route.Dispatch(route.StatusSeries(),
					route.On(route.Successful, route.Dispatch(route.ContentType(),
						route.On("application/json", route.To(func(ts []thing) error {
							things = ts
							return nil
						})))),
					route.Any[route.Series](route.Call(func(resp *http.Response) error {
						atomic.AddInt32(&other, 1)
						return resp.Body.Close()
					})))
				_, err := instruct(cl.Get("/"), &serverInstruction{
					ContentType: "application/json; charset=utf-8",
					Body:        []bodyChunk{{Data: []byte(`[{"id":1},{"id":2}]`)}},
				}).Dispatch(nested).Wait()
				require.NoError(t, err)
				assert.Equal(t, []thing{{1}, {2}}, things)

				_, err = instruct(cl.Get("/"), &serverInstruction{
					ContentType: "text/plain",
					Body:        []bodyChunk{{Data: []byte("x")}},
				}).Dispatch(nested).Wait()
				require.NoError(t, err)
				assert.Equal(t, int32(1), atomic.LoadInt32(&other))
			})
		})
	}
}

func TestClient_Echo(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	for _, server := range servers {
		t.Run(serverName(server), func(t *testing.T) {
			cl := newClient(server)
			var e echo
			capture := route.To(func(got echo) error {
				e = got
				return nil
			})

			t.Run("json body", func(t *testing.T) {
				_, err := instruct(cl.Post("/things/{id}", "a b"), &serverInstruction{Echo: true}).
					QueryParam("q", "1").
					QueryParam("q", "two words").
					Header("X-Foo", "bar").
					Body(payload{Name: "ann"}).
					Dispatch(capture).
					Wait()
				require.NoError(t, err)
				assert.Equal(t, "POST", e.Method)
				assert.Equal(t, "/things/a b", e.Path)
				assert.Equal(t, "q=1&q=two+words", e.RawQuery)
				assert.Equal(t, []string{"bar"}, e.Header["X-Foo"])
				assert.Equal(t, []string{"application/json"}, e.Header["Content-Type"])
				assert.Equal(t, `{"name":"ann"}`, e.Body)
			})
			t.Run("yaml body", func(t *testing.T) {
				_, err := instruct(cl.Put("/things"), &serverInstruction{Echo: true}).
					ContentType("application/yaml").
					Body(payload{Name: "bob"}).
					Dispatch(capture).
					Wait()
				require.NoError(t, err)
				assert.Equal(t, "PUT", e.Method)
				assert.Equal(t, []string{"application/yaml"}, e.Header["Content-Type"])
				assert.Equal(t, "name: bob\n", e.Body)
			})
			t.Run("no body", func(t *testing.T) {
				when := time.Date(2021, time.March, 4, 5, 6, 7, 0, time.UTC)
				_, err := instruct(cl.Delete("/things/1"), &serverInstruction{Echo: true}).
					IfUnmodifiedSince(when).
					Accept("application/json").
					Dispatch(capture).
					Wait()
				require.NoError(t, err)
				assert.Equal(t, "DELETE", e.Method)
				assert.Empty(t, e.Body)
				assert.Equal(t, []string{"Thu, 04 Mar 2021 05:06:07 GMT"}, e.Header["If-Unmodified-Since"])
				assert.Equal(t, []string{"application/json"}, e.Header["Accept"])
				assert.NotContains(t, e.Header, "Content-Type")
			})
		})
	}
}

func TestClient_Cancel(t *testing.T) {
	for _, server := range servers {
		t.Run(serverName(server), func(t *testing.T) {
			cl := newClient(server)
			var ran int32
			r := route.Call(func(_ *http.Response) error {
				atomic.AddInt32(&ran, 1)
				return nil
			})

			t.Run("future", func(t *testing.T) {
				f := instruct(cl.Get("/"), &serverInstruction{HeaderPause: time.Second}).Dispatch(r)
				time.Sleep(20 * time.Millisecond)
				assert.True(t, f.Cancel())
				_, err := f.Wait()
				assert.ErrorIs(t, err, future.ErrCancelled)
				assert.True(t, f.Cancelled())
			})
			t.Run("context", func(t *testing.T) {
				ctx, cancel := context.WithCancel(context.Background())
				f := instruct(cl.Get("/"), &serverInstruction{HeaderPause: time.Second}).
					WithContext(ctx).
					Dispatch(r)
				time.Sleep(20 * time.Millisecond)
				cancel()
				_, err := f.Wait()
				assert.ErrorIs(t, err, context.Canceled)
				assert.False(t, f.Cancelled())
			})
			time.Sleep(20 * time.Millisecond)
			assert.Zero(t, atomic.LoadInt32(&ran))
		})
	}
}

func TestClient_Timeout(t *testing.T) {
	for _, server := range servers {
		t.Run(serverName(server), func(t *testing.T) {
			cl := newClient(server, timeout.New(timeout.Fixed(50*time.Millisecond)))

			_, err := instruct(cl.Get("/"), &serverInstruction{HeaderPause: time.Second}).
				Send().
				Wait()
			require.Error(t, err)
			assert.Equal(t, transient.Timeout, transient.Categorize(err))

			resp, err := instruct(cl.Get("/"), &serverInstruction{
				Body: []bodyChunk{{Data: []byte("fast")}},
			}).Send().Wait()
			require.NoError(t, err)
			b, err := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			require.NoError(t, err)
			assert.Equal(t, "fast", string(b))
		})
	}
}

// countingServer answers the nth request (counting from zero) with
// handlers[n], or with the last handler once they run out.
func countingServer(handlers ...http.HandlerFunc) (*httptest.Server, *int32) {
	var n int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		i := int(atomic.AddInt32(&n, 1)) - 1
		if i >= len(handlers) {
			i = len(handlers) - 1
		}
		handlers[i](w, req)
	}))
	return server, &n
}

func status(code int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(code)
	}
}

func TestClient_Retry(t *testing.T) {
	t.Run("until success", func(t *testing.T) {
		server, n := countingServer(status(503), status(502), status(204))
		defer server.Close()
		cl := &routex.Client{
			BaseURL: server.URL,
			Plugin: retry.New(retry.NewPolicy(
				retry.Times(5).And(retry.StatusCode(502, 503)),
				retry.NewFixedWaiter(time.Millisecond))),
		}
		resp, err := cl.Get("/").Dispatch(route.Dispatch(route.StatusSeries(),
			route.On(route.Successful, route.Pass()))).Wait()
		require.NoError(t, err)
		assert.Equal(t, 204, resp.StatusCode)
		assert.Equal(t, int32(3), atomic.LoadInt32(n))
	})
	t.Run("exhausted", func(t *testing.T) {
		server, n := countingServer(status(503))
		defer server.Close()
		cl := &routex.Client{
			BaseURL: server.URL,
			Plugin: retry.New(retry.NewPolicy(
				retry.Times(2).And(retry.StatusCode(503)),
				retry.NewFixedWaiter(time.Millisecond))),
		}
		_, err := cl.Get("/").Dispatch(route.Dispatch(route.StatusSeries(),
			route.On(route.Successful, route.Pass()))).Wait()
		var unexpected *routex.UnexpectedResponseError
		require.ErrorAs(t, err, &unexpected)
		assert.Equal(t, 503, unexpected.Response.StatusCode)
		assert.Equal(t, int32(3), atomic.LoadInt32(n))
	})
	t.Run("body resent", func(t *testing.T) {
		var mu sync.Mutex
		var bodies []string
		record := func(code int) http.HandlerFunc {
			return func(w http.ResponseWriter, req *http.Request) {
				b, _ := io.ReadAll(req.Body)
				mu.Lock()
				bodies = append(bodies, string(b))
				mu.Unlock()
				w.WriteHeader(code)
			}
		}
		server, _ := countingServer(record(503), record(200))
		defer server.Close()
		cl := &routex.Client{
			BaseURL: server.URL,
			Plugin: retry.New(retry.NewPolicy(
				retry.Times(1).And(retry.StatusCode(503)),
				retry.NewFixedWaiter(time.Millisecond))),
		}
		_, err := cl.Put("/").Body(map[string]int{"n": 1}).Send().Wait()
		require.NoError(t, err)
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, []string{`{"n":1}`, `{"n":1}`}, bodies)
	})
}

func TestClient_Racing(t *testing.T) {
	slow := func(w http.ResponseWriter, req *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-req.Context().Done():
			return
		}
		w.WriteHeader(200)
	}
	server, n := countingServer(slow, status(202))
	defer server.Close()
	cl := &routex.Client{
		BaseURL: server.URL,
		Plugin: racing.New(racing.NewPolicy(
			racing.NewStaticScheduler(20*time.Millisecond),
			racing.AlwaysStart)),
	}
	start := time.Now()
	resp, err := cl.Get("/").Send().Wait()
	require.NoError(t, err)
	assert.Equal(t, 202, resp.StatusCode)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, int32(2), atomic.LoadInt32(n))
}

func TestClient_Handlers(t *testing.T) {
	server, _ := countingServer(status(503), status(200))
	defer server.Close()

	var mu sync.Mutex
	var log []string
	g := &routex.HandlerGroup{}
	for _, evt := range routex.Events() {
		g.PushBack(evt, routex.HandlerFunc(func(evt routex.Event, e *request.Exchange) {
			mu.Lock()
			defer mu.Unlock()
			entry := evt.Name()
			if e.Response != nil {
				entry += " " + http.StatusText(e.StatusCode())
			}
			log = append(log, entry)
		}))
	}
	cl := &routex.Client{
		BaseURL: server.URL,
		Plugin: routex.Plugins(
			g.Plugin(),
			retry.New(retry.NewPolicy(
				retry.Times(1).And(retry.StatusCode(503)),
				retry.NewFixedWaiter(time.Millisecond))),
		),
	}
	_, err := cl.Get("/").Send().Wait()
	require.NoError(t, err)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{
		"BeforeSend",
		"AfterSend Service Unavailable",
		"BeforeSend",
		"AfterSend OK",
		"AfterDispatch OK",
	}, log)
}

func TestClient_CustomTransport(t *testing.T) {
	var doer doerFunc = func(req *http.Request) (*http.Response, error) {
		if req.Header.Get("Authorization") == "" {
			return nil, errors.New("unauthorized")
		}
		return &http.Response{StatusCode: 200, Header: http.Header{}, Body: http.NoBody}, nil
	}
	cl := &routex.Client{Transport: &transport.HTTP{Doer: doer}}
	_, err := cl.Get("http://example.com").Header("Authorization", "Bearer x").Send().Wait()
	assert.NoError(t, err)
	_, err = cl.Get("http://example.com").Send().Wait()
	assert.ErrorContains(t, err, "unauthorized")
}

type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }
