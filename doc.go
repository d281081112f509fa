// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package routex provides an asynchronous HTTP client which routes each
response to exactly one handler, chosen by looking at the response's
status and content type rather than by checking errors.

Create a Client, build a request with one of its methods, and dispatch
it with a route tree from package route:

	client := &routex.Client{BaseURL: "https://api.example.com"}
	f := client.Get("/users/{id}", 42).
		Accept("application/json").
		Dispatch(route.Dispatch(route.StatusSeries(),
			route.On(route.Successful, route.To(func(u User) error {
				...
			})),
			route.On(route.ClientError, route.Call(func(resp *http.Response) error {
				...
			}))))
	_, err := f.Wait()

Dispatch returns a future at once; the request is sent in the
background. If no route matches the response the future fails with
*UnexpectedResponseError. Cancelling the future before the response
arrives aborts the request.

To send a body, attach it with Body and then dispatch:

	f := client.Post("/users").
		Body(User{Name: "ann"}).
		Dispatch(r)

The codec (see package codec) serializes the body according to its Go
type and the Content-Type header, defaulting to JSON for structs and
maps.

For control over how requests are sent, use a custom transport:

	client := &routex.Client{
		Transport: &transport.HTTP{Doer: &http.Client{...}},
	}

Cross-cutting behaviour is added with plugins, which wrap the
execution of every request. Packages retry, timeout, ratelimit,
logging, metrics, tracing and requestid provide plugins; compose them
with Plugins:

	client := &routex.Client{
		Plugin: routex.Plugins(
			timeout.New(timeout.Fixed(2*time.Second)),
			retry.New(retry.DefaultPolicy),
			logging.New(logger),
		),
	}

To observe the fine-grained steps of each request, install handlers in
a HandlerGroup and install its plugin:

	handlers := &routex.HandlerGroup{}
	handlers.PushBack(routex.BeforeSend, routex.HandlerFunc(
		func(_ routex.Event, e *request.Exchange) {
			log.Printf("Attempt %d to %s", e.Attempt, e.Arguments.URL())
		}))
	client := &routex.Client{
		Plugin: handlers.Plugin(),
	}
*/
package routex
