// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package route selects what to do with an HTTP response by inspecting its
attributes rather than by checking errors.

A Route is either a terminal, which acts on the response, or a dispatch
node built with Dispatch. A dispatch node asks its Navigator for one
attribute of the response (status series, status code, content type,
a header) and follows the Binding registered for that value, or the
wildcard binding if there is none:

	r := route.Dispatch(route.StatusSeries(),
		route.On(route.Successful, route.Dispatch(route.ContentType(),
			route.On("application/json", route.To(func(u User) error {
				...
			})),
			route.AnyContentType(route.Discard()))),
		route.On(route.ClientError, route.Call(func(resp *http.Response) error {
			...
		})))

Evaluation yields a Result: Matched when a terminal handled the response,
or NoMatch when nothing at some level wanted it. NoMatch is an ordinary
return value, not an error: when a child route yields NoMatch the parent
falls back to its own wildcard binding, and only when the root of the
tree yields NoMatch does the caller turn it into a failure.

Trees are immutable once built and hold no per-evaluation state, so one
tree may be evaluated concurrently for any number of responses.
*/
package route
