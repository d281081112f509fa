// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package transport defines the wire-level collaborator of a routex
client and provides a default implementation on top of net/http.

A Factory creates a Request handle for a URL and method. The caller
fills in headers and body bytes through the handle, then calls
ExecuteAsync, which issues the request without blocking and returns a
future of the response. Cancelling that future aborts the in-flight
request.

The default factory, HTTP, sends requests through an HTTPDoer, which
is any type with the Do method of the standard *http.Client:

	t := &transport.HTTP{
		Doer: &http.Client{Timeout: 30 * time.Second},
	}

The zero value HTTP uses http.DefaultClient.
*/
package transport
