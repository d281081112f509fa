// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package routex

import (
	"fmt"
	"net/http"
)

// UnexpectedResponseError is the error a request fails with when no
// route in the dispatch tree matched the response.
//
// Response is the response as received. Its body has not been read by
// routex; the receiver of the error owns it and should close it.
type UnexpectedResponseError struct {
	Response *http.Response
}

func (e *UnexpectedResponseError) Error() string {
	if e.Response == nil {
		return "routex: unexpected response"
	}
	ct := e.Response.Header.Get("Content-Type")
	if ct == "" {
		ct = "<none>"
	}
	return fmt.Sprintf("routex: unexpected response: %s (content type %s)", status(e.Response), ct)
}

func status(resp *http.Response) string {
	if resp.Status != "" {
		return resp.Status
	}
	return fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}
