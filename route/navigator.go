// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package route

import (
	"net/http"
	"strconv"

	"github.com/gogama/routex/codec"
)

// A Navigator extracts one attribute from a response. The boolean is
// false if the response has no such attribute, in which case only the
// wildcard binding can match.
//
// Navigators must be pure functions of the response.
type Navigator[T comparable] interface {
	Navigate(resp *http.Response) (T, bool)
}

// NavigatorFunc is an adapter to allow the use of ordinary functions
// as navigators.
type NavigatorFunc[T comparable] func(resp *http.Response) (T, bool)

// Navigate calls f(resp).
func (f NavigatorFunc[T]) Navigate(resp *http.Response) (T, bool) {
	return f(resp)
}

// A Series is the class of an HTTP status code, given by its first
// digit.
type Series int

const (
	// Informational is the 1xx series.
	Informational Series = 1
	// Successful is the 2xx series.
	Successful Series = 2
	// Redirection is the 3xx series.
	Redirection Series = 3
	// ClientError is the 4xx series.
	ClientError Series = 4
	// ServerError is the 5xx series.
	ServerError Series = 5
)

// SeriesOf returns the series of an HTTP status code. The boolean is
// false if code is outside 100-599.
func SeriesOf(code int) (Series, bool) {
	if code < 100 || code > 599 {
		return 0, false
	}
	return Series(code / 100), true
}

// String returns the series as "1xx" through "5xx".
func (s Series) String() string {
	if s < Informational || s > ServerError {
		return "unknown"
	}
	return strconv.Itoa(int(s)) + "xx"
}

// StatusSeries returns a navigator extracting the status series.
func StatusSeries() Navigator[Series] {
	return NavigatorFunc[Series](func(resp *http.Response) (Series, bool) {
		return SeriesOf(resp.StatusCode)
	})
}

// StatusCode returns a navigator extracting the exact status code.
func StatusCode() Navigator[int] {
	return NavigatorFunc[int](func(resp *http.Response) (int, bool) {
		return resp.StatusCode, resp.StatusCode != 0
	})
}

// ContentType returns a navigator extracting the media type of the
// response: the lower-case "type/subtype" of its Content-Type header,
// without parameters. Bind to values such as "application/json".
func ContentType() Navigator[string] {
	return NavigatorFunc[string](func(resp *http.Response) (string, bool) {
		mt := codec.MediaType(resp.Header.Get("Content-Type"))
		return mt, mt != ""
	})
}

// Header returns a navigator extracting the first value of the named
// response header.
func Header(name string) Navigator[string] {
	key := http.CanonicalHeaderKey(name)
	return NavigatorFunc[string](func(resp *http.Response) (string, bool) {
		values := resp.Header[key]
		if len(values) == 0 {
			return "", false
		}
		return values[0], true
	})
}

// AnySeries is Any for StatusSeries navigators.
func AnySeries(r Route) Binding[Series] {
	return Any[Series](r)
}

// AnyStatusCode is Any for StatusCode navigators.
func AnyStatusCode(r Route) Binding[int] {
	return Any[int](r)
}

// AnyContentType is Any for ContentType navigators.
func AnyContentType(r Route) Binding[string] {
	return Any[string](r)
}

// AnyHeader is Any for Header navigators.
func AnyHeader(r Route) Binding[string] {
	return Any[string](r)
}
