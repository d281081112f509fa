// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package codec converts request payloads to bytes and response bodies to
values, choosing a Converter by payload type and media type.

A Worker holds an ordered list of converters. To write a request body it
picks the first converter that can write the payload's type under the
declared Content-Type; if no Content-Type was declared it picks the
first converter that can write the type at all, and declares that
converter's default media type. Reading works the same way, keyed on
the response's Content-Type and the target's type.

The Default worker understands, in order:

	Binary  []byte and io.Reader, any media type
	Text    string, any media type (default text/plain)
	Form    url.Values as application/x-www-form-urlencoded
	JSON    any value as application/json or application/*+json
	YAML    any value as application/yaml, application/x-yaml, text/yaml
	        or application/*+yaml (never chosen by default)

When no converter fits, Write and Read return a *NoConverterError
naming both the Go type and the media type.
*/
package codec
