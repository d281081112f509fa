// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package codec

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"reflect"
	"strings"

	"github.com/gogama/routex/request"
	"github.com/gogama/routex/transport"
)

// A Converter serializes values of some Go types to and from some
// media types.
type Converter interface {
	// CanWrite reports whether values of type t can be written as
	// mediaType. An empty mediaType asks whether the converter is a
	// suitable default for t.
	CanWrite(t reflect.Type, mediaType string) bool
	// CanRead reports whether a body of mediaType can be read into a
	// value of type t.
	CanRead(t reflect.Type, mediaType string) bool
	// MediaType returns the Content-Type declared when the converter
	// is chosen as the default.
	MediaType() string
	// Write writes v to w.
	Write(w io.Writer, v interface{}) error
	// Read reads r into target, which is a non-nil pointer.
	Read(r io.Reader, target interface{}) error
}

// A Writer attaches a request body to a transport request.
type Writer interface {
	Write(req transport.Request, header request.Multimap, body interface{}) error
}

// A Reader reads a response body into a target value.
type Reader interface {
	Read(resp *http.Response, target interface{}) error
}

// A Codec is both a Writer and a Reader.
type Codec interface {
	Writer
	Reader
}

// Default is a Worker with the Binary, Text, Form, JSON and YAML
// converters, in that order.
var Default = NewWorker(Binary(), Text(), Form(), JSON(), YAML())

// A Worker is a Codec backed by an ordered list of converters. It is
// immutable and safe for concurrent use.
type Worker struct {
	converters []Converter
}

// NewWorker returns a Worker trying converters in the given order. It
// panics if any converter is nil.
func NewWorker(converters ...Converter) *Worker {
	cs := make([]Converter, len(converters))
	for i, c := range converters {
		if c == nil {
			panic("routex/codec: nil converter")
		}
		cs[i] = c
	}
	return &Worker{converters: cs}
}

// Converters returns a copy of the worker's converter list.
func (w *Worker) Converters() []Converter {
	cs := make([]Converter, len(w.converters))
	copy(cs, w.converters)
	return cs
}

// Write copies header into req's headers and serializes body into
// req's body. A nil body writes nothing. If header has no Content-Type
// the chosen converter's default media type is declared.
//
// Write must complete before the request is executed; on error the
// request must not be sent.
func (w *Worker) Write(req transport.Request, header request.Multimap, body interface{}) error {
	h := req.Header()
	for _, p := range header.Pairs() {
		h.Add(p.Name, p.Value)
	}
	if body == nil {
		return nil
	}

	t := reflect.TypeOf(body)
	declared := h.Get("Content-Type")
	mediaType := MediaType(declared)
	for _, c := range w.converters {
		if !c.CanWrite(t, mediaType) {
			continue
		}
		if declared == "" {
			h.Set("Content-Type", c.MediaType())
		}
		return c.Write(req.Body(), body)
	}
	return &NoConverterError{Type: t, MediaType: mediaType}
}

// Read deserializes resp's body into target, which must be a non-nil
// pointer, and closes the body. A response without a Content-Type is
// read as application/octet-stream.
func (w *Worker) Read(resp *http.Response, target interface{}) error {
	if resp == nil {
		return errors.New("routex/codec: nil response")
	}
	t := reflect.TypeOf(target)
	if t == nil || t.Kind() != reflect.Ptr || reflect.ValueOf(target).IsNil() {
		return fmt.Errorf("routex/codec: read target must be a non-nil pointer, got %s", request.TypeName(target))
	}
	mediaType := MediaType(resp.Header.Get("Content-Type"))
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	for _, c := range w.converters {
		if !c.CanRead(t.Elem(), mediaType) {
			continue
		}
		body := resp.Body
		if body == nil {
			body = http.NoBody
		}
		err := c.Read(body, target)
		cerr := body.Close()
		if err != nil {
			return err
		}
		return cerr
	}
	return &NoConverterError{Type: t.Elem(), MediaType: mediaType, Response: true}
}

// MediaType returns the lower-case "type/subtype" part of a
// Content-Type header value, without parameters. It returns "" for an
// empty value.
func MediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt = contentType
		if i := strings.IndexByte(mt, ';'); i >= 0 {
			mt = mt[:i]
		}
		mt = strings.ToLower(strings.TrimSpace(mt))
	}
	return mt
}

// NoConverterError reports that no converter could handle a Go type
// under a media type.
type NoConverterError struct {
	// Type is the payload type (writing) or target type (reading).
	Type reflect.Type
	// MediaType is the media type that was declared or received.
	MediaType string
	// Response is true when reading a response, false when writing a
	// request.
	Response bool
}

func (e *NoConverterError) Error() string {
	dir := "request"
	if e.Response {
		dir = "response"
	}
	mt := e.MediaType
	if mt == "" {
		mt = "<none>"
	}
	return fmt.Sprintf("routex/codec: no suitable converter found for %s type %s and content type %s",
		dir, typeString(e.Type), mt)
}

func typeString(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
