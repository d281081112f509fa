// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package codec

import (
	"bytes"
	"errors"
	"io"
	"net/url"
	"reflect"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/gogama/routex/request"
)

var (
	bytesType  = reflect.TypeOf([]byte(nil))
	readerType = reflect.TypeOf((*io.Reader)(nil)).Elem()
	valuesType = reflect.TypeOf(url.Values(nil))
)

const formMediaType = "application/x-www-form-urlencoded"

// Binary returns a converter for []byte and io.Reader payloads, written
// as-is under any media type, and for reading any body into a []byte.
func Binary() Converter {
	return binary{}
}

type binary struct{}

func (binary) CanWrite(t reflect.Type, _ string) bool {
	return t == bytesType || t.Implements(readerType)
}

func (binary) CanRead(t reflect.Type, _ string) bool {
	return t == bytesType
}

func (binary) MediaType() string {
	return "application/octet-stream"
}

func (binary) Write(w io.Writer, v interface{}) error {
	b, err := request.BodyBytes(v)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func (binary) Read(r io.Reader, target interface{}) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	*target.(*[]byte) = b
	return nil
}

// Text returns a converter for string payloads, written as-is under any
// media type, and for reading any body into a string.
func Text() Converter {
	return text{}
}

type text struct{}

func (text) CanWrite(t reflect.Type, _ string) bool {
	return t.Kind() == reflect.String
}

func (text) CanRead(t reflect.Type, _ string) bool {
	return t.Kind() == reflect.String
}

func (text) MediaType() string {
	return "text/plain; charset=utf-8"
}

func (text) Write(w io.Writer, v interface{}) error {
	_, err := io.WriteString(w, reflect.ValueOf(v).String())
	return err
}

func (text) Read(r io.Reader, target interface{}) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	reflect.ValueOf(target).Elem().SetString(string(b))
	return nil
}

// Form returns a converter for url.Values as
// application/x-www-form-urlencoded.
func Form() Converter {
	return form{}
}

type form struct{}

func (form) CanWrite(t reflect.Type, mediaType string) bool {
	return t == valuesType && (mediaType == "" || mediaType == formMediaType)
}

func (form) CanRead(t reflect.Type, mediaType string) bool {
	return t == valuesType && mediaType == formMediaType
}

func (form) MediaType() string {
	return formMediaType
}

func (form) Write(w io.Writer, v interface{}) error {
	_, err := io.WriteString(w, v.(url.Values).Encode())
	return err
}

func (form) Read(r io.Reader, target interface{}) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	values, err := url.ParseQuery(string(b))
	if err != nil {
		return err
	}
	*target.(*url.Values) = values
	return nil
}

// JSON returns a converter for any value as application/json or any
// application/*+json media type. It is the default for typed payloads
// declared without a Content-Type.
func JSON() Converter {
	return jsonConverter{}
}

type jsonConverter struct{}

func (jsonConverter) CanWrite(_ reflect.Type, mediaType string) bool {
	return mediaType == "" || isJSON(mediaType)
}

func (jsonConverter) CanRead(_ reflect.Type, mediaType string) bool {
	return isJSON(mediaType)
}

func (jsonConverter) MediaType() string {
	return "application/json"
}

func (jsonConverter) Write(w io.Writer, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func (jsonConverter) Read(r io.Reader, target interface{}) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	return json.Unmarshal(b, target)
}

func isJSON(mediaType string) bool {
	return mediaType == "application/json" ||
		(strings.HasPrefix(mediaType, "application/") && strings.HasSuffix(mediaType, "+json"))
}

// YAML returns a converter for any value as application/yaml,
// application/x-yaml, text/yaml, or application/*+yaml. It is only
// chosen when one of those media types is declared.
func YAML() Converter {
	return yamlConverter{}
}

type yamlConverter struct{}

func (yamlConverter) CanWrite(_ reflect.Type, mediaType string) bool {
	return isYAML(mediaType)
}

func (yamlConverter) CanRead(_ reflect.Type, mediaType string) bool {
	return isYAML(mediaType)
}

func (yamlConverter) MediaType() string {
	return "application/yaml"
}

func (yamlConverter) Write(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func (yamlConverter) Read(r io.Reader, target interface{}) error {
	err := yaml.NewDecoder(r).Decode(target)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func isYAML(mediaType string) bool {
	switch mediaType {
	case "application/yaml", "application/x-yaml", "text/yaml":
		return true
	}
	return strings.HasPrefix(mediaType, "application/") && strings.HasSuffix(mediaType, "+yaml")
}
