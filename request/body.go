// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"fmt"
	"io"
)

// BodyBytes converts a raw body value to bytes.
//
// The body may be nil, a string, a []byte, an io.Reader, or an
// io.ReadCloser. Readers are read to the end; a ReadCloser is closed
// afterwards. Any other type is a typed payload that needs a codec, and
// BodyBytes returns an error for it.
func BodyBytes(body interface{}) ([]byte, error) {
	switch x := body.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(x), nil
	case []byte:
		return x, nil
	case io.ReadCloser:
		b, err := io.ReadAll(x)
		cerr := x.Close()
		if err != nil {
			return nil, err
		}
		if cerr != nil {
			return nil, cerr
		}
		return b, nil
	case io.Reader:
		return io.ReadAll(x)
	default:
		return nil, fmt.Errorf("routex/request: body of type %s is not raw bytes", TypeName(body))
	}
}

// TypeName returns a printable name for the dynamic type of body.
func TypeName(body interface{}) string {
	if body == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%T", body)
}
