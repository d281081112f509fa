// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"errors"
	"io"
	"syscall"
)

// A Category classifies an error as non-transient or as one of the
// transient failure kinds.
type Category int

const (
	// Not indicates any non-transient error, and a nil error.
	Not Category = iota
	// Timeout indicates a client-side timeout: the error, or one of
	// its wrapped causes, has a Timeout method reporting true.
	Timeout
	// ConnRefused indicates the remote host refused the connection
	// (syscall.ECONNREFUSED). A service that is restarting is briefly
	// not listening, so a later attempt may succeed.
	ConnRefused
	// ConnReset indicates the remote host reset a previously active
	// connection (syscall.ECONNRESET).
	ConnReset
	// ConnClosed indicates the connection closed before a complete
	// response was read (io.ErrUnexpectedEOF, or io.EOF while waiting
	// for the response).
	ConnClosed
)

var categoryNames = []string{
	"not",
	"timeout",
	"conn_refused",
	"conn_reset",
	"conn_closed",
}

// String returns a short lower-case name for the category, suitable
// as a log field or metric label.
func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "unknown"
	}
	return categoryNames[c]
}

// Categorize returns the category of err. Timeout takes precedence
// over the connection categories.
func Categorize(err error) Category {
	if err == nil {
		return Not
	}

	var hasTimeout hasTimeout
	if errors.As(err, &hasTimeout) && hasTimeout.Timeout() {
		return Timeout
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		if errno == syscall.ECONNRESET {
			return ConnReset
		} else if errno == syscall.ECONNREFUSED {
			return ConnRefused
		}
	}

	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return ConnClosed
	}

	return Not
}

// Is reports whether err falls into any transient category.
func Is(err error) bool {
	return Categorize(err) != Not
}

type hasTimeout interface {
	Timeout() bool
}
