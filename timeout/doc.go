// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package timeout provides a routex plugin which bounds each attempt to
// send a request with a timeout, and flexible policies choosing the
// timeout, including on retries.
//
// Install the plugin inside the retry plugin so that every attempt gets
// its own timeout:
//
//	client := &routex.Client{
//		Plugin: routex.Plugins(
//			timeout.New(timeout.Adaptive(200*time.Millisecond, time.Second)),
//			retry.New(retry.DefaultPolicy),
//		),
//	}
package timeout
