// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package ratelimit provides a routex plugin which paces outgoing
// requests with a token bucket from golang.org/x/time/rate.
//
// Every send takes one token. Install the plugin inside the retry
// plugin so that retries are paced too:
//
//	client := &routex.Client{
//		Plugin: routex.Plugins(
//			ratelimit.New(rate.NewLimiter(10, 5)),
//			retry.New(retry.DefaultPolicy),
//		),
//	}
//
// Waiting for a token never blocks the caller: the future returned by
// Dispatch stays pending until the token is granted and the request is
// sent.
package ratelimit
