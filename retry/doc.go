// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package retry provides a routex plugin which sends a request again
// when an attempt fails, and flexible policies deciding when to retry
// and how long to wait before retrying.
//
// Install the plugin with New. A Policy is built with NewPolicy from a
// decision-maker, Decider, and a wait time calculator, Waiter:
//
//	decider := retry.Times(3).
//		And(retry.Before(5 * time.Second)).
//		And(retry.StatusCode(500).Or(retry.TransientErr))
//	waiter := retry.RetryAfter(retry.NewExpWaiter(100*time.Millisecond, 2*time.Second, time.Now()), 10*time.Second)
//	client := &routex.Client{
//		Plugin: retry.New(retry.NewPolicy(decider, waiter)),
//	}
//
// The plugin wraps the send stage, so retries happen before the
// response is routed: only the response to the final attempt reaches
// the route tree.
package retry
