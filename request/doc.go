// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the value types that describe an outgoing
request as it moves through a routex client: Arguments (the finalized,
immutable request description), Multimap (the ordered, immutable
multi-map used for query parameters and headers), and Exchange (the
record of one logical request used by plugins).

Arguments is what the execution pipeline hands to every plugin and, at
the innermost level, to the transport. Because it is immutable a plugin
changes the request by deriving new Arguments and passing those on:

	args, err := request.NewArguments("GET", "https://example.com/users")
	...
	args = args.WithHeader(args.Header().Add("X-Trace", "abc"))

Multimap keeps duplicate names and insertion order, which matters both
for query strings ("tag=a&tag=b") and for headers that may repeat. Every
mutator copies, so no two Multimaps ever share writable storage.

Exchange is the input type for retry deciders, timeout policies, and
event handlers. You will typically not allocate Exchange instances
yourself, but work with those handed out by the plugins.
*/
package request
