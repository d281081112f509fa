// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package racing provides a routex plugin which races several attempts at
the same request, and flexible policies for deciding when to start
another racer.

Racing, also known as hedging or backup requests, smooths over pockets
of bad response times: if the first attempt has not answered within a
short delay, a second identical attempt is started, and whichever
answers first wins. It introduces risks which must be mitigated by
thoughtful policy design: it raises load on the remote service, and it
is unsafe for requests which are not idempotent. Only install the
plugin on clients whose requests may safely be sent twice.

The main concepts are:

• A Scheduler decides how long to wait, given the attempts already
racing, before starting the next one. A zero delay means no more
attempts will be started.

• A Starter is consulted when the scheduled time comes, and may refuse
to start the attempt after all, for example because too many racers
have been started recently.

• The first attempt to receive a response wins. Every other attempt is
cancelled, and the bodies of any responses they later receive are
closed. An attempt that fails with an error does not end the race while
other attempts are still in flight; once every attempt in flight has
failed, the request fails with the last error.

Use NewStaticScheduler to create a scheduler from a static offset
schedule. Use NewThrottleStarter to create a starter which throttles
racing if too many racers are being started. Use NewPolicy to compose
any scheduler and any starter into a racing policy, and New to turn the
policy into a plugin.
*/
package racing
