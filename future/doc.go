// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package future provides a minimal generic future with cancellation that
propagates back to the operation which produced it.

A Future is completed exactly once, by whichever goroutine drives the
underlying operation. It ends in one of three states: succeeded with a
value, failed with an error, or cancelled. Cancellation is a distinct
outcome and not a failure, although Get reports it as ErrCancelled so
that callers which only care about "did I get a value" can treat it
uniformly.

Composing futures with Then preserves cancellability: cancelling the
derived future cancels the future it was derived from, and so on back
to the root operation. PreserveCancelability wraps a future produced by
an external asynchronous API so that the wrapper never resolves ahead
of the original and cancelling the wrapper reaches the original.
*/
package future
