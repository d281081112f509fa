// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package routex

// An Event identifies the event type when installing or running a
// Handler. Install event handlers in a HandlerGroup, and the group's
// plugin in a Client, to observe requests.
type Event int

const (
	// BeforeSend identifies the event that occurs before each attempt
	// to send the request through the transport.
	//
	// When BeforeSend fires, the exchange's arguments field holds the
	// arguments that WILL BE sent after all BeforeSend handlers have
	// finished. Handlers may replace the arguments, using the With
	// methods of request.Arguments, to change the request sent.
	//
	// BeforeSend fires once per attempt, so plugins that re-send the
	// request, such as retry, make it fire more than once.
	BeforeSend Event = iota
	// AfterSend identifies the event that occurs after an attempt to
	// send the request has concluded, before the response is routed.
	//
	// When AfterSend fires, exactly one of the exchange's response and
	// error fields is non-nil. If the attempt timed out the exchange's
	// attempt timeout counter has been incremented.
	//
	// AfterSend does not fire for an attempt that was cancelled.
	AfterSend
	// AfterDispatch identifies the event that occurs after the
	// response has been routed, or the request has failed.
	//
	// When AfterDispatch fires, the exchange's end time is set and its
	// error field holds the final error, if any: a transport error, a
	// route handler error, *UnexpectedResponseError, or
	// future.ErrCancelled.
	AfterDispatch
	// eventSentinel provides the total number of events typed as an
	// Event.
	eventSentinel

	// numEvents provides the total number of events types as an int.
	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"BeforeSend",
	"AfterSend",
	"AfterDispatch",
}

// Events returns a slice containing all events which can occur in a
// request, in the order in which they would occur.
func Events() []Event {
	return []Event{
		BeforeSend,
		AfterSend,
		AfterDispatch,
	}
}

// Name returns the name of the event.
func (evt Event) Name() string {
	return eventNames[int(evt)]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}
