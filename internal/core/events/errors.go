package events

import "errors"

var (
	// ErrBadEvent indicates the server returned an event entry that does
	// not match the wire format.
	ErrBadEvent = errors.New("events: malformed event reply")

	// ErrServing indicates Serve was called while another Serve loop is
	// already running.
	ErrServing = errors.New("events: serve loop already running")
)
