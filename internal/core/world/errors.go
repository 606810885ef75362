package world

import "errors"

// Accessor argument errors
var (
	ErrLengthMismatch = errors.New("world: block sequence length does not match range length")
	ErrBadReply       = errors.New("world: malformed server reply")
)
