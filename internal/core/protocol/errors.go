package protocol

import (
	"errors"
	"fmt"
)

// Connection lifecycle errors
var (
	ErrClosed          = errors.New("connection is closed")
	ErrDialFailed      = errors.New("dial failed")
	ErrConnectionLost  = errors.New("connection lost")
	ErrNoResponse      = errors.New("no response received")
	ErrBatchStarted    = errors.New("batch already started")
	ErrBatchNotStarted = errors.New("no batch in progress")
)

// CommandError is returned when the server answers a command with the
// protocol's failure token. It is the only negative acknowledgement the
// wire format defines.
type CommandError struct {
	Command string
}

func (e *CommandError) Error() string {
	if e.Command == "" {
		return "server rejected command"
	}
	return fmt.Sprintf("server rejected command %q", e.Command)
}

// IsCommandError reports whether err is a server-side command rejection.
func IsCommandError(err error) bool {
	var ce *CommandError
	return errors.As(err, &ce)
}

// connectionError marks a fatal socket-level failure so callers can
// distinguish it from a protocol-level rejection.
func connectionError(sentinel error, cause error) error {
	return fmt.Errorf("%w: %w", sentinel, cause)
}
