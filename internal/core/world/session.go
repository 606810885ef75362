package world

import "github.com/craftconn/craftconn/internal/core/protocol"

// Session is the slice of the connection the world accessors drive.
// *protocol.Connection implements it; tests substitute scripted fakes
// to simulate either server capability deterministically.
type Session interface {
	Send(command string) error
	Request(command string) error
	Transact(command string) (string, error)
	ServerVersion() protocol.ServerVersion
}
