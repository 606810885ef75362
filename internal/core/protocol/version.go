package protocol

// ServerVersion identifies the server implementation on the other end of
// the socket. The protocol has no version handshake, so the variant is
// inferred from observed behaviour (see Connection's probe) and cached
// for the life of the connection.
type ServerVersion string

const (
	VersionUnknown        ServerVersion = ""
	VersionMinecraftPi    ServerVersion = "minecraft-pi"
	VersionRaspberryJuice ServerVersion = "raspberry-juice"
)

// SupportsBulkGet reports whether the server implements the bulk
// world.getBlocks command. Only the Raspberry Juice family does.
func (v ServerVersion) SupportsBulkGet() bool {
	return v == VersionRaspberryJuice
}

// SupportsChatEvents reports whether the server implements the
// events.chat.posts command. Only the Raspberry Juice family does.
func (v ServerVersion) SupportsChatEvents() bool {
	return v == VersionRaspberryJuice
}
