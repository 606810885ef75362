// Package protocol implements the client side of the game's line
// protocol: LF-terminated ASCII command lines over a single TCP stream.
//
// The wire format is ACK-starved. Most commands produce no reply at all;
// the only negative acknowledgement is the literal line "Fail", and
// "get" style commands answer with exactly one data line. The Connection
// type turns this into a usable request/response surface by bounding the
// wait for a possible failure token and treating silence as success — a
// documented property of the protocol, not something this package tries
// to repair.
package protocol

import (
	"bufio"
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/craftconn/craftconn/internal/core/observability/log"
)

const failToken = "Fail"

// Connection owns one TCP session with the game server.
//
// A Connection is not safe for concurrent use. The protocol has no
// request correlation tokens, so exchanges must be strictly sequential;
// callers needing concurrency must serialize externally or open
// separate Connections.
type Connection struct {
	conn net.Conn
	rd   *bufio.Reader

	cfg          Config
	ignoreErrors bool
	version      ServerVersion
	logger       log.Log

	batch    []string
	batching bool
	closed   bool
}

// Dial connects to the server named by cfg and probes its version.
func Dial(ctx context.Context, cfg Config, logger log.Log) (*Connection, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d := net.Dialer{Timeout: cfg.ConnectTimeout}
	conn, err := d.DialContext(ctx, "tcp", cfg.Addr())
	if err != nil {
		return nil, connectionError(ErrDialFailed, err)
	}
	return New(conn, cfg, logger)
}

// New wraps an established stream in a Connection, configures the
// transport and resolves the server version. Dial is the usual entry
// point; New exists so alternate dialers and tests can inject the
// stream.
func New(conn net.Conn, cfg Config, logger log.Log) (*Connection, error) {
	if logger == nil {
		logger = log.Nop()
	}
	// Interactive request/response traffic; Nagle only adds latency.
	if tcp, ok := conn.(*net.TCPConn); ok {
		_ = tcp.SetNoDelay(true)
	}
	c := &Connection{
		conn:         conn,
		rd:           bufio.NewReader(conn),
		cfg:          cfg,
		ignoreErrors: cfg.IgnoreErrors,
		logger: logger.With(
			log.String("component", "connection"),
			log.String("session", uuid.NewString()),
		),
	}
	if err := c.probeVersion(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	c.logger.Info("connected",
		log.String("addr", conn.RemoteAddr().String()),
		log.String("server_version", string(c.version)))
	return c, nil
}

// probeVersion determines which server implementation answered the
// dial. The protocol defines no version handshake, so the probe sends a
// deliberately unknown command: Raspberry Juice rejects it with the
// failure token, Pi Edition ignores it entirely.
func (c *Connection) probeVersion() error {
	if c.cfg.ForceVersion != VersionUnknown {
		c.version = c.cfg.ForceVersion
		return nil
	}
	saved := c.ignoreErrors
	c.ignoreErrors = false
	defer func() { c.ignoreErrors = saved }()

	reply, err := c.Transact("foo()")
	switch {
	case err == nil:
		return errors.New("protocol: unexpected response to version probe: " + reply)
	case IsCommandError(err):
		c.version = VersionRaspberryJuice
	case errors.Is(err, ErrNoResponse):
		c.version = VersionMinecraftPi
	default:
		return err
	}
	return nil
}

// ServerVersion returns the implementation variant resolved at connect
// time.
func (c *Connection) ServerVersion() ServerVersion {
	return c.version
}

// Send transmits one command line, or appends it to the active batch.
// No reply is awaited; use Request when failure detection matters.
func (c *Connection) Send(command string) error {
	if c.closed {
		return ErrClosed
	}
	if c.batching {
		c.batch = append(c.batch, command)
		return nil
	}
	return c.write(command)
}

// Request transmits one command line and, unless the connection ignores
// errors, waits up to the configured timeout for a failure token.
// Silence within the window means the command succeeded; the protocol
// has no way to say so explicitly. Inside a batch the command is
// deferred like Send.
func (c *Connection) Request(command string) error {
	if c.closed {
		return ErrClosed
	}
	if c.batching {
		c.batch = append(c.batch, command)
		return nil
	}
	if err := c.write(command); err != nil {
		return err
	}
	if c.ignoreErrors {
		return nil
	}
	_, err := c.receive(false)
	if err != nil {
		c.decorateCommandError(err, command)
	}
	return err
}

// Transact transmits one command line and reads its data line reply.
// Commands with a guaranteed response bypass the batch mechanism:
// transmission is required to obtain the reply.
func (c *Connection) Transact(command string) (string, error) {
	if c.closed {
		return "", ErrClosed
	}
	if err := c.write(command); err != nil {
		return "", err
	}
	reply, err := c.receive(true)
	if err != nil {
		c.decorateCommandError(err, command)
		return "", err
	}
	return reply, nil
}

// Close shuts the connection down, discarding any pending batch. It is
// idempotent.
func (c *Connection) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.batching = false
	c.batch = nil
	err := c.conn.Close()
	c.logger.Info("closed")
	if err != nil {
		return connectionError(ErrConnectionLost, err)
	}
	return nil
}

func (c *Connection) write(line string) error {
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	if c.ignoreErrors {
		// Flush any stale failure tokens so they cannot be taken
		// for a reply to a later command.
		c.drain()
	}
	if _, err := c.conn.Write([]byte(line)); err != nil {
		return connectionError(ErrConnectionLost, err)
	}
	c.logger.Debug("send", log.Int("bytes", len(line)))
	return nil
}

// receive reads one reply line, waiting at most the configured timeout.
// With required unset, silence is success and returns "". A failure
// token always surfaces as a CommandError.
func (c *Connection) receive(required bool) (string, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(c.cfg.Timeout)); err != nil {
		return "", connectionError(ErrConnectionLost, err)
	}
	line, err := c.rd.ReadString('\n')
	if err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			if required {
				return "", ErrNoResponse
			}
			return "", nil
		}
		return "", connectionError(ErrConnectionLost, err)
	}
	line = strings.TrimRight(line, "\n")
	c.logger.Debug("recv", log.String("line", line))
	if line == failToken {
		return "", &CommandError{}
	}
	return line, nil
}

// drain discards everything readable right now. Stale data can only be
// failure tokens for commands whose outcome was already decided.
func (c *Connection) drain() {
	if n := c.rd.Buffered(); n > 0 {
		_, _ = c.rd.Discard(n)
	}
	var buf [1500]byte
	for {
		if err := c.conn.SetReadDeadline(time.Now().Add(time.Millisecond)); err != nil {
			return
		}
		if _, err := c.conn.Read(buf[:]); err != nil {
			return
		}
	}
}

func (c *Connection) decorateCommandError(err error, command string) {
	var ce *CommandError
	if errors.As(err, &ce) && ce.Command == "" {
		ce.Command = command
	}
}
