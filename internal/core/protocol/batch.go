package protocol

import (
	"strings"

	"github.com/craftconn/craftconn/internal/core/observability/log"
)

// Batch is the guard object for a batch transmission. Between BatchStart
// and Commit/Discard, commands issued through Send and Request accumulate
// instead of being written; Commit flushes them in order as one composite
// write, Discard drops them. Exactly one batch may be active per
// Connection at a time.
type Batch struct {
	conn *Connection
	done bool
}

// BatchStart begins accumulating commands. It fails with ErrBatchStarted
// if a batch is already active.
func (c *Connection) BatchStart() (*Batch, error) {
	if c.closed {
		return nil, ErrClosed
	}
	if c.batching {
		return nil, ErrBatchStarted
	}
	c.batching = true
	c.batch = c.batch[:0]
	c.logger.Debug("batch started")
	return &Batch{conn: c}, nil
}

// Batched runs fn inside a batch scope: commands it issues accumulate
// and are flushed as a single write when fn returns nil. If fn returns
// an error the batch is discarded without sending and the error is
// passed through unchanged.
func (c *Connection) Batched(fn func() error) error {
	b, err := c.BatchStart()
	if err != nil {
		return err
	}
	if err := fn(); err != nil {
		b.Discard()
		return err
	}
	return b.Commit()
}

// Send appends a command to the batch.
func (b *Batch) Send(command string) error {
	if b.done {
		return ErrBatchNotStarted
	}
	return b.conn.Send(command)
}

// Len returns the number of accumulated commands.
func (b *Batch) Len() int {
	if b.done {
		return 0
	}
	return len(b.conn.batch)
}

// Commit joins the accumulated commands with the line terminator and
// transmits them as one write, then checks for a failure token the same
// way a single Request would.
func (b *Batch) Commit() error {
	if b.done {
		return ErrBatchNotStarted
	}
	b.done = true
	c := b.conn
	pending := c.batch
	c.batching = false
	c.batch = nil
	if c.closed {
		return ErrClosed
	}
	if len(pending) == 0 {
		return nil
	}
	c.logger.Debug("batch flush", log.Int("commands", len(pending)))
	if err := c.write(strings.Join(pending, "\n")); err != nil {
		return err
	}
	if c.ignoreErrors {
		c.drain()
		return nil
	}
	_, err := c.receive(false)
	c.drain()
	return err
}

// Discard terminates the batch without transmitting anything.
func (b *Batch) Discard() {
	if b.done {
		return
	}
	b.done = true
	n := len(b.conn.batch)
	b.conn.batching = false
	b.conn.batch = nil
	b.conn.logger.Debug("batch discarded", log.Int("commands", n))
}
