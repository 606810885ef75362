package world

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/craftconn/craftconn/internal/core/observability/log"
	"github.com/craftconn/craftconn/pkg/block"
	"github.com/craftconn/craftconn/pkg/vector"
)

// Blocks reads and writes the blocks making up the world, addressed by
// vector or vector range. Bulk commands are used whenever the connected
// server supports them; otherwise operations decompose into per-vector
// commands in range order, which callers can coalesce with a connection
// batch.
type Blocks struct {
	session Session
	logger  log.Log
}

// NewBlocks returns a block accessor over the session.
func NewBlocks(session Session, logger log.Log) *Blocks {
	if logger == nil {
		logger = log.Nop()
	}
	return &Blocks{
		session: session,
		logger:  logger.With(log.String("component", "blocks")),
	}
}

// Get returns the block at pos. Fractional coordinates address the
// containing tile.
func (b *Blocks) Get(pos vector.Vector) (block.Block, error) {
	t := pos.Floor()
	reply, err := b.session.Transact(fmt.Sprintf(
		"world.getBlockWithData(%.0f,%.0f,%.0f)", t.X, t.Y, t.Z))
	if err != nil {
		return block.Block{}, err
	}
	bl, err := block.Parse(reply)
	if err != nil {
		return block.Block{}, fmt.Errorf("%w: %v", ErrBadReply, err)
	}
	return bl, nil
}

// Set places bl at pos.
func (b *Blocks) Set(pos vector.Vector, bl block.Block) error {
	t := pos.Floor()
	return b.session.Request(fmt.Sprintf(
		"world.setBlock(%.0f,%.0f,%.0f,%d,%d)", t.X, t.Y, t.Z, bl.ID, bl.Data))
}

// GetRange returns the blocks of r in iteration order. An empty range
// yields an empty slice. Against a bulk-capable server a solid box is
// fetched with a single command; the bulk reply carries ids only, so
// data is always zero on that path.
func (b *Blocks) GetRange(r vector.Range) ([]block.Block, error) {
	if r.IsEmpty() {
		return nil, nil
	}
	if r.UnitStep() && b.session.ServerVersion().SupportsBulkGet() {
		return b.getRangeBulk(r)
	}
	out := make([]block.Block, 0, r.Len())
	for v := range r.Seq() {
		bl, err := b.Get(v)
		if err != nil {
			return nil, err
		}
		out = append(out, bl)
	}
	return out, nil
}

func (b *Blocks) getRangeBulk(r vector.Range) ([]block.Block, error) {
	lo, hi := boxCorners(r)
	reply, err := b.session.Transact(fmt.Sprintf(
		"world.getBlocks(%.0f,%.0f,%.0f,%.0f,%.0f,%.0f)",
		lo.X, lo.Y, lo.Z, hi.X, hi.Y, hi.Z))
	if err != nil {
		return nil, err
	}
	fields := strings.Split(reply, ",")
	if len(fields) != r.Len() {
		return nil, fmt.Errorf("%w: got %d ids for %d blocks",
			ErrBadReply, len(fields), r.Len())
	}
	out := make([]block.Block, len(fields))
	for i, f := range fields {
		id, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadReply, err)
		}
		bl, err := block.New(id, 0)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadReply, err)
		}
		out[i] = bl
	}
	b.logger.Debug("bulk get", log.Int("blocks", len(out)))
	return out, nil
}

// SetRange fills every vector of r with bl. Solid boxes use one bulk
// command; stepped ranges decompose into per-vector commands.
func (b *Blocks) SetRange(r vector.Range, bl block.Block) error {
	if r.IsEmpty() {
		return nil
	}
	if r.UnitStep() {
		lo, hi := boxCorners(r)
		return b.session.Request(fmt.Sprintf(
			"world.setBlocks(%.0f,%.0f,%.0f,%.0f,%.0f,%.0f,%d,%d)",
			lo.X, lo.Y, lo.Z, hi.X, hi.Y, hi.Z, bl.ID, bl.Data))
	}
	for v := range r.Seq() {
		if err := b.Set(v, bl); err != nil {
			return err
		}
	}
	return nil
}

// SetRangeBlocks assigns one block per vector of r, in iteration order.
// The sequence length must equal the range length; this is checked
// before any command is issued. Wrapping the call in a connection batch
// coalesces the writes into a single flush.
func (b *Blocks) SetRangeBlocks(r vector.Range, bls []block.Block) error {
	if len(bls) != r.Len() {
		return fmt.Errorf("%w: %d blocks for %d vectors",
			ErrLengthMismatch, len(bls), r.Len())
	}
	i := 0
	for v := range r.Seq() {
		if err := b.Set(v, bls[i]); err != nil {
			return err
		}
		i++
	}
	return nil
}

// Height returns pos with its Y component replaced by the Y coordinate
// of the topmost non-air block at pos's X,Z column.
func (b *Blocks) Height(pos vector.Vector) (vector.Vector, error) {
	t := pos.Floor()
	reply, err := b.session.Transact(fmt.Sprintf(
		"world.height(%.0f,%.0f)", t.X, t.Z))
	if err != nil {
		return vector.Vector{}, err
	}
	y, err := strconv.Atoi(strings.TrimSpace(reply))
	if err != nil {
		return vector.Vector{}, fmt.Errorf("%w: %v", ErrBadReply, err)
	}
	return vector.New(t.X, float64(y), t.Z), nil
}

// boxCorners returns the inclusive corner pair of a unit-step range in
// the order the wire protocol expects.
func boxCorners(r vector.Range) (lo, hi vector.Vector) {
	return r.Start(), r.Stop().SubScalar(1)
}
