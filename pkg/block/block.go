// Package block defines the immutable block value type used as the
// payload of all world read/write operations, together with lookup
// tables mapping block ids to names, descriptions and wool colors.
package block

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Argument errors
var (
	ErrBadID      = errors.New("block: id must be in 0..255")
	ErrBadData    = errors.New("block: data must be in 0..15")
	ErrBadName    = errors.New("block: unknown block name")
	ErrBadColor   = errors.New("block: malformed color")
	ErrBadEncoded = errors.New("block: malformed id,data pair")
)

// Block identifies a block type within the world: an id defining the
// kind (air, stone, wool, ...) and a data value whose meaning depends on
// the kind (wool color, growth stage, ...). Blocks are plain comparable
// values, usable directly as map keys and set members.
type Block struct {
	ID   uint8
	Data uint8
}

// New returns the block with the given id and data value.
func New(id, data int) (Block, error) {
	if id < 0 || id > 255 {
		return Block{}, ErrBadID
	}
	if data < 0 || data > 15 {
		return Block{}, ErrBadData
	}
	return Block{ID: uint8(id), Data: uint8(data)}, nil
}

// Parse parses a block from its wire form "id,data".
func Parse(s string) (Block, error) {
	idStr, dataStr, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return Block{}, fmt.Errorf("%w: %q", ErrBadEncoded, s)
	}
	id, err := strconv.Atoi(strings.TrimSpace(idStr))
	if err != nil {
		return Block{}, fmt.Errorf("%w: %q", ErrBadEncoded, s)
	}
	data, err := strconv.Atoi(strings.TrimSpace(dataStr))
	if err != nil {
		return Block{}, fmt.Errorf("%w: %q", ErrBadEncoded, s)
	}
	return New(id, data)
}

// FromName returns the block registered under name, with the given data
// value. Names are the lowercase identifiers returned by Name.
func FromName(name string, data int) (Block, error) {
	id, ok := idsByName[name]
	if !ok {
		return Block{}, fmt.Errorf("%w: %q", ErrBadName, name)
	}
	return New(int(id), data)
}

// FromColor returns the wool block variant whose color is nearest the
// given RGB value in Euclidean distance. Ties resolve to the lowest data
// value.
func FromColor(r, g, b uint8) Block {
	best := 0
	bestDist := woolColors[0].dist(r, g, b)
	for i := 1; i < len(woolColors); i++ {
		if d := woolColors[i].dist(r, g, b); d < bestDist {
			best, bestDist = i, d
		}
	}
	return Block{ID: woolID, Data: uint8(best)}
}

// FromColorString parses a hex color of the form "#rrggbb" or "rrggbb"
// and returns the nearest wool variant.
func FromColorString(s string) (Block, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return Block{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Block{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	return FromColor(uint8(n>>16), uint8(n>>8), uint8(n)), nil
}

// Name returns the unique lowercase identifier of the block kind, or
// "unknown" for ids outside the table. The name round-trips through
// FromName.
func (b Block) Name() string {
	if e, ok := table[Block{ID: b.ID}]; ok {
		return e.name
	}
	return "unknown"
}

// Description returns a human-readable description of the block,
// accounting for the data value where it changes the block's appearance
// (wool colors being the common case).
func (b Block) Description() string {
	if e, ok := table[b]; ok {
		return e.description
	}
	if e, ok := table[Block{ID: b.ID}]; ok {
		return e.description
	}
	return fmt.Sprintf("Unknown block (id=%d, data=%d)", b.ID, b.Data)
}

// String renders the block in wire form.
func (b Block) String() string {
	return strconv.Itoa(int(b.ID)) + "," + strconv.Itoa(int(b.Data))
}

// Hash returns a stable structural hash of (id, data).
func (b Block) Hash() uint64 {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], uint16(b.ID)<<8|uint16(b.Data))
	return xxhash.Sum64(buf[:])
}
