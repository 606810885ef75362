package world

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/craftconn/craftconn/pkg/vector"
)

// HostPlayer is the player running the game session the server is
// attached to. Its commands carry no entity id.
type HostPlayer struct {
	session Session
}

// Pos returns the host player's precise position. The vector may have
// fractional components.
func (p *HostPlayer) Pos() (vector.Vector, error) {
	reply, err := p.session.Transact("player.getPos()")
	if err != nil {
		return vector.Vector{}, err
	}
	return parseVectorReply(reply)
}

// SetPos teleports the host player to pos.
func (p *HostPlayer) SetPos(pos vector.Vector) error {
	return p.session.Request(fmt.Sprintf("player.setPos(%s)", pos))
}

// Tile returns the tile the host player occupies, always integral.
func (p *HostPlayer) Tile() (vector.Vector, error) {
	reply, err := p.session.Transact("player.getTile()")
	if err != nil {
		return vector.Vector{}, err
	}
	return parseVectorReply(reply)
}

// SetTile teleports the host player to the tile at pos.
func (p *HostPlayer) SetTile(pos vector.Vector) error {
	t := pos.Floor()
	return p.session.Request(fmt.Sprintf(
		"player.setTile(%.0f,%.0f,%.0f)", t.X, t.Y, t.Z))
}

// Player is a connected player addressed by entity id.
type Player struct {
	session Session
	id      int
}

// ID returns the player's entity id.
func (p *Player) ID() int { return p.id }

func (p *Player) Pos() (vector.Vector, error) {
	reply, err := p.session.Transact(fmt.Sprintf("entity.getPos(%d)", p.id))
	if err != nil {
		return vector.Vector{}, err
	}
	return parseVectorReply(reply)
}

func (p *Player) SetPos(pos vector.Vector) error {
	return p.session.Request(fmt.Sprintf("entity.setPos(%d,%s)", p.id, pos))
}

func (p *Player) Tile() (vector.Vector, error) {
	reply, err := p.session.Transact(fmt.Sprintf("entity.getTile(%d)", p.id))
	if err != nil {
		return vector.Vector{}, err
	}
	return parseVectorReply(reply)
}

func (p *Player) SetTile(pos vector.Vector) error {
	t := pos.Floor()
	return p.session.Request(fmt.Sprintf(
		"entity.setTile(%d,%.0f,%.0f,%.0f)", p.id, t.X, t.Y, t.Z))
}

// players lists the entity ids of all connected players, keyed by id.
func players(s Session) (map[int]*Player, error) {
	reply, err := s.Transact("world.getPlayerIds()")
	if err != nil {
		return nil, err
	}
	out := make(map[int]*Player)
	if strings.TrimSpace(reply) == "" {
		return out, nil
	}
	for _, f := range strings.Split(reply, "|") {
		id, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadReply, err)
		}
		out[id] = &Player{session: s, id: id}
	}
	return out, nil
}

func parseVectorReply(reply string) (vector.Vector, error) {
	v, err := vector.Parse(strings.TrimSpace(reply))
	if err != nil {
		return vector.Vector{}, fmt.Errorf("%w: %v", ErrBadReply, err)
	}
	return v, nil
}
