package world

import (
	"context"
	"fmt"
	"strings"

	"github.com/craftconn/craftconn/internal/core/observability/log"
	"github.com/craftconn/craftconn/internal/core/protocol"
	"github.com/craftconn/craftconn/pkg/vector"
)

// World is the top level game handle. It bundles the block accessor,
// the host player, camera control and world settings over a single
// protocol session.
type World struct {
	session Session
	conn    *protocol.Connection
	logger  log.Log

	Blocks   *Blocks
	Player   *HostPlayer
	Camera   *Camera
	Settings *Settings
}

// Connect dials the server described by cfg and returns a World over
// the resulting connection. Close releases it.
func Connect(ctx context.Context, cfg protocol.Config, logger log.Log) (*World, error) {
	conn, err := protocol.Dial(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	w := New(conn, logger)
	w.conn = conn
	return w, nil
}

// New returns a World over an existing session. Close is a no-op for
// sessions not owned by the world; use Connect for a managed
// connection.
func New(session Session, logger log.Log) *World {
	if logger == nil {
		logger = log.Nop()
	}
	return &World{
		session:  session,
		logger:   logger.With(log.String("component", "world")),
		Blocks:   NewBlocks(session, logger),
		Player:   &HostPlayer{session: session},
		Camera:   &Camera{session: session},
		Settings: &Settings{session: session},
	}
}

// Session exposes the underlying session for raw protocol access and
// for composing with the event queue.
func (w *World) Session() Session {
	return w.session
}

// Batched coalesces the commands issued by fn into one network write.
// Without an owned connection fn runs unbatched.
func (w *World) Batched(fn func() error) error {
	if w.conn == nil {
		return fn()
	}
	return w.conn.Batched(fn)
}

// Close shuts down the underlying connection when the world owns one.
func (w *World) Close() error {
	if w.conn == nil {
		return nil
	}
	return w.conn.Close()
}

// Players lists the currently connected players keyed by entity id. The
// map is a snapshot; call again to refresh.
func (w *World) Players() (map[int]*Player, error) {
	return players(w.session)
}

// Say posts msg to the in-game chat. Each line becomes one chat
// message.
func (w *World) Say(msg string) error {
	for _, line := range strings.Split(msg, "\n") {
		if err := w.session.Request(fmt.Sprintf("chat.post(%s)", line)); err != nil {
			return err
		}
	}
	return nil
}

// CheckpointSave records the current world state on the server.
func (w *World) CheckpointSave() error {
	return w.session.Request("world.checkpoint.save()")
}

// CheckpointRestore rolls the world back to the last saved checkpoint.
func (w *World) CheckpointRestore() error {
	return w.session.Request("world.checkpoint.restore()")
}

// WithCheckpoint saves a checkpoint, runs fn, and restores the
// checkpoint if fn fails. The world is left modified only when fn
// returns nil.
func (w *World) WithCheckpoint(fn func() error) error {
	if err := w.CheckpointSave(); err != nil {
		return err
	}
	if err := fn(); err != nil {
		if rerr := w.CheckpointRestore(); rerr != nil {
			w.logger.Error("checkpoint restore failed", log.Error(rerr))
		}
		return err
	}
	return nil
}

// Camera positions the game camera.
type Camera struct {
	session Session
}

// SetNormal attaches the camera to the host player's viewpoint.
func (c *Camera) SetNormal() error {
	return c.session.Request("camera.mode.setNormal()")
}

// SetFixed detaches the camera at its current position.
func (c *Camera) SetFixed() error {
	return c.session.Request("camera.mode.setFixed()")
}

// SetFollow makes the camera track the player with the given entity id
// from above.
func (c *Camera) SetFollow(playerID int) error {
	return c.session.Request(fmt.Sprintf("camera.mode.setFollow(%d)", playerID))
}

// SetPos moves a fixed camera to pos.
func (c *Camera) SetPos(pos vector.Vector) error {
	return c.session.Request(fmt.Sprintf("camera.setPos(%s)", pos))
}

// Settings toggles world-wide flags.
type Settings struct {
	session Session
}

// SetImmutable controls whether players other than scripts can alter
// blocks.
func (s *Settings) SetImmutable(v bool) error {
	return s.session.Request(fmt.Sprintf("world.setting(world_immutable,%d)", boolFlag(v)))
}

// SetNametagsVisible controls whether player name tags render.
func (s *Settings) SetNametagsVisible(v bool) error {
	return s.session.Request(fmt.Sprintf("world.setting(nametags_visible,%d)", boolFlag(v)))
}

func boolFlag(v bool) int {
	if v {
		return 1
	}
	return 0
}
