package world

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/craftconn/craftconn/internal/core/protocol"
	"github.com/craftconn/craftconn/pkg/block"
	"github.com/craftconn/craftconn/pkg/vector"
)

// fakeSession records every command and answers transactions from a
// scripted reply table.
type fakeSession struct {
	version protocol.ServerVersion
	sent    []string
	replies map[string]string
	err     error
}

func (f *fakeSession) Send(command string) error {
	f.sent = append(f.sent, command)
	return f.err
}

func (f *fakeSession) Request(command string) error {
	f.sent = append(f.sent, command)
	return f.err
}

func (f *fakeSession) Transact(command string) (string, error) {
	f.sent = append(f.sent, command)
	if f.err != nil {
		return "", f.err
	}
	reply, ok := f.replies[command]
	if !ok {
		return "", errors.New("unscripted command: " + command)
	}
	return reply, nil
}

func (f *fakeSession) ServerVersion() protocol.ServerVersion {
	return f.version
}

func newFake(version protocol.ServerVersion) *fakeSession {
	return &fakeSession{version: version, replies: map[string]string{}}
}

func TestBlockGetSet(t *testing.T) {
	s := newFake(protocol.VersionMinecraftPi)
	s.replies["world.getBlockWithData(1,2,3)"] = "35,14"
	w := New(s, nil)

	bl, err := w.Blocks.Get(vector.New(1.7, 2.2, 3.9))
	require.NoError(t, err)
	require.Equal(t, block.Block{ID: 35, Data: 14}, bl)

	require.NoError(t, w.Blocks.Set(vector.New(1, 2, 3), block.Stone))
	require.Equal(t, "world.setBlock(1,2,3,1,0)", s.sent[len(s.sent)-1])
}

func TestGetRangeBulk(t *testing.T) {
	s := newFake(protocol.VersionRaspberryJuice)
	s.replies["world.getBlocks(0,0,0,1,0,1)"] = "1,2,3,4"
	w := New(s, nil)

	r, err := vector.NewRange(vector.Vector{}, vector.New(2, 1, 2))
	require.NoError(t, err)
	got, err := w.Blocks.GetRange(r)
	require.NoError(t, err)
	require.Len(t, got, 4)
	// ids map onto zxy iteration order, data is always zero
	require.Equal(t, block.Block{ID: 1}, got[0])
	require.Equal(t, block.Block{ID: 4}, got[3])
	require.Len(t, s.sent, 1)
}

func TestGetRangePerVectorFallback(t *testing.T) {
	s := newFake(protocol.VersionMinecraftPi)
	s.replies["world.getBlockWithData(0,0,0)"] = "1,0"
	s.replies["world.getBlockWithData(1,0,0)"] = "2,0"
	s.replies["world.getBlockWithData(0,0,1)"] = "3,0"
	s.replies["world.getBlockWithData(1,0,1)"] = "4,0"
	w := New(s, nil)

	r, err := vector.NewRange(vector.Vector{}, vector.New(2, 1, 2))
	require.NoError(t, err)
	got, err := w.Blocks.GetRange(r)
	require.NoError(t, err)
	require.Equal(t, []block.Block{{ID: 1}, {ID: 3}, {ID: 2}, {ID: 4}}, got)
	require.Len(t, s.sent, 4)
}

func TestGetRangeEmpty(t *testing.T) {
	s := newFake(protocol.VersionRaspberryJuice)
	w := New(s, nil)

	r, err := vector.NewRange(vector.Vector{}, vector.Vector{})
	require.NoError(t, err)
	got, err := w.Blocks.GetRange(r)
	require.NoError(t, err)
	require.Empty(t, got)
	require.Empty(t, s.sent)
}

func TestSetRange(t *testing.T) {
	s := newFake(protocol.VersionMinecraftPi)
	w := New(s, nil)

	r, err := vector.NewRange(vector.Vector{}, vector.New(3, 2, 3))
	require.NoError(t, err)
	require.NoError(t, w.Blocks.SetRange(r, block.Stone))
	require.Equal(t, []string{"world.setBlocks(0,0,0,2,1,2,1,0)"}, s.sent)

	s.sent = nil
	stepped, err := vector.NewRangeStep(vector.Vector{}, vector.New(4, 1, 1), vector.New(2, 1, 1))
	require.NoError(t, err)
	require.NoError(t, w.Blocks.SetRange(stepped, block.Air))
	require.Equal(t, []string{
		"world.setBlock(0,0,0,0,0)",
		"world.setBlock(2,0,0,0,0)",
	}, s.sent)
}

func TestSetRangeBlocksLengthCheck(t *testing.T) {
	s := newFake(protocol.VersionMinecraftPi)
	w := New(s, nil)

	r, err := vector.NewRange(vector.Vector{}, vector.New(2, 1, 1))
	require.NoError(t, err)
	err = w.Blocks.SetRangeBlocks(r, []block.Block{block.Stone})
	require.ErrorIs(t, err, ErrLengthMismatch)
	require.Empty(t, s.sent, "mismatch must be detected before any command")

	require.NoError(t, w.Blocks.SetRangeBlocks(r, []block.Block{block.Stone, block.Dirt}))
	require.Len(t, s.sent, 2)
}

func TestHeight(t *testing.T) {
	s := newFake(protocol.VersionMinecraftPi)
	s.replies["world.height(10,-4)"] = "17"
	w := New(s, nil)

	v, err := w.Blocks.Height(vector.New(10.9, 60, -3.2))
	require.NoError(t, err)
	require.Equal(t, vector.New(10, 17, -4), v)
}

func TestHostPlayer(t *testing.T) {
	s := newFake(protocol.VersionMinecraftPi)
	s.replies["player.getPos()"] = "1.5,18.0,-3.25"
	s.replies["player.getTile()"] = "1,18,-4"
	w := New(s, nil)

	pos, err := w.Player.Pos()
	require.NoError(t, err)
	require.Equal(t, vector.New(1.5, 18, -3.25), pos)

	tile, err := w.Player.Tile()
	require.NoError(t, err)
	require.True(t, tile.IsIntegral())

	require.NoError(t, w.Player.SetPos(vector.New(0.5, 20, 0)))
	require.Equal(t, "player.setPos(0.5,20,0)", s.sent[len(s.sent)-1])
	require.NoError(t, w.Player.SetTile(vector.New(0.5, 20, 0)))
	require.Equal(t, "player.setTile(0,20,0)", s.sent[len(s.sent)-1])
}

func TestPlayers(t *testing.T) {
	s := newFake(protocol.VersionRaspberryJuice)
	s.replies["world.getPlayerIds()"] = "1|4|9"
	s.replies["entity.getPos(4)"] = "0.0,0.0,0.0"
	w := New(s, nil)

	ps, err := w.Players()
	require.NoError(t, err)
	require.Len(t, ps, 3)
	require.Equal(t, 4, ps[4].ID())

	_, err = ps[4].Pos()
	require.NoError(t, err)
	require.NoError(t, ps[4].SetTile(vector.New(1, 2, 3)))
	require.Equal(t, "entity.setTile(4,1,2,3)", s.sent[len(s.sent)-1])
}

func TestPlayersEmpty(t *testing.T) {
	s := newFake(protocol.VersionRaspberryJuice)
	s.replies["world.getPlayerIds()"] = ""
	w := New(s, nil)

	ps, err := w.Players()
	require.NoError(t, err)
	require.Empty(t, ps)
}

func TestSayMultiline(t *testing.T) {
	s := newFake(protocol.VersionMinecraftPi)
	w := New(s, nil)

	require.NoError(t, w.Say("hello\nworld"))
	require.Equal(t, []string{"chat.post(hello)", "chat.post(world)"}, s.sent)
}

func TestWithCheckpoint(t *testing.T) {
	s := newFake(protocol.VersionMinecraftPi)
	w := New(s, nil)

	require.NoError(t, w.WithCheckpoint(func() error { return nil }))
	require.Equal(t, []string{"world.checkpoint.save()"}, s.sent)

	s.sent = nil
	boom := errors.New("boom")
	err := w.WithCheckpoint(func() error { return boom })
	require.ErrorIs(t, err, boom)
	require.Equal(t, []string{
		"world.checkpoint.save()",
		"world.checkpoint.restore()",
	}, s.sent)
}

func TestCameraAndSettings(t *testing.T) {
	s := newFake(protocol.VersionMinecraftPi)
	w := New(s, nil)

	require.NoError(t, w.Camera.SetFixed())
	require.NoError(t, w.Camera.SetPos(vector.New(0, 32, 0)))
	require.NoError(t, w.Camera.SetFollow(7))
	require.NoError(t, w.Settings.SetImmutable(true))
	require.NoError(t, w.Settings.SetNametagsVisible(false))
	require.Equal(t, []string{
		"camera.mode.setFixed()",
		"camera.setPos(0,32,0)",
		"camera.mode.setFollow(7)",
		"world.setting(world_immutable,1)",
		"world.setting(nametags_visible,0)",
	}, s.sent)
}
