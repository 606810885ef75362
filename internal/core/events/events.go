// Package events polls the server for game events and fans them out to
// registered handlers. The wire protocol has no push channel; events
// accumulate server-side until drained by a poll command.
package events

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/craftconn/craftconn/pkg/vector"
)

// Event is a game occurrence drained from the server's event queue.
type Event interface {
	// Kind returns the routing key handlers subscribe by.
	Kind() Kind
}

// Kind routes events to subscriptions.
type Kind string

const (
	KindBlockHit  Kind = "block_hit"
	KindChatPost  Kind = "chat_post"
	KindPlayerPos Kind = "player_pos"
	KindIdle      Kind = "idle"
)

// BlockHitEvent records a sword right-click on a block face.
type BlockHitEvent struct {
	Pos      vector.Vector
	Face     int
	PlayerID int
}

func (BlockHitEvent) Kind() Kind { return KindBlockHit }

func (e BlockHitEvent) String() string {
	return fmt.Sprintf("block hit %s face=%d player=%d", e.Pos, e.Face, e.PlayerID)
}

// ChatPostEvent records a chat message posted by a player.
type ChatPostEvent struct {
	PlayerID int
	Message  string
}

func (ChatPostEvent) Kind() Kind { return KindChatPost }

func (e ChatPostEvent) String() string {
	return fmt.Sprintf("chat player=%d %q", e.PlayerID, e.Message)
}

// PlayerPosEvent records a tracked player moving between polls.
type PlayerPosEvent struct {
	PlayerID int
	OldPos   vector.Vector
	NewPos   vector.Vector
}

func (PlayerPosEvent) Kind() Kind { return KindPlayerPos }

func (e PlayerPosEvent) String() string {
	return fmt.Sprintf("player %d moved %s -> %s", e.PlayerID, e.OldPos, e.NewPos)
}

// IdleEvent is emitted by a poll that drained nothing, when idle events
// are enabled. It lets handlers animate between player actions.
type IdleEvent struct{}

func (IdleEvent) Kind() Kind { return KindIdle }

func (IdleEvent) String() string { return "idle" }

// parseBlockHits parses the pipe-separated reply of events.block.hits.
// Each entry is "x,y,z,face,playerId".
func parseBlockHits(reply string) ([]Event, error) {
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return nil, nil
	}
	entries := strings.Split(reply, "|")
	out := make([]Event, 0, len(entries))
	for _, entry := range entries {
		fields := strings.Split(entry, ",")
		if len(fields) != 5 {
			return nil, fmt.Errorf("%w: block hit %q", ErrBadEvent, entry)
		}
		nums := make([]int, 5)
		for i, f := range fields {
			n, err := strconv.Atoi(strings.TrimSpace(f))
			if err != nil {
				return nil, fmt.Errorf("%w: block hit %q: %v", ErrBadEvent, entry, err)
			}
			nums[i] = n
		}
		out = append(out, BlockHitEvent{
			Pos:      vector.New(float64(nums[0]), float64(nums[1]), float64(nums[2])),
			Face:     nums[3],
			PlayerID: nums[4],
		})
	}
	return out, nil
}

// parseChatPosts parses the pipe-separated reply of events.chat.posts.
// Each entry is "playerId,message"; the message may itself contain
// commas.
func parseChatPosts(reply string) ([]Event, error) {
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return nil, nil
	}
	entries := strings.Split(reply, "|")
	out := make([]Event, 0, len(entries))
	for _, entry := range entries {
		idStr, msg, ok := strings.Cut(entry, ",")
		if !ok {
			return nil, fmt.Errorf("%w: chat post %q", ErrBadEvent, entry)
		}
		id, err := strconv.Atoi(strings.TrimSpace(idStr))
		if err != nil {
			return nil, fmt.Errorf("%w: chat post %q: %v", ErrBadEvent, entry, err)
		}
		out = append(out, ChatPostEvent{PlayerID: id, Message: msg})
	}
	return out, nil
}
