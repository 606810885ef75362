package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/craftconn/craftconn/internal/core/observability/log"
	"github.com/craftconn/craftconn/internal/core/protocol"
	"github.com/craftconn/craftconn/pkg/concurrent"
	"github.com/craftconn/craftconn/pkg/sequence"
	"github.com/craftconn/craftconn/pkg/vector"
)

// Session is the slice of the connection the event queue needs.
type Session interface {
	Request(command string) error
	Transact(command string) (string, error)
	ServerVersion() protocol.ServerVersion
}

// Config tunes the polling loop.
type Config struct {
	// PollGap is the pause between polls in the Serve loop.
	PollGap time.Duration
	// IncludeIdle emits an IdleEvent for every poll that drains
	// nothing.
	IncludeIdle bool
	// Workers bounds concurrent handler dispatch. Values below two run
	// handlers sequentially in the Serve goroutine.
	Workers int
}

// DefaultConfig returns the polling defaults.
func DefaultConfig() Config {
	return Config{
		PollGap: 100 * time.Millisecond,
		Workers: 1,
	}
}

// Handler consumes one event. Errors are aggregated per poll and logged
// by the Serve loop; they do not stop it.
type Handler func(Event) error

// Subscription is a registered handler. Cancel stops delivery; multiple
// calls are safe.
type Subscription struct {
	id     string
	kind   Kind
	cancel func()
}

// ID returns the subscription's unique identifier.
func (s *Subscription) ID() string { return s.id }

// Kind returns the event kind the subscription listens to.
func (s *Subscription) Kind() Kind { return s.kind }

// Cancel de-registers the handler.
func (s *Subscription) Cancel() {
	if s.cancel != nil {
		s.cancel()
	}
}

type registration struct {
	kind    Kind
	handler Handler
}

// Queue drains the server's event backlog and fans events out to
// subscribed handlers. All methods are safe for concurrent use; polls
// themselves are serialized by the underlying session.
type Queue struct {
	session Session
	cfg     Config
	logger  log.Log

	mu      sync.Mutex
	subs    map[string]*registration
	tracked map[int]trackedPos
	serving bool
}

// trackedPos is the last observed position of a tracked player. known
// distinguishes "never polled" from a player standing at the origin.
type trackedPos struct {
	pos   vector.Vector
	known bool
}

// NewQueue returns an event queue over the session.
func NewQueue(session Session, cfg Config, logger log.Log) *Queue {
	if logger == nil {
		logger = log.Nop()
	}
	return &Queue{
		session: session,
		cfg:     cfg,
		logger:  logger.With(log.String("component", "events")),
		subs:    make(map[string]*registration),
		tracked: make(map[int]trackedPos),
	}
}

// Clear discards every event the server has accumulated so far.
func (q *Queue) Clear() error {
	return q.session.Request("events.clear()")
}

// TrackPlayer starts emitting PlayerPosEvent for the entity on each
// poll where its position changed. The first poll after tracking only
// records the baseline.
func (q *Queue) TrackPlayer(playerID int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.tracked[playerID]; !ok {
		q.tracked[playerID] = trackedPos{}
	}
}

// UntrackPlayer stops position tracking for the entity.
func (q *Queue) UntrackPlayer(playerID int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.tracked, playerID)
}

// Poll drains pending events and returns them. Block hits always poll;
// chat posts poll only against servers that implement them; tracked
// player movement is derived by comparing positions between polls. A
// poll that drains nothing returns an IdleEvent when enabled, else an
// empty slice.
func (q *Queue) Poll() ([]Event, error) {
	var out []Event

	reply, err := q.session.Transact("events.block.hits()")
	if err != nil {
		return nil, err
	}
	hits, err := parseBlockHits(reply)
	if err != nil {
		return nil, err
	}
	out = append(out, hits...)

	if q.session.ServerVersion().SupportsChatEvents() {
		reply, err = q.session.Transact("events.chat.posts()")
		if err != nil {
			return nil, err
		}
		posts, err := parseChatPosts(reply)
		if err != nil {
			return nil, err
		}
		out = append(out, posts...)
	}

	moved, err := q.pollTracked()
	if err != nil {
		return nil, err
	}
	out = append(out, moved...)

	if len(out) == 0 && q.cfg.IncludeIdle {
		out = append(out, IdleEvent{})
	}
	return out, nil
}

func (q *Queue) pollTracked() ([]Event, error) {
	q.mu.Lock()
	ids := make([]int, 0, len(q.tracked))
	for id := range q.tracked {
		ids = append(ids, id)
	}
	q.mu.Unlock()

	var out []Event
	for _, id := range ids {
		reply, err := q.session.Transact(fmt.Sprintf("entity.getPos(%d)", id))
		if err != nil {
			return nil, err
		}
		pos, err := vector.Parse(strings.TrimSpace(reply))
		if err != nil {
			return nil, fmt.Errorf("%w: player %d position: %v", ErrBadEvent, id, err)
		}
		q.mu.Lock()
		old, ok := q.tracked[id]
		if ok {
			q.tracked[id] = trackedPos{pos: pos, known: true}
		}
		q.mu.Unlock()
		if !ok {
			continue // untracked mid-poll
		}
		if old.known && old.pos != pos {
			out = append(out, PlayerPosEvent{PlayerID: id, OldPos: old.pos, NewPos: pos})
		}
	}
	return out, nil
}

// OnBlockHit registers a handler for block hit events.
func (q *Queue) OnBlockHit(h func(BlockHitEvent) error) *Subscription {
	return q.subscribe(KindBlockHit, func(e Event) error {
		return h(e.(BlockHitEvent))
	})
}

// OnChatPost registers a handler for chat post events.
func (q *Queue) OnChatPost(h func(ChatPostEvent) error) *Subscription {
	return q.subscribe(KindChatPost, func(e Event) error {
		return h(e.(ChatPostEvent))
	})
}

// OnPlayerPos registers a handler for tracked player movement.
func (q *Queue) OnPlayerPos(h func(PlayerPosEvent) error) *Subscription {
	return q.subscribe(KindPlayerPos, func(e Event) error {
		return h(e.(PlayerPosEvent))
	})
}

// OnIdle registers a handler for idle polls.
func (q *Queue) OnIdle(h func(IdleEvent) error) *Subscription {
	return q.subscribe(KindIdle, func(e Event) error {
		return h(e.(IdleEvent))
	})
}

func (q *Queue) subscribe(kind Kind, handler Handler) *Subscription {
	q.mu.Lock()
	defer q.mu.Unlock()
	id := uuid.NewString()
	q.subs[id] = &registration{kind: kind, handler: handler}
	return &Subscription{
		id:   id,
		kind: kind,
		cancel: func() {
			q.mu.Lock()
			defer q.mu.Unlock()
			delete(q.subs, id)
		},
	}
}

// Dispatch delivers each event to the handlers subscribed to its kind.
// With more than one worker configured, handlers run concurrently with
// bounded parallelism; otherwise they run in the caller's goroutine.
func (q *Queue) Dispatch(events []Event) error {
	if len(events) == 0 {
		return nil
	}

	type delivery struct {
		event   Event
		handler Handler
	}
	q.mu.Lock()
	var work []delivery
	for _, e := range events {
		for _, reg := range q.subs {
			if reg.kind == e.Kind() {
				work = append(work, delivery{event: e, handler: reg.handler})
			}
		}
	}
	q.mu.Unlock()

	if q.cfg.Workers > 1 {
		return concurrent.ForEach(sequence.From(work), q.cfg.Workers,
			func(d delivery) error { return d.handler(d.event) })
	}

	var all error
	for _, d := range work {
		if err := d.handler(d.event); err != nil {
			all = errors.Join(all, err)
		}
	}
	return all
}

// Serve polls and dispatches until ctx is cancelled. Handler errors are
// logged and the loop continues; poll errors terminate it. Only one
// Serve loop may run per queue.
func (q *Queue) Serve(ctx context.Context) error {
	q.mu.Lock()
	if q.serving {
		q.mu.Unlock()
		return ErrServing
	}
	q.serving = true
	q.mu.Unlock()
	defer func() {
		q.mu.Lock()
		q.serving = false
		q.mu.Unlock()
	}()

	gap := q.cfg.PollGap
	if gap <= 0 {
		gap = DefaultConfig().PollGap
	}
	ticker := time.NewTicker(gap)
	defer ticker.Stop()

	q.logger.Info("event loop started",
		log.Duration("poll_gap", gap),
		log.Int("workers", q.cfg.Workers))
	for {
		select {
		case <-ctx.Done():
			q.logger.Info("event loop stopped")
			return ctx.Err()
		case <-ticker.C:
			events, err := q.Poll()
			if err != nil {
				q.logger.Error("poll failed", log.Error(err))
				return err
			}
			if err := q.Dispatch(events); err != nil {
				q.logger.Warn("handler error",
					log.Int("events", len(events)), log.Error(err))
			}
		}
	}
}
