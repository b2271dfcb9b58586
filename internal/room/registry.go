package room

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/pixil98/go-covenants/internal/game"
	"github.com/pixil98/go-covenants/internal/protocol"
	"github.com/pixil98/go-covenants/internal/rules"
)

var (
	ErrRoomNotFound = &rules.RuleError{Reason: rules.ReasonRoomNotFound}
	ErrRoomFull     = &rules.RuleError{Reason: rules.ReasonRoomFull}
	ErrNotInRoom    = &rules.RuleError{Reason: rules.ReasonNotInRoom}

	ErrStopped = errors.New("room registry stopped")
)

// Publisher delivers an encoded message to a set of connections.
type Publisher interface {
	Publish(targets []string, data []byte) error
}

type membership struct {
	room *Room
	slot rules.Slot
}

// Registry owns every room in the process. All room state is touched only
// from the goroutine running Start; public methods hand it a closure and
// wait for the result, so events are applied one at a time.
type Registry struct {
	pub         Publisher
	board       *rules.Map
	sessionOpts []game.SessionOpt
	newID       func() string

	events chan func()
	done   chan struct{}

	rooms   map[string]*Room
	members map[string]membership
}

func NewRegistry(pub Publisher, opts ...RegistryOpt) *Registry {
	r := &Registry{
		pub:     pub,
		newID:   uuid.NewString,
		events:  make(chan func()),
		done:    make(chan struct{}),
		rooms:   map[string]*Room{},
		members: map[string]membership{},
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.board == nil {
		r.board = rules.DefaultMap()
	}

	return r
}

// Start runs the event loop until ctx is canceled. Rooms do not survive a
// restart.
func (r *Registry) Start(ctx context.Context) error {
	defer close(r.done)

	slog.InfoContext(ctx, "room registry started")
	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "room registry stopped", "rooms", len(r.rooms))
			return nil
		case ev := <-r.events:
			ev()
		}
	}
}

func (r *Registry) do(ctx context.Context, fn func() error) error {
	res := make(chan error, 1)
	ev := func() { res <- fn() }

	select {
	case r.events <- ev:
	case <-r.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-res:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CreateRoom opens a room with connID in slot 1. A connection already in a
// room leaves it first.
func (r *Registry) CreateRoom(ctx context.Context, connID string) (string, error) {
	var id string
	err := r.do(ctx, func() error {
		r.leave(ctx, connID)

		rm := newRoom(r.newID(), game.NewSession(r.board, r.sessionOpts...))
		slot := rm.seat(connID)
		r.rooms[rm.id] = rm
		r.members[connID] = membership{room: rm, slot: slot}
		id = rm.id

		slog.InfoContext(ctx, "room created", "room", rm.id, "conn", connID)
		snap := rm.session.Snapshot()
		r.send(ctx, []string{connID}, protocol.TypeRoomCreated, protocol.RoomCreated{RoomID: rm.id, Snapshot: &snap})
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// JoinRoom seats connID in slot 2 of an existing room. The joiner receives
// the join result, both occupants are told about the join, and the joiner
// then receives the current snapshot.
func (r *Registry) JoinRoom(ctx context.Context, connID string, roomID string) (rules.Slot, error) {
	var slot rules.Slot
	err := r.do(ctx, func() error {
		if m, ok := r.members[connID]; ok && m.room.id == roomID {
			slot = m.slot
			r.sendJoined(ctx, connID, m.room, m.slot)
			return nil
		}

		rm, ok := r.rooms[roomID]
		if !ok {
			r.joinFailed(ctx, connID, ErrRoomNotFound)
			return ErrRoomNotFound
		}
		if rm.full() {
			r.joinFailed(ctx, connID, ErrRoomFull)
			return ErrRoomFull
		}

		r.leave(ctx, connID)
		slot = rm.seat(connID)
		r.members[connID] = membership{room: rm, slot: slot}

		slog.InfoContext(ctx, "player joined room", "room", rm.id, "conn", connID, "slot", int(slot))
		r.sendJoined(ctx, connID, rm, slot)
		r.send(ctx, rm.conns(), protocol.TypePlayerJoined, r.presence(rm, slot, connID))
		r.send(ctx, []string{connID}, protocol.TypeGameStateUpdate, protocol.GameStateUpdate{
			RoomID: rm.id,
			State:  rm.session.Snapshot(),
		})
		return nil
	})
	if err != nil {
		return rules.NoSlot, err
	}
	return slot, nil
}

// InitializeGame deals tiles in the sender's room. Dealing again restarts
// the game.
func (r *Registry) InitializeGame(ctx context.Context, connID string, msg protocol.GameInitialized) error {
	return r.apply(ctx, connID, msg.RoomID, rules.NoSlot, func(s *game.Session, _ rules.Slot) error {
		return s.InitializeGame(msg.Deal)
	})
}

// PlacePiece applies a placement for the sender's slot.
func (r *Registry) PlacePiece(ctx context.Context, connID string, msg protocol.PiecePlaced) error {
	return r.apply(ctx, connID, msg.RoomID, msg.PlayerSlot, func(s *game.Session, slot rules.Slot) error {
		return s.PlacePiece(game.Placement{
			Player:  slot,
			Tile:    msg.TileID,
			Cell:    msg.Position,
			Element: msg.ResolvedElement,
		})
	})
}

// ForfeitTerritory hands the active territory to the sender's opponent.
func (r *Registry) ForfeitTerritory(ctx context.Context, connID string, msg protocol.TerritoryForfeit) error {
	return r.apply(ctx, connID, msg.RoomID, msg.PlayerSlot, func(s *game.Session, slot rules.Slot) error {
		return s.ForfeitTerritory(slot, msg.TerritoryID)
	})
}

// DrawChaosTile draws from the leftover pool for the sender's slot.
func (r *Registry) DrawChaosTile(ctx context.Context, connID string, msg protocol.ChaosDraw) error {
	return r.apply(ctx, connID, msg.RoomID, msg.PlayerSlot, func(s *game.Session, slot rules.Slot) error {
		_, err := s.DrawChaosTile(slot, msg.TileID)
		return err
	})
}

// ResetGame clears the board of the sender's room. Like a deal it is not
// tied to a turn.
func (r *Registry) ResetGame(ctx context.Context, connID string, msg protocol.ResetGame) error {
	return r.apply(ctx, connID, msg.RoomID, rules.NoSlot, func(s *game.Session, _ rules.Slot) error {
		s.Reset()
		return nil
	})
}

// apply runs one intent against a room session. The acting slot comes from
// the connection; a payload naming a different slot is out of turn. A
// rejected intent is reported to the sender only, and a committed one is
// broadcast to the room as a full snapshot.
func (r *Registry) apply(ctx context.Context, connID string, roomID string, claimed rules.Slot, fn func(*game.Session, rules.Slot) error) error {
	return r.do(ctx, func() error {
		m, err := r.member(connID, roomID)
		if err != nil {
			r.reject(ctx, connID, protocol.TypeError, err)
			return err
		}

		if claimed != rules.NoSlot && claimed != m.slot {
			r.reject(ctx, connID, protocol.TypeInvalidMove, rules.ErrNotYourTurn)
			return rules.ErrNotYourTurn
		}

		if err := fn(m.room.session, m.slot); err != nil {
			slog.DebugContext(ctx, "intent rejected", "room", m.room.id, "conn", connID, "error", err)
			r.reject(ctx, connID, protocol.TypeInvalidMove, err)
			return err
		}

		r.broadcast(ctx, m.room)
		return nil
	})
}

// Leave removes connID from roomID. An empty roomID means whichever room the
// connection is in.
func (r *Registry) Leave(ctx context.Context, connID string, roomID string) error {
	return r.do(ctx, func() error {
		if _, err := r.member(connID, roomID); err != nil {
			r.reject(ctx, connID, protocol.TypeError, err)
			return err
		}
		r.leave(ctx, connID)
		return nil
	})
}

// Disconnect drops connID from any room it occupies.
func (r *Registry) Disconnect(ctx context.Context, connID string) error {
	return r.do(ctx, func() error {
		r.leave(ctx, connID)
		return nil
	})
}

// Rooms lists the open rooms ordered by id.
func (r *Registry) Rooms(ctx context.Context) ([]Info, error) {
	var out []Info
	err := r.do(ctx, func() error {
		for _, rm := range r.rooms {
			out = append(out, rm.info())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(out, func(a, b Info) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

// Tick logs room occupancy.
func (r *Registry) Tick(ctx context.Context) error {
	infos, err := r.Rooms(ctx)
	if err != nil {
		return fmt.Errorf("listing rooms: %w", err)
	}

	var seated, playing, ended int
	for _, info := range infos {
		seated += info.Occupants
		switch {
		case info.GameEnded:
			ended++
		case info.Initialized:
			playing++
		}
	}
	slog.InfoContext(ctx, "room stats", "rooms", len(infos), "seated", seated, "playing", playing, "ended", ended)
	return nil
}

// Snapshot returns the canonical state of a room.
func (r *Registry) Snapshot(ctx context.Context, roomID string) (game.Snapshot, error) {
	var snap game.Snapshot
	err := r.do(ctx, func() error {
		rm, ok := r.rooms[roomID]
		if !ok {
			return ErrRoomNotFound
		}
		snap = rm.session.Snapshot()
		return nil
	})
	return snap, err
}

func (r *Registry) member(connID string, roomID string) (membership, error) {
	m, ok := r.members[connID]
	if !ok {
		if _, exists := r.rooms[roomID]; roomID != "" && !exists {
			return membership{}, ErrRoomNotFound
		}
		return membership{}, ErrNotInRoom
	}
	if roomID != "" && m.room.id != roomID {
		return membership{}, ErrNotInRoom
	}
	return m, nil
}

func (r *Registry) leave(ctx context.Context, connID string) {
	m, ok := r.members[connID]
	if !ok {
		return
	}
	delete(r.members, connID)
	m.room.vacate(m.slot)

	slog.InfoContext(ctx, "player left room", "room", m.room.id, "conn", connID, "slot", int(m.slot))
	if m.room.empty() {
		delete(r.rooms, m.room.id)
		slog.InfoContext(ctx, "room torn down", "room", m.room.id)
		return
	}
	r.send(ctx, m.room.conns(), protocol.TypePlayerLeft, r.presence(m.room, m.slot, connID))
}

func (r *Registry) presence(rm *Room, slot rules.Slot, connID string) protocol.Presence {
	return protocol.Presence{
		RoomID:       rm.id,
		PlayerSlot:   slot,
		ConnectionID: connID,
		Occupants:    len(rm.occupants),
	}
}

func (r *Registry) sendJoined(ctx context.Context, connID string, rm *Room, slot rules.Slot) {
	snap := rm.session.Snapshot()
	r.send(ctx, []string{connID}, protocol.TypeJoinResult, protocol.JoinResult{
		Success:    true,
		RoomID:     rm.id,
		PlayerSlot: slot,
		Snapshot:   &snap,
	})
}

func (r *Registry) joinFailed(ctx context.Context, connID string, err error) {
	rej := protocol.Reject(err)
	r.send(ctx, []string{connID}, protocol.TypeJoinResult, protocol.JoinResult{
		Reason: rej.Reason,
		Error:  rej.Message,
	})
}

func (r *Registry) reject(ctx context.Context, connID string, t protocol.MessageType, err error) {
	r.send(ctx, []string{connID}, t, protocol.Reject(err))
}

func (r *Registry) broadcast(ctx context.Context, rm *Room) {
	r.send(ctx, rm.conns(), protocol.TypeGameStateUpdate, protocol.GameStateUpdate{
		RoomID: rm.id,
		State:  rm.session.Snapshot(),
	})
}

// send never fails the event: a connection that cannot be reached is
// dropped by its own session loop.
func (r *Registry) send(ctx context.Context, targets []string, t protocol.MessageType, payload any) {
	if len(targets) == 0 {
		return
	}
	data, err := protocol.Encode(t, payload)
	if err != nil {
		slog.ErrorContext(ctx, "encoding message", "type", t, "error", err)
		return
	}
	if err := r.pub.Publish(targets, data); err != nil {
		slog.WarnContext(ctx, "publishing message", "type", t, "error", err)
	}
}
