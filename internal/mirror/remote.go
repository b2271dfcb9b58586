package mirror

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pixil98/go-covenants/internal/game"
	"github.com/pixil98/go-covenants/internal/protocol"
	"github.com/pixil98/go-covenants/internal/rules"
)

const writeWait = 10 * time.Second

var (
	ErrClosed    = errors.New("relay connection closed")
	ErrNotInRoom = &rules.RuleError{Reason: rules.ReasonNotInRoom}
)

// RemoteStore mirrors a room on the relay. Every snapshot the relay pushes
// replaces the mirrored state outright, in arrival order. Intents are
// checked against the mirrored state before they are sent.
type RemoteStore struct {
	ws          *websocket.Conn
	board       *rules.Map
	sessionOpts []game.SessionOpt
	rejectBuf   int

	writeMu sync.Mutex
	// reqMu serializes create and join requests, which wait for a reply.
	reqMu sync.Mutex

	mu        sync.RWMutex
	roomID    string
	slot      rules.Slot
	occupants int
	snap      game.Snapshot

	subs       watchers
	replies    chan protocol.Envelope
	rejections chan protocol.Rejection
	done       chan struct{}
	err        error
}

// Dial connects to the relay's websocket endpoint. The store is not in a
// room until CreateRoom or JoinRoom succeeds.
func Dial(ctx context.Context, url string, opts ...RemoteOpt) (*RemoteStore, error) {
	s := &RemoteStore{
		board:     rules.DefaultMap(),
		rejectBuf: 16,
		replies:   make(chan protocol.Envelope, 1),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.rejections = make(chan protocol.Rejection, s.rejectBuf)
	s.snap = s.emptySnapshot()

	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing relay: %w", err)
	}
	s.ws = ws

	go s.read()
	return s, nil
}

func (s *RemoteStore) emptySnapshot() game.Snapshot {
	return game.NewSession(s.board, s.sessionOpts...).Snapshot()
}

// CreateRoom opens a new room on the relay and takes slot 1.
func (s *RemoteStore) CreateRoom(ctx context.Context) (string, error) {
	s.reqMu.Lock()
	defer s.reqMu.Unlock()

	s.drainReplies()
	if err := s.send(protocol.TypeCreateRoom, nil); err != nil {
		return "", err
	}

	env, err := s.await(ctx, protocol.TypeRoomCreated)
	if err != nil {
		return "", err
	}
	var msg protocol.RoomCreated
	if err := env.Unmarshal(&msg); err != nil {
		return "", err
	}
	return msg.RoomID, nil
}

// JoinRoom takes the open slot of an existing room. The mirrored state is
// current by the time it returns.
func (s *RemoteStore) JoinRoom(ctx context.Context, roomID string) (rules.Slot, error) {
	s.reqMu.Lock()
	defer s.reqMu.Unlock()

	s.drainReplies()
	if err := s.send(protocol.TypeJoinRoom, protocol.JoinRoom{RoomID: roomID}); err != nil {
		return rules.NoSlot, err
	}

	env, err := s.await(ctx, protocol.TypeJoinResult)
	if err != nil {
		return rules.NoSlot, err
	}
	var res protocol.JoinResult
	if err := env.Unmarshal(&res); err != nil {
		return rules.NoSlot, err
	}
	if !res.Success {
		return rules.NoSlot, fmt.Errorf("joining room %s: %w", roomID, &rules.RuleError{Reason: res.Reason})
	}
	return res.PlayerSlot, nil
}

// Leave gives up the current room and resets the mirror.
func (s *RemoteStore) Leave() error {
	s.mu.Lock()
	roomID := s.roomID
	s.roomID, s.slot, s.occupants = "", rules.NoSlot, 0
	s.snap = s.emptySnapshot()
	snap := s.snap
	s.mu.Unlock()

	if roomID == "" {
		return ErrNotInRoom
	}
	if err := s.send(protocol.TypeLeaveRoom, protocol.LeaveRoom{RoomID: roomID}); err != nil {
		return err
	}
	s.subs.notify(snap)
	return nil
}

// Apply checks the intent against the mirrored state and forwards it. The
// acting slot defaults to this store's slot. The check plays by the rules
// carried in the relay's snapshots, not by this store's session options.
func (s *RemoteStore) Apply(ctx context.Context, in Intent) error {
	s.mu.RLock()
	roomID, slot, snap := s.roomID, s.slot, s.snap
	s.mu.RUnlock()

	if roomID == "" {
		return ErrNotInRoom
	}
	in = actAs(in, slot)

	sess, err := game.RestoreSession(s.board, snap, s.sessionOpts...)
	if err != nil {
		return fmt.Errorf("restoring mirrored state: %w", err)
	}
	if err := in.apply(sess); err != nil {
		return err
	}

	t, payload := in.message(roomID)
	return s.send(t, payload)
}

func actAs(in Intent, slot rules.Slot) Intent {
	switch v := in.(type) {
	case Place:
		if v.Player == rules.NoSlot {
			v.Player = slot
		}
		return v
	case Forfeit:
		if v.Player == rules.NoSlot {
			v.Player = slot
		}
		return v
	case Draw:
		if v.Player == rules.NoSlot {
			v.Player = slot
		}
		return v
	}
	return in
}

func (s *RemoteStore) ValidatePlacement(p rules.Slot, tile rules.TileID, cell rules.Cell) (rules.Verdict, error) {
	sess, err := game.RestoreSession(s.board, s.Snapshot(), s.sessionOpts...)
	if err != nil {
		return rules.Verdict{}, fmt.Errorf("restoring mirrored state: %w", err)
	}
	return sess.ValidatePlacement(p, tile, cell)
}

func (s *RemoteStore) Snapshot() game.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *RemoteStore) Subscribe(fn func(game.Snapshot)) func() {
	return s.subs.add(fn)
}

// Room reports the room and slot this store occupies.
func (s *RemoteStore) Room() (string, rules.Slot) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roomID, s.slot
}

// Occupants is the room's occupancy as last announced by the relay.
func (s *RemoteStore) Occupants() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.occupants
}

// Rejections delivers the relay's invalid-move and error notices. Notices
// arriving while the buffer is full are dropped.
func (s *RemoteStore) Rejections() <-chan protocol.Rejection {
	return s.rejections
}

// Done is closed once the connection to the relay is gone.
func (s *RemoteStore) Done() <-chan struct{} {
	return s.done
}

// Err reports why the connection ended. It is nil for a clean close.
func (s *RemoteStore) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

func (s *RemoteStore) Close() error {
	s.writeMu.Lock()
	_ = s.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	s.writeMu.Unlock()

	select {
	case <-s.done:
	case <-time.After(writeWait):
	}
	return s.ws.Close()
}

func (s *RemoteStore) send(t protocol.MessageType, payload any) error {
	data, err := protocol.Encode(t, payload)
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_ = s.ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.ws.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("sending %s: %w", t, err)
	}
	return nil
}

func (s *RemoteStore) await(ctx context.Context, want protocol.MessageType) (protocol.Envelope, error) {
	for {
		select {
		case env := <-s.replies:
			if env.Type == want {
				return env, nil
			}
		case <-s.done:
			return protocol.Envelope{}, ErrClosed
		case <-ctx.Done():
			return protocol.Envelope{}, ctx.Err()
		}
	}
}

func (s *RemoteStore) drainReplies() {
	for {
		select {
		case <-s.replies:
		default:
			return
		}
	}
}

func (s *RemoteStore) read() {
	defer close(s.done)

	for {
		_, data, err := s.ws.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) && !errors.Is(err, net.ErrClosed) {
				s.err = err
			}
			return
		}

		env, err := protocol.Decode(data)
		if err != nil {
			slog.Warn("decoding relay message", "error", err)
			continue
		}
		if err := s.dispatch(env); err != nil {
			slog.Warn("handling relay message", "type", env.Type, "error", err)
		}
	}
}

func (s *RemoteStore) dispatch(env protocol.Envelope) error {
	switch env.Type {
	case protocol.TypeRoomCreated:
		var msg protocol.RoomCreated
		if err := env.Unmarshal(&msg); err != nil {
			return err
		}
		snap := s.emptySnapshot()
		if msg.Snapshot != nil {
			snap = *msg.Snapshot
		}
		s.enter(msg.RoomID, rules.PlayerOne, 1, snap)
		s.reply(env)

	case protocol.TypeJoinResult:
		var msg protocol.JoinResult
		if err := env.Unmarshal(&msg); err != nil {
			return err
		}
		if msg.Success {
			snap := s.emptySnapshot()
			if msg.Snapshot != nil {
				snap = *msg.Snapshot
			}
			s.enter(msg.RoomID, msg.PlayerSlot, 0, snap)
		}
		s.reply(env)

	case protocol.TypeGameStateUpdate:
		var msg protocol.GameStateUpdate
		if err := env.Unmarshal(&msg); err != nil {
			return err
		}
		s.mu.Lock()
		if msg.RoomID != s.roomID {
			s.mu.Unlock()
			return nil
		}
		s.snap = msg.State
		s.mu.Unlock()
		s.subs.notify(msg.State)

	case protocol.TypePlayerJoined, protocol.TypePlayerLeft:
		var msg protocol.Presence
		if err := env.Unmarshal(&msg); err != nil {
			return err
		}
		s.mu.Lock()
		if msg.RoomID == s.roomID {
			s.occupants = msg.Occupants
		}
		s.mu.Unlock()

	case protocol.TypeInvalidMove, protocol.TypeError:
		var msg protocol.Rejection
		if err := env.Unmarshal(&msg); err != nil {
			return err
		}
		select {
		case s.rejections <- msg:
		default:
			slog.Warn("dropping relay rejection", "reason", msg.Reason)
		}

	default:
		return fmt.Errorf("unexpected message type %q", env.Type)
	}
	return nil
}

func (s *RemoteStore) enter(roomID string, slot rules.Slot, occupants int, snap game.Snapshot) {
	s.mu.Lock()
	s.roomID, s.slot, s.snap, s.occupants = roomID, slot, snap, occupants
	s.mu.Unlock()
	s.subs.notify(snap)
}

func (s *RemoteStore) reply(env protocol.Envelope) {
	select {
	case s.replies <- env:
	default:
	}
}
