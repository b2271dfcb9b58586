package player

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/pixil98/go-covenants/internal/messaging"
	"github.com/pixil98/go-covenants/internal/protocol"
	"github.com/pixil98/go-covenants/internal/rules"
	"golang.org/x/time/rate"
)

// Conn is a message-framed client transport.
type Conn interface {
	ReadMessage() ([]byte, error)
	WriteMessage(data []byte) error
}

// Rooms is the part of the room registry a session drives.
type Rooms interface {
	CreateRoom(ctx context.Context, connID string) (string, error)
	JoinRoom(ctx context.Context, connID string, roomID string) (rules.Slot, error)
	InitializeGame(ctx context.Context, connID string, msg protocol.GameInitialized) error
	PlacePiece(ctx context.Context, connID string, msg protocol.PiecePlaced) error
	ForfeitTerritory(ctx context.Context, connID string, msg protocol.TerritoryForfeit) error
	DrawChaosTile(ctx context.Context, connID string, msg protocol.ChaosDraw) error
	ResetGame(ctx context.Context, connID string, msg protocol.ResetGame) error
	Leave(ctx context.Context, connID string, roomID string) error
	Disconnect(ctx context.Context, connID string) error
}

// Subscriber receives the messages addressed to a connection.
type Subscriber interface {
	Subscribe(subject string, handler func(data []byte)) (func(), error)
}

// Publisher delivers messages to connections by id.
type Publisher interface {
	Publish(targets []string, data []byte) error
}

type PlayerManager struct {
	rooms Rooms
	sub   Subscriber
	pub   Publisher

	limit rate.Limit
	burst int

	active atomic.Int64
}

func NewPlayerManager(rooms Rooms, sub Subscriber, pub Publisher, opts ...PlayerManagerOpt) *PlayerManager {
	pm := &PlayerManager{
		rooms: rooms,
		sub:   sub,
		pub:   pub,
		limit: rate.Inf,
		burst: 1,
	}

	for _, opt := range opts {
		opt(pm)
	}

	return pm
}

func (m *PlayerManager) Start(ctx context.Context) error {
	<-ctx.Done()

	// Listeners cancel their own connections on shutdown.
	slog.InfoContext(ctx, "player manager stopped", "active", m.active.Load())
	return nil
}

// Active is the number of running sessions.
func (m *PlayerManager) Active() int {
	return int(m.active.Load())
}

// Tick logs the number of running sessions.
func (m *PlayerManager) Tick(ctx context.Context) error {
	slog.InfoContext(ctx, "player stats", "active", m.Active())
	return nil
}

// RunSession serves one connection until it closes or ctx is canceled. The
// connection is removed from its room on the way out.
func (m *PlayerManager) RunSession(ctx context.Context, conn Conn) error {
	p := &Player{
		id:      uuid.NewString(),
		conn:    conn,
		rooms:   m.rooms,
		pub:     m.pub,
		limiter: rate.NewLimiter(m.limit, m.burst),
		msgs:    make(chan []byte, 64),
		done:    make(chan struct{}),
	}

	unsub, err := m.sub.Subscribe(messaging.ConnSubject(p.id), p.deliver)
	if err != nil {
		return fmt.Errorf("subscribing connection %s: %w", p.id, err)
	}

	m.active.Add(1)
	slog.InfoContext(ctx, "session started", "conn", p.id)
	defer func() {
		close(p.done)
		unsub()
		p.disconnect(ctx)
		m.active.Add(-1)
		slog.InfoContext(ctx, "session ended", "conn", p.id)
	}()

	return p.Play(ctx)
}
