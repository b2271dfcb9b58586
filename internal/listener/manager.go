package listener

import (
	"context"
	"io"
	"log/slog"

	"github.com/pixil98/go-covenants/internal/player"
)

// SessionRunner serves a connected client until it goes away.
type SessionRunner interface {
	RunSession(ctx context.Context, conn player.Conn) error
}

type ConnectionManager struct {
	pm SessionRunner
}

func NewConnectionManager(pm SessionRunner) *ConnectionManager {
	return &ConnectionManager{
		pm: pm,
	}
}

// AcceptConnection runs a session over a message-framed transport.
func (m *ConnectionManager) AcceptConnection(ctx context.Context, conn player.Conn) {
	if err := m.pm.RunSession(ctx, conn); err != nil {
		slog.WarnContext(ctx, "player session", "error", err)
	}
}

// AcceptStream runs a session over a byte stream carrying one JSON message
// per line.
func (m *ConnectionManager) AcceptStream(ctx context.Context, rw io.ReadWriter) {
	m.AcceptConnection(ctx, newLineConn(rw))
}
