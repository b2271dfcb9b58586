package messaging

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

// ConnSubject is the subject carrying every message addressed to one
// connection.
func ConnSubject(connID string) string {
	return fmt.Sprintf("conn.%s", connID)
}

// NatsPublisher publishes messages to individual connection NATS subjects.
type NatsPublisher struct {
	server *NatsServer
}

// NewNatsPublisher wraps a NatsServer for per-connection message delivery.
func NewNatsPublisher(server *NatsServer) *NatsPublisher {
	return &NatsPublisher{server: server}
}

// Publish delivers data to each target connection. A failed target does not
// stop delivery to the others.
func (p *NatsPublisher) Publish(targets []string, data []byte) error {
	el := errors.NewErrorList()
	for _, id := range targets {
		if err := p.server.Publish(ConnSubject(id), data); err != nil {
			el.Add(fmt.Errorf("publishing to %s: %w", id, err))
		}
	}
	return el.Err()
}
