package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/pixil98/go-covenants/internal/protocol"
	"github.com/pixil98/go-covenants/internal/rules"
	"golang.org/x/time/rate"
)

// badRequestError marks a frame that could not be decoded.
type badRequestError struct {
	err error
}

func (e *badRequestError) Error() string {
	return fmt.Sprintf("bad request: %s", e.err)
}

func (e *badRequestError) Unwrap() error {
	return e.err
}

var errRateLimited = &rules.RuleError{Reason: rules.ReasonRateLimited}

// Player is one connected client. Only Play writes to the transport; the
// registry reaches it through the connection's subject.
type Player struct {
	id      string
	conn    Conn
	rooms   Rooms
	pub     Publisher
	limiter *rate.Limiter

	msgs chan []byte
	done chan struct{}
}

// Id returns the connection identifier.
func (p *Player) Id() string {
	return p.id
}

func (p *Player) deliver(data []byte) {
	select {
	case p.msgs <- data:
	case <-p.done:
	}
}

func (p *Player) Play(ctx context.Context) error {
	// Start goroutine to read frames into a channel
	inputChan := make(chan []byte)
	inputErrChan := make(chan error, 1)
	go func() {
		defer close(inputChan)
		for {
			data, err := p.conn.ReadMessage()
			if err != nil {
				inputErrChan <- err
				return
			}
			select {
			case inputChan <- data:
			case <-p.done:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case msg := <-p.msgs:
			if err := p.conn.WriteMessage(msg); err != nil {
				return fmt.Errorf("writing to connection: %w", err)
			}

		case data, ok := <-inputChan:
			if !ok {
				// Input closed (connection lost). A clean close is not an error.
				select {
				case err := <-inputErrChan:
					if isClosed(err) {
						return nil
					}
					return err
				default:
					return nil
				}
			}

			if !p.limiter.Allow() {
				p.reply(ctx, protocol.TypeError, protocol.Reject(errRateLimited))
				continue
			}

			err := p.handle(ctx, data)
			var badReq *badRequestError
			var ruleErr *rules.RuleError
			switch {
			case err == nil:
			case errors.As(err, &badReq):
				p.reply(ctx, protocol.TypeError, protocol.BadRequest(badReq.err))
			case errors.As(err, &ruleErr):
				// Already reported to this connection by the registry.
				slog.DebugContext(ctx, "intent rejected", "conn", p.id, "reason", ruleErr.Reason)
			default:
				return fmt.Errorf("handling message: %w", err)
			}
		}
	}
}

// handle decodes one frame and forwards it to the registry.
func (p *Player) handle(ctx context.Context, data []byte) error {
	env, err := protocol.Decode(data)
	if err != nil {
		return badRequest(err)
	}

	switch env.Type {
	case protocol.TypeCreateRoom:
		_, err := p.rooms.CreateRoom(ctx, p.id)
		return err

	case protocol.TypeJoinRoom:
		var msg protocol.JoinRoom
		if err := decodePayload(env, &msg); err != nil {
			return err
		}
		if msg.RoomID == "" {
			return badRequest(fmt.Errorf("roomId is required"))
		}
		_, err := p.rooms.JoinRoom(ctx, p.id, msg.RoomID)
		return err

	case protocol.TypeGameInitialized:
		var msg protocol.GameInitialized
		if err := decodePayload(env, &msg); err != nil {
			return err
		}
		return p.rooms.InitializeGame(ctx, p.id, msg)

	case protocol.TypePiecePlaced:
		var msg protocol.PiecePlaced
		if err := decodePayload(env, &msg); err != nil {
			return err
		}
		return p.rooms.PlacePiece(ctx, p.id, msg)

	case protocol.TypeTerritoryForfeit:
		var msg protocol.TerritoryForfeit
		if err := decodePayload(env, &msg); err != nil {
			return err
		}
		return p.rooms.ForfeitTerritory(ctx, p.id, msg)

	case protocol.TypeChaosDraw:
		var msg protocol.ChaosDraw
		if err := decodePayload(env, &msg); err != nil {
			return err
		}
		return p.rooms.DrawChaosTile(ctx, p.id, msg)

	case protocol.TypeResetGame:
		var msg protocol.ResetGame
		if err := decodePayload(env, &msg); err != nil {
			return err
		}
		return p.rooms.ResetGame(ctx, p.id, msg)

	case protocol.TypeLeaveRoom:
		var msg protocol.LeaveRoom
		if err := decodePayload(env, &msg); err != nil {
			return err
		}
		return p.rooms.Leave(ctx, p.id, msg.RoomID)

	default:
		return badRequest(fmt.Errorf("unknown message type: %s", env.Type))
	}
}

func decodePayload(env protocol.Envelope, v any) error {
	if err := env.Unmarshal(v); err != nil {
		return badRequest(err)
	}
	return nil
}

func badRequest(err error) error {
	return &badRequestError{err: err}
}

func isClosed(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed)
}

// reply sends a message to this connection's subject so it is ordered
// with everything the registry publishes.
func (p *Player) reply(ctx context.Context, t protocol.MessageType, payload any) {
	data, err := protocol.Encode(t, payload)
	if err != nil {
		slog.ErrorContext(ctx, "encoding reply", "conn", p.id, "error", err)
		return
	}
	if err := p.pub.Publish([]string{p.id}, data); err != nil {
		slog.WarnContext(ctx, "publishing reply", "conn", p.id, "error", err)
	}
}

func (p *Player) disconnect(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := p.rooms.Disconnect(ctx, p.id); err != nil {
		slog.WarnContext(ctx, "removing connection from rooms", "conn", p.id, "error", err)
	}
}
