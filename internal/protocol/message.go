package protocol

import (
	"encoding/json"
	"fmt"
)

// MessageType names a message on the wire.
type MessageType string

// Client to server.
const (
	TypeCreateRoom       MessageType = "create-room"
	TypeJoinRoom         MessageType = "join-room"
	TypeGameInitialized  MessageType = "game-initialized"
	TypePiecePlaced      MessageType = "piece-placed"
	TypeTerritoryForfeit MessageType = "territory-forfeit"
	TypeChaosDraw        MessageType = "chaos-draw"
	TypeResetGame        MessageType = "reset-game"
	TypeLeaveRoom        MessageType = "leave-room"
)

// Server to client.
const (
	TypeRoomCreated     MessageType = "room-created"
	TypeJoinResult      MessageType = "join-result"
	TypeGameStateUpdate MessageType = "game-state-update"
	TypePlayerJoined    MessageType = "player-joined"
	TypePlayerLeft      MessageType = "player-left"
	TypeInvalidMove     MessageType = "invalid-move"
	TypeError           MessageType = "error"
)

// Envelope is the frame every message travels in.
type Envelope struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Encode wraps payload in an envelope of the given type. A nil payload
// produces an envelope without one.
func Encode(t MessageType, payload any) ([]byte, error) {
	env := Envelope{Type: t}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshalling %s payload: %w", t, err)
		}
		env.Payload = raw
	}
	return json.Marshal(env)
}

// Decode parses a frame into its envelope.
func Decode(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("unmarshalling envelope: %w", err)
	}
	if env.Type == "" {
		return Envelope{}, fmt.Errorf("message type is required")
	}
	return env, nil
}

// Unmarshal decodes the envelope payload into v. A missing payload leaves v
// untouched.
func (e Envelope) Unmarshal(v any) error {
	if len(e.Payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("unmarshalling %s payload: %w", e.Type, err)
	}
	return nil
}
