package protocol

import (
	"github.com/pixil98/go-covenants/internal/game"
	"github.com/pixil98/go-covenants/internal/rules"
)

// RoomCreated answers create-room with the new room's empty state, which
// carries the rules the relay plays by.
type RoomCreated struct {
	RoomID   string         `json:"roomId"`
	Snapshot *game.Snapshot `json:"snapshot,omitempty"`
}

type JoinRoom struct {
	RoomID string `json:"roomId"`
}

// JoinResult answers a join-room request. On failure only Error and Reason
// are set.
type JoinResult struct {
	Success    bool           `json:"success"`
	RoomID     string         `json:"roomId,omitempty"`
	PlayerSlot rules.Slot     `json:"playerSlot,omitempty"`
	Snapshot   *game.Snapshot `json:"snapshot,omitempty"`
	Reason     rules.Reason   `json:"reason,omitempty"`
	Error      string         `json:"error,omitempty"`
}

type GameInitialized struct {
	RoomID string `json:"roomId"`
	rules.Deal
}

type PiecePlaced struct {
	RoomID          string        `json:"roomId"`
	TileID          rules.TileID  `json:"pieceId"`
	Position        rules.Cell    `json:"position"`
	PlayerSlot      rules.Slot    `json:"playerNumber"`
	ResolvedElement rules.Element `json:"resolvedElement,omitempty"`
}

type TerritoryForfeit struct {
	RoomID      string     `json:"roomId"`
	TerritoryID int        `json:"territoryId"`
	PlayerSlot  rules.Slot `json:"playerNumber"`
}

// ChaosDraw requests a tile from the leftover pool. An empty TileID lets the
// relay pick one at random.
type ChaosDraw struct {
	RoomID     string       `json:"roomId"`
	PlayerSlot rules.Slot   `json:"playerNumber"`
	TileID     rules.TileID `json:"pieceId,omitempty"`
}

// ResetGame returns the room to its undealt state.
type ResetGame struct {
	RoomID string `json:"roomId"`
}

type LeaveRoom struct {
	RoomID string `json:"roomId"`
}

type GameStateUpdate struct {
	RoomID string        `json:"roomId"`
	State  game.Snapshot `json:"gameState"`
}

// Presence announces a change in room occupancy.
type Presence struct {
	RoomID       string     `json:"roomId"`
	PlayerSlot   rules.Slot `json:"playerSlot"`
	ConnectionID string     `json:"connectionId"`
	Occupants    int        `json:"occupants"`
}

// Rejection is the payload of invalid-move and error messages.
type Rejection struct {
	Reason  rules.Reason `json:"reason"`
	Message string       `json:"message"`
}
