package game

import (
	"fmt"

	"github.com/pixil98/go-covenants/internal/rules"
)

// CellState is one occupied board cell.
type CellState struct {
	Tile  rules.TileID `json:"pieceId"`
	Owner rules.Slot   `json:"playerNumber"`
	// Element is the tile's intrinsic element.
	Element rules.Element `json:"element"`
	// Resolved is set when an Unknown tile was placed.
	Resolved rules.Element `json:"resolvedElement,omitempty"`
	// Covered holds the tiles this occupant beat, oldest first. They stay on
	// the board for the rest of the session.
	Covered []rules.TileID `json:"covered,omitempty"`
}

// Effective is the element the cell fights with.
func (c CellState) Effective() rules.Element {
	if c.Element == rules.Unknown {
		return c.Resolved
	}
	return c.Element
}

// Marker is the coin placed on a territory handed over by forfeit.
type Marker string

const (
	MarkerNone Marker = ""
	MarkerTree Marker = "tree"
	MarkerEye  Marker = "eye"
)

// MarkerFor returns the coin of the given player.
func MarkerFor(s rules.Slot) Marker {
	switch s {
	case rules.PlayerOne:
		return MarkerTree
	case rules.PlayerTwo:
		return MarkerEye
	default:
		return MarkerNone
	}
}

// Contest records one tile beating another for a cell.
type Contest struct {
	Cell            rules.Cell    `json:"cell"`
	Attacker        rules.TileID  `json:"attacker"`
	Defender        rules.TileID  `json:"defender"`
	AttackerElement rules.Element `json:"attackerElement"`
	DefenderElement rules.Element `json:"defenderElement"`
	Winner          rules.Slot    `json:"winner"`
}

// TerritoryControl is the ownership record of one territory.
type TerritoryControl struct {
	ControlledBy rules.Slot `json:"controlledBy"`
	Contests     []Contest  `json:"contests,omitempty"`
	Marker       Marker     `json:"marker,omitempty"`
	Placements   int        `json:"placements"`
}

// Status is the progress of a session.
type Status struct {
	CurrentTerritoryIndex int             `json:"currentTerritoryIndex"`
	GameEnded             bool            `json:"gameEnded"`
	Winner                rules.Winner    `json:"winner"`
	EndReason             rules.EndReason `json:"endReason,omitempty"`
	Scores                rules.Scores    `json:"scores"`
	ChaosRoundActive      bool            `json:"chaosRoundActive"`
	LeftoverTiles         []rules.TileID  `json:"leftoverTiles"`
}

// Policy is the rule configuration a session plays by. Snapshots carry it
// so a restored session checks moves the same way as its source.
type Policy struct {
	Validation        Validation `json:"validation"`
	TerritoryCapacity int        `json:"territoryCapacity"`
}

// Validation selects how much of the placement rules a session enforces.
type Validation int

const (
	// ValidationFull runs the complete placement validator.
	ValidationFull Validation = iota
	// ValidationTurnOnly trusts the submitting client and checks only turn
	// order and tile ownership.
	ValidationTurnOnly
)

func (v *Validation) UnmarshalText(text []byte) error {
	switch string(text) {
	case "full", "":
		*v = ValidationFull
	case "turn_only":
		*v = ValidationTurnOnly
	default:
		return fmt.Errorf("unknown validation mode: %s", text)
	}
	return nil
}

func (v Validation) MarshalText() ([]byte, error) {
	switch v {
	case ValidationFull:
		return []byte("full"), nil
	case ValidationTurnOnly:
		return []byte("turn_only"), nil
	default:
		return nil, fmt.Errorf("unknown validation mode: %d", int(v))
	}
}
