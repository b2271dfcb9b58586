package rules

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Slot identifies one of the two participants. The zero value means no
// player (an unclaimed territory, a leftover tile).
type Slot int

const (
	NoSlot    Slot = 0
	PlayerOne Slot = 1
	PlayerTwo Slot = 2
)

// Valid reports whether s is slot 1 or 2.
func (s Slot) Valid() bool {
	return s == PlayerOne || s == PlayerTwo
}

// Opponent returns the other slot. NoSlot has no opponent.
func (s Slot) Opponent() Slot {
	switch s {
	case PlayerOne:
		return PlayerTwo
	case PlayerTwo:
		return PlayerOne
	default:
		return NoSlot
	}
}

// Winner is the outcome of a finished game.
type Winner int

const (
	WinnerNone Winner = iota
	WinnerPlayerOne
	WinnerPlayerTwo
	WinnerDraw
)

// WinnerFor converts a slot to the matching Winner.
func WinnerFor(s Slot) Winner {
	switch s {
	case PlayerOne:
		return WinnerPlayerOne
	case PlayerTwo:
		return WinnerPlayerTwo
	default:
		return WinnerNone
	}
}

func (w Winner) String() string {
	switch w {
	case WinnerPlayerOne:
		return "1"
	case WinnerPlayerTwo:
		return "2"
	case WinnerDraw:
		return "draw"
	default:
		return "none"
	}
}

func (w Winner) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

func (w *Winner) UnmarshalText(text []byte) error {
	switch string(text) {
	case "none", "":
		*w = WinnerNone
	case "1":
		*w = WinnerPlayerOne
	case "2":
		*w = WinnerPlayerTwo
	case "draw":
		*w = WinnerDraw
	default:
		return fmt.Errorf("unknown winner: %s", text)
	}
	return nil
}

// Cell is a board coordinate.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Cell) String() string {
	return fmt.Sprintf("%d,%d", c.X, c.Y)
}

// cellJSON is the object form of a Cell outside map keys.
type cellJSON struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Cell) MarshalJSON() ([]byte, error) {
	return json.Marshal(cellJSON(c))
}

func (c *Cell) UnmarshalJSON(b []byte) error {
	var v cellJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("invalid cell: %w", err)
	}
	*c = Cell(v)
	return nil
}

// MarshalText lets Cell key a JSON object as "x,y".
func (c Cell) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Cell) UnmarshalText(text []byte) error {
	xs, ys, ok := strings.Cut(string(text), ",")
	if !ok {
		return fmt.Errorf("invalid cell %q", text)
	}
	x, err := strconv.Atoi(xs)
	if err != nil {
		return fmt.Errorf("invalid cell x %q: %w", xs, err)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return fmt.Errorf("invalid cell y %q: %w", ys, err)
	}
	c.X, c.Y = x, y
	return nil
}
