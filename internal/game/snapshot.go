package game

import (
	"fmt"
	"slices"

	"github.com/pixil98/go-covenants/internal/rules"
)

// Snapshot is the complete canonical state of a session at one instant. It
// is what the relay broadcasts after every mutation, so its size grows with
// board occupancy.
type Snapshot struct {
	Initialized        bool                     `json:"initialized"`
	PlayerOneInventory []rules.TileID           `json:"playerOneInventory"`
	PlayerTwoInventory []rules.TileID           `json:"playerTwoInventory"`
	Board              map[rules.Cell]CellState `json:"boardState"`
	TerritoryControl   map[int]TerritoryControl `json:"territoryControl"`
	CurrentPlayer      rules.Slot               `json:"currentPlayer"`
	Status             Status                   `json:"gameStatus"`
	Rules              Policy                   `json:"rules"`
}

// Snapshot returns a deep copy of the session state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Initialized:        s.initialized,
		PlayerOneInventory: nonNil(s.inventories[rules.PlayerOne]),
		PlayerTwoInventory: nonNil(s.inventories[rules.PlayerTwo]),
		Board:              make(map[rules.Cell]CellState, len(s.board)),
		TerritoryControl:   make(map[int]TerritoryControl, len(s.control)),
		CurrentPlayer:      s.current,
		Status:             s.Status(),
		Rules:              s.Policy(),
	}
	snap.Status.LeftoverTiles = nonNil(snap.Status.LeftoverTiles)

	for c, cs := range s.board {
		cp := *cs
		cp.Covered = slices.Clone(cs.Covered)
		snap.Board[c] = cp
	}
	for id, ctl := range s.control {
		cp := *ctl
		cp.Contests = slices.Clone(ctl.Contests)
		snap.TerritoryControl[id] = cp
	}
	return snap
}

func nonNil(ids []rules.TileID) []rules.TileID {
	if ids == nil {
		return []rules.TileID{}
	}
	return slices.Clone(ids)
}

// Tiles lists every tile id in the snapshot with the container holding it.
// A tile that appears twice is reported as an error.
func (snap Snapshot) Tiles() (map[rules.TileID]string, error) {
	where := map[rules.TileID]string{}
	add := func(id rules.TileID, loc string) error {
		if prev, ok := where[id]; ok {
			return fmt.Errorf("tile %s in both %s and %s", id, prev, loc)
		}
		where[id] = loc
		return nil
	}

	for _, id := range snap.PlayerOneInventory {
		if err := add(id, "player one inventory"); err != nil {
			return nil, err
		}
	}
	for _, id := range snap.PlayerTwoInventory {
		if err := add(id, "player two inventory"); err != nil {
			return nil, err
		}
	}
	for _, id := range snap.Status.LeftoverTiles {
		if err := add(id, "leftover pool"); err != nil {
			return nil, err
		}
	}
	for c, cs := range snap.Board {
		for _, id := range append(slices.Clone(cs.Covered), cs.Tile) {
			if err := add(id, "cell "+c.String()); err != nil {
				return nil, err
			}
		}
	}
	return where, nil
}

// RestoreSession rebuilds a session from a snapshot. The client mirror
// uses it to run the validator against server-pushed state. The snapshot's
// rules override opts; a snapshot without rules keeps them.
func RestoreSession(m *rules.Map, snap Snapshot, opts ...SessionOpt) (*Session, error) {
	s := NewSession(m, opts...)
	if snap.Rules.TerritoryCapacity > 0 {
		s.capacity = snap.Rules.TerritoryCapacity
		s.validation = snap.Rules.Validation
	}
	if !snap.Initialized {
		return s, nil
	}

	tiles, err := snap.Tiles()
	if err != nil {
		return nil, err
	}
	for id := range tiles {
		e, err := id.Element()
		if err != nil {
			return nil, err
		}
		s.dealt[id] = e
	}

	s.initialized = true
	s.inventories[rules.PlayerOne] = slices.Clone(snap.PlayerOneInventory)
	s.inventories[rules.PlayerTwo] = slices.Clone(snap.PlayerTwoInventory)
	s.leftover = slices.Clone(snap.Status.LeftoverTiles)
	for c, cs := range snap.Board {
		cp := cs
		cp.Covered = slices.Clone(cs.Covered)
		s.board[c] = &cp
	}
	for id, ctl := range snap.TerritoryControl {
		cp := ctl
		cp.Contests = slices.Clone(ctl.Contests)
		s.control[id] = &cp
	}
	s.current = snap.CurrentPlayer
	s.status = snap.Status
	s.status.LeftoverTiles = nil
	return s, nil
}
