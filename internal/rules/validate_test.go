package rules

import (
	"errors"
	"testing"

	"github.com/pixil98/go-testutil"
)

var (
	dawnA = Cell{X: 5, Y: 22}
	dawnB = Cell{X: 6, Y: 22}
	west  = Cell{X: 3, Y: 12}
	void  = Cell{X: 0, Y: 0}
)

func TestValidatePlacement(t *testing.T) {
	m := DefaultMap()
	fire1 := NewTileID(Fire, PlayerOne, 0)
	water2 := NewTileID(Water, PlayerTwo, 0)
	ice2 := NewTileID(Ice, PlayerTwo, 1)
	unknown2 := NewTileID(Unknown, PlayerTwo, 2)
	unknown1 := NewTileID(Unknown, PlayerOne, 3)

	fireOnDawn := Board{dawnA: {Tile: fire1, Owner: PlayerOne, Element: Fire}}
	resolvedOnDawn := Board{dawnA: {Tile: unknown1, Owner: PlayerOne, Element: Storm}}

	tests := map[string]struct {
		tile      TileID
		cell      Cell
		player    Slot
		index     int
		board     Board
		inventory []TileID
		exp       Verdict
		expErr    error
	}{
		"empty cell concrete tile": {
			tile: fire1, cell: dawnA, player: PlayerOne, board: Board{}, inventory: []TileID{fire1},
		},
		"empty cell unknown tile": {
			tile: unknown1, cell: dawnA, player: PlayerOne, board: Board{}, inventory: []TileID{unknown1},
			exp: Verdict{RequiresElementSelection: true},
		},
		"tile not owned": {
			tile: water2, cell: dawnA, player: PlayerOne, board: Board{}, inventory: []TileID{fire1},
			expErr: ErrNotOwned,
		},
		"off territory": {
			tile: fire1, cell: void, player: PlayerOne, board: Board{}, inventory: []TileID{fire1},
			expErr: ErrOffTerritory,
		},
		"later territory rejected": {
			tile: fire1, cell: west, player: PlayerOne, board: Board{}, inventory: []TileID{fire1},
			expErr: ErrWrongTerritory,
		},
		"earlier territory rejected": {
			tile: fire1, cell: dawnA, player: PlayerOne, index: 1, board: Board{}, inventory: []TileID{fire1},
			expErr: ErrWrongTerritory,
		},
		"own tile": {
			tile: NewTileID(Water, PlayerOne, 4), cell: dawnA, player: PlayerOne, board: fireOnDawn,
			inventory: []TileID{NewTileID(Water, PlayerOne, 4)},
			expErr:    ErrSelfOccupied,
		},
		"water beats fire": {
			tile: water2, cell: dawnA, player: PlayerTwo, board: fireOnDawn, inventory: []TileID{water2},
		},
		"ice does not beat fire": {
			tile: ice2, cell: dawnA, player: PlayerTwo, board: fireOnDawn, inventory: []TileID{ice2},
			expErr: ErrDoesNotBeat,
		},
		"unknown must counter fire with water": {
			tile: unknown2, cell: dawnA, player: PlayerTwo, board: fireOnDawn, inventory: []TileID{unknown2},
			exp: Verdict{RequiresElementSelection: true, RequiredElement: Water},
		},
		"resolved element used for occupant": {
			tile: NewTileID(Wind, PlayerTwo, 5), cell: dawnA, player: PlayerTwo, board: resolvedOnDawn,
			inventory: []TileID{NewTileID(Wind, PlayerTwo, 5)},
		},
		"other cell in territory stays free": {
			tile: ice2, cell: dawnB, player: PlayerTwo, board: fireOnDawn, inventory: []TileID{ice2},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ValidatePlacement(PlacementInput{
				Map:            m,
				Tile:           tt.tile,
				Cell:           tt.cell,
				Player:         tt.player,
				TerritoryIndex: tt.index,
				Board:          tt.board,
				Inventory:      tt.inventory,
			})

			if tt.expErr != nil {
				if !errors.Is(err, tt.expErr) {
					t.Fatalf("error = %v, expected %v", err, tt.expErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "verdict", got, tt.exp)
		})
	}
}

func TestValidatePlacement_WrongTerritoryNamesActive(t *testing.T) {
	fire1 := NewTileID(Fire, PlayerOne, 0)
	_, err := ValidatePlacement(PlacementInput{
		Map: DefaultMap(), Tile: fire1, Cell: west, Player: PlayerOne,
		Board: Board{}, Inventory: []TileID{fire1},
	})

	var ruleErr *RuleError
	if !errors.As(err, &ruleErr) {
		t.Fatalf("expected RuleError, got %v", err)
	}
	testutil.AssertEqual(t, "territory", ruleErr.Territory, 1)
	testutil.AssertEqual(t, "message", err.Error(), "must place on territory 1")
}

func TestCheckSelection(t *testing.T) {
	tests := map[string]struct {
		verdict  Verdict
		selected Element
		exp      Element
		expErr   error
	}{
		"no selection needed": {
			verdict: Verdict{}, selected: Fire, exp: Unknown,
		},
		"free selection": {
			verdict: Verdict{RequiresElementSelection: true}, selected: Ice, exp: Ice,
		},
		"missing selection": {
			verdict: Verdict{RequiresElementSelection: true}, selected: Unknown, expErr: ErrElementRequired,
		},
		"forced selection honoured": {
			verdict: Verdict{RequiresElementSelection: true, RequiredElement: Water}, selected: Water, exp: Water,
		},
		"forced selection violated": {
			verdict: Verdict{RequiresElementSelection: true, RequiredElement: Water}, selected: Fire, expErr: ErrWrongElement,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := CheckSelection(tt.verdict, tt.selected)
			if tt.expErr != nil {
				if !errors.Is(err, tt.expErr) {
					t.Fatalf("error = %v, expected %v", err, tt.expErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "resolved", got, tt.exp)
		})
	}
}

func TestCanPlaceOnCurrentTerritory(t *testing.T) {
	m := DefaultMap()
	dawn, _ := m.TerritoryAt(0)

	// Fill dawn entirely with player one's fire tiles.
	full := Board{}
	for i, c := range dawn.Cells {
		full[c] = Occupant{Tile: NewTileID(Fire, PlayerOne, i), Owner: PlayerOne, Element: Fire}
	}

	tests := map[string]struct {
		player    Slot
		board     Board
		inventory []TileID
		exp       bool
	}{
		"empty cell available": {
			player: PlayerTwo, board: Board{}, inventory: nil, exp: true,
		},
		"full of own tiles": {
			player: PlayerOne, board: full, inventory: []TileID{NewTileID(Water, PlayerOne, 99)}, exp: false,
		},
		"opponent tile beatable": {
			player: PlayerTwo, board: full, inventory: []TileID{NewTileID(Water, PlayerTwo, 0)}, exp: true,
		},
		"opponent tile not beatable": {
			player: PlayerTwo, board: full, inventory: []TileID{NewTileID(Ice, PlayerTwo, 0), NewTileID(Wind, PlayerTwo, 1)}, exp: false,
		},
		"unknown always counts": {
			player: PlayerTwo, board: full, inventory: []TileID{NewTileID(Unknown, PlayerTwo, 0)}, exp: true,
		},
		"empty inventory against full territory": {
			player: PlayerTwo, board: full, inventory: nil, exp: false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := CanPlaceOnCurrentTerritory(m, tt.player, 0, tt.board, tt.inventory)
			testutil.AssertEqual(t, "can place", got, tt.exp)
		})
	}
}
