package game

import (
	"errors"
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/pixil98/go-covenants/internal/rules"
	"github.com/pixil98/go-testutil"
)

// smallMap is a board of seven two-cell territories laid out on row 0:
// territory n owns cells (2n-2, 0) and (2n-1, 0).
func smallMap(t *testing.T) *rules.Map {
	t.Helper()
	l := &rules.Layout{Name: "small"}
	for id := 1; id <= rules.TerritoryCount; id++ {
		l.Territories = append(l.Territories, rules.Territory{
			ID:         id,
			Name:       "t",
			PointValue: rules.PointValue(id),
			Cells:      []rules.Cell{{X: 2*id - 2, Y: 0}, {X: 2*id - 1, Y: 0}},
		})
	}
	m, err := rules.NewMap(l)
	if err != nil {
		t.Fatalf("building map: %v", err)
	}
	return m
}

func cellOf(territory, n int) rules.Cell {
	return rules.Cell{X: 2*territory - 2 + n, Y: 0}
}

func tid(e rules.Element, owner rules.Slot, n int) rules.TileID {
	return rules.NewTileID(e, owner, n)
}

func newDealtSession(t *testing.T, d rules.Deal, opts ...SessionOpt) *Session {
	t.Helper()
	s := NewSession(smallMap(t), opts...)
	if err := s.InitializeGame(d); err != nil {
		t.Fatalf("initializing: %v", err)
	}
	return s
}

func mustPlace(t *testing.T, s *Session, pl Placement) {
	t.Helper()
	if err := s.PlacePiece(pl); err != nil {
		t.Fatalf("placing %s on %s: %v", pl.Tile, pl.Cell, err)
	}
}

func standardDeal() rules.Deal {
	return rules.Deal{
		PlayerOne: []rules.TileID{tid(rules.Fire, 1, 0), tid(rules.Ice, 1, 1), tid(rules.Unknown, 1, 2), tid(rules.Wind, 1, 3)},
		PlayerTwo: []rules.TileID{tid(rules.Water, 2, 0), tid(rules.Ice, 2, 1), tid(rules.Unknown, 2, 2), tid(rules.Storm, 2, 3)},
		Leftover:  []rules.TileID{tid(rules.Fire, 0, 0), tid(rules.Storm, 0, 1)},
	}
}

func TestSession_PlaceOnEmptyCell(t *testing.T) {
	s := newDealtSession(t, standardDeal())
	fire := tid(rules.Fire, 1, 0)

	v, err := s.ValidatePlacement(rules.PlayerOne, fire, cellOf(1, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "selection", v.RequiresElementSelection, false)

	mustPlace(t, s, Placement{Player: rules.PlayerOne, Tile: fire, Cell: cellOf(1, 0)})

	snap := s.Snapshot()
	testutil.AssertEqual(t, "inventory size", len(snap.PlayerOneInventory), 3)
	testutil.AssertEqual(t, "board tile", snap.Board[cellOf(1, 0)].Tile, fire)
	testutil.AssertEqual(t, "board owner", snap.Board[cellOf(1, 0)].Owner, rules.PlayerOne)
	testutil.AssertEqual(t, "turn passes", snap.CurrentPlayer, rules.PlayerTwo)
	testutil.AssertEqual(t, "territory claimed", snap.TerritoryControl[1].ControlledBy, rules.PlayerOne)
	testutil.AssertEqual(t, "index holds", snap.Status.CurrentTerritoryIndex, 0)
	testutil.AssertEqual(t, "score", snap.Status.Scores.PlayerOne, 1)
}

func TestSession_ContestTransfersControl(t *testing.T) {
	s := newDealtSession(t, standardDeal())
	fire := tid(rules.Fire, 1, 0)
	water := tid(rules.Water, 2, 0)

	mustPlace(t, s, Placement{Player: rules.PlayerOne, Tile: fire, Cell: cellOf(1, 0)})
	mustPlace(t, s, Placement{Player: rules.PlayerTwo, Tile: water, Cell: cellOf(1, 0)})

	snap := s.Snapshot()
	cell := snap.Board[cellOf(1, 0)]
	testutil.AssertEqual(t, "occupant", cell.Tile, water)
	testutil.AssertEqual(t, "covered", len(cell.Covered), 1)
	testutil.AssertEqual(t, "covered tile", cell.Covered[0], fire)

	ctl := snap.TerritoryControl[1]
	testutil.AssertEqual(t, "controller", ctl.ControlledBy, rules.PlayerTwo)
	testutil.AssertEqual(t, "contests", len(ctl.Contests), 1)
	testutil.AssertEqual(t, "contest winner", ctl.Contests[0].Winner, rules.PlayerTwo)
	testutil.AssertEqual(t, "defender element", ctl.Contests[0].DefenderElement, rules.Fire)
	testutil.AssertEqual(t, "index advances", snap.Status.CurrentTerritoryIndex, 1)
	testutil.AssertEqual(t, "turn", snap.CurrentPlayer, rules.PlayerOne)
}

func TestSession_LastPlacerControls(t *testing.T) {
	s := newDealtSession(t, standardDeal(), WithTerritoryCapacity(3))

	mustPlace(t, s, Placement{Player: rules.PlayerOne, Tile: tid(rules.Fire, 1, 0), Cell: cellOf(1, 0)})
	testutil.AssertEqual(t, "after opening", s.Snapshot().TerritoryControl[1].ControlledBy, rules.PlayerOne)

	mustPlace(t, s, Placement{Player: rules.PlayerTwo, Tile: tid(rules.Ice, 2, 1), Cell: cellOf(1, 1)})
	ctl := s.Snapshot().TerritoryControl[1]
	testutil.AssertEqual(t, "after answer", ctl.ControlledBy, rules.PlayerTwo)
	testutil.AssertEqual(t, "no contest", len(ctl.Contests), 0)

	// Fire beats ice and takes the territory back.
	mustPlace(t, s, Placement{Player: rules.PlayerOne, Tile: tid(rules.Unknown, 1, 2), Cell: cellOf(1, 1), Element: rules.Fire})
	ctl = s.Snapshot().TerritoryControl[1]
	testutil.AssertEqual(t, "after contest", ctl.ControlledBy, rules.PlayerOne)
	testutil.AssertEqual(t, "contests", len(ctl.Contests), 1)
	testutil.AssertEqual(t, "index", s.Status().CurrentTerritoryIndex, 1)
}

func TestSession_DuskEndsOnFirstPlacement(t *testing.T) {
	var d rules.Deal
	for n := 0; n < rules.TerritoryCount; n++ {
		d.PlayerOne = append(d.PlayerOne, tid(rules.Fire, 1, n))
		d.PlayerTwo = append(d.PlayerTwo, tid(rules.Fire, 2, n))
	}
	s := newDealtSession(t, d)

	placements := 0
	for !s.Status().GameEnded {
		p := s.CurrentPlayer()
		active, _ := s.Map().TerritoryAt(s.Status().CurrentTerritoryIndex)
		cell := active.Cells[0]
		if p == rules.PlayerTwo {
			cell = active.Cells[1]
		}
		mustPlace(t, s, Placement{Player: p, Tile: s.Inventory(p)[0], Cell: cell})
		placements++
	}

	// Player two answers territories one to six; player one opens dusk and
	// claiming it completes the map.
	snap := s.Snapshot()
	testutil.AssertEqual(t, "placements", placements, 13)
	testutil.AssertEqual(t, "reason", snap.Status.EndReason, rules.EndAllTerritoriesClaimed)
	testutil.AssertEqual(t, "player one", snap.Status.Scores.PlayerOne, 3)
	testutil.AssertEqual(t, "player two", snap.Status.Scores.PlayerTwo, 7)
	testutil.AssertEqual(t, "winner", snap.Status.Winner, rules.WinnerPlayerTwo)
	testutil.AssertEqual(t, "dusk placements", snap.TerritoryControl[rules.TerritoryCount].Placements, 1)
	testutil.AssertEqual(t, "unplayed", len(snap.PlayerTwoInventory), 1)
}

func TestSession_RejectionLeavesStateUnchanged(t *testing.T) {
	s := newDealtSession(t, standardDeal())
	mustPlace(t, s, Placement{Player: rules.PlayerOne, Tile: tid(rules.Fire, 1, 0), Cell: cellOf(1, 0)})

	tests := map[string]struct {
		pl     Placement
		expErr error
	}{
		"does not beat": {
			pl:     Placement{Player: rules.PlayerTwo, Tile: tid(rules.Ice, 2, 1), Cell: cellOf(1, 0)},
			expErr: rules.ErrDoesNotBeat,
		},
		"not your turn": {
			pl:     Placement{Player: rules.PlayerOne, Tile: tid(rules.Ice, 1, 1), Cell: cellOf(1, 1)},
			expErr: rules.ErrNotYourTurn,
		},
		"not owned": {
			pl:     Placement{Player: rules.PlayerTwo, Tile: tid(rules.Ice, 1, 1), Cell: cellOf(1, 1)},
			expErr: rules.ErrNotOwned,
		},
		"off territory": {
			pl:     Placement{Player: rules.PlayerTwo, Tile: tid(rules.Ice, 2, 1), Cell: rules.Cell{X: 40, Y: 40}},
			expErr: rules.ErrOffTerritory,
		},
		"wrong territory": {
			pl:     Placement{Player: rules.PlayerTwo, Tile: tid(rules.Ice, 2, 1), Cell: cellOf(2, 0)},
			expErr: rules.ErrWrongTerritory,
		},
		"unknown without element": {
			pl:     Placement{Player: rules.PlayerTwo, Tile: tid(rules.Unknown, 2, 2), Cell: cellOf(1, 0)},
			expErr: rules.ErrElementRequired,
		},
		"unknown with wrong element": {
			pl:     Placement{Player: rules.PlayerTwo, Tile: tid(rules.Unknown, 2, 2), Cell: cellOf(1, 0), Element: rules.Storm},
			expErr: rules.ErrWrongElement,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			before := s.Snapshot()
			err := s.PlacePiece(tt.pl)
			if !errors.Is(err, tt.expErr) {
				t.Fatalf("error = %v, expected %v", err, tt.expErr)
			}
			if !reflect.DeepEqual(before, s.Snapshot()) {
				t.Errorf("state changed after rejected placement")
			}
		})
	}
}

func TestSession_UnknownMustResolveToCounter(t *testing.T) {
	s := newDealtSession(t, standardDeal())
	unknown := tid(rules.Unknown, 2, 2)
	mustPlace(t, s, Placement{Player: rules.PlayerOne, Tile: tid(rules.Fire, 1, 0), Cell: cellOf(1, 0)})

	v, err := s.ValidatePlacement(rules.PlayerTwo, unknown, cellOf(1, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "selection", v.RequiresElementSelection, true)
	testutil.AssertEqual(t, "required", v.RequiredElement, rules.Water)

	mustPlace(t, s, Placement{Player: rules.PlayerTwo, Tile: unknown, Cell: cellOf(1, 0), Element: rules.Water})

	cell := s.Snapshot().Board[cellOf(1, 0)]
	testutil.AssertEqual(t, "intrinsic", cell.Element, rules.Unknown)
	testutil.AssertEqual(t, "resolved", cell.Resolved, rules.Water)

	// Player one now has to beat water, not unknown.
	_, err = s.ValidatePlacement(rules.PlayerOne, tid(rules.Wind, 1, 3), cellOf(2, 0))
	if err != nil {
		t.Fatalf("unexpected error on next territory: %v", err)
	}
}

func TestSession_TurnOnlyValidation(t *testing.T) {
	s := newDealtSession(t, standardDeal(), WithValidation(ValidationTurnOnly))
	mustPlace(t, s, Placement{Player: rules.PlayerOne, Tile: tid(rules.Fire, 1, 0), Cell: cellOf(1, 0)})

	// Ice does not beat fire, but the relay trusts the client.
	mustPlace(t, s, Placement{Player: rules.PlayerTwo, Tile: tid(rules.Ice, 2, 1), Cell: cellOf(1, 0)})

	err := s.PlacePiece(Placement{Player: rules.PlayerTwo, Tile: tid(rules.Storm, 2, 3), Cell: cellOf(2, 0)})
	if !errors.Is(err, rules.ErrNotYourTurn) {
		t.Fatalf("error = %v, expected not your turn", err)
	}
	err = s.PlacePiece(Placement{Player: rules.PlayerOne, Tile: tid(rules.Storm, 2, 3), Cell: cellOf(2, 0)})
	if !errors.Is(err, rules.ErrNotOwned) {
		t.Fatalf("error = %v, expected not owned", err)
	}
}

func TestSession_Forfeit(t *testing.T) {
	d := rules.Deal{
		PlayerOne: []rules.TileID{tid(rules.Fire, 1, 0), tid(rules.Wind, 1, 1), tid(rules.Ice, 1, 2)},
		PlayerTwo: []rules.TileID{tid(rules.Ice, 2, 0), tid(rules.Storm, 2, 1)},
	}
	s := newDealtSession(t, d, WithTerritoryCapacity(3))

	err := s.ForfeitTerritory(rules.PlayerOne, 1)
	if !errors.Is(err, rules.ErrForfeitNotAllowed) {
		t.Fatalf("error = %v, expected forfeit not allowed", err)
	}

	mustPlace(t, s, Placement{Player: rules.PlayerOne, Tile: tid(rules.Fire, 1, 0), Cell: cellOf(1, 0)})
	mustPlace(t, s, Placement{Player: rules.PlayerTwo, Tile: tid(rules.Ice, 2, 0), Cell: cellOf(1, 1)})

	// Player one holds wind and ice; neither beats player two's ice and the
	// territory is full.
	testutil.AssertEqual(t, "can place", s.CanPlaceOnCurrentTerritory(rules.PlayerOne), false)

	for _, id := range []int{0, 2, rules.TerritoryCount + 1} {
		err = s.ForfeitTerritory(rules.PlayerOne, id)
		if !errors.Is(err, rules.ErrWrongTerritory) {
			t.Fatalf("territory %d: error = %v, expected wrong territory", id, err)
		}
	}

	if err := s.ForfeitTerritory(rules.PlayerOne, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := s.Snapshot()
	testutil.AssertEqual(t, "controller", snap.TerritoryControl[1].ControlledBy, rules.PlayerTwo)
	testutil.AssertEqual(t, "marker", snap.TerritoryControl[1].Marker, MarkerEye)
	testutil.AssertEqual(t, "index", snap.Status.CurrentTerritoryIndex, 1)
	testutil.AssertEqual(t, "turn", snap.CurrentPlayer, rules.PlayerTwo)
}

func TestSession_ForfeitCapsIndex(t *testing.T) {
	d := rules.Deal{
		PlayerOne: []rules.TileID{tid(rules.Fire, 1, 0)},
		PlayerTwo: []rules.TileID{tid(rules.Ice, 2, 0)},
	}
	s := newDealtSession(t, d, WithValidation(ValidationTurnOnly))

	p := rules.PlayerOne
	for id := 1; id <= rules.TerritoryCount; id++ {
		if err := s.ForfeitTerritory(p, id); err != nil {
			t.Fatalf("forfeit %d: %v", id, err)
		}
		p = p.Opponent()
	}

	st := s.Status()
	testutil.AssertEqual(t, "index capped", st.CurrentTerritoryIndex, rules.LastTerritoryIndex)
	testutil.AssertEqual(t, "ended", st.GameEnded, true)
	testutil.AssertEqual(t, "reason", st.EndReason, rules.EndAllTerritoriesClaimed)
	// Player two received territories 1, 3, 5 and 7.
	testutil.AssertEqual(t, "winner", st.Winner, rules.WinnerPlayerTwo)
}

func TestSession_ChaosDraw(t *testing.T) {
	d := rules.Deal{
		PlayerOne: []rules.TileID{tid(rules.Fire, 1, 0)},
		PlayerTwo: []rules.TileID{tid(rules.Ice, 2, 0), tid(rules.Wind, 2, 1)},
		Leftover:  []rules.TileID{tid(rules.Storm, 0, 0), tid(rules.Water, 0, 1), tid(rules.Ice, 0, 2)},
	}
	s := newDealtSession(t, d, WithRand(rand.New(rand.NewPCG(7, 11))))

	_, err := s.DrawChaosTile(rules.PlayerOne, "")
	if !errors.Is(err, rules.ErrChaosNotAllowed) {
		t.Fatalf("error = %v, expected chaos not allowed", err)
	}

	mustPlace(t, s, Placement{Player: rules.PlayerOne, Tile: tid(rules.Fire, 1, 0), Cell: cellOf(1, 0)})
	mustPlace(t, s, Placement{Player: rules.PlayerTwo, Tile: tid(rules.Ice, 2, 0), Cell: cellOf(1, 1)})

	_, err = s.DrawChaosTile(rules.PlayerOne, tid(rules.Fire, 0, 9))
	if !errors.Is(err, rules.ErrNotInPool) {
		t.Fatalf("error = %v, expected not in pool", err)
	}

	drawn, err := s.DrawChaosTile(rules.PlayerOne, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := s.Snapshot()
	testutil.AssertEqual(t, "inventory", len(snap.PlayerOneInventory), 1)
	testutil.AssertEqual(t, "drawn tile held", snap.PlayerOneInventory[0], drawn)
	testutil.AssertEqual(t, "pool shrinks", len(snap.Status.LeftoverTiles), 2)
	testutil.AssertEqual(t, "chaos active", snap.Status.ChaosRoundActive, true)
	testutil.AssertEqual(t, "drawer keeps turn", snap.CurrentPlayer, rules.PlayerOne)

	_, err = s.DrawChaosTile(rules.PlayerOne, "")
	if !errors.Is(err, rules.ErrChaosNotAllowed) {
		t.Fatalf("error = %v, expected chaos not allowed with a tile in hand", err)
	}
}

func TestSession_ChaosDrawIsUniform(t *testing.T) {
	pool := []rules.TileID{tid(rules.Storm, 0, 0), tid(rules.Water, 0, 1), tid(rules.Ice, 0, 2), tid(rules.Wind, 0, 3)}
	counts := map[rules.TileID]int{}
	rng := rand.New(rand.NewPCG(3, 5))

	const draws = 4000
	for i := 0; i < draws; i++ {
		s := newDealtSession(t, rules.Deal{PlayerTwo: []rules.TileID{tid(rules.Ice, 2, 0)}, Leftover: pool}, WithRand(rng))
		drawn, err := s.DrawChaosTile(rules.PlayerOne, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		counts[drawn]++
	}

	for _, id := range pool {
		if c := counts[id]; c < draws/len(pool)*8/10 || c > draws/len(pool)*12/10 {
			t.Errorf("tile %s drawn %d times out of %d", id, c, draws)
		}
	}
}

func TestSession_GameEnd(t *testing.T) {
	t.Run("both out of tiles", func(t *testing.T) {
		d := rules.Deal{
			PlayerOne: []rules.TileID{tid(rules.Fire, 1, 0)},
			PlayerTwo: []rules.TileID{tid(rules.Ice, 2, 0)},
		}
		s := newDealtSession(t, d)
		mustPlace(t, s, Placement{Player: rules.PlayerOne, Tile: tid(rules.Fire, 1, 0), Cell: cellOf(1, 0)})
		mustPlace(t, s, Placement{Player: rules.PlayerTwo, Tile: tid(rules.Ice, 2, 0), Cell: cellOf(1, 1)})

		st := s.Status()
		testutil.AssertEqual(t, "ended", st.GameEnded, true)
		testutil.AssertEqual(t, "reason", st.EndReason, rules.EndBothOutOfTiles)
		testutil.AssertEqual(t, "winner", st.Winner, rules.WinnerPlayerTwo)
	})

	t.Run("empty deal is a draw", func(t *testing.T) {
		s := newDealtSession(t, rules.Deal{})
		res := s.CheckGameEnd()
		testutil.AssertEqual(t, "ended", res.Ended, true)
		testutil.AssertEqual(t, "winner", res.Winner, rules.WinnerDraw)
		testutil.AssertEqual(t, "status winner", s.Status().Winner, rules.WinnerDraw)
	})

	t.Run("mover without tiles loses", func(t *testing.T) {
		d := rules.Deal{
			PlayerOne: []rules.TileID{tid(rules.Fire, 1, 0)},
			PlayerTwo: []rules.TileID{tid(rules.Ice, 2, 0), tid(rules.Wind, 2, 1)},
		}
		s := newDealtSession(t, d)
		mustPlace(t, s, Placement{Player: rules.PlayerOne, Tile: tid(rules.Fire, 1, 0), Cell: cellOf(1, 0)})
		mustPlace(t, s, Placement{Player: rules.PlayerTwo, Tile: tid(rules.Ice, 2, 0), Cell: cellOf(1, 1)})

		st := s.Status()
		testutil.AssertEqual(t, "ended", st.GameEnded, true)
		testutil.AssertEqual(t, "reason", st.EndReason, rules.EndNoMoves)
		testutil.AssertEqual(t, "winner", st.Winner, rules.WinnerPlayerTwo)

		err := s.PlacePiece(Placement{Player: rules.PlayerOne, Tile: tid(rules.Wind, 2, 1), Cell: cellOf(2, 0)})
		if !errors.Is(err, rules.ErrGameOver) {
			t.Fatalf("error = %v, expected game over", err)
		}
	})
}

func TestSession_InitializeGame(t *testing.T) {
	tests := map[string]struct {
		deal   rules.Deal
		expErr error
	}{
		"duplicate across hands": {
			deal:   rules.Deal{PlayerOne: []rules.TileID{"fire-p1-0"}, Leftover: []rules.TileID{"fire-p1-0"}},
			expErr: rules.ErrDuplicateTile,
		},
		"malformed id": {
			deal:   rules.Deal{PlayerOne: []rules.TileID{"tree_coin-p1-0"}},
			expErr: rules.ErrMalformedTile,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s := NewSession(smallMap(t))
			err := s.InitializeGame(tt.deal)
			if !errors.Is(err, tt.expErr) {
				t.Fatalf("error = %v, expected %v", err, tt.expErr)
			}
			testutil.AssertEqual(t, "initialized", s.Initialized(), false)
		})
	}
}

func TestSession_Reset(t *testing.T) {
	s := newDealtSession(t, standardDeal())
	mustPlace(t, s, Placement{Player: rules.PlayerOne, Tile: tid(rules.Fire, 1, 0), Cell: cellOf(1, 0)})

	s.Reset()

	testutil.AssertEqual(t, "initialized", s.Initialized(), false)
	testutil.AssertEqual(t, "board", len(s.Snapshot().Board), 0)
	err := s.PlacePiece(Placement{Player: rules.PlayerOne, Tile: tid(rules.Ice, 1, 1), Cell: cellOf(1, 0)})
	if !errors.Is(err, rules.ErrNotInitialized) {
		t.Fatalf("error = %v, expected not initialized", err)
	}
}

func TestRestoreSession_RoundTrip(t *testing.T) {
	s := newDealtSession(t, standardDeal())
	mustPlace(t, s, Placement{Player: rules.PlayerOne, Tile: tid(rules.Fire, 1, 0), Cell: cellOf(1, 0)})
	mustPlace(t, s, Placement{Player: rules.PlayerTwo, Tile: tid(rules.Unknown, 2, 2), Cell: cellOf(1, 0), Element: rules.Water})

	snap := s.Snapshot()
	restored, err := RestoreSession(smallMap(t), snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(snap, restored.Snapshot()) {
		t.Errorf("restored snapshot differs:\n got %+v\nwant %+v", restored.Snapshot(), snap)
	}

	mustPlace(t, restored, Placement{Player: rules.PlayerOne, Tile: tid(rules.Ice, 1, 1), Cell: cellOf(2, 0)})
}

func TestRestoreSession_Rules(t *testing.T) {
	tests := map[string]struct {
		source      []SessionOpt
		restoreOpts []SessionOpt
		exp         Policy
	}{
		"defaults": {
			exp: Policy{Validation: ValidationFull, TerritoryCapacity: DefaultTerritoryCapacity},
		},
		"source rules win over local options": {
			source:      []SessionOpt{WithValidation(ValidationTurnOnly), WithTerritoryCapacity(3)},
			restoreOpts: []SessionOpt{WithTerritoryCapacity(5)},
			exp:         Policy{Validation: ValidationTurnOnly, TerritoryCapacity: 3},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			src := NewSession(smallMap(t), tt.source...)
			restored, err := RestoreSession(smallMap(t), src.Snapshot(), tt.restoreOpts...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "policy", restored.Policy(), tt.exp)
		})
	}

	t.Run("snapshot without rules keeps options", func(t *testing.T) {
		restored, err := RestoreSession(smallMap(t), Snapshot{}, WithValidation(ValidationTurnOnly))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		testutil.AssertEqual(t, "validation", restored.Policy().Validation, ValidationTurnOnly)
	})

	t.Run("turn only forfeit after restore", func(t *testing.T) {
		src := newDealtSession(t, standardDeal(), WithValidation(ValidationTurnOnly))
		restored, err := RestoreSession(smallMap(t), src.Snapshot())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := restored.ForfeitTerritory(rules.PlayerOne, 1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
