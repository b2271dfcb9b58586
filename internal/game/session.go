package game

import (
	"math/rand/v2"
	"slices"

	"github.com/pixil98/go-covenants/internal/rules"
)

// Session is the canonical state of one game. Every mutation validates the
// whole intent before touching state, so a rejected intent leaves the
// session unchanged. A Session is not safe for concurrent use; owners
// serialize access.
type Session struct {
	territories *rules.Map
	capacity    int
	validation  Validation
	rng         *rand.Rand

	initialized bool
	dealt       map[rules.TileID]rules.Element
	inventories map[rules.Slot][]rules.TileID
	leftover    []rules.TileID
	board       map[rules.Cell]*CellState
	control     map[int]*TerritoryControl
	current     rules.Slot
	status      Status
}

// NewSession creates an empty, undealt session on the given board.
func NewSession(m *rules.Map, opts ...SessionOpt) *Session {
	s := &Session{
		territories: m,
		capacity:    DefaultTerritoryCapacity,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.Reset()
	return s
}

// Map returns the board the session is played on.
func (s *Session) Map() *rules.Map {
	return s.territories
}

// Reset returns the session to its undealt state.
func (s *Session) Reset() {
	s.initialized = false
	s.dealt = map[rules.TileID]rules.Element{}
	s.inventories = map[rules.Slot][]rules.TileID{}
	s.leftover = nil
	s.board = map[rules.Cell]*CellState{}
	s.control = map[int]*TerritoryControl{}
	s.current = rules.PlayerOne
	s.status = Status{Winner: rules.WinnerNone}
}

// InitializeGame deals the given tiles and starts play with player one.
func (s *Session) InitializeGame(d rules.Deal) error {
	dealt := map[rules.TileID]rules.Element{}
	for _, set := range [][]rules.TileID{d.PlayerOne, d.PlayerTwo, d.Leftover} {
		for _, id := range set {
			e, err := id.Element()
			if err != nil {
				return err
			}
			if _, dup := dealt[id]; dup {
				return &rules.RuleError{Reason: rules.ReasonDuplicateTile, Tile: id}
			}
			dealt[id] = e
		}
	}

	s.Reset()
	s.initialized = true
	s.dealt = dealt
	s.inventories[rules.PlayerOne] = slices.Clone(d.PlayerOne)
	s.inventories[rules.PlayerTwo] = slices.Clone(d.PlayerTwo)
	s.leftover = slices.Clone(d.Leftover)
	s.evaluate()
	return nil
}

// Policy reports the rules the session plays by.
func (s *Session) Policy() Policy {
	return Policy{Validation: s.validation, TerritoryCapacity: s.capacity}
}

// Initialized reports whether tiles have been dealt.
func (s *Session) Initialized() bool {
	return s.initialized
}

// CurrentPlayer is the slot whose turn it is.
func (s *Session) CurrentPlayer() rules.Slot {
	return s.current
}

// Status returns a copy of the session status.
func (s *Session) Status() Status {
	st := s.status
	st.LeftoverTiles = slices.Clone(s.leftover)
	return st
}

// Inventory returns a copy of a player's tiles.
func (s *Session) Inventory(p rules.Slot) []rules.TileID {
	return slices.Clone(s.inventories[p])
}

// Occupant implements rules.BoardView.
func (s *Session) Occupant(c rules.Cell) (rules.Occupant, bool) {
	cs, ok := s.board[c]
	if !ok {
		return rules.Occupant{}, false
	}
	return rules.Occupant{Tile: cs.Tile, Owner: cs.Owner, Element: cs.Effective()}, true
}

// Controllers maps each territory id to its controller.
func (s *Session) Controllers() map[int]rules.Slot {
	out := make(map[int]rules.Slot, len(s.control))
	for id, ctl := range s.control {
		out[id] = ctl.ControlledBy
	}
	return out
}

// Scores recomputes the score of both players from territory control.
func (s *Session) Scores() rules.Scores {
	return rules.CalculateScores(s.territories, s.Controllers())
}

// CheckGameEnd evaluates the end conditions against the current state.
func (s *Session) CheckGameEnd() rules.GameEnd {
	return rules.CheckGameEnd(rules.GameEndInput{
		Map:                s.territories,
		Control:            s.Controllers(),
		PlayerOneInventory: s.inventories[rules.PlayerOne],
		PlayerTwoInventory: s.inventories[rules.PlayerTwo],
		Leftover:           s.leftover,
		CurrentPlayer:      s.current,
	})
}

// CanPlaceOnCurrentTerritory reports whether p has a legal placement on the
// active territory.
func (s *Session) CanPlaceOnCurrentTerritory(p rules.Slot) bool {
	return rules.CanPlaceOnCurrentTerritory(s.territories, p, s.status.CurrentTerritoryIndex, s, s.inventories[p])
}

// ValidatePlacement checks a move without committing it. It ignores turn
// order so a waiting player can preview moves.
func (s *Session) ValidatePlacement(p rules.Slot, tile rules.TileID, cell rules.Cell) (rules.Verdict, error) {
	if err := s.playable(); err != nil {
		return rules.Verdict{}, err
	}
	return rules.ValidatePlacement(rules.PlacementInput{
		Map:            s.territories,
		Tile:           tile,
		Cell:           cell,
		Player:         p,
		TerritoryIndex: s.status.CurrentTerritoryIndex,
		Board:          s,
		Inventory:      s.inventories[p],
	})
}

func (s *Session) playable() error {
	if !s.initialized {
		return rules.ErrNotInitialized
	}
	if s.status.GameEnded {
		return rules.ErrGameOver
	}
	return nil
}

func (s *Session) turn(p rules.Slot) error {
	if err := s.playable(); err != nil {
		return err
	}
	if p != s.current {
		return rules.ErrNotYourTurn
	}
	return nil
}

// Placement is a request to put a tile on a cell.
type Placement struct {
	Player rules.Slot
	Tile   rules.TileID
	Cell   rules.Cell
	// Element is the player's choice for an Unknown tile.
	Element rules.Element
}

// PlacePiece validates and commits a placement, then passes the turn.
func (s *Session) PlacePiece(pl Placement) error {
	if err := s.turn(pl.Player); err != nil {
		return err
	}

	var (
		verdict rules.Verdict
		err     error
	)
	switch s.validation {
	case ValidationTurnOnly:
		verdict, err = s.checkOwnership(pl)
	default:
		verdict, err = s.ValidatePlacement(pl.Player, pl.Tile, pl.Cell)
	}
	if err != nil {
		return err
	}

	resolved, err := rules.CheckSelection(verdict, pl.Element)
	if err != nil {
		return err
	}

	s.commit(pl, resolved)
	return nil
}

// checkOwnership is the turn-only counterpart of ValidatePlacement: the
// tile must be held and the cell must belong to a territory so control can
// be recorded.
func (s *Session) checkOwnership(pl Placement) (rules.Verdict, error) {
	if !slices.Contains(s.inventories[pl.Player], pl.Tile) {
		return rules.Verdict{}, &rules.RuleError{Reason: rules.ReasonNotOwned, Tile: pl.Tile}
	}
	if _, ok := s.territories.TerritoryForCell(pl.Cell); !ok {
		return rules.Verdict{}, &rules.RuleError{Reason: rules.ReasonOffTerritory, Cell: pl.Cell}
	}
	return rules.Verdict{RequiresElementSelection: s.dealt[pl.Tile] == rules.Unknown}, nil
}

func (s *Session) commit(pl Placement, resolved rules.Element) {
	t, _ := s.territories.TerritoryForCell(pl.Cell)
	ctl := s.controlOf(t.ID)

	next := &CellState{
		Tile:     pl.Tile,
		Owner:    pl.Player,
		Element:  s.dealt[pl.Tile],
		Resolved: resolved,
	}

	prev, occupied := s.board[pl.Cell]
	if occupied {
		if prev.Owner != pl.Player {
			ctl.Contests = append(ctl.Contests, Contest{
				Cell:            pl.Cell,
				Attacker:        pl.Tile,
				Defender:        prev.Tile,
				AttackerElement: next.Effective(),
				DefenderElement: prev.Effective(),
				Winner:          pl.Player,
			})
		}
		next.Covered = append(slices.Clone(prev.Covered), prev.Tile)
	}
	s.board[pl.Cell] = next

	// The last player to place in a territory controls it.
	ctl.ControlledBy = pl.Player
	ctl.Marker = MarkerNone

	s.inventories[pl.Player] = slices.DeleteFunc(s.inventories[pl.Player], func(id rules.TileID) bool {
		return id == pl.Tile
	})

	ctl.Placements++
	if t.ID == s.status.CurrentTerritoryIndex+1 && ctl.Placements >= s.capacity {
		s.advance()
	}

	s.current = pl.Player.Opponent()
	s.evaluate()
}

// ForfeitTerritory hands the active territory to the opponent. It is only
// allowed when the player has no legal placement and cannot draw instead.
func (s *Session) ForfeitTerritory(p rules.Slot, territoryID int) error {
	if err := s.turn(p); err != nil {
		return err
	}

	active, _ := s.territories.TerritoryAt(s.status.CurrentTerritoryIndex)
	t, ok := s.territories.TerritoryByID(territoryID)
	if !ok || t.ID != active.ID {
		return &rules.RuleError{Reason: rules.ReasonWrongTerritory, Territory: active.ID}
	}
	if s.validation == ValidationFull && (s.CanPlaceOnCurrentTerritory(p) || s.canDraw(p)) {
		return rules.ErrForfeitNotAllowed
	}

	opp := p.Opponent()
	ctl := s.controlOf(t.ID)
	ctl.ControlledBy = opp
	ctl.Marker = MarkerFor(opp)

	s.advance()
	s.current = opp
	s.evaluate()
	return nil
}

func (s *Session) canDraw(p rules.Slot) bool {
	return len(s.inventories[p]) == 0 && len(s.leftover) > 0
}

// DrawChaosTile moves a tile from the leftover pool into an exhausted hand.
// An empty tile id draws uniformly at random. The drawer keeps the turn.
func (s *Session) DrawChaosTile(p rules.Slot, tile rules.TileID) (rules.TileID, error) {
	if err := s.turn(p); err != nil {
		return "", err
	}
	if !s.canDraw(p) {
		return "", rules.ErrChaosNotAllowed
	}

	i := slices.Index(s.leftover, tile)
	if tile == "" {
		i = s.intN(len(s.leftover))
	} else if i < 0 {
		return "", &rules.RuleError{Reason: rules.ReasonNotInPool, Tile: tile}
	}

	drawn := s.leftover[i]
	s.leftover = slices.Delete(s.leftover, i, i+1)
	s.inventories[p] = append(s.inventories[p], drawn)
	s.status.ChaosRoundActive = true
	s.evaluate()
	return drawn, nil
}

func (s *Session) intN(n int) int {
	if s.rng != nil {
		return s.rng.IntN(n)
	}
	return rand.IntN(n)
}

func (s *Session) controlOf(id int) *TerritoryControl {
	ctl, ok := s.control[id]
	if !ok {
		ctl = &TerritoryControl{}
		s.control[id] = ctl
	}
	return ctl
}

func (s *Session) advance() {
	if s.status.CurrentTerritoryIndex < rules.LastTerritoryIndex {
		s.status.CurrentTerritoryIndex++
	}
}

func (s *Session) evaluate() {
	res := s.CheckGameEnd()
	s.status.Scores = res.Scores
	if res.Ended {
		s.status.GameEnded = true
		s.status.Winner = res.Winner
		s.status.EndReason = res.Reason
	}
}
