package rules

import "slices"

// Occupant is the tile on top of a board cell.
type Occupant struct {
	Tile  TileID
	Owner Slot
	// Element is the effective element: the resolved value for an Unknown
	// tile, otherwise the tile's own element.
	Element Element
}

// BoardView exposes cell occupancy to the validator.
type BoardView interface {
	Occupant(Cell) (Occupant, bool)
}

// Board is a plain BoardView backed by a map.
type Board map[Cell]Occupant

func (b Board) Occupant(c Cell) (Occupant, bool) {
	o, ok := b[c]
	return o, ok
}

// PlacementInput is a proposed move and the state it is checked against.
type PlacementInput struct {
	Map            *Map
	Tile           TileID
	Cell           Cell
	Player         Slot
	TerritoryIndex int
	Board          BoardView
	Inventory      []TileID
}

// Verdict describes a legal placement.
type Verdict struct {
	// RequiresElementSelection is set when an Unknown tile must be given a
	// concrete element before the placement is committed.
	RequiresElementSelection bool `json:"requiresElementSelection,omitempty"`
	// RequiredElement forces the selection when the Unknown tile contests an
	// occupied cell. Unknown means any concrete element is accepted.
	RequiredElement Element `json:"requiredElement,omitempty"`
}

// ValidatePlacement decides whether a placement is legal. It never mutates
// its input.
func ValidatePlacement(in PlacementInput) (Verdict, error) {
	if !slices.Contains(in.Inventory, in.Tile) {
		return Verdict{}, &RuleError{Reason: ReasonNotOwned, Tile: in.Tile}
	}

	t, ok := in.Map.TerritoryForCell(in.Cell)
	if !ok {
		return Verdict{}, &RuleError{Reason: ReasonOffTerritory, Cell: in.Cell}
	}

	active, ok := in.Map.TerritoryAt(in.TerritoryIndex)
	if !ok || t.ID != active.ID {
		return Verdict{}, &RuleError{Reason: ReasonWrongTerritory, Cell: in.Cell, Territory: active.ID}
	}

	incoming, err := in.Tile.Element()
	if err != nil {
		return Verdict{}, err
	}

	occ, occupied := in.Board.Occupant(in.Cell)
	if !occupied {
		return Verdict{RequiresElementSelection: incoming == Unknown}, nil
	}

	if occ.Owner == in.Player {
		return Verdict{}, &RuleError{Reason: ReasonSelfOccupied, Cell: in.Cell}
	}

	if incoming == Unknown {
		counter, ok := RequiredCounter(occ.Element)
		if !ok {
			return Verdict{}, &RuleError{Reason: ReasonDoesNotBeat, Attacker: incoming, Defender: occ.Element}
		}
		return Verdict{RequiresElementSelection: true, RequiredElement: counter}, nil
	}

	if !Beats(incoming, occ.Element) {
		return Verdict{}, &RuleError{Reason: ReasonDoesNotBeat, Attacker: incoming, Defender: occ.Element}
	}
	return Verdict{}, nil
}

// CheckSelection applies a verdict to the element chosen by the player and
// returns the element to record on the cell. It returns Unknown when the
// tile needs no resolution.
func CheckSelection(v Verdict, selected Element) (Element, error) {
	if !v.RequiresElementSelection {
		return Unknown, nil
	}
	if !selected.Concrete() {
		return Unknown, ErrElementRequired
	}
	if v.RequiredElement.Concrete() && selected != v.RequiredElement {
		return Unknown, &RuleError{Reason: ReasonWrongElement, Required: v.RequiredElement}
	}
	return selected, nil
}

// CanPlaceOnCurrentTerritory reports whether player has any legal placement
// on the active territory: an empty cell, or an opponent tile that some tile
// in the inventory beats. Unknown tiles count as able to beat anything.
func CanPlaceOnCurrentTerritory(m *Map, player Slot, index int, board BoardView, inventory []TileID) bool {
	t, ok := m.TerritoryAt(index)
	if !ok {
		return false
	}

	for _, c := range t.Cells {
		occ, occupied := board.Occupant(c)
		if !occupied {
			return true
		}
		if occ.Owner == player {
			continue
		}
		for _, id := range inventory {
			e, err := id.Element()
			if err != nil {
				continue
			}
			if e == Unknown || Beats(e, occ.Element) {
				return true
			}
		}
	}
	return false
}
