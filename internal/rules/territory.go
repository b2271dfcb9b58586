package rules

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

// TerritoryCount is the number of territories on every board.
const TerritoryCount = 7

// LastTerritoryIndex bounds the current territory index.
const LastTerritoryIndex = TerritoryCount - 1

// PointValue is the score a territory id is worth: 1 for the first five,
// 2 for the sixth and 3 for dusk.
func PointValue(id int) int {
	switch id {
	case 6:
		return 2
	case 7:
		return 3
	default:
		return 1
	}
}

// Territory is an ordered region of the board. Ids run 1 (dawn) to 7 (dusk).
type Territory struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	PointValue int    `json:"point_value"`
	Cells      []Cell `json:"cells"`
}

// Layout is a named set of seven territories.
type Layout struct {
	Name        string      `json:"name"`
	Territories []Territory `json:"territories"`
}

func (l *Layout) Validate() error {
	el := errors.NewErrorList()

	if len(l.Territories) != TerritoryCount {
		el.Add(fmt.Errorf("expected %d territories, got %d", TerritoryCount, len(l.Territories)))
	}

	seen := map[Cell]int{}
	for i, t := range l.Territories {
		if t.ID != i+1 {
			el.Add(fmt.Errorf("territory %d: id must be %d", i, i+1))
		}
		if t.PointValue != PointValue(i+1) {
			el.Add(fmt.Errorf("territory %d: point_value must be %d", t.ID, PointValue(i+1)))
		}
		if len(t.Cells) == 0 {
			el.Add(fmt.Errorf("territory %d: cells are required", t.ID))
		}
		for _, c := range t.Cells {
			if other, ok := seen[c]; ok {
				el.Add(fmt.Errorf("territory %d: cell %s already belongs to territory %d", t.ID, c, other))
				continue
			}
			seen[c] = t.ID
		}
	}

	return el.Err()
}

// Map answers membership questions for a validated layout. It is immutable
// once built.
type Map struct {
	territories []Territory
	byCell      map[Cell]int
	total       int
}

// NewMap validates the layout and indexes its cells.
func NewMap(l *Layout) (*Map, error) {
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("layout %q: %w", l.Name, err)
	}

	m := &Map{
		territories: make([]Territory, len(l.Territories)),
		byCell:      map[Cell]int{},
	}
	for i, t := range l.Territories {
		m.territories[i] = t
		m.total += t.PointValue
		for _, c := range t.Cells {
			m.byCell[c] = i
		}
	}
	return m, nil
}

// Territories returns the territories in play order.
func (m *Map) Territories() []Territory {
	return m.territories
}

// TerritoryForCell returns the territory containing c.
func (m *Map) TerritoryForCell(c Cell) (Territory, bool) {
	i, ok := m.byCell[c]
	if !ok {
		return Territory{}, false
	}
	return m.territories[i], true
}

// TerritoryAt returns the territory at a zero-based play index.
func (m *Map) TerritoryAt(index int) (Territory, bool) {
	if index < 0 || index >= len(m.territories) {
		return Territory{}, false
	}
	return m.territories[index], true
}

// TerritoryByID returns the territory with the given id.
func (m *Map) TerritoryByID(id int) (Territory, bool) {
	return m.TerritoryAt(id - 1)
}

// TotalPoints is the sum of every territory's point value.
func (m *Map) TotalPoints() int {
	return m.total
}
