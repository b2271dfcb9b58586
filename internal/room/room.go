package room

import (
	"github.com/pixil98/go-covenants/internal/game"
	"github.com/pixil98/go-covenants/internal/rules"
)

// Room is one two-seat session. Slots are handed out in order and a slot
// that has been vacated is never reassigned.
type Room struct {
	id        string
	session   *game.Session
	occupants map[rules.Slot]string
	assigned  int
}

func newRoom(id string, session *game.Session) *Room {
	return &Room{
		id:        id,
		session:   session,
		occupants: map[rules.Slot]string{},
	}
}

// full reports whether both slots have been handed out, even if one has
// since been vacated.
func (r *Room) full() bool {
	return r.assigned >= 2
}

// seat assigns the next never-used slot to connID. Callers check full first.
func (r *Room) seat(connID string) rules.Slot {
	r.assigned++
	slot := rules.Slot(r.assigned)
	r.occupants[slot] = connID
	return slot
}

func (r *Room) vacate(slot rules.Slot) {
	delete(r.occupants, slot)
}

func (r *Room) empty() bool {
	return len(r.occupants) == 0
}

// conns lists occupant connections in slot order.
func (r *Room) conns() []string {
	var out []string
	for _, s := range []rules.Slot{rules.PlayerOne, rules.PlayerTwo} {
		if id, ok := r.occupants[s]; ok {
			out = append(out, id)
		}
	}
	return out
}

// Info is a diagnostic summary of a room.
type Info struct {
	ID          string `json:"id"`
	Occupants   int    `json:"occupants"`
	Initialized bool   `json:"initialized"`
	GameEnded   bool   `json:"gameEnded"`
}

func (r *Room) info() Info {
	return Info{
		ID:          r.id,
		Occupants:   len(r.occupants),
		Initialized: r.session.Initialized(),
		GameEnded:   r.session.Status().GameEnded,
	}
}
