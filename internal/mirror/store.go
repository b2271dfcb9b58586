package mirror

import (
	"context"
	"slices"
	"sync"

	"github.com/pixil98/go-covenants/internal/game"
	"github.com/pixil98/go-covenants/internal/protocol"
	"github.com/pixil98/go-covenants/internal/rules"
)

// Store is the state a presentation layer renders from. Local stores own
// the session; remote stores mirror the relay's snapshots.
type Store interface {
	// Apply submits an intent. A nil error from a remote store means the
	// intent passed local checks and was sent, not that it was committed.
	Apply(ctx context.Context, in Intent) error
	// ValidatePlacement checks a placement against the current state
	// without changing it.
	ValidatePlacement(p rules.Slot, tile rules.TileID, cell rules.Cell) (rules.Verdict, error)
	Snapshot() game.Snapshot
	// Subscribe registers fn to receive every new snapshot. The returned
	// func removes it.
	Subscribe(fn func(game.Snapshot)) func()
}

// Intent is a player action. The concrete types are Deal, Place, Forfeit,
// Draw and Reset.
type Intent interface {
	apply(s *game.Session) error
	message(roomID string) (protocol.MessageType, any)
}

// Deal starts a game. It is not tied to a turn.
type Deal struct {
	rules.Deal
}

func (d Deal) apply(s *game.Session) error {
	return s.InitializeGame(d.Deal)
}

func (d Deal) message(roomID string) (protocol.MessageType, any) {
	return protocol.TypeGameInitialized, protocol.GameInitialized{RoomID: roomID, Deal: d.Deal}
}

// Place puts a tile on a cell. Element resolves an Unknown tile.
type Place struct {
	Player  rules.Slot
	Tile    rules.TileID
	Cell    rules.Cell
	Element rules.Element
}

func (p Place) apply(s *game.Session) error {
	return s.PlacePiece(game.Placement{
		Player:  p.Player,
		Tile:    p.Tile,
		Cell:    p.Cell,
		Element: p.Element,
	})
}

func (p Place) message(roomID string) (protocol.MessageType, any) {
	return protocol.TypePiecePlaced, protocol.PiecePlaced{
		RoomID:          roomID,
		TileID:          p.Tile,
		Position:        p.Cell,
		PlayerSlot:      p.Player,
		ResolvedElement: p.Element,
	}
}

// Forfeit gives the active territory to the opponent.
type Forfeit struct {
	Player      rules.Slot
	TerritoryID int
}

func (f Forfeit) apply(s *game.Session) error {
	return s.ForfeitTerritory(f.Player, f.TerritoryID)
}

func (f Forfeit) message(roomID string) (protocol.MessageType, any) {
	return protocol.TypeTerritoryForfeit, protocol.TerritoryForfeit{
		RoomID:      roomID,
		TerritoryID: f.TerritoryID,
		PlayerSlot:  f.Player,
	}
}

// Draw takes a tile from the leftover pool. An empty Tile draws at random.
type Draw struct {
	Player rules.Slot
	Tile   rules.TileID
}

func (d Draw) apply(s *game.Session) error {
	_, err := s.DrawChaosTile(d.Player, d.Tile)
	return err
}

func (d Draw) message(roomID string) (protocol.MessageType, any) {
	return protocol.TypeChaosDraw, protocol.ChaosDraw{
		RoomID:     roomID,
		PlayerSlot: d.Player,
		TileID:     d.Tile,
	}
}

// Reset clears the board and returns the game to its undealt state. Like
// Deal it is not tied to a turn.
type Reset struct{}

func (Reset) apply(s *game.Session) error {
	s.Reset()
	return nil
}

func (Reset) message(roomID string) (protocol.MessageType, any) {
	return protocol.TypeResetGame, protocol.ResetGame{RoomID: roomID}
}

// watchers fans snapshots out to subscribers. Callbacks run outside the
// lock, in registration order, and share one snapshot value that they must
// not modify.
type watchers struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(game.Snapshot)
	ids  []int
}

func (w *watchers) add(fn func(game.Snapshot)) func() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.fns == nil {
		w.fns = map[int]func(game.Snapshot){}
	}
	id := w.next
	w.next++
	w.fns[id] = fn
	w.ids = append(w.ids, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			w.mu.Lock()
			defer w.mu.Unlock()
			delete(w.fns, id)
			if i := slices.Index(w.ids, id); i >= 0 {
				w.ids = slices.Delete(w.ids, i, i+1)
			}
		})
	}
}

func (w *watchers) notify(snap game.Snapshot) {
	w.mu.Lock()
	fns := make([]func(game.Snapshot), 0, len(w.ids))
	for _, id := range w.ids {
		fns = append(fns, w.fns[id])
	}
	w.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
