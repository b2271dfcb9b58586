package mirror

import (
	"context"
	"sync"

	"github.com/pixil98/go-covenants/internal/game"
	"github.com/pixil98/go-covenants/internal/rules"
)

// LocalStore owns the canonical session for two players sharing one
// client.
type LocalStore struct {
	mu      sync.Mutex
	session *game.Session
	subs    watchers
}

func NewLocalStore(m *rules.Map, opts ...game.SessionOpt) *LocalStore {
	return &LocalStore{session: game.NewSession(m, opts...)}
}

func (s *LocalStore) Apply(_ context.Context, in Intent) error {
	s.mu.Lock()
	if err := in.apply(s.session); err != nil {
		s.mu.Unlock()
		return err
	}
	snap := s.session.Snapshot()
	s.mu.Unlock()

	s.subs.notify(snap)
	return nil
}

func (s *LocalStore) ValidatePlacement(p rules.Slot, tile rules.TileID, cell rules.Cell) (rules.Verdict, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.ValidatePlacement(p, tile, cell)
}

func (s *LocalStore) Snapshot() game.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Snapshot()
}

func (s *LocalStore) Subscribe(fn func(game.Snapshot)) func() {
	return s.subs.add(fn)
}
