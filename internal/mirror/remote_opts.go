package mirror

import (
	"github.com/pixil98/go-covenants/internal/game"
	"github.com/pixil98/go-covenants/internal/rules"
)

type RemoteOpt func(*RemoteStore)

// WithMap sets the board the relay plays on. It must match the relay's.
func WithMap(m *rules.Map) RemoteOpt {
	return func(s *RemoteStore) {
		s.board = m
	}
}

// WithSessionOpts configures the empty state used before the relay has sent
// any. Rules carried by relay snapshots take precedence.
func WithSessionOpts(opts ...game.SessionOpt) RemoteOpt {
	return func(s *RemoteStore) {
		s.sessionOpts = append(s.sessionOpts, opts...)
	}
}

// WithRejectionBuffer sets how many unread relay rejections are kept.
func WithRejectionBuffer(n int) RemoteOpt {
	return func(s *RemoteStore) {
		if n > 0 {
			s.rejectBuf = n
		}
	}
}
