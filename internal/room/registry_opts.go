package room

import (
	"github.com/pixil98/go-covenants/internal/game"
	"github.com/pixil98/go-covenants/internal/rules"
)

type RegistryOpt func(*Registry)

// WithMap sets the board every new room is played on.
func WithMap(m *rules.Map) RegistryOpt {
	return func(r *Registry) {
		r.board = m
	}
}

// WithSessionOpts sets the options applied to every new room's session.
func WithSessionOpts(opts ...game.SessionOpt) RegistryOpt {
	return func(r *Registry) {
		r.sessionOpts = append(r.sessionOpts, opts...)
	}
}

// WithIDGenerator overrides how room ids are allocated.
func WithIDGenerator(f func() string) RegistryOpt {
	return func(r *Registry) {
		r.newID = f
	}
}
