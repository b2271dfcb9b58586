package game

import "math/rand/v2"

// DefaultTerritoryCapacity is the number of committed placements that
// completes a territory: one per player.
const DefaultTerritoryCapacity = 2

type SessionOpt func(*Session)

// WithTerritoryCapacity sets how many placements complete a territory.
func WithTerritoryCapacity(n int) SessionOpt {
	return func(s *Session) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// WithRand sets the random source used for chaos draws.
func WithRand(r *rand.Rand) SessionOpt {
	return func(s *Session) {
		s.rng = r
	}
}

// WithValidation sets how strictly placements are checked.
func WithValidation(v Validation) SessionOpt {
	return func(s *Session) {
		s.validation = v
	}
}
