package player

import "golang.org/x/time/rate"

type PlayerManagerOpt func(*PlayerManager)

// WithRateLimit caps how many intents per second one connection may send.
// A limit of zero or less disables throttling.
func WithRateLimit(perSecond float64, burst int) PlayerManagerOpt {
	return func(m *PlayerManager) {
		if perSecond <= 0 {
			m.limit = rate.Inf
			return
		}
		m.limit = rate.Limit(perSecond)
		if burst > 0 {
			m.burst = burst
		}
	}
}
