package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-covenants/internal/driver"
	"github.com/pixil98/go-covenants/internal/game"
	"github.com/pixil98/go-covenants/internal/player"
	"github.com/pixil98/go-errors"
)

type RelayConfig struct {
	Validation        game.Validation `json:"validation"`
	TerritoryCapacity int             `json:"territory_capacity"`

	// RateLimit is intents per second per connection. Zero disables it.
	RateLimit float64 `json:"rate_limit"`
	RateBurst int     `json:"rate_burst"`

	// StatsInterval enables periodic room and player stats logging.
	StatsInterval string `json:"stats_interval"`
}

func (c *RelayConfig) validate() error {
	el := errors.NewErrorList()

	if c.TerritoryCapacity < 0 {
		el.Add(fmt.Errorf("territory_capacity must not be negative"))
	}
	if c.RateLimit < 0 {
		el.Add(fmt.Errorf("rate_limit must not be negative"))
	}
	if c.RateBurst < 0 {
		el.Add(fmt.Errorf("rate_burst must not be negative"))
	}
	if c.RateLimit > 0 && c.RateBurst == 0 {
		el.Add(fmt.Errorf("rate_burst is required when rate_limit is set"))
	}
	if c.StatsInterval != "" {
		d, err := time.ParseDuration(c.StatsInterval)
		if err != nil {
			el.Add(fmt.Errorf("parsing stats_interval: %w", err))
		} else if d < time.Second {
			el.Add(fmt.Errorf("stats_interval must be at least 1 second"))
		}
	}

	return el.Err()
}

func (c *RelayConfig) sessionOpts() []game.SessionOpt {
	opts := []game.SessionOpt{game.WithValidation(c.Validation)}
	if c.TerritoryCapacity > 0 {
		opts = append(opts, game.WithTerritoryCapacity(c.TerritoryCapacity))
	}
	return opts
}

// buildDriver returns nil when stats are disabled.
func (c *RelayConfig) buildDriver(reporters ...driver.Reporter) (*driver.Driver, error) {
	if c.StatsInterval == "" {
		return nil, nil
	}
	d, err := time.ParseDuration(c.StatsInterval)
	if err != nil {
		return nil, fmt.Errorf("parsing stats_interval: %w", err)
	}
	return driver.NewDriver(reporters, driver.WithInterval(d)), nil
}

func (c *RelayConfig) playerOpts() []player.PlayerManagerOpt {
	if c.RateLimit <= 0 {
		return nil
	}
	return []player.PlayerManagerOpt{player.WithRateLimit(c.RateLimit, c.RateBurst)}
}
