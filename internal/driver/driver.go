package driver

import (
	"context"
	"log/slog"
	"time"
)

const (
	DefaultInterval = time.Minute
)

// Reporter is anything that does periodic housekeeping, such as logging
// its own counters.
type Reporter interface {
	Tick(context.Context) error
}

// Driver ticks its reporters on a fixed interval until shut down. A failing
// reporter is logged and the others still run.
type Driver struct {
	interval  time.Duration
	reporters []Reporter
}

func NewDriver(reporters []Reporter, opts ...DriverOpt) *Driver {
	d := &Driver{
		interval:  DefaultInterval,
		reporters: reporters,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *Driver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			d.Tick(ctx)
		}
	}
}

func (d *Driver) Tick(ctx context.Context) {
	for _, r := range d.reporters {
		if err := r.Tick(ctx); err != nil {
			slog.WarnContext(ctx, "reporter tick", "error", err)
		}
	}
}
