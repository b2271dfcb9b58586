package driver

import "time"

type DriverOpt func(*Driver)

func WithInterval(d time.Duration) DriverOpt {
	return func(dr *Driver) {
		if d > 0 {
			dr.interval = d
		}
	}
}
