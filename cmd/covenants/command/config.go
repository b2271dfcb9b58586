package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

type Config struct {
	Listeners []ListenerConfig `json:"listeners"`
	Nats      NatsConfig       `json:"nats"`
	Board     BoardConfig      `json:"board"`
	Relay     RelayConfig      `json:"relay"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if len(c.Listeners) == 0 {
		el.Add(fmt.Errorf("at least one listener is required"))
	}
	ports := map[uint16]int{}
	for i, l := range c.Listeners {
		err := l.validate()
		if err != nil {
			el.Add(fmt.Errorf("listener %d: %w", i, err))
		}
		if prev, ok := ports[l.Port]; ok && l.Port != 0 {
			el.Add(fmt.Errorf("listener %d: port %d already used by listener %d", i, l.Port, prev))
		}
		ports[l.Port] = i
	}

	el.Add(c.Nats.validate())
	el.Add(c.Board.validate())
	el.Add(c.Relay.validate())

	return el.Err()
}
