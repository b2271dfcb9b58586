package command

import (
	"fmt"

	"github.com/pixil98/go-covenants/internal/listener"
	"github.com/pixil98/go-covenants/internal/messaging"
	"github.com/pixil98/go-covenants/internal/player"
	"github.com/pixil98/go-covenants/internal/room"
	"github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	board, err := cfg.Board.buildMap()
	if err != nil {
		return nil, fmt.Errorf("building board: %w", err)
	}

	ns, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	pub := messaging.NewNatsPublisher(ns)

	rooms := room.NewRegistry(pub,
		room.WithMap(board),
		room.WithSessionOpts(cfg.Relay.sessionOpts()...),
	)
	players := player.NewPlayerManager(rooms, ns, pub, cfg.Relay.playerOpts()...)
	cm := listener.NewConnectionManager(players)

	listeners := make(service.WorkerList, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		w, err := l.BuildListener(cm)
		if err != nil {
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		listeners[fmt.Sprintf("listener-%d", i)] = w
	}

	workers := service.WorkerList{
		"nats":      ns,
		"rooms":     rooms,
		"players":   players,
		"listeners": &listeners,
	}

	stats, err := cfg.Relay.buildDriver(rooms, players)
	if err != nil {
		return nil, fmt.Errorf("creating stats driver: %w", err)
	}
	if stats != nil {
		workers["stats"] = stats
	}

	return workers, nil
}
