package listener

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"syscall"

	"github.com/iammegalith/telnet"
)

// TelnetListener serves the line protocol over telnet, one JSON message
// per line.
type TelnetListener struct {
	port uint16
	cm   *ConnectionManager
}

func NewTelnetListener(port uint16, cm *ConnectionManager) *TelnetListener {
	return &TelnetListener{
		port: port,
		cm:   cm,
	}
}

func (l *TelnetListener) Start(ctx context.Context) error {
	connCtx, cancelConns := context.WithCancel(context.Background())
	h := &telnetHandler{cm: l.cm, ctx: connCtx}

	svr := telnet.NewServer(fmt.Sprintf(":%d", l.port), h)

	stop := context.AfterFunc(ctx, func() {
		svr.Stop()
		cancelConns()
	})
	defer stop()

	slog.InfoContext(ctx, "listening for telnet", "port", l.port)

	if err := svr.ListenAndServe(); err != nil {
		cancelConns()
		if errors.Is(err, syscall.EADDRINUSE) {
			return fmt.Errorf("port %d is already in use (another server running?)", l.port)
		}
		return fmt.Errorf("serving telnet on port %d: %w", l.port, err)
	}
	h.wg.Wait()
	return nil
}

type telnetHandler struct {
	cm  *ConnectionManager
	ctx context.Context
	wg  sync.WaitGroup
}

func (h *telnetHandler) HandleTelnet(conn *telnet.Connection) {
	h.wg.Add(1)
	defer h.wg.Done()
	defer func() {
		if err := conn.Close(); err != nil {
			slog.WarnContext(h.ctx, "closing telnet connection", "error", err)
		}
	}()

	h.cm.AcceptStream(h.ctx, conn)
}
