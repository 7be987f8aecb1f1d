package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripplan/internal/app/models"
)

const reconnectDelay = 5 * time.Second

// Socket consumes the push channel over a websocket and hands decoded events
// to the adapter. The transport promises at-most-once delivery and per-kind
// FIFO from a single connection; nothing more is assumed here.
type Socket struct {
	url     string
	adapter *Adapter
	machine degradedSetter
	logger  *zap.Logger
}

type degradedSetter interface {
	SetDegraded(bool)
}

func NewSocket(url string, adapter *Adapter, machine degradedSetter, logger *zap.Logger) *Socket {
	return &Socket{url: url, adapter: adapter, machine: machine, logger: logger}
}

// Listen dials the push channel and folds events until the context ends.
// Connection loss flips the degraded flag and retries after a delay; the
// view state stays usable on fetched data in the meantime.
func (s *Socket) Listen(ctx context.Context) {
	if s.url == "" {
		s.logger.Info("No push channel configured, realtime sync disabled")
		return
	}

	for {
		if err := s.consume(ctx); err != nil {
			s.logger.Warn("Push channel unavailable", zap.String("url", s.url), zap.Error(err))
			s.machine.SetDegraded(true)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
	}
}

func (s *Socket) consume(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	s.machine.SetDegraded(false)
	s.logger.Info("Push channel connected", zap.String("url", s.url))

	// The watcher must die with its connection, not with the whole listen
	// loop, or reconnects would pile one up per attempt.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var event models.PushEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			// A malformed frame must not corrupt state or kill the stream.
			s.logger.Warn("Dropping undecodable push frame", zap.Error(err))
			continue
		}
		s.adapter.Handle(event)
	}
}
