// Package realtime owns all inbound push-event folding. Exactly one adapter
// instance feeds the state machine, so no event can be applied twice by
// overlapping listeners.
package realtime

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripplan/internal/app/models"
	"github.com/FACorreiaa/go-tripplan/internal/app/viewstate"
)

// Adapter folds push events into the view state machine without blocking the
// caller. If the push channel is down the adapter simply delivers nothing and
// the rest of the system keeps working through on-demand fetches.
type Adapter struct {
	machine *viewstate.Machine
	logger  *zap.Logger
	sink    func(models.ChatMessage)
}

func NewAdapter(machine *viewstate.Machine, logger *zap.Logger) *Adapter {
	return &Adapter{machine: machine, logger: logger}
}

// SetMessageSink wires an optional persistence hook for assistant replies.
// The sink runs inline after the fold; it must not block for long.
func (a *Adapter) SetMessageSink(sink func(models.ChatMessage)) {
	a.sink = sink
}

// Handle dispatches one event by kind. Assistant replies append in receipt
// order; trip updates shallow-merge by id; location context replaces the
// nearby list wholesale. Malformed events are dropped with a log line.
func (a *Adapter) Handle(event models.PushEvent) {
	switch event.Kind {
	case models.PushAssistantReply:
		if event.Message == nil {
			a.logger.Warn("Assistant reply event without message payload")
			return
		}
		msg := *event.Message
		if msg.ID == uuid.Nil {
			msg.ID = uuid.New()
		}
		if msg.ReceivedAt.IsZero() {
			msg.ReceivedAt = time.Now()
		}
		a.machine.AppendAssistantMessage(msg)
		if a.sink != nil {
			a.sink(msg)
		}

	case models.PushTripUpdate:
		if event.Trip == nil {
			a.logger.Warn("Trip update event without trip payload")
			return
		}
		a.machine.ApplyTripPatch(*event.Trip)

	case models.PushLocationContext:
		a.machine.ReplaceNearbyPlaces(event.Places)

	default:
		a.logger.Debug("Ignoring push event of unknown kind", zap.String("kind", string(event.Kind)))
	}
}
