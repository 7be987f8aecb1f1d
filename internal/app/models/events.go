package models

import (
	"time"

	"github.com/google/uuid"
)

// PushEventKind discriminates the three inbound push-event kinds.
type PushEventKind string

const (
	PushAssistantReply  PushEventKind = "assistant_reply"
	PushTripUpdate      PushEventKind = "trip_update"
	PushLocationContext PushEventKind = "location_context"
)

// PushEvent is one server-originated message delivered outside the
// request/response cycle. Exactly one payload field is expected to be set
// for the event's kind.
type PushEvent struct {
	Kind    PushEventKind `json:"kind"`
	Message *ChatMessage  `json:"message,omitempty"`
	Trip    *TripPatch    `json:"trip,omitempty"`
	Places  []NearbyPlace `json:"places,omitempty"`
}

// ChatMessage is one assistant reply in the ordered message log.
// Ordering is receipt order, not send order.
type ChatMessage struct {
	ID         uuid.UUID `json:"id"`
	Content    string    `json:"content"`
	ReceivedAt time.Time `json:"received_at"`
}

// NearbyPlace is one location-derived context entry. Pushes replace the
// whole list, they never merge.
type NearbyPlace struct {
	Name      string  `json:"name"`
	Category  string  `json:"category,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
	Distance  float64 `json:"distance,omitempty"`
}
