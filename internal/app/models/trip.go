package models

import "time"

// TripStatus is server-authoritative. The client never computes a status on
// its own beyond the optimistic value set right after a create request.
type TripStatus string

const (
	TripStatusPlanning  TripStatus = "planning"
	TripStatusUpcoming  TripStatus = "upcoming"
	TripStatusActive    TripStatus = "active"
	TripStatusCompleted TripStatus = "completed"
)

// Trip is one persisted planning/booking unit as returned by the trip directory.
type Trip struct {
	ID          int        `json:"id"`
	Status      TripStatus `json:"status"`
	Destination string     `json:"destination"`
	Duration    int        `json:"duration"`
	Budget      *float64   `json:"budget,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Itinerary   string     `json:"itinerary,omitempty"`
}

// TripPatch is a shallow field update pushed by the server. Nil fields are
// left untouched on merge.
type TripPatch struct {
	ID          int         `json:"id"`
	Status      *TripStatus `json:"status,omitempty"`
	Destination *string     `json:"destination,omitempty"`
	Duration    *int        `json:"duration,omitempty"`
	Budget      *float64    `json:"budget,omitempty"`
	StartDate   *time.Time  `json:"start_date,omitempty"`
	EndDate     *time.Time  `json:"end_date,omitempty"`
	Itinerary   *string     `json:"itinerary,omitempty"`
}

// Apply merges the patch into a trip, overwriting only the fields the patch carries.
func (p TripPatch) Apply(t *Trip) {
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Destination != nil {
		t.Destination = *p.Destination
	}
	if p.Duration != nil {
		t.Duration = *p.Duration
	}
	if p.Budget != nil {
		t.Budget = p.Budget
	}
	if p.StartDate != nil {
		t.StartDate = p.StartDate
	}
	if p.EndDate != nil {
		t.EndDate = p.EndDate
	}
	if p.Itinerary != nil {
		t.Itinerary = *p.Itinerary
	}
}

// GeneratedTrip is the itinerary-source result for a newly created trip.
type GeneratedTrip struct {
	TripID      int        `json:"trip_id"`
	Destination string     `json:"destination"`
	Duration    int        `json:"duration"`
	Budget      *float64   `json:"budget,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Itinerary   string     `json:"itinerary"`
}

// View is the named UI mode the state machine is in.
type View string

const (
	ViewCreate     View = "create"
	ViewTripList   View = "trips"
	ViewItinerary  View = "itinerary"
	ViewFlights    View = "flights"
	ViewHotels     View = "hotels"
	ViewActivities View = "activities"
	ViewManage     View = "manage"
)

// ValidView reports whether v names a known view tag.
func ValidView(v string) bool {
	switch View(v) {
	case ViewCreate, ViewTripList, ViewItinerary, ViewFlights, ViewHotels, ViewActivities, ViewManage:
		return true
	}
	return false
}

// RequiresTrip reports whether the view cannot render without a resolvable trip.
func (v View) RequiresTrip() bool {
	switch v {
	case ViewItinerary, ViewFlights, ViewHotels, ViewActivities, ViewManage:
		return true
	}
	return false
}
