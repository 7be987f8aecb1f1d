// Package viewstate is the explicit finite-state machine behind the trip UI.
// One view is active at a time; every entry into a trip-scoped view re-checks
// that the selection still resolves against the loaded trip set, because the
// backing list can change asynchronously after the view was chosen.
package viewstate

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripplan/internal/app/domain/itinerary"
	"github.com/FACorreiaa/go-tripplan/internal/app/models"
	"github.com/FACorreiaa/go-tripplan/internal/app/selection"
)

// Machine orchestrates which view is shown and keeps the selected-trip
// snapshot, its parsed days, the assistant message log and the nearby-places
// context consistent across refreshes, local edits and push updates.
type Machine struct {
	mu     sync.Mutex
	sel    *selection.Store
	logger *zap.Logger

	trips   []models.Trip
	current *models.Trip
	days    []models.ItineraryDay

	messages []models.ChatMessage
	nearby   []models.NearbyPlace

	editPending bool
	degraded    bool

	// Fire-and-forget trip-data refresh, invoked when returning to the
	// itinerary from a booking view. Wired to the directory client.
	refreshFn func(tripID int)
}

func NewMachine(sel *selection.Store, logger *zap.Logger) *Machine {
	return &Machine{sel: sel, logger: logger}
}

// SetRefreshFunc wires the booked-data refresh hook. The machine never waits
// on it; a later OnTripsRefreshed/OnTripReloaded call folds the result back in.
func (m *Machine) SetRefreshFunc(fn func(tripID int)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshFn = fn
}

// Start seeds the machine with the initial trip list. An active trip wins
// over any persisted view: it is selected and the itinerary is shown.
// Otherwise the persisted view is re-entered, subject to the usual guard.
func (m *Machine) Start(trips []models.Trip) models.View {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips = trips

	for i := range trips {
		if trips[i].Status == models.TripStatusActive {
			id := trips[i].ID
			m.sel.SetSelected(&id)
			return m.enterLocked(models.ViewItinerary)
		}
	}
	return m.enterLocked(m.sel.View())
}

// SelectTrip sets the selection and enters the itinerary view.
func (m *Machine) SelectTrip(id int) models.View {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sel.SetSelected(&id)
	return m.enterLocked(models.ViewItinerary)
}

// SetView requests a transition. Trip-scoped views fall back to Create when
// the selection does not resolve. Returning to the itinerary from a booking
// view triggers a background refresh of trip-scoped booked data.
func (m *Machine) SetView(view models.View) models.View {
	m.mu.Lock()
	defer m.mu.Unlock()

	from := m.sel.View()
	entered := m.enterLocked(view)

	if entered == models.ViewItinerary && returningFromBooking(from) && m.current != nil && m.refreshFn != nil {
		go m.refreshFn(m.current.ID)
	}
	return entered
}

func returningFromBooking(v models.View) bool {
	return v == models.ViewFlights || v == models.ViewHotels || v == models.ViewActivities
}

// enterLocked applies the entry guard and commits the view to the selection
// store. It is the only place a view becomes current.
func (m *Machine) enterLocked(view models.View) models.View {
	if view.RequiresTrip() {
		trip := m.resolveLocked()
		if trip == nil {
			m.logger.Warn("View requires a trip but none resolves, falling back",
				zap.String("view", string(view)))
			m.current = nil
			m.days = nil
			m.sel.SetView(models.ViewCreate)
			return models.ViewCreate
		}
		// Re-snapshotting the same trip would re-parse the itinerary and
		// wipe a pending optimistic day edit.
		if m.current == nil || m.current.ID != trip.ID {
			m.setCurrentLocked(*trip)
		}
	}
	m.sel.SetView(view)
	return view
}

// resolveLocked finds the selected trip, preferring the in-memory snapshot
// (a just-created trip may not be in the directory list yet), then the list.
func (m *Machine) resolveLocked() *models.Trip {
	id := m.sel.Selected()
	if id == nil {
		return nil
	}
	if m.current != nil && m.current.ID == *id {
		return m.current
	}
	for i := range m.trips {
		if m.trips[i].ID == *id {
			return &m.trips[i]
		}
	}
	return nil
}

// setCurrentLocked replaces the snapshot and re-derives the parsed days.
func (m *Machine) setCurrentLocked(trip models.Trip) {
	m.current = &trip
	m.days = itinerary.Parse(trip.Itinerary)
}

// OnTripsRefreshed reconciles against a fresh trip list. The snapshot is
// always re-resolved from the new list, never trusted blindly, so a stale
// async completion cannot clobber newer state. A selection that no longer
// resolves sends trip-scoped views back to Create.
func (m *Machine) OnTripsRefreshed(trips []models.Trip) models.View {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.trips = trips
	m.degraded = false

	if id := m.sel.Selected(); id != nil {
		found := false
		for i := range trips {
			if trips[i].ID == *id {
				m.setCurrentLocked(trips[i])
				m.editPending = false
				found = true
				break
			}
		}
		if !found {
			m.current = nil
			m.days = nil
		}
	}
	return m.enterLocked(m.sel.View())
}

// OnTripReloaded folds a single reloaded trip into the list and, when it is
// the current selection, confirms any pending optimistic edit.
func (m *Machine) OnTripReloaded(trip models.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()

	replaced := false
	for i := range m.trips {
		if m.trips[i].ID == trip.ID {
			m.trips[i] = trip
			replaced = true
			break
		}
	}
	if !replaced {
		m.trips = append(m.trips, trip)
	}

	if id := m.sel.Selected(); id != nil && *id == trip.ID {
		m.setCurrentLocked(trip)
		m.editPending = false
	}
}

// EditDayActivities applies a local day edit optimistically. The edit stays
// pending until a full trip reload confirms it; callers must not present it
// as durable before then.
func (m *Machine) EditDayActivities(dayNumber int, activities []string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.days {
		if m.days[i].Number == dayNumber {
			edited := make([]string, len(activities))
			copy(edited, activities)
			m.days[i].Activities = edited
			m.days[i].TotalCost = itinerary.ActivitiesCost(edited)
			m.editPending = true
			return true
		}
	}
	return false
}

// AppendAssistantMessage appends to the ordered message log in receipt order.
func (m *Machine) AppendAssistantMessage(msg models.ChatMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	if msg.ReceivedAt.IsZero() {
		msg.ReceivedAt = time.Now()
	}
	m.messages = append(m.messages, msg)
}

// ApplyTripPatch shallow-merges a pushed field update into the matching trip.
// When the trip is the current selection the snapshot is refreshed from the
// same merge so the two never diverge. Patches for unknown trips are dropped.
func (m *Machine) ApplyTripPatch(patch models.TripPatch) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.trips {
		if m.trips[i].ID == patch.ID {
			patch.Apply(&m.trips[i])
			if id := m.sel.Selected(); id != nil && *id == patch.ID {
				m.setCurrentLocked(m.trips[i])
			}
			return
		}
	}

	// The selection snapshot can exist before the list knows the trip.
	if m.current != nil && m.current.ID == patch.ID {
		merged := *m.current
		patch.Apply(&merged)
		m.setCurrentLocked(merged)
		return
	}

	m.logger.Debug("Dropping patch for unknown trip", zap.Int("trip_id", patch.ID))
}

// ReplaceNearbyPlaces swaps the location-derived context wholesale.
func (m *Machine) ReplaceNearbyPlaces(places []models.NearbyPlace) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nearby = make([]models.NearbyPlace, len(places))
	copy(m.nearby, places)
}

// SetDegraded flags that a collaborator is unreachable; the current view
// stays renderable on cached data.
func (m *Machine) SetDegraded(degraded bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.degraded = degraded
}

func (m *Machine) Degraded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.degraded
}

func (m *Machine) EditPending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.editPending
}

// View returns the active view tag.
func (m *Machine) View() models.View {
	return m.sel.View()
}

// CurrentTrip returns a copy of the selected-trip snapshot, nil when absent.
func (m *Machine) CurrentTrip() *models.Trip {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	trip := *m.current
	return &trip
}

// Days returns a copy of the parsed days for the current snapshot.
func (m *Machine) Days() []models.ItineraryDay {
	m.mu.Lock()
	defer m.mu.Unlock()
	days := make([]models.ItineraryDay, len(m.days))
	copy(days, m.days)
	return days
}

// Trips returns a copy of the loaded trip list.
func (m *Machine) Trips() []models.Trip {
	m.mu.Lock()
	defer m.mu.Unlock()
	trips := make([]models.Trip, len(m.trips))
	copy(trips, m.trips)
	return trips
}

// Messages returns a copy of the assistant log in receipt order.
func (m *Machine) Messages() []models.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	messages := make([]models.ChatMessage, len(m.messages))
	copy(messages, m.messages)
	return messages
}

// NearbyPlaces returns a copy of the latest location context.
func (m *Machine) NearbyPlaces() []models.NearbyPlace {
	m.mu.Lock()
	defer m.mu.Unlock()
	places := make([]models.NearbyPlace, len(m.nearby))
	copy(places, m.nearby)
	return places
}
