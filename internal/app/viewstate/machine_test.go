package viewstate

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripplan/internal/app/models"
	"github.com/FACorreiaa/go-tripplan/internal/app/selection"
)

func newTestMachine(t *testing.T) (*Machine, *selection.Store) {
	t.Helper()
	sel := selection.NewStore(selection.NewMemoryKV(), zap.NewNop())
	return NewMachine(sel, zap.NewNop()), sel
}

func TestMachineStart(t *testing.T) {
	t.Run("active trip wins and opens the itinerary", func(t *testing.T) {
		m, sel := newTestMachine(t)
		view := m.Start([]models.Trip{
			{ID: 1, Status: models.TripStatusCompleted},
			{ID: 2, Status: models.TripStatusActive, Itinerary: "Day 1: Arrival\nCheck in"},
		})
		assert.Equal(t, models.ViewItinerary, view)
		require.NotNil(t, sel.Selected())
		assert.Equal(t, 2, *sel.Selected())
		require.NotNil(t, m.CurrentTrip())
		assert.Equal(t, 2, m.CurrentTrip().ID)
		assert.Len(t, m.Days(), 1)
	})

	t.Run("no active trip and no selection opens create", func(t *testing.T) {
		m, _ := newTestMachine(t)
		view := m.Start([]models.Trip{{ID: 1, Status: models.TripStatusPlanning}})
		assert.Equal(t, models.ViewCreate, view)
		assert.Nil(t, m.CurrentTrip())
	})

	t.Run("persisted selection resumes when it resolves", func(t *testing.T) {
		kv := selection.NewMemoryKV()
		sel := selection.NewStore(kv, zap.NewNop())
		id := 4
		sel.SetSelected(&id)
		sel.SetView(models.ViewHotels)

		m := NewMachine(selection.NewStore(kv, zap.NewNop()), zap.NewNop())
		view := m.Start([]models.Trip{{ID: 4, Status: models.TripStatusUpcoming}})
		assert.Equal(t, models.ViewHotels, view)
	})

	t.Run("persisted selection that no longer resolves falls back to create", func(t *testing.T) {
		kv := selection.NewMemoryKV()
		sel := selection.NewStore(kv, zap.NewNop())
		id := 99
		sel.SetSelected(&id)
		sel.SetView(models.ViewItinerary)

		m := NewMachine(selection.NewStore(kv, zap.NewNop()), zap.NewNop())
		view := m.Start([]models.Trip{{ID: 1, Status: models.TripStatusPlanning}})
		assert.Equal(t, models.ViewCreate, view)
	})
}

func TestMachineGuard(t *testing.T) {
	t.Run("trip scoped view without selection redirects to create", func(t *testing.T) {
		m, _ := newTestMachine(t)
		m.Start(nil)
		assert.Equal(t, models.ViewCreate, m.SetView(models.ViewFlights))
	})

	t.Run("selection absent from refreshed list redirects to create", func(t *testing.T) {
		m, _ := newTestMachine(t)
		m.Start([]models.Trip{{ID: 7, Status: models.TripStatusUpcoming}})
		assert.Equal(t, models.ViewItinerary, m.SelectTrip(7))

		view := m.OnTripsRefreshed([]models.Trip{{ID: 8, Status: models.TripStatusPlanning}})
		assert.Equal(t, models.ViewCreate, view)
		assert.Nil(t, m.CurrentTrip())
	})

	t.Run("guard is re-checked on every entry", func(t *testing.T) {
		m, _ := newTestMachine(t)
		m.Start([]models.Trip{{ID: 7, Status: models.TripStatusUpcoming}})
		m.SelectTrip(7)

		// The backing list changes while the itinerary is showing.
		m.OnTripsRefreshed(nil)
		assert.Equal(t, models.ViewCreate, m.SetView(models.ViewHotels))
	})
}

func TestMachineReconciliation(t *testing.T) {
	t.Run("refreshed status reaches the snapshot without reselecting", func(t *testing.T) {
		m, _ := newTestMachine(t)
		m.Start([]models.Trip{{ID: 7, Status: models.TripStatusUpcoming}})
		m.SelectTrip(7)

		m.OnTripsRefreshed([]models.Trip{{ID: 7, Status: models.TripStatusActive}})
		require.NotNil(t, m.CurrentTrip())
		assert.Equal(t, models.TripStatusActive, m.CurrentTrip().Status)
	})

	t.Run("itinerary text from a refresh is reparsed", func(t *testing.T) {
		m, _ := newTestMachine(t)
		m.Start([]models.Trip{{ID: 7, Status: models.TripStatusUpcoming}})
		m.SelectTrip(7)
		assert.Empty(t, m.Days())

		m.OnTripsRefreshed([]models.Trip{{
			ID:        7,
			Status:    models.TripStatusUpcoming,
			Itinerary: "Day 1: Arrival\nCheck in\nDay 2: Museums\nExplore",
		}})
		assert.Len(t, m.Days(), 2)
	})

	t.Run("refresh clears the degraded flag", func(t *testing.T) {
		m, _ := newTestMachine(t)
		m.Start(nil)
		m.SetDegraded(true)
		m.OnTripsRefreshed(nil)
		assert.False(t, m.Degraded())
	})
}

func TestMachineBookingViews(t *testing.T) {
	t.Run("returning from a booking view requests a refresh", func(t *testing.T) {
		m, _ := newTestMachine(t)
		m.Start([]models.Trip{{ID: 3, Status: models.TripStatusUpcoming}})
		m.SelectTrip(3)

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			refreshed []int
		)
		wg.Add(1)
		m.SetRefreshFunc(func(tripID int) {
			mu.Lock()
			refreshed = append(refreshed, tripID)
			mu.Unlock()
			wg.Done()
		})

		assert.Equal(t, models.ViewHotels, m.SetView(models.ViewHotels))
		assert.Equal(t, models.ViewItinerary, m.SetView(models.ViewItinerary))
		wg.Wait()

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, []int{3}, refreshed)
	})

	t.Run("itinerary entered from the trip list does not refresh", func(t *testing.T) {
		m, _ := newTestMachine(t)
		m.Start([]models.Trip{{ID: 3, Status: models.TripStatusUpcoming}})
		m.SetRefreshFunc(func(int) { t.Error("unexpected refresh") })

		m.SetView(models.ViewTripList)
		m.SelectTrip(3)
	})
}

func TestMachineOptimisticEdits(t *testing.T) {
	trip := models.Trip{ID: 5, Status: models.TripStatusUpcoming, Itinerary: "Day 1: Arrival\nCheck in\nCost: $20"}

	t.Run("edit applies immediately but stays pending", func(t *testing.T) {
		m, _ := newTestMachine(t)
		m.Start([]models.Trip{trip})
		m.SelectTrip(5)

		ok := m.EditDayActivities(1, []string{"Check in", "Dinner at the port", "Cost: $45"})
		assert.True(t, ok)
		assert.True(t, m.EditPending())

		days := m.Days()
		require.Len(t, days, 1)
		assert.Equal(t, 45.0, days[0].TotalCost)
		assert.Contains(t, days[0].Activities, "Dinner at the port")
	})

	t.Run("edit survives a view roundtrip until reload", func(t *testing.T) {
		m, _ := newTestMachine(t)
		m.Start([]models.Trip{trip})
		m.SelectTrip(5)
		m.EditDayActivities(1, []string{"Only this"})

		m.SetView(models.ViewManage)
		m.SetView(models.ViewItinerary)
		require.Len(t, m.Days(), 1)
		assert.Equal(t, []string{"Only this"}, m.Days()[0].Activities)
		assert.True(t, m.EditPending())
	})

	t.Run("reload confirms the edit", func(t *testing.T) {
		m, _ := newTestMachine(t)
		m.Start([]models.Trip{trip})
		m.SelectTrip(5)
		m.EditDayActivities(1, []string{"Only this"})

		confirmed := trip
		confirmed.Itinerary = "Day 1: Arrival\nOnly this"
		m.OnTripReloaded(confirmed)
		assert.False(t, m.EditPending())
		assert.Equal(t, []string{"Only this"}, m.Days()[0].Activities)
	})

	t.Run("unknown day is rejected", func(t *testing.T) {
		m, _ := newTestMachine(t)
		m.Start([]models.Trip{trip})
		m.SelectTrip(5)
		assert.False(t, m.EditDayActivities(9, []string{"x"}))
		assert.False(t, m.EditPending())
	})
}
