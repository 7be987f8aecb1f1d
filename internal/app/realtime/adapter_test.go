package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripplan/internal/app/models"
	"github.com/FACorreiaa/go-tripplan/internal/app/selection"
	"github.com/FACorreiaa/go-tripplan/internal/app/viewstate"
)

func newAdapter(t *testing.T, trips []models.Trip) (*Adapter, *viewstate.Machine) {
	t.Helper()
	sel := selection.NewStore(selection.NewMemoryKV(), zap.NewNop())
	machine := viewstate.NewMachine(sel, zap.NewNop())
	machine.Start(trips)
	return NewAdapter(machine, zap.NewNop()), machine
}

func TestAdapterAssistantReplies(t *testing.T) {
	adapter, machine := newAdapter(t, nil)

	adapter.Handle(models.PushEvent{
		Kind:    models.PushAssistantReply,
		Message: &models.ChatMessage{Content: "first"},
	})
	adapter.Handle(models.PushEvent{
		Kind:    models.PushAssistantReply,
		Message: &models.ChatMessage{Content: "second"},
	})

	messages := machine.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, "first", messages[0].Content)
	assert.Equal(t, "second", messages[1].Content)
	assert.NotEqual(t, messages[0].ID, messages[1].ID)

	t.Run("missing payload is dropped", func(t *testing.T) {
		adapter.Handle(models.PushEvent{Kind: models.PushAssistantReply})
		assert.Len(t, machine.Messages(), 2)
	})
}

func TestAdapterTripUpdates(t *testing.T) {
	trips := []models.Trip{
		{ID: 7, Status: models.TripStatusUpcoming, Destination: "Lisbon"},
		{ID: 8, Status: models.TripStatusPlanning, Destination: "Porto"},
	}

	t.Run("patch merges into the list", func(t *testing.T) {
		adapter, machine := newAdapter(t, trips)

		status := models.TripStatusActive
		adapter.Handle(models.PushEvent{
			Kind: models.PushTripUpdate,
			Trip: &models.TripPatch{ID: 8, Status: &status},
		})

		for _, trip := range machine.Trips() {
			if trip.ID == 8 {
				assert.Equal(t, models.TripStatusActive, trip.Status)
				assert.Equal(t, "Porto", trip.Destination, "untouched fields survive the merge")
			}
		}
	})

	t.Run("patch to the selection refreshes the snapshot", func(t *testing.T) {
		adapter, machine := newAdapter(t, trips)
		machine.SelectTrip(7)

		text := "Day 1: Arrival\nCheck in"
		adapter.Handle(models.PushEvent{
			Kind: models.PushTripUpdate,
			Trip: &models.TripPatch{ID: 7, Itinerary: &text},
		})

		require.NotNil(t, machine.CurrentTrip())
		assert.Equal(t, text, machine.CurrentTrip().Itinerary)
		assert.Len(t, machine.Days(), 1)
	})

	t.Run("patch for an unknown trip is dropped", func(t *testing.T) {
		adapter, machine := newAdapter(t, trips)
		before := machine.Trips()

		status := models.TripStatusCompleted
		adapter.Handle(models.PushEvent{
			Kind: models.PushTripUpdate,
			Trip: &models.TripPatch{ID: 99, Status: &status},
		})
		assert.Equal(t, before, machine.Trips())
	})
}

func TestAdapterLocationContext(t *testing.T) {
	adapter, machine := newAdapter(t, nil)

	adapter.Handle(models.PushEvent{
		Kind:   models.PushLocationContext,
		Places: []models.NearbyPlace{{Name: "Cafe A"}, {Name: "Museum B"}},
	})
	adapter.Handle(models.PushEvent{
		Kind:   models.PushLocationContext,
		Places: []models.NearbyPlace{{Name: "Harbor C"}},
	})

	places := machine.NearbyPlaces()
	require.Len(t, places, 1, "pushes replace, they never merge")
	assert.Equal(t, "Harbor C", places[0].Name)
}

func TestAdapterUnknownKind(t *testing.T) {
	adapter, machine := newAdapter(t, nil)
	adapter.Handle(models.PushEvent{Kind: "surprise"})
	assert.Empty(t, machine.Messages())
	assert.Empty(t, machine.NearbyPlaces())
}
