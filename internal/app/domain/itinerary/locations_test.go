package itinerary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-tripplan/internal/app/models"
)

func TestExtractLocations(t *testing.T) {
	t.Run("verb phrases and parentheticals stripped", func(t *testing.T) {
		locations := ExtractLocations([]string{
			"Visit the Eiffel Tower (iconic landmark)",
			"Relax at a cafe and people-watch",
		}, "Paris")
		assert.Equal(t, []string{"Eiffel Tower", "Relax at a cafe"}, locations)
	})

	t.Run("trailing dash clause and currency removed", func(t *testing.T) {
		locations := ExtractLocations([]string{
			"Explore the Grand Bazaar - expect crowds after noon",
			"Dinner cruise $80",
		}, "Istanbul")
		assert.Equal(t, []string{"Grand Bazaar", "Dinner cruise"}, locations)
	})

	t.Run("at most five entries", func(t *testing.T) {
		activities := []string{
			"Visit the Alhambra", "See the Mirador de San Nicolas", "Tour the Cathedral",
			"Explore the Albaicin", "Discover Sacromonte", "Walk through Realejo",
			"Experience a flamenco show",
		}
		locations := ExtractLocations(activities, "Granada")
		assert.Len(t, locations, 5)
	})

	t.Run("length bounds enforced", func(t *testing.T) {
		activities := []string{
			"Visit " + strings.Repeat("very long place name ", 5),
			"$40",
		}
		locations := ExtractLocations(activities, "Lisbon")
		require.Len(t, locations, 1)
		assert.Equal(t, "Lisbon", locations[0])
		for _, loc := range locations {
			assert.Greater(t, len(loc), 0)
			assert.Less(t, len(loc), 50)
		}
	})

	t.Run("empty activities fall back to destination", func(t *testing.T) {
		assert.Equal(t, []string{"Porto"}, ExtractLocations(nil, "Porto"))
	})

	t.Run("unknown destination falls back to placeholder", func(t *testing.T) {
		assert.Equal(t, []string{"City Center"}, ExtractLocations(nil, ""))
	})
}

func TestDayLocations(t *testing.T) {
	days := []models.ItineraryDay{
		{Number: 1, Activities: []string{"Visit the Mercado da Ribeira"}},
		{Number: 2, Activities: nil},
	}
	byDay := DayLocations(days, "Lisbon")
	assert.Equal(t, []string{"Mercado da Ribeira"}, byDay[1])
	assert.Equal(t, []string{"Lisbon"}, byDay[2])
}
