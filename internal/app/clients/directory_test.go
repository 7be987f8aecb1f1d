package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripplan/internal/app/models"
)

func TestDirectoryListTrips(t *testing.T) {
	t.Run("caches the list between calls", func(t *testing.T) {
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			require.Equal(t, "/trips", r.URL.Path)
			json.NewEncoder(w).Encode([]models.Trip{{ID: 1, Destination: "Lisbon", Itinerary: "Day 1: Arrival"}})
		}))
		defer srv.Close()

		d := NewDirectory(srv.URL, time.Minute, zap.NewNop())
		for range 3 {
			trips, err := d.ListTrips(context.Background())
			require.NoError(t, err)
			require.Len(t, trips, 1)
			assert.Equal(t, "Lisbon", trips[0].Destination)
		}
		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("outage degrades to the last good list", func(t *testing.T) {
		var fail atomic.Bool
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if fail.Load() {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			json.NewEncoder(w).Encode([]models.Trip{{ID: 1, Destination: "Lisbon", Itinerary: "Day 1: Arrival"}})
		}))
		defer srv.Close()

		// Zero TTL so the second call has to hit the server again.
		d := NewDirectory(srv.URL, time.Nanosecond, zap.NewNop())
		_, err := d.ListTrips(context.Background())
		require.NoError(t, err)

		fail.Store(true)
		time.Sleep(time.Millisecond)
		trips, err := d.ListTrips(context.Background())
		require.ErrorIs(t, err, models.ErrDegraded)
		require.Len(t, trips, 1, "stale list is still served")
		assert.Equal(t, "Lisbon", trips[0].Destination)
	})

	t.Run("fills missing itinerary text before caching", func(t *testing.T) {
		var detailHits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/trips":
				json.NewEncoder(w).Encode([]models.Trip{
					{ID: 1, Destination: "Lisbon"},
					{ID: 2, Destination: "Porto", Itinerary: "Day 1: Already here"},
				})
			case "/trips/1":
				detailHits.Add(1)
				json.NewEncoder(w).Encode(models.Trip{ID: 1, Destination: "Lisbon", Itinerary: "Day 1: Fetched"})
			default:
				t.Errorf("unexpected directory call %s", r.URL.Path)
			}
		}))
		defer srv.Close()

		d := NewDirectory(srv.URL, time.Minute, zap.NewNop())
		trips, err := d.ListTrips(context.Background())
		require.NoError(t, err)
		require.Len(t, trips, 2)
		assert.Equal(t, "Day 1: Fetched", trips[0].Itinerary)
		assert.Equal(t, "Day 1: Already here", trips[1].Itinerary)

		// The cached list already carries the text.
		trips, err = d.ListTrips(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Day 1: Fetched", trips[0].Itinerary)
		assert.Equal(t, int32(1), detailHits.Load())
	})
}

func TestDirectoryGetTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/trips/7":
			json.NewEncoder(w).Encode(models.Trip{ID: 7, Destination: "Porto", Itinerary: "Day 1: Arrival"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	d := NewDirectory(srv.URL, time.Minute, zap.NewNop())

	trip, err := d.GetTrip(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Porto", trip.Destination)
	assert.Equal(t, "Day 1: Arrival", trip.Itinerary)

	_, err = d.GetTrip(context.Background(), 99)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDirectoryCreateTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/trips", r.URL.Path)

		var req CreateTripRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		json.NewEncoder(w).Encode(models.Trip{ID: 42, Destination: req.Destination, Status: models.TripStatusPlanning})
	}))
	defer srv.Close()

	d := NewDirectory(srv.URL, time.Minute, zap.NewNop())
	trip, err := d.CreateTrip(context.Background(), CreateTripRequest{Destination: "Madeira", Duration: 5})
	require.NoError(t, err)
	assert.Equal(t, 42, trip.ID)
	assert.Equal(t, models.TripStatusPlanning, trip.Status)
}

func TestDirectoryPrefetchItineraries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/trips/2", r.URL.Path, "only the trip missing text is fetched")
		json.NewEncoder(w).Encode(models.Trip{ID: 2, Itinerary: "Day 1: Arrival"})
	}))
	defer srv.Close()

	d := NewDirectory(srv.URL, time.Minute, zap.NewNop())
	trips := []models.Trip{
		{ID: 1, Itinerary: "Day 1: Already here"},
		{ID: 2},
	}

	filled, err := d.PrefetchItineraries(context.Background(), trips)
	require.NoError(t, err)
	assert.Equal(t, "Day 1: Already here", filled[0].Itinerary)
	assert.Equal(t, "Day 1: Arrival", filled[1].Itinerary)
}
