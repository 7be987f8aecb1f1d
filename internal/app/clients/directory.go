// Package clients holds the external collaborators the core talks to: the
// trip directory and the itinerary generator. Both are specified only at
// their interface boundary; retry policy lives here, never in the core.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-tripplan/internal/app/models"
)

const (
	tripsCacheKey      = "directory.trips"
	prefetchConcurrent = 4
)

// Directory is the HTTP client for the trip directory. Responses are cached
// briefly, and the last good list is kept so an outage degrades to stale
// data instead of an empty screen.
type Directory struct {
	baseURL    string
	httpClient *http.Client
	cache      *cache.Cache
	logger     *zap.Logger

	mu       sync.Mutex
	lastGood []models.Trip
}

func NewDirectory(baseURL string, ttl time.Duration, logger *zap.Logger) *Directory {
	return &Directory{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      cache.New(ttl, 2*ttl),
		logger:     logger,
	}
}

// CreateTripRequest carries the user's trip parameters to the directory.
type CreateTripRequest struct {
	Destination string     `json:"destination"`
	Duration    int        `json:"duration"`
	Budget      *float64   `json:"budget,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

// ListTrips returns the trip list, served from cache when fresh. On
// collaborator failure it returns the last good list wrapped in ErrDegraded
// so callers can render stale data and flag the state machine.
func (d *Directory) ListTrips(ctx context.Context) ([]models.Trip, error) {
	if cached, found := d.cache.Get(tripsCacheKey); found {
		return cached.([]models.Trip), nil
	}

	var trips []models.Trip
	if err := d.getJSON(ctx, "/trips", &trips); err != nil {
		d.logger.Warn("Trip directory unreachable, serving last good list", zap.Error(err))
		return d.lastGoodTrips(), fmt.Errorf("listing trips: %w", models.ErrDegraded)
	}

	// The list endpoint may omit itinerary text; resolve it up front so
	// selecting a trip does not need a second round-trip.
	filled, err := d.PrefetchItineraries(ctx, trips)
	if err != nil {
		d.logger.Warn("Itinerary prefetch incomplete, caching list as returned", zap.Error(err))
	} else {
		trips = filled
	}

	d.cache.Set(tripsCacheKey, trips, cache.DefaultExpiration)
	d.mu.Lock()
	d.lastGood = trips
	d.mu.Unlock()
	return trips, nil
}

// GetTrip fetches one trip with its itinerary text.
func (d *Directory) GetTrip(ctx context.Context, id int) (*models.Trip, error) {
	var trip models.Trip
	if err := d.getJSON(ctx, fmt.Sprintf("/trips/%d", id), &trip); err != nil {
		return nil, err
	}
	return &trip, nil
}

// CreateTrip registers a new trip and returns the directory's record,
// including the assigned id. The list cache is invalidated.
func (d *Directory) CreateTrip(ctx context.Context, req CreateTripRequest) (*models.Trip, error) {
	var trip models.Trip
	if err := d.sendJSON(ctx, http.MethodPost, "/trips", req, &trip); err != nil {
		return nil, err
	}
	d.cache.Delete(tripsCacheKey)
	return &trip, nil
}

// SaveItinerary stores generated itinerary text on a trip.
func (d *Directory) SaveItinerary(ctx context.Context, id int, text string) error {
	body := map[string]string{"itinerary": text}
	if err := d.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/trips/%d/itinerary", id), body, nil); err != nil {
		return err
	}
	d.cache.Delete(tripsCacheKey)
	return nil
}

// SaveDayActivities persists an edited day. The caller keeps the edit marked
// pending until a reload confirms it.
func (d *Directory) SaveDayActivities(ctx context.Context, id, day int, activities []string) error {
	body := map[string]any{"activities": activities}
	if err := d.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/trips/%d/days/%d", id, day), body, nil); err != nil {
		return err
	}
	d.cache.Delete(tripsCacheKey)
	return nil
}

// PrefetchItineraries fills in itinerary text for trips the list endpoint
// returned without one, a few at a time.
func (d *Directory) PrefetchItineraries(ctx context.Context, trips []models.Trip) ([]models.Trip, error) {
	filled := make([]models.Trip, len(trips))
	copy(filled, trips)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(prefetchConcurrent)
	for i := range filled {
		if filled[i].Itinerary != "" {
			continue
		}
		g.Go(func() error {
			trip, err := d.GetTrip(ctx, filled[i].ID)
			if err != nil {
				return err
			}
			filled[i] = *trip
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return trips, err
	}
	return filled, nil
}

func (d *Directory) lastGoodTrips() []models.Trip {
	d.mu.Lock()
	defer d.mu.Unlock()
	trips := make([]models.Trip, len(d.lastGood))
	copy(trips, d.lastGood)
	return trips
}

func (d *Directory) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+path, nil)
	if err != nil {
		return err
	}
	return d.do(req, out)
}

func (d *Directory) sendJSON(ctx context.Context, method, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, d.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return d.do(req, out)
}

func (d *Directory) do(req *http.Request, out any) error {
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return models.ErrNotFound
	case resp.StatusCode >= 400:
		return fmt.Errorf("trip directory returned %s for %s", resp.Status, req.URL.Path)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
