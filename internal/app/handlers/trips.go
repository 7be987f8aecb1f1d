// Package handlers exposes the planner over a JSON API. Handlers stay thin:
// parsing and view rules live in the domain packages, collaborator policy in
// the clients package.
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripplan/internal/app/clients"
	"github.com/FACorreiaa/go-tripplan/internal/app/domain/itinerary"
	"github.com/FACorreiaa/go-tripplan/internal/app/models"
	"github.com/FACorreiaa/go-tripplan/internal/app/observability/metrics"
	"github.com/FACorreiaa/go-tripplan/internal/app/viewstate"
)

type TripHandlers struct {
	directory *clients.Directory
	generator clients.ItinerarySource
	machine   *viewstate.Machine
	logger    *zap.Logger
}

func NewTripHandlers(directory *clients.Directory, generator clients.ItinerarySource, machine *viewstate.Machine, logger *zap.Logger) *TripHandlers {
	return &TripHandlers{directory: directory, generator: generator, machine: machine, logger: logger}
}

// ListTrips refreshes the trip list from the directory and reconciles the
// view state against it. A directory outage degrades to the cached list.
func (h *TripHandlers) ListTrips(c *gin.Context) {
	m := metrics.Get()
	m.TripRequestsTotal.Add(c.Request.Context(), 1,
		metric.WithAttributes(attribute.String("operation", "list")))

	start := time.Now()
	trips, err := h.directory.ListTrips(c.Request.Context())
	m.DirectoryCallDuration.Record(c.Request.Context(), time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("operation", "list")))

	if err != nil {
		if !errors.Is(err, models.ErrDegraded) {
			h.logger.Error("Trip list refresh failed", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "trip directory unavailable"})
			return
		}
		h.machine.SetDegraded(true)
	}

	view := h.machine.OnTripsRefreshed(trips)
	if errors.Is(err, models.ErrDegraded) {
		// OnTripsRefreshed clears the flag for a successful reconcile; this
		// one ran on stale data.
		h.machine.SetDegraded(true)
	}

	c.JSON(http.StatusOK, gin.H{
		"trips":    trips,
		"view":     view,
		"degraded": h.machine.Degraded(),
	})
}

type createTripRequest struct {
	Destination string     `json:"destination"`
	Duration    int        `json:"duration"`
	Budget      *float64   `json:"budget"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Interests   []string   `json:"interests"`
}

// CreateTrip registers the trip, asks the itinerary source for text, stores
// it and selects the new trip. Generation failure is not fatal: the trip
// exists, the itinerary view just renders empty until a later regeneration.
func (h *TripHandlers) CreateTrip(c *gin.Context) {
	var req createTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Destination == "" || req.Duration < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "destination and a positive duration are required"})
		return
	}

	trip, err := h.directory.CreateTrip(c.Request.Context(), clients.CreateTripRequest{
		Destination: req.Destination,
		Duration:    req.Duration,
		Budget:      req.Budget,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		h.logger.Error("Trip creation failed", zap.String("destination", req.Destination), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not create trip"})
		return
	}

	if h.generator != nil {
		text, genErr := h.generator.GenerateItinerary(c.Request.Context(), clients.GenerateRequest{
			Destination: req.Destination,
			Duration:    req.Duration,
			Budget:      req.Budget,
			Interests:   req.Interests,
		})
		if genErr != nil {
			h.logger.Warn("Itinerary generation failed, trip created without one",
				zap.Int("trip_id", trip.ID), zap.Error(genErr))
		} else if saveErr := h.directory.SaveItinerary(c.Request.Context(), trip.ID, text); saveErr != nil {
			h.logger.Warn("Failed to store generated itinerary", zap.Int("trip_id", trip.ID), zap.Error(saveErr))
		} else {
			trip.Itinerary = text
		}
	}

	h.machine.OnTripReloaded(*trip)
	view := h.machine.SelectTrip(trip.ID)

	c.JSON(http.StatusCreated, gin.H{
		"trip": trip,
		"view": view,
		"days": h.machine.Days(),
	})
}

// SelectTrip sets the durable selection and enters the itinerary view.
func (h *TripHandlers) SelectTrip(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trip id"})
		return
	}

	view := h.machine.SelectTrip(id)
	if view != models.ViewItinerary {
		c.JSON(http.StatusNotFound, gin.H{"error": "trip does not resolve", "view": view})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"view": view,
		"trip": h.machine.CurrentTrip(),
		"days": h.machine.Days(),
	})
}

type editDayRequest struct {
	Activities []string `json:"activities"`
}

// EditDay applies a day edit optimistically, persists it, and reloads the
// trip to confirm. If the reload cannot happen the edit stays pending.
func (h *TripHandlers) EditDay(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trip id"})
		return
	}
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid day number"})
		return
	}

	var req editDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	current := h.machine.CurrentTrip()
	if current == nil || current.ID != id {
		c.JSON(http.StatusConflict, gin.H{"error": "trip is not the current selection"})
		return
	}
	if !h.machine.EditDayActivities(day, req.Activities) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown day"})
		return
	}

	if err := h.directory.SaveDayActivities(c.Request.Context(), id, day, req.Activities); err != nil {
		h.logger.Warn("Day edit not yet persisted", zap.Int("trip_id", id), zap.Int("day", day), zap.Error(err))
	} else if reloaded, reloadErr := h.directory.GetTrip(c.Request.Context(), id); reloadErr == nil {
		h.machine.OnTripReloaded(*reloaded)
	}

	c.JSON(http.StatusOK, gin.H{
		"days":         h.machine.Days(),
		"edit_pending": h.machine.EditPending(),
	})
}

// ExportCalendar renders the selected trip's itinerary as an iCalendar file.
func (h *TripHandlers) ExportCalendar(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trip id"})
		return
	}

	trip := h.machine.CurrentTrip()
	days := h.machine.Days()
	if trip == nil || trip.ID != id {
		fetched, fetchErr := h.directory.GetTrip(c.Request.Context(), id)
		if fetchErr != nil {
			status := http.StatusBadGateway
			if errors.Is(fetchErr, models.ErrNotFound) {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": "trip unavailable"})
			return
		}
		trip = fetched
		days = itinerary.Parse(fetched.Itinerary)
	}

	ical, err := itinerary.ExportCalendar(*trip, days)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="itinerary.ics"`)
	c.Data(http.StatusOK, "text/calendar", []byte(ical))
}
