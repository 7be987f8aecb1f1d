package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripplan/internal/app/domain/itinerary"
	"github.com/FACorreiaa/go-tripplan/internal/app/models"
	"github.com/FACorreiaa/go-tripplan/internal/app/observability/metrics"
	"github.com/FACorreiaa/go-tripplan/internal/app/viewstate"
)

type StateHandlers struct {
	machine *viewstate.Machine
	logger  *zap.Logger
}

func NewStateHandlers(machine *viewstate.Machine, logger *zap.Logger) *StateHandlers {
	return &StateHandlers{machine: machine, logger: logger}
}

// GetState returns the full render snapshot: active view, selected trip,
// parsed days with per-day locations, totals, messages and context flags.
func (h *StateHandlers) GetState(c *gin.Context) {
	trip := h.machine.CurrentTrip()
	days := h.machine.Days()

	resp := gin.H{
		"view":         h.machine.View(),
		"trip":         trip,
		"days":         days,
		"messages":     h.machine.Messages(),
		"nearby":       h.machine.NearbyPlaces(),
		"degraded":     h.machine.Degraded(),
		"edit_pending": h.machine.EditPending(),
	}

	if trip != nil {
		total := itinerary.TripTotal(days)
		resp["total_cost"] = total
		resp["total_cost_display"] = itinerary.FormatAmount(total)
		if trip.Budget != nil {
			remainder := itinerary.BudgetRemainder(*trip.Budget, total)
			resp["budget_remaining"] = remainder
			resp["budget_remaining_display"] = itinerary.FormatAmount(remainder)
		}
		resp["locations"] = itinerary.DayLocations(days, trip.Destination)
	}

	c.JSON(http.StatusOK, resp)
}

type setViewRequest struct {
	View string `json:"view"`
}

// SetView requests a view transition. The machine applies the entry guard,
// so the response carries the view actually entered, which may be the
// create fallback rather than the one requested.
func (h *StateHandlers) SetView(c *gin.Context) {
	var req setViewRequest
	if err := c.ShouldBindJSON(&req); err != nil || !models.ValidView(req.View) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown view"})
		return
	}

	entered := h.machine.SetView(models.View(req.View))
	metrics.Get().ViewTransitionsTotal.Add(c.Request.Context(), 1,
		metric.WithAttributes(
			attribute.String("requested", req.View),
			attribute.String("entered", string(entered)),
		))

	c.JSON(http.StatusOK, gin.H{
		"view": entered,
		"trip": h.machine.CurrentTrip(),
		"days": h.machine.Days(),
	})
}

type parsePreviewRequest struct {
	Text        string `json:"text"`
	Destination string `json:"destination"`
}

type classifiedDay struct {
	models.ItineraryDay
	Lines     []models.ActivityLine `json:"lines"`
	Locations []string              `json:"locations"`
}

// ParsePreview parses raw itinerary text without touching any state, for
// previewing a draft before it is saved to a trip.
func (h *StateHandlers) ParsePreview(c *gin.Context) {
	var req parsePreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	m := metrics.Get()
	m.ParseRequestsTotal.Add(c.Request.Context(), 1)
	start := time.Now()
	days := itinerary.Parse(req.Text)
	m.ParseDurationSeconds.Record(c.Request.Context(), time.Since(start).Seconds())
	m.ParsedDaysTotal.Add(c.Request.Context(), int64(len(days)))

	classified := make([]classifiedDay, len(days))
	for i, day := range days {
		lines := make([]models.ActivityLine, len(day.Activities))
		for j, activity := range day.Activities {
			lines[j] = itinerary.Classify(activity)
		}
		classified[i] = classifiedDay{
			ItineraryDay: day,
			Lines:        lines,
			Locations:    itinerary.ExtractLocations(day.Activities, req.Destination),
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"days":       classified,
		"total_cost": itinerary.TripTotal(days),
	})
}
