package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripplan/internal/app/models"
	"github.com/FACorreiaa/go-tripplan/internal/app/observability/metrics"
	"github.com/FACorreiaa/go-tripplan/internal/app/realtime"
)

// PushHandlers ingests push events over HTTP for deployments where the
// websocket channel is not available. Events flow through the same adapter,
// so the folding semantics are identical.
type PushHandlers struct {
	adapter *realtime.Adapter
	logger  *zap.Logger
}

func NewPushHandlers(adapter *realtime.Adapter, logger *zap.Logger) *PushHandlers {
	return &PushHandlers{adapter: adapter, logger: logger}
}

func (h *PushHandlers) Ingest(c *gin.Context) {
	var event models.PushEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid push event"})
		return
	}

	metrics.Get().PushEventsTotal.Add(c.Request.Context(), 1,
		metric.WithAttributes(attribute.String("kind", string(event.Kind))))

	h.adapter.Handle(event)
	c.Status(http.StatusAccepted)
}
