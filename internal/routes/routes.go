package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripplan/internal/app/handlers"
	"github.com/FACorreiaa/go-tripplan/internal/app/middleware"
)

type AppHandlers struct {
	Trips *handlers.TripHandlers
	State *handlers.StateHandlers
	Push  *handlers.PushHandlers
}

// Setup registers the API routes. All state-touching routes sit behind the
// auth middleware; with no secret configured it passes everything through.
func Setup(r *gin.Engine, h *AppHandlers, jwtSecret string, log *zap.Logger) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(jwtSecret, log))
	{
		api.GET("/state", h.State.GetState)
		api.POST("/view", h.State.SetView)
		api.POST("/itinerary/parse", h.State.ParsePreview)

		api.GET("/trips", h.Trips.ListTrips)
		api.POST("/trips", h.Trips.CreateTrip)
		api.POST("/trips/:id/select", h.Trips.SelectTrip)
		api.PUT("/trips/:id/days/:day", h.Trips.EditDay)
		api.GET("/trips/:id/calendar.ics", h.Trips.ExportCalendar)

		api.POST("/push", h.Push.Ingest)
	}

	r.NoRoute(func(c *gin.Context) {
		log.Info("404 - route not found",
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
}
