package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/FACorreiaa/go-tripplan/internal/app/clients"
	"github.com/FACorreiaa/go-tripplan/internal/app/handlers"
	"github.com/FACorreiaa/go-tripplan/internal/app/messagelog"
	"github.com/FACorreiaa/go-tripplan/internal/app/models"
	"github.com/FACorreiaa/go-tripplan/internal/app/realtime"
	"github.com/FACorreiaa/go-tripplan/internal/app/selection"
	"github.com/FACorreiaa/go-tripplan/internal/app/viewstate"
	"github.com/FACorreiaa/go-tripplan/internal/pkg/config"
	"github.com/FACorreiaa/go-tripplan/internal/routes"
	"github.com/FACorreiaa/go-tripplan/internal/server"
	applog "github.com/FACorreiaa/go-tripplan/pkg/logger"
)

const messageHistoryLimit = 50

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file, using environment variables")
	}

	// Initialize logger
	if err := applog.Init(zapcore.InfoLevel, zap.String("service", "go-tripplan")); err != nil {
		return err
	}
	logger := applog.Log
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Initialize observability
	otelShutdown, err := server.InitObservability("go-tripplan", ":"+cfg.MetricsPort, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			logger.Error("Failed to shutdown OpenTelemetry", zap.Error(err))
		}
	}()

	// Create server (database pool + migrations)
	srv, err := server.New(cfg, logger)
	if err != nil {
		return err
	}
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Durable selection over Postgres, view state machine on top
	kv := selection.NewPostgresKV(srv.GetDBPool(), logger)
	sel := selection.NewStore(kv, logger)
	machine := viewstate.NewMachine(sel, logger)

	// Collaborator clients
	directory := clients.NewDirectory(cfg.Directory.BaseURL, 30*time.Second, logger)
	var generator clients.ItinerarySource
	if cfg.GenAI.APIKey != "" {
		genai, genErr := clients.NewGenAISource(ctx, cfg.GenAI.APIKey, cfg.GenAI.Model, logger)
		if genErr != nil {
			logger.Warn("Itinerary generator unavailable, trips will be created without one", zap.Error(genErr))
		} else {
			generator = genai
		}
	} else {
		logger.Info("GEMINI_API_KEY not set, itinerary generation disabled")
	}

	machine.SetRefreshFunc(func(tripID int) {
		reloadCtx, reloadCancel := context.WithTimeout(ctx, 15*time.Second)
		defer reloadCancel()
		trip, err := directory.GetTrip(reloadCtx, tripID)
		if err != nil {
			logger.Warn("Booked-data refresh failed", zap.Int("trip_id", tripID), zap.Error(err))
			return
		}
		machine.OnTripReloaded(*trip)
	})

	// Seed the machine: trip list from the directory, message history from Postgres
	trips, err := directory.ListTrips(ctx)
	if err != nil {
		if !errors.Is(err, models.ErrDegraded) {
			return err
		}
		machine.SetDegraded(true)
	}
	view := machine.Start(trips)
	logger.Info("View state seeded", zap.String("view", string(view)), zap.Int("trips", len(trips)))

	msgRepo := messagelog.NewRepo(srv.GetDBPool(), logger)
	if history, err := msgRepo.Recent(ctx, messageHistoryLimit); err != nil {
		logger.Warn("Could not load message history", zap.Error(err))
	} else {
		for _, msg := range history {
			machine.AppendAssistantMessage(msg)
		}
	}

	// Realtime push channel
	adapter := realtime.NewAdapter(machine, logger)
	adapter.SetMessageSink(func(msg models.ChatMessage) {
		sinkCtx, sinkCancel := context.WithTimeout(ctx, 5*time.Second)
		defer sinkCancel()
		if err := msgRepo.Append(sinkCtx, msg); err != nil {
			logger.Warn("Could not persist assistant message", zap.Error(err))
		}
	})
	socket := realtime.NewSocket(cfg.Push.URL, adapter, machine, logger)
	go socket.Listen(ctx)

	// Setup router
	appHandlers := &routes.AppHandlers{
		Trips: handlers.NewTripHandlers(directory, generator, machine, logger),
		State: handlers.NewStateHandlers(machine, logger),
		Push:  handlers.NewPushHandlers(adapter, logger),
	}
	router := server.SetupRouter(appHandlers, cfg.JWTSecret, logger)
	srv.SetRouter(router)

	// Start pprof server (on separate port, not exposed publicly)
	server.StartPprofServer(":"+cfg.PprofPort, logger)

	// Create HTTP server
	httpServer := srv.HTTPServer()

	// Setup graceful shutdown
	done := make(chan bool, 1)
	go server.GracefulShutdown(httpServer, logger, done)

	// Start server
	logger.Info("Server starting", zap.String("port", cfg.ServerPort))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", zap.Error(err))
	}

	// Wait for graceful shutdown to complete
	<-done
	logger.Info("Graceful shutdown complete")

	return nil
}
