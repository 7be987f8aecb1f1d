package server

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// shutdownGrace bounds how long in-flight requests get to finish once a
// termination signal arrives.
const shutdownGrace = 10 * time.Second

// GracefulShutdown blocks until SIGINT or SIGTERM, drains the HTTP server,
// and signals done. The pprof and metrics listeners die with the process.
func GracefulShutdown(srv *http.Server, logger *zap.Logger, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info("Signal received, draining requests", zap.Duration("grace", shutdownGrace))

	// A second signal now kills the process outright.
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Drain incomplete, closing anyway", zap.Error(err))
	}

	logger.Info("HTTP server stopped")
	done <- true
}
