package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"camrelay/config"
	"camrelay/httpServer"
	"camrelay/internal/broadcaster"
	"camrelay/internal/framestore"
	"camrelay/internal/metrics"
	"camrelay/internal/registry"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set up logging
	var logger *zap.Logger
	var err error
	if cfg.Debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting camrelay server",
		zap.String("http_addr", cfg.HTTPAddr),
		zap.Duration("frame_interval", cfg.FrameInterval),
		zap.String("stream_boundary", cfg.StreamBoundary))

	// Initialize core state
	store := framestore.New()
	cameraRegistry := registry.New()
	rosterBroadcaster := broadcaster.New(cameraRegistry, logger)
	logger.Info("Frame store and camera registry initialized")

	// Initialize metrics
	m := metrics.New(nil)
	logger.Info("Prometheus metrics initialized")

	// Initialize HTTP server
	srv := httpServer.New(store, cameraRegistry, rosterBroadcaster, m, cfg, logger)

	// Cameras upload from embedded devices on other origins; keep the relay
	// fully CORS-open like the rest of the surface.
	handler := cors.AllowAll().Handler(srv.Handler())

	httpSrv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler,
	}

	logger.Info("Endpoints ready",
		zap.Strings("routes", []string{
			"POST /upload/:cameraId",
			"GET  /snapshot/:cameraId",
			"GET  /stream/:cameraId",
			"GET  /timestamp/:cameraId",
			"GET  /ws/cameras",
			"GET  /api/v1/cameras",
			"GET  /metrics",
		}))

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		logger.Error("HTTP server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	// Open MJPEG streams never finish on their own, so a graceful Shutdown
	// can only drain the short-lived requests. After the timeout, Close drops
	// the remaining stream connections, which ends their sampling loops.
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Info("Closing remaining stream connections", zap.Error(err))
		_ = httpSrv.Close()
	}
	rosterBroadcaster.Close()

	logger.Info("Server stopped")
}
