// Package main is the entry point for the hoteldo pricing and demand analysis service.
// It ingests the rate comparison and demand exports, keeps the cleaned records
// in SQLite, and serves competitiveness, demand and recommendation views over
// a JSON API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/hoteldo/internal/config"
	"github.com/aristath/hoteldo/internal/di"
	"github.com/aristath/hoteldo/internal/server"
	"github.com/aristath/hoteldo/pkg/logger"
)

// main orchestrates startup:
// 1. Loads configuration from environment variables (.env supported)
// 2. Initializes logging
// 3. Wires dependencies and restores the persisted dataset
// 4. Re-ingests the exports when both files are present
// 5. Starts the scheduler and the HTTP server
// 6. Waits for a shutdown signal and shuts down gracefully
func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting hoteldo")

	container, jobs, err := di.Wire(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	// WAL checkpoint happens on close
	defer container.Close()

	// A failed startup ingest keeps serving the persisted dataset
	if fileExists(cfg.RatesFile) && fileExists(cfg.RequestsFile) {
		if err := container.Scheduler.RunNow(jobs.ReloadDataset); err != nil {
			log.Warn().Err(err).Msg("Startup ingest failed, serving persisted dataset")
		}
	} else {
		log.Warn().
			Str("rates_file", cfg.RatesFile).
			Str("requests_file", cfg.RequestsFile).
			Msg("Export files not found, serving persisted dataset")
	}

	container.Scheduler.Start()

	srv := server.New(server.Config{
		Log:       log,
		Port:      cfg.Port,
		DevMode:   cfg.DevMode,
		Container: container,
		Jobs:      jobs,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Waits for a running reload to finish
	container.Scheduler.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
