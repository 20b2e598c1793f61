package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/hackgods/clinic-dashboard-api/internal/api"
	"github.com/hackgods/clinic-dashboard-api/internal/clinic"
	"github.com/hackgods/clinic-dashboard-api/internal/config"
	"github.com/hackgods/clinic-dashboard-api/internal/db"
	"github.com/hackgods/clinic-dashboard-api/internal/logging"
)

var version = "dev"

func main() {
	startedAt := time.Now()

	cfg, err := config.Load()
	if err != nil {
		l := logging.New("production", "info")
		l.Fatal().Err(err).Msg("config load error")
	}

	logger := logging.New(cfg.Env, cfg.LogLevel)
	logger.Info().
		Str("env", cfg.Env).
		Str("http_port", cfg.HTTPPort).
		Str("store", cfg.StoreDriver).
		Str("timezone", cfg.Location.String()).
		Msg("api-server starting up")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(rootCtx, cfg, logger, startedAt); err != nil {
		logger.Error().Err(err).Msg("api-server stopped")
		stop()
		os.Exit(1)
	}
	logger.Info().Msg("api-server stopped")
}

func run(ctx context.Context, cfg config.Config, logger zerolog.Logger, startedAt time.Time) error {
	store, err := db.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("store connection error: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Error().Err(err).Msg("error closing store")
		}
	}()

	calendar := clinic.NewCalendar(cfg.Location)

	handler := api.NewRouter(api.RouterConfig{
		Bookings:     clinic.NewBookingService(store.Store, calendar),
		Doctors:      clinic.NewDoctorService(store.Store, store.Store, calendar),
		Patients:     clinic.NewPatientService(store.Store),
		Store:        store.Store,
		Calendar:     calendar,
		Logger:       logger,
		Env:          cfg.Env,
		Production:   cfg.IsProduction(),
		Version:      version,
		FrontendURL:  cfg.FrontendURL,
		MaxBodyBytes: cfg.MaxBodyBytes,
		StartedAt:    startedAt,
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("http server listening")
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Dur("timeout", cfg.ShutdownTimeout).Msg("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
