// Package main provides the API server entry point for the FNPE federation
// backend.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/WilliamRochafnpe/FNPE/internal/api"
	"github.com/WilliamRochafnpe/FNPE/internal/assist"
	"github.com/WilliamRochafnpe/FNPE/internal/auth"
	"github.com/WilliamRochafnpe/FNPE/internal/config"
	"github.com/WilliamRochafnpe/FNPE/internal/logging"
	"github.com/WilliamRochafnpe/FNPE/internal/service"
	"github.com/WilliamRochafnpe/FNPE/internal/session"
	"github.com/WilliamRochafnpe/FNPE/internal/store"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logging
	logging.InitGlobal(logging.ParseLevel(cfg.Logging.Level), logging.ParseFormat(cfg.Logging.Format))
	logger := logging.Global()
	logger.WithFields(map[string]interface{}{
		"level":  cfg.Logging.Level,
		"format": cfg.Logging.Format,
	}).Info("Structured logging initialized")

	// Initialize the storage backend
	var backend store.Backend
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		pg := &cfg.Storage.Postgres
		if err := store.RunMigrations(pg.URL(), pg.MigrationsPath); err != nil {
			logger.WithError(err).Fatal("Failed to run migrations")
		}
		backend, err = store.NewPostgresBackend(pg)
	default:
		backend, err = store.NewRedisBackend(&cfg.Storage.Redis)
	}
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to storage backend")
	}
	defer backend.Close()
	logger.WithField("backend", string(cfg.Storage.Backend)).Info("Storage backend connected")

	st := store.New(backend, logger)

	// Select the authentication strategy. The hosted identity service is
	// used when configured, otherwise one-time codes are handled locally.
	var strategy auth.Strategy
	var authority auth.SessionAuthority
	if cfg.Auth.Hosted() {
		hosted := auth.NewHostedStrategy(cfg.Auth, logger)
		strategy = hosted
		authority = hosted
		logger.Info("Using hosted identity strategy")
	} else {
		strategy = auth.NewLocalStrategy(logger)
		logger.Info("Using local one-time-code strategy")
	}
	recovery := auth.NewRecovery(logger)

	// Load the document and restore any persisted session.
	sessions := session.NewManager(st, authority, logger)
	startCtx := context.Background()
	if restored, err := sessions.Start(startCtx); err != nil {
		logger.WithError(err).Fatal("Failed to start session manager")
	} else if restored != "" {
		logger.Info("Previous session restored")
	}

	// Initialize services
	membership := service.NewMembershipService(sessions, logger)
	certification := service.NewCertificationService(sessions, logger)
	events := service.NewEventService(sessions, logger)
	users := service.NewUserService(sessions, logger)
	settings := service.NewSettingsService(sessions, logger)

	assistant := assist.NewClient(cfg.Assistant, logger)
	if !assistant.Configured() {
		logger.Warn("Assistant is not configured; /api/assistant will return errors")
	}

	server := api.NewServer(cfg, logger, sessions, st, strategy, recovery,
		membership, certification, events, users, settings, assistant)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	logger.WithFields(map[string]interface{}{
		"host": cfg.Server.Host,
		"port": cfg.Server.Port,
	}).Info("Server started successfully")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server exited")
}
