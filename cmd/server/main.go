package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/inventory-console/internal/api"
	"github.com/inventory-console/internal/client"
	"github.com/inventory-console/internal/config"
	"github.com/inventory-console/internal/database"
	"github.com/inventory-console/internal/describe"
	"github.com/inventory-console/internal/preferences"
	"github.com/inventory-console/internal/repository"
	"github.com/inventory-console/internal/service"
	"github.com/inventory-console/pkg/logger"
	"github.com/rs/zerolog"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New("info", "json")
		boot.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info().Msg("Starting Inventory Console server...")

	// Initialize role storage
	storage, closeStorage, err := openPreferences(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Preferences.Driver).Msg("Failed to open preference storage")
	}
	defer closeStorage()

	roles := preferences.NewRoleStore(storage, log)
	if err := roles.Load(context.Background()); err != nil {
		log.Warn().Err(err).Msg("Failed to load stored role, using default")
	}

	// Initialize services
	items := client.New(cfg.Backend.BaseURL, cfg.Backend.Timeout, log)
	describer := describe.NewGenerator(cfg.Generator, log)
	if !cfg.Generator.Enabled() {
		log.Warn().Msg("OPENAI_API_KEY not set, blank descriptions use the fallback text")
	}
	services := service.NewServices(items, roles, describer, log)

	// Initial table load; the console still starts when the backend is down
	if _, err := services.Console.Refresh(context.Background()); err != nil {
		log.Warn().Err(err).Str("backend", cfg.Backend.BaseURL).Msg("Initial item list load failed")
	}

	// Initialize router
	router := api.NewRouter(services, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}

// openPreferences returns the storage selected by PREFERENCES_DRIVER and a
// function releasing it
func openPreferences(cfg *config.Config, log zerolog.Logger) (preferences.Storage, func(), error) {
	switch cfg.Preferences.Driver {
	case "memory":
		return preferences.NewMemoryStorage(), func() {}, nil
	case "file":
		log.Info().Str("path", cfg.Preferences.FilePath).Msg("Using file preference storage")
		return preferences.NewFileStorage(cfg.Preferences.FilePath), func() {}, nil
	case "postgres":
		db, err := database.New(&cfg.Database, log)
		if err != nil {
			return nil, nil, err
		}
		if err := db.RunMigrations(cfg.Preferences.MigrationsPath); err != nil {
			db.Close()
			return nil, nil, err
		}
		repos := repository.New(db)
		return repos.Preference, func() { db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown preference driver %q", cfg.Preferences.Driver)
	}
}
