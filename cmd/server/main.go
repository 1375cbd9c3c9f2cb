package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"vehicle-catalog/internal/catalog"
	"vehicle-catalog/internal/config"
	"vehicle-catalog/internal/images"
	"vehicle-catalog/internal/storage"
)

// application holds the application-wide dependencies for the API server.
type application struct {
	logger          *slog.Logger
	catalog         *catalog.Service
	uploadsDir      string
	legacyEmptyList bool
}

// openStore builds the persistence adapter selected by configuration.
func openStore(cfg *config.Config) (storage.VehicleStore, error) {
	switch cfg.StoreBackend {
	case config.BackendBolt:
		return storage.NewBoltStore(cfg.StorePath)
	default:
		return storage.NewJSONStore(cfg.StorePath)
	}
}

func main() {
	configPath := flag.String("config", "", "Path to config file (optional)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger.Info("Configuration loaded", "backend", cfg.StoreBackend, "store_path", cfg.StorePath, "uploads_dir", cfg.UploadsDir)

	store, err := openStore(cfg)
	if err != nil {
		logger.Error("Failed to initialize vehicle store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	ingestor, err := images.NewIngestor(cfg.UploadsDir, logger)
	if err != nil {
		logger.Error("Failed to initialize image ingestor", "error", err)
		os.Exit(1)
	}

	app := &application{
		logger:          logger,
		catalog:         catalog.NewService(store, ingestor, logger),
		uploadsDir:      cfg.UploadsDir,
		legacyEmptyList: cfg.LegacyEmptyList,
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      app.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	logger.Info("Starting catalog server", "address", fmt.Sprintf("http://localhost%s", addr))
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
