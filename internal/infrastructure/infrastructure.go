// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, storage, metrics) that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"

	"github.com/JaimeStill/rental-portal/internal/config"
	"github.com/JaimeStill/rental-portal/pkg/database"
	"github.com/JaimeStill/rental-portal/pkg/lifecycle"
	"github.com/JaimeStill/rental-portal/pkg/logging"
	"github.com/JaimeStill/rental-portal/pkg/metrics"
	"github.com/JaimeStill/rental-portal/pkg/signing"
	"github.com/JaimeStill/rental-portal/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Metrics   *metrics.Recorder
	Signer    *signing.Signer
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
// Missing provider credentials fail here, before any request is attempted.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := logging.New(&cfg.Logging)

	signer, err := signing.NewSigner(cfg.Cloudinary.Credentials(), nil)
	if err != nil {
		return nil, fmt.Errorf("signer init failed: %w", err)
	}

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	var recorder *metrics.Recorder
	if cfg.Metrics.IsEnabled() {
		recorder = metrics.New()
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Metrics:   recorder,
		Signer:    signer,
	}, nil
}

// Start initializes all infrastructure systems and registers them with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	return nil
}
