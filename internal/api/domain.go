package api

import (
	"github.com/JaimeStill/rental-portal/internal/accounts"
	"github.com/JaimeStill/rental-portal/internal/backend"
	"github.com/JaimeStill/rental-portal/internal/cloudinary"
	"github.com/JaimeStill/rental-portal/internal/config"
	"github.com/JaimeStill/rental-portal/internal/documents"
	"github.com/JaimeStill/rental-portal/internal/dropzone"
	"github.com/JaimeStill/rental-portal/internal/invalidation"
	"github.com/JaimeStill/rental-portal/internal/uploads"
	"github.com/JaimeStill/rental-portal/internal/validation"
)

// invalidationBuffer is the per-subscriber event buffer.
const invalidationBuffer = 32

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Policies  validation.Policies
	Uploads   uploads.System
	Dropzone  *dropzone.Dropzone
	Documents documents.System
	Accounts  accounts.System
	Health    *backend.Health
	Hub       *invalidation.Hub
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(cfg *config.Config, runtime *Runtime) *Domain {
	provider := cloudinary.New(cfg.Cloudinary.BaseURL, cfg.Cloudinary.CloudName, nil, runtime.Logger)
	backendClient := backend.NewClient(cfg.Backend.BaseURL, nil, runtime.Logger)
	hub := invalidation.NewHub(invalidationBuffer, runtime.Logger)

	ledger := uploads.NewLedger(runtime.Database.Connection(), runtime.Logger, runtime.Pagination)
	uploadsSys := uploads.New(provider, runtime.Signer, ledger, runtime.Metrics, runtime.Logger)

	dz := dropzone.New(
		uploadsSys,
		dropzone.NewPreviews(runtime.Storage, runtime.Logger),
		runtime.Metrics,
		cfg.Uploads.Concurrency,
		runtime.Logger,
	)

	documentsSys := documents.New(documents.Deps{
		Backend:  backendClient,
		Provider: provider,
		Signer:   runtime.Signer,
		Ledger:   ledger,
		Hub:      hub,
		Metrics:  runtime.Metrics,
		Logger:   runtime.Logger,
	})

	health := backend.NewHealth(
		cfg.Backend.BaseURL,
		cfg.Health.TTLDuration(),
		cfg.Health.TimeoutDuration(),
		nil,
		runtime.Metrics,
		runtime.Logger,
	)

	return &Domain{
		Policies:  validation.NewPolicies(&cfg.Uploads.Policies),
		Uploads:   uploadsSys,
		Dropzone:  dz,
		Documents: documentsSys,
		Accounts:  accounts.New(backendClient, hub, runtime.Logger),
		Health:    health,
		Hub:       hub,
	}
}
