package api

import (
	"net/http"

	"github.com/JaimeStill/rental-portal/internal/accounts"
	"github.com/JaimeStill/rental-portal/internal/backend"
	"github.com/JaimeStill/rental-portal/internal/config"
	"github.com/JaimeStill/rental-portal/internal/documents"
	"github.com/JaimeStill/rental-portal/internal/dropzone"
	"github.com/JaimeStill/rental-portal/internal/invalidation"
	"github.com/JaimeStill/rental-portal/internal/uploads"
	"github.com/JaimeStill/rental-portal/pkg/openapi"
	"github.com/JaimeStill/rental-portal/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	spec *openapi.Spec,
	runtime *Runtime,
	domain *Domain,
	cfg *config.Config,
) {
	uploadsHandler := uploads.NewHandler(domain.Uploads, domain.Policies, cfg.Uploads.Folder, runtime.Logger, runtime.Pagination)
	dropzoneHandler := dropzone.NewHandler(domain.Dropzone, domain.Policies, cfg.Uploads.Folder, runtime.Logger)
	documentsHandler := documents.NewHandler(domain.Documents, runtime.Logger)
	accountsHandler := accounts.NewHandler(domain.Accounts, runtime.Logger)
	healthHandler := backend.NewHealthHandler(domain.Health, nil)
	eventsHandler := invalidation.NewHandler(domain.Hub, runtime.Logger)

	spec.AddSchemas(uploads.Spec.Schemas())
	spec.AddSchemas(dropzone.Spec.Schemas())
	spec.AddSchemas(documents.Spec.Schemas())
	spec.AddSchemas(accounts.Spec.Schemas())
	spec.AddSchemas(healthHandler.Schemas())

	routes.Register(
		mux,
		cfg.API.BasePath,
		spec,
		uploadsHandler.Routes(),
		dropzoneHandler.Routes(),
		documentsHandler.Routes(),
		accountsHandler.Routes(),
		healthHandler.Routes(),
		eventsHandler.Routes(),
	)
}
