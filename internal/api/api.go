// Package api assembles the domain systems into the HTTP API served under the
// configured base path.
package api

import (
	"net/http"

	"github.com/JaimeStill/rental-portal/internal/config"
	"github.com/JaimeStill/rental-portal/internal/infrastructure"
	"github.com/JaimeStill/rental-portal/pkg/middleware"
	"github.com/JaimeStill/rental-portal/pkg/openapi"
)

// Module is the API handler and the prefix it is mounted under.
type Module struct {
	Prefix  string
	Handler http.Handler
}

// NewModule builds the domain, registers every route, and renders the OpenAPI
// document served at {base_path}/openapi.json.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(cfg, runtime)

	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	mux := http.NewServeMux()
	registerRoutes(mux, spec, runtime, domain, cfg)

	specBytes, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, err
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))

	mw := middleware.New()
	mw.Use(middleware.TrimSlash())
	mw.Use(middleware.CORS(&cfg.API.CORS))
	mw.Use(middleware.Logger(runtime.Logger))

	return &Module{
		Prefix:  cfg.API.BasePath,
		Handler: mw.Apply(http.StripPrefix(cfg.API.BasePath, mux)),
	}, nil
}

// Mount registers the module on mux under its prefix.
func (m *Module) Mount(mux *http.ServeMux) {
	mux.Handle(m.Prefix+"/", m.Handler)
}
