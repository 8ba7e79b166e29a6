package backend

import (
	"net/http"
	"time"

	"github.com/JaimeStill/rental-portal/pkg/handlers"
	"github.com/JaimeStill/rental-portal/pkg/openapi"
	"github.com/JaimeStill/rental-portal/pkg/routes"
)

// HealthHandler reports the cached backend health.
type HealthHandler struct {
	health *Health
	now    func() time.Time
}

func NewHealthHandler(health *Health, now func() time.Time) *HealthHandler {
	if now == nil {
		now = time.Now
	}
	return &HealthHandler{health: health, now: now}
}

func (h *HealthHandler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/health",
		Tags:        []string{"Health"},
		Description: "Backend availability",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Check, OpenAPI: healthSpec},
		},
	}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	healthy := h.health.Healthy(r.Context(), h.now())
	cache := h.health.Cache()

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}

	handlers.RespondJSON(w, status, map[string]any{
		"backend":    cache.Status,
		"checked_at": cache.LastCheckedAt,
	})
}

var healthSpec = &openapi.Operation{
	Summary:     "Backend health",
	Description: "Cached backend health verdict. The backend is probed when the cached verdict has expired.",
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Backend healthy", "BackendHealth"),
		503: openapi.ResponseJSON("Backend unhealthy", "BackendHealth"),
	},
}

// Schemas returns the OpenAPI schemas for the health endpoint.
func (h *HealthHandler) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"BackendHealth": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"backend":    {Type: "string", Enum: []string{"healthy", "unhealthy", "unknown"}},
				"checked_at": {Type: "string", Format: "date-time"},
			},
		},
	}
}
