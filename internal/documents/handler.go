package documents

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/rental-portal/internal/backend"
	"github.com/JaimeStill/rental-portal/pkg/handlers"
	"github.com/JaimeStill/rental-portal/pkg/routes"
)

var ErrInvalidBody = errors.New("request body must be a JSON object")

// Handler exposes document lifecycle actions over HTTP.
type Handler struct {
	sys    System
	logger *slog.Logger
}

func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "documents"),
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/documents",
		Tags:        []string{"Documents"},
		Description: "Document lifecycle actions proxied to the backend",
		Routes: []routes.Route{
			{Method: "PATCH", Pattern: "/{id}", Handler: h.Update, OpenAPI: Spec.Update},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete, OpenAPI: Spec.Delete},
		},
	}
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil || fields == nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidBody)
		return
	}

	result := h.sys.Update(r.Context(), handlers.BearerToken(r), r.PathValue("id"), fields)
	if !result.Success {
		handlers.RespondError(w, h.logger, backend.HTTPStatus(result.Err), result.Err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	result := h.sys.Delete(r.Context(), handlers.BearerToken(r), r.PathValue("id"))
	if !result.Success {
		h.logger.Warn("document delete rejected", "id", r.PathValue("id"), "cleanup", result.Cleanup.Status)
		handlers.RespondJSON(w, backend.HTTPStatus(result.Err), result)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
