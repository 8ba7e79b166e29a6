package accounts

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/rental-portal/pkg/handlers"
	"github.com/JaimeStill/rental-portal/pkg/routes"
)

// Handler exposes payment account administration over HTTP.
type Handler struct {
	sys    System
	logger *slog.Logger
}

func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "accounts"),
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/accounts",
		Tags:        []string{"Accounts"},
		Description: "Payment account links",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: Spec.List},
			{Method: "POST", Pattern: "", Handler: h.Create, OpenAPI: Spec.Create},
			{Method: "PATCH", Pattern: "/{id}", Handler: h.Update, OpenAPI: Spec.Update},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete, OpenAPI: Spec.Delete},
			{Method: "POST", Pattern: "/{id}/links", Handler: h.Link, OpenAPI: Spec.Link},
			{Method: "DELETE", Pattern: "/{id}/links/{property}", Handler: h.Unlink, OpenAPI: Spec.Unlink},
			{Method: "PUT", Pattern: "/{id}/links/{property}/default", Handler: h.SetDefault, OpenAPI: Spec.SetDefault},
		},
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	p, err := h.sys.Projection(r.Context(), handlers.BearerToken(r))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	body := map[string]any{"accounts": p.Accounts}
	if err := p.Validate(); err != nil {
		body["violations"] = violations(err)
	}
	handlers.RespondJSON(w, http.StatusOK, body)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd CreateCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	h.respond(w, http.StatusCreated, h.sys.Create(r.Context(), handlers.BearerToken(r), cmd))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var cmd UpdateCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	h.respond(w, http.StatusOK, h.sys.Update(r.Context(), handlers.BearerToken(r), r.PathValue("id"), cmd))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, h.sys.Delete(r.Context(), handlers.BearerToken(r), r.PathValue("id")))
}

func (h *Handler) Link(w http.ResponseWriter, r *http.Request) {
	var cmd LinkCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	h.respond(w, http.StatusCreated, h.sys.Link(r.Context(), handlers.BearerToken(r), r.PathValue("id"), cmd))
}

func (h *Handler) Unlink(w http.ResponseWriter, r *http.Request) {
	result := h.sys.Unlink(r.Context(), handlers.BearerToken(r), r.PathValue("id"), r.PathValue("property"))
	h.respond(w, http.StatusOK, result)
}

func (h *Handler) SetDefault(w http.ResponseWriter, r *http.Request) {
	result := h.sys.SetDefault(r.Context(), handlers.BearerToken(r), r.PathValue("id"), r.PathValue("property"))
	h.respond(w, http.StatusOK, result)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %v", ErrInvalidCommand, err))
		return false
	}
	return true
}

func (h *Handler) respond(w http.ResponseWriter, status int, result Result) {
	if !result.Success {
		handlers.RespondError(w, h.logger, MapHTTPStatus(result.Err), result.Err)
		return
	}
	handlers.RespondJSON(w, status, result)
}
