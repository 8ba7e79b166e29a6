package invalidation

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/rental-portal/pkg/openapi"
	"github.com/JaimeStill/rental-portal/pkg/routes"
)

// Handler streams invalidation events over server-sent events.
type Handler struct {
	hub    *Hub
	logger *slog.Logger
}

func NewHandler(hub *Hub, logger *slog.Logger) *Handler {
	return &Handler{
		hub:    hub,
		logger: logger.With("handler", "events"),
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/events",
		Tags:        []string{"Events"},
		Description: "Cache invalidation stream",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Stream, OpenAPI: streamSpec},
		},
	}
}

func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	sub := h.hub.Subscribe()
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-sub.Events():
			if !ok {
				return
			}

			data, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("failed to marshal event", "error", err)
				continue
			}

			fmt.Fprintf(w, "event: invalidate\n")
			fmt.Fprintf(w, "data: %s\n\n", data)

			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}
	}
}

var streamSpec = &openapi.Operation{
	Summary:     "Stream invalidations",
	Description: "Server-sent events stream. Each `invalidate` event names a scope whose cached listings are stale.",
	Responses: map[int]*openapi.Response{
		200: {
			Description: "Event stream",
			Content: map[string]*openapi.MediaType{
				"text/event-stream": {Schema: &openapi.Schema{Type: "string"}},
			},
		},
	},
}
