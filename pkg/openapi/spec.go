package openapi

import (
	"encoding/json"
	"net/http"
	"strings"
)

// NewSpec creates an empty 3.1 spec with shared error responses registered.
func NewSpec(title, version string) *Spec {
	return &Spec{
		OpenAPI: "3.1.0",
		Info:    &Info{Title: title, Version: version},
		Paths:   make(map[string]*PathItem),
		Components: &Components{
			Schemas: map[string]*Schema{
				"Failure": {
					Type: "object",
					Properties: map[string]*Schema{
						"success": {Type: "boolean"},
						"error":   {Type: "string"},
					},
				},
			},
			Responses: map[string]*Response{
				"BadRequest":   ResponseJSON("Invalid request", "Failure"),
				"NotFound":     ResponseJSON("Resource not found", "Failure"),
				"Unauthorized": ResponseJSON("Missing bearer token", "Failure"),
				"BadGateway":   ResponseJSON("Upstream request failed", "Failure"),
			},
		},
	}
}

// SetDescription sets the info description.
func (s *Spec) SetDescription(desc string) {
	s.Info.Description = desc
}

// AddServer appends a server URL when non-empty.
func (s *Spec) AddServer(url string) {
	if url == "" {
		return
	}
	s.Servers = append(s.Servers, &Server{URL: url})
}

// AddSchemas merges named schemas into components.
func (s *Spec) AddSchemas(schemas map[string]*Schema) {
	for name, schema := range schemas {
		s.Components.Schemas[name] = schema
	}
}

// AddOperation attaches op to path under the given HTTP method.
func (s *Spec) AddOperation(path, method string, op *Operation) {
	if op == nil {
		return
	}
	if s.Paths[path] == nil {
		s.Paths[path] = &PathItem{}
	}

	switch strings.ToUpper(method) {
	case http.MethodGet:
		s.Paths[path].Get = op
	case http.MethodPost:
		s.Paths[path].Post = op
	case http.MethodPut:
		s.Paths[path].Put = op
	case http.MethodPatch:
		s.Paths[path].Patch = op
	case http.MethodDelete:
		s.Paths[path].Delete = op
	}
}

// MarshalJSON renders the spec with indentation.
func MarshalJSON(spec *Spec) ([]byte, error) {
	return json.MarshalIndent(spec, "", "  ")
}

// ServeSpec returns a handler that writes the pre-rendered spec bytes.
func ServeSpec(spec []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(spec)
	}
}
