// Package routes describes HTTP routes with their OpenAPI operations and
// registers them on a ServeMux.
package routes

import (
	"net/http"

	"github.com/JaimeStill/rental-portal/pkg/openapi"
)

// Route represents an HTTP route with method, pattern, and handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}

// Group represents a collection of routes under a common URL prefix.
// Groups can contain child groups for hierarchical route organization.
type Group struct {
	Prefix      string
	Tags        []string
	Description string
	Routes      []Route
	Children    []Group
}

// Register mounts every group on mux and records each documented route in spec.
// Spec paths are prefixed with basePath so the document reflects the public URL.
func Register(mux *http.ServeMux, basePath string, spec *openapi.Spec, groups ...Group) {
	for _, group := range groups {
		registerGroup(mux, basePath, spec, "", group)
	}
}

func registerGroup(mux *http.ServeMux, basePath string, spec *openapi.Spec, parentPrefix string, group Group) {
	prefix := parentPrefix + group.Prefix

	for _, route := range group.Routes {
		pattern := prefix + route.Pattern
		mux.HandleFunc(route.Method+" "+pattern, route.Handler)

		if spec != nil && route.OpenAPI != nil {
			op := route.OpenAPI
			if len(op.Tags) == 0 {
				op.Tags = group.Tags
			}
			spec.AddOperation(basePath+pattern, route.Method, op)
		}
	}

	for _, child := range group.Children {
		registerGroup(mux, basePath, spec, prefix, child)
	}
}
