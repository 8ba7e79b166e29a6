package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/rental-portal/pkg/openapi"
	"github.com/JaimeStill/rental-portal/pkg/routes"
)

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()
	spec := openapi.NewSpec("portal", "test")

	get := &openapi.Operation{Summary: "Get document"}
	del := &openapi.Operation{Summary: "Delete link", Tags: []string{"Links"}}

	group := routes.Group{
		Prefix: "/documents",
		Tags:   []string{"Documents"},
		Routes: []routes.Route{
			{
				Method:  http.MethodGet,
				Pattern: "/{id}",
				Handler: func(w http.ResponseWriter, r *http.Request) {
					w.Write([]byte(r.PathValue("id")))
				},
				OpenAPI: get,
			},
		},
		Children: []routes.Group{
			{
				Prefix: "/{id}/links",
				Routes: []routes.Route{
					{
						Method:  http.MethodDelete,
						Pattern: "/{property}",
						Handler: func(w http.ResponseWriter, r *http.Request) {
							w.Write([]byte(r.PathValue("id") + ":" + r.PathValue("property")))
						},
						OpenAPI: del,
					},
				},
			},
		},
	}

	routes.Register(mux, "/api", spec, group)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/documents/42", nil))
	assert.Equal(t, "42", rec.Body.String())

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/documents/42/links/p1", nil))
	assert.Equal(t, "42:p1", rec.Body.String())

	require.Contains(t, spec.Paths, "/api/documents/{id}")
	assert.Same(t, get, spec.Paths["/api/documents/{id}"].Get)
	assert.Equal(t, []string{"Documents"}, get.Tags)

	require.Contains(t, spec.Paths, "/api/documents/{id}/links/{property}")
	assert.Equal(t, []string{"Links"}, spec.Paths["/api/documents/{id}/links/{property}"].Delete.Tags)
}

func TestRegister_NilSpec(t *testing.T) {
	mux := http.NewServeMux()
	routes.Register(mux, "", nil, routes.Group{
		Prefix: "/health",
		Routes: []routes.Route{{
			Method:  http.MethodGet,
			Pattern: "",
			Handler: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) },
			OpenAPI: &openapi.Operation{Summary: "Health"},
		}},
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
