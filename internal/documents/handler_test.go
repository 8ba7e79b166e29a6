package documents_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/rental-portal/internal/documents"
	"github.com/JaimeStill/rental-portal/pkg/logging"
	"github.com/JaimeStill/rental-portal/pkg/routes"
)

func newMux(e *env) *http.ServeMux {
	mux := http.NewServeMux()
	routes.Register(mux, "/api", nil, documents.NewHandler(e.docs, logging.Discard()).Routes())
	return mux
}

func TestHandler_Update(t *testing.T) {
	e := setup(t)
	e.backend.PutDocument("d1", map[string]any{"title": "Lease"})
	mux := newMux(e)

	req := httptest.NewRequest(http.MethodPatch, "/documents/d1", strings.NewReader(`{"title":"Renewal"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Success bool               `json:"success"`
		Data    documents.Document `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "d1", body.Data.ID)
}

func TestHandler_UpdateRequiresToken(t *testing.T) {
	e := setup(t)
	rec := httptest.NewRecorder()
	newMux(e).ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/documents/d1", strings.NewReader(`{"title":"x"}`)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, e.backend.Requests())
}

func TestHandler_UpdateRejectsNonObject(t *testing.T) {
	e := setup(t)
	req := httptest.NewRequest(http.MethodPatch, "/documents/d1", strings.NewReader(`["x"]`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	newMux(e).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Delete(t *testing.T) {
	e := setup(t)
	e.backend.PutDocument("d1", map[string]any{"secureUrl": "https://res.example.com/demo/raw/upload/v1/leases/a.pdf"})
	e.provider.PutAsset("leases/a")

	req := httptest.NewRequest(http.MethodDelete, "/documents/d1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	newMux(e).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body documents.DeleteResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, documents.CleanupDeleted, body.Cleanup.Status)
}
