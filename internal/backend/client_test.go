package backend_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/rental-portal/internal/backend"
	"github.com/JaimeStill/rental-portal/pkg/logging"
)

func envelopeServer(t *testing.T, status int, body string, seen *http.Request) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			*seen = *r.Clone(context.Background())
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Do_Success(t *testing.T) {
	var seen http.Request
	srv := envelopeServer(t, http.StatusOK, `{"success":true,"statusCode":200,"message":"ok","data":{"id":"d1","name":"lease"}}`, &seen)

	client := backend.NewClient(srv.URL+"/", nil, logging.Discard())

	var out struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	err := client.Do(context.Background(), "tok", http.MethodPatch, "/documents/d1", map[string]any{"name": "lease"}, &out)
	require.NoError(t, err)

	assert.Equal(t, "d1", out.ID)
	assert.Equal(t, "Bearer tok", seen.Header.Get("Authorization"))
	assert.Equal(t, "application/json", seen.Header.Get("Content-Type"))
	assert.Equal(t, http.MethodPatch, seen.Method)
	assert.Equal(t, "/documents/d1", seen.URL.Path)
}

func TestClient_Do_MissingToken(t *testing.T) {
	client := backend.NewClient("http://localhost:1", nil, logging.Discard())
	err := client.Do(context.Background(), "", http.MethodGet, "/documents", nil, nil)
	assert.ErrorIs(t, err, backend.ErrMissingToken)
	assert.Equal(t, http.StatusUnauthorized, backend.HTTPStatus(err))
}

func TestClient_Do_Failures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"envelope failure", http.StatusNotFound, `{"success":false,"statusCode":404,"message":"Document not found"}`, 404, "Document not found"},
		{"success false with 200", http.StatusOK, `{"success":false,"statusCode":409,"message":"conflict"}`, 409, "conflict"},
		{"non json", http.StatusBadGateway, "bad gateway", 502, "bad gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := envelopeServer(t, tt.status, tt.body, nil)
			client := backend.NewClient(srv.URL, nil, logging.Discard())

			err := client.Do(context.Background(), "tok", http.MethodGet, "/x", nil, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, backend.ErrBackendRequest))

			var re *backend.RequestError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, tt.wantStatus, re.Status)
			assert.Equal(t, tt.wantMsg, re.Message)
			assert.Equal(t, tt.wantStatus, backend.HTTPStatus(err))
		})
	}
}

func TestClient_Do_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := backend.NewClient(url, nil, logging.Discard())
	err := client.Do(context.Background(), "tok", http.MethodDelete, "/documents/1", nil, nil)

	var re *backend.RequestError
	require.ErrorAs(t, err, &re)
	assert.Zero(t, re.Status)
	assert.Equal(t, http.StatusBadGateway, backend.HTTPStatus(err))
}

func TestEnvelope_Decode(t *testing.T) {
	var env backend.Envelope
	require.NoError(t, json.Unmarshal([]byte(`{"success":true,"statusCode":201,"message":"created","data":[1,2]}`), &env))
	assert.True(t, env.Success)
	assert.Equal(t, 201, env.StatusCode)
	assert.JSONEq(t, `[1,2]`, string(env.Data))
}
