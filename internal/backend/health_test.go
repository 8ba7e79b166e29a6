package backend_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/JaimeStill/rental-portal/internal/backend"
	"github.com/JaimeStill/rental-portal/pkg/logging"
	"github.com/JaimeStill/rental-portal/pkg/metrics"
)

func TestHealthCache_IsStale(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ttl := 30 * time.Second

	tests := []struct {
		name  string
		cache backend.HealthCache
		now   time.Time
		want  bool
	}{
		{"never checked", backend.HealthCache{}, base, true},
		{"unknown status", backend.HealthCache{Status: backend.StatusUnknown, LastCheckedAt: base}, base, true},
		{"fresh", backend.HealthCache{Status: backend.StatusHealthy, LastCheckedAt: base}, base.Add(29 * time.Second), false},
		{"at ttl", backend.HealthCache{Status: backend.StatusHealthy, LastCheckedAt: base}, base.Add(ttl), true},
		{"expired unhealthy", backend.HealthCache{Status: backend.StatusUnhealthy, LastCheckedAt: base}, base.Add(time.Minute), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cache.IsStale(tt.now, ttl))
		})
	}
}

func TestHealth_CachesWithinTTL(t *testing.T) {
	var calls atomic.Int32
	var status atomic.Int32
	status.Store(http.StatusOK)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(int(status.Load()))
	}))
	defer srv.Close()

	h := backend.NewHealth(srv.URL, 30*time.Second, 5*time.Second, nil, metrics.New(), logging.Discard())
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	assert.True(t, h.Healthy(ctx, now))
	assert.Equal(t, int32(1), calls.Load())

	status.Store(http.StatusServiceUnavailable)
	assert.True(t, h.Healthy(ctx, now.Add(10*time.Second)), "cached verdict within ttl")
	assert.Equal(t, int32(1), calls.Load())

	assert.False(t, h.Healthy(ctx, now.Add(31*time.Second)), "fresh probe after ttl")
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, backend.StatusUnhealthy, h.Cache().Status)
	assert.Equal(t, now.Add(31*time.Second), h.Cache().LastCheckedAt)
}

func TestHealth_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	h := backend.NewHealth(srv.URL, time.Second, 50*time.Millisecond, nil, nil, logging.Discard())

	start := time.Now()
	assert.False(t, h.Healthy(context.Background(), start))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestHealthHandler(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	h := backend.NewHealth(srv.URL, time.Minute, time.Second, nil, nil, logging.Discard())
	handler := backend.NewHealthHandler(h, nil)

	rec := httptest.NewRecorder()
	handler.Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"backend":"healthy"`)
}
