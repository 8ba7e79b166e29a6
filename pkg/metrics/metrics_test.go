package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/rental-portal/pkg/metrics"
)

func scrape(t *testing.T, r *metrics.Recorder) string {
	t.Helper()
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestRecorder(t *testing.T) {
	r := metrics.New()

	r.Upload("image", "success")
	r.Upload("image", "success")
	r.Upload("raw", "failure")
	r.Rejection("image_too_large")
	r.CleanupFailure()
	r.HealthCheck(true)
	r.HealthCheck(false)

	out := scrape(t, r)
	assert.Contains(t, out, `rental_portal_uploads_total{outcome="success",resource_type="image"} 2`)
	assert.Contains(t, out, `rental_portal_uploads_total{outcome="failure",resource_type="raw"} 1`)
	assert.Contains(t, out, `rental_portal_upload_rejections_total{reason="image_too_large"} 1`)
	assert.Contains(t, out, `rental_portal_provider_cleanup_failures_total 1`)
	assert.Contains(t, out, `rental_portal_backend_health_checks_total{result="healthy"} 1`)
	assert.Contains(t, out, `rental_portal_backend_health_checks_total{result="unhealthy"} 1`)
	assert.Contains(t, out, "go_goroutines")
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *metrics.Recorder
	assert.NotPanics(t, func() {
		r.Upload("image", "success")
		r.Rejection("unsupported_type")
		r.CleanupFailure()
		r.HealthCheck(true)
	})
}

func TestConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := &metrics.Config{}
		require.NoError(t, cfg.Finalize(nil))
		assert.True(t, cfg.IsEnabled())
		assert.Equal(t, "/metrics", cfg.Path)
	})

	t.Run("env disables", func(t *testing.T) {
		t.Setenv("TEST_METRICS_ENABLED", "false")
		cfg := &metrics.Config{}
		require.NoError(t, cfg.Finalize(&metrics.Env{Enabled: "TEST_METRICS_ENABLED"}))
		assert.False(t, cfg.IsEnabled())
	})

	t.Run("invalid path", func(t *testing.T) {
		cfg := &metrics.Config{Path: "metrics"}
		assert.Error(t, cfg.Finalize(nil))
	})

	t.Run("merge", func(t *testing.T) {
		off := false
		cfg := &metrics.Config{}
		cfg.Merge(&metrics.Config{Enabled: &off, Path: "/prom"})
		assert.False(t, cfg.IsEnabled())
		assert.Equal(t, "/prom", cfg.Path)
	})
}
