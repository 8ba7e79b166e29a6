package backend

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/JaimeStill/rental-portal/pkg/metrics"
)

// Status is a cached health verdict.
type Status string

const (
	StatusUnknown   Status = "unknown"
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// HealthCache holds the last verdict and when it was taken.
type HealthCache struct {
	Status        Status    `json:"status"`
	LastCheckedAt time.Time `json:"checked_at"`
}

// IsStale reports whether the cached verdict must be refreshed at now.
// A cache that was never filled is always stale.
func (c HealthCache) IsStale(now time.Time, ttl time.Duration) bool {
	if c.LastCheckedAt.IsZero() || c.Status == "" || c.Status == StatusUnknown {
		return true
	}
	return now.Sub(c.LastCheckedAt) >= ttl
}

// Health probes GET {base}/health and caches the verdict for ttl. Concurrent
// callers that find the cache stale each run their own probe.
type Health struct {
	url     string
	http    *http.Client
	ttl     time.Duration
	timeout time.Duration
	metrics *metrics.Recorder
	logger  *slog.Logger

	mu    sync.Mutex
	cache HealthCache
}

// NewHealth creates a health checker for baseURL.
func NewHealth(baseURL string, ttl, timeout time.Duration, httpClient *http.Client, recorder *metrics.Recorder, logger *slog.Logger) *Health {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Health{
		url:     strings.TrimRight(baseURL, "/") + "/health",
		http:    httpClient,
		ttl:     ttl,
		timeout: timeout,
		metrics: recorder,
		logger:  logger.With("system", "backend-health"),
		cache:   HealthCache{Status: StatusUnknown},
	}
}

// Cache returns a snapshot of the cached verdict.
func (h *Health) Cache() HealthCache {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cache
}

// Healthy returns the cached verdict while fresh at now, otherwise probes and updates the cache.
func (h *Health) Healthy(ctx context.Context, now time.Time) bool {
	h.mu.Lock()
	cache := h.cache
	h.mu.Unlock()

	if !cache.IsStale(now, h.ttl) {
		return cache.Status == StatusHealthy
	}

	healthy := h.probe(ctx)
	h.metrics.HealthCheck(healthy)

	status := StatusUnhealthy
	if healthy {
		status = StatusHealthy
	}

	h.mu.Lock()
	h.cache = HealthCache{Status: status, LastCheckedAt: now}
	h.mu.Unlock()

	return healthy
}

func (h *Health) probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		h.logger.Error("create health request", "error", err)
		return false
	}

	resp, err := h.http.Do(req)
	if err != nil {
		h.logger.Warn("backend health check failed", "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		h.logger.Warn("backend health check failed", "status", resp.StatusCode)
		return false
	}
	return true
}
