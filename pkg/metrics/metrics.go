// Package metrics owns the Prometheus collectors for the document pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rental_portal"

// Recorder groups the pipeline collectors on a private registry.
type Recorder struct {
	registry        *prometheus.Registry
	uploads         *prometheus.CounterVec
	rejections      *prometheus.CounterVec
	cleanupFailures prometheus.Counter
	healthChecks    *prometheus.CounterVec
}

// New creates a Recorder with process and Go runtime collectors registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Provider uploads by resource type and outcome.",
		}, []string{"resource_type", "outcome"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upload_rejections_total",
			Help:      "Candidates rejected by validation, by reason.",
		}, []string{"reason"}),
		cleanupFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_cleanup_failures_total",
			Help:      "Provider asset deletions that failed during document delete.",
		}),
		healthChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_health_checks_total",
			Help:      "Backend health probes by result.",
		}, []string{"result"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.uploads,
		r.rejections,
		r.cleanupFailures,
		r.healthChecks,
	)

	return r
}

// Upload counts one provider upload. outcome is "success" or "failure".
func (r *Recorder) Upload(resourceType, outcome string) {
	if r == nil {
		return
	}
	r.uploads.WithLabelValues(resourceType, outcome).Inc()
}

func (r *Recorder) Rejection(reason string) {
	if r == nil {
		return
	}
	r.rejections.WithLabelValues(reason).Inc()
}

func (r *Recorder) CleanupFailure() {
	if r == nil {
		return
	}
	r.cleanupFailures.Inc()
}

func (r *Recorder) HealthCheck(healthy bool) {
	if r == nil {
		return
	}
	result := "unhealthy"
	if healthy {
		result = "healthy"
	}
	r.healthChecks.WithLabelValues(result).Inc()
}

// Registry exposes the underlying registry for scraping in tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
