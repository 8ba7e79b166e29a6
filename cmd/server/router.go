package main

import (
	"net/http"

	"github.com/JaimeStill/rental-portal/internal/config"
	"github.com/JaimeStill/rental-portal/internal/infrastructure"
)

func buildRouter(infra *infrastructure.Infrastructure, cfg *config.Config) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !infra.Lifecycle.Ready() || !infra.Database.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("NOT READY"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("READY"))
	})

	if infra.Metrics != nil {
		mux.Handle("GET "+cfg.Metrics.Path, infra.Metrics.Handler())
	}

	return mux
}
