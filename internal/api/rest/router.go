package rest

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the API routes onto a mux.
func NewRouter(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/fds/load-csv", h.handleLoadCSV)
	mux.HandleFunc("POST /api/v1/fds/preprocess", h.handlePreprocess)
	mux.HandleFunc("POST /api/v1/fds/anomaly-score", h.handleAnomalyScore)

	mux.HandleFunc("POST /api/v1/logs/load", h.handleLoadLog)
	mux.HandleFunc("POST /api/v1/logs/parse", h.handleParseLog)
	mux.HandleFunc("POST /api/v1/logs/stats", h.handleLogStats)

	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /ready", h.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}
