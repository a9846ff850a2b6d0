// Package metrics exposes Prometheus counters for the ingestion pipeline and
// an optional /metrics listener for scrape-during-run setups.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "highlights_api_requests_total",
			Help: "Total YouTube Data API calls issued",
		},
		[]string{"endpoint", "status"},
	)

	APIQuotaCostTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "highlights_api_quota_cost_total",
			Help: "Estimated YouTube API quota units consumed",
		},
		[]string{"endpoint"},
	)

	RecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "highlights_records_total",
			Help: "Highlight records processed, by outcome",
		},
		[]string{"outcome"},
	)

	TermFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "highlights_term_failures_total",
			Help: "Search terms that failed or were not attempted",
		},
		[]string{"reason"},
	)
)

// RecordAPICall updates the request counter for one completed API call.
func RecordAPICall(endpoint string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	APIRequestsTotal.WithLabelValues(endpoint, status).Inc()
}

// RecordQuotaCost adds the estimated quota units spent on an endpoint.
func RecordQuotaCost(endpoint string, cost int) {
	if cost > 0 {
		APIQuotaCostTotal.WithLabelValues(endpoint).Add(float64(cost))
	}
}

// RecordOutcome counts a processed record as inserted, updated, or skipped.
func RecordOutcome(outcome string) {
	RecordsTotal.WithLabelValues(outcome).Inc()
}

// Server encapsulates an HTTP server exposing Prometheus metrics.
type Server struct {
	srv *http.Server
}

// Start begins listening on the specified port and exposes /metrics.
func Start(port int) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("metrics server failed: %v\n", err)
		}
	}()

	return &Server{srv: srv}
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
