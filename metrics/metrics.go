package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	VoteAccepted  = "accepted"
	VoteDuplicate = "duplicate"
	VoteRejected  = "rejected"
	VoteFailed    = "failed"
)

var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cozinha_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cozinha_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cozinha_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)

	// Votes by outcome: accepted, duplicate, rejected (bad input or unknown dish), failed
	VotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cozinha_votes_total",
			Help: "Total number of vote attempts by outcome",
		},
		[]string{"outcome"},
	)
)

// Handler exposes the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
