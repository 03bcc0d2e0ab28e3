package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trip_tickets_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trip_tickets_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// SubmissionsTotal counts submit attempts by outcome: invalid, succeeded, failed_transport, failed_application.
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trip_tickets_submissions_total",
			Help: "Trip ticket submit attempts by outcome.",
		},
		[]string{"outcome"},
	)

	SinkRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "trip_tickets_sink_request_duration_seconds",
			Help:    "Latency of record sink POSTs.",
			Buckets: prometheus.DefBuckets,
		},
	)

	ActiveForms = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "trip_tickets_active_forms",
			Help: "Form sessions currently held in memory.",
		},
	)
)
