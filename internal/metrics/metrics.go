package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "closet_profile_sessions_created_total",
			Help: "Total number of questionnaire sessions started",
		},
	)

	SessionsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "closet_profile_sessions_completed_total",
			Help: "Total number of sessions that passed the review step",
		},
	)

	SessionsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "closet_profile_sessions_expired_total",
			Help: "Total number of expired sessions removed by the cleaner",
		},
	)

	Actions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "closet_profile_actions_total",
			Help: "Total number of applied wizard actions",
		},
		[]string{"kind"},
	)

	ValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "closet_profile_validation_failures_total",
			Help: "Total number of blocked advances per step",
		},
		[]string{"step"},
	)

	Exports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "closet_profile_exports_total",
			Help: "Total number of summary exports by result",
		},
		[]string{"result"},
	)

	ExportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "closet_profile_export_duration_seconds",
			Help:    "Duration of PDF generation in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	Deliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "closet_profile_deliveries_total",
			Help: "Total number of delivered summaries by method",
		},
		[]string{"method"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "closet_profile_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "closet_profile_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)
