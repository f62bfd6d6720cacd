package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autocatalog_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "autocatalog_http_request_duration_seconds",
			Help:    "Time taken to handle HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	CatalogWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autocatalog_catalog_writes_total",
			Help: "Total number of catalog write operations",
		},
		[]string{"resource", "operation"},
	)

	CarVersionConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "autocatalog_car_version_conflicts_total",
			Help: "Total number of car updates rejected on a stale version",
		},
	)

	IdentityRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autocatalog_identity_requests_total",
			Help: "Total number of requests forwarded to the identity provider",
		},
		[]string{"operation", "outcome"},
	)
)
