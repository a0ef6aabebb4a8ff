package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	// HTTPRequestsTotal tracks requests by route template, method and status code
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	// HTTPRequestDuration tracks handler latency in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"route", "method"},
	)
)

// Query Cache Metrics
var (
	// QueryCacheRequests tracks cache lookups by operation and result (hit/miss)
	QueryCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "query_cache_requests_total",
			Help: "Query cache lookups by operation and result",
		},
		[]string{"operation", "result"},
	)

	// QueryCacheLoadErrors tracks loader failures (never cached)
	QueryCacheLoadErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "query_cache_load_errors_total",
			Help: "Query cache loader failures by operation",
		},
		[]string{"operation"},
	)

	// QueryCacheInvalidations tracks invalidations by tag family
	QueryCacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "query_cache_invalidations_total",
			Help: "Query cache invalidations by tag family",
		},
		[]string{"tag"},
	)
)

// Database Metrics
var (
	// DBHealthChecks tracks periodic health check results
	DBHealthChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_health_checks_total",
			Help: "Database health checks by result",
		},
		[]string{"result"},
	)

	// DBReconnectAttempts tracks ping retries after a failed health check
	DBReconnectAttempts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "db_reconnect_attempts_total",
			Help: "Database reconnect attempts after failed pings",
		},
	)

	// DBUp is 1 while the last health check succeeded
	DBUp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_up",
			Help: "Whether the last database health check succeeded (1) or failed (0)",
		},
	)
)

// Scheduler Metrics
var (
	// SchedulerJobRuns tracks background job runs by job id and result
	SchedulerJobRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduler_job_runs_total",
			Help: "Background job runs by job and result",
		},
		[]string{"job", "result"},
	)

	// SchedulerJobDuration tracks background job run time in seconds
	SchedulerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scheduler_job_duration_seconds",
			Help:    "Background job duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"job"},
	)
)
