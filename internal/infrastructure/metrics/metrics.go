package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Jobs
	JobsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "infragen_jobs_created_total",
			Help: "Total number of jobs created",
		},
	)
	JobStatusChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "infragen_job_status_changes_total",
			Help: "Number of job status transitions",
		},
		[]string{"to"},
	)
	JobDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "infragen_job_duration_seconds",
			Help:    "Histogram of generation pipeline durations in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms..2s
		},
	)

	// Generation
	Generations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "infragen_generations_total",
			Help: "Number of generated documents by provider",
		},
		[]string{"provider"},
	)
	GeneratedResources = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "infragen_generated_resources_total",
			Help: "Number of generated resource blocks by resource type",
		},
		[]string{"type"},
	)
	ComplianceWarnings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "infragen_compliance_warnings_total",
			Help: "Documents annotated with a compliance warning, by rule",
		},
		[]string{"rule"},
	)

	// DB / file storage ops
	DBFileOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "infragen_db_file_ops_total",
			Help: "Database file operations performed",
		},
		[]string{"op"}, // op: get|put|delete|list|count
	)

	// HTTP
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "infragen_http_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "path"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "infragen_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	HTTPErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "infragen_http_errors_total",
			Help: "Total number of HTTP request errors.",
		},
		[]string{"method", "path", "status"},
	)

	// Errors
	Errors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "infragen_errors_total",
			Help: "Errors encountered in components",
		},
		[]string{"component", "type"},
	)
)

func init() {
	prometheus.MustRegister(
		// Jobs
		JobsCreated,
		JobStatusChanges,
		JobDurationSeconds,
		// Generation
		Generations,
		GeneratedResources,
		ComplianceWarnings,
		// DB
		DBFileOps,
		// HTTP
		HTTPRequests,
		HTTPRequestDuration,
		HTTPErrors,
		// Errors
		Errors,
	)
}

// StartMetricsServer blocks serving /metrics on addr.
func StartMetricsServer(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}

// Jobs
func IncJobsCreated() {
	JobsCreated.Inc()
}

func IncJobStatusChange(to string) {
	JobStatusChanges.WithLabelValues(to).Inc()
}

func ObserveJobDuration(d time.Duration) {
	JobDurationSeconds.Observe(d.Seconds())
}

// Generation
func IncGeneration(provider string) {
	Generations.WithLabelValues(provider).Inc()
}

func AddGeneratedResources(resourceType string, n int) {
	GeneratedResources.WithLabelValues(resourceType).Add(float64(n))
}

func IncComplianceWarning(rule string) {
	ComplianceWarnings.WithLabelValues(rule).Inc()
}

// DB / file ops
func IncDBFileOp(op string) {
	DBFileOps.WithLabelValues(op).Inc()
}

// HTTP
func ObserveHTTPRequest(method, path, status string, d time.Duration) {
	HTTPRequests.WithLabelValues(method, path).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(d.Seconds())
}

func IncHTTPError(method, path, status string) {
	HTTPErrors.WithLabelValues(method, path, status).Inc()
}

// Errors
func IncError(component, typ string) {
	Errors.WithLabelValues(component, typ).Inc()
}
