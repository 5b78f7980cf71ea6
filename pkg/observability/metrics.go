package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Storage metrics
	StorageOperationsTotal   *prometheus.CounterVec
	StorageOperationDuration *prometheus.HistogramVec
	StorageErrorsTotal       *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitRejectedTotal *prometheus.CounterVec

	// Upload metrics
	UploadsTotal     *prometheus.CounterVec
	UploadSizeBytes  prometheus.Histogram

	// Email metrics
	EmailsSentTotal   prometheus.Counter
	EmailsFailedTotal prometheus.Counter
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "admin_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "admin_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		StorageOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "admin_storage_operations_total",
				Help: "Total number of storage operations",
			},
			[]string{"operation", "collection"},
		),
		StorageOperationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "admin_storage_operation_duration_seconds",
				Help:    "Storage operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "collection"},
		),
		StorageErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "admin_storage_errors_total",
				Help: "Total number of storage errors",
			},
			[]string{"operation", "collection"},
		),
		RateLimitRejectedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "admin_ratelimit_rejected_total",
				Help: "Total number of rate limited requests",
			},
			[]string{"key"},
		),
		UploadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "admin_uploads_total",
				Help: "Total number of image uploads",
			},
			[]string{"status"},
		),
		UploadSizeBytes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "admin_upload_size_bytes",
				Help:    "Uploaded image size in bytes",
				Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
			},
		),
		EmailsSentTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "admin_emails_sent_total",
				Help: "Total number of inquiry emails sent",
			},
		),
		EmailsFailedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "admin_emails_failed_total",
				Help: "Total number of inquiry emails that failed to send",
			},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.StorageOperationsTotal,
		m.StorageOperationDuration,
		m.StorageErrorsTotal,
		m.RateLimitRejectedTotal,
		m.UploadsTotal,
		m.UploadSizeBytes,
		m.EmailsSentTotal,
		m.EmailsFailedTotal,
	)

	return m
}

// Handler returns the /metrics HTTP handler for this registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTPRequest records a completed HTTP request
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveStorageOperation records a storage call and its outcome
func (m *Metrics) ObserveStorageOperation(operation, collection string, duration time.Duration, err error) {
	m.StorageOperationsTotal.WithLabelValues(operation, collection).Inc()
	m.StorageOperationDuration.WithLabelValues(operation, collection).Observe(duration.Seconds())
	if err != nil {
		m.StorageErrorsTotal.WithLabelValues(operation, collection).Inc()
	}
}
