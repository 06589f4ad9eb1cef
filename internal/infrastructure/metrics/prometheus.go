package metrics

import (
	"os"

	"go-artifact-cleanup/internal/domain/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const namespace = "artifact_cleanup"

// Verify that PrometheusMetrics implements MetricsCollector
var _ metrics.MetricsCollector = (*PrometheusMetrics)(nil)

type PrometheusMetrics struct {
	registry           *prometheus.Registry
	ArtifactsDeleted   *prometheus.CounterVec
	DeleteFailures     *prometheus.CounterVec
	BytesFreed         *prometheus.CounterVec
	StorageBytes       *prometheus.GaugeVec
	LimitBytes         *prometheus.GaugeVec
	CleanupDuration    *prometheus.HistogramVec
	LastCleanupTime    *prometheus.GaugeVec
	CleanupErrors      *prometheus.CounterVec
	HttpRequestTotal   *prometheus.CounterVec
	HttpRequestTimeout *prometheus.CounterVec
	HttpRequestErrors  *prometheus.CounterVec
	repository         string
	logger             *zap.Logger
}

func (p *PrometheusMetrics) GetRegistry() *prometheus.Registry {
	return p.registry
}

// NewPrometheusMetrics registers all collectors on a fresh registry. Every
// series carries the owner/repo being cleaned as its repository label.
func NewPrometheusMetrics(repository string, logger *zap.Logger) *PrometheusMetrics {
	if repository == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
			logger.Error("Failed to get hostname", zap.Error(err))
		}
		repository = hostname
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	m := &PrometheusMetrics{
		registry: registry,
		ArtifactsDeleted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deleted_total",
			Help:      "The total number of artifacts deleted",
		}, []string{"repository"}),

		DeleteFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delete_failures_total",
			Help:      "The total number of artifact deletions that failed",
		}, []string{"repository"}),

		BytesFreed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "freed_bytes_total",
			Help:      "The total number of bytes reclaimed by deletions",
		}, []string{"repository"}),

		StorageBytes: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "storage_bytes",
			Help:      "Artifact storage in use at the start of the last run",
		}, []string{"repository"}),

		LimitBytes: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "limit_bytes",
			Help:      "Configured artifact storage limit",
		}, []string{"repository"}),

		CleanupDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "duration_seconds",
			Help:      "Time spent running artifact cleanup",
			Buckets:   prometheus.DefBuckets,
		}, []string{"repository"}),

		LastCleanupTime: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp",
			Help:      "Timestamp of the last cleanup run",
		}, []string{"repository"}),

		CleanupErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of cleanup runs that failed",
		}, []string{"repository"}),

		HttpRequestTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"repository", "code", "path", "method"}),

		HttpRequestTimeout: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_request_timeouts_total",
			Help:      "Total number of HTTP request timeouts",
		}, []string{"repository", "path", "method"}),

		HttpRequestErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_request_errors_total",
			Help:      "Total number of HTTP request errors",
		}, []string{"repository", "path", "method", "status", "error_type"}),

		repository: repository,
		logger:     logger,
	}

	logger.Info("Prometheus metrics initialized",
		zap.String("repository", repository))

	return m
}
