package metrics

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

type PrometheusMetrics struct {
	registry            *prometheus.Registry
	ComponentsRemoved   *prometheus.CounterVec
	ComponentsKept      *prometheus.CounterVec
	DeleteFailures      *prometheus.CounterVec
	RepositoriesSkipped *prometheus.CounterVec
	CleanupDuration     *prometheus.HistogramVec
	LastCleanupTime     *prometheus.GaugeVec
	CleanupErrors       *prometheus.CounterVec
	HttpRequestTotal    *prometheus.CounterVec
	HttpRequestTimeout  *prometheus.CounterVec
	HttpRequestErrors   *prometheus.CounterVec
	hostname            string
	logger              *zap.Logger
}

func (p *PrometheusMetrics) GetRegistry() *prometheus.Registry {
	return p.registry
}

func NewPrometheusMetrics(logger *zap.Logger) *PrometheusMetrics {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
		logger.Error("Failed to get hostname", zap.Error(err))
	}

	// Use default registry
	registry := prometheus.DefaultRegisterer.(*prometheus.Registry)

	metrics := &PrometheusMetrics{
		registry: registry,
		ComponentsRemoved: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nexus_cleanup",
			Name:      "components_removed_total",
			Help:      "The total number of components removed",
		}, []string{"hostname"}),

		ComponentsKept: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nexus_cleanup",
			Name:      "components_kept_total",
			Help:      "The total number of components scanned but not selected for removal",
		}, []string{"hostname"}),

		DeleteFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nexus_cleanup",
			Name:      "delete_failures_total",
			Help:      "The total number of component deletions that failed",
		}, []string{"hostname"}),

		RepositoriesSkipped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nexus_cleanup",
			Name:      "repositories_skipped_total",
			Help:      "The total number of repositories skipped by the repository gate",
		}, []string{"hostname"}),

		CleanupDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "nexus_cleanup",
			Name:      "duration_seconds",
			Help:      "Time spent running the cleanup job",
			Buckets:   prometheus.DefBuckets,
		}, []string{"hostname"}),

		LastCleanupTime: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "nexus_cleanup",
			Name:      "last_run_timestamp",
			Help:      "Timestamp of the last cleanup run",
		}, []string{"hostname"}),

		CleanupErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nexus_cleanup",
			Name:      "errors_total",
			Help:      "The total number of cleanup errors",
		}, []string{"hostname"}),

		HttpRequestTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nexus_cleanup",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"hostname", "code", "method", "path"}),

		HttpRequestTimeout: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nexus_cleanup",
			Name:      "http_request_timeouts_total",
			Help:      "Total number of HTTP request timeouts",
		}, []string{"hostname", "path", "method"}),

		HttpRequestErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nexus_cleanup",
			Name:      "http_request_errors_total",
			Help:      "Total number of HTTP request errors",
		}, []string{"hostname", "path", "method", "status", "error_type"}),

		hostname: hostname,
		logger:   logger,
	}

	logger.Info("Prometheus metrics initialized",
		zap.String("hostname", hostname))

	return metrics
}
