package metrics

import (
	"strconv"
	"time"

	"github.com/skarzhevskyy/nexus-repository-cleanup/internal/domain/metrics"
)

// PrometheusCollector adapts PrometheusMetrics to the domain interface.
type PrometheusCollector struct {
	metrics *PrometheusMetrics
}

var _ metrics.MetricsCollector = (*PrometheusCollector)(nil)

func NewPrometheusCollector(m *PrometheusMetrics) *PrometheusCollector {
	return &PrometheusCollector{metrics: m}
}

func (c *PrometheusCollector) IncComponentsRemoved() {
	c.metrics.ComponentsRemoved.WithLabelValues(c.metrics.hostname).Inc()
}

func (c *PrometheusCollector) IncDeleteFailures() {
	c.metrics.DeleteFailures.WithLabelValues(c.metrics.hostname).Inc()
}

func (c *PrometheusCollector) AddComponentsKept(n int) {
	c.metrics.ComponentsKept.WithLabelValues(c.metrics.hostname).Add(float64(n))
}

func (c *PrometheusCollector) IncRepositoriesSkipped() {
	c.metrics.RepositoriesSkipped.WithLabelValues(c.metrics.hostname).Inc()
}

func (c *PrometheusCollector) ObserveCleanupDuration(duration time.Duration) {
	c.metrics.CleanupDuration.WithLabelValues(c.metrics.hostname).Observe(duration.Seconds())
}

func (c *PrometheusCollector) SetLastCleanupTime(timestamp time.Time) {
	c.metrics.LastCleanupTime.WithLabelValues(c.metrics.hostname).Set(float64(timestamp.Unix()))
}

func (c *PrometheusCollector) IncCleanupErrors() {
	c.metrics.CleanupErrors.WithLabelValues(c.metrics.hostname).Inc()
}

func (c *PrometheusCollector) IncHttpRequests(path, method string, status int) {
	c.metrics.HttpRequestTotal.WithLabelValues(c.metrics.hostname, strconv.Itoa(status), method, path).Inc()
}

func (c *PrometheusCollector) IncHttpTimeout(path, method string) {
	c.metrics.HttpRequestTimeout.WithLabelValues(c.metrics.hostname, path, method).Inc()
}

func (c *PrometheusCollector) IncHttpError(path, method string, status int, errorType string) {
	c.metrics.HttpRequestErrors.WithLabelValues(c.metrics.hostname, path, method, strconv.Itoa(status), errorType).Inc()
}
