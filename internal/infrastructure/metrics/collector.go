package metrics

import "time"

func (p *PrometheusMetrics) AddArtifactsDeleted(count int) {
	p.ArtifactsDeleted.WithLabelValues(p.repository).Add(float64(count))
}

func (p *PrometheusMetrics) AddDeleteFailures(count int) {
	p.DeleteFailures.WithLabelValues(p.repository).Add(float64(count))
}

func (p *PrometheusMetrics) AddBytesFreed(bytes int64) {
	p.BytesFreed.WithLabelValues(p.repository).Add(float64(bytes))
}

func (p *PrometheusMetrics) SetStorageUsage(bytes, limit int64) {
	p.StorageBytes.WithLabelValues(p.repository).Set(float64(bytes))
	p.LimitBytes.WithLabelValues(p.repository).Set(float64(limit))
}

func (p *PrometheusMetrics) ObserveCleanupDuration(duration time.Duration) {
	p.CleanupDuration.WithLabelValues(p.repository).Observe(duration.Seconds())
}

func (p *PrometheusMetrics) SetLastCleanupTime(timestamp time.Time) {
	p.LastCleanupTime.WithLabelValues(p.repository).Set(float64(timestamp.Unix()))
}

func (p *PrometheusMetrics) IncCleanupErrors() {
	p.CleanupErrors.WithLabelValues(p.repository).Inc()
}
