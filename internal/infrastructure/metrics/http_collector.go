package metrics

import (
	"strconv"

	"go.uber.org/zap"
)

// HTTP series are labelled by route pattern, see middleware.MetricsMiddleware.

func (p *PrometheusMetrics) IncHttpRequests(path, method string, status int) {
	code := strconv.Itoa(status)
	p.HttpRequestTotal.WithLabelValues(p.repository, code, path, method).Inc()
	p.logHTTP("http_requests_total", path, method, zap.String("code", code))
}

func (p *PrometheusMetrics) IncHttpTimeout(path, method string) {
	p.HttpRequestTimeout.WithLabelValues(p.repository, path, method).Inc()
	p.logHTTP("http_request_timeouts_total", path, method)
}

func (p *PrometheusMetrics) IncHttpError(path, method string, status int, errorType string) {
	p.HttpRequestErrors.WithLabelValues(p.repository, path, method, strconv.Itoa(status), errorType).Inc()
	p.logHTTP("http_request_errors_total", path, method,
		zap.Int("status", status),
		zap.String("error_type", errorType))
}

func (p *PrometheusMetrics) logHTTP(metric, path, method string, extra ...zap.Field) {
	if !p.logger.Core().Enabled(zap.DebugLevel) {
		return
	}
	fields := append([]zap.Field{
		zap.String("metric", namespace+"_"+metric),
		zap.String("path", path),
		zap.String("method", method),
	}, extra...)
	p.logger.Debug("HTTP metric incremented", fields...)
}
