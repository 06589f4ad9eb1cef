// internal/interfaces/http/middleware/metrics.go
package middleware

import (
	"errors"
	"time"

	"go-artifact-cleanup/internal/domain/metrics"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func MetricsMiddleware(metricsCollector metrics.MetricsCollector, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		startTime := time.Now()
		method := c.Method()

		err := c.Next()

		// Label by route pattern so run ids do not become label values.
		path := c.Route().Path
		if path == "" || path == "/" {
			path = c.Path()
		}
		status := c.Response().StatusCode()
		if err != nil {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				status = fiberErr.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		metricsCollector.IncHttpRequests(path, method, status)

		if status == fiber.StatusRequestTimeout {
			metricsCollector.IncHttpTimeout(path, method)
		}

		if status >= 500 {
			errorType := "server_error"
			switch status {
			case fiber.StatusServiceUnavailable:
				errorType = "service_unavailable"
			case fiber.StatusGatewayTimeout:
				errorType = "gateway_timeout"
			case fiber.StatusInternalServerError:
				errorType = "internal_server_error"
			}
			metricsCollector.IncHttpError(path, method, status, errorType)
		}

		logger.Debug("Request processed",
			zap.String("path", path),
			zap.String("method", method),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(startTime)))

		return err
	}
}
