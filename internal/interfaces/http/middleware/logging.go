package middleware

import (
	"github.com/gofiber/fiber/v2"
	fiberLogger "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
)

// Logger writes an access line per request through log and warns on 4xx/5xx.
func Logger(log *zap.Logger) fiber.Handler {
	return fiberLogger.New(fiberLogger.Config{
		Format: "${status} - ${latency} ${method} ${path}",
		Output: zap.NewStdLog(log.Named("access")).Writer(),
		Done: func(c *fiber.Ctx, logString []byte) {
			if c.Response().StatusCode() >= 400 {
				log.Warn("HTTP request failed",
					zap.Int("status", c.Response().StatusCode()),
					zap.String("method", c.Method()),
					zap.String("path", c.Path()),
					zap.String("ip", c.IP()))
			}
		},
	})
}
