package middleware

import (
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// Recovery logs handler panics; the recovered error is answered by the app's
// error handler as a 500.
func Recovery(log *zap.Logger) fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			log.Error("Panic recovered",
				zap.Any("panic", e),
				zap.String("url", c.Path()),
				zap.String("method", c.Method()),
				zap.ByteString("stack", debug.Stack()))
		},
	})
}
