package router

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-artifact-cleanup/internal/domain/metrics"
	"go-artifact-cleanup/internal/domain/repositories"
	"go-artifact-cleanup/internal/interfaces/http/handlers"
	"go-artifact-cleanup/internal/interfaces/http/middleware"
	"go-artifact-cleanup/internal/usecases/cleanup"
	"go-artifact-cleanup/pkg/constants"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const apiTimeout = 10 * time.Second

// ErrorResponse represents a structured error response
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Path    string `json:"path"`
}

type FiberApp struct {
	*fiber.App
}

func NewFiberApp(logger *zap.Logger) *FiberApp {
	app := fiber.New(fiber.Config{
		AppName:               constants.ServiceName,
		DisableStartupMessage: true,
		IdleTimeout:           60 * time.Second,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		ServerHeader:          constants.ServiceName,
		ErrorHandler:          errorHandler(logger),
	})

	return &FiberApp{app}
}

// statusFor maps handler errors onto an HTTP status and a client-safe message.
func statusFor(err error) (int, string) {
	var fiberError *fiber.Error
	switch {
	case errors.As(err, &fiberError):
		return fiberError.Code, fiberError.Message
	case errors.Is(err, repositories.ErrNoCleanupResults):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, cleanup.ErrCleanupInProgress):
		return fiber.StatusConflict, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout, "Gateway Timeout"
	case strings.Contains(err.Error(), "broken pipe"):
		return fiber.StatusBadRequest, "Client Disconnected"
	}
	return fiber.StatusInternalServerError, "Internal Server Error"
}

func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, message := statusFor(err)

		logErr := logger.Error
		if status < fiber.StatusInternalServerError {
			logErr = logger.Warn
		}
		logErr("Request failed",
			zap.Error(err),
			zap.String("url", c.Path()),
			zap.String("method", c.Method()),
			zap.Int("status", status),
			zap.String("ip", c.IP()),
			zap.String("user_agent", string(c.Request().Header.UserAgent())))

		return c.Status(status).JSON(ErrorResponse{
			Status:  status,
			Message: message,
			Path:    c.Path(),
		})
	}
}

func SetupRoutes(app *FiberApp, handlers *handlers.Handlers, metricsCollector metrics.MetricsCollector, logger *zap.Logger) {
	app.Use(middleware.Recovery(logger))
	app.Use(middleware.Logger(logger))
	app.Use(middleware.MetricsMiddleware(metricsCollector, logger))

	app.Get("/favicon.ico", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	app.Get("/health", handlers.Health.Status)
	app.Get("/metrics", handlers.Metrics.Handle)
	app.Get("/version", handlers.Version.GetVersion)

	api := app.Group("/api/"+constants.APIVersion, middleware.TimeoutMiddleware(apiTimeout))
	setupAPIRoutes(api, handlers)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Status:  fiber.StatusNotFound,
			Message: "Route not found",
			Path:    c.Path(),
		})
	})
}

func setupAPIRoutes(router fiber.Router, handlers *handlers.Handlers) {
	router.Post("/cleanup", handlers.Cleanup.TriggerCleanup)

	router.Get("/runs", handlers.History.ListRuns)
	router.Get("/runs/latest", handlers.History.LatestRun)
	router.Get("/runs/:id", handlers.History.GetRun)
}
