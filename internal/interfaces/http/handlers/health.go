package handlers

import (
	"runtime"
	"time"

	"go-artifact-cleanup/internal/usecases/cleanup"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type HealthHandler struct {
	cleanupUseCase cleanup.CleanupUseCase
	logger         *zap.Logger
	startTime      time.Time
}

func NewHealthHandler(cleanupUseCase cleanup.CleanupUseCase, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		cleanupUseCase: cleanupUseCase,
		logger:         logger,
		startTime:      time.Now(),
	}
}

func (h *HealthHandler) Status(c *fiber.Ctx) error {
	h.logger.Debug("Health check requested",
		zap.String("path", c.Path()),
		zap.String("ip", c.IP()),
		zap.String("user_agent", c.Get("User-Agent")))

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	cleanupInfo := fiber.Map{
		"running": h.cleanupUseCase.Running(),
	}
	if last, ok := h.cleanupUseCase.LastReport(); ok {
		cleanupInfo["last_run_id"] = last.ID
		cleanupInfo["last_run_at"] = last.EndTime.Format(time.RFC3339)
		cleanupInfo["last_run_failures"] = len(last.Summary.Failures)
	}

	return c.JSON(fiber.Map{
		"status":    "ok",
		"uptime":    time.Since(h.startTime).String(),
		"timestamp": time.Now().Format(time.RFC3339),
		"cleanup":   cleanupInfo,
		"system": fiber.Map{
			"goroutines": runtime.NumGoroutine(),
			"memory": fiber.Map{
				"alloc":  m.Alloc,
				"sys":    m.Sys,
				"num_gc": m.NumGC,
			},
		},
	})
}
