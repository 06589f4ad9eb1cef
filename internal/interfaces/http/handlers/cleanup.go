package handlers

import (
	"context"
	"errors"
	"time"

	"go-artifact-cleanup/internal/usecases/cleanup"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CleanupHandler struct {
	ctx            context.Context
	cleanupUseCase cleanup.CleanupUseCase
	logger         *zap.Logger
}

// NewCleanupHandler returns a handler whose triggered runs stop when ctx is cancelled.
func NewCleanupHandler(ctx context.Context, cleanupUseCase cleanup.CleanupUseCase, logger *zap.Logger) *CleanupHandler {
	return &CleanupHandler{
		ctx:            ctx,
		cleanupUseCase: cleanupUseCase,
		logger:         logger,
	}
}

// TriggerCleanup handles API requests to start the cleanup process
func (h *CleanupHandler) TriggerCleanup(c *fiber.Ctx) error {
	h.logger.Info("Cleanup API endpoint called",
		zap.String("ip", c.IP()),
		zap.String("method", c.Method()))

	if h.cleanupUseCase.Running() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"status":  "rejected",
			"message": cleanup.ErrCleanupInProgress.Error(),
			"time":    time.Now().Format(time.RFC3339),
		})
	}

	// The run outlives the request, so it must not use the request context.
	go func() {
		report, err := h.cleanupUseCase.Cleanup(h.ctx)
		switch {
		case errors.Is(err, cleanup.ErrCleanupInProgress):
			h.logger.Warn("API-triggered cleanup skipped", zap.Error(err))
		case err != nil:
			h.logger.Error("API-triggered cleanup failed", zap.Error(err))
		default:
			h.logger.Info("API-triggered cleanup finished",
				zap.String("run_id", report.ID),
				zap.Int("deleted", report.Summary.DeletedCount))
		}
	}()

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status":  "accepted",
		"message": "Cleanup job has been triggered",
		"time":    time.Now().Format(time.RFC3339),
	})
}
