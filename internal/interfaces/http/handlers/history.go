package handlers

import (
	"errors"

	"go-artifact-cleanup/internal/domain/repositories"
	"go-artifact-cleanup/internal/usecases/cleanup"
	"go-artifact-cleanup/pkg/constants"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// HistoryHandler serves past runs. Without a results repository only the
// last in-process run is available.
type HistoryHandler struct {
	results        repositories.CleanupResultRepository
	cleanupUseCase cleanup.CleanupUseCase
	logger         *zap.Logger
}

func NewHistoryHandler(results repositories.CleanupResultRepository, cleanupUseCase cleanup.CleanupUseCase, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{
		results:        results,
		cleanupUseCase: cleanupUseCase,
		logger:         logger,
	}
}

func (h *HistoryHandler) ListRuns(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", constants.DefaultHistoryPageSize)
	offset := c.QueryInt("offset", 0)
	if limit < 1 || offset < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "limit must be positive and offset non-negative")
	}
	if limit > constants.MaxHistoryPageSize {
		limit = constants.MaxHistoryPageSize
	}

	runs := []repositories.CleanupResult{}
	if h.results != nil {
		found, err := h.results.GetResults(c.UserContext(), limit, offset)
		if err != nil {
			return err
		}
		runs = append(runs, found...)
	} else if offset == 0 {
		if last, ok := h.cleanupUseCase.LastReport(); ok {
			runs = append(runs, repositories.NewCleanupResult(*last))
		}
	}

	return c.JSON(fiber.Map{
		"runs":            runs,
		"limit":           limit,
		"offset":          offset,
		"history_enabled": h.results != nil,
	})
}

func (h *HistoryHandler) LatestRun(c *fiber.Ctx) error {
	if h.results != nil {
		latest, err := h.results.GetLatestResult(c.UserContext())
		if err == nil {
			return c.JSON(latest)
		}
		if !errors.Is(err, repositories.ErrNoCleanupResults) {
			return err
		}
	}

	last, ok := h.cleanupUseCase.LastReport()
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, repositories.ErrNoCleanupResults.Error())
	}
	return c.JSON(repositories.NewCleanupResult(*last))
}

func (h *HistoryHandler) GetRun(c *fiber.Ctx) error {
	id := c.Params("id")

	if h.results != nil {
		run, err := h.results.GetResultByID(c.UserContext(), id)
		if err == nil {
			return c.JSON(run)
		}
		if !errors.Is(err, repositories.ErrNoCleanupResults) {
			return err
		}
	} else if last, ok := h.cleanupUseCase.LastReport(); ok && last.ID == id {
		return c.JSON(repositories.NewCleanupResult(*last))
	}

	h.logger.Debug("Run not found", zap.String("id", id))
	return fiber.NewError(fiber.StatusNotFound, repositories.ErrNoCleanupResults.Error())
}
