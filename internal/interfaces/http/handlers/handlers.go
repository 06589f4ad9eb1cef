package handlers

import (
	"context"

	"go-artifact-cleanup/internal/domain/repositories"
	"go-artifact-cleanup/internal/usecases/cleanup"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type Handlers struct {
	Health  *HealthHandler
	Version *VersionHandler
	Metrics *MetricsHandler
	Cleanup *CleanupHandler
	History *HistoryHandler
	logger  *zap.Logger
}

// NewHandlers builds every handler. results may be nil when run history is disabled.
func NewHandlers(
	ctx context.Context,
	logger *zap.Logger,
	version, buildTime string,
	gatherer prometheus.Gatherer,
	cleanupUseCase cleanup.CleanupUseCase,
	results repositories.CleanupResultRepository,
) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(cleanupUseCase, logger),
		Version: NewVersionHandler(version, buildTime),
		Metrics: NewMetricsHandler(gatherer, logger),
		Cleanup: NewCleanupHandler(ctx, cleanupUseCase, logger),
		History: NewHistoryHandler(results, cleanupUseCase, logger),
		logger:  logger,
	}
}
