// internal/usecases/cleanup/service.go
package cleanup

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-artifact-cleanup/internal/domain/eviction"
	"go-artifact-cleanup/internal/domain/metrics"
	"go-artifact-cleanup/internal/domain/models"
	"go-artifact-cleanup/internal/domain/notification"
	"go-artifact-cleanup/internal/domain/repositories"
	"go-artifact-cleanup/pkg/constants"
	"go-artifact-cleanup/pkg/helper"
	"go-artifact-cleanup/pkg/result"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type CleanupService struct {
	repo       repositories.ArtifactRepository
	resultRepo repositories.CleanupResultRepository // optional
	notifier   notification.Notifier
	metrics    metrics.MetricsCollector
	reporter   Reporter // optional
	opts       Options
	logger     *zap.Logger
	now        func() time.Time

	running sync.Mutex

	mu   sync.RWMutex
	last *models.RunReport
}

var _ CleanupUseCase = (*CleanupService)(nil)

func NewCleanupService(
	repo repositories.ArtifactRepository,
	resultRepo repositories.CleanupResultRepository,
	notifier notification.Notifier,
	metricsCollector metrics.MetricsCollector,
	reporter Reporter,
	opts Options,
	logger *zap.Logger,
) *CleanupService {
	if opts.Concurrency <= 0 {
		opts.Concurrency = constants.DefaultDeleteConcurrency
	}
	if opts.Timeout <= 0 {
		opts.Timeout = constants.CleanupTimeout
	}

	return &CleanupService{
		repo:       repo,
		resultRepo: resultRepo,
		notifier:   notifier,
		metrics:    metricsCollector,
		reporter:   reporter,
		opts:       opts,
		logger:     logger,
		now:        time.Now,
	}
}

// Running reports whether a run currently holds the lock.
func (s *CleanupService) Running() bool {
	if s.running.TryLock() {
		s.running.Unlock()
		return false
	}
	return true
}

func (s *CleanupService) LastReport() (*models.RunReport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return nil, false
	}
	report := *s.last
	return &report, true
}

// Cleanup fetches the inventory, evicts the oldest artifacts until usage fits
// the limit and reports the outcome. Individual deletion failures do not fail
// the run; they are listed in the summary. Fetch and internal errors do, and
// no report is produced for them.
func (s *CleanupService) Cleanup(ctx context.Context) (*models.RunReport, error) {
	if !s.running.TryLock() {
		return nil, ErrCleanupInProgress
	}
	defer s.running.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	startTime := s.now()
	log := s.logger.With(
		zap.String("repository", s.opts.Repository),
		zap.Bool("dry_run", s.opts.DryRun))

	fetched := s.fetchInventory(ctx)
	if fetched.IsErr() {
		s.metrics.IncCleanupErrors()
		return nil, fetched.Err()
	}
	inventory := fetched.Value()

	selection, err := eviction.Plan(inventory, s.opts.LimitBytes)
	if err != nil {
		s.metrics.IncCleanupErrors()
		log.Error("Eviction selection failed", zap.Error(err))
		return nil, &InternalError{Err: err}
	}

	s.metrics.SetStorageUsage(selection.Stats.TotalSizeBytes, s.opts.LimitBytes)
	log.Info("Artifact storage usage",
		zap.Int("count", selection.Stats.Count),
		zap.Int64("total_bytes", selection.Stats.TotalSizeBytes),
		zap.String("total_gb", eviction.FormatGB(selection.Stats.TotalSizeGB)),
		zap.String("limit_gb", eviction.FormatGB(eviction.ToGB(s.opts.LimitBytes))),
		zap.Bool("over_limit", selection.WasOverLimit))

	var outcomes []models.DeletionOutcome
	if selection.WasOverLimit {
		log.Info("Storage over limit, evicting oldest artifacts",
			zap.Int("selected", len(selection.ToDelete)),
			zap.Int64("selected_bytes", eviction.TotalSize(selection.ToDelete)))
		outcomes = s.deleteArtifacts(ctx, log, selection.ToDelete)
	} else {
		log.Info("Storage within limit, nothing to delete")
	}

	retained := eviction.PartitionRetained(inventory, outcomes)
	summary := eviction.BuildSummary(selection.Stats, outcomes, retained)
	if err := eviction.VerifyPartition(inventory, summary, outcomes); err != nil {
		s.metrics.IncCleanupErrors()
		return nil, &InternalError{Err: err}
	}

	endTime := s.now()
	report := models.RunReport{
		ID:           uuid.New().String(),
		Repository:   s.opts.Repository,
		DryRun:       s.opts.DryRun,
		WasOverLimit: selection.WasOverLimit,
		LimitBytes:   s.opts.LimitBytes,
		StartTime:    startTime,
		EndTime:      endTime,
		Duration:     endTime.Sub(startTime),
		Deleted:      deletedArtifacts(outcomes),
		Summary:      summary,
	}

	s.recordMetrics(report)
	s.publish(ctx, log, report)

	s.mu.Lock()
	s.last = &report
	s.mu.Unlock()

	return &report, nil
}

func (s *CleanupService) fetchInventory(ctx context.Context) result.Result[[]models.Artifact] {
	fetched := result.Of(s.repo.ListArtifacts(ctx))
	if fetched.IsErr() {
		return result.Fail[[]models.Artifact](fmt.Errorf("failed to list artifacts: %w", fetched.Err()))
	}
	return fetched
}

// deleteArtifacts deletes selected with at most opts.Concurrency requests in
// flight. Outcomes are returned in selection order.
func (s *CleanupService) deleteArtifacts(ctx context.Context, log *zap.Logger, selected []models.Artifact) []models.DeletionOutcome {
	outcomes := make([]models.DeletionOutcome, len(selected))

	var g errgroup.Group
	g.SetLimit(s.opts.Concurrency)

	for i, artifact := range selected {
		i, artifact := i, artifact
		g.Go(func() error {
			outcomes[i] = s.deleteOne(ctx, log, artifact)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func (s *CleanupService) deleteOne(ctx context.Context, log *zap.Logger, artifact models.Artifact) models.DeletionOutcome {
	fields := []zap.Field{
		zap.Int64("id", artifact.ID),
		zap.String("name", artifact.Name),
		zap.Int64("size_bytes", artifact.SizeInBytes),
		zap.Int("age_days", eviction.AgeInDays(artifact.CreatedAt, s.now())),
	}

	if err := ctx.Err(); err != nil {
		log.Warn("Deletion cancelled", append(fields, zap.Error(err))...)
		return models.DeletionOutcome{
			Artifact:     artifact,
			ErrorMessage: fmt.Sprintf("deletion cancelled: %v", err),
		}
	}

	if s.opts.DryRun {
		log.Info("Dry run: would delete artifact", fields...)
		return models.DeletionOutcome{Artifact: artifact, Succeeded: true}
	}

	if err := s.repo.DeleteArtifact(ctx, artifact.ID); err != nil {
		if errors.Is(err, repositories.ErrArtifactNotFound) {
			log.Warn("Artifact already gone", append(fields, zap.Error(err))...)
		} else {
			log.Warn("Failed to delete artifact", append(fields, zap.Error(err))...)
		}
		return models.DeletionOutcome{Artifact: artifact, ErrorMessage: err.Error()}
	}

	log.Info("Deleted artifact", fields...)
	return models.DeletionOutcome{Artifact: artifact, Succeeded: true}
}

func (s *CleanupService) recordMetrics(report models.RunReport) {
	s.metrics.AddArtifactsDeleted(report.Summary.DeletedCount)
	s.metrics.AddDeleteFailures(len(report.Summary.Failures))
	s.metrics.AddBytesFreed(report.Summary.FreedBytes)
	s.metrics.ObserveCleanupDuration(report.Duration)
	s.metrics.SetLastCleanupTime(report.EndTime)
}

// publish hands the report to every sink. Sink failures are logged only.
func (s *CleanupService) publish(ctx context.Context, log *zap.Logger, report models.RunReport) {
	summary := report.Summary

	logFields := []zap.Field{
		zap.String("run_id", report.ID),
		zap.Int("deleted", summary.DeletedCount),
		zap.Int64("freed_bytes", summary.FreedBytes),
		zap.String("freed_gb", eviction.FormatGB(eviction.ToGB(summary.FreedBytes))),
		zap.String("final_size_gb", eviction.FormatGB(eviction.ToGB(summary.FinalSizeBytes))),
		zap.Int("retained", len(summary.Retained)),
		zap.Int("failed", len(summary.Failures)),
		zap.String("duration", report.Duration.Round(time.Millisecond).String()),
	}
	if len(summary.Failures) > 0 {
		log.Warn("Cleanup completed with failed deletions", logFields...)
		for _, f := range summary.Failures {
			log.Warn("Deletion failure",
				zap.Int64("id", f.Artifact.ID),
				zap.String("name", f.Artifact.Name),
				zap.String("error", f.ErrorMessage))
		}
	} else {
		log.Info("Cleanup completed", logFields...)
	}
	if eviction.IsOverLimit(summary.FinalSizeBytes, report.LimitBytes) {
		log.Warn("Storage still over limit after cleanup",
			zap.String("final_size_gb", eviction.FormatGB(eviction.ToGB(summary.FinalSizeBytes))))
	}

	// Sinks get their own context so a run that hit its deadline can still report.
	sinkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	if s.reporter != nil {
		if err := s.reporter.Report(sinkCtx, report); err != nil {
			log.Error("Failed to publish run report", zap.Error(err))
		}
	}

	if s.resultRepo != nil {
		if err := s.resultRepo.SaveResult(sinkCtx, repositories.NewCleanupResult(report)); err != nil {
			log.Error("Failed to save cleanup result", zap.Error(err))
		}
	}

	message := helper.FormatCleanupMessage(helper.CleanupMessage{
		Repository:   report.Repository,
		DryRun:       report.DryRun,
		StartTime:    report.StartTime,
		EndTime:      report.EndTime,
		Duration:     report.Duration,
		TimeZone:     s.opts.TimeZone,
		WasOverLimit: report.WasOverLimit,
		LimitGB:      eviction.FormatGB(eviction.ToGB(report.LimitBytes)),
		InitialCount: summary.InitialStats.Count,
		InitialGB:    eviction.FormatGB(summary.InitialStats.TotalSizeGB),
		Deleted:      summary.DeletedCount,
		FreedGB:      eviction.FormatGB(eviction.ToGB(summary.FreedBytes)),
		FinalGB:      eviction.FormatGB(eviction.ToGB(summary.FinalSizeBytes)),
		Failed:       len(summary.Failures),
	})
	if err := s.notifier.SendNotification(sinkCtx, message); err != nil {
		log.Error("Failed to send notification", zap.Error(err))
	}
}

func deletedArtifacts(outcomes []models.DeletionOutcome) []models.Artifact {
	deleted := make([]models.Artifact, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Succeeded {
			deleted = append(deleted, o.Artifact)
		}
	}
	return deleted
}
