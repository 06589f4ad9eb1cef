package repositories

import (
	"context"
	"errors"
	"time"

	"go-artifact-cleanup/internal/domain/models"
)

// ErrNoCleanupResults is returned when the history holds no matching run.
var ErrNoCleanupResults = errors.New("no cleanup results found")

// CleanupResult is the persisted record of one cleanup run
type CleanupResult struct {
	ID           string        `json:"id"`
	Repository   string        `json:"repository"`
	DryRun       bool          `json:"dry_run"`
	StartTime    time.Time     `json:"start_time"`
	EndTime      time.Time     `json:"end_time"`
	Duration     time.Duration `json:"duration"`
	WasOverLimit bool          `json:"was_over_limit"`
	LimitBytes   int64         `json:"limit_bytes"`
	InitialCount int           `json:"initial_count"`
	InitialBytes int64         `json:"initial_bytes"`
	DeletedCount int           `json:"deleted_count"`
	FreedBytes   int64         `json:"freed_bytes"`
	FinalBytes   int64         `json:"final_bytes"`
	FailedCount  int           `json:"failed_count"`
	CreatedAt    time.Time     `json:"created_at"`
}

// CleanupResultRepository stores run history. It is an audit log only and is
// never consulted when deciding what to evict.
type CleanupResultRepository interface {
	SaveResult(ctx context.Context, result CleanupResult) error

	// GetLatestResult returns the most recent run
	GetLatestResult(ctx context.Context) (*CleanupResult, error)

	GetResultByID(ctx context.Context, id string) (*CleanupResult, error)

	// GetResults lists runs newest first
	GetResults(ctx context.Context, limit, offset int) ([]CleanupResult, error)
}

// NewCleanupResult flattens a run report into its history record.
func NewCleanupResult(report models.RunReport) CleanupResult {
	return CleanupResult{
		ID:           report.ID,
		Repository:   report.Repository,
		DryRun:       report.DryRun,
		StartTime:    report.StartTime,
		EndTime:      report.EndTime,
		Duration:     report.Duration,
		WasOverLimit: report.WasOverLimit,
		LimitBytes:   report.LimitBytes,
		InitialCount: report.Summary.InitialStats.Count,
		InitialBytes: report.Summary.InitialStats.TotalSizeBytes,
		DeletedCount: report.Summary.DeletedCount,
		FreedBytes:   report.Summary.FreedBytes,
		FinalBytes:   report.Summary.FinalSizeBytes,
		FailedCount:  len(report.Summary.Failures),
	}
}
