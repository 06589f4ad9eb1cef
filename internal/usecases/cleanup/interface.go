package cleanup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-artifact-cleanup/internal/domain/models"
)

// ErrCleanupInProgress is returned when a run is requested while another is still going.
var ErrCleanupInProgress = errors.New("cleanup already in progress")

// InternalError marks a failure of the engine's own bookkeeping, as opposed to
// a collaborator (GitHub, storage) failing.
type InternalError struct {
	Err error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error: %v", e.Err)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Options configures a CleanupService
type Options struct {
	Repository  string // owner/repo, used for logs and reports
	LimitBytes  int64
	DryRun      bool
	Concurrency int
	Timeout     time.Duration
	TimeZone    string // zone used in notifications
}

type CleanupUseCase interface {
	Cleanup(ctx context.Context) (*models.RunReport, error)
	Running() bool

	// LastReport returns the report of the most recent successful run
	LastReport() (*models.RunReport, bool)
}

// Reporter publishes a finished run
type Reporter interface {
	Report(ctx context.Context, report models.RunReport) error
}
