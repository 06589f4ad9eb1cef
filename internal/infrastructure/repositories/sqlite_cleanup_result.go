package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go-artifact-cleanup/internal/domain/repositories"
	"go-artifact-cleanup/pkg/helper"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"go.uber.org/zap"
)

// Ensure SQLiteCleanupResultRepository implements CleanupResultRepository
var _ repositories.CleanupResultRepository = (*SQLiteCleanupResultRepository)(nil)

const resultColumns = `id, repository, dry_run, start_time, end_time, duration_ms, was_over_limit,
	limit_bytes, initial_count, initial_bytes, deleted_count, freed_bytes, final_bytes, failed_count, created_at`

type SQLiteCleanupResultRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteCleanupResultRepository opens (creating if needed) the history database at dbPath.
func NewSQLiteCleanupResultRepository(dbPath string, logger *zap.Logger) (*SQLiteCleanupResultRepository, error) {
	if dbPath != ":memory:" {
		if err := helper.EnsureDirectoryExists(filepath.Dir(dbPath)); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection keeps :memory: databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	repo := &SQLiteCleanupResultRepository{
		db:     db,
		logger: logger,
	}

	if err := repo.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return repo, nil
}

func (r *SQLiteCleanupResultRepository) initSchema() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS cleanup_results (
			id TEXT PRIMARY KEY,
			repository TEXT NOT NULL,
			dry_run BOOLEAN NOT NULL,
			start_time TIMESTAMP NOT NULL,
			end_time TIMESTAMP NOT NULL,
			duration_ms INTEGER NOT NULL,
			was_over_limit BOOLEAN NOT NULL,
			limit_bytes INTEGER NOT NULL,
			initial_count INTEGER NOT NULL,
			initial_bytes INTEGER NOT NULL,
			deleted_count INTEGER NOT NULL,
			freed_bytes INTEGER NOT NULL,
			final_bytes INTEGER NOT NULL,
			failed_count INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_cleanup_results_start_time ON cleanup_results(start_time);
		CREATE INDEX IF NOT EXISTS idx_cleanup_results_repository ON cleanup_results(repository);
	`)
	return err
}

func (r *SQLiteCleanupResultRepository) Close() error {
	return r.db.Close()
}

// SaveResult stores a run, assigning an ID and creation time when missing.
func (r *SQLiteCleanupResultRepository) SaveResult(ctx context.Context, result repositories.CleanupResult) error {
	if result.ID == "" {
		result.ID = uuid.New().String()
	}
	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cleanup_results (`+resultColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		result.ID,
		result.Repository,
		result.DryRun,
		result.StartTime,
		result.EndTime,
		result.Duration.Milliseconds(),
		result.WasOverLimit,
		result.LimitBytes,
		result.InitialCount,
		result.InitialBytes,
		result.DeletedCount,
		result.FreedBytes,
		result.FinalBytes,
		result.FailedCount,
		result.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save cleanup result: %w", err)
	}

	r.logger.Info("Cleanup result saved to SQLite",
		zap.String("id", result.ID))

	return nil
}

func (r *SQLiteCleanupResultRepository) GetLatestResult(ctx context.Context) (*repositories.CleanupResult, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+resultColumns+`
		FROM cleanup_results
		ORDER BY start_time DESC
		LIMIT 1
	`)

	return scanResult(row)
}

func (r *SQLiteCleanupResultRepository) GetResultByID(ctx context.Context, id string) (*repositories.CleanupResult, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+resultColumns+`
		FROM cleanup_results
		WHERE id = ?
	`, id)

	return scanResult(row)
}

func (r *SQLiteCleanupResultRepository) GetResults(ctx context.Context, limit, offset int) ([]repositories.CleanupResult, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+resultColumns+`
		FROM cleanup_results
		ORDER BY start_time DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	results := make([]repositories.CleanupResult, 0)
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return results, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (*repositories.CleanupResult, error) {
	var (
		result     repositories.CleanupResult
		durationMs int64
	)

	err := row.Scan(
		&result.ID,
		&result.Repository,
		&result.DryRun,
		&result.StartTime,
		&result.EndTime,
		&durationMs,
		&result.WasOverLimit,
		&result.LimitBytes,
		&result.InitialCount,
		&result.InitialBytes,
		&result.DeletedCount,
		&result.FreedBytes,
		&result.FinalBytes,
		&result.FailedCount,
		&result.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repositories.ErrNoCleanupResults
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan result: %w", err)
	}

	result.Duration = time.Duration(durationMs) * time.Millisecond
	return &result, nil
}
