package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/skarzhevskyy/nexus-repository-cleanup/internal/domain/repositories"
)

// SQLiteCleanupResultRepository persists cleanup run history in SQLite.
type SQLiteCleanupResultRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

var _ repositories.CleanupResultRepository = (*SQLiteCleanupResultRepository)(nil)

func NewSQLiteCleanupResultRepository(dbPath string, logger *zap.Logger) (*SQLiteCleanupResultRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("can't create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("can't open database: %w", err)
	}

	repo := &SQLiteCleanupResultRepository{db: db, logger: logger}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("can't migrate database: %w", err)
	}

	logger.Info("SQLite result repository initialized", zap.String("path", dbPath))
	return repo, nil
}

func (r *SQLiteCleanupResultRepository) migrate() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS cleanup_results (
			id TEXT PRIMARY KEY,
			host_info TEXT NOT NULL,
			dry_run INTEGER NOT NULL DEFAULT 0,
			start_time DATETIME NOT NULL,
			end_time DATETIME NOT NULL,
			duration_ms INTEGER NOT NULL,
			repositories_scanned INTEGER NOT NULL,
			components_seen INTEGER NOT NULL,
			components_removed INTEGER NOT NULL,
			components_failed INTEGER NOT NULL,
			bytes_removed INTEGER NOT NULL,
			created_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_cleanup_results_created_at
			ON cleanup_results(created_at DESC);
	`)
	return err
}

func (r *SQLiteCleanupResultRepository) SaveResult(ctx context.Context, result repositories.CleanupResult) error {
	if result.ID == "" {
		result.ID = uuid.New().String()
	}
	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cleanup_results (
			id, host_info, dry_run, start_time, end_time, duration_ms,
			repositories_scanned, components_seen, components_removed,
			components_failed, bytes_removed, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.ID,
		result.HostInfo,
		result.DryRun,
		result.StartTime,
		result.EndTime,
		result.Duration.Milliseconds(),
		result.RepositoriesScanned,
		result.ComponentsSeen,
		result.ComponentsRemoved,
		result.ComponentsFailed,
		result.BytesRemoved,
		result.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to save cleanup result", zap.Error(err))
		return fmt.Errorf("failed to save cleanup result: %w", err)
	}

	r.logger.Debug("Cleanup result saved", zap.String("id", result.ID))
	return nil
}

func (r *SQLiteCleanupResultRepository) GetLatestResult(ctx context.Context) (*repositories.CleanupResult, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+`
		FROM cleanup_results ORDER BY created_at DESC LIMIT 1`)

	result, err := scanResult(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest cleanup result: %w", err)
	}
	return result, nil
}

func (r *SQLiteCleanupResultRepository) GetResultByID(ctx context.Context, id string) (*repositories.CleanupResult, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+`
		FROM cleanup_results WHERE id = ?`, id)

	result, err := scanResult(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cleanup result: %w", err)
	}
	return result, nil
}

func (r *SQLiteCleanupResultRepository) GetResults(ctx context.Context, limit, offset int) ([]repositories.CleanupResult, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+`
		FROM cleanup_results ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query cleanup results: %w", err)
	}
	defer rows.Close()

	var results []repositories.CleanupResult
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cleanup result: %w", err)
		}
		results = append(results, *result)
	}
	return results, rows.Err()
}

func (r *SQLiteCleanupResultRepository) Close() error {
	return r.db.Close()
}

const selectColumns = `
	SELECT id, host_info, dry_run, start_time, end_time, duration_ms,
		repositories_scanned, components_seen, components_removed,
		components_failed, bytes_removed, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (*repositories.CleanupResult, error) {
	var result repositories.CleanupResult
	var durationMs int64

	err := row.Scan(
		&result.ID,
		&result.HostInfo,
		&result.DryRun,
		&result.StartTime,
		&result.EndTime,
		&durationMs,
		&result.RepositoriesScanned,
		&result.ComponentsSeen,
		&result.ComponentsRemoved,
		&result.ComponentsFailed,
		&result.BytesRemoved,
		&result.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	result.Duration = time.Duration(durationMs) * time.Millisecond
	return &result, nil
}
