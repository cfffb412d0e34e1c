package repositories

import (
	"context"
	"time"
)

// CleanupResult is the persisted outcome of one cleanup run.
type CleanupResult struct {
	ID                  string        `json:"id"`
	HostInfo            string        `json:"host_info"`
	DryRun              bool          `json:"dry_run"`
	StartTime           time.Time     `json:"start_time"`
	EndTime             time.Time     `json:"end_time"`
	Duration            time.Duration `json:"duration"`
	RepositoriesScanned int           `json:"repositories_scanned"`
	ComponentsSeen      int           `json:"components_seen"`
	ComponentsRemoved   int           `json:"components_removed"`
	ComponentsFailed    int           `json:"components_failed"`
	BytesRemoved        int64         `json:"bytes_removed"`
	CreatedAt           time.Time     `json:"created_at"`
}

// CleanupResultRepository stores the history of cleanup runs.
type CleanupResultRepository interface {
	// SaveResult persists the outcome of one run.
	SaveResult(ctx context.Context, result CleanupResult) error

	// GetLatestResult returns the most recent run, if any.
	GetLatestResult(ctx context.Context) (*CleanupResult, error)

	// GetResultByID returns one run by its ID.
	GetResultByID(ctx context.Context, id string) (*CleanupResult, error)

	// GetResults returns runs newest first, paginated.
	GetResults(ctx context.Context, limit, offset int) ([]CleanupResult, error)
}
