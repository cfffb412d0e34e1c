package cleanup

import (
	"context"
	"time"
)

// CleanupStats describes the outcome of one cleanup run.
type CleanupStats struct {
	HostInfo            string        `json:"host_info"`
	DryRun              bool          `json:"dry_run"`
	StartTime           time.Time     `json:"start_time"`
	EndTime             time.Time     `json:"end_time"`
	Duration            time.Duration `json:"duration"`
	RepositoriesScanned int           `json:"repositories_scanned"`
	ComponentsSeen      int           `json:"components_seen"`
	Removed             int           `json:"removed"`
	Failed              int           `json:"failed"`
	BytesRemoved        int64         `json:"bytes_removed"`
}

type CleanupUseCase interface {
	Cleanup(ctx context.Context) error

	// GetLastCleanupStats returns the stats of the most recent run.
	GetLastCleanupStats(ctx context.Context) (*CleanupStats, error)
}
