package reports

import "github.com/skarzhevskyy/nexus-repository-cleanup/internal/domain/models"

// Writer receives the summaries and selected components of one job run.
// Implementations render to console, CSV or JSON.
type Writer interface {
	WriteRepositorySummary(summary *RepositorySummary, by SortBy) error

	WriteGroupsSummary(summary *GroupsSummary, by SortBy, topGroups int) error

	// WriteComponent records one component selected for removal.
	WriteComponent(component models.Component) error

	Close() error
}
