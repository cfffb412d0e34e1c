package reports

import "sort"

// RepositoryStats accumulates removed/remaining counters for one repository.
// Counters only grow; they are read at report time.
type RepositoryStats struct {
	Format              string `json:"format"`
	RemovedComponents   int64  `json:"removedComponents"`
	RemovedBytes        int64  `json:"removedBytes"`
	RemainingComponents int64  `json:"remainingComponents"`
	RemainingBytes      int64  `json:"remainingBytes"`
}

// GroupStats accumulates removed/remaining counters for one component group.
type GroupStats struct {
	RemovedComponents   int64 `json:"removedComponents"`
	RemovedBytes        int64 `json:"removedBytes"`
	RemainingComponents int64 `json:"remainingComponents"`
	RemainingBytes      int64 `json:"remainingBytes"`
}

// RepositorySummary aggregates per-repository statistics for one job run.
// Callers must serialize Add calls; the pipeline owns that synchronization.
type RepositorySummary struct {
	Repositories map[string]*RepositoryStats `json:"repositories"`
	Totals       RepositoryStats             `json:"totals"`
}

func NewRepositorySummary() *RepositorySummary {
	return &RepositorySummary{Repositories: make(map[string]*RepositoryStats)}
}

// Add records one processed page worth of stats for a repository.
func (s *RepositorySummary) Add(name, format string, removedCount, removedBytes, remainingCount, remainingBytes int64) {
	stats, ok := s.Repositories[name]
	if !ok {
		stats = &RepositoryStats{Format: format}
		s.Repositories[name] = stats
	}
	stats.RemovedComponents += removedCount
	stats.RemovedBytes += removedBytes
	stats.RemainingComponents += remainingCount
	stats.RemainingBytes += remainingBytes

	s.Totals.RemovedComponents += removedCount
	s.Totals.RemovedBytes += removedBytes
	s.Totals.RemainingComponents += remainingCount
	s.Totals.RemainingBytes += remainingBytes
}

// RepositoryEntry is one sorted row of a repository summary.
type RepositoryEntry struct {
	Name  string
	Stats *RepositoryStats
}

// Sorted returns summary rows ordered by the given key, largest first for
// count and size orderings.
func (s *RepositorySummary) Sorted(by SortBy) []RepositoryEntry {
	entries := make([]RepositoryEntry, 0, len(s.Repositories))
	for name, stats := range s.Repositories {
		entries = append(entries, RepositoryEntry{Name: name, Stats: stats})
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch by {
		case SortByName:
			return a.Name < b.Name
		case SortBySize:
			if a.Stats.RemovedBytes != b.Stats.RemovedBytes {
				return a.Stats.RemovedBytes > b.Stats.RemovedBytes
			}
			if a.Stats.RemainingBytes != b.Stats.RemainingBytes {
				return a.Stats.RemainingBytes > b.Stats.RemainingBytes
			}
		default:
			if a.Stats.RemovedComponents != b.Stats.RemovedComponents {
				return a.Stats.RemovedComponents > b.Stats.RemovedComponents
			}
			if a.Stats.RemainingComponents != b.Stats.RemainingComponents {
				return a.Stats.RemainingComponents > b.Stats.RemainingComponents
			}
		}
		return a.Name < b.Name
	})

	return entries
}

// GroupsSummary aggregates per-group statistics for components that declare
// a group. Same synchronization contract as RepositorySummary.
type GroupsSummary struct {
	Groups map[string]*GroupStats `json:"groups"`
	Totals GroupStats             `json:"totals"`
}

func NewGroupsSummary() *GroupsSummary {
	return &GroupsSummary{Groups: make(map[string]*GroupStats)}
}

// Add records stats for one group.
func (s *GroupsSummary) Add(name string, removedCount, removedBytes, remainingCount, remainingBytes int64) {
	stats, ok := s.Groups[name]
	if !ok {
		stats = &GroupStats{}
		s.Groups[name] = stats
	}
	stats.RemovedComponents += removedCount
	stats.RemovedBytes += removedBytes
	stats.RemainingComponents += remainingCount
	stats.RemainingBytes += remainingBytes

	s.Totals.RemovedComponents += removedCount
	s.Totals.RemovedBytes += removedBytes
	s.Totals.RemainingComponents += remainingCount
	s.Totals.RemainingBytes += remainingBytes
}

// GroupEntry is one sorted row of a groups summary.
type GroupEntry struct {
	Name  string
	Stats *GroupStats
}

// Sorted returns group rows ordered by the given key.
func (s *GroupsSummary) Sorted(by SortBy) []GroupEntry {
	entries := make([]GroupEntry, 0, len(s.Groups))
	for name, stats := range s.Groups {
		entries = append(entries, GroupEntry{Name: name, Stats: stats})
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch by {
		case SortByName:
			return a.Name < b.Name
		case SortBySize:
			if a.Stats.RemovedBytes != b.Stats.RemovedBytes {
				return a.Stats.RemovedBytes > b.Stats.RemovedBytes
			}
			if a.Stats.RemainingBytes != b.Stats.RemainingBytes {
				return a.Stats.RemainingBytes > b.Stats.RemainingBytes
			}
		default:
			if a.Stats.RemovedComponents != b.Stats.RemovedComponents {
				return a.Stats.RemovedComponents > b.Stats.RemovedComponents
			}
			if a.Stats.RemainingComponents != b.Stats.RemainingComponents {
				return a.Stats.RemainingComponents > b.Stats.RemainingComponents
			}
		}
		return a.Name < b.Name
	})

	return entries
}
