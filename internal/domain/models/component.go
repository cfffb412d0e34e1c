package models

import "time"

// Repository types as reported by the catalog API.
const (
	RepositoryTypeHosted = "hosted"
	RepositoryTypeProxy  = "proxy"
	RepositoryTypeGroup  = "group"
)

// Repository is one repository of the artifact catalog.
type Repository struct {
	Name   string `json:"name"`
	Format string `json:"format"`
	Type   string `json:"type"`
}

// IsAggregate reports whether the repository re-exposes components owned by
// member repositories. Aggregate repositories are never scanned directly
// because their components would be counted and deleted twice.
func (r Repository) IsAggregate() bool {
	return r.Type == RepositoryTypeGroup
}

// Component is one versioned artifact with its physical assets.
type Component struct {
	ID         string  `json:"id"`
	Repository string  `json:"repository"`
	Format     string  `json:"format"`
	Group      string  `json:"group,omitempty"`
	Name       string  `json:"name"`
	Version    string  `json:"version"`
	Assets     []Asset `json:"assets"`
}

// SizeBytes sums the sizes of all assets of the component.
func (c Component) SizeBytes() int64 {
	var total int64
	for _, a := range c.Assets {
		total += a.SizeBytes
	}
	return total
}

// Asset is one downloadable object belonging to a component.
// LastDownloadedAt is nil when the asset has never been downloaded.
type Asset struct {
	ID               string     `json:"id"`
	Path             string     `json:"path,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	LastDownloadedAt *time.Time `json:"lastDownloadedAt,omitempty"`
	SizeBytes        int64      `json:"sizeBytes"`
}

// ComponentPage is one page of a component listing. An empty
// ContinuationToken means there are no further pages.
type ComponentPage struct {
	Items             []Component
	ContinuationToken string
}
