package repositories

import (
	"context"

	"github.com/skarzhevskyy/nexus-repository-cleanup/internal/domain/models"
)

// ArtifactCatalog is the remote catalog the cleanup job scans and prunes.
type ArtifactCatalog interface {
	// ListRepositories returns all repositories of the catalog in one shot.
	ListRepositories(ctx context.Context) ([]models.Repository, error)

	// ListComponents fetches one page of components for a repository.
	// An empty continuationToken requests the first page; an empty token in
	// the returned page means there are no further pages.
	ListComponents(ctx context.Context, repository, continuationToken string) (models.ComponentPage, error)

	// DeleteComponent removes a component by its catalog ID.
	DeleteComponent(ctx context.Context, componentID string) error
}
