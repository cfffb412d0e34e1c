package repositories

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/skarzhevskyy/nexus-repository-cleanup/internal/domain/repositories"
)

func newTestRepo(t *testing.T) *SQLiteCleanupResultRepository {
	t.Helper()
	repo, err := NewSQLiteCleanupResultRepository(filepath.Join(t.TempDir(), "results.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func sampleResult(id string, createdAt time.Time) repositories.CleanupResult {
	return repositories.CleanupResult{
		ID:                  id,
		HostInfo:            "test-host",
		DryRun:              false,
		StartTime:           createdAt.Add(-time.Minute),
		EndTime:             createdAt,
		Duration:            time.Minute,
		RepositoriesScanned: 3,
		ComponentsSeen:      100,
		ComponentsRemoved:   40,
		ComponentsFailed:    1,
		BytesRemoved:        1 << 20,
		CreatedAt:           createdAt,
	}
}

func TestSQLiteCleanupResultRepository_SaveAndGetByID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	saved := sampleResult("run-1", time.Now().UTC().Truncate(time.Second))
	require.NoError(t, repo.SaveResult(ctx, saved))

	got, err := repo.GetResultByID(ctx, "run-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, saved.HostInfo, got.HostInfo)
	assert.Equal(t, saved.ComponentsRemoved, got.ComponentsRemoved)
	assert.Equal(t, saved.ComponentsFailed, got.ComponentsFailed)
	assert.Equal(t, saved.BytesRemoved, got.BytesRemoved)
	assert.Equal(t, time.Minute, got.Duration)
}

func TestSQLiteCleanupResultRepository_GeneratesID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	result := sampleResult("", time.Now().UTC())
	require.NoError(t, repo.SaveResult(ctx, result))

	latest, err := repo.GetLatestResult(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.NotEmpty(t, latest.ID)
}

func TestSQLiteCleanupResultRepository_GetLatestResult(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.SaveResult(ctx, sampleResult("older", base.Add(-time.Hour))))
	require.NoError(t, repo.SaveResult(ctx, sampleResult("newer", base)))

	latest, err := repo.GetLatestResult(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "newer", latest.ID)
}

func TestSQLiteCleanupResultRepository_GetLatestResultEmpty(t *testing.T) {
	repo := newTestRepo(t)

	latest, err := repo.GetLatestResult(context.Background())
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestSQLiteCleanupResultRepository_GetResultsPagination(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 5; i++ {
		result := sampleResult("", base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, repo.SaveResult(ctx, result))
	}

	page, err := repo.GetResults(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.True(t, page[0].CreatedAt.After(page[1].CreatedAt))

	rest, err := repo.GetResults(ctx, 10, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 3)
}
