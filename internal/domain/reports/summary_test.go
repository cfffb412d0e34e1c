package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositorySummary_Accumulates(t *testing.T) {
	s := NewRepositorySummary()
	s.Add("maven-releases", "maven2", 2, 200, 8, 800)
	s.Add("maven-releases", "maven2", 1, 100, 4, 400)
	s.Add("npm-internal", "npm", 5, 5000, 0, 0)

	require.Len(t, s.Repositories, 2)
	maven := s.Repositories["maven-releases"]
	assert.Equal(t, "maven2", maven.Format)
	assert.Equal(t, int64(3), maven.RemovedComponents)
	assert.Equal(t, int64(300), maven.RemovedBytes)
	assert.Equal(t, int64(12), maven.RemainingComponents)
	assert.Equal(t, int64(1200), maven.RemainingBytes)

	assert.Equal(t, int64(8), s.Totals.RemovedComponents)
	assert.Equal(t, int64(5300), s.Totals.RemovedBytes)
	assert.Equal(t, int64(12), s.Totals.RemainingComponents)
}

func TestRepositorySummary_Sorted(t *testing.T) {
	s := NewRepositorySummary()
	s.Add("beta", "maven2", 1, 9000, 0, 0)
	s.Add("alpha", "maven2", 3, 100, 0, 0)
	s.Add("gamma", "npm", 2, 500, 0, 0)

	byComponents := s.Sorted(SortByComponents)
	assert.Equal(t, []string{"alpha", "gamma", "beta"}, entryNames(byComponents))

	bySize := s.Sorted(SortBySize)
	assert.Equal(t, []string{"beta", "gamma", "alpha"}, entryNames(bySize))

	byName := s.Sorted(SortByName)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, entryNames(byName))
}

func entryNames(entries []RepositoryEntry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

func TestGroupsSummary_Accumulates(t *testing.T) {
	s := NewGroupsSummary()
	s.Add("com.example", 2, 2048, 1, 512)
	s.Add("com.example", 1, 1024, 0, 0)
	s.Add("org.other", 0, 0, 3, 300)

	require.Len(t, s.Groups, 2)
	assert.Equal(t, int64(3), s.Groups["com.example"].RemovedComponents)
	assert.Equal(t, int64(3072), s.Groups["com.example"].RemovedBytes)
	assert.Equal(t, int64(3), s.Groups["org.other"].RemainingComponents)
	assert.Equal(t, int64(3), s.Totals.RemovedComponents)
}

func TestParseSortBy(t *testing.T) {
	for value, want := range map[string]SortBy{
		"":           SortByComponents,
		"components": SortByComponents,
		"NAME":       SortByName,
		"Size":       SortBySize,
	} {
		got, err := ParseSortBy(value)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseSortBy("bytes")
	assert.Error(t, err)
}
