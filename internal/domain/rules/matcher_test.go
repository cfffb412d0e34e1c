package rules

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skarzhevskyy/nexus-repository-cleanup/internal/domain/models"
)

func boolPtr(b bool) *bool { return &b }

func deleteRule(name string, filters CleanupFilters) CleanupRule {
	return CleanupRule{Name: name, Action: "delete", Filters: filters}
}

func keepRule(name string, filters CleanupFilters) CleanupRule {
	return CleanupRule{Name: name, Action: "keep", Filters: filters}
}

func compile(t *testing.T, rules ...CleanupRule) *Matcher {
	t.Helper()
	m, err := Compile(&RuleSet{Rules: rules}, testNow)
	require.NoError(t, err)
	return m
}

// component builds a single-asset component whose asset was created the
// given number of days before the test reference time.
func component(name string, ageDays int) models.Component {
	return models.Component{
		ID:         "id-" + name,
		Repository: "maven-releases",
		Format:     "maven2",
		Group:      "com.example",
		Name:       name,
		Version:    "1.0.0",
		Assets: []models.Asset{
			{CreatedAt: testNow.AddDate(0, 0, -ageDays), SizeBytes: 100},
		},
	}
}

func TestWildcardPatterns(t *testing.T) {
	tests := []struct {
		pattern string
		value   string
		want    bool
	}{
		{"*", "anything", true},
		{"*", "", false}, // empty values never match
		{"test-*", "test-x", true},
		{"test-*", "xtest-x", false},
		{"test-*", "test-", true},
		{"junit?", "junit1", true},
		{"junit?", "junit", false},
		{"junit?", "junit12", false},
		{"a.b", "a.b", true},
		{"a.b", "axb", false}, // dot is literal, not a regex metacharacter
		{"v1.?.*", "v1.2.3", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.value, func(t *testing.T) {
			re, err := CompilePattern(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, matchesAnyPattern(tt.value, []*regexp.Regexp{re}))
		})
	}
}

func TestMatches_NoAssetsNeverSelected(t *testing.T) {
	m := compile(t, deleteRule("all", CleanupFilters{Names: []string{"*"}}))

	c := component("lib", 60)
	c.Assets = nil
	assert.False(t, m.Matches(c))
}

func TestMatches_KeepPrecedence(t *testing.T) {
	c := component("prod-lib", 60)

	// Keep wins regardless of rule order in the set.
	m := compile(t,
		deleteRule("delete-all", CleanupFilters{Names: []string{"*"}}),
		keepRule("keep-prod", CleanupFilters{Names: []string{"prod-*"}}),
	)
	assert.False(t, m.Matches(c))

	m = compile(t,
		keepRule("keep-prod", CleanupFilters{Names: []string{"prod-*"}}),
		deleteRule("delete-all", CleanupFilters{Names: []string{"*"}}),
	)
	assert.False(t, m.Matches(c))

	assert.True(t, m.Matches(component("other-lib", 60)))
}

func TestMatches_DisabledRuleHasNoEffect(t *testing.T) {
	disabled := deleteRule("disabled", CleanupFilters{Names: []string{"*"}})
	disabled.Enabled = boolPtr(false)

	m := compile(t, disabled)
	assert.False(t, m.Matches(component("lib", 60)))

	// A disabled keep rule does not shield components either.
	disabledKeep := keepRule("disabled-keep", CleanupFilters{Names: []string{"*"}})
	disabledKeep.Enabled = boolPtr(false)
	m = compile(t,
		disabledKeep,
		deleteRule("delete-all", CleanupFilters{Names: []string{"*"}}),
	)
	assert.True(t, m.Matches(component("lib", 60)))
}

func TestMatches_DimensionsAreANDed(t *testing.T) {
	m := compile(t, deleteRule("narrow", CleanupFilters{
		Repositories: []string{"maven-*"},
		Formats:      []string{"maven2"},
		Groups:       []string{"com.example*"},
		Names:        []string{"lib"},
		Versions:     []string{"1.*"},
	}))

	assert.True(t, m.Matches(component("lib", 60)))

	wrongVersion := component("lib", 60)
	wrongVersion.Version = "2.0.0"
	assert.False(t, m.Matches(wrongVersion))

	wrongRepo := component("lib", 60)
	wrongRepo.Repository = "npm-releases"
	assert.False(t, m.Matches(wrongRepo))
}

func TestMatches_EmptyGroupNeverMatchesGroupPatterns(t *testing.T) {
	m := compile(t, deleteRule("grouped", CleanupFilters{Groups: []string{"*"}}))

	c := component("lib", 60)
	c.Group = ""
	assert.False(t, m.Matches(c))
}

func TestMatches_UpdatedAllAssetsMustAgree(t *testing.T) {
	m := compile(t, deleteRule("old", CleanupFilters{Updated: "30d"}))

	mixed := component("lib", 60)
	mixed.Assets = append(mixed.Assets, models.Asset{CreatedAt: testNow.AddDate(0, 0, -10)})
	assert.False(t, m.Matches(mixed), "one fresh asset keeps the whole component")

	old := component("lib", 60)
	old.Assets = append(old.Assets, models.Asset{CreatedAt: testNow.AddDate(0, 0, -45)})
	assert.True(t, m.Matches(old))
}

func TestMatches_UpdatedRequiresKnownCreationTime(t *testing.T) {
	m := compile(t, deleteRule("old", CleanupFilters{Updated: "30d"}))

	c := component("lib", 60)
	c.Assets = append(c.Assets, models.Asset{}) // no creation timestamp
	assert.False(t, m.Matches(c))
}

func TestMatches_DownloadedNever(t *testing.T) {
	m := compile(t, deleteRule("untouched", CleanupFilters{Downloaded: "never"}))

	never := component("lib", 60)
	assert.True(t, m.Matches(never))

	downloaded := component("lib", 60)
	at := testNow.AddDate(0, 0, -5)
	downloaded.Assets[0].LastDownloadedAt = &at
	assert.False(t, m.Matches(downloaded), "a single downloaded asset disqualifies the component")
}

func TestMatches_DownloadedBeforeCutoff(t *testing.T) {
	m := compile(t, deleteRule("stale", CleanupFilters{Downloaded: "30d"}))

	staleAt := testNow.AddDate(0, 0, -60)
	stale := component("lib", 90)
	stale.Assets[0].LastDownloadedAt = &staleAt
	assert.True(t, m.Matches(stale))

	freshAt := testNow.AddDate(0, 0, -10)
	fresh := component("lib", 90)
	fresh.Assets[0].LastDownloadedAt = &freshAt
	assert.False(t, m.Matches(fresh))

	// Never downloaded satisfies a download-age cutoff too.
	neverDownloaded := component("lib", 90)
	assert.True(t, m.Matches(neverDownloaded))
}

func TestMatchesRepository_Gate(t *testing.T) {
	// No repository patterns configured: everything passes, even empty names.
	open := compile(t, deleteRule("any", CleanupFilters{Names: []string{"*"}}))
	assert.True(t, open.MatchesRepository("maven-releases"))
	assert.True(t, open.MatchesRepository(""))

	gated := compile(t,
		deleteRule("maven-only", CleanupFilters{Repositories: []string{"maven-*"}}),
		keepRule("npm-keep", CleanupFilters{Repositories: []string{"npm-*"}}),
	)
	assert.True(t, gated.MatchesRepository("maven-snapshots"))
	assert.True(t, gated.MatchesRepository("npm-internal"))
	assert.False(t, gated.MatchesRepository("docker-hosted"))
	assert.False(t, gated.MatchesRepository(""))
}

func TestMatchesRepository_DisabledRulesDoNotContribute(t *testing.T) {
	disabled := deleteRule("docker", CleanupFilters{Repositories: []string{"docker-*"}})
	disabled.Enabled = boolPtr(false)

	m := compile(t,
		disabled,
		deleteRule("maven", CleanupFilters{Repositories: []string{"maven-*"}}),
	)
	assert.False(t, m.MatchesRepository("docker-hosted"))
	assert.True(t, m.MatchesRepository("maven-releases"))
}

func TestMatches_EndToEndScenario(t *testing.T) {
	m := compile(t,
		deleteRule("old-snapshots", CleanupFilters{
			Names:   []string{"*-SNAPSHOT"},
			Updated: "30d",
		}),
		keepRule("keep-prod", CleanupFilters{Names: []string{"prod-*"}}),
	)

	// Keep wins even though the delete rule matches.
	a := component("prod-lib-SNAPSHOT", 60)
	assert.False(t, m.Matches(a))

	// Old snapshot, no keep rule: selected.
	b := component("foo-SNAPSHOT", 60)
	assert.True(t, m.Matches(b))

	// Too fresh for the updated filter.
	c := component("foo-SNAPSHOT", 5)
	assert.False(t, m.Matches(c))
}

func TestCompile_UpdatedCutoffUsesCompileTimeNow(t *testing.T) {
	m, err := Compile(&RuleSet{Rules: []CleanupRule{
		deleteRule("old", CleanupFilters{Updated: "30d"}),
	}}, testNow)
	require.NoError(t, err)

	cutoff := *m.deleteRules[0].updatedBefore
	assert.Equal(t, testNow.AddDate(0, 0, -30), cutoff)
}
