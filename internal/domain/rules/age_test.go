package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func TestResolveAge_RelativeForms(t *testing.T) {
	tests := []struct {
		expr string
		days int
	}{
		{"30d", 30},
		{"7 days", 7},
		{"1 day", 1},
		{"30 days ago", 30},
		{"  45d  ", 45},
		{"0d", 0},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			criterion, err := ResolveAge(tt.expr, testNow)
			require.NoError(t, err)
			assert.False(t, criterion.Never)
			assert.Equal(t, testNow.AddDate(0, 0, -tt.days), criterion.Before)
		})
	}
}

func TestResolveAge_AbsoluteDates(t *testing.T) {
	criterion, err := ResolveAge("2024-01-15", testNow)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), criterion.Before)

	criterion, err = ResolveAge("2024-01-15T10:30:00Z", testNow)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), criterion.Before)
}

func TestResolveAge_Never(t *testing.T) {
	for _, expr := range []string{"never", "NEVER", "Never", "  never  "} {
		criterion, err := ResolveAge(expr, testNow)
		require.NoError(t, err)
		assert.True(t, criterion.Never)
	}
}

func TestResolveAge_Invalid(t *testing.T) {
	for _, expr := range []string{"", "  ", "soon", "30x", "days 30", "-5d", "d30"} {
		_, err := ResolveAge(expr, testNow)
		assert.Error(t, err, "expression %q should be rejected", expr)
	}
}

func TestResolveAge_DeterministicForFixedNow(t *testing.T) {
	first, err := ResolveAge("90d", testNow)
	require.NoError(t, err)
	second, err := ResolveAge("90d", testNow)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestIsNever(t *testing.T) {
	assert.True(t, IsNever("never"))
	assert.True(t, IsNever("NEVER"))
	assert.True(t, IsNever("  never  "))
	assert.False(t, IsNever("30d"))
	assert.False(t, IsNever("30 days"))
	assert.False(t, IsNever(""))
}
