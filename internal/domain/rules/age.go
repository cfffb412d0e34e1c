package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const neverLiteral = "never"

// Relative forms: "30d", "30 days", "30 days ago".
var relativeAgePattern = regexp.MustCompile(`^(\d+)\s*(?:d|days?)(?:\s+ago)?$`)

// Absolute date layouts accepted in rule files.
var absoluteLayouts = []string{
	time.RFC3339,
	"2006-01-02",
}

// AgeCriterion is the resolved, comparable form of a user-supplied age
// expression. Exactly one of Never or Before is meaningful: when Never is
// true the criterion reads "the event never happened", otherwise Before is
// the cutoff timestamp.
type AgeCriterion struct {
	Before time.Time
	Never  bool
}

// IsNever reports whether the expression is the "never" literal,
// case-insensitive and ignoring surrounding whitespace.
func IsNever(expr string) bool {
	return strings.EqualFold(strings.TrimSpace(expr), neverLiteral)
}

// ResolveAge converts an age expression into an AgeCriterion evaluated
// against the supplied reference time. Deterministic for a fixed now.
func ResolveAge(expr string, now time.Time) (AgeCriterion, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return AgeCriterion{}, fmt.Errorf("age expression cannot be empty")
	}

	if strings.EqualFold(trimmed, neverLiteral) {
		return AgeCriterion{Never: true}, nil
	}

	if m := relativeAgePattern.FindStringSubmatch(strings.ToLower(trimmed)); m != nil {
		days, err := strconv.Atoi(m[1])
		if err != nil {
			return AgeCriterion{}, fmt.Errorf("invalid day count %q: %w", m[1], err)
		}
		return AgeCriterion{Before: now.AddDate(0, 0, -days)}, nil
	}

	for _, layout := range absoluteLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return AgeCriterion{Before: t}, nil
		}
	}

	return AgeCriterion{}, fmt.Errorf("invalid age expression %q: expected a relative age (e.g. \"30d\", \"30 days\"), an absolute date (e.g. \"2024-01-15\") or \"never\"", expr)
}
