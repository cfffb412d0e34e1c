package rules

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/skarzhevskyy/nexus-repository-cleanup/internal/domain/models"
)

// compiledRule is one enabled rule with patterns compiled and age
// expressions resolved, ready for repeated matching.
type compiledRule struct {
	name             string
	repositories     []*regexp.Regexp
	formats          []*regexp.Regexp
	groups           []*regexp.Regexp
	names            []*regexp.Regexp
	versions         []*regexp.Regexp
	updatedBefore    *time.Time
	downloadedBefore *time.Time
	neverDownloaded  bool
}

// Matcher is a compiled rule set. Patterns and dates are resolved once at
// compile time, not per component. Matching is order-independent: any
// matching keep rule wins over every delete rule.
type Matcher struct {
	keepRules          []compiledRule
	deleteRules        []compiledRule
	repositoryPatterns []*regexp.Regexp
}

// Compile precompiles all enabled rules of the set against the given
// reference time. Assumes the rule set passed Validate; compile errors can
// still surface for pathological patterns.
func Compile(ruleSet *RuleSet, now time.Time) (*Matcher, error) {
	m := &Matcher{}
	repoPatternsSeen := make(map[string]struct{})

	for _, rule := range ruleSet.Rules {
		if !rule.IsEnabled() {
			continue
		}

		action, err := actionOf(rule)
		if err != nil {
			return nil, err
		}

		compiled, err := compileRule(rule, now)
		if err != nil {
			return nil, err
		}

		switch action {
		case ActionKeep:
			m.keepRules = append(m.keepRules, compiled)
		default:
			m.deleteRules = append(m.deleteRules, compiled)
		}

		// Union of repository patterns across enabled rules feeds the
		// repository gate. Distinct, order preserved.
		for _, pattern := range rule.Filters.Repositories {
			if _, dup := repoPatternsSeen[pattern]; dup {
				continue
			}
			repoPatternsSeen[pattern] = struct{}{}
			re, err := CompilePattern(pattern)
			if err != nil {
				return nil, err
			}
			m.repositoryPatterns = append(m.repositoryPatterns, re)
		}
	}

	return m, nil
}

func compileRule(rule CleanupRule, now time.Time) (compiledRule, error) {
	compiled := compiledRule{name: rule.Name}

	var err error
	if compiled.repositories, err = compilePatterns(rule.Filters.Repositories); err != nil {
		return compiled, fmt.Errorf("rule %q: %w", rule.Name, err)
	}
	if compiled.formats, err = compilePatterns(rule.Filters.Formats); err != nil {
		return compiled, fmt.Errorf("rule %q: %w", rule.Name, err)
	}
	if compiled.groups, err = compilePatterns(rule.Filters.Groups); err != nil {
		return compiled, fmt.Errorf("rule %q: %w", rule.Name, err)
	}
	if compiled.names, err = compilePatterns(rule.Filters.Names); err != nil {
		return compiled, fmt.Errorf("rule %q: %w", rule.Name, err)
	}
	if compiled.versions, err = compilePatterns(rule.Filters.Versions); err != nil {
		return compiled, fmt.Errorf("rule %q: %w", rule.Name, err)
	}

	if rule.Filters.Updated != "" {
		criterion, err := ResolveAge(rule.Filters.Updated, now)
		if err != nil {
			return compiled, fmt.Errorf("rule %q: %w", rule.Name, err)
		}
		cutoff := criterion.Before
		compiled.updatedBefore = &cutoff
	}

	if rule.Filters.Downloaded != "" {
		criterion, err := ResolveAge(rule.Filters.Downloaded, now)
		if err != nil {
			return compiled, fmt.Errorf("rule %q: %w", rule.Name, err)
		}
		if criterion.Never {
			compiled.neverDownloaded = true
		} else {
			cutoff := criterion.Before
			compiled.downloadedBefore = &cutoff
		}
	}

	return compiled, nil
}

// CompilePattern converts a wildcard pattern into an anchored regexp.
// '*' matches zero or more characters, '?' exactly one; everything else is
// literal. An empty pattern matches only the empty value.
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	quoted := regexp.QuoteMeta(pattern)
	quoted = strings.ReplaceAll(quoted, `\*`, `.*`)
	quoted = strings.ReplaceAll(quoted, `\?`, `.`)

	re, err := regexp.Compile("^" + quoted + "$")
	if err != nil {
		return nil, fmt.Errorf("invalid wildcard pattern %q: %w", pattern, err)
	}
	return re, nil
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := CompilePattern(pattern)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// matchesAnyPattern applies OR semantics across a pattern list. An empty
// candidate value never matches a non-empty pattern set.
func matchesAnyPattern(value string, patterns []*regexp.Regexp) bool {
	if value == "" {
		return false
	}
	for _, re := range patterns {
		if re.MatchString(value) {
			return true
		}
	}
	return false
}

// MatchesRepository is the repository gate: it reports whether a repository
// could be touched by any enabled rule. With no repository patterns
// configured anywhere, every repository matches.
func (m *Matcher) MatchesRepository(name string) bool {
	if len(m.repositoryPatterns) == 0 {
		return true
	}
	return matchesAnyPattern(name, m.repositoryPatterns)
}

// Matches decides whether a component is selected for deletion: no keep
// rule may match and at least one delete rule must. Components without
// assets are never selected.
func (m *Matcher) Matches(c models.Component) bool {
	if len(c.Assets) == 0 {
		return false
	}

	for i := range m.keepRules {
		if m.keepRules[i].matches(c) {
			return false
		}
	}
	for i := range m.deleteRules {
		if m.deleteRules[i].matches(c) {
			return true
		}
	}
	return false
}

// matches applies AND semantics across filter dimensions. Age filters are
// deliberately conservative: every asset must satisfy them, so a component
// with one freshly touched asset is not considered old.
func (r *compiledRule) matches(c models.Component) bool {
	if len(r.repositories) > 0 && !matchesAnyPattern(c.Repository, r.repositories) {
		return false
	}
	if len(r.groups) > 0 && !matchesAnyPattern(c.Group, r.groups) {
		return false
	}
	if len(r.names) > 0 && !matchesAnyPattern(c.Name, r.names) {
		return false
	}
	if len(r.formats) > 0 && !matchesAnyPattern(c.Format, r.formats) {
		return false
	}
	if len(r.versions) > 0 && !matchesAnyPattern(c.Version, r.versions) {
		return false
	}

	if r.updatedBefore != nil {
		for _, asset := range c.Assets {
			if asset.CreatedAt.IsZero() || !asset.CreatedAt.Before(*r.updatedBefore) {
				return false
			}
		}
	}

	if r.neverDownloaded {
		for _, asset := range c.Assets {
			if asset.LastDownloadedAt != nil {
				return false
			}
		}
		return true
	}

	if r.downloadedBefore != nil {
		// Never-downloaded assets satisfy a download-age cutoff too.
		for _, asset := range c.Assets {
			if asset.LastDownloadedAt != nil && !asset.LastDownloadedAt.Before(*r.downloadedBefore) {
				return false
			}
		}
	}

	return true
}
