package rules

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ParseFile loads and validates a rule set from a YAML file.
func ParseFile(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}

	ruleSet, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid rules file %s: %w", path, err)
	}
	return ruleSet, nil
}

// Parse decodes and validates a rule set from YAML content.
func Parse(data []byte) (*RuleSet, error) {
	var ruleSet RuleSet
	if err := yaml.Unmarshal(data, &ruleSet); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ruleSet.Validate(); err != nil {
		return nil, err
	}
	return &ruleSet, nil
}

// Validate checks the rule set for consistency. Any failure aborts the run
// before network activity starts.
func (rs *RuleSet) Validate() error {
	if len(rs.Rules) == 0 {
		return fmt.Errorf("rule set must contain at least one rule")
	}

	seen := make(map[string]struct{}, len(rs.Rules))
	for _, rule := range rs.Rules {
		if err := validateRule(rule); err != nil {
			return err
		}
		if _, dup := seen[rule.Name]; dup {
			return fmt.Errorf("duplicate rule name found: %q", rule.Name)
		}
		seen[rule.Name] = struct{}{}
	}
	return nil
}

func validateRule(rule CleanupRule) error {
	if strings.TrimSpace(rule.Name) == "" {
		return fmt.Errorf("rule must have a non-empty name")
	}

	if _, err := actionOf(rule); err != nil {
		return err
	}

	if !rule.Filters.HasAtLeastOneFilter() {
		return fmt.Errorf("rule %q must have at least one filter specified", rule.Name)
	}

	if rule.Filters.Updated != "" {
		if IsNever(rule.Filters.Updated) {
			return fmt.Errorf("invalid updated filter in rule %q: \"never\" is only valid for the downloaded filter", rule.Name)
		}
		if _, err := ResolveAge(rule.Filters.Updated, time.Now()); err != nil {
			return fmt.Errorf("invalid updated filter in rule %q: %w", rule.Name, err)
		}
	}

	if rule.Filters.Downloaded != "" {
		if _, err := ResolveAge(rule.Filters.Downloaded, time.Now()); err != nil {
			return fmt.Errorf("invalid downloaded filter in rule %q: %w", rule.Name, err)
		}
	}

	return nil
}

// actionOf converts the raw action string into a typed Action. An empty
// action defaults to delete.
func actionOf(rule CleanupRule) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(rule.Action)) {
	case "", string(ActionDelete):
		return ActionDelete, nil
	case string(ActionKeep):
		return ActionKeep, nil
	default:
		return "", fmt.Errorf("invalid action %q in rule %q: must be one of [delete keep]", rule.Action, rule.Name)
	}
}
