package rules

// Action is the validated effect of a cleanup rule. Raw strings from the
// rule file are converted exactly once, during validation.
type Action string

const (
	ActionDelete Action = "delete"
	ActionKeep   Action = "keep"
)

// CleanupRule is one named retention policy. Rules are immutable after
// loading; the engine never mutates them.
type CleanupRule struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	Enabled     *bool          `yaml:"enabled,omitempty"`
	Action      string         `yaml:"action,omitempty"`
	Filters     CleanupFilters `yaml:"filters"`
}

// IsEnabled reports whether the rule participates in matching.
// Rules are enabled unless the file says otherwise.
func (r CleanupRule) IsEnabled() bool {
	return r.Enabled == nil || *r.Enabled
}

// CleanupFilters holds the filter dimensions of a rule. Pattern lists use
// OR semantics within a dimension; dimensions combine with AND. Updated and
// Downloaded are age expressions; Downloaded additionally accepts "never".
type CleanupFilters struct {
	Repositories []string `yaml:"repositories,omitempty"`
	Formats      []string `yaml:"formats,omitempty"`
	Groups       []string `yaml:"groups,omitempty"`
	Names        []string `yaml:"names,omitempty"`
	Versions     []string `yaml:"versions,omitempty"`
	Updated      string   `yaml:"updated,omitempty"`
	Downloaded   string   `yaml:"downloaded,omitempty"`
}

// HasAtLeastOneFilter reports whether any filter dimension is constrained.
// A rule without any constraint is rejected at load time.
func (f CleanupFilters) HasAtLeastOneFilter() bool {
	return len(f.Repositories) > 0 ||
		len(f.Formats) > 0 ||
		len(f.Groups) > 0 ||
		len(f.Names) > 0 ||
		len(f.Versions) > 0 ||
		f.Updated != "" ||
		f.Downloaded != ""
}

// RuleSet is an ordered list of cleanup rules. Order is insignificant to
// matching semantics but preserved for reporting.
type RuleSet struct {
	Rules []CleanupRule `yaml:"rules"`
}
