package reports

import (
	"fmt"
	"strings"
)

// SortBy selects the ordering of summary report rows.
type SortBy int

const (
	SortByComponents SortBy = iota
	SortByName
	SortBySize
)

// ParseSortBy converts a user-supplied sort key, case-insensitive.
func ParseSortBy(value string) (SortBy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "components":
		return SortByComponents, nil
	case "name":
		return SortByName, nil
	case "size":
		return SortBySize, nil
	default:
		return SortByComponents, fmt.Errorf("invalid sort key %q: must be one of [name components size]", value)
	}
}

func (s SortBy) String() string {
	switch s {
	case SortByName:
		return "name"
	case SortBySize:
		return "size"
	default:
		return "components"
	}
}
