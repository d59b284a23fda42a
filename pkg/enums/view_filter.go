package enums

import (
	"fmt"
	"strings"
)

// ViewFilter selects a slice of a seller's own listings. The filter
// vocabulary is closed; anything outside it is rejected at the boundary
// rather than silently treated as ALL.
type ViewFilter string

const (
	ViewFilterAll     ViewFilter = "ALL"
	ViewFilterPaying  ViewFilter = "PAYING"
	ViewFilterActive  ViewFilter = "ACTIVE"
	ViewFilterSold    ViewFilter = "SOLD"
	ViewFilterFlagged ViewFilter = "FLAGGED"
)

var validViewFilters = []ViewFilter{
	ViewFilterAll,
	ViewFilterPaying,
	ViewFilterActive,
	ViewFilterSold,
	ViewFilterFlagged,
}

// String implements fmt.Stringer.
func (v ViewFilter) String() string {
	return string(v)
}

// IsValid reports whether the value is a known ViewFilter.
func (v ViewFilter) IsValid() bool {
	for _, candidate := range validViewFilters {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseViewFilter converts raw input into a ViewFilter. Matching is
// case-insensitive and blank input defaults to ALL.
func ParseViewFilter(value string) (ViewFilter, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ViewFilterAll, nil
	}
	normalized := ViewFilter(strings.ToUpper(trimmed))
	for _, candidate := range validViewFilters {
		if candidate == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid view filter %q", value)
}
