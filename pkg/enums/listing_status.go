package enums

import (
	"fmt"
	"strings"
)

// ListingStatus is the moderation and sale state of a listing as reported by
// the marketplace backend. The backend owns the persisted value; this type
// normalizes and classifies what the backend returns.
type ListingStatus string

const (
	ListingStatusPending    ListingStatus = "PENDING"
	ListingStatusActive     ListingStatus = "ACTIVE"
	ListingStatusProcessing ListingStatus = "PROCESSING"
	ListingStatusSold       ListingStatus = "SOLD"
	ListingStatusRejected   ListingStatus = "REJECTED"
	ListingStatusFlagged    ListingStatus = "FLAGGED"

	// ListingStatusUnknown is the normal form of an absent status. It is a
	// representable state, not an error.
	ListingStatusUnknown ListingStatus = ""
)

var validListingStatuses = []ListingStatus{
	ListingStatusPending,
	ListingStatusActive,
	ListingStatusProcessing,
	ListingStatusSold,
	ListingStatusRejected,
	ListingStatusFlagged,
}

// String implements fmt.Stringer.
func (l ListingStatus) String() string {
	return string(l)
}

// IsValid reports whether the value is a known ListingStatus.
func (l ListingStatus) IsValid() bool {
	for _, candidate := range validListingStatuses {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseListingStatus converts raw input into a ListingStatus.
func ParseListingStatus(value string) (ListingStatus, error) {
	normalized := NormalizeListingStatus(value)
	for _, candidate := range validListingStatuses {
		if candidate == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid listing status %q", value)
}

// NormalizeListingStatus maps a raw backend status string to its normal form:
// whitespace trimmed and uppercased. Blank input normalizes to
// ListingStatusUnknown. Unrecognized non-blank literals are preserved (in
// upper case) rather than collapsed, so classification rules such as
// IsEditable keep working when the backend introduces new status variants.
func NormalizeListingStatus(raw string) ListingStatus {
	return ListingStatus(strings.ToUpper(strings.TrimSpace(raw)))
}

// IsEditable reports whether a listing in this status may be edited and
// resubmitted by its owner. Any status whose literal contains FLAG or REJECT
// qualifies, which covers both the canonical statuses and backend variants
// like FLAGGED_FOR_REVIEW.
func (l ListingStatus) IsEditable() bool {
	s := string(l)
	return strings.Contains(s, "FLAG") || strings.Contains(s, "REJECT")
}

// IsTerminal reports whether the status ends the sale lifecycle.
func (l ListingStatus) IsTerminal() bool {
	return l == ListingStatusSold
}
