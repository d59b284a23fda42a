package enums

import "testing"

func TestNormalizeListingStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want ListingStatus
	}{
		{"active", ListingStatusActive},
		{"  Pending ", ListingStatusPending},
		{"SOLD", ListingStatusSold},
		{"", ListingStatusUnknown},
		{"   ", ListingStatusUnknown},
		{"flagged_for_review", ListingStatus("FLAGGED_FOR_REVIEW")},
	}
	for _, tc := range cases {
		if got := NormalizeListingStatus(tc.raw); got != tc.want {
			t.Fatalf("NormalizeListingStatus(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestListingStatusIsEditable(t *testing.T) {
	cases := []struct {
		status ListingStatus
		want   bool
	}{
		{ListingStatusRejected, true},
		{ListingStatusFlagged, true},
		{ListingStatus("FLAGGED_FOR_REVIEW"), true},
		{ListingStatus("REJECTED_DUPLICATE"), true},
		{ListingStatusActive, false},
		{ListingStatusPending, false},
		{ListingStatusSold, false},
		{ListingStatusUnknown, false},
	}
	for _, tc := range cases {
		if got := tc.status.IsEditable(); got != tc.want {
			t.Fatalf("IsEditable(%q) = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestParseListingStatus(t *testing.T) {
	got, err := ParseListingStatus(" processing ")
	if err != nil {
		t.Fatalf("ParseListingStatus: %v", err)
	}
	if got != ListingStatusProcessing {
		t.Fatalf("ParseListingStatus = %q, want %q", got, ListingStatusProcessing)
	}
	if _, err := ParseListingStatus("EXPIRED"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}
