package enums

import "testing"

func TestParseViewFilter(t *testing.T) {
	cases := []struct {
		raw  string
		want ViewFilter
	}{
		{"", ViewFilterAll},
		{"  ", ViewFilterAll},
		{"all", ViewFilterAll},
		{"paying", ViewFilterPaying},
		{"SOLD", ViewFilterSold},
	}
	for _, tc := range cases {
		got, err := ParseViewFilter(tc.raw)
		if err != nil {
			t.Fatalf("ParseViewFilter(%q): %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("ParseViewFilter(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
	if _, err := ParseViewFilter("NEWEST"); err == nil {
		t.Fatal("expected error for unknown filter")
	}
}
