package money

import (
	"testing"

	"github.com/shopspring/decimal"

	apperrors "github.com/evtrading/evmarket-gateway/pkg/errors"
)

func TestFormatVND(t *testing.T) {
	cases := []struct {
		amount int64
		want   string
	}{
		{0, "0 ₫"},
		{500, "500 ₫"},
		{10000, "10.000 ₫"},
		{550000000, "550.000.000 ₫"},
		{-10000, "-10.000 ₫"},
	}
	for _, tc := range cases {
		if got := FormatVND(decimal.NewFromInt(tc.amount)); got != tc.want {
			t.Fatalf("FormatVND(%d) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}

func TestComputeExtension(t *testing.T) {
	cfg := DefaultExtensionConfig()

	quote, err := ComputeExtension(7, cfg)
	if err != nil {
		t.Fatalf("ComputeExtension: %v", err)
	}
	if !quote.Cost.Equal(decimal.NewFromInt(70000)) {
		t.Fatalf("Cost = %s, want 70000", quote.Cost)
	}
	if quote.Display != "70.000 ₫" {
		t.Fatalf("Display = %q", quote.Display)
	}

	for _, days := range []int{0, -3, 31} {
		_, err := ComputeExtension(days, cfg)
		appErr := apperrors.As(err)
		if appErr == nil || appErr.Code() != apperrors.CodeValidation {
			t.Fatalf("ComputeExtension(%d): want validation error, got %v", days, err)
		}
	}
}
