package money

import (
	"fmt"

	"github.com/shopspring/decimal"

	apperrors "github.com/evtrading/evmarket-gateway/pkg/errors"
)

// ExtensionConfig is the backend-published pricing for extending an active
// listing's visibility window.
type ExtensionConfig struct {
	PricePerDay decimal.Decimal `json:"pricePerDay"`
	MaxDays     int             `json:"maxDays"`
}

// DefaultExtensionConfig is used when the backend's pricing endpoint is
// unavailable, so the extension form still renders.
func DefaultExtensionConfig() ExtensionConfig {
	return ExtensionConfig{
		PricePerDay: decimal.NewFromInt(10000),
		MaxDays:     30,
	}
}

// ExtensionQuote is a priced extension request, computed locally before the
// backend is asked to apply it.
type ExtensionQuote struct {
	Days        int             `json:"days"`
	PricePerDay decimal.Decimal `json:"pricePerDay"`
	Cost        decimal.Decimal `json:"cost"`
	Display     string          `json:"display"`
}

// ComputeExtension prices an extension of the given whole number of days.
// Days outside [1, cfg.MaxDays] fail validation before any network call.
func ComputeExtension(days int, cfg ExtensionConfig) (ExtensionQuote, error) {
	if days < 1 {
		return ExtensionQuote{}, apperrors.New(apperrors.CodeValidation, "extension must be at least 1 day")
	}
	if cfg.MaxDays > 0 && days > cfg.MaxDays {
		return ExtensionQuote{}, apperrors.New(apperrors.CodeValidation,
			fmt.Sprintf("extension cannot exceed %d days", cfg.MaxDays))
	}
	cost := cfg.PricePerDay.Mul(decimal.NewFromInt(int64(days)))
	return ExtensionQuote{
		Days:        days,
		PricePerDay: cfg.PricePerDay,
		Cost:        cost,
		Display:     FormatVND(cost),
	}, nil
}
