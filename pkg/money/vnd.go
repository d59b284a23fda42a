package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatVND renders an amount the way Vietnamese marketplaces print prices:
// whole dong, dot thousands separators and a trailing dong sign, e.g.
// "550.000.000 ₫".
func FormatVND(amount decimal.Decimal) string {
	whole := amount.Round(0)

	negative := whole.IsNegative()
	digits := whole.Abs().String()

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 && !(negative && b.Len() == 1) {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	b.WriteString(" ₫")
	return b.String()
}
