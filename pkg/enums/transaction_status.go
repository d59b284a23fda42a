package enums

import (
	"fmt"
	"strings"
)

// TransactionStatus tracks how much of a transaction's total has been paid.
type TransactionStatus string

const (
	TransactionStatusPending       TransactionStatus = "PENDING"
	TransactionStatusPartiallyPaid TransactionStatus = "PARTIALLY_PAID"
	TransactionStatusPaid          TransactionStatus = "PAID"
	TransactionStatusFailed        TransactionStatus = "FAILED"
)

var validTransactionStatuses = []TransactionStatus{
	TransactionStatusPending,
	TransactionStatusPartiallyPaid,
	TransactionStatusPaid,
	TransactionStatusFailed,
}

// String implements fmt.Stringer.
func (t TransactionStatus) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TransactionStatus.
func (t TransactionStatus) IsValid() bool {
	for _, candidate := range validTransactionStatuses {
		if candidate == t {
			return true
		}
	}
	return false
}

// NormalizeTransactionStatus maps a raw backend status to its normal form.
// The backend reports fully settled transactions as FULLY_PAID; callers only
// ever see PAID.
func NormalizeTransactionStatus(raw string) TransactionStatus {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	if normalized == "FULLY_PAID" {
		return TransactionStatusPaid
	}
	return TransactionStatus(normalized)
}

// ParseTransactionStatus converts raw input into a TransactionStatus.
func ParseTransactionStatus(value string) (TransactionStatus, error) {
	normalized := NormalizeTransactionStatus(value)
	for _, candidate := range validTransactionStatuses {
		if candidate == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transaction status %q", value)
}
