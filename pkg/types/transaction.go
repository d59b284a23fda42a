package types

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/evtrading/evmarket-gateway/pkg/enums"
)

// Transaction tracks the money owed against a listing sale. PaidAmount only
// grows, and never past TotalAmount.
type Transaction struct {
	ID          int64                   `json:"transactionId"`
	ListingID   int64                   `json:"listingId"`
	TotalAmount decimal.Decimal         `json:"totalAmount"`
	PaidAmount  decimal.Decimal         `json:"paidAmount"`
	Status      enums.TransactionStatus `json:"status"`
	ExpiredAt   time.Time               `json:"expiredAt"`
}

// Remaining returns the unpaid balance, never negative.
func (t Transaction) Remaining() decimal.Decimal {
	remaining := t.TotalAmount.Sub(t.PaidAmount)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// Payable reports whether further payments may be made against the
// transaction.
func (t Transaction) Payable() bool {
	return t.PaidAmount.LessThan(t.TotalAmount)
}

// Payment is one settlement attempt against a transaction. The payment list
// is append-only from the client's perspective.
type Payment struct {
	ID            int64               `json:"paymentId"`
	TransactionID int64               `json:"transactionId"`
	Amount        decimal.Decimal     `json:"amount"`
	Method        string              `json:"method"`
	Provider      string              `json:"provider,omitempty"`
	Status        enums.PaymentStatus `json:"status"`
	PaidAt        *time.Time          `json:"paidAt,omitempty"`
}

// Order is a buyer's claim on a listing.
type Order struct {
	ID        int64             `json:"orderId"`
	ListingID int64             `json:"listingId"`
	BuyerID   int64             `json:"buyerId"`
	Quantity  int               `json:"quantity"`
	Status    enums.OrderStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
}
