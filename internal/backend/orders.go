package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/evtrading/evmarket-gateway/pkg/types"
)

func transactionQuery(transactionID int64) url.Values {
	query := url.Values{}
	query.Set("transactionId", strconv.FormatInt(transactionID, 10))
	return query
}

// CreateOrderInput opens an order against a listing.
type CreateOrderInput struct {
	ListingID int64 `json:"listingId"`
	Quantity  int   `json:"quantity"`
}

// CreateOrder places an order for the authenticated buyer.
func (c *Client) CreateOrder(ctx context.Context, input CreateOrderInput) (types.Order, error) {
	var wire wireOrder
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/orders",
		body:   input,
	}, &wire)
	if err != nil {
		return types.Order{}, err
	}
	return wire.toDomain(), nil
}

// GetMyOrders fetches the authenticated user's orders.
func (c *Client) GetMyOrders(ctx context.Context) ([]types.Order, error) {
	var wires []wireOrder
	err := c.do(ctx, request{method: http.MethodGet, path: "/api/orders/my"}, &wires)
	if err != nil {
		return nil, err
	}
	out := make([]types.Order, 0, len(wires))
	for _, w := range wires {
		out = append(out, w.toDomain())
	}
	return out, nil
}

// GetTransactions fetches the authenticated user's transactions.
func (c *Client) GetTransactions(ctx context.Context) ([]types.Transaction, error) {
	var wires []wireTransaction
	err := c.do(ctx, request{method: http.MethodGet, path: "/api/transactions"}, &wires)
	if err != nil {
		return nil, err
	}
	out := make([]types.Transaction, 0, len(wires))
	for _, w := range wires {
		out = append(out, w.toDomain())
	}
	return out, nil
}

// CreatePaymentInput starts a payment against a transaction.
type CreatePaymentInput struct {
	TransactionID int64           `json:"transactionId"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	Provider      string          `json:"provider,omitempty"`
}

// PaymentRedirect is the provider hand-off returned when a payment starts.
type PaymentRedirect struct {
	PaymentID  int64  `json:"paymentId"`
	PaymentURL string `json:"paymentUrl"`
}

// CreatePayment starts a payment and returns the provider redirect.
func (c *Client) CreatePayment(ctx context.Context, input CreatePaymentInput) (PaymentRedirect, error) {
	var redirect PaymentRedirect
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/payments",
		body:   input,
	}, &redirect)
	if err != nil {
		return PaymentRedirect{}, err
	}
	return redirect, nil
}

// GetPayments fetches the payments recorded against a transaction.
func (c *Client) GetPayments(ctx context.Context, transactionID int64) ([]types.Payment, error) {
	var wires []wirePayment
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/payments",
		query:  transactionQuery(transactionID),
	}, &wires)
	if err != nil {
		return nil, err
	}
	out := make([]types.Payment, 0, len(wires))
	for _, w := range wires {
		out = append(out, w.toDomain())
	}
	return out, nil
}
