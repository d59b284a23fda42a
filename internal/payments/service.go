// Package payments handles the money side of a sale: payable transactions,
// starting a payment with the provider hand-off, and the redirect callback
// the provider sends the buyer back through.
package payments

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/evtrading/evmarket-gateway/internal/backend"
	"github.com/evtrading/evmarket-gateway/pkg/auth"
	"github.com/evtrading/evmarket-gateway/pkg/enums"
	pkgerrors "github.com/evtrading/evmarket-gateway/pkg/errors"
	"github.com/evtrading/evmarket-gateway/pkg/logger"
	"github.com/evtrading/evmarket-gateway/pkg/money"
	"github.com/evtrading/evmarket-gateway/pkg/types"
)

type backendAPI interface {
	GetTransactions(ctx context.Context) ([]types.Transaction, error)
	GetPayments(ctx context.Context, transactionID int64) ([]types.Payment, error)
	CreatePayment(ctx context.Context, input backend.CreatePaymentInput) (backend.PaymentRedirect, error)
}

// CallbackResult is what the buyer sees after the provider redirect.
type CallbackResult struct {
	Succeeded bool   `json:"succeeded"`
	Message   string `json:"message"`
}

// TransactionView is a transaction decorated for display.
type TransactionView struct {
	types.Transaction
	RemainingDisplay string `json:"remainingDisplay"`
}

// Service defines the payment operations exposed to controllers.
type Service interface {
	PayableTransactions(ctx context.Context) ([]TransactionView, error)
	Start(ctx context.Context, transactionID int64, amount decimal.Decimal, method string) (backend.PaymentRedirect, error)
	HandleCallback(ctx context.Context, status, reason string) CallbackResult
}

// ServiceParams carries the dependencies for NewService.
type ServiceParams struct {
	Backend backendAPI
	Logger  *logger.Logger
}

type service struct {
	backend backendAPI
	logger  *logger.Logger
}

// NewService validates dependencies and builds the payment service.
func NewService(params ServiceParams) (Service, error) {
	if params.Backend == nil {
		return nil, fmt.Errorf("payments service requires a backend client")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("payments service requires a logger")
	}
	return &service{backend: params.Backend, logger: params.Logger}, nil
}

// PayableTransactions lists the caller's transactions that still owe money,
// with the remaining balance formatted for display.
func (s *service) PayableTransactions(ctx context.Context) ([]TransactionView, error) {
	if _, ok := auth.SessionFrom(ctx); !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to see your payments")
	}
	transactions, err := s.backend.GetTransactions(ctx)
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil && appErr.Code() == pkgerrors.CodeDependency {
			s.logger.Warn(ctx, "transactions fetch failed, serving empty list")
			return []TransactionView{}, nil
		}
		return nil, err
	}

	out := make([]TransactionView, 0, len(transactions))
	for _, tx := range transactions {
		if !tx.Payable() {
			continue
		}
		out = append(out, TransactionView{
			Transaction:      tx,
			RemainingDisplay: money.FormatVND(tx.Remaining()),
		})
	}
	return out, nil
}

// Start begins a payment against a transaction. The amount must be positive
// and no more than the remaining balance; a transaction that is already
// settled refuses further payments.
func (s *service) Start(ctx context.Context, transactionID int64, amount decimal.Decimal, method string) (backend.PaymentRedirect, error) {
	if _, ok := auth.SessionFrom(ctx); !ok {
		return backend.PaymentRedirect{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to make a payment")
	}
	if transactionID <= 0 {
		return backend.PaymentRedirect{}, pkgerrors.New(pkgerrors.CodeValidation, "transaction id is required")
	}
	if !amount.IsPositive() {
		return backend.PaymentRedirect{}, pkgerrors.New(pkgerrors.CodeValidation, "payment amount must be positive")
	}

	tx, err := s.findTransaction(ctx, transactionID)
	if err != nil {
		return backend.PaymentRedirect{}, err
	}
	if !tx.Payable() {
		return backend.PaymentRedirect{}, pkgerrors.New(pkgerrors.CodeStateConflict, "transaction is already settled")
	}
	if amount.GreaterThan(tx.Remaining()) {
		return backend.PaymentRedirect{}, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("amount exceeds the remaining balance of %s", money.FormatVND(tx.Remaining())))
	}
	if s.hasPendingPayment(ctx, transactionID) {
		return backend.PaymentRedirect{}, pkgerrors.New(pkgerrors.CodeStateConflict, "a payment is already in progress for this transaction")
	}

	redirect, err := s.backend.CreatePayment(ctx, backend.CreatePaymentInput{
		TransactionID: transactionID,
		Amount:        amount,
		Method:        method,
	})
	if err != nil {
		return backend.PaymentRedirect{}, err
	}
	s.logger.Info(ctx, "payment started")
	return redirect, nil
}

// HandleCallback interprets the provider's redirect query. The backend has
// already recorded the outcome by the time the buyer lands here; this only
// translates it for display, so replaying the URL is harmless.
func (s *service) HandleCallback(ctx context.Context, status, reason string) CallbackResult {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "success":
		return CallbackResult{Succeeded: true, Message: "payment received"}
	case "fail":
		message := strings.TrimSpace(reason)
		if message == "" {
			message = "payment was not completed"
		}
		return CallbackResult{Message: message}
	default:
		return CallbackResult{Message: "payment result unknown, check your transactions"}
	}
}

func (s *service) findTransaction(ctx context.Context, transactionID int64) (types.Transaction, error) {
	transactions, err := s.backend.GetTransactions(ctx)
	if err != nil {
		return types.Transaction{}, err
	}
	for _, tx := range transactions {
		if tx.ID == transactionID {
			return tx, nil
		}
	}
	return types.Transaction{}, pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
}

func (s *service) hasPendingPayment(ctx context.Context, transactionID int64) bool {
	payments, err := s.backend.GetPayments(ctx, transactionID)
	if err != nil {
		return false
	}
	for _, p := range payments {
		if p.Status == enums.PaymentStatusPending {
			return true
		}
	}
	return false
}
