package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/evtrading/evmarket-gateway/api/responses"
	"github.com/evtrading/evmarket-gateway/api/validators"
	"github.com/evtrading/evmarket-gateway/internal/payments"
	"github.com/evtrading/evmarket-gateway/pkg/logger"
)

// PayableTransactions lists the caller's transactions that still carry a
// balance, each with a display-ready remaining amount.
func PayableTransactions(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		views, err := svc.PayableTransactions(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, views)
	}
}

type startPaymentRequest struct {
	TransactionID int64           `json:"transactionId" validate:"required,gt=0"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	Method        string          `json:"method" validate:"required"`
}

// StartPayment opens a payment against a transaction and returns the
// provider redirect URL.
func StartPayment(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body startPaymentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		redirect, err := svc.Start(r.Context(), body.TransactionID, body.Amount, body.Method)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, redirect)
	}
}

// PaymentCallback lands the provider redirect and translates it into a
// message the buyer can act on.
func PaymentCallback(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		result := svc.HandleCallback(r.Context(), query.Get("status"), query.Get("reason"))
		responses.WriteSuccess(w, result)
	}
}
