package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/evtrading/evmarket-gateway/api/responses"
	"github.com/evtrading/evmarket-gateway/api/validators"
	"github.com/evtrading/evmarket-gateway/internal/orders"
	"github.com/evtrading/evmarket-gateway/pkg/logger"
)

// OrderAvailability tells the client how to render the buy action for a
// listing: enabled, hidden, disabled with a reason, or a login redirect.
func OrderAvailability(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listingID, err := validators.ParsePathID(chi.URLParam(r, "listingID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		decision, err := svc.Availability(r.Context(), listingID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, decision)
	}
}

type placeOrderRequest struct {
	ListingID int64 `json:"listingId" validate:"required,gt=0"`
	Quantity  int   `json:"quantity"`
}

// PlaceOrder buys a listing for the signed-in user.
func PlaceOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body placeOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Place(r.Context(), body.ListingID, body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// MyOrders serves the buyer's order history.
func MyOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.MyOrders(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}
