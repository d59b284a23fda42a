package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/evtrading/evmarket-gateway/api/responses"
	"github.com/evtrading/evmarket-gateway/api/validators"
	"github.com/evtrading/evmarket-gateway/internal/moderation"
	"github.com/evtrading/evmarket-gateway/pkg/logger"
)

// PendingListings serves the moderation queue, oldest submissions first.
func PendingListings(svc moderation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		queue, err := svc.PendingQueue(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, queue)
	}
}

// ApproveListing publishes a pending listing.
func ApproveListing(svc moderation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listingID, err := validators.ParsePathID(chi.URLParam(r, "listingID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Approve(r.Context(), listingID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "approved"})
	}
}

type rejectRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// RejectListing bounces a pending listing back to the seller with a reason.
func RejectListing(svc moderation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listingID, err := validators.ParsePathID(chi.URLParam(r, "listingID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body rejectRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Reject(r.Context(), listingID, body.Reason); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "rejected"})
	}
}
