package lifecycle

import (
	"github.com/evtrading/evmarket-gateway/pkg/enums"
	"github.com/evtrading/evmarket-gateway/pkg/types"
)

// OrderDecision is the outcome of an order availability check. Visible
// controls whether the buy action should be shown at all; Allowed controls
// whether it may be taken. RedirectToLogin marks refusals that an
// unauthenticated requester can cure by signing in.
type OrderDecision struct {
	Allowed         bool
	Visible         bool
	Reason          string
	RedirectToLogin bool
}

// CanPlaceOrder decides whether the requester may open an order against the
// listing. Listings mid-sale hide the action entirely rather than showing it
// disabled.
func CanPlaceOrder(listing types.Listing, requester Actor) OrderDecision {
	switch listing.Status {
	case enums.ListingStatusProcessing, enums.ListingStatusSold:
		return OrderDecision{Visible: false, Reason: "listing is no longer for sale"}
	case enums.ListingStatusActive:
	default:
		return OrderDecision{Visible: false, Reason: "listing is not available"}
	}

	if !requester.Authenticated() {
		return OrderDecision{
			Visible:         true,
			Reason:          "sign in to place an order",
			RedirectToLogin: true,
		}
	}
	if listing.IsOwnedBy(requester.UserID) {
		return OrderDecision{Visible: true, Reason: "you cannot buy your own listing"}
	}
	return OrderDecision{Allowed: true, Visible: true}
}
