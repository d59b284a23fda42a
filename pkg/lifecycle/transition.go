// Package lifecycle is the client-side authority on what may happen to a
// listing. It decides from local state only and never touches the network;
// every decision is a structured allow/refuse, not an error.
package lifecycle

import (
	"fmt"
	"strings"

	"github.com/evtrading/evmarket-gateway/pkg/enums"
	"github.com/evtrading/evmarket-gateway/pkg/types"
)

// Action is an operation requested against a listing.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionEdit    Action = "edit"
	ActionExtend  Action = "extend"
)

// Actor is whoever requests the action. A zero Actor is an unauthenticated
// guest.
type Actor struct {
	UserID int64
	Role   enums.Role
}

// Authenticated reports whether the actor has a signed-in identity.
func (a Actor) Authenticated() bool {
	return a.UserID > 0
}

// Decision is the outcome of a transition check. When Allowed is false,
// Reason says why in terms a user can read.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func refuse(reason string) Decision {
	return Decision{Reason: reason}
}

// Request carries the action-specific inputs CanTransition needs beyond the
// listing and the actor.
type Request struct {
	Action Action
	Reason string // moderation reason, required for reject
	Days   int    // extension length, required for extend
}

// CanTransition decides whether the actor may perform the requested action on
// the listing as currently known. The backend remains free to refuse the call
// anyway; this gate exists so obviously invalid requests never leave the
// process.
func CanTransition(listing types.Listing, actor Actor, req Request) Decision {
	switch req.Action {
	case ActionApprove:
		return canModerate(listing, actor, enums.ListingStatusActive)
	case ActionReject:
		if strings.TrimSpace(req.Reason) == "" {
			return refuse("a rejection reason is required")
		}
		return canModerate(listing, actor, enums.ListingStatusRejected)
	case ActionEdit:
		if !actor.Authenticated() {
			return refuse("sign in to edit your listing")
		}
		if !listing.IsOwnedBy(actor.UserID) {
			return refuse("only the listing owner can edit it")
		}
		if !listing.Status.IsEditable() {
			return refuse(fmt.Sprintf("a %s listing cannot be edited", listing.Status))
		}
		return allow()
	case ActionExtend:
		if !actor.Authenticated() || !listing.IsOwnedBy(actor.UserID) {
			return refuse("only the listing owner can extend it")
		}
		if listing.Status != enums.ListingStatusActive {
			return refuse("only active listings can be extended")
		}
		if req.Days < 1 {
			return refuse("extension must be at least 1 day")
		}
		return allow()
	default:
		return refuse(fmt.Sprintf("unknown action %q", req.Action))
	}
}

func canModerate(listing types.Listing, actor Actor, _ enums.ListingStatus) Decision {
	if !actor.Role.CanModerate() {
		return refuse("moderator role required")
	}
	if listing.Status != enums.ListingStatusPending {
		return refuse(fmt.Sprintf("listing is %s, only pending listings can be moderated", listing.Status))
	}
	return allow()
}
