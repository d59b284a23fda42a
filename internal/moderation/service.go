// Package moderation is the moderator-facing queue: pending listings,
// approve, and reject. The same transition authority used by the seller
// surface gates every call, so the rules exist exactly once.
package moderation

import (
	"context"
	"fmt"

	"github.com/evtrading/evmarket-gateway/pkg/auth"
	"github.com/evtrading/evmarket-gateway/pkg/enums"
	pkgerrors "github.com/evtrading/evmarket-gateway/pkg/errors"
	"github.com/evtrading/evmarket-gateway/pkg/lifecycle"
	"github.com/evtrading/evmarket-gateway/pkg/logger"
	"github.com/evtrading/evmarket-gateway/pkg/types"
)

type backendAPI interface {
	GetPendingListings(ctx context.Context) ([]types.Listing, error)
	GetListing(ctx context.Context, listingID int64) (types.Listing, error)
	ApproveListing(ctx context.Context, listingID int64) error
	RejectListing(ctx context.Context, listingID int64, reason string) error
}

// Service defines the moderation queue operations.
type Service interface {
	PendingQueue(ctx context.Context) ([]types.Listing, error)
	Approve(ctx context.Context, listingID int64) error
	Reject(ctx context.Context, listingID int64, reason string) error
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

// NewService validates dependencies and builds the moderation service.
func NewService(params ServiceParams) (Service, error) {
	if params.Backend == nil {
		return nil, fmt.Errorf("moderation service requires a backend client")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("moderation service requires a logger")
	}
	return &service{backend: params.Backend, logger: params.Logger}, nil
}

// PendingQueue returns the listings awaiting review. An outage degrades to an
// empty queue so the moderation screen still renders.
func (s *service) PendingQueue(ctx context.Context) ([]types.Listing, error) {
	if err := s.requireModerator(ctx); err != nil {
		return nil, err
	}
	listings, err := s.backend.GetPendingListings(ctx)
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil && appErr.Code() == pkgerrors.CodeDependency {
			s.logger.Warn(ctx, "pending queue fetch failed, serving empty queue")
			return []types.Listing{}, nil
		}
		return nil, err
	}
	return listings, nil
}

// Approve publishes a pending listing. A conflict from the backend means the
// listing moved on while it sat in the queue; the caller re-fetches the queue
// and never guesses.
func (s *service) Approve(ctx context.Context, listingID int64) error {
	session, err := s.moderatorSession(ctx)
	if err != nil {
		return err
	}

	current, err := s.backend.GetListing(ctx, listingID)
	if err != nil {
		return err
	}
	decision := lifecycle.CanTransition(current, session.Actor(), lifecycle.Request{Action: lifecycle.ActionApprove})
	if !decision.Allowed {
		return pkgerrors.New(pkgerrors.CodeStateConflict, decision.Reason)
	}
	if err := s.backend.ApproveListing(ctx, listingID); err != nil {
		return err
	}
	lctx := s.logger.WithListingID(ctx, listingID)
	s.logger.Info(lctx, "listing approved")
	return nil
}

// Reject refuses a pending listing. The reason is mandatory and checked
// before any network call.
func (s *service) Reject(ctx context.Context, listingID int64, reason string) error {
	session, err := s.moderatorSession(ctx)
	if err != nil {
		return err
	}

	current, err := s.backend.GetListing(ctx, listingID)
	if err != nil {
		return err
	}
	decision := lifecycle.CanTransition(current, session.Actor(), lifecycle.Request{Action: lifecycle.ActionReject, Reason: reason})
	if !decision.Allowed {
		if current.Status != enums.ListingStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, decision.Reason)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, decision.Reason)
	}
	if err := s.backend.RejectListing(ctx, listingID, reason); err != nil {
		return err
	}
	lctx := s.logger.WithListingID(ctx, listingID)
	s.logger.Info(lctx, "listing rejected")
	return nil
}

func (s *service) moderatorSession(ctx context.Context) (auth.Session, error) {
	session, ok := auth.SessionFrom(ctx)
	if !ok {
		return auth.Session{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to moderate listings")
	}
	if !session.Role.CanModerate() {
		return auth.Session{}, pkgerrors.New(pkgerrors.CodeForbidden, "moderator role required")
	}
	return session, nil
}

func (s *service) requireModerator(ctx context.Context) error {
	_, err := s.moderatorSession(ctx)
	return err
}
