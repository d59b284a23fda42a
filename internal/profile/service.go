// Package profile merges the backend's two overlapping account endpoints
// into one view and fans updates out to both.
package profile

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/evtrading/evmarket-gateway/internal/backend"
	"github.com/evtrading/evmarket-gateway/pkg/auth"
	pkgerrors "github.com/evtrading/evmarket-gateway/pkg/errors"
	"github.com/evtrading/evmarket-gateway/pkg/logger"
	"github.com/evtrading/evmarket-gateway/pkg/types"
)

type backendAPI interface {
	GetUser(ctx context.Context, userID int64) (types.User, error)
	GetProfile(ctx context.Context, userID int64) (types.User, error)
	UpdateUser(ctx context.Context, userID int64, update backend.ProfileUpdate) error
	UpdateProfile(ctx context.Context, userID int64, update backend.ProfileUpdate) error
	GetMyListings(ctx context.Context) ([]types.Listing, error)
	GetMyOrders(ctx context.Context) ([]types.Order, error)
}

// Service defines the profile operations exposed to controllers.
type Service interface {
	Me(ctx context.Context) (types.Profile, error)
	Update(ctx context.Context, update backend.ProfileUpdate) (types.User, error)
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

// NewService validates dependencies and builds the profile service.
func NewService(params ServiceParams) (Service, error) {
	if params.Backend == nil {
		return nil, fmt.Errorf("profile service requires a backend client")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("profile service requires a logger")
	}
	return &service{backend: params.Backend, logger: params.Logger}, nil
}

// Me assembles the caller's account view. The users record wins field
// conflicts; the profiles record fills the gaps. Activity reads degrade to
// empty collections when the backend struggles.
func (s *service) Me(ctx context.Context) (types.Profile, error) {
	session, ok := auth.SessionFrom(ctx)
	if !ok {
		return types.Profile{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to see your profile")
	}

	user, userErr := s.backend.GetUser(ctx, session.UserID)
	profile, profileErr := s.backend.GetProfile(ctx, session.UserID)
	if userErr != nil && profileErr != nil {
		return types.Profile{}, userErr
	}
	merged := mergeAccounts(user, userErr == nil, profile, profileErr == nil)
	merged.Role = session.Role

	listings, err := s.backend.GetMyListings(ctx)
	if err != nil {
		s.logger.Warn(ctx, "profile listings fetch failed")
		listings = []types.Listing{}
	}
	orders, err := s.backend.GetMyOrders(ctx)
	if err != nil {
		s.logger.Warn(ctx, "profile orders fetch failed")
		orders = []types.Order{}
	}

	return types.Profile{User: merged, Listings: listings, Orders: orders}, nil
}

// Update writes the change to both account endpoints. Partial failure is
// reported as an error so the caller knows the sources may disagree.
func (s *service) Update(ctx context.Context, update backend.ProfileUpdate) (types.User, error) {
	session, ok := auth.SessionFrom(ctx)
	if !ok {
		return types.User{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to update your profile")
	}

	err := multierr.Combine(
		s.backend.UpdateUser(ctx, session.UserID, update),
		s.backend.UpdateProfile(ctx, session.UserID, update),
	)
	if err != nil {
		return types.User{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "profile update did not fully apply")
	}

	user, err := s.backend.GetUser(ctx, session.UserID)
	if err != nil {
		return types.User{}, err
	}
	user.Role = session.Role
	return user, nil
}

func mergeAccounts(user types.User, haveUser bool, profile types.User, haveProfile bool) types.User {
	switch {
	case haveUser && !haveProfile:
		return user
	case haveProfile && !haveUser:
		return profile
	}

	merged := user
	if merged.Email == "" {
		merged.Email = profile.Email
	}
	if merged.Phone == "" {
		merged.Phone = profile.Phone
	}
	if merged.FullName == "" {
		merged.FullName = profile.FullName
	}
	if merged.AvatarURL == "" {
		merged.AvatarURL = profile.AvatarURL
	}
	if merged.CreatedAt.IsZero() {
		merged.CreatedAt = profile.CreatedAt
	}
	return merged
}
