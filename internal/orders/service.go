// Package orders places buyer orders against active listings.
package orders

import (
	"context"
	"fmt"

	"github.com/evtrading/evmarket-gateway/internal/backend"
	"github.com/evtrading/evmarket-gateway/pkg/auth"
	pkgerrors "github.com/evtrading/evmarket-gateway/pkg/errors"
	"github.com/evtrading/evmarket-gateway/pkg/lifecycle"
	"github.com/evtrading/evmarket-gateway/pkg/logger"
	"github.com/evtrading/evmarket-gateway/pkg/types"
)

type backendAPI interface {
	GetListing(ctx context.Context, listingID int64) (types.Listing, error)
	CreateOrder(ctx context.Context, input backend.CreateOrderInput) (types.Order, error)
	GetMyOrders(ctx context.Context) ([]types.Order, error)
}

// Service defines the order operations exposed to controllers.
type Service interface {
	Availability(ctx context.Context, listingID int64) (lifecycle.OrderDecision, error)
	Place(ctx context.Context, listingID int64, quantity int) (types.Order, error)
	MyOrders(ctx context.Context) ([]types.Order, error)
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

// NewService validates dependencies and builds the order service.
func NewService(params ServiceParams) (Service, error) {
	if params.Backend == nil {
		return nil, fmt.Errorf("orders service requires a backend client")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("orders service requires a logger")
	}
	return &service{backend: params.Backend, logger: params.Logger}, nil
}

// Availability reports whether the requester could order the listing, for
// rendering the buy action.
func (s *service) Availability(ctx context.Context, listingID int64) (lifecycle.OrderDecision, error) {
	listing, err := s.backend.GetListing(ctx, listingID)
	if err != nil {
		return lifecycle.OrderDecision{}, err
	}
	return lifecycle.CanPlaceOrder(listing, auth.ActorFrom(ctx)), nil
}

// Place opens an order. The guard runs against the latest snapshot first;
// sellers cannot buy their own listings and only active listings sell.
func (s *service) Place(ctx context.Context, listingID int64, quantity int) (types.Order, error) {
	session, ok := auth.SessionFrom(ctx)
	if !ok {
		return types.Order{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to place an order")
	}
	if quantity < 1 {
		quantity = 1
	}

	listing, err := s.backend.GetListing(ctx, listingID)
	if err != nil {
		return types.Order{}, err
	}
	decision := lifecycle.CanPlaceOrder(listing, session.Actor())
	if !decision.Allowed {
		if !decision.Visible {
			return types.Order{}, pkgerrors.New(pkgerrors.CodeStateConflict, decision.Reason)
		}
		return types.Order{}, pkgerrors.New(pkgerrors.CodeValidation, decision.Reason)
	}

	order, err := s.backend.CreateOrder(ctx, backend.CreateOrderInput{
		ListingID: listingID,
		Quantity:  quantity,
	})
	if err != nil {
		return types.Order{}, err
	}
	lctx := s.logger.WithListingID(ctx, listingID)
	s.logger.Info(lctx, "order placed")
	return order, nil
}

// MyOrders lists the caller's orders. An outage degrades to an empty list.
func (s *service) MyOrders(ctx context.Context) ([]types.Order, error) {
	if _, ok := auth.SessionFrom(ctx); !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to see your orders")
	}
	orders, err := s.backend.GetMyOrders(ctx)
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil && appErr.Code() == pkgerrors.CodeDependency {
			s.logger.Warn(ctx, "orders fetch failed, serving empty list")
			return []types.Order{}, nil
		}
		return nil, err
	}
	return orders, nil
}
