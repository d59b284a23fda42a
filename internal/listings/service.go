// Package listings is the seller-facing listing surface: browsing, the "my
// listings" view, create/edit, and visibility extensions. All transition
// rules are delegated to pkg/lifecycle so every adapter shares one authority.
package listings

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/evtrading/evmarket-gateway/internal/backend"
	"github.com/evtrading/evmarket-gateway/pkg/auth"
	"github.com/evtrading/evmarket-gateway/pkg/enums"
	pkgerrors "github.com/evtrading/evmarket-gateway/pkg/errors"
	"github.com/evtrading/evmarket-gateway/pkg/lifecycle"
	"github.com/evtrading/evmarket-gateway/pkg/logger"
	"github.com/evtrading/evmarket-gateway/pkg/money"
	"github.com/evtrading/evmarket-gateway/pkg/pagination"
	"github.com/evtrading/evmarket-gateway/pkg/types"
)

const (
	myListingsCacheTTL = 60 * time.Second

	// The catalog front page is kept as a last-known-good snapshot with a
	// generous TTL; the cron reconcile job refreshes it well before expiry.
	catalogSnapshotTTL = 30 * time.Minute
)

type backendAPI interface {
	GetListings(ctx context.Context, page pagination.Params) ([]types.Listing, error)
	GetListing(ctx context.Context, listingID int64) (types.Listing, error)
	GetMyListings(ctx context.Context) ([]types.Listing, error)
	CreateListing(ctx context.Context, doc backend.ListingDocument, images []backend.ImageUpload) (types.Listing, error)
	UpdateListing(ctx context.Context, listingID int64, doc backend.ListingDocument, images []backend.ImageUpload) (types.Listing, error)
	ExtendListing(ctx context.Context, listingID int64, days int) (types.Listing, error)
	GetExtensionConfig(ctx context.Context) (money.ExtensionConfig, error)
}

type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CacheKey(scope, id string) string
}

// Service defines the listing operations exposed to controllers.
type Service interface {
	Browse(ctx context.Context, page pagination.Params) ([]types.Listing, error)
	Detail(ctx context.Context, listingID int64) (types.Listing, error)
	MyListings(ctx context.Context, filter enums.ViewFilter) ([]types.Listing, error)
	Create(ctx context.Context, doc backend.ListingDocument, images []backend.ImageUpload) (types.Listing, error)
	Update(ctx context.Context, listingID int64, doc backend.ListingDocument, images []backend.ImageUpload) (types.Listing, error)
	ExtensionQuote(ctx context.Context, days int) (money.ExtensionQuote, error)
	Extend(ctx context.Context, listingID int64, days int) (types.Listing, error)
	ReconcileCatalog(ctx context.Context) error
}

// ServiceParams carries the dependencies for NewService.
type ServiceParams struct {
	Backend backendAPI
	Cache   cacheStore
	Logger  *logger.Logger
}

type service struct {
	backend backendAPI
	cache   cacheStore
	logger  *logger.Logger
}

// NewService validates dependencies and builds the listing service.
func NewService(params ServiceParams) (Service, error) {
	if params.Backend == nil {
		return nil, fmt.Errorf("listings service requires a backend client")
	}
	if params.Cache == nil {
		return nil, fmt.Errorf("listings service requires a cache")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("listings service requires a logger")
	}
	return &service{
		backend: params.Backend,
		cache:   params.Cache,
		logger:  params.Logger,
	}, nil
}

// Browse returns the public catalog. A backend outage degrades to the
// last-known-good front page when one is cached, or an empty page, rather
// than an error, so the storefront still renders.
func (s *service) Browse(ctx context.Context, page pagination.Params) ([]types.Listing, error) {
	listings, err := s.backend.GetListings(ctx, page)
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil && appErr.Code() == pkgerrors.CodeDependency {
			if page.Page == 0 {
				if snapshot, ok := s.cachedCatalog(ctx); ok {
					s.logger.Warn(ctx, "catalog fetch failed, serving cached snapshot")
					return snapshot, nil
				}
			}
			s.logger.Warn(ctx, "catalog fetch failed, serving empty page")
			return []types.Listing{}, nil
		}
		return nil, err
	}
	if page.Page == 0 {
		s.storeCatalog(ctx, listings)
	}
	return listings, nil
}

// ReconcileCatalog re-fetches the catalog front page and refreshes the
// snapshot Browse falls back on. Run on an interval by the cron worker.
func (s *service) ReconcileCatalog(ctx context.Context) error {
	listings, err := s.backend.GetListings(ctx, pagination.Params{Page: 0, Size: pagination.DefaultSize})
	if err != nil {
		return err
	}
	s.storeCatalog(ctx, listings)
	return nil
}

func (s *service) Detail(ctx context.Context, listingID int64) (types.Listing, error) {
	if listingID <= 0 {
		return types.Listing{}, pkgerrors.New(pkgerrors.CodeValidation, "listing id is required")
	}
	return s.backend.GetListing(ctx, listingID)
}

// MyListings returns the seller's own listings through the requested view
// filter, ordered by status rank. Results are cached briefly per seller.
func (s *service) MyListings(ctx context.Context, filter enums.ViewFilter) ([]types.Listing, error) {
	session, ok := auth.SessionFrom(ctx)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to see your listings")
	}

	listings, cached := s.cachedMyListings(ctx, session.UserID)
	if !cached {
		fetched, err := s.backend.GetMyListings(ctx)
		if err != nil {
			if appErr := pkgerrors.As(err); appErr != nil && appErr.Code() == pkgerrors.CodeDependency {
				s.logger.Warn(ctx, "my-listings fetch failed, serving empty view")
				return []types.Listing{}, nil
			}
			return nil, err
		}
		listings = fetched
		s.storeMyListings(ctx, session.UserID, listings)
	}
	return lifecycle.Project(listings, filter), nil
}

func (s *service) Create(ctx context.Context, doc backend.ListingDocument, images []backend.ImageUpload) (types.Listing, error) {
	session, ok := auth.SessionFrom(ctx)
	if !ok {
		return types.Listing{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to create a listing")
	}
	if err := validateDocument(doc); err != nil {
		return types.Listing{}, err
	}
	if len(images) == 0 {
		return types.Listing{}, pkgerrors.New(pkgerrors.CodeValidation, "at least one image is required")
	}

	created, err := s.backend.CreateListing(ctx, doc, images)
	if err != nil {
		return types.Listing{}, err
	}
	s.invalidateMyListings(ctx, session.UserID)
	return created, nil
}

// Update edits a listing and resubmits it for moderation. Only the owner may
// edit, and only in an editable status; both are checked against the latest
// backend snapshot before anything is sent.
func (s *service) Update(ctx context.Context, listingID int64, doc backend.ListingDocument, images []backend.ImageUpload) (types.Listing, error) {
	session, ok := auth.SessionFrom(ctx)
	if !ok {
		return types.Listing{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to edit your listing")
	}

	current, err := s.backend.GetListing(ctx, listingID)
	if err != nil {
		return types.Listing{}, err
	}
	decision := lifecycle.CanTransition(current, session.Actor(), lifecycle.Request{Action: lifecycle.ActionEdit})
	if !decision.Allowed {
		return types.Listing{}, pkgerrors.New(pkgerrors.CodeValidation, decision.Reason)
	}
	if err := validateDocument(doc); err != nil {
		return types.Listing{}, err
	}
	if doc.ProductType != "" && doc.ProductType != current.Product.Type.String() {
		return types.Listing{}, pkgerrors.New(pkgerrors.CodeValidation, "a listing cannot change its product type")
	}

	updated, err := s.backend.UpdateListing(ctx, listingID, doc, images)
	if err != nil {
		return types.Listing{}, err
	}
	s.applyDelta(ctx, session.UserID, updated)
	return updated, nil
}

// ExtensionQuote prices an extension locally. When the backend's pricing
// endpoint is down the published defaults apply, so the form still renders.
func (s *service) ExtensionQuote(ctx context.Context, days int) (money.ExtensionQuote, error) {
	cfg, err := s.backend.GetExtensionConfig(ctx)
	if err != nil {
		s.logger.Warn(ctx, "extension config fetch failed, using defaults")
		cfg = money.DefaultExtensionConfig()
	}
	return money.ComputeExtension(days, cfg)
}

func (s *service) Extend(ctx context.Context, listingID int64, days int) (types.Listing, error) {
	session, ok := auth.SessionFrom(ctx)
	if !ok {
		return types.Listing{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to extend your listing")
	}

	current, err := s.backend.GetListing(ctx, listingID)
	if err != nil {
		return types.Listing{}, err
	}
	decision := lifecycle.CanTransition(current, session.Actor(), lifecycle.Request{Action: lifecycle.ActionExtend, Days: days})
	if !decision.Allowed {
		return types.Listing{}, pkgerrors.New(pkgerrors.CodeValidation, decision.Reason)
	}

	cfg, cfgErr := s.backend.GetExtensionConfig(ctx)
	if cfgErr != nil {
		cfg = money.DefaultExtensionConfig()
	}
	if _, err := money.ComputeExtension(days, cfg); err != nil {
		return types.Listing{}, err
	}

	extended, err := s.backend.ExtendListing(ctx, listingID, days)
	if err != nil {
		return types.Listing{}, err
	}
	s.applyDelta(ctx, session.UserID, extended)
	return extended, nil
}

func validateDocument(doc backend.ListingDocument) error {
	if doc.Title == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if doc.Price.IsNegative() || doc.Price.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if doc.ProductType != "" {
		if _, err := enums.ParseProductType(doc.ProductType); err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "product type must be VEHICLE or BATTERY")
		}
	}
	return nil
}

func (s *service) catalogCacheKey() string {
	return s.cache.CacheKey("catalog", "front-page")
}

func (s *service) cachedCatalog(ctx context.Context) ([]types.Listing, bool) {
	stored, err := s.cache.Get(ctx, s.catalogCacheKey())
	if err != nil {
		return nil, false
	}
	var listings []types.Listing
	if err := json.Unmarshal([]byte(stored), &listings); err != nil {
		return nil, false
	}
	return listings, true
}

func (s *service) storeCatalog(ctx context.Context, listings []types.Listing) {
	payload, err := json.Marshal(listings)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.catalogCacheKey(), payload, catalogSnapshotTTL); err != nil {
		s.logger.Warn(ctx, "caching catalog snapshot failed")
	}
}

func (s *service) myListingsCacheKey(userID int64) string {
	return s.cache.CacheKey("my-listings", strconv.FormatInt(userID, 10))
}

func (s *service) cachedMyListings(ctx context.Context, userID int64) ([]types.Listing, bool) {
	stored, err := s.cache.Get(ctx, s.myListingsCacheKey(userID))
	if err != nil {
		return nil, false
	}
	var listings []types.Listing
	if err := json.Unmarshal([]byte(stored), &listings); err != nil {
		return nil, false
	}
	return listings, true
}

func (s *service) storeMyListings(ctx context.Context, userID int64, listings []types.Listing) {
	payload, err := json.Marshal(listings)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.myListingsCacheKey(userID), payload, myListingsCacheTTL); err != nil {
		s.logger.Warn(ctx, "caching my-listings failed")
	}
}

func (s *service) invalidateMyListings(ctx context.Context, userID int64) {
	if err := s.cache.Del(ctx, s.myListingsCacheKey(userID)); err != nil {
		s.logger.Warn(ctx, "cache invalidation failed")
	}
}

// applyDelta patches the cached collection with the confirmed mutation so the
// next render reflects it immediately, then reconciles in the background with
// an authoritative re-fetch. The patched copy is a display optimization,
// never the source of truth.
func (s *service) applyDelta(ctx context.Context, userID int64, updated types.Listing) {
	if listings, ok := s.cachedMyListings(ctx, userID); ok {
		for i := range listings {
			if listings[i].ID == updated.ID {
				listings[i] = updated
			}
		}
		s.storeMyListings(ctx, userID, listings)
	}

	refetchCtx := context.WithoutCancel(ctx)
	go func() {
		reconcileCtx, cancel := context.WithTimeout(refetchCtx, 10*time.Second)
		defer cancel()
		fresh, err := s.backend.GetMyListings(reconcileCtx)
		if err != nil {
			s.invalidateMyListings(reconcileCtx, userID)
			return
		}
		s.storeMyListings(reconcileCtx, userID, fresh)
	}()
}
