package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/evtrading/evmarket-gateway/pkg/money"
	"github.com/evtrading/evmarket-gateway/pkg/pagination"
	"github.com/evtrading/evmarket-gateway/pkg/types"
)

// ListingDocument is the JSON half of a listing create or update.
type ListingDocument struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	BrandID     int64           `json:"brandId"`
	CategoryID  int64           `json:"categoryId"`
	ProductType string          `json:"productType"`

	Vehicle *types.VehicleDetails `json:"vehicle,omitempty"`
	Battery *types.BatteryDetails `json:"battery,omitempty"`
}

// GetListings fetches the public listing catalog.
func (c *Client) GetListings(ctx context.Context, page pagination.Params) ([]types.Listing, error) {
	query := url.Values{}
	page.Encode(query)

	var collection listingCollection
	err := c.do(ctx, request{method: http.MethodGet, path: "/api/listings", query: query}, &collection)
	if err != nil {
		return nil, err
	}
	return collection.toDomain(), nil
}

// GetListing fetches one listing by id.
func (c *Client) GetListing(ctx context.Context, listingID int64) (types.Listing, error) {
	var wire wireListing
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   fmt.Sprintf("/api/listings/%d", listingID),
	}, &wire)
	if err != nil {
		return types.Listing{}, err
	}
	return wire.toDomain(), nil
}

// GetMyListings fetches everything the authenticated user is selling.
func (c *Client) GetMyListings(ctx context.Context) ([]types.Listing, error) {
	var collection listingCollection
	err := c.do(ctx, request{method: http.MethodGet, path: "/api/listings/my"}, &collection)
	if err != nil {
		return nil, err
	}
	return collection.toDomain(), nil
}

// CreateListing submits a new listing with its images.
func (c *Client) CreateListing(ctx context.Context, doc ListingDocument, images []ImageUpload) (types.Listing, error) {
	form, err := newMultipartBody("listing", doc, images)
	if err != nil {
		return types.Listing{}, err
	}
	var wire wireListing
	err = c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/api/listings",
		formBody: form,
	}, &wire)
	if err != nil {
		return types.Listing{}, err
	}
	return wire.toDomain(), nil
}

// UpdateListing edits an existing listing, resubmitting it for moderation.
func (c *Client) UpdateListing(ctx context.Context, listingID int64, doc ListingDocument, images []ImageUpload) (types.Listing, error) {
	form, err := newMultipartBody("listing", doc, images)
	if err != nil {
		return types.Listing{}, err
	}
	var wire wireListing
	err = c.do(ctx, request{
		method:   http.MethodPut,
		path:     fmt.Sprintf("/api/listings/%d", listingID),
		formBody: form,
	}, &wire)
	if err != nil {
		return types.Listing{}, err
	}
	return wire.toDomain(), nil
}

// ExtendListing extends an active listing's visibility window.
func (c *Client) ExtendListing(ctx context.Context, listingID int64, days int) (types.Listing, error) {
	query := url.Values{}
	query.Set("days", strconv.Itoa(days))

	var wire wireListing
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   fmt.Sprintf("/api/listings/%d/extend", listingID),
		query:  query,
	}, &wire)
	if err != nil {
		return types.Listing{}, err
	}
	return wire.toDomain(), nil
}

// GetExtensionConfig fetches the backend's extension pricing.
func (c *Client) GetExtensionConfig(ctx context.Context) (money.ExtensionConfig, error) {
	var cfg money.ExtensionConfig
	err := c.do(ctx, request{method: http.MethodGet, path: "/api/listings/extend-config"}, &cfg)
	if err != nil {
		return money.ExtensionConfig{}, err
	}
	return cfg, nil
}
