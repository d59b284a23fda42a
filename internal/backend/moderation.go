package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/evtrading/evmarket-gateway/pkg/types"
)

// GetPendingListings fetches the moderation queue.
func (c *Client) GetPendingListings(ctx context.Context) ([]types.Listing, error) {
	var collection listingCollection
	err := c.do(ctx, request{method: http.MethodGet, path: "/api/listings/pending"}, &collection)
	if err != nil {
		return nil, err
	}
	return collection.toDomain(), nil
}

// ApproveListing publishes a pending listing.
func (c *Client) ApproveListing(ctx context.Context, listingID int64) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   fmt.Sprintf("/api/listings/%d/approve", listingID),
	}, nil)
}

// RejectListing refuses a pending listing with a reason.
func (c *Client) RejectListing(ctx context.Context, listingID int64, reason string) error {
	query := url.Values{}
	query.Set("reason", reason)
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   fmt.Sprintf("/api/listings/%d/reject", listingID),
		query:  query,
	}, nil)
}
