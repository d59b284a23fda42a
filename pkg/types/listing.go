package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/evtrading/evmarket-gateway/pkg/enums"
)

// Image is one photo attached to a listing. Exactly one image per listing is
// the primary display image.
type Image struct {
	URL       string `json:"url"`
	IsPrimary bool   `json:"isPrimary"`
}

// Seller identifies the listing owner. Assigned by the backend at creation
// and never reassigned.
type Seller struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// Listing is the central domain object. The marketplace backend owns the
// persisted record; instances here are snapshots decoded from its responses.
type Listing struct {
	ID              int64               `json:"listingId"`
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	Price           decimal.Decimal     `json:"price"`
	BrandID         int64               `json:"brandId"`
	CategoryID      int64               `json:"categoryId"`
	Status          enums.ListingStatus `json:"status"`
	RejectionReason string              `json:"rejectionReason,omitempty"`
	Images          []Image             `json:"images"`
	Product         Product             `json:"product"`
	Seller          Seller              `json:"seller"`
	CreatedAt       time.Time           `json:"createdAt"`
	ExpiryDate      time.Time           `json:"expiryDate"`
}

// IsOwnedBy reports whether the given user owns this listing.
func (l Listing) IsOwnedBy(userID int64) bool {
	return l.Seller.ID == userID
}

// NormalizeImages enforces the exactly-one-primary invariant over a listing's
// image set. If no image is marked primary the first becomes primary; if
// several are marked the first marked one wins and the rest are demoted. An
// empty set is returned unchanged.
func NormalizeImages(images []Image) []Image {
	if len(images) == 0 {
		return images
	}
	out := make([]Image, len(images))
	copy(out, images)

	primary := -1
	for i := range out {
		if out[i].IsPrimary {
			primary = i
			break
		}
	}
	if primary == -1 {
		primary = 0
	}
	for i := range out {
		out[i].IsPrimary = i == primary
	}
	return out
}

// Validate checks the structural invariants of a listing snapshot.
func (l Listing) Validate() error {
	if l.ID <= 0 {
		return fmt.Errorf("listing: missing id")
	}
	if strings.TrimSpace(l.Title) == "" {
		return fmt.Errorf("listing %d: missing title", l.ID)
	}
	if l.Price.IsNegative() {
		return fmt.Errorf("listing %d: negative price", l.ID)
	}
	if !l.ExpiryDate.IsZero() && !l.CreatedAt.IsZero() && l.ExpiryDate.Before(l.CreatedAt) {
		return fmt.Errorf("listing %d: expiry before creation", l.ID)
	}
	primaries := 0
	for _, img := range l.Images {
		if img.IsPrimary {
			primaries++
		}
	}
	if len(l.Images) > 0 && primaries != 1 {
		return fmt.Errorf("listing %d: %d primary images, want exactly 1", l.ID, primaries)
	}
	return l.Product.Validate()
}
