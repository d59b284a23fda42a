package pagination

import (
	"net/url"
	"strconv"
)

const (
	// DefaultSize is the standard page size when one is not provided.
	DefaultSize = 20
	// MaxSize caps how many rows any page can request.
	MaxSize = 100
)

// Params holds page/size pagination inputs, matching the marketplace
// backend's zero-based page numbering.
type Params struct {
	Page int
	Size int
}

// Page is one page of results together with the backend's paging metadata.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Last          bool  `json:"last"`
}

// NormalizeSize enforces the default and maximum page sizes.
func NormalizeSize(size int) int {
	if size <= 0 {
		return DefaultSize
	}
	if size > MaxSize {
		return MaxSize
	}
	return size
}

// NormalizePage clamps negative page numbers to the first page.
func NormalizePage(page int) int {
	if page < 0 {
		return 0
	}
	return page
}

// FromQuery reads page/size query parameters, applying defaults for absent or
// malformed values.
func FromQuery(query url.Values) Params {
	page, _ := strconv.Atoi(query.Get("page"))
	size, _ := strconv.Atoi(query.Get("size"))
	return Params{
		Page: NormalizePage(page),
		Size: NormalizeSize(size),
	}
}

// Encode writes the params back onto a query string for the backend call.
func (p Params) Encode(query url.Values) {
	query.Set("page", strconv.Itoa(NormalizePage(p.Page)))
	query.Set("size", strconv.Itoa(NormalizeSize(p.Size)))
}
