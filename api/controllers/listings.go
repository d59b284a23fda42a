package controllers

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/evtrading/evmarket-gateway/api/responses"
	"github.com/evtrading/evmarket-gateway/api/validators"
	"github.com/evtrading/evmarket-gateway/internal/backend"
	"github.com/evtrading/evmarket-gateway/internal/listings"
	"github.com/evtrading/evmarket-gateway/pkg/enums"
	pkgerrors "github.com/evtrading/evmarket-gateway/pkg/errors"
	"github.com/evtrading/evmarket-gateway/pkg/logger"
	"github.com/evtrading/evmarket-gateway/pkg/pagination"
)

const maxListingFormBytes = 32 << 20

// BrowseListings serves the public catalog page.
func BrowseListings(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := pagination.FromQuery(r.URL.Query())
		items, err := svc.Browse(r.Context(), page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// ListingDetail serves one listing by id.
func ListingDetail(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listingID, err := validators.ParsePathID(chi.URLParam(r, "listingID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		listing, err := svc.Detail(r.Context(), listingID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listing)
	}
}

// MyListings serves the seller dashboard view, filtered and ordered for
// management rather than discovery.
func MyListings(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := enums.ParseViewFilter(r.URL.Query().Get("filter"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown filter"))
			return
		}
		items, err := svc.MyListings(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// CreateListing accepts a multipart form with a "listing" JSON part and
// "images" file parts, and submits the listing for moderation.
func CreateListing(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, images, err := parseListingForm(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		listing, err := svc.Create(r.Context(), doc, images)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, listing)
	}
}

// UpdateListing edits a flagged or rejected listing and resubmits it.
func UpdateListing(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listingID, err := validators.ParsePathID(chi.URLParam(r, "listingID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		doc, images, err := parseListingForm(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		listing, err := svc.Update(r.Context(), listingID, doc, images)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listing)
	}
}

// ExtensionQuote prices a visibility extension before the seller commits.
func ExtensionQuote(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days, err := validators.ParseQueryInt(r, "days", 0, 1, 365)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quote, err := svc.ExtensionQuote(r.Context(), days)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

type extendRequest struct {
	Days int `json:"days" validate:"required,min=1"`
}

// ExtendListing buys extra visibility days for an active listing.
func ExtendListing(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listingID, err := validators.ParsePathID(chi.URLParam(r, "listingID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body extendRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		listing, err := svc.Extend(r.Context(), listingID, body.Days)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listing)
	}
}

func parseListingForm(r *http.Request) (backend.ListingDocument, []backend.ImageUpload, error) {
	var doc backend.ListingDocument

	if err := r.ParseMultipartForm(maxListingFormBytes); err != nil {
		return doc, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
	}

	raw := r.FormValue("listing")
	if raw == "" {
		return doc, nil, pkgerrors.New(pkgerrors.CodeValidation, "listing part is required")
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return doc, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid listing payload")
	}

	var images []backend.ImageUpload
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["images"] {
			image, err := readImagePart(header)
			if err != nil {
				return doc, nil, err
			}
			images = append(images, image)
		}
	}
	return doc, images, nil
}

func readImagePart(header *multipart.FileHeader) (backend.ImageUpload, error) {
	file, err := header.Open()
	if err != nil {
		return backend.ImageUpload{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable image part")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return backend.ImageUpload{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable image part")
	}
	return backend.ImageUpload{Filename: header.Filename, Data: data}, nil
}
