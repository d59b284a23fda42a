package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/evtrading/evmarket-gateway/internal/backend"
	"github.com/evtrading/evmarket-gateway/pkg/enums"
	"github.com/evtrading/evmarket-gateway/pkg/logger"
	"github.com/evtrading/evmarket-gateway/pkg/money"
	"github.com/evtrading/evmarket-gateway/pkg/pagination"
	"github.com/evtrading/evmarket-gateway/pkg/types"
)

type stubListingService struct {
	createdDoc    backend.ListingDocument
	createdImages []backend.ImageUpload
	myFilter      enums.ViewFilter
	myCalls       int
}

func (s *stubListingService) Browse(context.Context, pagination.Params) ([]types.Listing, error) {
	return []types.Listing{}, nil
}

func (s *stubListingService) Detail(context.Context, int64) (types.Listing, error) {
	return types.Listing{}, nil
}

func (s *stubListingService) MyListings(_ context.Context, filter enums.ViewFilter) ([]types.Listing, error) {
	s.myFilter = filter
	s.myCalls++
	return []types.Listing{}, nil
}

func (s *stubListingService) Create(_ context.Context, doc backend.ListingDocument, images []backend.ImageUpload) (types.Listing, error) {
	s.createdDoc = doc
	s.createdImages = images
	return types.Listing{ID: 42, Title: doc.Title}, nil
}

func (s *stubListingService) Update(_ context.Context, _ int64, doc backend.ListingDocument, images []backend.ImageUpload) (types.Listing, error) {
	return types.Listing{}, nil
}

func (s *stubListingService) ExtensionQuote(_ context.Context, days int) (money.ExtensionQuote, error) {
	return money.ComputeExtension(days, money.DefaultExtensionConfig())
}

func (s *stubListingService) Extend(context.Context, int64, int) (types.Listing, error) {
	return types.Listing{}, nil
}

func (s *stubListingService) ReconcileCatalog(context.Context) error { return nil }

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func listingForm(t *testing.T, doc backend.ListingDocument, imageNames ...string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	payload, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal doc: %v", err)
	}
	if err := writer.WriteField("listing", string(payload)); err != nil {
		t.Fatalf("write listing field: %v", err)
	}
	for _, name := range imageNames {
		part, err := writer.CreateFormFile("images", name)
		if err != nil {
			t.Fatalf("create image part: %v", err)
		}
		if _, err := part.Write([]byte("jpeg-bytes")); err != nil {
			t.Fatalf("write image part: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestCreateListingParsesMultipartForm(t *testing.T) {
	svc := &stubListingService{}
	handler := CreateListing(svc, testLogger())

	doc := backend.ListingDocument{
		Title:       "VinFast VF8 2023",
		Description: "one owner",
		Price:       decimal.NewFromInt(550000000),
		ProductType: "VEHICLE",
	}
	body, contentType := listingForm(t, doc, "front.jpg", "side.jpg")

	r := httptest.NewRequest(http.MethodPost, "/api/v1/listings/", body)
	r.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	handler(w, r)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 but got %d: %s", w.Code, w.Body.String())
	}
	if svc.createdDoc.Title != "VinFast VF8 2023" {
		t.Fatalf("document not forwarded: %+v", svc.createdDoc)
	}
	if len(svc.createdImages) != 2 || svc.createdImages[0].Filename != "front.jpg" {
		t.Fatalf("images not forwarded: %+v", svc.createdImages)
	}
}

func TestCreateListingRejectsMissingListingPart(t *testing.T) {
	svc := &stubListingService{}
	handler := CreateListing(svc, testLogger())

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	writer.Close()

	r := httptest.NewRequest(http.MethodPost, "/api/v1/listings/", &buf)
	r.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	handler(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 but got %d", w.Code)
	}
}

func TestMyListingsFilterParsing(t *testing.T) {
	svc := &stubListingService{}
	handler := MyListings(svc, testLogger())

	r := httptest.NewRequest(http.MethodGet, "/api/v1/listings/my?filter=paying", nil)
	w := httptest.NewRecorder()
	handler(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 but got %d", w.Code)
	}
	if svc.myFilter != enums.ViewFilterPaying {
		t.Fatalf("filter not parsed: %q", svc.myFilter)
	}

	r = httptest.NewRequest(http.MethodGet, "/api/v1/listings/my?filter=bogus", nil)
	w = httptest.NewRecorder()
	handler(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown filter should 400, got %d", w.Code)
	}
	if svc.myCalls != 1 {
		t.Fatalf("service called for invalid filter")
	}
}

func TestExtensionQuoteValidatesDays(t *testing.T) {
	svc := &stubListingService{}
	handler := ExtensionQuote(svc, testLogger())

	r := httptest.NewRequest(http.MethodGet, "/api/v1/listings/extension-quote?days=7", nil)
	w := httptest.NewRecorder()
	handler(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 but got %d: %s", w.Code, w.Body.String())
	}

	r = httptest.NewRequest(http.MethodGet, "/api/v1/listings/extension-quote?days=abc", nil)
	w = httptest.NewRecorder()
	handler(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("non-numeric days should 400, got %d", w.Code)
	}
}

func TestListingDetailRejectsBadID(t *testing.T) {
	svc := &stubListingService{}
	handler := ListingDetail(svc, testLogger())

	ctx := chi.NewRouteContext()
	ctx.URLParams.Add("listingID", "not-a-number")

	r := httptest.NewRequest(http.MethodGet, "/api/v1/listings/not-a-number", nil)
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, ctx))
	w := httptest.NewRecorder()
	handler(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 but got %d", w.Code)
	}
}
