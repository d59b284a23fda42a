package backend

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/evtrading/evmarket-gateway/pkg/auth"
	"github.com/evtrading/evmarket-gateway/pkg/config"
	"github.com/evtrading/evmarket-gateway/pkg/enums"
	pkgerrors "github.com/evtrading/evmarket-gateway/pkg/errors"
	"github.com/evtrading/evmarket-gateway/pkg/logger"
	"github.com/evtrading/evmarket-gateway/pkg/pagination"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(config.BackendConfig{
		BaseURL:        server.URL,
		RequestTimeout: 5 * time.Second,
		UploadTimeout:  5 * time.Second,
	}, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}), nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func authedCtx() context.Context {
	return auth.WithSession(context.Background(), auth.Session{
		ID:           "s1",
		UserID:       7,
		Role:         enums.RoleMember,
		BackendToken: "backend-token",
	})
}

func TestGetListingsEnvelopeAndBareArray(t *testing.T) {
	payloads := []string{
		`{"content":[{"listingId":1,"title":"VF8","status":"active"}]}`,
		`[{"id":2,"title":"Leaf battery","listingStatus":"PENDING"}]`,
	}
	for _, payload := range payloads {
		body := payload
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/listings" {
				t.Fatalf("unexpected path %s", r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, body)
		}))

		listings, err := client.GetListings(context.Background(), pagination.Params{})
		if err != nil {
			t.Fatalf("GetListings: %v", err)
		}
		if len(listings) != 1 {
			t.Fatalf("got %d listings, want 1", len(listings))
		}
		if listings[0].ID == 0 {
			t.Fatal("listing id not decoded")
		}
		if !listings[0].Status.IsValid() {
			t.Fatalf("status %q not normalized", listings[0].Status)
		}
	}
}

func TestBearerTokenReplayed(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		io.WriteString(w, `[]`)
	}))

	if _, err := client.GetMyListings(authedCtx()); err != nil {
		t.Fatalf("GetMyListings: %v", err)
	}
	if gotAuth != "Bearer backend-token" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		status int
		want   pkgerrors.Code
	}{
		{http.StatusUnauthorized, pkgerrors.CodeUnauthorized},
		{http.StatusForbidden, pkgerrors.CodeForbidden},
		{http.StatusNotFound, pkgerrors.CodeNotFound},
		{http.StatusConflict, pkgerrors.CodeStateConflict},
		{http.StatusUnprocessableEntity, pkgerrors.CodeStateConflict},
		{http.StatusBadRequest, pkgerrors.CodeValidation},
		{http.StatusInternalServerError, pkgerrors.CodeDependency},
	}
	for _, tc := range cases {
		status := tc.status
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			io.WriteString(w, `{"message":"upstream says no"}`)
		}))

		_, err := client.GetListing(authedCtx(), 42)
		appErr := pkgerrors.As(err)
		if appErr == nil {
			t.Fatalf("status %d: expected coded error, got %v", status, err)
		}
		if appErr.Code() != tc.want {
			t.Fatalf("status %d: code = %s, want %s", status, appErr.Code(), tc.want)
		}
	}
}

func TestErrorCarriesUpstreamDetail(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		io.WriteString(w, `{"message":"listing already approved"}`)
	}))

	err := client.ApproveListing(authedCtx(), 42)
	appErr := pkgerrors.As(err)
	if appErr == nil {
		t.Fatalf("expected coded error, got %v", err)
	}
	if appErr.Message() != "listing already approved" {
		t.Fatalf("message = %q", appErr.Message())
	}
	dump := pkgerrors.Dump(err)
	if dump.UpstreamStatus != http.StatusConflict || dump.UpstreamPath == "" {
		t.Fatalf("dump missing upstream detail: %+v", dump)
	}
}

func TestRejectListingSendsReason(t *testing.T) {
	var gotReason string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReason = r.URL.Query().Get("reason")
		w.WriteHeader(http.StatusOK)
	}))

	if err := client.RejectListing(authedCtx(), 42, "stolen photos"); err != nil {
		t.Fatalf("RejectListing: %v", err)
	}
	if gotReason != "stolen photos" {
		t.Fatalf("reason = %q", gotReason)
	}
}

func TestCreateListingMultipart(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if r.FormValue("listing") == "" {
			t.Fatal("listing document missing")
		}
		files := r.MultipartForm.File["images"]
		if len(files) != 1 || files[0].Filename != "front.jpg" {
			t.Fatalf("unexpected files %+v", files)
		}
		io.WriteString(w, `{"listingId":99,"title":"VF8","status":"PENDING"}`)
	}))

	created, err := client.CreateListing(authedCtx(), ListingDocument{
		Title:       "VF8",
		ProductType: "VEHICLE",
	}, []ImageUpload{{Filename: "front.jpg", Data: []byte("jpegbytes")}})
	if err != nil {
		t.Fatalf("CreateListing: %v", err)
	}
	if created.ID != 99 || created.Status != enums.ListingStatusPending {
		t.Fatalf("unexpected listing %+v", created)
	}
}

func TestDependencyErrorOnConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client, err := NewClient(config.BackendConfig{
		BaseURL:        server.URL,
		RequestTimeout: time.Second,
		UploadTimeout:  time.Second,
	}, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}), nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.GetMyListings(authedCtx())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if !pkgerrors.MetadataFor(appErr.Code()).Retryable {
		t.Fatal("dependency errors should be retryable")
	}
}
