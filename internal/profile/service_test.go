package profile

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/evtrading/evmarket-gateway/internal/backend"
	"github.com/evtrading/evmarket-gateway/pkg/auth"
	"github.com/evtrading/evmarket-gateway/pkg/enums"
	pkgerrors "github.com/evtrading/evmarket-gateway/pkg/errors"
	"github.com/evtrading/evmarket-gateway/pkg/logger"
	"github.com/evtrading/evmarket-gateway/pkg/types"
)

type stubBackend struct {
	user       types.User
	userErr    error
	profile    types.User
	profileErr error

	userUpdates    []backend.ProfileUpdate
	profileUpdates []backend.ProfileUpdate
	updateUserErr  error
}

func (s *stubBackend) GetUser(ctx context.Context, userID int64) (types.User, error) {
	return s.user, s.userErr
}

func (s *stubBackend) GetProfile(ctx context.Context, userID int64) (types.User, error) {
	return s.profile, s.profileErr
}

func (s *stubBackend) UpdateUser(ctx context.Context, userID int64, update backend.ProfileUpdate) error {
	s.userUpdates = append(s.userUpdates, update)
	return s.updateUserErr
}

func (s *stubBackend) UpdateProfile(ctx context.Context, userID int64, update backend.ProfileUpdate) error {
	s.profileUpdates = append(s.profileUpdates, update)
	return nil
}

func (s *stubBackend) GetMyListings(ctx context.Context) ([]types.Listing, error) {
	return []types.Listing{{ID: 1, Status: enums.ListingStatusActive}}, nil
}

func (s *stubBackend) GetMyOrders(ctx context.Context) ([]types.Order, error) {
	return nil, errors.New("orders endpoint down")
}

func newTestService(t *testing.T, be *stubBackend) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Backend: be,
		Logger:  logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func userCtx() context.Context {
	return auth.WithSession(context.Background(), auth.Session{
		ID: "s1", UserID: 7, Role: enums.RoleMember, BackendToken: "token",
	})
}

func TestMeMergesSources(t *testing.T) {
	be := &stubBackend{
		user:    types.User{ID: 7, Username: "seller", Email: "seller@example.com"},
		profile: types.User{ID: 7, Username: "seller", Phone: "0901234567", FullName: "Seller Person"},
	}
	svc := newTestService(t, be)

	got, err := svc.Me(userCtx())
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if got.User.Email != "seller@example.com" {
		t.Fatalf("email lost in merge: %+v", got.User)
	}
	if got.User.Phone != "0901234567" || got.User.FullName != "Seller Person" {
		t.Fatalf("profile fields not merged: %+v", got.User)
	}
	if got.User.Role != enums.RoleMember {
		t.Fatalf("session role not applied: %q", got.User.Role)
	}
	// listings present, orders degraded to empty
	if len(got.Listings) != 1 {
		t.Fatalf("listings missing: %+v", got.Listings)
	}
	if got.Orders == nil || len(got.Orders) != 0 {
		t.Fatalf("orders should degrade to empty, got %+v", got.Orders)
	}
}

func TestMeSurvivesOneSourceDown(t *testing.T) {
	be := &stubBackend{
		userErr: pkgerrors.New(pkgerrors.CodeDependency, "down"),
		profile: types.User{ID: 7, Username: "seller", Email: "from-profile@example.com"},
	}
	svc := newTestService(t, be)

	got, err := svc.Me(userCtx())
	if err != nil {
		t.Fatalf("me with users endpoint down: %v", err)
	}
	if got.User.Email != "from-profile@example.com" {
		t.Fatalf("profile source not used: %+v", got.User)
	}
}

func TestMeFailsWhenBothSourcesDown(t *testing.T) {
	be := &stubBackend{
		userErr:    pkgerrors.New(pkgerrors.CodeDependency, "down"),
		profileErr: pkgerrors.New(pkgerrors.CodeDependency, "down"),
	}
	svc := newTestService(t, be)

	if _, err := svc.Me(userCtx()); err == nil {
		t.Fatal("expected error when both sources fail")
	}
}

func TestMeRequiresSession(t *testing.T) {
	svc := newTestService(t, &stubBackend{})

	_, err := svc.Me(context.Background())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for guest, got %v", err)
	}
}

func TestUpdateFansOutToBothSources(t *testing.T) {
	email := "new@example.com"
	be := &stubBackend{user: types.User{ID: 7, Username: "seller", Email: email}}
	svc := newTestService(t, be)

	got, err := svc.Update(userCtx(), backend.ProfileUpdate{Email: &email})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(be.userUpdates) != 1 || len(be.profileUpdates) != 1 {
		t.Fatalf("update not fanned out: users=%d profiles=%d", len(be.userUpdates), len(be.profileUpdates))
	}
	if got.Email != email {
		t.Fatalf("refreshed user = %+v", got)
	}
}

func TestUpdatePartialFailureSurfaces(t *testing.T) {
	email := "new@example.com"
	be := &stubBackend{updateUserErr: errors.New("users endpoint rejected it")}
	svc := newTestService(t, be)

	_, err := svc.Update(userCtx(), backend.ProfileUpdate{Email: &email})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error on partial failure, got %v", err)
	}
	// the second write still happened
	if len(be.profileUpdates) != 1 {
		t.Fatal("profile write skipped on user write failure")
	}
}
