package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/evtrading/evmarket-gateway/pkg/auth"
	"github.com/evtrading/evmarket-gateway/pkg/auth/session"
	"github.com/evtrading/evmarket-gateway/pkg/enums"
	"github.com/evtrading/evmarket-gateway/pkg/logger"
)

type stubChecker struct {
	sessions map[string]auth.Session
	revoked  []string
}

func (s *stubChecker) Get(ctx context.Context, sessionID string) (auth.Session, error) {
	if sess, ok := s.sessions[sessionID]; ok {
		return sess, nil
	}
	return auth.Session{}, session.ErrNoSession
}

func (s *stubChecker) Revoke(ctx context.Context, sessionID string) error {
	s.revoked = append(s.revoked, sessionID)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func captureSession(t *testing.T) (http.Handler, *auth.Session, *bool) {
	t.Helper()
	var captured auth.Session
	var present bool
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, present = auth.SessionFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	return handler, &captured, &present
}

func TestSessionFromCookie(t *testing.T) {
	checker := &stubChecker{sessions: map[string]auth.Session{
		"sid-1": {ID: "sid-1", UserID: 9, Role: enums.RoleMember, BackendToken: "tok"},
	}}
	next, captured, present := captureSession(t)
	handler := Session(checker, testLogger())(next)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/listings/my", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "sid-1"})
	handler.ServeHTTP(httptest.NewRecorder(), r)

	if !*present {
		t.Fatal("session not attached to context")
	}
	if captured.UserID != 9 {
		t.Fatalf("wrong session attached: %+v", *captured)
	}
}

func TestSessionFromBearerHeader(t *testing.T) {
	checker := &stubChecker{sessions: map[string]auth.Session{
		"sid-2": {ID: "sid-2", UserID: 4, Role: enums.RoleModerator, BackendToken: "tok"},
	}}
	next, captured, present := captureSession(t)
	handler := Session(checker, testLogger())(next)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/moderation/pending", nil)
	r.Header.Set("Authorization", "Bearer sid-2")
	handler.ServeHTTP(httptest.NewRecorder(), r)

	if !*present || captured.UserID != 4 {
		t.Fatalf("bearer session not resolved: present=%v session=%+v", *present, *captured)
	}
}

func TestSessionUnknownIDContinuesAsGuest(t *testing.T) {
	checker := &stubChecker{sessions: map[string]auth.Session{}}
	next, _, present := captureSession(t)
	handler := Session(checker, testLogger())(next)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/listings", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "stale"})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if *present {
		t.Fatal("stale session should not attach an identity")
	}
	if w.Code != http.StatusNoContent {
		t.Fatalf("guest request should still reach the handler, got %d", w.Code)
	}
}

func TestSessionRevokedOnUpstreamRejection(t *testing.T) {
	checker := &stubChecker{sessions: map[string]auth.Session{
		"sid-3": {ID: "sid-3", UserID: 6, Role: enums.RoleMember, BackendToken: "expired"},
	}}
	handler := Session(checker, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	r := httptest.NewRequest(http.MethodGet, "/api/v1/orders/my", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "sid-3"})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if len(checker.revoked) != 1 || checker.revoked[0] != "sid-3" {
		t.Fatalf("session not revoked: %v", checker.revoked)
	}
	var cleared bool
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == SessionCookie && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("session cookie not cleared on 401")
	}
}

func TestRequireAuthRejectsGuests(t *testing.T) {
	handler := RequireAuth(testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run for guests")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/orders/my", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 but got %d", w.Code)
	}
}

func TestRequireModerator(t *testing.T) {
	cases := []struct {
		name   string
		role   enums.Role
		userID int64
		want   int
	}{
		{name: "guest", want: http.StatusUnauthorized},
		{name: "member", role: enums.RoleMember, userID: 3, want: http.StatusForbidden},
		{name: "moderator", role: enums.RoleModerator, userID: 4, want: http.StatusNoContent},
		{name: "admin", role: enums.RoleAdmin, userID: 5, want: http.StatusNoContent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := RequireModerator(testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			}))

			r := httptest.NewRequest(http.MethodGet, "/api/v1/moderation/pending", nil)
			if tc.userID > 0 {
				r = r.WithContext(auth.WithSession(r.Context(), auth.Session{
					ID: "s", UserID: tc.userID, Role: tc.role, BackendToken: "tok",
				}))
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)

			if w.Code != tc.want {
				t.Fatalf("expected %d but got %d", tc.want, w.Code)
			}
		})
	}
}
