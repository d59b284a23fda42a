package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/evtrading/evmarket-gateway/api/responses"
	"github.com/evtrading/evmarket-gateway/pkg/auth"
	"github.com/evtrading/evmarket-gateway/pkg/auth/session"
	pkgerrors "github.com/evtrading/evmarket-gateway/pkg/errors"
	"github.com/evtrading/evmarket-gateway/pkg/logger"
)

// SessionCookie names the cookie carrying the opaque session ID.
const SessionCookie = "evm_session"

type sessionResolver interface {
	session.Checker
	Revoke(ctx context.Context, sessionID string) error
}

// Session resolves the caller's session and seeds the request context with it.
// Requests without a valid session continue as guests, so browse endpoints
// stay public; handlers that need an identity enforce it downstream. A 401
// that escapes a handler means the backend no longer honors the stored token,
// so the session is revoked and the cookie cleared on the way out.
func Session(manager sessionResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := sessionIDFromRequest(r)
			if sessionID == "" {
				next.ServeHTTP(w, r)
				return
			}

			sess, err := manager.Get(r.Context(), sessionID)
			if err != nil {
				if !errors.Is(err, session.ErrNoSession) && logg != nil {
					logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "session lookup failed")
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := auth.WithSession(r.Context(), sess)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    sess.UserID,
					"actor_role": string(sess.Role),
				})
			}

			watcher := &unauthorizedWatcher{
				ResponseWriter: w,
				onUnauthorized: func() {
					clearSessionCookie(w)
					if err := manager.Revoke(context.WithoutCancel(ctx), sess.ID); err != nil && logg != nil {
						logg.Warn(ctx, "failed to revoke rejected session")
					}
					if logg != nil {
						logg.Info(ctx, "session revoked after upstream rejection")
					}
				},
			}

			next.ServeHTTP(watcher, r.WithContext(ctx))
		})
	}
}

// unauthorizedWatcher fires once when a handler writes a 401, before the
// status line goes out so the cookie header still lands.
type unauthorizedWatcher struct {
	http.ResponseWriter
	onUnauthorized func()
	fired          bool
}

func (w *unauthorizedWatcher) WriteHeader(status int) {
	if status == http.StatusUnauthorized && !w.fired {
		w.fired = true
		w.onUnauthorized()
	}
	w.ResponseWriter.WriteHeader(status)
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// RequireAuth rejects requests that reached the handler without a session.
func RequireAuth(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := auth.SessionFrom(r.Context()); !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to continue"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireModerator gates the moderation surface. Guests get a 401 so the
// client can redirect to login; signed-in members get a 403.
func RequireModerator(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := auth.ActorFrom(r.Context())
			if !actor.Authenticated() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to continue"))
				return
			}
			if !actor.Role.CanModerate() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "moderator access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func sessionIDFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return ""
}
