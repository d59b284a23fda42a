package auth

import (
	"context"
	"time"

	"github.com/evtrading/evmarket-gateway/pkg/enums"
	"github.com/evtrading/evmarket-gateway/pkg/lifecycle"
)

// Session is the authenticated browser session held by the gateway. The
// backend token it carries is replayed on every upstream call made on the
// user's behalf.
type Session struct {
	ID           string     `json:"sessionId"`
	UserID       int64      `json:"userId"`
	Username     string     `json:"username"`
	Role         enums.Role `json:"role"`
	BackendToken string     `json:"backendToken"`
	CreatedAt    time.Time  `json:"createdAt"`
	ExpiresAt    time.Time  `json:"expiresAt"`
}

// Expired reports whether the backend token behind the session has lapsed.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Actor converts the session into a lifecycle actor.
func (s Session) Actor() lifecycle.Actor {
	return lifecycle.Actor{UserID: s.UserID, Role: s.Role}
}

type contextKey struct{}

// WithSession attaches the session to the request context.
func WithSession(ctx context.Context, session Session) context.Context {
	return context.WithValue(ctx, contextKey{}, session)
}

// SessionFrom extracts the session from the context, if one was attached.
func SessionFrom(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(contextKey{}).(Session)
	return session, ok
}

// ActorFrom returns the lifecycle actor for the request, a guest when no
// session is attached.
func ActorFrom(ctx context.Context) lifecycle.Actor {
	if session, ok := SessionFrom(ctx); ok {
		return session.Actor()
	}
	return lifecycle.Actor{Role: enums.RoleGuest}
}
