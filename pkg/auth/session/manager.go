// Package session stores browser sessions in Redis. A session maps an opaque
// cookie value to the backend token and normalized identity behind it, so the
// token itself never reaches the browser.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/evtrading/evmarket-gateway/pkg/auth"
	"github.com/evtrading/evmarket-gateway/pkg/config"
	redisclient "github.com/evtrading/evmarket-gateway/pkg/redis"
)

var ErrNoSession = errors.New("session not found")

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	SessionKey(sessionID string) string
}

// Manager handles session creation, lookup, and revocation.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
	now   func() time.Time
}

// Checker exposes the read-only surface needed by middleware.
type Checker interface {
	Get(ctx context.Context, sessionID string) (auth.Session, error)
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.SessionConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &Manager{
		store: client,
		keyer: client,
		ttl:   cfg.TTL(),
		now:   time.Now,
	}, nil
}

// Create stores a new session for the given identity and backend token, and
// returns the opaque session ID for the cookie. When the backend token
// carries an earlier expiry than the configured TTL, the session expires with
// the token.
func (m *Manager) Create(ctx context.Context, session auth.Session) (string, error) {
	if session.UserID <= 0 {
		return "", fmt.Errorf("session user id is required")
	}
	if session.BackendToken == "" {
		return "", fmt.Errorf("session backend token is required")
	}

	now := m.now()
	session.ID = uuid.NewString()
	session.CreatedAt = now
	session.ExpiresAt = now.Add(m.ttl)
	if tokenExp, ok := auth.TokenExpiresAt(session.BackendToken); ok && tokenExp.Before(session.ExpiresAt) {
		session.ExpiresAt = tokenExp
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return "", fmt.Errorf("encoding session: %w", err)
	}
	ttl := session.ExpiresAt.Sub(now)
	if ttl <= 0 {
		return "", fmt.Errorf("backend token already expired")
	}
	if err := m.store.Set(ctx, m.keyer.SessionKey(session.ID), payload, ttl); err != nil {
		return "", err
	}
	return session.ID, nil
}

// Get loads a session by ID. Expired or missing sessions return ErrNoSession.
func (m *Manager) Get(ctx context.Context, sessionID string) (auth.Session, error) {
	if sessionID == "" {
		return auth.Session{}, ErrNoSession
	}
	stored, err := m.store.Get(ctx, m.keyer.SessionKey(sessionID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return auth.Session{}, ErrNoSession
		}
		return auth.Session{}, err
	}
	var session auth.Session
	if err := json.Unmarshal([]byte(stored), &session); err != nil {
		return auth.Session{}, fmt.Errorf("decoding session: %w", err)
	}
	if session.Expired(m.now()) {
		_ = m.store.Del(ctx, m.keyer.SessionKey(sessionID))
		return auth.Session{}, ErrNoSession
	}
	return session, nil
}

// Revoke deletes the session. Revoking an absent session is not an error.
func (m *Manager) Revoke(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return m.store.Del(ctx, m.keyer.SessionKey(sessionID))
}
