package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/evtrading/evmarket-gateway/api/middleware"
	"github.com/evtrading/evmarket-gateway/api/responses"
	"github.com/evtrading/evmarket-gateway/api/validators"
	"github.com/evtrading/evmarket-gateway/internal/backend"
	pkgAuth "github.com/evtrading/evmarket-gateway/pkg/auth"
	"github.com/evtrading/evmarket-gateway/pkg/config"
	pkgerrors "github.com/evtrading/evmarket-gateway/pkg/errors"
	"github.com/evtrading/evmarket-gateway/pkg/logger"
	"github.com/evtrading/evmarket-gateway/pkg/types"
)

type authBackend interface {
	Login(ctx context.Context, input backend.LoginInput) (backend.LoginResult, error)
	Register(ctx context.Context, input backend.RegisterInput) (types.User, error)
	Logout(ctx context.Context) error
}

type sessionManager interface {
	Create(ctx context.Context, session pkgAuth.Session) (string, error)
	Revoke(ctx context.Context, sessionID string) error
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone"`
	FullName string `json:"fullName"`
}

type sessionResponse struct {
	User types.User `json:"user"`
}

// Login authenticates against the backend, stashes the issued token behind a
// gateway session, and hands the browser an opaque cookie.
func Login(be authBackend, sessions sessionManager, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body loginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := be.Login(r.Context(), backend.LoginInput{
			Username: body.Username,
			Password: body.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID, err := sessions.Create(r.Context(), pkgAuth.Session{
			UserID:       result.User.ID,
			Username:     result.User.Username,
			Role:         result.User.Role,
			BackendToken: result.Token,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create session"))
			return
		}

		setSessionCookie(w, cfg, sessionID, int(cfg.Session.TTL().Seconds()))

		ctx := logg.WithUserID(r.Context(), strconv.FormatInt(result.User.ID, 10))
		logg.Info(ctx, "session.created")
		responses.WriteSuccess(w, sessionResponse{User: result.User})
	}
}

// Register creates a backend account. The client signs in afterwards.
func Register(be authBackend, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body registerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := be.Register(r.Context(), backend.RegisterInput{
			Username: body.Username,
			Email:    body.Email,
			Password: body.Password,
			Phone:    body.Phone,
			FullName: body.FullName,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, sessionResponse{User: user})
	}
}

// Logout revokes the gateway session and tells the backend to drop the token.
// The backend call is best effort; the cookie is cleared regardless.
func Logout(be authBackend, sessions sessionManager, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if session, ok := pkgAuth.SessionFrom(r.Context()); ok {
			if err := be.Logout(r.Context()); err != nil {
				logg.Warn(r.Context(), "backend logout failed")
			}
			if err := sessions.Revoke(r.Context(), session.ID); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke session"))
				return
			}
		}

		setSessionCookie(w, cfg, "", -1)
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

func setSessionCookie(w http.ResponseWriter, cfg *config.Config, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   cfg.App.IsProd(),
		SameSite: http.SameSiteLaxMode,
	})
}
