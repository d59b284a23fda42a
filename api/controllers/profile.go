package controllers

import (
	"net/http"

	"github.com/evtrading/evmarket-gateway/api/responses"
	"github.com/evtrading/evmarket-gateway/api/validators"
	"github.com/evtrading/evmarket-gateway/internal/backend"
	"github.com/evtrading/evmarket-gateway/internal/profile"
	"github.com/evtrading/evmarket-gateway/pkg/logger"
)

// Me serves the merged account view for the signed-in user.
func Me(svc profile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		me, err := svc.Me(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, me)
	}
}

type updateProfileRequest struct {
	Email     *string `json:"email" validate:"omitempty,email"`
	Phone     *string `json:"phone"`
	FullName  *string `json:"fullName"`
	AvatarURL *string `json:"avatarUrl"`
}

// UpdateProfile applies a partial account update.
func UpdateProfile(svc profile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body updateProfileRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		user, err := svc.Update(r.Context(), backend.ProfileUpdate{
			Email:     body.Email,
			Phone:     body.Phone,
			FullName:  body.FullName,
			AvatarURL: body.AvatarURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}
