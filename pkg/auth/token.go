package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiresAt reads the expiry claim out of a backend-issued JWT without
// verifying its signature. The gateway never holds the backend's signing key;
// the claim is used only to expire sessions early instead of replaying a
// token the backend will refuse anyway.
func TokenExpiresAt(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
