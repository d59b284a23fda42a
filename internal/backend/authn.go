package backend

import (
	"context"
	"net/http"

	"github.com/evtrading/evmarket-gateway/pkg/types"
)

// LoginInput is the credential pair forwarded to the backend.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterInput creates a new marketplace account.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
	FullName string `json:"fullName,omitempty"`
}

// LoginResult is the backend's login response with the role still in its raw
// duck-typed shape; callers normalize it exactly once.
type LoginResult struct {
	Token string
	User  types.User
}

type wireLogin struct {
	Token       string    `json:"token"`
	AccessToken string    `json:"accessToken"`
	RoleName    string    `json:"roleName"`
	Role        any       `json:"role"`
	User        *wireUser `json:"user"`
	UserID      int64     `json:"userId"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
}

func (w wireLogin) toDomain() LoginResult {
	token := w.Token
	if token == "" {
		token = w.AccessToken
	}

	var user types.User
	if w.User != nil {
		user = w.User.toDomain()
	} else {
		flat := wireUser{
			UserID:   w.UserID,
			Username: w.Username,
			Email:    w.Email,
			Role:     w.Role,
		}
		if flat.Role == nil && w.RoleName != "" {
			flat.Role = w.RoleName
		}
		user = flat.toDomain()
	}
	return LoginResult{Token: token, User: user}
}

// Login authenticates against the backend and returns the issued token plus
// the user snapshot.
func (c *Client) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	var wire wireLogin
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/auth/login",
		body:   input,
	}, &wire)
	if err != nil {
		return LoginResult{}, err
	}
	return wire.toDomain(), nil
}

// Register creates a backend account. The backend assigns the member role.
func (c *Client) Register(ctx context.Context, input RegisterInput) (types.User, error) {
	var wire wireUser
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/auth/register",
		body:   input,
	}, &wire)
	if err != nil {
		return types.User{}, err
	}
	return wire.toDomain(), nil
}

// Logout tells the backend to drop the token. A failure here is not fatal;
// the gateway revokes its own session regardless.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/api/auth/logout"}, nil)
}
