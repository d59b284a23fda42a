package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/evtrading/evmarket-gateway/pkg/types"
)

// ProfileUpdate carries the editable fields of an account. Nil fields are
// left untouched.
type ProfileUpdate struct {
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	FullName  *string `json:"fullName,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

// GetUser fetches the account record from the users endpoint.
func (c *Client) GetUser(ctx context.Context, userID int64) (types.User, error) {
	var wire wireUser
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   fmt.Sprintf("/api/users/%d", userID),
	}, &wire)
	if err != nil {
		return types.User{}, err
	}
	return wire.toDomain(), nil
}

// GetProfile fetches the account record from the profiles endpoint. The two
// endpoints overlap; internal/profile reconciles them.
func (c *Client) GetProfile(ctx context.Context, userID int64) (types.User, error) {
	var wire wireUser
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   fmt.Sprintf("/api/profiles/%d", userID),
	}, &wire)
	if err != nil {
		return types.User{}, err
	}
	return wire.toDomain(), nil
}

// UpdateUser writes profile changes to the users endpoint.
func (c *Client) UpdateUser(ctx context.Context, userID int64, update ProfileUpdate) error {
	return c.do(ctx, request{
		method: http.MethodPut,
		path:   fmt.Sprintf("/api/users/%d", userID),
		body:   update,
	}, nil)
}

// UpdateProfile writes profile changes to the profiles endpoint.
func (c *Client) UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) error {
	return c.do(ctx, request{
		method: http.MethodPut,
		path:   fmt.Sprintf("/api/profiles/%d", userID),
		body:   update,
	}, nil)
}
