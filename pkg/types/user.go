package types

import (
	"time"

	"github.com/evtrading/evmarket-gateway/pkg/enums"
)

// User is the authenticated account as the backend reports it. Role has
// already been normalized at the session boundary.
type User struct {
	ID        int64      `json:"userId"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone,omitempty"`
	FullName  string     `json:"fullName,omitempty"`
	AvatarURL string     `json:"avatarUrl,omitempty"`
	Role      enums.Role `json:"role"`
	CreatedAt time.Time  `json:"createdAt,omitempty"`
}

// Profile merges the account record with its marketplace activity.
type Profile struct {
	User     User      `json:"user"`
	Listings []Listing `json:"listings"`
	Orders   []Order   `json:"orders"`
}
