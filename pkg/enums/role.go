package enums

import (
	"fmt"
	"strings"
)

// Role is a platform-level permissions role. The backend reports roles in a
// few shapes and casings; NormalizeRole in pkg/auth folds them all onto these
// values once at the session boundary.
type Role string

const (
	RoleGuest     Role = "GUEST"
	RoleMember    Role = "MEMBER"
	RoleModerator Role = "MODERATOR"
	RoleAdmin     Role = "ADMIN"
)

var validRoles = []Role{
	RoleGuest,
	RoleMember,
	RoleModerator,
	RoleAdmin,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// CanModerate reports whether the role grants access to the moderation queue.
func (r Role) CanModerate() bool {
	return r == RoleModerator || r == RoleAdmin
}

// ParseRole converts raw input into a Role. Matching is case-insensitive, so
// the backend's "Member" and "MEMBER" both parse.
func ParseRole(value string) (Role, error) {
	normalized := Role(strings.ToUpper(strings.TrimSpace(value)))
	for _, candidate := range validRoles {
		if candidate == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
