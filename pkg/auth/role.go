package auth

import (
	"github.com/evtrading/evmarket-gateway/pkg/enums"
)

// NormalizeRole folds the role shapes the backend is known to emit onto one
// canonical Role. Login responses variously carry a bare string, an object
// with a roleName field, or an array of role strings; whatever arrives is
// normalized here once, and the rest of the gateway only ever sees
// enums.Role. Unrecognized shapes degrade to MEMBER rather than failing the
// login.
func NormalizeRole(raw any) enums.Role {
	switch v := raw.(type) {
	case nil:
		return enums.RoleMember
	case string:
		return parseOrMember(v)
	case map[string]any:
		for _, field := range []string{"roleName", "role", "name"} {
			if s, ok := v[field].(string); ok {
				return parseOrMember(s)
			}
		}
		return enums.RoleMember
	case []any:
		for _, item := range v {
			if role := NormalizeRole(item); role != enums.RoleMember {
				return role
			}
		}
		return enums.RoleMember
	case []string:
		for _, item := range v {
			if role := parseOrMember(item); role != enums.RoleMember {
				return role
			}
		}
		return enums.RoleMember
	default:
		return enums.RoleMember
	}
}

func parseOrMember(value string) enums.Role {
	role, err := enums.ParseRole(value)
	if err != nil {
		return enums.RoleMember
	}
	return role
}
