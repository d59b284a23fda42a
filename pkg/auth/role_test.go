package auth

import (
	"context"
	"testing"

	"github.com/evtrading/evmarket-gateway/pkg/enums"
)

func TestNormalizeRole(t *testing.T) {
	cases := []struct {
		name string
		raw  any
		want enums.Role
	}{
		{"bare string", "ADMIN", enums.RoleAdmin},
		{"lowercase string", "moderator", enums.RoleModerator},
		{"role object", map[string]any{"roleName": "Moderator"}, enums.RoleModerator},
		{"role object with role field", map[string]any{"role": "ADMIN"}, enums.RoleAdmin},
		{"array of strings", []any{"MEMBER", "ADMIN"}, enums.RoleAdmin},
		{"string slice", []string{"ADMIN"}, enums.RoleAdmin},
		{"nil", nil, enums.RoleMember},
		{"unknown literal", "SUPERUSER", enums.RoleMember},
		{"unknown shape", 42, enums.RoleMember},
		{"empty object", map[string]any{}, enums.RoleMember},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeRole(tc.raw); got != tc.want {
				t.Fatalf("NormalizeRole(%v) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestActorFrom(t *testing.T) {
	ctx := context.Background()

	actor := ActorFrom(ctx)
	if actor.Authenticated() || actor.Role != enums.RoleGuest {
		t.Fatalf("expected guest actor, got %+v", actor)
	}

	ctx = WithSession(ctx, Session{ID: "s1", UserID: 7, Role: enums.RoleModerator})
	actor = ActorFrom(ctx)
	if !actor.Authenticated() || actor.UserID != 7 || actor.Role != enums.RoleModerator {
		t.Fatalf("unexpected actor %+v", actor)
	}
}
