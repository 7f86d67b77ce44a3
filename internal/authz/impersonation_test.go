package authz

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chancery-dms/chancery/internal/shared"
)

func actorWithLevel(id int64, level int, perms ...string) Principal {
	return Principal{
		ID:             id,
		Roles:          []RoleRef{RoleRecord("Role", level)},
		AllPermissions: perms,
	}
}

func TestCanImpersonateSelfDenied(t *testing.T) {
	p := actorWithLevel(1, 1, shared.PermUserImpersonate)
	require.False(t, CanImpersonate(p, p))
}

func TestCanImpersonateNestedDenied(t *testing.T) {
	orig := int64(42)
	actor := actorWithLevel(1, 1, shared.PermUserImpersonate)
	actor.ImpersonatorID = &orig
	target := actorWithLevel(2, 5)

	// An impersonated identity may not impersonate further, even when every
	// other check would pass.
	require.False(t, CanImpersonate(actor, target))
}

func TestCapabilityGateDominatesSeniority(t *testing.T) {
	actor := actorWithLevel(1, 1) // level 1 but no user.impersonate
	target := actorWithLevel(2, 5)
	require.False(t, CanImpersonate(actor, target))
}

func TestCanImpersonateSeniorityRules(t *testing.T) {
	cases := []struct {
		name   string
		actor  Principal
		target Principal
		want   bool
	}{
		{
			name:   "owner level 1 over level 5 non-owner",
			actor:  actorWithLevel(1, 1, shared.PermUserImpersonate),
			target: actorWithLevel(2, 5),
			want:   true,
		},
		{
			name:   "level 2 cannot reach level 1 owner",
			actor:  actorWithLevel(1, 2, shared.PermUserImpersonate),
			target: Principal{ID: 2, Roles: []RoleRef{RoleRecord("Owner", 1)}, LegacyRole: "Owner"},
			want:   false,
		},
		{
			name:   "level 1 tie but target legacy role is Owner",
			actor:  actorWithLevel(1, 1, shared.PermUserImpersonate),
			target: Principal{ID: 2, Roles: []RoleRef{RoleRecord("Owner", 1)}, LegacyRole: "Owner"},
			want:   false,
		},
		{
			name:   "level 1 tie, target level 1 without legacy Owner marker",
			actor:  actorWithLevel(1, 1, shared.PermUserImpersonate),
			target: actorWithLevel(2, 1),
			want:   true,
		},
		{
			name:   "level 3 over level 4",
			actor:  actorWithLevel(1, 3, shared.PermUserImpersonate),
			target: actorWithLevel(2, 4),
			want:   true,
		},
		{
			name:   "equal level 3 denied",
			actor:  actorWithLevel(1, 3, shared.PermUserImpersonate),
			target: actorWithLevel(2, 3),
			want:   false,
		},
		{
			name:   "unknown actor level denied against unknown target",
			actor:  Principal{ID: 1, AllPermissions: []string{shared.PermUserImpersonate}},
			target: Principal{ID: 2},
			want:   false,
		},
		{
			name:   "known level beats unknown target level",
			actor:  actorWithLevel(1, 6, shared.PermUserImpersonate),
			target: Principal{ID: 2},
			want:   true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, CanImpersonate(tc.actor, tc.target))
		})
	}
}

func TestCanImpersonateSuperAdminHasCapability(t *testing.T) {
	// SUPER_ADMIN holds every permission, including user.impersonate, but
	// still needs seniority: without a ranked role the level is the sentinel.
	actor := Principal{ID: 1, LegacyRole: LegacyRoleSuperAdmin}
	target := actorWithLevel(2, 3)
	require.False(t, CanImpersonate(actor, target))

	actor.Roles = []RoleRef{RoleRecord("Owner", 1)}
	require.True(t, CanImpersonate(actor, target))
}

func TestCanImpersonatePrincipalMethod(t *testing.T) {
	actor := actorWithLevel(1, 1, shared.PermUserImpersonate)
	target := actorWithLevel(2, 5)
	require.True(t, actor.CanImpersonate(target))
}
