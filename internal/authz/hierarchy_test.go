package authz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEffectiveLevel(t *testing.T) {
	cases := []struct {
		name      string
		principal Principal
		want      int
	}{
		{
			name:      "no roles at all",
			principal: Principal{ID: 1},
			want:      LevelUnknown,
		},
		{
			name: "explicit levels, minimum wins",
			principal: Principal{ID: 1, Roles: []RoleRef{
				RoleRecord("Archivist", 4),
				RoleRecord("Manager", 2),
				RoleRecord("Clerk", 6),
			}},
			want: 2,
		},
		{
			name: "name-only legacy Owner maps to 1",
			principal: Principal{ID: 1, Roles: []RoleRef{
				RoleName("Owner"),
			}},
			want: 1,
		},
		{
			name: "name-only legacy ADMIN maps to 2",
			principal: Principal{ID: 1, Roles: []RoleRef{
				RoleName("ADMIN"),
			}},
			want: 2,
		},
		{
			name: "name-only unknown role contributes nothing",
			principal: Principal{ID: 1, Roles: []RoleRef{
				RoleName("Clerk"),
			}},
			want: LevelUnknown,
		},
		{
			name:      "legacy role field alone is consulted",
			principal: Principal{ID: 1, LegacyRole: "Owner"},
			want:      1,
		},
		{
			name:      "legacy ADMIN field alone",
			principal: Principal{ID: 1, LegacyRole: "ADMIN"},
			want:      2,
		},
		{
			name: "explicit level beats legacy name on the same ref",
			principal: Principal{ID: 1, Roles: []RoleRef{
				RoleRecord("Owner", 3),
			}},
			want: 3,
		},
		{
			name: "mixed shapes, most privileged dominates",
			principal: Principal{ID: 1, Roles: []RoleRef{
				RoleName("Owner"),
				RoleRecord("Clerk", 6),
			}},
			want: 1,
		},
		{
			name:      "legacy SUPER_ADMIN grants no level",
			principal: Principal{ID: 1, LegacyRole: LegacyRoleSuperAdmin},
			want:      LevelUnknown,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, EffectiveLevel(tc.principal))
		})
	}
}

func TestMoreSenior(t *testing.T) {
	owner := Principal{ID: 1, Roles: []RoleRef{RoleRecord("Owner", 1)}}
	clerk := Principal{ID: 2, Roles: []RoleRef{RoleRecord("Clerk", 5)}}
	unknown := Principal{ID: 3}

	require.True(t, MoreSenior(owner, clerk))
	require.False(t, MoreSenior(clerk, owner))
	require.True(t, MoreSenior(clerk, unknown))
	require.False(t, MoreSenior(unknown, unknown))
}
