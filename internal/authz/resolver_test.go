package authz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHasExactMatchOnly(t *testing.T) {
	p := Principal{
		ID:             1,
		AllPermissions: []string{"company.view", "proceeding.attach-box"},
	}

	require.True(t, Has(p, "company.view"))
	require.True(t, Has(p, "proceeding.attach-box"))

	// Dots are display grouping, never a wildcard hierarchy.
	require.False(t, Has(p, "company"))
	require.False(t, Has(p, "company.*"))
	require.False(t, Has(p, "company.view.all"))
	require.False(t, Has(p, "proceeding"))
}

func TestHasIsIdempotent(t *testing.T) {
	p := Principal{ID: 1, AllPermissions: []string{"document.view"}}
	first := Has(p, "document.view")
	second := Has(p, "document.view")
	require.Equal(t, first, second)
	require.True(t, first)
}

func TestHasWithoutPermissionList(t *testing.T) {
	p := Principal{ID: 7}
	require.False(t, Has(p, "company.view"))
	require.False(t, HasAny(p, "company.view", "company.edit"))
	require.False(t, HasAll(p, "company.view"))
}

func TestSuperAdminBypass(t *testing.T) {
	p := Principal{ID: 9, LegacyRole: LegacyRoleSuperAdmin}

	// No grants at all, still everything.
	require.True(t, Has(p, "anything.at.all"))
	require.True(t, HasAny(p, "nope.here"))
	require.True(t, HasAll(p, "one.thing", "another.thing"))
}

func TestHasAny(t *testing.T) {
	p := Principal{ID: 2, AllPermissions: []string{"user.view"}}
	require.True(t, HasAny(p, "user.edit", "user.view"))
	require.False(t, HasAny(p, "user.edit", "user.impersonate"))
	require.False(t, HasAny(p))
}

func TestHasAll(t *testing.T) {
	p := Principal{ID: 2, AllPermissions: []string{"user.view", "user.edit"}}
	require.True(t, HasAll(p, "user.view", "user.edit"))
	require.False(t, HasAll(p, "user.view", "user.impersonate"))
	require.True(t, HasAll(p))
}

func TestHasRoleAcceptsBothShapes(t *testing.T) {
	p := Principal{
		ID: 3,
		Roles: []RoleRef{
			RoleName("Clerk"),
			RoleRecord("Archivist", 4),
		},
	}
	require.True(t, HasRole(p, "Clerk"))
	require.True(t, HasRole(p, "Archivist"))
	require.False(t, HasRole(p, "Owner"))
}
