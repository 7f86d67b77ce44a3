package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	roles     map[int64][]Role
	rolePerms map[int64][]Permission
	direct    map[int64][]Permission
	catalogue []Permission
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		roles:     make(map[int64][]Role),
		rolePerms: make(map[int64][]Permission),
		direct:    make(map[int64][]Permission),
	}
}

func (s *memoryStore) RolesForUser(ctx context.Context, userID int64) ([]Role, error) {
	return s.roles[userID], nil
}

func (s *memoryStore) DirectPermissionsForUser(ctx context.Context, userID int64) ([]Permission, error) {
	return s.direct[userID], nil
}

func (s *memoryStore) PermissionsForRole(ctx context.Context, roleID int64) ([]Permission, error) {
	return s.rolePerms[roleID], nil
}

func (s *memoryStore) ListPermissions(ctx context.Context) ([]Permission, error) {
	return s.catalogue, nil
}

func TestEffectivePermissionsUnion(t *testing.T) {
	store := newMemoryStore()
	store.roles[1] = []Role{{ID: 10, Name: "Clerk", Level: 5}, {ID: 11, Name: "Archivist", Level: 4}}
	store.rolePerms[10] = []Permission{{ID: 1, Name: "company.view"}, {ID: 2, Name: "document.view"}}
	store.rolePerms[11] = []Permission{{ID: 2, Name: "document.view"}, {ID: 3, Name: "document.edit"}}
	store.direct[1] = []Permission{{ID: 4, Name: "proceeding.attach-box"}, {ID: 2, Name: "document.view"}}

	svc := NewService(store)
	perms, err := svc.EffectivePermissions(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, []string{"company.view", "document.edit", "document.view", "proceeding.attach-box"}, perms)
}

func TestPermissionGrantsDirectFlag(t *testing.T) {
	store := newMemoryStore()
	store.roles[1] = []Role{{ID: 10, Name: "Clerk", Level: 5}}
	store.rolePerms[10] = []Permission{{ID: 1, Name: "company.view"}, {ID: 2, Name: "document.view"}}
	store.direct[1] = []Permission{{ID: 2, Name: "document.view"}, {ID: 3, Name: "user.impersonate"}}

	svc := NewService(store)
	grants, err := svc.PermissionGrants(context.Background(), 1)
	require.NoError(t, err)

	byName := make(map[string]bool, len(grants))
	for _, g := range grants {
		byName[g.Permission.Name] = g.IsDirect
	}
	require.False(t, byName["company.view"])
	// Held both ways: the direct grant wins the flag.
	require.True(t, byName["document.view"])
	require.True(t, byName["user.impersonate"])
}

func TestEffectivePermissionsEmpty(t *testing.T) {
	svc := NewService(newMemoryStore())
	perms, err := svc.EffectivePermissions(context.Background(), 99)
	require.NoError(t, err)
	require.Empty(t, perms)
}
