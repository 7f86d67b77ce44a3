package roles

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chancery-dms/chancery/internal/authz"
	"github.com/chancery-dms/chancery/internal/shared"
)

type memoryRepo struct {
	roles   map[int64]Role
	perms   map[int64][]int64
	holders map[int64][]int64
	next    int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{roles: map[int64]Role{}, perms: map[int64][]int64{}, holders: map[int64][]int64{}, next: 1}
}

func (m *memoryRepo) seed(role Role) Role {
	role.ID = m.next
	m.next++
	m.roles[role.ID] = role
	return role
}

func (m *memoryRepo) ListRoles(_ context.Context, companyID *int64) ([]Role, error) {
	var out []Role
	for _, role := range m.roles {
		if companyID == nil || role.CompanyID == nil || *role.CompanyID == *companyID {
			out = append(out, role)
		}
	}
	return out, nil
}

func (m *memoryRepo) GetRole(_ context.Context, id int64) (Role, error) {
	role, ok := m.roles[id]
	if !ok {
		return Role{}, shared.ErrNotFound
	}
	return role, nil
}

func (m *memoryRepo) CreateRole(_ context.Context, name string, level int, companyID *int64) (Role, error) {
	return m.seed(Role{Name: name, Level: level, CompanyID: companyID}), nil
}

func (m *memoryRepo) UpdateRole(_ context.Context, id int64, name string, level int) (Role, error) {
	role, ok := m.roles[id]
	if !ok {
		return Role{}, shared.ErrNotFound
	}
	role.Name, role.Level = name, level
	m.roles[id] = role
	return role, nil
}

func (m *memoryRepo) DeleteRole(_ context.Context, id int64) error {
	if _, ok := m.roles[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.roles, id)
	return nil
}

func (m *memoryRepo) SetPermissions(_ context.Context, roleID int64, permissionIDs []int64) error {
	m.perms[roleID] = permissionIDs
	return nil
}

func (m *memoryRepo) PermissionsForRole(_ context.Context, roleID int64) ([]authz.Permission, error) {
	var out []authz.Permission
	for _, id := range m.perms[roleID] {
		out = append(out, authz.Permission{ID: id})
	}
	return out, nil
}

func (m *memoryRepo) UserIDsWithRole(_ context.Context, roleID int64) ([]int64, error) {
	return m.holders[roleID], nil
}

// recordingRefresh captures both halves of the snapshot refresh protocol.
type recordingRefresh struct {
	invalidated []int64
	enqueued    []int64
}

func (r *recordingRefresh) Invalidate(_ context.Context, userID int64) error {
	r.invalidated = append(r.invalidated, userID)
	return nil
}

func (r *recordingRefresh) EnqueueAuthzRefresh(_ context.Context, userID int64) error {
	r.enqueued = append(r.enqueued, userID)
	return nil
}

func newTestService(repo *memoryRepo) *Service {
	return NewService(repo, nil, nil, slog.Default())
}

func TestSystemRoleIsImmutable(t *testing.T) {
	repo := newMemoryRepo()
	system := repo.seed(Role{Name: "Platform Admin", Level: 1, CompanyID: nil})
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.UpdateRole(ctx, system.ID, "Renamed", 5)
	require.ErrorIs(t, err, ErrSystemRole)

	require.ErrorIs(t, svc.DeleteRole(ctx, system.ID), ErrSystemRole)
	require.ErrorIs(t, svc.SetPermissions(ctx, system.ID, []int64{1, 2}), ErrSystemRole)

	got, err := repo.GetRole(ctx, system.ID)
	require.NoError(t, err)
	require.Equal(t, system, got)
}

func TestTenantRoleLifecycle(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()
	companyID := int64(7)

	role, err := svc.CreateRole(ctx, "Clerk", 10, &companyID)
	require.NoError(t, err)
	require.Equal(t, "Clerk", role.Name)

	require.NoError(t, svc.SetPermissions(ctx, role.ID, []int64{3, 4}))
	detail, err := svc.GetDetail(ctx, role.ID)
	require.NoError(t, err)
	require.Len(t, detail.Permissions, 2)

	updated, err := svc.UpdateRole(ctx, role.ID, "Senior Clerk", 8)
	require.NoError(t, err)
	require.Equal(t, 8, updated.Level)

	require.NoError(t, svc.DeleteRole(ctx, role.ID))
	_, err = svc.GetDetail(ctx, role.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRoleMutationsRefreshHolderSnapshots(t *testing.T) {
	repo := newMemoryRepo()
	refresh := &recordingRefresh{}
	svc := NewService(repo, refresh, refresh, slog.Default())
	ctx := context.Background()
	companyID := int64(7)

	role := repo.seed(Role{Name: "Clerk", Level: 10, CompanyID: &companyID})
	repo.holders[role.ID] = []int64{42, 7}

	// Changing what the role grants must invalidate and re-enqueue every
	// holder, exactly like a direct user-level grant change.
	require.NoError(t, svc.SetPermissions(ctx, role.ID, []int64{3, 4}))
	require.Equal(t, []int64{42, 7}, refresh.invalidated)
	require.Equal(t, []int64{42, 7}, refresh.enqueued)

	_, err := svc.UpdateRole(ctx, role.ID, "Senior Clerk", 8)
	require.NoError(t, err)
	require.Equal(t, []int64{42, 7, 42, 7}, refresh.invalidated)

	// Holders are captured before the delete removes the assignments.
	require.NoError(t, svc.DeleteRole(ctx, role.ID))
	require.Equal(t, []int64{42, 7, 42, 7, 42, 7}, refresh.invalidated)
	require.Equal(t, []int64{42, 7, 42, 7, 42, 7}, refresh.enqueued)
}

func TestOwnerTierCannotBeMinted(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	companyID := int64(7)

	_, err := svc.CreateRole(context.Background(), "Shadow Owner", 1, &companyID)
	require.ErrorIs(t, err, ErrSystemRole)

	tenant := repo.seed(Role{Name: "Clerk", Level: 10, CompanyID: &companyID})
	_, err = svc.UpdateRole(context.Background(), tenant.ID, "Clerk", 1)
	require.ErrorIs(t, err, ErrSystemRole)
}
