package authz

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Service computes effective permission sets from the grant tables.
type Service struct {
	store Store
}

// NewService constructs a Service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// EffectivePermissions returns the deduplicated, sorted union of the
// permissions granted through every role the user holds and the permissions
// granted to the user directly.
func (s *Service) EffectivePermissions(ctx context.Context, userID int64) ([]string, error) {
	grants, err := s.PermissionGrants(ctx, userID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(grants))
	for _, g := range grants {
		names = append(names, g.Permission.Name)
	}
	return names, nil
}

// PermissionGrants returns the effective permission set as a read view that
// distinguishes direct grants from role-inherited ones. A permission held
// both ways reports IsDirect=true.
func (s *Service) PermissionGrants(ctx context.Context, userID int64) ([]PermissionGrant, error) {
	var (
		roles  []Role
		direct []Permission
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		roles, err = s.store.RolesForUser(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		direct, err = s.store.DirectPermissionsForUser(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byName := make(map[string]PermissionGrant)
	for _, role := range roles {
		perms, err := s.store.PermissionsForRole(ctx, role.ID)
		if err != nil {
			return nil, err
		}
		for _, perm := range perms {
			if _, ok := byName[perm.Name]; !ok {
				byName[perm.Name] = PermissionGrant{Permission: perm}
			}
		}
	}
	for _, perm := range direct {
		byName[perm.Name] = PermissionGrant{Permission: perm, IsDirect: true}
	}

	grants := make([]PermissionGrant, 0, len(byName))
	for _, grant := range byName {
		grants = append(grants, grant)
	}
	sort.Slice(grants, func(i, j int) bool {
		return grants[i].Permission.Name < grants[j].Permission.Name
	})
	return grants, nil
}

// RolesForUser exposes the role assignments for principal assembly.
func (s *Service) RolesForUser(ctx context.Context, userID int64) ([]Role, error) {
	return s.store.RolesForUser(ctx, userID)
}

// ListPermissions returns the full permission catalogue.
func (s *Service) ListPermissions(ctx context.Context) ([]Permission, error) {
	return s.store.ListPermissions(ctx)
}
