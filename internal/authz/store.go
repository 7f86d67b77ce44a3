package authz

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chancery-dms/chancery/internal/shared"
)

// ErrNotFound indicates that the requested record does not exist.
var ErrNotFound = errors.New("authz: not found")

// Store is the read side of the grant tables. Implementations surface only
// missing records or connectivity failures, never business errors.
type Store interface {
	RolesForUser(ctx context.Context, userID int64) ([]Role, error)
	DirectPermissionsForUser(ctx context.Context, userID int64) ([]Permission, error)
	PermissionsForRole(ctx context.Context, roleID int64) ([]Permission, error)
	ListPermissions(ctx context.Context) ([]Permission, error)
}

// PGStore implements Store on PostgreSQL.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore constructs a store backed by the provided pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// RolesForUser returns the roles assigned to a user, most senior first.
func (s *PGStore) RolesForUser(ctx context.Context, userID int64) ([]Role, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT r.id, r.name, r.level, r.company_id
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.level, r.name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var roles []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Level, &role.CompanyID); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// DirectPermissionsForUser returns permissions granted to the user bypassing
// any role.
func (s *PGStore) DirectPermissionsForUser(ctx context.Context, userID int64) ([]Permission, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT p.id, p.name, p.level
		FROM permissions p
		JOIN user_permissions up ON up.permission_id = p.id
		WHERE up.user_id = $1
		ORDER BY p.name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPermissions(rows)
}

// PermissionsForRole returns the permissions attached to a role.
func (s *PGStore) PermissionsForRole(ctx context.Context, roleID int64) ([]Permission, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT p.id, p.name, p.level
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		WHERE rp.role_id = $1
		ORDER BY p.name`, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPermissions(rows)
}

// EnsureCorePermissions inserts any core catalogue permission missing from
// the table. Existing rows keep their tuned levels; seeded rows start at
// level 0 until an administrator groups them.
func (s *PGStore) EnsureCorePermissions(ctx context.Context) error {
	for _, name := range shared.CoreScopes() {
		if _, err := s.pool.Exec(ctx, `
			INSERT INTO permissions (name, level)
			VALUES ($1, 0)
			ON CONFLICT (name) DO NOTHING`, name); err != nil {
			return err
		}
	}
	return nil
}

// ListPermissions returns all permissions ordered by name.
func (s *PGStore) ListPermissions(ctx context.Context) ([]Permission, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, level FROM permissions ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPermissions(rows)
}

func scanPermissions(rows pgx.Rows) ([]Permission, error) {
	var perms []Permission
	for rows.Next() {
		var perm Permission
		if err := rows.Scan(&perm.ID, &perm.Name, &perm.Level); err != nil {
			return nil, err
		}
		perms = append(perms, perm)
	}
	return perms, rows.Err()
}

var _ Store = (*PGStore)(nil)
