package roles

import (
	"context"
	"errors"
	"log/slog"

	"github.com/chancery-dms/chancery/internal/authz"
)

// ErrSystemRole marks mutations rejected because they target a system role
// or the reserved owner tier.
var ErrSystemRole = errors.New("roles: system role is immutable")

// RepositoryPort defines data access methods for roles.
type RepositoryPort interface {
	ListRoles(ctx context.Context, companyID *int64) ([]Role, error)
	GetRole(ctx context.Context, id int64) (Role, error)
	CreateRole(ctx context.Context, name string, level int, companyID *int64) (Role, error)
	UpdateRole(ctx context.Context, id int64, name string, level int) (Role, error)
	DeleteRole(ctx context.Context, id int64) error
	SetPermissions(ctx context.Context, roleID int64, permissionIDs []int64) error
	PermissionsForRole(ctx context.Context, roleID int64) ([]authz.Permission, error)
	UserIDsWithRole(ctx context.Context, roleID int64) ([]int64, error)
}

// SnapshotInvalidator drops a cached principal snapshot so the next
// resolution recomputes the permission union.
type SnapshotInvalidator interface {
	Invalidate(ctx context.Context, userID int64) error
}

// Enqueuer schedules the asynchronous permission snapshot refresh.
type Enqueuer interface {
	EnqueueAuthzRefresh(ctx context.Context, userID int64) error
}

// Service handles role business logic. Mutations through tenant-admin flows
// are rejected for system roles (company_id NULL). A mutation that changes
// what a role grants refreshes the principal snapshot of every holder, the
// same way direct user-level grant changes do.
type Service struct {
	repo      RepositoryPort
	snapshots SnapshotInvalidator
	jobs      Enqueuer
	logger    *slog.Logger
}

// NewService builds Service instance. The invalidator and enqueuer may be
// nil.
func NewService(repo RepositoryPort, snapshots SnapshotInvalidator, jobs Enqueuer, logger *slog.Logger) *Service {
	return &Service{repo: repo, snapshots: snapshots, jobs: jobs, logger: logger}
}

// ListRoles returns the roles visible to a tenant.
func (s *Service) ListRoles(ctx context.Context, companyID *int64) ([]Role, error) {
	return s.repo.ListRoles(ctx, companyID)
}

// GetDetail returns the role with its attached permissions.
func (s *Service) GetDetail(ctx context.Context, id int64) (Detail, error) {
	role, err := s.repo.GetRole(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	perms, err := s.repo.PermissionsForRole(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	return Detail{Role: role, Permissions: perms}, nil
}

// CreateRole inserts a new tenant role. Level 1 is reserved for the owner
// tier and cannot be minted through this flow.
func (s *Service) CreateRole(ctx context.Context, name string, level int, companyID *int64) (Role, error) {
	if level <= authz.LevelOwner {
		return Role{}, ErrSystemRole
	}
	return s.repo.CreateRole(ctx, name, level, companyID)
}

// UpdateRole changes a tenant role's name and level. The level feeds the
// seniority comparison, so holders' snapshots are refreshed.
func (s *Service) UpdateRole(ctx context.Context, id int64, name string, level int) (Role, error) {
	if err := s.guardMutable(ctx, id); err != nil {
		return Role{}, err
	}
	if level <= authz.LevelOwner {
		return Role{}, ErrSystemRole
	}
	role, err := s.repo.UpdateRole(ctx, id, name, level)
	if err != nil {
		return Role{}, err
	}
	s.refreshHolders(ctx, id)
	return role, nil
}

// DeleteRole removes a tenant role and refreshes the snapshots of everyone
// who held it. Holders are captured before the delete cascades through the
// assignment rows.
func (s *Service) DeleteRole(ctx context.Context, id int64) error {
	if err := s.guardMutable(ctx, id); err != nil {
		return err
	}
	holders, err := s.repo.UserIDsWithRole(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteRole(ctx, id); err != nil {
		return err
	}
	s.refreshUsers(ctx, holders)
	return nil
}

// SetPermissions replaces the permission set of a tenant role and refreshes
// the principal snapshot of every holder.
func (s *Service) SetPermissions(ctx context.Context, roleID int64, permissionIDs []int64) error {
	if err := s.guardMutable(ctx, roleID); err != nil {
		return err
	}
	if err := s.repo.SetPermissions(ctx, roleID, permissionIDs); err != nil {
		return err
	}
	s.logger.Info("role permissions replaced", slog.Int64("role_id", roleID), slog.Int("count", len(permissionIDs)))
	s.refreshHolders(ctx, roleID)
	return nil
}

func (s *Service) refreshHolders(ctx context.Context, roleID int64) {
	holders, err := s.repo.UserIDsWithRole(ctx, roleID)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("list role holders", slog.Int64("role_id", roleID), slog.Any("error", err))
		}
		return
	}
	s.refreshUsers(ctx, holders)
}

func (s *Service) refreshUsers(ctx context.Context, userIDs []int64) {
	for _, userID := range userIDs {
		if s.snapshots != nil {
			if err := s.snapshots.Invalidate(ctx, userID); err != nil && s.logger != nil {
				s.logger.Warn("invalidate principal snapshot", slog.Int64("user_id", userID), slog.Any("error", err))
			}
		}
		if s.jobs != nil {
			if err := s.jobs.EnqueueAuthzRefresh(ctx, userID); err != nil && s.logger != nil {
				s.logger.Warn("enqueue authz refresh", slog.Int64("user_id", userID), slog.Any("error", err))
			}
		}
	}
}

func (s *Service) guardMutable(ctx context.Context, id int64) error {
	role, err := s.repo.GetRole(ctx, id)
	if err != nil {
		return err
	}
	if role.CompanyID == nil {
		return ErrSystemRole
	}
	return nil
}
