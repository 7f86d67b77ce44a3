package users

import (
	"context"
	"log/slog"

	"github.com/chancery-dms/chancery/internal/authz"
)

// SnapshotInvalidator drops a cached principal snapshot so the next
// resolution recomputes the permission union.
type SnapshotInvalidator interface {
	Invalidate(ctx context.Context, userID int64) error
}

// Enqueuer schedules the asynchronous permission snapshot refresh.
type Enqueuer interface {
	EnqueueAuthzRefresh(ctx context.Context, userID int64) error
}

// Service orchestrates user administration. Every grant mutation invalidates
// the principal snapshot and schedules a refresh, keeping AllPermissions
// equal to the role/direct union at all times.
type Service struct {
	repo      *Repository
	grants    *authz.Service
	snapshots SnapshotInvalidator
	jobs      Enqueuer
	logger    *slog.Logger
}

// NewService constructs a Service. The job enqueuer may be nil.
func NewService(repo *Repository, grants *authz.Service, snapshots SnapshotInvalidator, jobs Enqueuer, logger *slog.Logger) *Service {
	return &Service{repo: repo, grants: grants, snapshots: snapshots, jobs: jobs, logger: logger}
}

// ListUsers returns users, tenant-scoped when companyID is set.
func (s *Service) ListUsers(ctx context.Context, companyID *int64) ([]User, error) {
	return s.repo.ListUsers(ctx, companyID)
}

// GetDetail returns the user with role assignments and the effective
// permission read view.
func (s *Service) GetDetail(ctx context.Context, id int64) (Detail, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	roles, err := s.grants.RolesForUser(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	perms, err := s.grants.PermissionGrants(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	return Detail{User: user, Roles: roles, Permissions: perms}, nil
}

// AssignRole grants a role to the user.
func (s *Service) AssignRole(ctx context.Context, userID, roleID int64) error {
	if err := s.repo.AssignRole(ctx, userID, roleID); err != nil {
		return err
	}
	s.refreshGrants(ctx, userID)
	return nil
}

// RemoveRole revokes a role from the user.
func (s *Service) RemoveRole(ctx context.Context, userID, roleID int64) error {
	if err := s.repo.RemoveRole(ctx, userID, roleID); err != nil {
		return err
	}
	s.refreshGrants(ctx, userID)
	return nil
}

// GrantPermission attaches a direct permission grant.
func (s *Service) GrantPermission(ctx context.Context, userID, permissionID int64) error {
	if err := s.repo.GrantPermission(ctx, userID, permissionID); err != nil {
		return err
	}
	s.refreshGrants(ctx, userID)
	return nil
}

// RevokePermission removes a direct permission grant.
func (s *Service) RevokePermission(ctx context.Context, userID, permissionID int64) error {
	if err := s.repo.RevokePermission(ctx, userID, permissionID); err != nil {
		return err
	}
	s.refreshGrants(ctx, userID)
	return nil
}

func (s *Service) refreshGrants(ctx context.Context, userID int64) {
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
