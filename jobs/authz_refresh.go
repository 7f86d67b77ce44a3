package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/chancery-dms/chancery/internal/authz"
)

// SnapshotSource rebuilds a user's cached principal snapshot.
type SnapshotSource interface {
	Invalidate(ctx context.Context, userID int64) error
	Principal(ctx context.Context, userID int64) (authz.Principal, error)
}

// NewAuthzRefreshHandler processes TaskAuthzRefresh tasks: drop the cached
// snapshot and recompute the role/direct permission union.
func NewAuthzRefreshHandler(snapshots SnapshotSource, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload AuthzRefreshPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		if err := snapshots.Invalidate(ctx, payload.UserID); err != nil {
			return err
		}
		principal, err := snapshots.Principal(ctx, payload.UserID)
		if err != nil {
			if errors.Is(err, authz.ErrNotFound) {
				return asynq.SkipRetry
			}
			return err
		}
		logger.Info("permission snapshot refreshed",
			slog.Int64("user_id", payload.UserID),
			slog.Int("permissions", len(principal.AllPermissions)))
		return nil
	}
}
