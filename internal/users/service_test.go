package users

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

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

func TestGrantMutationsTriggerSnapshotRefresh(t *testing.T) {
	refresh := &recordingRefresh{}
	svc := &Service{
		repo:      nil,
		snapshots: refresh,
		jobs:      refresh,
		logger:    slog.Default(),
	}
	ctx := context.Background()

	svc.refreshGrants(ctx, 42)
	svc.refreshGrants(ctx, 42)
	svc.refreshGrants(ctx, 7)

	require.Equal(t, []int64{42, 42, 7}, refresh.invalidated)
	require.Equal(t, []int64{42, 42, 7}, refresh.enqueued)
}

func TestRefreshGrantsToleratesMissingCollaborators(t *testing.T) {
	svc := &Service{logger: slog.Default()}
	// nil invalidator and enqueuer must not panic
	svc.refreshGrants(context.Background(), 1)
}
