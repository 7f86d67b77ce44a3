package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/chancery-dms/chancery/internal/authz"
)

type stubSnapshots struct {
	invalidated []int64
	principals  map[int64]authz.Principal
}

func (s *stubSnapshots) Invalidate(_ context.Context, userID int64) error {
	s.invalidated = append(s.invalidated, userID)
	return nil
}

func (s *stubSnapshots) Principal(_ context.Context, userID int64) (authz.Principal, error) {
	p, ok := s.principals[userID]
	if !ok {
		return authz.Principal{}, authz.ErrNotFound
	}
	return p, nil
}

func TestAuthzRefreshHandlerRebuildsSnapshot(t *testing.T) {
	snapshots := &stubSnapshots{principals: map[int64]authz.Principal{
		42: {ID: 42, AllPermissions: []string{"user.view"}},
	}}
	handler := NewAuthzRefreshHandler(snapshots, slog.Default())

	payload, err := json.Marshal(AuthzRefreshPayload{UserID: 42})
	require.NoError(t, err)

	err = handler(context.Background(), asynq.NewTask(TaskAuthzRefresh, payload))
	require.NoError(t, err)
	require.Equal(t, []int64{42}, snapshots.invalidated)
}

func TestAuthzRefreshHandlerSkipsUnknownUser(t *testing.T) {
	snapshots := &stubSnapshots{principals: map[int64]authz.Principal{}}
	handler := NewAuthzRefreshHandler(snapshots, slog.Default())

	payload, err := json.Marshal(AuthzRefreshPayload{UserID: 9})
	require.NoError(t, err)

	err = handler(context.Background(), asynq.NewTask(TaskAuthzRefresh, payload))
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestAuthzRefreshHandlerRejectsMalformedPayload(t *testing.T) {
	handler := NewAuthzRefreshHandler(&stubSnapshots{}, slog.Default())

	err := handler(context.Background(), asynq.NewTask(TaskAuthzRefresh, []byte("{")))
	require.ErrorIs(t, err, asynq.SkipRetry)
}
