package retention

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubExpirer struct {
	flagged int64
	seenAt  time.Time
	err     error
}

func (s *stubExpirer) MarkExpired(_ context.Context, now time.Time) (int64, error) {
	s.seenAt = now
	return s.flagged, s.err
}

func TestScanReportsFlaggedCount(t *testing.T) {
	expirer := &stubExpirer{flagged: 3}
	svc := NewService(nil, expirer, slog.Default())
	fixed := time.Date(2026, 2, 1, 3, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	flagged, err := svc.Scan(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(3), flagged)
	require.Equal(t, fixed, expirer.seenAt)
}

func TestScanPropagatesStoreError(t *testing.T) {
	expirer := &stubExpirer{err: context.DeadlineExceeded}
	svc := NewService(nil, expirer, slog.Default())

	_, err := svc.Scan(context.Background())
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
