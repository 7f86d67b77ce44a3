package retention

import (
	"context"
	"log/slog"
	"time"
)

// RepositoryPort defines data access methods for retention schedules.
type RepositoryPort interface {
	ListSchedules(ctx context.Context, companyID *int64) ([]Schedule, error)
	GetSchedule(ctx context.Context, id int64) (Schedule, error)
	CreateSchedule(ctx context.Context, schedule Schedule) (Schedule, error)
	UpdateSchedule(ctx context.Context, id int64, name string, retentionDays int) (Schedule, error)
}

// ExpiryMarker flags documents whose retention period has lapsed.
type ExpiryMarker interface {
	MarkExpired(ctx context.Context, now time.Time) (int64, error)
}

// Service handles retention schedule business logic and drives the nightly
// expiry scan.
type Service struct {
	repo    RepositoryPort
	expirer ExpiryMarker
	logger  *slog.Logger
	now     func() time.Time
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, expirer ExpiryMarker, logger *slog.Logger) *Service {
	return &Service{repo: repo, expirer: expirer, logger: logger, now: time.Now}
}

// ListSchedules returns schedules for the tenant.
func (s *Service) ListSchedules(ctx context.Context, companyID *int64) ([]Schedule, error) {
	return s.repo.ListSchedules(ctx, companyID)
}

// GetSchedule returns one schedule.
func (s *Service) GetSchedule(ctx context.Context, id int64) (Schedule, error) {
	return s.repo.GetSchedule(ctx, id)
}

// CreateSchedule registers a new schedule.
func (s *Service) CreateSchedule(ctx context.Context, schedule Schedule) (Schedule, error) {
	return s.repo.CreateSchedule(ctx, schedule)
}

// UpdateSchedule changes a schedule.
func (s *Service) UpdateSchedule(ctx context.Context, id int64, name string, retentionDays int) (Schedule, error) {
	return s.repo.UpdateSchedule(ctx, id, name, retentionDays)
}

// Scan flags expired documents. Invoked by the nightly worker task.
func (s *Service) Scan(ctx context.Context) (int64, error) {
	flagged, err := s.expirer.MarkExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if flagged > 0 {
		s.logger.Info("retention scan flagged documents", slog.Int64("count", flagged))
	}
	return flagged, nil
}
