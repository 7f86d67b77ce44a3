package retention

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chancery-dms/chancery/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const scheduleColumns = "id, company_id, name, retention_days, created_at, updated_at"

// ListSchedules returns schedules, tenant-scoped when companyID is set.
func (r *Repository) ListSchedules(ctx context.Context, companyID *int64) ([]Schedule, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+scheduleColumns+`
		FROM retention_schedules
		WHERE $1::bigint IS NULL OR company_id = $1
		ORDER BY name`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var schedules []Schedule
	for rows.Next() {
		var s Schedule
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.Name, &s.RetentionDays, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

// GetSchedule fetches a single schedule.
func (r *Repository) GetSchedule(ctx context.Context, id int64) (Schedule, error) {
	var s Schedule
	err := r.pool.QueryRow(ctx, `SELECT `+scheduleColumns+` FROM retention_schedules WHERE id = $1`, id).
		Scan(&s.ID, &s.CompanyID, &s.Name, &s.RetentionDays, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Schedule{}, shared.ErrNotFound
		}
		return Schedule{}, err
	}
	return s, nil
}

// CreateSchedule inserts a new schedule.
func (r *Repository) CreateSchedule(ctx context.Context, schedule Schedule) (Schedule, error) {
	var s Schedule
	err := r.pool.QueryRow(ctx, `
		INSERT INTO retention_schedules (company_id, name, retention_days)
		VALUES ($1, $2, $3)
		RETURNING `+scheduleColumns, schedule.CompanyID, schedule.Name, schedule.RetentionDays).
		Scan(&s.ID, &s.CompanyID, &s.Name, &s.RetentionDays, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return Schedule{}, err
	}
	return s, nil
}

// UpdateSchedule changes a schedule.
func (r *Repository) UpdateSchedule(ctx context.Context, id int64, name string, retentionDays int) (Schedule, error) {
	var s Schedule
	err := r.pool.QueryRow(ctx, `
		UPDATE retention_schedules SET name = $2, retention_days = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+scheduleColumns, id, name, retentionDays).
		Scan(&s.ID, &s.CompanyID, &s.Name, &s.RetentionDays, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Schedule{}, shared.ErrNotFound
		}
		return Schedule{}, err
	}
	return s, nil
}
