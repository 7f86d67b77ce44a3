package proceedings

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

const proceedingColumns = "id, company_id, title, status, box_id, created_at, updated_at"

// ListProceedings returns proceedings, tenant-scoped when companyID is set.
func (r *Repository) ListProceedings(ctx context.Context, companyID *int64, status string) ([]Proceeding, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+proceedingColumns+`
		FROM proceedings
		WHERE ($1::bigint IS NULL OR company_id = $1)
		  AND ($2 = '' OR status = $2)
		ORDER BY id DESC`, companyID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var proceedings []Proceeding
	for rows.Next() {
		var p Proceeding
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.Title, &p.Status, &p.BoxID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		proceedings = append(proceedings, p)
	}
	return proceedings, rows.Err()
}

// GetProceeding fetches a single proceeding.
func (r *Repository) GetProceeding(ctx context.Context, id int64) (Proceeding, error) {
	var p Proceeding
	err := r.pool.QueryRow(ctx, `SELECT `+proceedingColumns+` FROM proceedings WHERE id = $1`, id).
		Scan(&p.ID, &p.CompanyID, &p.Title, &p.Status, &p.BoxID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Proceeding{}, shared.ErrNotFound
		}
		return Proceeding{}, err
	}
	return p, nil
}

// CreateProceeding inserts a new proceeding in the open state.
func (r *Repository) CreateProceeding(ctx context.Context, proceeding Proceeding) (Proceeding, error) {
	var p Proceeding
	err := r.pool.QueryRow(ctx, `
		INSERT INTO proceedings (company_id, title, status)
		VALUES ($1, $2, $3)
		RETURNING `+proceedingColumns, proceeding.CompanyID, proceeding.Title, StatusOpen).
		Scan(&p.ID, &p.CompanyID, &p.Title, &p.Status, &p.BoxID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Proceeding{}, err
	}
	return p, nil
}

// UpdateStatus transitions a proceeding.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status string) (Proceeding, error) {
	var p Proceeding
	err := r.pool.QueryRow(ctx, `
		UPDATE proceedings SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+proceedingColumns, id, status).
		Scan(&p.ID, &p.CompanyID, &p.Title, &p.Status, &p.BoxID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Proceeding{}, shared.ErrNotFound
		}
		return Proceeding{}, err
	}
	return p, nil
}

// AttachBox assigns a proceeding to an archive box.
func (r *Repository) AttachBox(ctx context.Context, id, boxID int64) (Proceeding, error) {
	var p Proceeding
	err := r.pool.QueryRow(ctx, `
		UPDATE proceedings SET box_id = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+proceedingColumns, id, boxID).
		Scan(&p.ID, &p.CompanyID, &p.Title, &p.Status, &p.BoxID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Proceeding{}, shared.ErrNotFound
		}
		return Proceeding{}, err
	}
	return p, nil
}
