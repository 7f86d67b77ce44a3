package correspondence

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

const recordColumns = "id, company_id, reference, direction, subject, counterparty, registered_at, created_at"

// ListRecords returns mail records, tenant-scoped when companyID is set.
func (r *Repository) ListRecords(ctx context.Context, companyID *int64, direction string) ([]Record, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+recordColumns+`
		FROM correspondence
		WHERE ($1::bigint IS NULL OR company_id = $1)
		  AND ($2 = '' OR direction = $2)
		ORDER BY registered_at DESC`, companyID, direction)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.CompanyID, &rec.Reference, &rec.Direction, &rec.Subject, &rec.Counterparty, &rec.RegisteredAt, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetRecord fetches a single record.
func (r *Repository) GetRecord(ctx context.Context, id int64) (Record, error) {
	var rec Record
	err := r.pool.QueryRow(ctx, `SELECT `+recordColumns+` FROM correspondence WHERE id = $1`, id).
		Scan(&rec.ID, &rec.CompanyID, &rec.Reference, &rec.Direction, &rec.Subject, &rec.Counterparty, &rec.RegisteredAt, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, shared.ErrNotFound
		}
		return Record{}, err
	}
	return rec, nil
}

// CreateRecord inserts a new mail record.
func (r *Repository) CreateRecord(ctx context.Context, record Record) (Record, error) {
	var rec Record
	err := r.pool.QueryRow(ctx, `
		INSERT INTO correspondence (company_id, reference, direction, subject, counterparty, registered_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+recordColumns,
		record.CompanyID, record.Reference, record.Direction, record.Subject, record.Counterparty, record.RegisteredAt).
		Scan(&rec.ID, &rec.CompanyID, &rec.Reference, &rec.Direction, &rec.Subject, &rec.Counterparty, &rec.RegisteredAt, &rec.CreatedAt)
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}
