package companies

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chancery-dms/chancery/internal/platform/httpx"
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

const companyColumns = "id, name, tax_id, address, is_active, created_at, updated_at"

// ListCompanies returns all companies, or just the caller's own when scoped.
func (r *Repository) ListCompanies(ctx context.Context, companyID *int64) ([]Company, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+companyColumns+`
		FROM companies
		WHERE $1::bigint IS NULL OR id = $1
		ORDER BY name`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var companies []Company
	for rows.Next() {
		var c Company
		if err := rows.Scan(&c.ID, &c.Name, &c.TaxID, &c.Address, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// GetCompany fetches a single company.
func (r *Repository) GetCompany(ctx context.Context, id int64) (Company, error) {
	var c Company
	err := r.pool.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.TaxID, &c.Address, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Company{}, shared.ErrNotFound
		}
		return Company{}, err
	}
	return c, nil
}

// CreateCompany inserts a new company.
func (r *Repository) CreateCompany(ctx context.Context, company Company) (Company, error) {
	var c Company
	err := r.pool.QueryRow(ctx, `
		INSERT INTO companies (name, tax_id, address, is_active)
		VALUES ($1, $2, $3, true)
		RETURNING `+companyColumns, company.Name, company.TaxID, company.Address).
		Scan(&c.ID, &c.Name, &c.TaxID, &c.Address, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			return Company{}, httpx.ErrDuplicate
		}
		return Company{}, err
	}
	return c, nil
}

// UpdateCompany changes company master data.
func (r *Repository) UpdateCompany(ctx context.Context, id int64, company Company) (Company, error) {
	var c Company
	err := r.pool.QueryRow(ctx, `
		UPDATE companies
		SET name = $2, tax_id = $3, address = $4, is_active = $5, updated_at = now()
		WHERE id = $1
		RETURNING `+companyColumns, id, company.Name, company.TaxID, company.Address, company.IsActive).
		Scan(&c.ID, &c.Name, &c.TaxID, &c.Address, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Company{}, shared.ErrNotFound
		}
		return Company{}, err
	}
	return c, nil
}
