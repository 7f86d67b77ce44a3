package documents

import (
	"context"
	"errors"
	"time"

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

const documentColumns = "id, company_id, proceeding_id, title, mime_type, size_bytes, retention_id, expired_at, created_by, created_at, updated_at"

func scanDocument(row pgx.Row) (Document, error) {
	var d Document
	err := row.Scan(&d.ID, &d.CompanyID, &d.ProceedingID, &d.Title, &d.MimeType, &d.SizeBytes, &d.RetentionID, &d.ExpiredAt, &d.CreatedBy, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Document{}, shared.ErrNotFound
		}
		return Document{}, err
	}
	return d, nil
}

// ListDocuments returns document metadata, tenant-scoped when companyID is set.
func (r *Repository) ListDocuments(ctx context.Context, companyID *int64) ([]Document, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE $1::bigint IS NULL OR company_id = $1
		ORDER BY id DESC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var documents []Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		documents = append(documents, d)
	}
	return documents, rows.Err()
}

// GetDocument fetches a single document record.
func (r *Repository) GetDocument(ctx context.Context, id int64) (Document, error) {
	return scanDocument(r.pool.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id))
}

// CreateDocument inserts a new metadata record.
func (r *Repository) CreateDocument(ctx context.Context, doc Document) (Document, error) {
	return scanDocument(r.pool.QueryRow(ctx, `
		INSERT INTO documents (company_id, proceeding_id, title, mime_type, size_bytes, retention_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+documentColumns,
		doc.CompanyID, doc.ProceedingID, doc.Title, doc.MimeType, doc.SizeBytes, doc.RetentionID, doc.CreatedBy))
}

// UpdateDocument changes mutable metadata fields.
func (r *Repository) UpdateDocument(ctx context.Context, id int64, title string, retentionID *int64) (Document, error) {
	return scanDocument(r.pool.QueryRow(ctx, `
		UPDATE documents SET title = $2, retention_id = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+documentColumns, id, title, retentionID))
}

// MarkExpired stamps documents whose retention period has lapsed. Returns the
// number of documents flagged.
func (r *Repository) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE documents d
		SET expired_at = $1, updated_at = now()
		FROM retention_schedules rs
		WHERE d.retention_id = rs.id
		  AND d.expired_at IS NULL
		  AND d.created_at + make_interval(days => rs.retention_days) <= $1`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
