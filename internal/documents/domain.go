// Package documents manages document metadata records. Binary content lives
// outside this service; only metadata and retention state are tracked here.
package documents

import "time"

// Document represents a stored document's metadata.
type Document struct {
	ID            int64      `json:"id"`
	CompanyID     int64      `json:"company_id"`
	ProceedingID  *int64     `json:"proceeding_id,omitempty"`
	Title         string     `json:"title"`
	MimeType      string     `json:"mime_type"`
	SizeBytes     int64      `json:"size_bytes"`
	RetentionID   *int64     `json:"retention_id,omitempty"`
	ExpiredAt     *time.Time `json:"expired_at,omitempty"`
	CreatedBy     int64      `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
