package documents

import (
	"context"
	"time"
)

// RepositoryPort defines data access methods for documents.
type RepositoryPort interface {
	ListDocuments(ctx context.Context, companyID *int64) ([]Document, error)
	GetDocument(ctx context.Context, id int64) (Document, error)
	CreateDocument(ctx context.Context, doc Document) (Document, error)
	UpdateDocument(ctx context.Context, id int64, title string, retentionID *int64) (Document, error)
	MarkExpired(ctx context.Context, now time.Time) (int64, error)
}

// Service handles document metadata business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListDocuments returns metadata records for the tenant.
func (s *Service) ListDocuments(ctx context.Context, companyID *int64) ([]Document, error) {
	return s.repo.ListDocuments(ctx, companyID)
}

// GetDocument returns one record.
func (s *Service) GetDocument(ctx context.Context, id int64) (Document, error) {
	return s.repo.GetDocument(ctx, id)
}

// RegisterDocument books a new metadata record.
func (s *Service) RegisterDocument(ctx context.Context, doc Document) (Document, error) {
	return s.repo.CreateDocument(ctx, doc)
}

// UpdateDocument changes title and retention schedule.
func (s *Service) UpdateDocument(ctx context.Context, id int64, title string, retentionID *int64) (Document, error) {
	return s.repo.UpdateDocument(ctx, id, title, retentionID)
}
