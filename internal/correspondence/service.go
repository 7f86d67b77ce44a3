package correspondence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrBadDirection rejects records with an unknown direction.
var ErrBadDirection = errors.New("correspondence: direction must be incoming or outgoing")

// RepositoryPort defines data access methods for correspondence.
type RepositoryPort interface {
	ListRecords(ctx context.Context, companyID *int64, direction string) ([]Record, error)
	GetRecord(ctx context.Context, id int64) (Record, error)
	CreateRecord(ctx context.Context, record Record) (Record, error)
}

// Service handles correspondence business logic.
type Service struct {
	repo RepositoryPort
	now  func() time.Time
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, now: time.Now}
}

// ListRecords returns mail records for the tenant.
func (s *Service) ListRecords(ctx context.Context, companyID *int64, direction string) ([]Record, error) {
	return s.repo.ListRecords(ctx, companyID, direction)
}

// GetRecord returns one mail record.
func (s *Service) GetRecord(ctx context.Context, id int64) (Record, error) {
	return s.repo.GetRecord(ctx, id)
}

// RegisterRecord books a new piece of correspondence, assigning its UUID
// reference and registration timestamp.
func (s *Service) RegisterRecord(ctx context.Context, record Record) (Record, error) {
	if record.Direction != DirectionIncoming && record.Direction != DirectionOutgoing {
		return Record{}, ErrBadDirection
	}
	record.Reference = uuid.NewString()
	record.RegisteredAt = s.now()
	return s.repo.CreateRecord(ctx, record)
}
