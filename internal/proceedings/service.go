package proceedings

import (
	"context"
	"errors"
)

// ErrClosed rejects box attachment on proceedings that are not closed yet;
// only closed case files go to the archive.
var ErrClosed = errors.New("proceedings: only closed proceedings can be boxed")

// ErrBadStatus rejects unknown status transitions.
var ErrBadStatus = errors.New("proceedings: unknown status")

// RepositoryPort defines data access methods for proceedings.
type RepositoryPort interface {
	ListProceedings(ctx context.Context, companyID *int64, status string) ([]Proceeding, error)
	GetProceeding(ctx context.Context, id int64) (Proceeding, error)
	CreateProceeding(ctx context.Context, proceeding Proceeding) (Proceeding, error)
	UpdateStatus(ctx context.Context, id int64, status string) (Proceeding, error)
	AttachBox(ctx context.Context, id, boxID int64) (Proceeding, error)
}

// Service handles proceeding business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListProceedings returns case files for the tenant.
func (s *Service) ListProceedings(ctx context.Context, companyID *int64, status string) ([]Proceeding, error) {
	return s.repo.ListProceedings(ctx, companyID, status)
}

// GetProceeding returns one case file.
func (s *Service) GetProceeding(ctx context.Context, id int64) (Proceeding, error) {
	return s.repo.GetProceeding(ctx, id)
}

// OpenProceeding starts a new case file.
func (s *Service) OpenProceeding(ctx context.Context, companyID int64, title string) (Proceeding, error) {
	return s.repo.CreateProceeding(ctx, Proceeding{CompanyID: companyID, Title: title})
}

// Transition moves a case file between statuses.
func (s *Service) Transition(ctx context.Context, id int64, status string) (Proceeding, error) {
	switch status {
	case StatusOpen, StatusClosed, StatusArchived:
	default:
		return Proceeding{}, ErrBadStatus
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

// AttachBox puts a closed case file into an archive box and marks it
// archived.
func (s *Service) AttachBox(ctx context.Context, id, boxID int64) (Proceeding, error) {
	p, err := s.repo.GetProceeding(ctx, id)
	if err != nil {
		return Proceeding{}, err
	}
	if p.Status != StatusClosed {
		return Proceeding{}, ErrClosed
	}
	if _, err := s.repo.AttachBox(ctx, id, boxID); err != nil {
		return Proceeding{}, err
	}
	return s.repo.UpdateStatus(ctx, id, StatusArchived)
}
