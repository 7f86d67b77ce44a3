package companies

import "context"

// RepositoryPort defines data access methods for companies.
type RepositoryPort interface {
	ListCompanies(ctx context.Context, companyID *int64) ([]Company, error)
	GetCompany(ctx context.Context, id int64) (Company, error)
	CreateCompany(ctx context.Context, company Company) (Company, error)
	UpdateCompany(ctx context.Context, id int64, company Company) (Company, error)
}

// Service handles company business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListCompanies returns companies visible to the caller.
func (s *Service) ListCompanies(ctx context.Context, companyID *int64) ([]Company, error) {
	return s.repo.ListCompanies(ctx, companyID)
}

// GetCompany returns one company.
func (s *Service) GetCompany(ctx context.Context, id int64) (Company, error) {
	return s.repo.GetCompany(ctx, id)
}

// CreateCompany registers a new tenant.
func (s *Service) CreateCompany(ctx context.Context, company Company) (Company, error) {
	return s.repo.CreateCompany(ctx, company)
}

// UpdateCompany changes tenant master data.
func (s *Service) UpdateCompany(ctx context.Context, id int64, company Company) (Company, error) {
	return s.repo.UpdateCompany(ctx, id, company)
}
