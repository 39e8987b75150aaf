package repositories

import (
	"context"

	"github.com/cargoseal/cargoseal_backend/internal/core/domain"
)

// CompanyReader defines read operations for company data
type CompanyReader interface {
	// FindCompanyByID retrieves a company by its unique identifier.
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)

	// ListCompanies retrieves a paginated list of companies, optionally
	// narrowed to those whose representative account a given admin created.
	ListCompanies(ctx context.Context, createdByAdminID *string, limit, offset int) ([]domain.Company, int64, error)
}

// CompanyRepositoryFacade combines all company-related repository interfaces.
// Company rows are only ever written through the paired
// AccountWriter.SaveCompanyWithAccount path.
type CompanyRepositoryFacade interface {
	CompanyReader
}
