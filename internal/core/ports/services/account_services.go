package services

import (
	"context"

	"github.com/cargoseal/cargoseal_backend/internal/core/domain"
	"github.com/cargoseal/cargoseal_backend/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccount retrieves an account the actor is allowed to see.
	GetAccount(ctx context.Context, actorID string, accountID string) (*domain.Account, error)

	// ListAccounts retrieves a role-scoped, paginated list of accounts.
	ListAccounts(ctx context.Context, actorID string, params dto.ListAccountsParams) (*dto.ListAccountsResponse, error)

	// GetCompany retrieves a company the actor is allowed to see.
	GetCompany(ctx context.Context, actorID string, companyID string) (*domain.Company, error)

	// ListCompanies retrieves a role-scoped, paginated list of companies.
	ListCompanies(ctx context.Context, actorID string, params dto.ListCompaniesParams) (*dto.ListCompaniesResponse, error)
}

// AccountWriterSvc defines provisioning operations for accounts
type AccountWriterSvc interface {
	// CreateAccount provisions a new account per the role creation matrix.
	// Creating a COMPANY account also creates the paired Company record in
	// the same atomic unit.
	CreateAccount(ctx context.Context, actorID string, req dto.CreateAccountRequest) (*domain.Account, error)

	// DeleteAccount removes an account that has provisioned no dependents.
	DeleteAccount(ctx context.Context, actorID string, accountID string) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
