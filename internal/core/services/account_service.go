package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cargoseal/cargoseal_backend/internal/apperrors"
	"github.com/cargoseal/cargoseal_backend/internal/core/domain"
	portsrepo "github.com/cargoseal/cargoseal_backend/internal/core/ports/repositories"
	portssvc "github.com/cargoseal/cargoseal_backend/internal/core/ports/services"
	"github.com/cargoseal/cargoseal_backend/internal/dto"
	"github.com/cargoseal/cargoseal_backend/internal/middleware"
	"github.com/cargoseal/cargoseal_backend/internal/utils"
)

// accountService handles identity provisioning and the role creation matrix.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	companyRepo portsrepo.CompanyRepositoryFacade
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, companyRepo portsrepo.CompanyRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		companyRepo: companyRepo,
	}
}

// Ensure accountService implements the portssvc.AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount provisions a new account per the creation matrix:
// SuperAdmin creates Admins; Admins create Companies (with the paired
// Company record) and Employees; nobody else creates anything.
func (s *accountService) CreateAccount(ctx context.Context, actorID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	actor, err := s.accountRepo.FindAccountByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve actor %s: %w", actorID, err)
	}

	if !req.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, req.Role)
	}
	if !actor.Role.CanCreate(req.Role) {
		logger.Warn("Creation matrix rejected account provisioning",
			slog.String("actor_role", string(actor.Role)), slog.String("requested_role", string(req.Role)))
		return nil, fmt.Errorf("%w: role %s may not create %s accounts", apperrors.ErrForbidden, actor.Role, req.Role)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.accountRepo.FindAccountByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email %s is already registered", apperrors.ErrDuplicate, email)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	}

	now := time.Now().UTC()
	accountID := uuid.NewString()

	account := domain.Account{
		AccountID:   accountID,
		Name:        req.Name,
		Email:       email,
		Role:        req.Role,
		CreatedByID: &actor.AccountID,
		Phone:       req.Phone,
		Address:     req.Address,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.AccountID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.AccountID,
		},
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Error("Failed to hash password for new account", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to hash password: %w", apperrors.ErrInternal)
	}
	account.PasswordHash = hash

	switch req.Role {
	case domain.RoleEmployee:
		if req.Subrole == nil || req.CompanyID == nil {
			return nil, fmt.Errorf("%w: employee accounts require both subrole and companyID", apperrors.ErrValidation)
		}
		if !req.Subrole.Valid() {
			return nil, fmt.Errorf("%w: unknown subrole %q", apperrors.ErrValidation, *req.Subrole)
		}
		if _, err := s.companyRepo.FindCompanyByID(ctx, *req.CompanyID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: company %s does not exist", apperrors.ErrValidation, *req.CompanyID)
			}
			return nil, fmt.Errorf("failed to check company existence: %w", err)
		}
		account.Subrole = req.Subrole
		account.CompanyID = req.CompanyID
	case domain.RoleCompany:
		if req.Subrole != nil {
			return nil, fmt.Errorf("%w: subrole is only valid for employee accounts", apperrors.ErrValidation)
		}
	default:
		if req.Subrole != nil {
			return nil, fmt.Errorf("%w: subrole is only valid for employee accounts", apperrors.ErrValidation)
		}
	}

	entry := domain.ActivityLogEntry{
		EntryID:         uuid.NewString(),
		ActorID:         actor.AccountID,
		Action:          domain.ActionCreate,
		TargetAccountID: &accountID,
		TargetType:      "account",
		TargetID:        &accountID,
		Detail: map[string]any{
			"email": email,
			"role":  string(req.Role),
		},
		CreatedAt: now,
	}

	if req.Role == domain.RoleCompany {
		companyID := uuid.NewString()
		companyName := req.CompanyName
		if companyName == "" {
			companyName = req.Name
		}
		company := domain.Company{
			CompanyID:    companyID,
			Name:         companyName,
			ContactEmail: email,
			Phone:        req.Phone,
			Address:      req.Address,
			AuditFields:  account.AuditFields,
		}
		account.CompanyID = &companyID
		entry.Detail["companyID"] = companyID

		if err := s.accountRepo.SaveCompanyWithAccount(ctx, company, account, entry); err != nil {
			logger.Error("Failed to save company with account", slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to create company account: %w", err)
		}
	} else {
		if err := s.accountRepo.SaveAccount(ctx, account, entry); err != nil {
			logger.Error("Failed to save account", slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to create account: %w", err)
		}
	}

	logger.Info("Account created", slog.String("account_id", accountID), slog.String("role", string(req.Role)))
	return &account, nil
}

// canViewAccount applies the account visibility rules: SuperAdmin sees all,
// Admins their creation subtree, Companies themselves and their employees,
// Employees only themselves.
func (s *accountService) canViewAccount(ctx context.Context, actor *domain.Account, target *domain.Account) (bool, error) {
	if actor.AccountID == target.AccountID {
		return true, nil
	}
	switch actor.Role {
	case domain.RoleSuperAdmin:
		return true, nil
	case domain.RoleAdmin:
		if target.CreatedByID != nil && *target.CreatedByID == actor.AccountID {
			return true, nil
		}
		if target.CompanyID != nil {
			companyAcc, err := s.accountRepo.FindCompanyAccount(ctx, *target.CompanyID)
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return false, nil
				}
				return false, err
			}
			return companyAcc.CreatedByID != nil && *companyAcc.CreatedByID == actor.AccountID, nil
		}
		return false, nil
	case domain.RoleCompany:
		return actor.CompanyID != nil && target.CompanyID != nil && *actor.CompanyID == *target.CompanyID, nil
	}
	return false, nil
}

// GetAccount retrieves an account the actor is allowed to see.
func (s *accountService) GetAccount(ctx context.Context, actorID string, accountID string) (*domain.Account, error) {
	actor, err := s.accountRepo.FindAccountByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve actor %s: %w", actorID, err)
	}
	target, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	ok, err := s.canViewAccount(ctx, actor, target)
	if err != nil {
		return nil, fmt.Errorf("failed to check account visibility: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: account %s is not visible to the caller", apperrors.ErrForbidden, accountID)
	}
	return target, nil
}

// ListAccounts retrieves a role-scoped, paginated list of accounts.
func (s *accountService) ListAccounts(ctx context.Context, actorID string, params dto.ListAccountsParams) (*dto.ListAccountsResponse, error) {
	actor, err := s.accountRepo.FindAccountByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve actor %s: %w", actorID, err)
	}

	page, limit, offset := dto.NormalizePage(params.Page, params.Limit)

	filter := portsrepo.AccountListFilter{}
	if params.Role != "" {
		role := domain.Role(params.Role)
		filter.Role = &role
	}
	if params.CompanyID != "" {
		filter.CompanyID = &params.CompanyID
	}

	switch actor.Role {
	case domain.RoleSuperAdmin:
		// Unrestricted.
	case domain.RoleAdmin:
		filter.VisibleToAdminID = &actor.AccountID
	case domain.RoleCompany:
		if actor.CompanyID == nil {
			return nil, fmt.Errorf("%w: company account has no company link", apperrors.ErrValidation)
		}
		filter.CompanyID = actor.CompanyID
	default:
		// Employees see only themselves.
		self := *actor
		return &dto.ListAccountsResponse{
			Accounts:   []dto.AccountResponse{dto.ToAccountResponse(&self)},
			Pagination: dto.NewPagination(1, limit, 1),
		}, nil
	}

	accounts, total, err := s.accountRepo.ListAccounts(ctx, filter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	resp := &dto.ListAccountsResponse{
		Accounts:   make([]dto.AccountResponse, len(accounts)),
		Pagination: dto.NewPagination(page, limit, total),
	}
	for i := range accounts {
		resp.Accounts[i] = dto.ToAccountResponse(&accounts[i])
	}
	return resp, nil
}

// DeleteAccount removes an account that has provisioned no dependents.
func (s *accountService) DeleteAccount(ctx context.Context, actorID string, accountID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	actor, err := s.accountRepo.FindAccountByID(ctx, actorID)
	if err != nil {
		return fmt.Errorf("failed to resolve actor %s: %w", actorID, err)
	}
	if actor.Role != domain.RoleSuperAdmin && actor.Role != domain.RoleAdmin {
		return fmt.Errorf("%w: role %s may not delete accounts", apperrors.ErrForbidden, actor.Role)
	}
	if actorID == accountID {
		return fmt.Errorf("%w: accounts cannot delete themselves", apperrors.ErrForbidden)
	}

	target, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	if target.IsSystem {
		return fmt.Errorf("%w: the system account cannot be deleted", apperrors.ErrForbidden)
	}
	if actor.Role == domain.RoleAdmin {
		ok, err := s.canViewAccount(ctx, actor, target)
		if err != nil {
			return fmt.Errorf("failed to check account visibility: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: account %s is outside the caller's subtree", apperrors.ErrForbidden, accountID)
		}
	}

	// Fast pre-check; the repository re-checks the count inside the delete
	// transaction, which is the authoritative guard.
	dependents, err := s.accountRepo.CountAccountsCreatedBy(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to count dependent accounts: %w", err)
	}
	if dependents > 0 {
		return fmt.Errorf("%w: account %s created %d accounts", apperrors.ErrHasDependents, accountID, dependents)
	}

	entry := domain.ActivityLogEntry{
		EntryID:         uuid.NewString(),
		ActorID:         actor.AccountID,
		Action:          domain.ActionDelete,
		TargetAccountID: &accountID,
		TargetType:      "account",
		TargetID:        &accountID,
		Detail: map[string]any{
			"email": target.Email,
			"role":  string(target.Role),
		},
		CreatedAt: time.Now().UTC(),
	}

	if err := s.accountRepo.DeleteAccount(ctx, accountID, entry); err != nil {
		logger.Error("Failed to delete account", slog.String("account_id", accountID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete account %s: %w", accountID, err)
	}

	logger.Info("Account deleted", slog.String("account_id", accountID))
	return nil
}

// GetCompany retrieves a company the actor is allowed to see.
func (s *accountService) GetCompany(ctx context.Context, actorID string, companyID string) (*domain.Company, error) {
	actor, err := s.accountRepo.FindAccountByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve actor %s: %w", actorID, err)
	}

	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to find company %s: %w", companyID, err)
	}

	switch actor.Role {
	case domain.RoleSuperAdmin:
		return company, nil
	case domain.RoleAdmin:
		companyAcc, err := s.accountRepo.FindCompanyAccount(ctx, companyID)
		if err != nil {
			return nil, fmt.Errorf("failed to find company account: %w", err)
		}
		if companyAcc.CreatedByID != nil && *companyAcc.CreatedByID == actor.AccountID {
			return company, nil
		}
	default:
		if actor.CompanyID != nil && *actor.CompanyID == companyID {
			return company, nil
		}
	}
	return nil, fmt.Errorf("%w: company %s is not visible to the caller", apperrors.ErrForbidden, companyID)
}

// ListCompanies retrieves a role-scoped, paginated list of companies.
func (s *accountService) ListCompanies(ctx context.Context, actorID string, params dto.ListCompaniesParams) (*dto.ListCompaniesResponse, error) {
	actor, err := s.accountRepo.FindAccountByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve actor %s: %w", actorID, err)
	}

	page, limit, offset := dto.NormalizePage(params.Page, params.Limit)

	var createdBy *string
	switch actor.Role {
	case domain.RoleSuperAdmin:
		// Unrestricted.
	case domain.RoleAdmin:
		createdBy = &actor.AccountID
	default:
		if actor.CompanyID == nil {
			return &dto.ListCompaniesResponse{Companies: []dto.CompanyResponse{}, Pagination: dto.NewPagination(page, limit, 0)}, nil
		}
		company, err := s.companyRepo.FindCompanyByID(ctx, *actor.CompanyID)
		if err != nil {
			return nil, fmt.Errorf("failed to find company %s: %w", *actor.CompanyID, err)
		}
		return &dto.ListCompaniesResponse{
			Companies:  []dto.CompanyResponse{dto.ToCompanyResponse(company)},
			Pagination: dto.NewPagination(1, limit, 1),
		}, nil
	}

	companies, total, err := s.companyRepo.ListCompanies(ctx, createdBy, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}

	resp := &dto.ListCompaniesResponse{
		Companies:  make([]dto.CompanyResponse, len(companies)),
		Pagination: dto.NewPagination(page, limit, total),
	}
	for i := range companies {
		resp.Companies[i] = dto.ToCompanyResponse(&companies[i])
	}
	return resp, nil
}
