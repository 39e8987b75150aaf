package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cargoseal/cargoseal_backend/internal/core/domain"
)

// AccountListFilter narrows ListAccounts results. Nil fields are ignored.
type AccountListFilter struct {
	Role      *domain.Role
	CompanyID *string
	// CreatedByID restricts to accounts provisioned directly by this account.
	CreatedByID *string
	// VisibleToAdminID restricts to the admin's creation subtree: accounts the
	// admin created directly plus accounts belonging to companies whose
	// representative account the admin created.
	VisibleToAdminID *string
}

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByEmail retrieves an account by its login email.
	FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error)

	// FindCompanyAccount retrieves the representative COMPANY-role account for a company.
	FindCompanyAccount(ctx context.Context, companyID string) (*domain.Account, error)

	// FindSystemAccount retrieves the designated system account that receives
	// session-start debits. Returns apperrors.ErrNoSystemAccount when absent.
	FindSystemAccount(ctx context.Context) (*domain.Account, error)

	// ListAccounts retrieves a filtered, paginated list of accounts.
	ListAccounts(ctx context.Context, filter AccountListFilter, limit, offset int) ([]domain.Account, int64, error)

	// CountAccountsCreatedBy returns how many accounts name the given account
	// as their provisioning parent. Used for the delete dependent guard.
	CountAccountsCreatedBy(ctx context.Context, accountID string) (int64, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account and its audit entry atomically.
	SaveAccount(ctx context.Context, account domain.Account, entry domain.ActivityLogEntry) error

	// SaveCompanyWithAccount persists a company, its representative account
	// and the audit entry as one atomic unit.
	SaveCompanyWithAccount(ctx context.Context, company domain.Company, account domain.Account, entry domain.ActivityLogEntry) error

	// DeleteAccount removes an account and appends the audit entry atomically.
	// Fails with apperrors.ErrHasDependents when the target has provisioned
	// at least one account; the dependent count is checked inside the same
	// transaction as the delete.
	DeleteAccount(ctx context.Context, accountID string, entry domain.ActivityLogEntry) error
}

// AccountTransactionSupport defines operations that participate in a caller-owned transaction.
type AccountTransactionSupport interface {
	// FindAccountsByIDsForUpdate selects accounts and locks their rows for
	// update within a transaction. IDs are locked in sorted order.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error)

	// UpdateAccountBalancesInTx applies balance deltas to multiple accounts
	// within a given transaction.
	UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]int64, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}
