package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/cargoseal/cargoseal_backend/internal/core/domain"
	portsrepo "github.com/cargoseal/cargoseal_backend/internal/core/ports/repositories"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindCompanyAccount(ctx context.Context, companyID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindSystemAccount(ctx context.Context) (*domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, filter portsrepo.AccountListFilter, limit, offset int) ([]domain.Account, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Account), args.Get(1).(int64), args.Error(2)
}

func (m *MockAccountRepository) CountAccountsCreatedBy(ctx context.Context, accountID string) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account, entry domain.ActivityLogEntry) error {
	args := m.Called(ctx, account, entry)
	return args.Error(0)
}

func (m *MockAccountRepository) SaveCompanyWithAccount(ctx context.Context, company domain.Company, account domain.Account, entry domain.ActivityLogEntry) error {
	args := m.Called(ctx, company, account, entry)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, accountID string, entry domain.ActivityLogEntry) error {
	args := m.Called(ctx, accountID, entry)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]int64, userID string, now time.Time) error {
	args := m.Called(ctx, tx, balanceChanges, userID, now)
	return args.Error(0)
}

// MockCompanyRepository is a mock type for the CompanyRepositoryFacade interface
type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyRepository) ListCompanies(ctx context.Context, createdByAdminID *string, limit, offset int) ([]domain.Company, int64, error) {
	args := m.Called(ctx, createdByAdminID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Company), args.Get(1).(int64), args.Error(2)
}

// MockLedgerRepository is a mock type for the LedgerRepositoryFacade interface
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.CoinTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CoinTransaction), args.Error(1)
}

func (m *MockLedgerRepository) ListTransactions(ctx context.Context, filter portsrepo.TransactionListFilter, limit, offset int) ([]domain.CoinTransaction, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.CoinTransaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockLedgerRepository) SaveTransfer(ctx context.Context, txn domain.CoinTransaction, entry domain.ActivityLogEntry) error {
	args := m.Called(ctx, txn, entry)
	return args.Error(0)
}

// MockSessionRepository is a mock type for the SessionRepositoryFacade interface
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) FindSessionByID(ctx context.Context, sessionID string) (*domain.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionRepository) ListSessions(ctx context.Context, filter portsrepo.SessionListFilter, limit, offset int) ([]domain.Session, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Session), args.Get(1).(int64), args.Error(2)
}

func (m *MockSessionRepository) SaveSession(ctx context.Context, session domain.Session, seal *domain.Seal, debit domain.CoinTransaction, entry domain.ActivityLogEntry) error {
	args := m.Called(ctx, session, seal, debit, entry)
	return args.Error(0)
}

func (m *MockSessionRepository) AttachSeal(ctx context.Context, seal domain.Seal, entry domain.ActivityLogEntry) error {
	args := m.Called(ctx, seal, entry)
	return args.Error(0)
}

func (m *MockSessionRepository) VerifySeal(ctx context.Context, sessionID string, verifiedByID string, scannedAt time.Time, entry domain.ActivityLogEntry) error {
	args := m.Called(ctx, sessionID, verifiedByID, scannedAt, entry)
	return args.Error(0)
}

func (m *MockSessionRepository) SaveComment(ctx context.Context, comment domain.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

// MockActivityRepository is a mock type for the ActivityRepositoryFacade interface
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Record(ctx context.Context, entry domain.ActivityLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockActivityRepository) RecordInTx(ctx context.Context, tx pgx.Tx, entry domain.ActivityLogEntry) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

func (m *MockActivityRepository) ListActivity(ctx context.Context, filter portsrepo.ActivityListFilter, limit, offset int) ([]domain.ActivityLogEntry, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.ActivityLogEntry), args.Get(1).(int64), args.Error(2)
}

func stringPtr(s string) *string {
	return &s
}

func subrolePtr(s domain.Subrole) *domain.Subrole {
	return &s
}
