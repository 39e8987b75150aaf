package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cargoseal/cargoseal_backend/internal/apperrors"
	"github.com/cargoseal/cargoseal_backend/internal/core/domain"
	portsrepo "github.com/cargoseal/cargoseal_backend/internal/core/ports/repositories"
	"github.com/cargoseal/cargoseal_backend/internal/models"
)

const accountColumns = `account_id, name, email, password_hash, role, subrole, company_id, created_by_id, coin_balance, phone, address, is_system, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
	activityRepo portsrepo.ActivityRecorder
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool, activityRepo portsrepo.ActivityRecorder) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{
		BaseRepository: BaseRepository{Pool: pool},
		activityRepo:   activityRepo,
	}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

// Helper to convert domain.Account to models.Account for DB storage
func toModelAccount(d domain.Account) models.Account {
	m := models.Account{
		AccountID:    d.AccountID,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         string(d.Role),
		CompanyID:    d.CompanyID,
		CreatedByID:  d.CreatedByID,
		CoinBalance:  d.CoinBalance,
		Phone:        d.Phone,
		Address:      d.Address,
		IsSystem:     d.IsSystem,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
	if d.Subrole != nil {
		s := string(*d.Subrole)
		m.Subrole = &s
	}
	return m
}

// Helper to convert models.Account from DB to domain.Account
func toDomainAccount(m models.Account) domain.Account {
	d := domain.Account{
		AccountID:    m.AccountID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         domain.Role(m.Role),
		CompanyID:    m.CompanyID,
		CreatedByID:  m.CreatedByID,
		CoinBalance:  m.CoinBalance,
		Phone:        m.Phone,
		Address:      m.Address,
		IsSystem:     m.IsSystem,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
	if m.Subrole != nil {
		s := domain.Subrole(*m.Subrole)
		d.Subrole = &s
	}
	return d
}

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.Name,
		&m.Email,
		&m.PasswordHash,
		&m.Role,
		&m.Subrole,
		&m.CompanyID,
		&m.CreatedByID,
		&m.CoinBalance,
		&m.Phone,
		&m.Address,
		&m.IsSystem,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxAccountRepository) insertAccountTx(ctx context.Context, tx pgx.Tx, account domain.Account) error {
	m := toModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := tx.Exec(ctx, query,
		m.AccountID,
		m.Name,
		m.Email,
		m.PasswordHash,
		m.Role,
		m.Subrole,
		m.CompanyID,
		m.CreatedByID,
		m.CoinBalance,
		m.Phone,
		m.Address,
		m.IsSystem,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: account with email %s already exists", apperrors.ErrDuplicate, m.Email)
		}
		return fmt.Errorf("failed to insert account %s: %w", m.AccountID, err)
	}
	return nil
}

// SaveAccount inserts a new account and its audit entry in one transaction.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account, entry domain.ActivityLogEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.insertAccountTx(ctx, tx, account); err != nil {
		return err
	}
	if err := r.activityRepo.RecordInTx(ctx, tx, entry); err != nil {
		return apperrors.NewAppError(500, "failed to record account creation", err)
	}
	return r.Commit(ctx, tx)
}

// SaveCompanyWithAccount inserts the company row, its representative account
// and the audit entry in one transaction.
func (r *PgxAccountRepository) SaveCompanyWithAccount(ctx context.Context, company domain.Company, account domain.Account, entry domain.ActivityLogEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	companyQuery := `
		INSERT INTO companies (company_id, name, contact_email, phone, address, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = tx.Exec(ctx, companyQuery,
		company.CompanyID,
		company.Name,
		company.ContactEmail,
		company.Phone,
		company.Address,
		company.CreatedAt,
		company.CreatedBy,
		company.LastUpdatedAt,
		company.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: company %s already exists", apperrors.ErrDuplicate, company.CompanyID)
		}
		return fmt.Errorf("failed to insert company %s: %w", company.CompanyID, err)
	}

	if err := r.insertAccountTx(ctx, tx, account); err != nil {
		return err
	}
	if err := r.activityRepo.RecordInTx(ctx, tx, entry); err != nil {
		return apperrors.NewAppError(500, "failed to record company creation", err)
	}
	return r.Commit(ctx, tx)
}

// DeleteAccount removes an account after re-checking, inside the transaction,
// that nothing still names it as provisioning parent.
func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, accountID string, entry domain.ActivityLogEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var dependents int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM accounts WHERE created_by_id = $1;`, accountID).Scan(&dependents); err != nil {
		return apperrors.NewAppError(500, "failed to count dependent accounts", err)
	}
	if dependents > 0 {
		return fmt.Errorf("%w: account %s has %d dependent accounts", apperrors.ErrHasDependents, accountID, dependents)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM accounts WHERE account_id = $1;`, accountID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete account "+accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}

	if err := r.activityRepo.RecordInTx(ctx, tx, entry); err != nil {
		return apperrors.NewAppError(500, "failed to record account deletion", err)
	}
	return r.Commit(ctx, tx)
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`

	m, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	acc := toDomainAccount(m)
	return &acc, nil
}

// FindAccountByEmail retrieves an account by its login email.
func (r *PgxAccountRepository) FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1;`

	m, err := scanAccount(r.Pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by email: %w", err)
	}
	acc := toDomainAccount(m)
	return &acc, nil
}

// FindCompanyAccount retrieves the representative COMPANY-role account for a company.
func (r *PgxAccountRepository) FindCompanyAccount(ctx context.Context, companyID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE company_id = $1 AND role = 'COMPANY';`

	m, err := scanAccount(r.Pool.QueryRow(ctx, query, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find company account for %s: %w", companyID, err)
	}
	acc := toDomainAccount(m)
	return &acc, nil
}

// FindSystemAccount retrieves the designated system account.
func (r *PgxAccountRepository) FindSystemAccount(ctx context.Context) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE is_system = TRUE ORDER BY created_at LIMIT 1;`

	m, err := scanAccount(r.Pool.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNoSystemAccount
		}
		return nil, fmt.Errorf("failed to find system account: %w", err)
	}
	acc := toDomainAccount(m)
	return &acc, nil
}

// ListAccounts retrieves a filtered, paginated list of accounts.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, filter portsrepo.AccountListFilter, limit, offset int) ([]domain.Account, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	where := "WHERE 1=1"
	args := []any{}
	argN := 1
	addArg := func(clause string, value any) {
		where += fmt.Sprintf(" AND "+clause, argN)
		args = append(args, value)
		argN++
	}

	if filter.Role != nil {
		addArg("role = $%d", string(*filter.Role))
	}
	if filter.CompanyID != nil {
		addArg("company_id = $%d", *filter.CompanyID)
	}
	if filter.CreatedByID != nil {
		addArg("created_by_id = $%d", *filter.CreatedByID)
	}
	if filter.VisibleToAdminID != nil {
		// Admin subtree: direct children plus members of companies whose
		// representative account the admin created.
		where += fmt.Sprintf(" AND (created_by_id = $%d OR company_id IN (SELECT company_id FROM accounts WHERE role = 'COMPANY' AND created_by_id = $%d))", argN, argN)
		args = append(args, *filter.VisibleToAdminID)
		argN++
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM accounts ` + where + `;`
	if err := r.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count accounts: %w", err)
	}

	query := `SELECT ` + accountColumns + ` FROM accounts ` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d;`, argN, argN+1)
	args = append(args, limit, offset)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, toDomainAccount(m))
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, total, nil
}

// CountAccountsCreatedBy returns how many accounts name the given account as
// their provisioning parent.
func (r *PgxAccountRepository) CountAccountsCreatedBy(ctx context.Context, accountID string) (int64, error) {
	var count int64
	err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM accounts WHERE created_by_id = $1;`, accountID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count accounts created by %s: %w", accountID, err)
	}
	return count, nil
}

// FindAccountsByIDsForUpdate locks account rows inside the caller's
// transaction. IDs are locked in sorted order so concurrent movements over
// the same accounts cannot deadlock each other.
func (r *PgxAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	sorted := make([]string, len(accountIDs))
	copy(sorted, accountIDs)
	sort.Strings(sorted)

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, sorted)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts for update: %w", err)
	}
	defer rows.Close()

	accountsMap := make(map[string]domain.Account, len(sorted))
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked account row: %w", err)
		}
		accountsMap[m.AccountID] = toDomainAccount(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked account rows: %w", err)
	}

	for _, id := range sorted {
		if _, ok := accountsMap[id]; !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
	}
	return accountsMap, nil
}

// UpdateAccountBalancesInTx applies balance deltas within the caller's
// transaction. Rows must already be locked via FindAccountsByIDsForUpdate.
func (r *PgxAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]int64, userID string, now time.Time) error {
	ids := make([]string, 0, len(balanceChanges))
	for id := range balanceChanges {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	query := `
		UPDATE accounts
		SET coin_balance = coin_balance + $1, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $4;
	`
	for _, id := range ids {
		tag, err := tx.Exec(ctx, query, balanceChanges[id], now, userID, id)
		if err != nil {
			return fmt.Errorf("failed to update balance for account %s: %w", id, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
	}
	return nil
}
