package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cargoseal/cargoseal_backend/internal/apperrors"
	"github.com/cargoseal/cargoseal_backend/internal/core/domain"
	portsrepo "github.com/cargoseal/cargoseal_backend/internal/core/ports/repositories"
	"github.com/cargoseal/cargoseal_backend/internal/models"
)

const transactionColumns = `transaction_id, from_account_id, to_account_id, amount, reason, note, created_at, created_by`

const insertTransactionQuery = `
	INSERT INTO coin_transactions (` + transactionColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
`

type PgxLedgerRepository struct {
	BaseRepository
	accountRepo  portsrepo.AccountRepositoryFacade
	activityRepo portsrepo.ActivityRecorder
}

// newPgxLedgerRepository creates a new repository for coin movement data.
func newPgxLedgerRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade, activityRepo portsrepo.ActivityRecorder) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
		activityRepo:   activityRepo,
	}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

func toDomainTransaction(m models.CoinTransaction) domain.CoinTransaction {
	return domain.CoinTransaction{
		TransactionID: m.TransactionID,
		FromAccountID: m.FromAccountID,
		ToAccountID:   m.ToAccountID,
		Amount:        m.Amount,
		Reason:        domain.TransactionReason(m.Reason),
		Note:          m.Note,
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
	}
}

func scanTransaction(row pgx.Row) (models.CoinTransaction, error) {
	var m models.CoinTransaction
	err := row.Scan(
		&m.TransactionID,
		&m.FromAccountID,
		&m.ToAccountID,
		&m.Amount,
		&m.Reason,
		&m.Note,
		&m.CreatedAt,
		&m.CreatedBy,
	)
	return m, err
}

// insertTransferTx executes the shared atomic unit inside the given
// transaction: lock both accounts, re-check the source balance, apply the
// deltas, insert the immutable transaction row and append the audit entry.
func insertTransferTx(ctx context.Context, tx pgx.Tx, accountRepo portsrepo.AccountTransactionSupport, activityRepo portsrepo.ActivityRecorder, txn domain.CoinTransaction, entry domain.ActivityLogEntry) error {
	locked, err := accountRepo.FindAccountsByIDsForUpdate(ctx, tx, []string{txn.FromAccountID, txn.ToAccountID})
	if err != nil {
		return err
	}

	source := locked[txn.FromAccountID]
	if source.CoinBalance < txn.Amount {
		return fmt.Errorf("%w: balance %d, requested %d", apperrors.ErrInsufficientBalance, source.CoinBalance, txn.Amount)
	}

	balanceChanges := map[string]int64{
		txn.FromAccountID: -txn.Amount,
		txn.ToAccountID:   txn.Amount,
	}
	if err := accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, txn.CreatedBy, txn.CreatedAt); err != nil {
		return err
	}

	_, err = tx.Exec(ctx, insertTransactionQuery,
		txn.TransactionID,
		txn.FromAccountID,
		txn.ToAccountID,
		txn.Amount,
		string(txn.Reason),
		txn.Note,
		txn.CreatedAt,
		txn.CreatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicate, txn.TransactionID)
		}
		return apperrors.NewAppError(500, "failed to insert transaction "+txn.TransactionID, err)
	}

	return activityRepo.RecordInTx(ctx, tx, entry)
}

// SaveTransfer moves coins between two accounts as one database transaction.
func (r *PgxLedgerRepository) SaveTransfer(ctx context.Context, txn domain.CoinTransaction, entry domain.ActivityLogEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertTransferTx(ctx, tx, r.accountRepo, r.activityRepo, txn, entry); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// FindTransactionByID retrieves a coin transaction by its ID.
func (r *PgxLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.CoinTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM coin_transactions WHERE transaction_id = $1;`

	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}
	txn := toDomainTransaction(m)
	return &txn, nil
}

// ListTransactions retrieves a filtered, paginated list of coin transactions.
func (r *PgxLedgerRepository) ListTransactions(ctx context.Context, filter portsrepo.TransactionListFilter, limit, offset int) ([]domain.CoinTransaction, int64, error) {
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

	if filter.AccountID != nil {
		where += fmt.Sprintf(" AND (from_account_id = $%d OR to_account_id = $%d)", argN, argN)
		args = append(args, *filter.AccountID)
		argN++
	}
	if filter.Reason != nil {
		addArg("reason = $%d", string(*filter.Reason))
	}
	if filter.FromDate != nil {
		addArg("created_at >= $%d", *filter.FromDate)
	}
	if filter.ToDate != nil {
		addArg("created_at <= $%d", *filter.ToDate)
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM coin_transactions ` + where + `;`
	if err := r.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	query := `SELECT ` + transactionColumns + ` FROM coin_transactions ` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d;`, argN, argN+1)
	args = append(args, limit, offset)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	txns := []domain.CoinTransaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, toDomainTransaction(m))
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return txns, total, nil
}
