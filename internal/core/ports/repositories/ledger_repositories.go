package repositories

import (
	"context"
	"time"

	"github.com/cargoseal/cargoseal_backend/internal/core/domain"
)

// TransactionListFilter narrows ListTransactions results. Nil fields are ignored.
type TransactionListFilter struct {
	AccountID *string // Matches either side of the movement
	Reason    *domain.TransactionReason
	FromDate  *time.Time
	ToDate    *time.Time
}

// LedgerReader defines read operations for coin transaction data
type LedgerReader interface {
	// FindTransactionByID retrieves a coin transaction by its identifier.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.CoinTransaction, error)

	// ListTransactions retrieves a filtered, paginated list of coin transactions.
	ListTransactions(ctx context.Context, filter TransactionListFilter, limit, offset int) ([]domain.CoinTransaction, int64, error)
}

// LedgerWriter defines the single atomic write path for coin movements.
type LedgerWriter interface {
	// SaveTransfer moves txn.Amount coins from txn.FromAccountID to
	// txn.ToAccountID, inserts the immutable transaction row and appends the
	// audit entry, all in one database transaction. Both account rows are
	// locked before the balance re-check; a source balance below the amount
	// fails with apperrors.ErrInsufficientBalance and commits nothing.
	SaveTransfer(ctx context.Context, txn domain.CoinTransaction, entry domain.ActivityLogEntry) error
}

// LedgerRepositoryFacade combines all ledger-related repository interfaces
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
