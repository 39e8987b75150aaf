package services

import (
	"context"

	"github.com/cargoseal/cargoseal_backend/internal/core/domain"
	"github.com/cargoseal/cargoseal_backend/internal/dto"
)

// LedgerWriterSvc defines the coin movement operations.
type LedgerWriterSvc interface {
	// TransferCoins moves coins from the actor to another account. Zero-sum:
	// the system-wide balance total is unchanged.
	TransferCoins(ctx context.Context, actorID string, req dto.TransferRequest) (*domain.CoinTransaction, error)

	// AllocateCoins is the privileged funding path: SuperAdmin to Admin, or
	// Admin to accounts within its creation subtree.
	AllocateCoins(ctx context.Context, actorID string, req dto.AllocateRequest) (*domain.CoinTransaction, error)
}

// LedgerReaderSvc defines read operations over coin transactions.
type LedgerReaderSvc interface {
	// GetTransaction retrieves one transaction the actor may see.
	GetTransaction(ctx context.Context, actorID string, transactionID string) (*domain.CoinTransaction, error)

	// ListTransactions retrieves an actor-scoped, paginated transaction list.
	ListTransactions(ctx context.Context, actorID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// LedgerSvcFacade combines all ledger-related service interfaces
type LedgerSvcFacade interface {
	LedgerWriterSvc
	LedgerReaderSvc
}
