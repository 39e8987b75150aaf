package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cargoseal/cargoseal_backend/internal/apperrors"
	"github.com/cargoseal/cargoseal_backend/internal/core/domain"
	portsrepo "github.com/cargoseal/cargoseal_backend/internal/core/ports/repositories"
	portssvc "github.com/cargoseal/cargoseal_backend/internal/core/ports/services"
	"github.com/cargoseal/cargoseal_backend/internal/dto"
	"github.com/cargoseal/cargoseal_backend/internal/middleware"
)

// ledgerService provides the coin movement operations. Transfers are
// zero-sum; allocations fund accounts from a privileged parent. Both paths
// share one atomic move-record-audit primitive in the repository.
type ledgerService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	ledgerRepo  portsrepo.LedgerRepositoryFacade
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(accountRepo portsrepo.AccountRepositoryFacade, ledgerRepo portsrepo.LedgerRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
	}
}

// Ensure ledgerService implements the portssvc.LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// validateMovement applies the preconditions shared by transfers and
// allocations and returns the resolved actor and recipient accounts.
func (s *ledgerService) validateMovement(ctx context.Context, actorID, toAccountID string, amount int64) (*domain.Account, *domain.Account, error) {
	if amount <= 0 {
		return nil, nil, fmt.Errorf("%w: got %d", apperrors.ErrInvalidAmount, amount)
	}
	if toAccountID == actorID {
		return nil, nil, apperrors.ErrSelfTransfer
	}

	actor, err := s.accountRepo.FindAccountByID(ctx, actorID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve actor %s: %w", actorID, err)
	}

	recipient, err := s.accountRepo.FindAccountByID(ctx, toAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: recipient account %s", apperrors.ErrNotFound, toAccountID)
		}
		return nil, nil, fmt.Errorf("failed to resolve recipient %s: %w", toAccountID, err)
	}

	// Pre-check only; the repository re-checks the balance after locking the
	// row, which is what actually prevents concurrent overdraw.
	if actor.CoinBalance < amount {
		return nil, nil, fmt.Errorf("%w: balance %d, requested %d", apperrors.ErrInsufficientBalance, actor.CoinBalance, amount)
	}

	return actor, recipient, nil
}

// TransferCoins moves coins from the actor to another account. Any
// authenticated account may transfer from its own balance.
func (s *ledgerService) TransferCoins(ctx context.Context, actorID string, req dto.TransferRequest) (*domain.CoinTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	actor, _, err := s.validateMovement(ctx, actorID, req.ToAccountID, req.Amount)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txn := domain.CoinTransaction{
		TransactionID: uuid.NewString(),
		FromAccountID: actor.AccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        req.Amount,
		Reason:        domain.ReasonTransfer,
		Note:          req.Note,
		CreatedAt:     now,
		CreatedBy:     actor.AccountID,
	}

	entry := domain.ActivityLogEntry{
		EntryID:         uuid.NewString(),
		ActorID:         actor.AccountID,
		Action:          domain.ActionTransfer,
		TargetAccountID: &req.ToAccountID,
		TargetType:      "transaction",
		TargetID:        &txn.TransactionID,
		Detail: map[string]any{
			"amount": req.Amount,
			"reason": string(domain.ReasonTransfer),
		},
		CreatedAt: now,
	}

	if err := s.ledgerRepo.SaveTransfer(ctx, txn, entry); err != nil {
		logger.Error("Failed to save transfer", slog.String("transaction_id", txn.TransactionID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to transfer coins: %w", err)
	}

	logger.Info("Coins transferred",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("to_account_id", req.ToAccountID),
		slog.Int64("amount", req.Amount))
	return &txn, nil
}

// inCreationSubtree reports whether the recipient was provisioned by the
// admin, either directly or through a company whose representative account
// the admin created.
func (s *ledgerService) inCreationSubtree(ctx context.Context, adminID string, recipient *domain.Account) (bool, error) {
	if recipient.CreatedByID != nil && *recipient.CreatedByID == adminID {
		return true, nil
	}
	if recipient.Role == domain.RoleEmployee && recipient.CompanyID != nil {
		companyAcc, err := s.accountRepo.FindCompanyAccount(ctx, *recipient.CompanyID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return false, nil
			}
			return false, err
		}
		return companyAcc.CreatedByID != nil && *companyAcc.CreatedByID == adminID, nil
	}
	return false, nil
}

// AllocateCoins is the privileged funding path. SuperAdmins allocate only to
// Admins; Admins allocate only within their creation subtree.
func (s *ledgerService) AllocateCoins(ctx context.Context, actorID string, req dto.AllocateRequest) (*domain.CoinTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	actor, recipient, err := s.validateMovement(ctx, actorID, req.ToAccountID, req.Amount)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case domain.RoleSuperAdmin:
		if recipient.Role != domain.RoleAdmin {
			return nil, fmt.Errorf("%w: superadmins allocate only to admin accounts", apperrors.ErrForbidden)
		}
	case domain.RoleAdmin:
		if recipient.Role != domain.RoleCompany && recipient.Role != domain.RoleEmployee {
			return nil, fmt.Errorf("%w: admins allocate only to company or employee accounts", apperrors.ErrForbidden)
		}
		ok, err := s.inCreationSubtree(ctx, actor.AccountID, recipient)
		if err != nil {
			return nil, fmt.Errorf("failed to trace creation subtree: %w", err)
		}
		if !ok {
			logger.Warn("Allocation outside creation subtree rejected",
				slog.String("recipient_id", recipient.AccountID))
			return nil, fmt.Errorf("%w: account %s was not created by this admin", apperrors.ErrForbidden, recipient.AccountID)
		}
	default:
		return nil, fmt.Errorf("%w: role %s may not allocate coins", apperrors.ErrForbidden, actor.Role)
	}

	now := time.Now().UTC()
	txn := domain.CoinTransaction{
		TransactionID: uuid.NewString(),
		FromAccountID: actor.AccountID,
		ToAccountID:   recipient.AccountID,
		Amount:        req.Amount,
		Reason:        domain.ReasonCoinAllocation,
		Note:          req.Note,
		CreatedAt:     now,
		CreatedBy:     actor.AccountID,
	}

	entry := domain.ActivityLogEntry{
		EntryID:         uuid.NewString(),
		ActorID:         actor.AccountID,
		Action:          domain.ActionAllocate,
		TargetAccountID: &recipient.AccountID,
		TargetType:      "transaction",
		TargetID:        &txn.TransactionID,
		Detail: map[string]any{
			"amount": req.Amount,
			"reason": string(domain.ReasonCoinAllocation),
		},
		CreatedAt: now,
	}

	if err := s.ledgerRepo.SaveTransfer(ctx, txn, entry); err != nil {
		logger.Error("Failed to save allocation", slog.String("transaction_id", txn.TransactionID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to allocate coins: %w", err)
	}

	logger.Info("Coins allocated",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("to_account_id", recipient.AccountID),
		slog.Int64("amount", req.Amount))
	return &txn, nil
}

// GetTransaction retrieves one transaction the actor may see: a party to the
// movement, a SuperAdmin, or an Admin whose subtree contains either side.
func (s *ledgerService) GetTransaction(ctx context.Context, actorID string, transactionID string) (*domain.CoinTransaction, error) {
	txn, err := s.ledgerRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}

	if txn.FromAccountID == actorID || txn.ToAccountID == actorID {
		return txn, nil
	}

	actor, err := s.accountRepo.FindAccountByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve actor %s: %w", actorID, err)
	}
	if actor.Role == domain.RoleSuperAdmin {
		return txn, nil
	}
	if actor.Role == domain.RoleAdmin {
		for _, side := range []string{txn.FromAccountID, txn.ToAccountID} {
			acc, err := s.accountRepo.FindAccountByID(ctx, side)
			if err != nil {
				continue
			}
			ok, err := s.inCreationSubtree(ctx, actor.AccountID, acc)
			if err == nil && ok {
				return txn, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: transaction %s is not visible to the caller", apperrors.ErrForbidden, transactionID)
}

// ListTransactions retrieves an actor-scoped, paginated transaction list.
// Non-privileged callers are pinned to their own account.
func (s *ledgerService) ListTransactions(ctx context.Context, actorID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	actor, err := s.accountRepo.FindAccountByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve actor %s: %w", actorID, err)
	}

	page, limit, offset := dto.NormalizePage(params.Page, params.Limit)

	filter := portsrepo.TransactionListFilter{
		FromDate: params.FromDate,
		ToDate:   params.ToDate,
	}
	if params.Reason != "" {
		reason := domain.TransactionReason(params.Reason)
		filter.Reason = &reason
	}

	switch actor.Role {
	case domain.RoleSuperAdmin:
		if params.AccountID != "" {
			filter.AccountID = &params.AccountID
		}
	case domain.RoleAdmin:
		accountID := actor.AccountID
		if params.AccountID != "" && params.AccountID != actor.AccountID {
			target, err := s.accountRepo.FindAccountByID(ctx, params.AccountID)
			if err != nil {
				return nil, fmt.Errorf("failed to find account %s: %w", params.AccountID, err)
			}
			ok, err := s.inCreationSubtree(ctx, actor.AccountID, target)
			if err != nil {
				return nil, fmt.Errorf("failed to trace creation subtree: %w", err)
			}
			if !ok {
				return nil, fmt.Errorf("%w: account %s is outside the caller's subtree", apperrors.ErrForbidden, params.AccountID)
			}
			accountID = params.AccountID
		}
		filter.AccountID = &accountID
	default:
		accountID := actor.AccountID
		filter.AccountID = &accountID
	}

	txns, total, err := s.ledgerRepo.ListTransactions(ctx, filter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		Pagination:   dto.NewPagination(page, limit, total),
	}, nil
}
