package bootstrap

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
	"github.com/cargoseal/cargoseal_backend/internal/platform/config"
	"github.com/cargoseal/cargoseal_backend/internal/utils"
)

// SeedSuperAdmin provisions the system SuperAdmin account on first startup.
// The account carries the initial coin pool and receives every session-start
// debit. A second run is a no-op.
func SeedSuperAdmin(ctx context.Context, accountRepo portsrepo.AccountRepositoryFacade, cfg *config.Config, logger *slog.Logger) error {
	existing, err := accountRepo.FindSystemAccount(ctx)
	if err == nil {
		logger.Info("System account present", slog.String("account_id", existing.AccountID))
		return nil
	}
	if !errors.Is(err, apperrors.ErrNoSystemAccount) {
		return fmt.Errorf("failed to look up system account: %w", err)
	}

	if cfg.SuperAdminEmail == "" || cfg.SuperAdminPassword == "" {
		return fmt.Errorf("%w: SUPERADMIN_EMAIL and SUPERADMIN_PASSWORD must be set for first startup", apperrors.ErrValidation)
	}

	hash, err := utils.HashPassword(cfg.SuperAdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash superadmin password: %w", err)
	}

	now := time.Now().UTC()
	accountID := uuid.NewString()
	account := domain.Account{
		AccountID:    accountID,
		Name:         cfg.SuperAdminName,
		Email:        strings.ToLower(strings.TrimSpace(cfg.SuperAdminEmail)),
		PasswordHash: hash,
		Role:         domain.RoleSuperAdmin,
		CoinBalance:  cfg.InitialCoinPool,
		IsSystem:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     accountID,
			LastUpdatedAt: now,
			LastUpdatedBy: accountID,
		},
	}

	entry := domain.ActivityLogEntry{
		EntryID:    uuid.NewString(),
		ActorID:    accountID,
		Action:     domain.ActionCreate,
		TargetType: "account",
		TargetID:   &account.AccountID,
		Detail: map[string]any{
			"role":        string(domain.RoleSuperAdmin),
			"coinBalance": cfg.InitialCoinPool,
			"bootstrap":   true,
		},
		CreatedAt: now,
	}

	if err := accountRepo.SaveAccount(ctx, account, entry); err != nil {
		return fmt.Errorf("failed to seed superadmin account: %w", err)
	}

	logger.Info("System SuperAdmin seeded",
		slog.String("account_id", account.AccountID),
		slog.Int64("coin_balance", cfg.InitialCoinPool))
	return nil
}
