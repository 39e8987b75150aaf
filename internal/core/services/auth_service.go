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
	"github.com/cargoseal/cargoseal_backend/internal/platform/config"
	"github.com/cargoseal/cargoseal_backend/internal/utils"
)

// authService issues JWTs for password logins and records login/logout
// audit entries.
type authService struct {
	accountRepo  portsrepo.AccountRepositoryFacade
	activityRepo portsrepo.ActivityRepositoryFacade
	cfg          *config.Config
}

// NewAuthService creates a new auth service.
func NewAuthService(accountRepo portsrepo.AccountRepositoryFacade, activityRepo portsrepo.ActivityRepositoryFacade, cfg *config.Config) portssvc.AuthSvcFacade {
	return &authService{
		accountRepo:  accountRepo,
		activityRepo: activityRepo,
		cfg:          cfg,
	}
}

// Ensure authService implements the portssvc.AuthSvcFacade interface
var _ portssvc.AuthSvcFacade = (*authService)(nil)

// Login verifies credentials and issues a signed token. Unknown emails and
// wrong passwords both come back as ErrUnauthorized so the response does not
// reveal which accounts exist.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest, ipAddress, userAgent string) (*dto.LoginResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to find account by email: %w", err)
	}

	if !utils.CheckPasswordHash(req.Password, account.PasswordHash) {
		logger.Warn("Login rejected", slog.String("account_id", account.AccountID))
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	token, err := utils.GenerateJWT(account.AccountID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	now := time.Now().UTC()
	entry := domain.ActivityLogEntry{
		EntryID:   uuid.NewString(),
		ActorID:   account.AccountID,
		Action:    domain.ActionLogin,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		CreatedAt: now,
	}
	if err := s.activityRepo.Record(ctx, entry); err != nil {
		logger.Warn("Failed to record login", slog.String("account_id", account.AccountID), slog.String("error", err.Error()))
	}

	logger.Info("Login succeeded", slog.String("account_id", account.AccountID), slog.String("role", string(account.Role)))
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: now.Add(s.cfg.JWTExpiryDuration),
		Account:   dto.ToAccountResponse(account),
	}, nil
}

// Logout records a LOGOUT audit entry. Tokens are stateless so there is
// nothing to revoke server-side.
func (s *authService) Logout(ctx context.Context, actorID string, ipAddress, userAgent string) error {
	entry := domain.ActivityLogEntry{
		EntryID:   uuid.NewString(),
		ActorID:   actorID,
		Action:    domain.ActionLogout,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.activityRepo.Record(ctx, entry); err != nil {
		return fmt.Errorf("failed to record logout: %w", err)
	}
	return nil
}
