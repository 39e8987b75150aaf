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

// sessionCost is the coin price of starting a shipment session, debited from
// the company account into the system account.
const sessionCost int64 = 1

// sessionService implements the shipment session lifecycle:
// PENDING -> IN_PROGRESS (seal attached) -> COMPLETED (seal verified).
type sessionService struct {
	accountRepo  portsrepo.AccountRepositoryFacade
	sessionRepo  portsrepo.SessionRepositoryFacade
	activityRepo portsrepo.ActivityRepositoryFacade
}

// NewSessionService creates a new session service.
func NewSessionService(accountRepo portsrepo.AccountRepositoryFacade, sessionRepo portsrepo.SessionRepositoryFacade, activityRepo portsrepo.ActivityRepositoryFacade) portssvc.SessionSvcFacade {
	return &sessionService{
		accountRepo:  accountRepo,
		sessionRepo:  sessionRepo,
		activityRepo: activityRepo,
	}
}

// Ensure sessionService implements the portssvc.SessionSvcFacade interface
var _ portssvc.SessionSvcFacade = (*sessionService)(nil)

// CreateSession starts a shipment session for the operator's company. The
// session row, the optional initial seal, the one-coin debit into the system
// account and the audit entry commit as one unit.
func (s *sessionService) CreateSession(ctx context.Context, actorID string, req dto.CreateSessionRequest) (*domain.Session, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	actor, err := s.accountRepo.FindAccountByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve actor %s: %w", actorID, err)
	}
	if !actor.IsOperator() {
		return nil, fmt.Errorf("%w: only operators start sessions", apperrors.ErrForbidden)
	}
	if actor.CompanyID == nil {
		return nil, fmt.Errorf("%w: operator %s has no company", apperrors.ErrValidation, actorID)
	}

	companyAcc, err := s.accountRepo.FindCompanyAccount(ctx, *actor.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve company account for %s: %w", *actor.CompanyID, err)
	}
	systemAcc, err := s.accountRepo.FindSystemAccount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve system account: %w", err)
	}

	// Pre-check; the repository locks the company row and re-checks before
	// the debit.
	if companyAcc.CoinBalance < sessionCost {
		return nil, fmt.Errorf("%w: company pool holds %d coins", apperrors.ErrInsufficientBalance, companyAcc.CoinBalance)
	}

	now := time.Now().UTC()
	session := domain.Session{
		SessionID:   uuid.NewString(),
		CompanyID:   *actor.CompanyID,
		CreatedByID: actor.AccountID,
		Source:      req.Source,
		Destination: req.Destination,
		Status:      domain.SessionPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.AccountID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.AccountID,
		},
	}

	var seal *domain.Seal
	if req.Barcode != nil && *req.Barcode != "" {
		session.Status = domain.SessionInProgress
		seal = &domain.Seal{
			SealID:    uuid.NewString(),
			SessionID: session.SessionID,
			Barcode:   *req.Barcode,
			CreatedAt: now,
			CreatedBy: actor.AccountID,
		}
	}

	debit := domain.CoinTransaction{
		TransactionID: uuid.NewString(),
		FromAccountID: companyAcc.AccountID,
		ToAccountID:   systemAcc.AccountID,
		Amount:        sessionCost,
		Reason:        domain.ReasonSessionStart,
		Note:          fmt.Sprintf("session %s", session.SessionID),
		CreatedAt:     now,
		CreatedBy:     actor.AccountID,
	}

	detail := map[string]any{
		"source":      req.Source,
		"destination": req.Destination,
		"cost":        sessionCost,
	}
	if len(req.TripDetails) > 0 {
		detail["tripDetails"] = req.TripDetails
	}
	entry := domain.ActivityLogEntry{
		EntryID:    uuid.NewString(),
		ActorID:    actor.AccountID,
		Action:     domain.ActionCreate,
		TargetType: "session",
		TargetID:   &session.SessionID,
		Detail:     detail,
		CreatedAt:  now,
	}

	if err := s.sessionRepo.SaveSession(ctx, session, seal, debit, entry); err != nil {
		logger.Error("Failed to save session", slog.String("session_id", session.SessionID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	session.Seal = seal
	logger.Info("Session created",
		slog.String("session_id", session.SessionID),
		slog.String("company_id", session.CompanyID),
		slog.String("status", string(session.Status)))
	return &session, nil
}

// AttachSeal seals a pending session. Only the operator who created the
// session may seal it.
func (s *sessionService) AttachSeal(ctx context.Context, actorID string, sessionID string, req dto.AttachSealRequest) (*domain.Seal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	session, err := s.sessionRepo.FindSessionByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session %s: %w", sessionID, err)
	}
	if session.CreatedByID != actorID {
		return nil, fmt.Errorf("%w: only the session creator attaches its seal", apperrors.ErrForbidden)
	}
	if session.Status != domain.SessionPending || session.Seal != nil {
		return nil, fmt.Errorf("%w: session %s", apperrors.ErrAlreadySealed, sessionID)
	}

	now := time.Now().UTC()
	seal := domain.Seal{
		SealID:    uuid.NewString(),
		SessionID: sessionID,
		Barcode:   req.Barcode,
		CreatedAt: now,
		CreatedBy: actorID,
	}
	entry := domain.ActivityLogEntry{
		EntryID:    uuid.NewString(),
		ActorID:    actorID,
		Action:     domain.ActionUpdate,
		TargetType: "session",
		TargetID:   &sessionID,
		Detail: map[string]any{
			"event":   "seal_attached",
			"barcode": req.Barcode,
		},
		CreatedAt: now,
	}

	if err := s.sessionRepo.AttachSeal(ctx, seal, entry); err != nil {
		logger.Error("Failed to attach seal", slog.String("session_id", sessionID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to attach seal: %w", err)
	}

	logger.Info("Seal attached", slog.String("session_id", sessionID), slog.String("seal_id", seal.SealID))
	return &seal, nil
}

// VerifySeal records a guard's verification of the session's seal and
// completes the session. Verification happens at most once; a second attempt
// fails without touching the recorded scan.
func (s *sessionService) VerifySeal(ctx context.Context, actorID string, sessionID string, req dto.VerifySealRequest) (*domain.Session, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	actor, err := s.accountRepo.FindAccountByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve actor %s: %w", actorID, err)
	}
	if !actor.IsGuard() {
		return nil, fmt.Errorf("%w: only guards verify seals", apperrors.ErrForbidden)
	}

	session, err := s.sessionRepo.FindSessionByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session %s: %w", sessionID, err)
	}
	if actor.CompanyID == nil || *actor.CompanyID != session.CompanyID {
		return nil, fmt.Errorf("%w: guard belongs to a different company", apperrors.ErrForbidden)
	}
	if session.Seal == nil {
		return nil, fmt.Errorf("%w: session %s has no seal to verify", apperrors.ErrConflict, sessionID)
	}
	if session.Seal.Verified {
		return nil, fmt.Errorf("%w: seal on session %s", apperrors.ErrAlreadyVerified, sessionID)
	}
	if session.Status != domain.SessionInProgress {
		return nil, fmt.Errorf("%w: session %s is %s", apperrors.ErrConflict, sessionID, session.Status)
	}

	now := time.Now().UTC()
	checks := make([]map[string]any, 0, len(req.Checks))
	for _, c := range req.Checks {
		checks = append(checks, map[string]any{
			"field":         c.Field,
			"operatorValue": c.OperatorValue,
			"guardValue":    c.GuardValue,
			"match":         c.OperatorValue == c.GuardValue,
		})
	}
	entry := domain.ActivityLogEntry{
		EntryID:    uuid.NewString(),
		ActorID:    actorID,
		Action:     domain.ActionUpdate,
		TargetType: "session",
		TargetID:   &sessionID,
		Detail: map[string]any{
			"event":   "seal_verified",
			"barcode": session.Seal.Barcode,
			"checks":  checks,
		},
		CreatedAt: now,
	}

	if err := s.sessionRepo.VerifySeal(ctx, sessionID, actorID, now, entry); err != nil {
		logger.Error("Failed to verify seal", slog.String("session_id", sessionID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to verify seal: %w", err)
	}

	session.Status = domain.SessionCompleted
	session.Seal.Verified = true
	session.Seal.VerifiedByID = &actorID
	session.Seal.ScannedAt = &now
	session.LastUpdatedAt = now
	session.LastUpdatedBy = actorID

	logger.Info("Seal verified", slog.String("session_id", sessionID), slog.String("guard_id", actorID))
	return session, nil
}

// canViewSession applies the role visibility matrix to one session.
func (s *sessionService) canViewSession(ctx context.Context, actor *domain.Account, session *domain.Session) (bool, error) {
	switch actor.Role {
	case domain.RoleSuperAdmin:
		return true, nil
	case domain.RoleAdmin:
		companyAcc, err := s.accountRepo.FindCompanyAccount(ctx, session.CompanyID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return false, nil
			}
			return false, err
		}
		return companyAcc.CreatedByID != nil && *companyAcc.CreatedByID == actor.AccountID, nil
	case domain.RoleCompany:
		return actor.CompanyID != nil && *actor.CompanyID == session.CompanyID, nil
	case domain.RoleEmployee:
		if actor.IsGuard() {
			if actor.CompanyID == nil || *actor.CompanyID != session.CompanyID {
				return false, nil
			}
			if session.Status == domain.SessionInProgress && session.Seal != nil && !session.Seal.Verified {
				return true, nil
			}
			return session.Seal != nil && session.Seal.VerifiedByID != nil && *session.Seal.VerifiedByID == actor.AccountID, nil
		}
		return session.CreatedByID == actor.AccountID, nil
	}
	return false, nil
}

// GetSession retrieves a session the actor may see and records a VIEW audit
// entry. The view entry is best-effort ordering-wise but always a single row.
func (s *sessionService) GetSession(ctx context.Context, actorID string, sessionID string) (*domain.Session, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	actor, err := s.accountRepo.FindAccountByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve actor %s: %w", actorID, err)
	}
	session, err := s.sessionRepo.FindSessionByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session %s: %w", sessionID, err)
	}

	ok, err := s.canViewSession(ctx, actor, session)
	if err != nil {
		return nil, fmt.Errorf("failed to check session visibility: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: session %s is not visible to the caller", apperrors.ErrForbidden, sessionID)
	}

	entry := domain.ActivityLogEntry{
		EntryID:    uuid.NewString(),
		ActorID:    actorID,
		Action:     domain.ActionView,
		TargetType: "session",
		TargetID:   &sessionID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.activityRepo.Record(ctx, entry); err != nil {
		logger.Warn("Failed to record session view", slog.String("session_id", sessionID), slog.String("error", err.Error()))
	}

	return session, nil
}

// ListSessions retrieves sessions per the role visibility matrix.
func (s *sessionService) ListSessions(ctx context.Context, actorID string, params dto.ListSessionsParams) (*dto.ListSessionsResponse, error) {
	actor, err := s.accountRepo.FindAccountByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve actor %s: %w", actorID, err)
	}

	page, limit, offset := dto.NormalizePage(params.Page, params.Limit)

	filter := portsrepo.SessionListFilter{
		NeedsVerification: params.NeedsVerification,
	}
	if params.Status != "" {
		status := domain.SessionStatus(params.Status)
		filter.Status = &status
	}
	if params.CompanyID != "" {
		filter.CompanyID = &params.CompanyID
	}

	switch actor.Role {
	case domain.RoleSuperAdmin:
		// No scoping; optional filters apply as-is.
	case domain.RoleAdmin:
		filter.VisibleToAdminID = &actor.AccountID
	case domain.RoleCompany:
		filter.CompanyID = actor.CompanyID
	case domain.RoleEmployee:
		if actor.IsGuard() {
			filter.CompanyID = actor.CompanyID
			filter.NeedsVerification = true
			filter.VerifiedByID = &actor.AccountID
		} else {
			filter.CreatedByID = &actor.AccountID
		}
	default:
		return nil, fmt.Errorf("%w: role %s may not list sessions", apperrors.ErrForbidden, actor.Role)
	}

	sessions, total, err := s.sessionRepo.ListSessions(ctx, filter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	resp := &dto.ListSessionsResponse{
		Sessions:   make([]dto.SessionResponse, 0, len(sessions)),
		Pagination: dto.NewPagination(page, limit, total),
	}
	for i := range sessions {
		resp.Sessions = append(resp.Sessions, dto.ToSessionResponse(&sessions[i]))
	}
	return resp, nil
}

// AddComment appends an annotation to a session the actor may see.
func (s *sessionService) AddComment(ctx context.Context, actorID string, sessionID string, req dto.CreateCommentRequest) (*domain.Comment, error) {
	actor, err := s.accountRepo.FindAccountByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve actor %s: %w", actorID, err)
	}
	session, err := s.sessionRepo.FindSessionByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session %s: %w", sessionID, err)
	}

	ok, err := s.canViewSession(ctx, actor, session)
	if err != nil {
		return nil, fmt.Errorf("failed to check session visibility: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: session %s is not visible to the caller", apperrors.ErrForbidden, sessionID)
	}

	comment := domain.Comment{
		CommentID: uuid.NewString(),
		SessionID: sessionID,
		AuthorID:  actorID,
		Message:   req.Message,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.sessionRepo.SaveComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to save comment: %w", err)
	}
	return &comment, nil
}
