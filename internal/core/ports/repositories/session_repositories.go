package repositories

import (
	"context"
	"time"

	"github.com/cargoseal/cargoseal_backend/internal/core/domain"
)

// SessionListFilter narrows ListSessions results. Nil fields are ignored.
type SessionListFilter struct {
	CompanyID   *string
	CreatedByID *string
	Status      *domain.SessionStatus
	// NeedsVerification restricts to IN_PROGRESS sessions with an unverified seal.
	NeedsVerification bool
	// VerifiedByID additionally includes sessions whose seal this account
	// verified (guard visibility).
	VerifiedByID *string
	// VisibleToAdminID restricts to sessions of companies whose representative
	// account the admin created.
	VisibleToAdminID *string
}

// SessionReader defines read operations for session data
type SessionReader interface {
	// FindSessionByID retrieves a session with its seal and comments.
	FindSessionByID(ctx context.Context, sessionID string) (*domain.Session, error)

	// ListSessions retrieves a filtered, paginated list of sessions with seals attached.
	ListSessions(ctx context.Context, filter SessionListFilter, limit, offset int) ([]domain.Session, int64, error)
}

// SessionWriter defines the atomic write paths for the session lifecycle.
type SessionWriter interface {
	// SaveSession creates a session, optionally its initial seal, the
	// one-coin debit transaction from the company account to the system
	// account, and the audit entry, all in one database transaction. The
	// company account row is locked before the balance check; a pool below
	// one coin fails with apperrors.ErrInsufficientBalance. A colliding seal
	// barcode fails with apperrors.ErrDuplicateBarcode.
	SaveSession(ctx context.Context, session domain.Session, seal *domain.Seal, debit domain.CoinTransaction, entry domain.ActivityLogEntry) error

	// AttachSeal inserts a seal for a pending session, moves the session to
	// IN_PROGRESS and appends the audit entry atomically.
	AttachSeal(ctx context.Context, seal domain.Seal, entry domain.ActivityLogEntry) error

	// VerifySeal marks the session's seal verified, moves the session to
	// COMPLETED and appends the audit entry atomically. A seal that is
	// already verified fails with apperrors.ErrAlreadyVerified and changes
	// nothing.
	VerifySeal(ctx context.Context, sessionID string, verifiedByID string, scannedAt time.Time, entry domain.ActivityLogEntry) error

	// SaveComment appends a comment to a session.
	SaveComment(ctx context.Context, comment domain.Comment) error
}

// SessionRepositoryFacade combines all session-related repository interfaces
type SessionRepositoryFacade interface {
	SessionReader
	SessionWriter
}
