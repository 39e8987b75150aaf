package services

import (
	"context"

	"github.com/cargoseal/cargoseal_backend/internal/core/domain"
	"github.com/cargoseal/cargoseal_backend/internal/dto"
)

// SessionWriterSvc defines the session lifecycle operations.
type SessionWriterSvc interface {
	// CreateSession starts a shipment session. Operator-only; debits one coin
	// from the operator's company account into the system account.
	CreateSession(ctx context.Context, actorID string, req dto.CreateSessionRequest) (*domain.Session, error)

	// AttachSeal seals a pending session, moving it to IN_PROGRESS.
	AttachSeal(ctx context.Context, actorID string, sessionID string, req dto.AttachSealRequest) (*domain.Seal, error)

	// VerifySeal completes a session after guard verification.
	VerifySeal(ctx context.Context, actorID string, sessionID string, req dto.VerifySealRequest) (*domain.Session, error)

	// AddComment appends an annotation to a session the actor may see.
	AddComment(ctx context.Context, actorID string, sessionID string, req dto.CreateCommentRequest) (*domain.Comment, error)
}

// SessionReaderSvc defines read operations over sessions.
type SessionReaderSvc interface {
	// GetSession retrieves a session the actor may see, with seal and comments.
	GetSession(ctx context.Context, actorID string, sessionID string) (*domain.Session, error)

	// ListSessions retrieves sessions per the role visibility matrix.
	ListSessions(ctx context.Context, actorID string, params dto.ListSessionsParams) (*dto.ListSessionsResponse, error)
}

// SessionSvcFacade combines all session-related service interfaces
type SessionSvcFacade interface {
	SessionWriterSvc
	SessionReaderSvc
}
