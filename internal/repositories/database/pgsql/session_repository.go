package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cargoseal/cargoseal_backend/internal/apperrors"
	"github.com/cargoseal/cargoseal_backend/internal/core/domain"
	portsrepo "github.com/cargoseal/cargoseal_backend/internal/core/ports/repositories"
	"github.com/cargoseal/cargoseal_backend/internal/models"
)

const sessionColumns = `session_id, company_id, created_by_id, source, destination, status, created_at, created_by, last_updated_at, last_updated_by`

const sealColumns = `seal_id, session_id, barcode, verified, verified_by_id, scanned_at, created_at, created_by`

const insertSealQuery = `
	INSERT INTO seals (` + sealColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
`

type PgxSessionRepository struct {
	BaseRepository
	accountRepo  portsrepo.AccountRepositoryFacade
	activityRepo portsrepo.ActivityRecorder
}

// newPgxSessionRepository creates a new repository for session data.
func newPgxSessionRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade, activityRepo portsrepo.ActivityRecorder) portsrepo.SessionRepositoryFacade {
	return &PgxSessionRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
		activityRepo:   activityRepo,
	}
}

// Ensure PgxSessionRepository implements portsrepo.SessionRepositoryFacade
var _ portsrepo.SessionRepositoryFacade = (*PgxSessionRepository)(nil)

func toDomainSession(m models.Session) domain.Session {
	return domain.Session{
		SessionID:   m.SessionID,
		CompanyID:   m.CompanyID,
		CreatedByID: m.CreatedByID,
		Source:      m.Source,
		Destination: m.Destination,
		Status:      domain.SessionStatus(m.Status),
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func toDomainSeal(m models.Seal) domain.Seal {
	return domain.Seal{
		SealID:       m.SealID,
		SessionID:    m.SessionID,
		Barcode:      m.Barcode,
		Verified:     m.Verified,
		VerifiedByID: m.VerifiedByID,
		ScannedAt:    m.ScannedAt,
		CreatedAt:    m.CreatedAt,
		CreatedBy:    m.CreatedBy,
	}
}

func scanSession(row pgx.Row) (models.Session, error) {
	var m models.Session
	err := row.Scan(
		&m.SessionID,
		&m.CompanyID,
		&m.CreatedByID,
		&m.Source,
		&m.Destination,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func insertSealTx(ctx context.Context, tx pgx.Tx, seal domain.Seal) error {
	_, err := tx.Exec(ctx, insertSealQuery,
		seal.SealID,
		seal.SessionID,
		seal.Barcode,
		seal.Verified,
		seal.VerifiedByID,
		seal.ScannedAt,
		seal.CreatedAt,
		seal.CreatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if strings.Contains(pgErr.ConstraintName, "session") {
				return fmt.Errorf("%w: session %s", apperrors.ErrAlreadySealed, seal.SessionID)
			}
			return fmt.Errorf("%w: barcode %s", apperrors.ErrDuplicateBarcode, seal.Barcode)
		}
		return apperrors.NewAppError(500, "failed to insert seal "+seal.SealID, err)
	}
	return nil
}

// SaveSession creates the session, the optional initial seal, the one-coin
// debit into the system account and the audit entry as one transaction.
func (r *PgxSessionRepository) SaveSession(ctx context.Context, session domain.Session, seal *domain.Seal, debit domain.CoinTransaction, entry domain.ActivityLogEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	sessionQuery := `
		INSERT INTO sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = tx.Exec(ctx, sessionQuery,
		session.SessionID,
		session.CompanyID,
		session.CreatedByID,
		session.Source,
		session.Destination,
		string(session.Status),
		session.CreatedAt,
		session.CreatedBy,
		session.LastUpdatedAt,
		session.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: session %s", apperrors.ErrDuplicate, session.SessionID)
		}
		return apperrors.NewAppError(500, "failed to insert session "+session.SessionID, err)
	}

	if seal != nil {
		if err := insertSealTx(ctx, tx, *seal); err != nil {
			return err
		}
	}

	// The debit shares the transfer primitive: lock both rows, re-check the
	// pool, apply deltas, insert the transaction row, append the audit entry.
	if err := insertTransferTx(ctx, tx, r.accountRepo, r.activityRepo, debit, entry); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// lockSessionTx selects the session row FOR UPDATE inside the transaction.
func lockSessionTx(ctx context.Context, tx pgx.Tx, sessionID string) (models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE session_id = $1 FOR UPDATE;`
	m, err := scanSession(tx.QueryRow(ctx, query, sessionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return m, fmt.Errorf("%w: session %s", apperrors.ErrNotFound, sessionID)
		}
		return m, fmt.Errorf("failed to lock session %s: %w", sessionID, err)
	}
	return m, nil
}

func updateSessionStatusTx(ctx context.Context, tx pgx.Tx, sessionID string, status domain.SessionStatus, userID string, now time.Time) error {
	_, err := tx.Exec(ctx,
		`UPDATE sessions SET status = $1, last_updated_at = $2, last_updated_by = $3 WHERE session_id = $4;`,
		string(status), now, userID, sessionID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status for session "+sessionID, err)
	}
	return nil
}

// AttachSeal inserts the seal for a pending session and moves it to
// IN_PROGRESS atomically.
func (r *PgxSessionRepository) AttachSeal(ctx context.Context, seal domain.Seal, entry domain.ActivityLogEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m, err := lockSessionTx(ctx, tx, seal.SessionID)
	if err != nil {
		return err
	}
	if domain.SessionStatus(m.Status) != domain.SessionPending {
		return fmt.Errorf("%w: session %s", apperrors.ErrAlreadySealed, seal.SessionID)
	}

	if err := insertSealTx(ctx, tx, seal); err != nil {
		return err
	}
	if err := updateSessionStatusTx(ctx, tx, seal.SessionID, domain.SessionInProgress, seal.CreatedBy, seal.CreatedAt); err != nil {
		return err
	}
	if err := r.activityRepo.RecordInTx(ctx, tx, entry); err != nil {
		return apperrors.NewAppError(500, "failed to record seal attachment", err)
	}
	return r.Commit(ctx, tx)
}

// VerifySeal marks the seal verified and the session COMPLETED atomically.
// An already verified seal fails without touching the recorded scan.
func (r *PgxSessionRepository) VerifySeal(ctx context.Context, sessionID string, verifiedByID string, scannedAt time.Time, entry domain.ActivityLogEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m, err := lockSessionTx(ctx, tx, sessionID)
	if err != nil {
		return err
	}
	if domain.SessionStatus(m.Status) == domain.SessionCompleted {
		return fmt.Errorf("%w: seal on session %s", apperrors.ErrAlreadyVerified, sessionID)
	}
	if domain.SessionStatus(m.Status) != domain.SessionInProgress {
		return fmt.Errorf("%w: session %s is %s", apperrors.ErrConflict, sessionID, m.Status)
	}

	tag, err := tx.Exec(ctx,
		`UPDATE seals SET verified = TRUE, verified_by_id = $1, scanned_at = $2 WHERE session_id = $3 AND verified = FALSE;`,
		verifiedByID, scannedAt, sessionID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to verify seal for session "+sessionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: seal on session %s", apperrors.ErrAlreadyVerified, sessionID)
	}

	if err := updateSessionStatusTx(ctx, tx, sessionID, domain.SessionCompleted, verifiedByID, scannedAt); err != nil {
		return err
	}
	if err := r.activityRepo.RecordInTx(ctx, tx, entry); err != nil {
		return apperrors.NewAppError(500, "failed to record seal verification", err)
	}
	return r.Commit(ctx, tx)
}

// SaveComment appends a comment to a session.
func (r *PgxSessionRepository) SaveComment(ctx context.Context, comment domain.Comment) error {
	query := `
		INSERT INTO session_comments (comment_id, session_id, author_id, message, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.Pool.Exec(ctx, query,
		comment.CommentID,
		comment.SessionID,
		comment.AuthorID,
		comment.Message,
		comment.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("%w: session %s", apperrors.ErrNotFound, comment.SessionID)
		}
		return apperrors.NewAppError(500, "failed to insert comment "+comment.CommentID, err)
	}
	return nil
}

// FindSessionByID retrieves a session with its seal and comments.
func (r *PgxSessionRepository) FindSessionByID(ctx context.Context, sessionID string) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE session_id = $1;`

	m, err := scanSession(r.Pool.QueryRow(ctx, query, sessionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find session by ID %s: %w", sessionID, err)
	}
	session := toDomainSession(m)

	var sealModel models.Seal
	err = r.Pool.QueryRow(ctx, `SELECT `+sealColumns+` FROM seals WHERE session_id = $1;`, sessionID).Scan(
		&sealModel.SealID,
		&sealModel.SessionID,
		&sealModel.Barcode,
		&sealModel.Verified,
		&sealModel.VerifiedByID,
		&sealModel.ScannedAt,
		&sealModel.CreatedAt,
		&sealModel.CreatedBy,
	)
	if err == nil {
		seal := toDomainSeal(sealModel)
		session.Seal = &seal
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to find seal for session %s: %w", sessionID, err)
	}

	rows, err := r.Pool.Query(ctx,
		`SELECT comment_id, session_id, author_id, message, created_at FROM session_comments WHERE session_id = $1 ORDER BY created_at;`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments for session %s: %w", sessionID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.CommentID, &c.SessionID, &c.AuthorID, &c.Message, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment row: %w", err)
		}
		session.Comments = append(session.Comments, domain.Comment{
			CommentID: c.CommentID,
			SessionID: c.SessionID,
			AuthorID:  c.AuthorID,
			Message:   c.Message,
			CreatedAt: c.CreatedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comment rows: %w", err)
	}
	return &session, nil
}

// ListSessions retrieves a filtered, paginated list of sessions with their
// seals attached. Comments are loaded only on single-session reads.
func (r *PgxSessionRepository) ListSessions(ctx context.Context, filter portsrepo.SessionListFilter, limit, offset int) ([]domain.Session, int64, error) {
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

	if filter.CompanyID != nil {
		addArg("s.company_id = $%d", *filter.CompanyID)
	}
	if filter.CreatedByID != nil {
		addArg("s.created_by_id = $%d", *filter.CreatedByID)
	}
	if filter.Status != nil {
		addArg("s.status = $%d", string(*filter.Status))
	}
	if filter.NeedsVerification || filter.VerifiedByID != nil {
		clauses := []string{}
		if filter.NeedsVerification {
			clauses = append(clauses, "(s.status = 'IN_PROGRESS' AND sl.verified = FALSE)")
		}
		if filter.VerifiedByID != nil {
			clauses = append(clauses, fmt.Sprintf("sl.verified_by_id = $%d", argN))
			args = append(args, *filter.VerifiedByID)
			argN++
		}
		where += " AND (" + strings.Join(clauses, " OR ") + ")"
	}
	if filter.VisibleToAdminID != nil {
		addArg("s.company_id IN (SELECT company_id FROM accounts WHERE role = 'COMPANY' AND created_by_id = $%d)", *filter.VisibleToAdminID)
	}

	from := `FROM sessions s LEFT JOIN seals sl ON sl.session_id = s.session_id `

	var total int64
	countQuery := `SELECT COUNT(*) ` + from + where + `;`
	if err := r.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	query := `
		SELECT s.session_id, s.company_id, s.created_by_id, s.source, s.destination, s.status,
		       s.created_at, s.created_by, s.last_updated_at, s.last_updated_by,
		       sl.seal_id, sl.barcode, sl.verified, sl.verified_by_id, sl.scanned_at, sl.created_at, sl.created_by
		` + from + where +
		fmt.Sprintf(` ORDER BY s.created_at DESC LIMIT $%d OFFSET $%d;`, argN, argN+1)
	args = append(args, limit, offset)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []domain.Session{}
	for rows.Next() {
		var m models.Session
		var sealID, barcode *string
		var verified *bool
		var verifiedByID *string
		var scannedAt, sealCreatedAt *time.Time
		var sealCreatedBy *string
		err := rows.Scan(
			&m.SessionID,
			&m.CompanyID,
			&m.CreatedByID,
			&m.Source,
			&m.Destination,
			&m.Status,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
			&sealID,
			&barcode,
			&verified,
			&verifiedByID,
			&scannedAt,
			&sealCreatedAt,
			&sealCreatedBy,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan session row: %w", err)
		}
		session := toDomainSession(m)
		if sealID != nil {
			session.Seal = &domain.Seal{
				SealID:       *sealID,
				SessionID:    m.SessionID,
				Barcode:      *barcode,
				Verified:     verified != nil && *verified,
				VerifiedByID: verifiedByID,
				ScannedAt:    scannedAt,
				CreatedAt:    *sealCreatedAt,
				CreatedBy:    *sealCreatedBy,
			}
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating session rows: %w", err)
	}
	return sessions, total, nil
}
