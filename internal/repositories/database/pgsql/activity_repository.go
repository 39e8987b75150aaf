package pgsql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cargoseal/cargoseal_backend/internal/apperrors"
	"github.com/cargoseal/cargoseal_backend/internal/core/domain"
	portsrepo "github.com/cargoseal/cargoseal_backend/internal/core/ports/repositories"
	"github.com/cargoseal/cargoseal_backend/internal/models"
)

const activityColumns = `entry_id, actor_id, action, detail, target_account_id, target_type, target_id, ip_address, user_agent, created_at`

const insertActivityQuery = `
	INSERT INTO activity_logs (` + activityColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
`

// PgxActivityRepository is the append-only audit log store. Rows are never
// updated or deleted.
type PgxActivityRepository struct {
	BaseRepository
}

// newPgxActivityRepository creates a new repository for audit log data.
func newPgxActivityRepository(pool *pgxpool.Pool) portsrepo.ActivityRepositoryFacade {
	return &PgxActivityRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxActivityRepository implements portsrepo.ActivityRepositoryFacade
var _ portsrepo.ActivityRepositoryFacade = (*PgxActivityRepository)(nil)

func activityInsertArgs(entry domain.ActivityLogEntry) ([]any, error) {
	var detail []byte
	if entry.Detail != nil {
		b, err := json.Marshal(entry.Detail)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal activity detail: %w", err)
		}
		detail = b
	}
	return []any{
		entry.EntryID,
		entry.ActorID,
		string(entry.Action),
		detail,
		entry.TargetAccountID,
		entry.TargetType,
		entry.TargetID,
		entry.IPAddress,
		entry.UserAgent,
		entry.CreatedAt,
	}, nil
}

// Record appends one entry outside any caller transaction.
func (r *PgxActivityRepository) Record(ctx context.Context, entry domain.ActivityLogEntry) error {
	args, err := activityInsertArgs(entry)
	if err != nil {
		return err
	}
	if _, err := r.Pool.Exec(ctx, insertActivityQuery, args...); err != nil {
		return apperrors.NewAppError(500, "failed to record activity entry "+entry.EntryID, err)
	}
	return nil
}

// RecordInTx appends one entry inside the caller's transaction.
func (r *PgxActivityRepository) RecordInTx(ctx context.Context, tx pgx.Tx, entry domain.ActivityLogEntry) error {
	args, err := activityInsertArgs(entry)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, insertActivityQuery, args...); err != nil {
		return apperrors.NewAppError(500, "failed to record activity entry "+entry.EntryID, err)
	}
	return nil
}

func toDomainActivity(m models.ActivityLog) domain.ActivityLogEntry {
	return domain.ActivityLogEntry{
		EntryID:         m.EntryID,
		ActorID:         m.ActorID,
		Action:          domain.ActivityAction(m.Action),
		Detail:          m.Detail,
		TargetAccountID: m.TargetAccountID,
		TargetType:      m.TargetType,
		TargetID:        m.TargetID,
		IPAddress:       m.IPAddress,
		UserAgent:       m.UserAgent,
		CreatedAt:       m.CreatedAt,
	}
}

// ListActivity retrieves a filtered, paginated list of audit entries, newest first.
func (r *PgxActivityRepository) ListActivity(ctx context.Context, filter portsrepo.ActivityListFilter, limit, offset int) ([]domain.ActivityLogEntry, int64, error) {
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

	if filter.ActorID != nil {
		addArg("actor_id = $%d", *filter.ActorID)
	}
	if filter.Action != nil {
		addArg("action = $%d", string(*filter.Action))
	}
	if filter.TargetID != nil {
		addArg("target_id = $%d", *filter.TargetID)
	}
	if filter.FromDate != nil {
		addArg("created_at >= $%d", *filter.FromDate)
	}
	if filter.ToDate != nil {
		addArg("created_at <= $%d", *filter.ToDate)
	}
	if filter.ActorCompanyID != nil {
		addArg("actor_id IN (SELECT account_id FROM accounts WHERE company_id = $%d)", *filter.ActorCompanyID)
	}
	if filter.ActorScopeAdminID != nil {
		// Admin, its direct children, and members of companies whose
		// representative account the admin created.
		where += fmt.Sprintf(` AND actor_id IN (
			SELECT account_id FROM accounts
			WHERE account_id = $%d
			   OR created_by_id = $%d
			   OR company_id IN (SELECT company_id FROM accounts WHERE role = 'COMPANY' AND created_by_id = $%d)
		)`, argN, argN, argN)
		args = append(args, *filter.ActorScopeAdminID)
		argN++
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM activity_logs ` + where + `;`
	if err := r.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count activity entries: %w", err)
	}

	query := `SELECT ` + activityColumns + ` FROM activity_logs ` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d;`, argN, argN+1)
	args = append(args, limit, offset)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query activity entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.ActivityLogEntry{}
	for rows.Next() {
		var m models.ActivityLog
		var detail []byte
		err := rows.Scan(
			&m.EntryID,
			&m.ActorID,
			&m.Action,
			&detail,
			&m.TargetAccountID,
			&m.TargetType,
			&m.TargetID,
			&m.IPAddress,
			&m.UserAgent,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan activity row: %w", err)
		}
		if len(detail) > 0 {
			if err := json.Unmarshal(detail, &m.Detail); err != nil {
				return nil, 0, fmt.Errorf("failed to unmarshal activity detail for %s: %w", m.EntryID, err)
			}
		}
		entries = append(entries, toDomainActivity(m))
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating activity rows: %w", err)
	}
	return entries, total, nil
}
