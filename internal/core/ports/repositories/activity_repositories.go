package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cargoseal/cargoseal_backend/internal/core/domain"
)

// ActivityListFilter narrows ListActivity results. Nil fields are ignored.
type ActivityListFilter struct {
	ActorID  *string
	Action   *domain.ActivityAction
	TargetID *string
	FromDate *time.Time
	ToDate   *time.Time
	// ActorCompanyID limits results to entries whose actor belongs to this
	// company (including its representative account).
	ActorCompanyID *string
	// ActorScopeAdminID limits results to entries whose actor is the admin
	// itself or lies in its creation subtree.
	ActorScopeAdminID *string
}

// ActivityRecorder defines the append-only write operations for the audit log.
type ActivityRecorder interface {
	// Record appends one entry outside any caller transaction (login, logout,
	// sensitive reads).
	Record(ctx context.Context, entry domain.ActivityLogEntry) error

	// RecordInTx appends one entry inside the caller's transaction so the
	// audit row commits or rolls back with the mutation it describes.
	RecordInTx(ctx context.Context, tx pgx.Tx, entry domain.ActivityLogEntry) error
}

// ActivityReader defines read operations over the audit log.
type ActivityReader interface {
	// ListActivity retrieves a filtered, paginated list of audit entries,
	// newest first.
	ListActivity(ctx context.Context, filter ActivityListFilter, limit, offset int) ([]domain.ActivityLogEntry, int64, error)
}

// ActivityRepositoryFacade combines the audit log repository interfaces.
// There is deliberately no update or delete surface.
type ActivityRepositoryFacade interface {
	ActivityRecorder
	ActivityReader
}
