package services

import (
	"context"

	"github.com/cargoseal/cargoseal_backend/internal/dto"
)

// ActivitySvcFacade defines the compliance read surface over the audit log.
// Writes happen inside the mutating operations themselves; there is no
// service-level append.
type ActivitySvcFacade interface {
	// ListActivity retrieves role-scoped audit entries, newest first.
	ListActivity(ctx context.Context, actorID string, params dto.ListActivityParams) (*dto.ListActivityResponse, error)
}
