package services

import (
	"context"
	"fmt"

	"github.com/cargoseal/cargoseal_backend/internal/apperrors"
	"github.com/cargoseal/cargoseal_backend/internal/core/domain"
	portsrepo "github.com/cargoseal/cargoseal_backend/internal/core/ports/repositories"
	portssvc "github.com/cargoseal/cargoseal_backend/internal/core/ports/services"
	"github.com/cargoseal/cargoseal_backend/internal/dto"
)

// activityService is the compliance read surface over the audit log. Entries
// are written by the mutating services; this service only scopes and lists.
type activityService struct {
	accountRepo  portsrepo.AccountRepositoryFacade
	activityRepo portsrepo.ActivityRepositoryFacade
}

// NewActivityService creates a new activity service.
func NewActivityService(accountRepo portsrepo.AccountRepositoryFacade, activityRepo portsrepo.ActivityRepositoryFacade) portssvc.ActivitySvcFacade {
	return &activityService{
		accountRepo:  accountRepo,
		activityRepo: activityRepo,
	}
}

// Ensure activityService implements the portssvc.ActivitySvcFacade interface
var _ portssvc.ActivitySvcFacade = (*activityService)(nil)

// ListActivity retrieves role-scoped audit entries, newest first.
// SuperAdmins see everything, Admins their creation subtree, Company
// accounts their own staff, Employees only themselves.
func (s *activityService) ListActivity(ctx context.Context, actorID string, params dto.ListActivityParams) (*dto.ListActivityResponse, error) {
	actor, err := s.accountRepo.FindAccountByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve actor %s: %w", actorID, err)
	}

	page, limit, offset := dto.NormalizePage(params.Page, params.Limit)

	filter := portsrepo.ActivityListFilter{
		FromDate: params.FromDate,
		ToDate:   params.ToDate,
	}
	if params.Action != "" {
		action := domain.ActivityAction(params.Action)
		filter.Action = &action
	}
	if params.UserID != "" {
		filter.ActorID = &params.UserID
	}

	switch actor.Role {
	case domain.RoleSuperAdmin:
		// Unscoped.
	case domain.RoleAdmin:
		filter.ActorScopeAdminID = &actor.AccountID
	case domain.RoleCompany:
		filter.ActorCompanyID = actor.CompanyID
	case domain.RoleEmployee:
		if params.UserID != "" && params.UserID != actor.AccountID {
			return nil, fmt.Errorf("%w: employees see only their own activity", apperrors.ErrForbidden)
		}
		filter.ActorID = &actor.AccountID
	default:
		return nil, fmt.Errorf("%w: role %s may not list activity", apperrors.ErrForbidden, actor.Role)
	}

	entries, total, err := s.activityRepo.ListActivity(ctx, filter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}

	resp := &dto.ListActivityResponse{
		Logs:       make([]dto.ActivityResponse, 0, len(entries)),
		Pagination: dto.NewPagination(page, limit, total),
	}
	for i := range entries {
		resp.Logs = append(resp.Logs, dto.ToActivityResponse(&entries[i]))
	}
	return resp, nil
}
