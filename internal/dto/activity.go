package dto

import (
	"time"

	"github.com/cargoseal/cargoseal_backend/internal/core/domain"
)

// ListActivityParams defines query parameters for the compliance view over
// the audit log.
type ListActivityParams struct {
	Action   string     `form:"action" binding:"omitempty,oneof=CREATE UPDATE DELETE LOGIN LOGOUT TRANSFER ALLOCATE VIEW"`
	UserID   string     `form:"userID"`
	FromDate *time.Time `form:"fromDate" time_format:"2006-01-02"`
	ToDate   *time.Time `form:"toDate" time_format:"2006-01-02"`
	Page     int        `form:"page,default=1"`
	Limit    int        `form:"limit,default=20"`
}

// ActivityResponse is the public representation of one audit entry.
type ActivityResponse struct {
	EntryID         string                `json:"entryID"`
	ActorID         string                `json:"actorID"`
	Action          domain.ActivityAction `json:"action"`
	Detail          map[string]any        `json:"detail,omitempty"`
	TargetAccountID *string               `json:"targetAccountID,omitempty"`
	TargetType      string                `json:"targetType,omitempty"`
	TargetID        *string               `json:"targetID,omitempty"`
	IPAddress       string                `json:"ipAddress,omitempty"`
	CreatedAt       time.Time             `json:"createdAt"`
}

// ToActivityResponse converts a domain.ActivityLogEntry to its response DTO.
func ToActivityResponse(e *domain.ActivityLogEntry) ActivityResponse {
	return ActivityResponse{
		EntryID:         e.EntryID,
		ActorID:         e.ActorID,
		Action:          e.Action,
		Detail:          e.Detail,
		TargetAccountID: e.TargetAccountID,
		TargetType:      e.TargetType,
		TargetID:        e.TargetID,
		IPAddress:       e.IPAddress,
		CreatedAt:       e.CreatedAt,
	}
}

// ListActivityResponse wraps a page of audit entries.
type ListActivityResponse struct {
	Logs       []ActivityResponse `json:"logs"`
	Pagination Pagination         `json:"pagination"`
}
