package domain

import "time"

// ActivityAction classifies an audit log entry.
type ActivityAction string

const (
	ActionCreate   ActivityAction = "CREATE"
	ActionUpdate   ActivityAction = "UPDATE"
	ActionDelete   ActivityAction = "DELETE"
	ActionLogin    ActivityAction = "LOGIN"
	ActionLogout   ActivityAction = "LOGOUT"
	ActionTransfer ActivityAction = "TRANSFER"
	ActionAllocate ActivityAction = "ALLOCATE"
	ActionView     ActivityAction = "VIEW"
)

// Valid reports whether a is a known activity action.
func (a ActivityAction) Valid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete, ActionLogin,
		ActionLogout, ActionTransfer, ActionAllocate, ActionView:
		return true
	}
	return false
}

// ActivityLogEntry is one append-only audit record. Entries are written
// inside the same transaction as the mutation they describe and are never
// updated or deleted. Detail carries operation-specific structured data
// (trip details, verification comparisons) verbatim.
type ActivityLogEntry struct {
	EntryID         string         `json:"entryID"` // Primary Key (UUID)
	ActorID         string         `json:"actorID"`
	Action          ActivityAction `json:"action"`
	Detail          map[string]any `json:"detail,omitempty"`
	TargetAccountID *string        `json:"targetAccountID,omitempty"`
	TargetType      string         `json:"targetType,omitempty"` // e.g. "account", "session", "transaction"
	TargetID        *string        `json:"targetID,omitempty"`
	IPAddress       string         `json:"ipAddress,omitempty"`
	UserAgent       string         `json:"userAgent,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
}
