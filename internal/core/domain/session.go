package domain

import "time"

// SessionStatus is the lifecycle state of a shipment session. Transitions
// are monotonic: PENDING -> IN_PROGRESS -> COMPLETED, never backwards.
type SessionStatus string

const (
	SessionPending    SessionStatus = "PENDING"
	SessionInProgress SessionStatus = "IN_PROGRESS"
	SessionCompleted  SessionStatus = "COMPLETED"
)

// CanTransitionTo reports whether the status may move to next.
func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	switch s {
	case SessionPending:
		return next == SessionInProgress
	case SessionInProgress:
		return next == SessionCompleted
	}
	return false
}

// Session is a tracked shipment trip owned by exactly one company and
// created by one of its Operators. Creation debits one coin from the
// company's representative account.
type Session struct {
	SessionID   string        `json:"sessionID"` // Primary Key (UUID)
	CompanyID   string        `json:"companyID"` // Immutable after creation
	CreatedByID string        `json:"createdByID"` // Operator AccountID
	Source      string        `json:"source"`
	Destination string        `json:"destination"`
	Status      SessionStatus `json:"status"`
	Seal        *Seal         `json:"seal,omitempty"`
	Comments    []Comment     `json:"comments,omitempty"`
	AuditFields
}

// Seal is the barcode-based security device attached to a session. At most
// one seal exists per session, and it is verified at most once, by a Guard
// of the session's company.
type Seal struct {
	SealID       string     `json:"sealID"` // Primary Key (UUID)
	SessionID    string     `json:"sessionID"`
	Barcode      string     `json:"barcode"` // Globally unique
	Verified     bool       `json:"verified"`
	VerifiedByID *string    `json:"verifiedByID,omitempty"` // Guard AccountID
	ScannedAt    *time.Time `json:"scannedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	CreatedBy    string     `json:"createdBy"`
}

// Comment is an append-only annotation on a session.
type Comment struct {
	CommentID string    `json:"commentID"` // Primary Key (UUID)
	SessionID string    `json:"sessionID"`
	AuthorID  string    `json:"authorID"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
