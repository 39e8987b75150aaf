package models

import "time"

// Session represents a row in the sessions table.
type Session struct {
	SessionID   string `db:"session_id"`
	CompanyID   string `db:"company_id"`
	CreatedByID string `db:"created_by_id"`
	Source      string `db:"source"`
	Destination string `db:"destination"`
	Status      string `db:"status"`
	AuditFields
}

// Seal represents a row in the seals table. One row per session at most.
type Seal struct {
	SealID       string     `db:"seal_id"`
	SessionID    string     `db:"session_id"`
	Barcode      string     `db:"barcode"`
	Verified     bool       `db:"verified"`
	VerifiedByID *string    `db:"verified_by_id"`
	ScannedAt    *time.Time `db:"scanned_at"`
	CreatedAt    time.Time  `db:"created_at"`
	CreatedBy    string     `db:"created_by"`
}

// Comment represents a row in the session_comments table. Append-only.
type Comment struct {
	CommentID string    `db:"comment_id"`
	SessionID string    `db:"session_id"`
	AuthorID  string    `db:"author_id"`
	Message   string    `db:"message"`
	CreatedAt time.Time `db:"created_at"`
}
