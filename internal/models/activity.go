package models

import "time"

// ActivityLog represents a row in the activity_logs table. Append-only; the
// detail column is JSONB and round-trips the structured payload verbatim.
type ActivityLog struct {
	EntryID         string         `db:"entry_id"`
	ActorID         string         `db:"actor_id"`
	Action          string         `db:"action"`
	Detail          map[string]any `db:"detail"`
	TargetAccountID *string        `db:"target_account_id"`
	TargetType      string         `db:"target_type"`
	TargetID        *string        `db:"target_id"`
	IPAddress       string         `db:"ip_address"`
	UserAgent       string         `db:"user_agent"`
	CreatedAt       time.Time      `db:"created_at"`
}
