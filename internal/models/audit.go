package models

import "time"

// AuditAction constants represent admin actions to be logged.
const (
	AuditActionUserDelete = "USER_DELETE"
	AuditActionRoleSet    = "ROLE_SET"
)

// AuditEvent represents an audit trail record for an admin-surface action.
type AuditEvent struct {
	ID        string    `db:"id" json:"id"`
	ActorID   string    `db:"actor_id" json:"actor_id"`
	Action    string    `db:"action" json:"action"`
	TargetID  *string   `db:"target_id" json:"target_id,omitempty"`
	Detail    []byte    `db:"detail" json:"detail,omitempty"`
	IPAddress string    `db:"ip_address" json:"ip_address"`
	UserAgent string    `db:"user_agent" json:"user_agent"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
