package domain

import "time"

// Audit actions recorded by the service.
const (
	AuditLoginSucceeded   = "auth.login.succeeded"
	AuditLoginFailed      = "auth.login.failed"
	AuditUserRegistered   = "auth.user.registered"
	AuditPermissionDenied = "rbac.permission.denied"
	AuditRoleAssigned     = "rbac.role.assigned"
	AuditRoleRemoved      = "rbac.role.removed"
)

// AuditEvent is one append-only record of a security-relevant action.
// Actor is the acting user's id, or the attempted email for failed logins.
type AuditEvent struct {
	Actor      string    `json:"actor"`
	Action     string    `json:"action"`
	Detail     string    `json:"detail,omitempty"`
	RemoteAddr string    `json:"remote_addr,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
