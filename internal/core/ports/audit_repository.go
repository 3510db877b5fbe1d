package ports

import (
	"context"

	"github.com/webstarter/identity-gateway/internal/core/domain"
)

// AuditRepository persists audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event domain.AuditEvent) error
}

// AuditRecorder accepts audit events for asynchronous recording. Record must
// never block the request path; a full queue drops the event.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}
