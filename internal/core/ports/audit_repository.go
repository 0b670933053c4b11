package ports

import (
	"context"

	"github.com/adventureapp/adventure-api/internal/core/domain"
)

// AuditFilter narrows an audit listing. Zero values mean no filter.
type AuditFilter struct {
	ResourceID  string
	PrincipalID string
	Limit       int
}

// AuditRepository persists the append-only mutation log.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.AuditEntry) error
	List(ctx context.Context, filter AuditFilter) ([]*domain.AuditEntry, error)
}

// AuditSink is the write side exposed to gateway services. The production
// implementation enqueues entries onto a sharded worker pool so the
// request path never blocks on the audit store.
type AuditSink interface {
	Record(entry domain.AuditEntry)
}
