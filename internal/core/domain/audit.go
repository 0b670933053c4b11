package domain

import "time"

// AuditOutcome records how a gateway operation concluded.
type AuditOutcome string

const (
	AuditAllowed  AuditOutcome = "allowed"
	AuditDenied   AuditOutcome = "denied"
	AuditNotFound AuditOutcome = "not_found"
	AuditConflict AuditOutcome = "conflict"
	AuditError    AuditOutcome = "error"
)

// AuditEntry is one line of the mutation log: who performed which action
// on which resource, and how it ended. Entries are append-only and written
// asynchronously so destructive operations stay non-repudiable without
// adding latency to the request path.
type AuditEntry struct {
	ID            string       `json:"id,omitempty"`
	PrincipalID   string       `json:"principal_id"`
	PrincipalRole string       `json:"principal_role"`
	Action        string       `json:"action"`
	ResourceType  string       `json:"resource_type"`
	ResourceID    string       `json:"resource_id"`
	Outcome       AuditOutcome `json:"outcome"`
	Detail        string       `json:"detail,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}
