package domain

import "errors"

// Authentication failures. A missing, malformed, expired, or revoked
// credential always resolves to ErrUnauthenticated; there is no anonymous
// principal.
var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Authorization verdicts rendered by the ownership authority.
var (
	ErrNotOwner         = errors.New("principal does not own this resource")
	ErrInsufficientRole = errors.New("admin role required")
	ErrSelfDeletion     = errors.New("a principal may not delete its own user record")
)

// ErrInvalidInput rejects a request whose payload fails service-level
// validation after authentication already succeeded.
var ErrInvalidInput = errors.New("invalid input")

// Shared infrastructure failures.
var (
	// ErrConflict signals a lost optimistic-concurrency race; the caller
	// should reload and retry.
	ErrConflict = errors.New("concurrent modification conflict")
	// ErrUnavailable signals a store or upstream timeout. Kept distinct
	// from authorization denials so outages never surface as forbidden.
	ErrUnavailable = errors.New("service temporarily unavailable")
	// ErrUpstream signals a failure in the story or image provider.
	ErrUpstream = errors.New("upstream provider error")
)
