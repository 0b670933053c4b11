package ports

import (
	"context"

	"github.com/adventureapp/adventure-api/internal/core/domain"
)

// CreateAPIKeyInput carries the parameters for minting a new key.
type CreateAPIKeyInput struct {
	Name          string
	Scopes        []string
	ExpiresInDays int // 0 = never expires
}

// CreatedAPIKey is returned once at creation time and is the only moment
// the raw key is visible.
type CreatedAPIKey struct {
	Key    domain.APIKey
	RawKey string
}

// APIKeyService is the resource gateway for API-key management. All
// operations require an admin principal.
type APIKeyService interface {
	Create(ctx context.Context, p domain.Principal, in CreateAPIKeyInput) (*CreatedAPIKey, error)
	List(ctx context.Context, p domain.Principal) ([]*domain.APIKey, error)
	Get(ctx context.Context, p domain.Principal, keyID string) (*domain.APIKey, error)
	Update(ctx context.Context, p domain.Principal, keyID string, update APIKeyUpdate) error
	Deactivate(ctx context.Context, p domain.Principal, keyID string) error
	Delete(ctx context.Context, p domain.Principal, keyID string) error
}

// AuditService exposes the mutation log to admins.
type AuditService interface {
	List(ctx context.Context, p domain.Principal, filter AuditFilter) ([]*domain.AuditEntry, error)
}
