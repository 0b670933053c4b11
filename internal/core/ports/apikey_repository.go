package ports

import (
	"context"
	"time"

	"github.com/adventureapp/adventure-api/internal/core/domain"
)

// APIKeyUpdate carries the mutable fields of a key record. Nil fields are
// left unchanged.
type APIKeyUpdate struct {
	Name     *string
	Scopes   []string
	IsActive *bool
}

// APIKeyRepository defines persistence for API-key records. Lookup is by
// the SHA-256 hash of the raw key; the raw key itself is never stored.
type APIKeyRepository interface {
	Create(ctx context.Context, key *domain.APIKey) (*domain.APIKey, error)
	FindByHash(ctx context.Context, keyHash string) (*domain.APIKey, error)
	FindByID(ctx context.Context, id string) (*domain.APIKey, error)
	List(ctx context.Context) ([]*domain.APIKey, error)
	Update(ctx context.Context, id string, update APIKeyUpdate) error
	TouchLastUsed(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}
