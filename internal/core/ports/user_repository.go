package ports

import (
	"context"

	"github.com/adventureapp/adventure-api/internal/core/domain"
)

// UserRepository defines persistence for user records. Email uniqueness
// is enforced by the store (unique index); Create surfaces a duplicate as
// domain.ErrUserExists.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
