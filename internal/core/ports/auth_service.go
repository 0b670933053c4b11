package ports

import (
	"context"

	"github.com/adventureapp/adventure-api/internal/core/domain"
)

// CredentialResolver turns a bearer credential into a Principal. Invalid,
// expired, or missing credentials yield domain.ErrUnauthenticated; store
// timeouts yield domain.ErrUnavailable. Resolution never degrades into an
// anonymous principal.
type CredentialResolver interface {
	Resolve(ctx context.Context, credential string) (domain.Principal, error)
}

// AuthService covers self-service registration and login.
type AuthService interface {
	// Register creates a user with RoleUser and returns it with a signed
	// access token.
	Register(ctx context.Context, email, password string) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
