package ports

import (
	"context"

	"github.com/adventureapp/adventure-api/internal/core/domain"
)

// UserService is the resource gateway for admin user management.
// Self-service registration lives on AuthService; these operations require
// an admin principal and are vetted by the ownership authority.
type UserService interface {
	// CreateUser creates a record with the given role. Only admin
	// principals may call this, which is also the only path that can
	// create another admin.
	CreateUser(ctx context.Context, p domain.Principal, email, password, role string) (*domain.User, error)
	// DeleteUser removes a user record. Deleting the principal's own
	// record is always denied, even for admins.
	DeleteUser(ctx context.Context, p domain.Principal, userID string) error
}
