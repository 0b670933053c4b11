package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/adventureapp/adventure-api/internal/api/metrics"
	"github.com/adventureapp/adventure-api/internal/core/authz"
	"github.com/adventureapp/adventure-api/internal/core/domain"
	"github.com/adventureapp/adventure-api/internal/core/ports"
)

// UserService is the resource gateway for admin-driven user management.
type UserService struct {
	repo      ports.UserRepository
	hasher    ports.PasswordHasher
	authority authz.Authority
	audit     ports.AuditSink
	logger    zerolog.Logger
}

func NewUserService(repo ports.UserRepository, hasher ports.PasswordHasher, authority authz.Authority, audit ports.AuditSink, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, hasher: hasher, authority: authority, audit: audit, logger: logger}
}

func (s *UserService) record(p domain.Principal, action authz.Action, userID string, outcome domain.AuditOutcome, detail string) {
	s.audit.Record(domain.AuditEntry{
		PrincipalID:   p.ID,
		PrincipalRole: p.Role,
		Action:        string(action),
		ResourceType:  "user",
		ResourceID:    userID,
		Outcome:       outcome,
		Detail:        detail,
		CreatedAt:     time.Now().UTC(),
	})
}

// CreateUser creates a user with an explicit role. This is the only path
// that can mint an admin account, and it is itself admin-gated.
func (s *UserService) CreateUser(ctx context.Context, p domain.Principal, email, password, role string) (*domain.User, error) {
	if role == "" {
		role = domain.RoleUser
	}
	if role != domain.RoleAdmin && role != domain.RoleUser {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
	}
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}

	decision := s.authority.Decide(p, authz.ActionCreateUser, authz.Global)
	metrics.AuthzDecisionsTotal.WithLabelValues(string(authz.ActionCreateUser), decisionLabel(decision)).Inc()
	if err := decision.Err(domain.ErrUserNotFound); err != nil {
		s.record(p, authz.ActionCreateUser, "", outcomeFor(decision), "")
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.record(p, authz.ActionCreateUser, created.ID, domain.AuditAllowed, "role "+role)
	s.logger.Info().Str("user_id", created.ID).Str("role", role).Str("created_by", p.ID).Msg("user created")
	return created, nil
}

// DeleteUser removes a user record after the authority's verdict. The
// self-deletion veto lives in the authority, not here: the gateway only
// sequences load -> decide -> act.
func (s *UserService) DeleteUser(ctx context.Context, p domain.Principal, userID string) error {
	target, err := s.repo.FindByID(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	res := authz.Resource{}
	if target != nil {
		res = authz.ExistingUser(target.ID)
	}

	decision := s.authority.Decide(p, authz.ActionDeleteUser, res)
	metrics.AuthzDecisionsTotal.WithLabelValues(string(authz.ActionDeleteUser), decisionLabel(decision)).Inc()
	if err := decision.Err(domain.ErrUserNotFound); err != nil {
		s.record(p, authz.ActionDeleteUser, userID, outcomeFor(decision), "")
		return err
	}

	if err := s.repo.Delete(ctx, target.ID); err != nil {
		return err
	}

	s.record(p, authz.ActionDeleteUser, target.ID, domain.AuditAllowed, "email "+target.Email)
	s.logger.Info().Str("user_id", target.ID).Str("deleted_by", p.ID).Msg("user deleted")
	return nil
}
