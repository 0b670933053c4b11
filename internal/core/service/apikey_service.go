package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/adventureapp/adventure-api/internal/api/metrics"
	"github.com/adventureapp/adventure-api/internal/core/authz"
	"github.com/adventureapp/adventure-api/internal/core/domain"
	"github.com/adventureapp/adventure-api/internal/core/ports"
)

const rawKeyBytes = 32

// APIKeyService is the resource gateway for API-key management. Keys are
// not user-owned, so the only authorization dimension is the admin role.
type APIKeyService struct {
	repo      ports.APIKeyRepository
	authority authz.Authority
	audit     ports.AuditSink
	logger    zerolog.Logger
}

func NewAPIKeyService(repo ports.APIKeyRepository, authority authz.Authority, audit ports.AuditSink, logger zerolog.Logger) *APIKeyService {
	return &APIKeyService{repo: repo, authority: authority, audit: audit, logger: logger}
}

func (s *APIKeyService) record(p domain.Principal, action authz.Action, keyID string, outcome domain.AuditOutcome, detail string) {
	s.audit.Record(domain.AuditEntry{
		PrincipalID:   p.ID,
		PrincipalRole: p.Role,
		Action:        string(action),
		ResourceType:  "api_key",
		ResourceID:    keyID,
		Outcome:       outcome,
		Detail:        detail,
		CreatedAt:     time.Now().UTC(),
	})
}

func (s *APIKeyService) requireAdmin(p domain.Principal, action authz.Action, keyID string) error {
	decision := s.authority.Decide(p, action, authz.Global)
	metrics.AuthzDecisionsTotal.WithLabelValues(string(action), decisionLabel(decision)).Inc()
	if err := decision.Err(domain.ErrKeyNotFound); err != nil {
		s.record(p, action, keyID, outcomeFor(decision), "")
		return err
	}
	return nil
}

// Create mints a new key. The raw key is returned exactly once; only its
// SHA-256 hash is persisted.
func (s *APIKeyService) Create(ctx context.Context, p domain.Principal, in ports.CreateAPIKeyInput) (*ports.CreatedAPIKey, error) {
	if err := s.requireAdmin(p, authz.ActionCreateKey, ""); err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, fmt.Errorf("%w: key name required", domain.ErrInvalidCredentials)
	}

	raw, err := generateRawKey()
	if err != nil {
		return nil, err
	}

	key := &domain.APIKey{
		Name:      in.Name,
		KeyHash:   HashAPIKey(raw),
		Scopes:    in.Scopes,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	if in.ExpiresInDays > 0 {
		exp := time.Now().UTC().AddDate(0, 0, in.ExpiresInDays)
		key.ExpiresAt = &exp
	}

	created, err := s.repo.Create(ctx, key)
	if err != nil {
		return nil, err
	}

	s.record(p, authz.ActionCreateKey, created.ID, domain.AuditAllowed, "name "+created.Name)
	s.logger.Info().Str("key_id", created.ID).Str("created_by", p.ID).Msg("api key created")
	return &ports.CreatedAPIKey{Key: *created, RawKey: raw}, nil
}

func (s *APIKeyService) List(ctx context.Context, p domain.Principal) ([]*domain.APIKey, error) {
	if err := s.requireAdmin(p, authz.ActionListKeys, ""); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

func (s *APIKeyService) Get(ctx context.Context, p domain.Principal, keyID string) (*domain.APIKey, error) {
	if err := s.requireAdmin(p, authz.ActionListKeys, keyID); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, keyID)
}

func (s *APIKeyService) Update(ctx context.Context, p domain.Principal, keyID string, update ports.APIKeyUpdate) error {
	if err := s.requireAdmin(p, authz.ActionRevokeKey, keyID); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, keyID, update); err != nil {
		return err
	}
	s.record(p, authz.ActionRevokeKey, keyID, domain.AuditAllowed, "updated")
	return nil
}

// Deactivate disables a key without deleting its record, so its audit
// trail survives.
func (s *APIKeyService) Deactivate(ctx context.Context, p domain.Principal, keyID string) error {
	if err := s.requireAdmin(p, authz.ActionRevokeKey, keyID); err != nil {
		return err
	}
	inactive := false
	if err := s.repo.Update(ctx, keyID, ports.APIKeyUpdate{IsActive: &inactive}); err != nil {
		return err
	}
	s.record(p, authz.ActionRevokeKey, keyID, domain.AuditAllowed, "deactivated")
	return nil
}

func (s *APIKeyService) Delete(ctx context.Context, p domain.Principal, keyID string) error {
	if err := s.requireAdmin(p, authz.ActionRevokeKey, keyID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, keyID); err != nil {
		return err
	}
	s.record(p, authz.ActionRevokeKey, keyID, domain.AuditAllowed, "deleted")
	return nil
}

// generateRawKey produces an ak_-prefixed URL-safe random key. The prefix
// guarantees the credential can never parse as a JWT, which the resolver's
// precedence rule depends on.
func generateRawKey() (string, error) {
	buf := make([]byte, rawKeyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate api key: %w", err)
	}
	return domain.KeyPrefix + base64.RawURLEncoding.EncodeToString(buf), nil
}

// AuditService exposes the mutation log to admins.
type AuditService struct {
	repo      ports.AuditRepository
	authority authz.Authority
}

func NewAuditService(repo ports.AuditRepository, authority authz.Authority) *AuditService {
	return &AuditService{repo: repo, authority: authority}
}

func (s *AuditService) List(ctx context.Context, p domain.Principal, filter ports.AuditFilter) ([]*domain.AuditEntry, error) {
	decision := s.authority.Decide(p, authz.ActionReadAudit, authz.Global)
	metrics.AuthzDecisionsTotal.WithLabelValues(string(authz.ActionReadAudit), decisionLabel(decision)).Inc()
	if err := decision.Err(domain.ErrUserNotFound); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, filter)
}
