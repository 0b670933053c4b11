package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/adventureapp/adventure-api/internal/core/authz"
	"github.com/adventureapp/adventure-api/internal/core/domain"
	"github.com/adventureapp/adventure-api/internal/core/ports"
)

func newKeyService(repo *stubKeyRepo) *APIKeyService {
	return NewAPIKeyService(repo, authz.Authority{}, &memAuditSink{}, zerolog.Nop())
}

func TestCreateKey_RawKeyVisibleOnce(t *testing.T) {
	repo := newStubKeyRepo()
	svc := newKeyService(repo)

	created, err := svc.Create(context.Background(), admin, ports.CreateAPIKeyInput{
		Name:   "ci-deploy",
		Scopes: []string{"read"},
	})
	if err != nil {
		t.Fatalf("create key: %v", err)
	}

	if !strings.HasPrefix(created.RawKey, domain.KeyPrefix) {
		t.Fatalf("raw key %q missing %q prefix", created.RawKey, domain.KeyPrefix)
	}
	if created.Key.KeyHash == created.RawKey {
		t.Fatal("raw key persisted instead of its hash")
	}
	if created.Key.KeyHash != HashAPIKey(created.RawKey) {
		t.Fatal("stored hash does not match the raw key")
	}

	stored, err := repo.FindByID(context.Background(), created.Key.ID)
	if err != nil {
		t.Fatalf("find stored key: %v", err)
	}
	if !stored.IsActive {
		t.Fatal("new key must be active")
	}
	if stored.ExpiresAt != nil {
		t.Fatal("key without expiry days must never expire")
	}
}

func TestCreateKey_Expiry(t *testing.T) {
	svc := newKeyService(newStubKeyRepo())

	created, err := svc.Create(context.Background(), admin, ports.CreateAPIKeyInput{
		Name:          "temp",
		ExpiresInDays: 30,
	})
	if err != nil {
		t.Fatalf("create key: %v", err)
	}
	if created.Key.ExpiresAt == nil {
		t.Fatal("expiry not set")
	}
}

func TestKeyManagement_AdminOnly(t *testing.T) {
	repo := newStubKeyRepo()
	svc := newKeyService(repo)
	ctx := context.Background()

	if _, err := svc.Create(ctx, owner, ports.CreateAPIKeyInput{Name: "x"}); !errors.Is(err, domain.ErrInsufficientRole) {
		t.Fatalf("create: expected ErrInsufficientRole, got %v", err)
	}
	if _, err := svc.List(ctx, owner); !errors.Is(err, domain.ErrInsufficientRole) {
		t.Fatalf("list: expected ErrInsufficientRole, got %v", err)
	}
	if err := svc.Delete(ctx, owner, "k1"); !errors.Is(err, domain.ErrInsufficientRole) {
		t.Fatalf("delete: expected ErrInsufficientRole, got %v", err)
	}
	if len(repo.byHash) != 0 {
		t.Fatal("denied create persisted a key")
	}
}

// A freshly minted key authenticates through the credential resolver, and
// stops authenticating the moment it is deactivated.
func TestKeyLifecycle_ResolverRoundTrip(t *testing.T) {
	repo := newStubKeyRepo()
	svc := newKeyService(repo)
	resolver := NewCredentialResolver(repo, "secret", zerolog.Nop())
	ctx := context.Background()

	created, err := svc.Create(ctx, admin, ports.CreateAPIKeyInput{
		Name:   "ingest",
		Scopes: []string{domain.ScopeAdmin},
	})
	if err != nil {
		t.Fatalf("create key: %v", err)
	}

	p, err := resolver.Resolve(ctx, created.RawKey)
	if err != nil {
		t.Fatalf("resolve fresh key: %v", err)
	}
	if p.Kind != domain.PrincipalAPIKey || p.Role != domain.RoleAdmin {
		t.Fatalf("unexpected principal: %+v", p)
	}

	if err := svc.Deactivate(ctx, admin, created.Key.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	if _, err := resolver.Resolve(ctx, created.RawKey); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("deactivated key resolved: %v", err)
	}
	// The record itself survives for the audit trail.
	if _, err := repo.FindByID(ctx, created.Key.ID); err != nil {
		t.Fatal("deactivation deleted the record")
	}
}

func TestAuditList_AdminOnly(t *testing.T) {
	svc := NewAuditService(stubAuditRepo{}, authz.Authority{})
	ctx := context.Background()

	if _, err := svc.List(ctx, owner, ports.AuditFilter{}); !errors.Is(err, domain.ErrInsufficientRole) {
		t.Fatalf("expected ErrInsufficientRole, got %v", err)
	}
	if _, err := svc.List(ctx, admin, ports.AuditFilter{}); err != nil {
		t.Fatalf("admin list: %v", err)
	}
}

type stubAuditRepo struct{}

func (stubAuditRepo) Insert(_ context.Context, _ *domain.AuditEntry) error { return nil }

func (stubAuditRepo) List(_ context.Context, _ ports.AuditFilter) ([]*domain.AuditEntry, error) {
	return nil, nil
}
