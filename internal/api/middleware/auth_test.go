package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/adventureapp/adventure-api/internal/core/domain"
)

type stubResolver struct {
	principal domain.Principal
	err       error
	got       string
}

func (r *stubResolver) Resolve(_ context.Context, credential string) (domain.Principal, error) {
	r.got = credential
	if r.err != nil {
		return domain.Principal{}, r.err
	}
	return r.principal, nil
}

func TestAuthMiddleware_BearerCredential(t *testing.T) {
	e := echo.New()
	resolver := &stubResolver{principal: domain.Principal{ID: "u1", Role: domain.RoleUser, Kind: domain.PrincipalUser}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer some-credential")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(resolver)(func(c echo.Context) error {
		called = true
		p, ok := c.Get(PrincipalKey).(domain.Principal)
		if !ok || p.ID != "u1" {
			t.Fatalf("principal not set: %+v", c.Get(PrincipalKey))
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatal("next not called")
	}
	if resolver.got != "some-credential" {
		t.Fatalf("resolver got %q", resolver.got)
	}
}

func TestAuthMiddleware_APIKeyHeader(t *testing.T) {
	e := echo.New()
	resolver := &stubResolver{principal: domain.Principal{ID: "key:k1", Role: domain.RoleUser, Kind: domain.PrincipalAPIKey}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-API-Key", "ak_something")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(resolver)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if resolver.got != "ak_something" {
		t.Fatalf("resolver got %q", resolver.got)
	}
}

func TestAuthMiddleware_ResolverErrorPropagates(t *testing.T) {
	e := echo.New()
	resolver := &stubResolver{err: domain.ErrUnauthenticated}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(resolver)(func(c echo.Context) error {
		t.Fatal("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
