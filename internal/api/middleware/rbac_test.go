package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/adventureapp/adventure-api/internal/core/domain"
)

func rbacContext(e *echo.Echo, p *domain.Principal) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if p != nil {
		c.Set(PrincipalKey, *p)
	}
	return c, rec
}

func TestRBAC_AllowsListedRole(t *testing.T) {
	e := echo.New()
	c, rec := rbacContext(e, &domain.Principal{ID: "u1", Role: domain.RoleAdmin})

	handler := RBAC(domain.RoleAdmin)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRBAC_RejectsOtherRole(t *testing.T) {
	e := echo.New()
	c, _ := rbacContext(e, &domain.Principal{ID: "u1", Role: domain.RoleUser})

	handler := RBAC(domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatal("should not reach next")
		return nil
	})

	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403 HTTPError, got %v", err)
	}
}

func TestRBAC_RejectsMissingPrincipal(t *testing.T) {
	e := echo.New()
	c, _ := rbacContext(e, nil)

	handler := RBAC(domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatal("should not reach next")
		return nil
	})

	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}
