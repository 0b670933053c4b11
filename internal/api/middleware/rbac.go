package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adventureapp/adventure-api/internal/core/domain"
)

// RBAC rejects principals whose role is not in the allowed set. This is a
// fast-fail gate in front of the admin routes; the ownership authority
// still renders its own verdict inside every service call.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := c.Get(PrincipalKey).(domain.Principal)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if _, ok := allowed[p.Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "admin role required")
			}
			return next(c)
		}
	}
}
