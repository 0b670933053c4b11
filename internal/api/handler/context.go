package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adventureapp/adventure-api/internal/api/middleware"
	"github.com/adventureapp/adventure-api/internal/core/domain"
)

// ctxPrincipal extracts the principal injected by the Auth middleware.
// Its absence means the route was wired without authentication, which is
// a server bug surfaced as 401 rather than a panic.
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	p, ok := c.Get(middleware.PrincipalKey).(domain.Principal)
	if !ok || p.ID == "" {
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return p, nil
}
