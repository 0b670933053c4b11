package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/adventureapp/adventure-api/internal/core/ports"
)

// PrincipalKey is the context key the resolved principal is stored under.
const PrincipalKey = "principal"

// Auth extracts the caller's credential and resolves it to a principal.
// Both bearer tokens and raw API keys travel in the Authorization header;
// X-API-Key is accepted as an alternative for keys. The resolver decides
// which kind of credential it is — this middleware only moves bytes.
func Auth(resolver ports.CredentialResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			credential := extractCredential(c)

			p, err := resolver.Resolve(c.Request().Context(), credential)
			if err != nil {
				return err
			}

			c.Set(PrincipalKey, p)
			return next(c)
		}
	}
}

func extractCredential(c echo.Context) string {
	if h := c.Request().Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return strings.TrimSpace(h)
	}
	return strings.TrimSpace(c.Request().Header.Get("X-API-Key"))
}
