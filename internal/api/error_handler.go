package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/adventureapp/adventure-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Optionally masks ownership denials as 404 so the response never
//     confirms that someone else's adventure exists.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(maskForbidden bool, log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, maskForbidden, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, maskForbidden bool, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"

	case errors.Is(err, domain.ErrNotOwner):
		// Ownership denials read as absence unless the deployment opts
		// into honest 403s. Role denials below are never masked.
		if maskForbidden {
			return http.StatusNotFound, "adventure not found"
		}
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrInsufficientRole):
		return http.StatusForbidden, "admin role required"
	case errors.Is(err, domain.ErrSelfDeletion):
		return http.StatusForbidden, "cannot delete own account"

	case errors.Is(err, domain.ErrAdventureNotFound):
		return http.StatusNotFound, "adventure not found"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrKeyNotFound):
		return http.StatusNotFound, "api key not found"
	case errors.Is(err, domain.ErrNoCoverImage):
		return http.StatusNotFound, "adventure has no cover image"

	case errors.Is(err, domain.ErrAdventureEnded):
		return http.StatusBadRequest, "adventure has ended"
	case errors.Is(err, domain.ErrInvalidIndex):
		return http.StatusUnprocessableEntity, "node index out of range"
	case errors.Is(err, domain.ErrInvalidOption):
		return http.StatusUnprocessableEntity, "selected option out of range"
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusUnprocessableEntity, err.Error()

	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "adventure was modified concurrently, retry from its latest state"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user already exists"

	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway, "story generation is currently failing"
	case errors.Is(err, domain.ErrUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		// Store timeouts are outages, not denials or server bugs.
		return http.StatusServiceUnavailable, "service temporarily unavailable"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
