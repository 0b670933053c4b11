package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/adventureapp/adventure-api/internal/core/domain"
)

func renderError(t *testing.T, maskForbidden bool, err error) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(maskForbidden, zerolog.Nop())(err, c)
	return rec
}

func TestErrorHandler_Taxonomy(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrUnauthenticated, http.StatusUnauthorized},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrInsufficientRole, http.StatusForbidden},
		{domain.ErrSelfDeletion, http.StatusForbidden},
		{domain.ErrAdventureNotFound, http.StatusNotFound},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrKeyNotFound, http.StatusNotFound},
		{domain.ErrNoCoverImage, http.StatusNotFound},
		{domain.ErrAdventureEnded, http.StatusBadRequest},
		{domain.ErrInvalidIndex, http.StatusUnprocessableEntity},
		{domain.ErrInvalidOption, http.StatusUnprocessableEntity},
		{domain.ErrInvalidInput, http.StatusUnprocessableEntity},
		{domain.ErrConflict, http.StatusConflict},
		{domain.ErrUserExists, http.StatusConflict},
		{domain.ErrUpstream, http.StatusBadGateway},
		{domain.ErrUnavailable, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, c := range cases {
		rec := renderError(t, true, c.err)
		if rec.Code != c.want {
			t.Errorf("%v: got %d, want %d", c.err, rec.Code, c.want)
		}
	}
}

// With masking on, a cross-owner denial is indistinguishable from a
// missing adventure. Role denials stay 403 either way.
func TestErrorHandler_OwnershipMasking(t *testing.T) {
	rec := renderError(t, true, domain.ErrNotOwner)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("masked: got %d, want 404", rec.Code)
	}

	missing := renderError(t, true, domain.ErrAdventureNotFound)
	if rec.Body.String() != missing.Body.String() {
		t.Fatalf("masked denial body %q differs from miss body %q", rec.Body.String(), missing.Body.String())
	}

	rec = renderError(t, false, domain.ErrNotOwner)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("unmasked: got %d, want 403", rec.Code)
	}

	rec = renderError(t, true, domain.ErrInsufficientRole)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("role denial must never be masked, got %d", rec.Code)
	}
}

// Wrapped errors still map: the gateway wraps upstream failures with
// context before they reach the edge.
func TestErrorHandler_WrappedErrors(t *testing.T) {
	err := fmt.Errorf("start adventure: %w", errors.Join(domain.ErrUpstream, errors.New("model overloaded")))
	rec := renderError(t, true, err)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("got %d, want 502", rec.Code)
	}
}

// A store timeout wrapped by a repository reads as an outage, not as an
// internal error.
func TestErrorHandler_DeadlineIsUnavailable(t *testing.T) {
	err := fmt.Errorf("find adventure: %w", context.DeadlineExceeded)
	rec := renderError(t, true, err)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("got %d, want 503", rec.Code)
	}
}

func TestErrorHandler_EchoHTTPErrorPassthrough(t *testing.T) {
	rec := renderError(t, true, echo.NewHTTPError(http.StatusTeapot, "kettle"))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("got %d, want 418", rec.Code)
	}
}
