package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/adventureapp/adventure-api/internal/core/domain"
	"github.com/adventureapp/adventure-api/internal/core/ports"
)

// AdminHandler handles the admin surface: user management, API keys, and
// the audit log. Every route is behind the RBAC gate, and every service
// call is additionally vetted by the ownership authority.
type AdminHandler struct {
	users ports.UserService
	keys  ports.APIKeyService
	audit ports.AuditService
}

func NewAdminHandler(users ports.UserService, keys ports.APIKeyService, audit ports.AuditService) *AdminHandler {
	return &AdminHandler{users: users, keys: keys, audit: audit}
}

func keyResponse(k *domain.APIKey) apiKeyResponse {
	return apiKeyResponse{
		ID:        k.ID,
		Name:      k.Name,
		Scopes:    k.Scopes,
		IsActive:  k.IsActive,
		CreatedAt: k.CreatedAt,
		ExpiresAt: k.ExpiresAt,
		LastUsed:  k.LastUsed,
	}
}

// CreateUser handles POST /admin/users.
//
// @Summary      Create a user with an explicit role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User details"
// @Success      201   {object}  domain.User
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /admin/users [post]
func (h *AdminHandler) CreateUser(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.CreateUser(c.Request().Context(), p, req.Email, req.Password, req.Role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// DeleteUser handles DELETE /admin/users/:id.
//
// @Summary      Delete a user
// @Tags         admin
// @Security     BearerAuth
// @Param        id  path  string  true  "User ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	if err := h.users.DeleteUser(c.Request().Context(), p, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateKey handles POST /admin/api-keys.
//
// @Summary      Mint a new API key
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAPIKeyRequest  true  "Key details"
// @Success      201   {object}  createdAPIKeyResponse
// @Failure      403   {object}  errorResponse
// @Router       /admin/api-keys [post]
func (h *AdminHandler) CreateKey(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req createAPIKeyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.keys.Create(c.Request().Context(), p, ports.CreateAPIKeyInput{
		Name:          req.Name,
		Scopes:        req.Scopes,
		ExpiresInDays: req.ExpiresInDays,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, createdAPIKeyResponse{
		apiKeyResponse: keyResponse(&created.Key),
		Key:            created.RawKey,
	})
}

// ListKeys handles GET /admin/api-keys.
//
// @Summary      List API keys
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listAPIKeysResponse
// @Failure      403  {object}  errorResponse
// @Router       /admin/api-keys [get]
func (h *AdminHandler) ListKeys(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	keys, err := h.keys.List(c.Request().Context(), p)
	if err != nil {
		return err
	}

	data := make([]apiKeyResponse, 0, len(keys))
	for _, k := range keys {
		data = append(data, keyResponse(k))
	}
	return c.JSON(http.StatusOK, listAPIKeysResponse{Data: data})
}

// GetKey handles GET /admin/api-keys/:id.
//
// @Summary      Get an API key by id
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Key ID"
// @Success      200  {object}  apiKeyResponse
// @Failure      404  {object}  errorResponse
// @Router       /admin/api-keys/{id} [get]
func (h *AdminHandler) GetKey(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	key, err := h.keys.Get(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, keyResponse(key))
}

// UpdateKey handles PATCH /admin/api-keys/:id.
//
// @Summary      Update an API key's name, scopes, or active flag
// @Tags         admin
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  string               true  "Key ID"
// @Param        body  body  updateAPIKeyRequest  true  "Fields to change"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /admin/api-keys/{id} [patch]
func (h *AdminHandler) UpdateKey(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req updateAPIKeyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	err = h.keys.Update(c.Request().Context(), p, c.Param("id"), ports.APIKeyUpdate{
		Name:     req.Name,
		Scopes:   req.Scopes,
		IsActive: req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeactivateKey handles POST /admin/api-keys/:id/deactivate.
//
// @Summary      Deactivate an API key, keeping its record
// @Tags         admin
// @Security     BearerAuth
// @Param        id  path  string  true  "Key ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /admin/api-keys/{id}/deactivate [post]
func (h *AdminHandler) DeactivateKey(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	if err := h.keys.Deactivate(c.Request().Context(), p, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteKey handles DELETE /admin/api-keys/:id.
//
// @Summary      Delete an API key
// @Tags         admin
// @Security     BearerAuth
// @Param        id  path  string  true  "Key ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /admin/api-keys/{id} [delete]
func (h *AdminHandler) DeleteKey(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	if err := h.keys.Delete(c.Request().Context(), p, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListAudit handles GET /admin/audit.
//
// @Summary      List audit log entries
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        resource_id   query     string  false  "Filter by resource id"
// @Param        principal_id  query     string  false  "Filter by principal id"
// @Param        limit         query     int     false  "Max entries (default 100)"
// @Success      200  {object}  listAuditResponse
// @Failure      403  {object}  errorResponse
// @Router       /admin/audit [get]
func (h *AdminHandler) ListAudit(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	entries, err := h.audit.List(c.Request().Context(), p, ports.AuditFilter{
		ResourceID:  c.QueryParam("resource_id"),
		PrincipalID: c.QueryParam("principal_id"),
		Limit:       limit,
	})
	if err != nil {
		return err
	}

	data := make([]auditEntryResponse, 0, len(entries))
	for _, e := range entries {
		data = append(data, auditEntryResponse{
			ID:            e.ID,
			PrincipalID:   e.PrincipalID,
			PrincipalRole: e.PrincipalRole,
			Action:        e.Action,
			ResourceType:  e.ResourceType,
			ResourceID:    e.ResourceID,
			Outcome:       string(e.Outcome),
			Detail:        e.Detail,
			CreatedAt:     e.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, listAuditResponse{Data: data})
}
