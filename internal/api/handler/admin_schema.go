package handler

import "time"

type createUserRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role"     validate:"omitempty,oneof=admin user"`
}

type createAPIKeyRequest struct {
	Name          string   `json:"name"            validate:"required,min=1"`
	Scopes        []string `json:"scopes"          validate:"omitempty,dive,min=1"`
	ExpiresInDays int      `json:"expires_in_days" validate:"omitempty,gte=1"`
}

type updateAPIKeyRequest struct {
	Name     *string  `json:"name,omitempty"`
	Scopes   []string `json:"scopes,omitempty"`
	IsActive *bool    `json:"is_active,omitempty"`
}

type apiKeyResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Scopes    []string   `json:"scopes,omitempty"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	LastUsed  *time.Time `json:"last_used,omitempty"`
}

// createdAPIKeyResponse carries the raw key; it is returned exactly once
// at creation and never recoverable afterwards.
type createdAPIKeyResponse struct {
	apiKeyResponse
	Key string `json:"key"`
}

type listAPIKeysResponse struct {
	Data []apiKeyResponse `json:"data"`
}

type auditEntryResponse struct {
	ID            string    `json:"id"`
	PrincipalID   string    `json:"principal_id"`
	PrincipalRole string    `json:"principal_role"`
	Action        string    `json:"action"`
	ResourceType  string    `json:"resource_type"`
	ResourceID    string    `json:"resource_id,omitempty"`
	Outcome       string    `json:"outcome"`
	Detail        string    `json:"detail,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type listAuditResponse struct {
	Data []auditEntryResponse `json:"data"`
}
