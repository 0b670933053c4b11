package domain

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// ScopeAdmin is the API-key scope that grants an administrative role.
const ScopeAdmin = "admin"

// PrincipalKind distinguishes how a principal authenticated.
type PrincipalKind string

const (
	PrincipalUser   PrincipalKind = "user"
	PrincipalAPIKey PrincipalKind = "api_key"
)

// Principal is the resolved identity attached to a request. It is built
// once by the credential resolver and treated as immutable afterwards.
// JWT principals carry an empty scope set; API-key principals carry the
// key's scopes and a synthetic id derived from the key id, never a user id.
type Principal struct {
	ID     string
	Role   string
	Kind   PrincipalKind
	Scopes []string
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// HasScope reports whether the principal carries the given scope.
// JWT principals have no scopes and always return false.
func (p Principal) HasScope(scope string) bool {
	for _, s := range p.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// RoleForScopes derives an effective role from an API key's scope set.
func RoleForScopes(scopes []string) string {
	for _, s := range scopes {
		if s == ScopeAdmin {
			return RoleAdmin
		}
	}
	return RoleUser
}
