package domain

import (
	"errors"
	"time"
)

var ErrKeyNotFound = errors.New("api key not found")

// KeyPrefix marks the start of every raw API key. The credential resolver
// relies on raw keys never parsing as a JWT, so the prefix is part of the
// wire contract, not just cosmetics.
const KeyPrefix = "ak_"

// APIKey is a persisted API-key record. Only the SHA-256 hash of the raw
// key is stored; the raw key is returned once at creation and cannot be
// recovered afterwards. Keys are not owned by a user: a request
// authenticated with a key acts as a synthetic principal whose role is
// derived from the key's scopes.
type APIKey struct {
	ID        string     `json:"key_id"`
	Name      string     `json:"name"`
	KeyHash   string     `json:"-"`
	Scopes    []string   `json:"scopes"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	LastUsed  *time.Time `json:"last_used,omitempty"`
}

// Expired reports whether the key has an expiry in the past relative to now.
func (k *APIKey) Expired(now time.Time) bool {
	return k.ExpiresAt != nil && k.ExpiresAt.Before(now)
}

// Usable reports whether the key may authenticate a request at time now.
func (k *APIKey) Usable(now time.Time) bool {
	return k.IsActive && !k.Expired(now)
}
