package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/adventureapp/adventure-api/internal/api/metrics"
	"github.com/adventureapp/adventure-api/internal/core/domain"
	"github.com/adventureapp/adventure-api/internal/core/ports"
)

// CredentialResolver resolves a bearer credential into a Principal.
//
// Precedence is deterministic: the credential is tried as a signed token
// first, and the API-key path is reached only when the token parser
// rejects it as structurally malformed. A well-formed token that fails
// signature or expiry checks is terminal — it is never re-interpreted as
// an API key, so the failure a caller sees does not depend on what else
// happens to be in the key store.
type CredentialResolver struct {
	keys      ports.APIKeyRepository
	jwtSecret string
	logger    zerolog.Logger
	now       func() time.Time
}

func NewCredentialResolver(keys ports.APIKeyRepository, jwtSecret string, logger zerolog.Logger) *CredentialResolver {
	return &CredentialResolver{
		keys:      keys,
		jwtSecret: jwtSecret,
		logger:    logger,
		now:       time.Now,
	}
}

// Resolve implements ports.CredentialResolver.
func (r *CredentialResolver) Resolve(ctx context.Context, credential string) (domain.Principal, error) {
	if credential == "" {
		return domain.Principal{}, domain.ErrUnauthenticated
	}

	p, err := r.resolveToken(credential)
	if err == nil {
		metrics.AuthAttemptsTotal.WithLabelValues("jwt", "ok").Inc()
		return p, nil
	}
	if !errors.Is(err, jwt.ErrTokenMalformed) {
		// Structurally a token, but invalid: fail closed here.
		metrics.AuthAttemptsTotal.WithLabelValues("jwt", "unauthenticated").Inc()
		return domain.Principal{}, domain.ErrUnauthenticated
	}

	return r.resolveKey(ctx, credential)
}

func (r *CredentialResolver) resolveToken(credential string) (domain.Principal, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(credential, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(r.jwtSecret), nil
	})
	if err != nil {
		return domain.Principal{}, err
	}
	if !tkn.Valid {
		return domain.Principal{}, jwt.ErrTokenUnverifiable
	}

	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || (role != domain.RoleAdmin && role != domain.RoleUser) {
		// Signed by us but with an unusable payload; treat as invalid,
		// not malformed, so it cannot fall through to key lookup.
		return domain.Principal{}, jwt.ErrTokenInvalidClaims
	}

	return domain.Principal{ID: sub, Role: role, Kind: domain.PrincipalUser}, nil
}

func (r *CredentialResolver) resolveKey(ctx context.Context, credential string) (domain.Principal, error) {
	key, err := r.keys.FindByHash(ctx, HashAPIKey(credential))
	if err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			metrics.AuthAttemptsTotal.WithLabelValues("api_key", "unauthenticated").Inc()
			return domain.Principal{}, domain.ErrUnauthenticated
		}
		// Store timeouts and outages surface as unavailable, never as a
		// denial, so outages cannot masquerade as authorization bugs.
		metrics.AuthAttemptsTotal.WithLabelValues("api_key", "unavailable").Inc()
		return domain.Principal{}, domain.ErrUnavailable
	}

	if !key.Usable(r.now()) {
		metrics.AuthAttemptsTotal.WithLabelValues("api_key", "unauthenticated").Inc()
		return domain.Principal{}, domain.ErrUnauthenticated
	}

	if err := r.keys.TouchLastUsed(ctx, key.ID, r.now()); err != nil {
		r.logger.Warn().Err(err).Str("key_id", key.ID).Msg("failed to update api key last_used")
	}

	metrics.AuthAttemptsTotal.WithLabelValues("api_key", "ok").Inc()
	return domain.Principal{
		ID:     "key:" + key.ID,
		Role:   domain.RoleForScopes(key.Scopes),
		Kind:   domain.PrincipalAPIKey,
		Scopes: key.Scopes,
	}, nil
}

// HashAPIKey returns the hex SHA-256 digest under which a raw key is
// stored and looked up.
func HashAPIKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
