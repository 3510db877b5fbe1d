package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/webstarter/identity-gateway/internal/core/domain"
	"github.com/webstarter/identity-gateway/internal/core/ports"
)

const defaultTokenTTL = 7 * 24 * time.Hour

// TokenService signs and verifies credentials. Issuance embeds the user's
// roles and permissions as a snapshot; a role change after signing is only
// reflected in the next issued token.
type TokenService struct {
	rbac     ports.RBACRepository
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

func NewTokenService(rbac ports.RBACRepository, secret string, tokenTTL time.Duration) *TokenService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &TokenService{
		rbac:     rbac,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

// Issue loads the user's grants and mints a signed credential carrying role
// names and name-deduplicated permission names. A store failure aborts
// issuance; no partial credential is produced.
func (s *TokenService) Issue(ctx context.Context, user *domain.User) (string, error) {
	grants, err := s.rbac.UserGrants(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("load grants for token: %w", err)
	}

	now := s.now().UTC()
	claims := &domain.Claims{
		Email:       user.Email,
		Name:        user.Name,
		Roles:       grants.RoleNames(),
		Permissions: grants.PermissionNames(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify validates a raw credential and returns its decoded claims.
// Failure modes map to the verification taxonomy: ErrNoToken for an empty
// credential, ErrTokenExpired for a good signature past its expiry, and
// ErrTokenInvalid for anything else. The expiry boundary is inclusive:
// a credential whose expiry equals "now" is already expired.
func (s *TokenService) Verify(raw string) (*domain.Claims, error) {
	if raw == "" {
		return nil, domain.ErrNoToken
	}

	claims := &domain.Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if !token.Valid {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}
