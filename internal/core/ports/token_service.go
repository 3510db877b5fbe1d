package ports

import (
	"context"

	"github.com/webstarter/identity-gateway/internal/core/domain"
)

// TokenIssuer mints a signed credential embedding the user's roles and
// permissions as resolved at issuance time.
type TokenIssuer interface {
	Issue(ctx context.Context, user *domain.User) (string, error)
}

// TokenVerifier validates a raw credential against the signing secret and
// expiry. Verification is pure CPU work; it performs no store access.
type TokenVerifier interface {
	Verify(raw string) (*domain.Claims, error)
}

// TokenService combines issuance and verification behind one signer.
type TokenService interface {
	TokenIssuer
	TokenVerifier
}
