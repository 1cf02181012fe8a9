package ports

import (
	"context"
	"time"

	"github.com/kuroneko-hornet/homeworks/internal/core/domain"
)

// IdentityRepository persists sign-in identities.
type IdentityRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)
	// Create stores a new identity and returns it with its UID assigned.
	// A duplicate email yields domain.ErrUserExists.
	Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error)
}

// TokenRevoker tracks sessions that signed out before their token expired.
type TokenRevoker interface {
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}
