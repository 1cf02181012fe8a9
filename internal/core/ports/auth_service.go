package ports

import (
	"context"
	"time"

	"github.com/kuroneko-hornet/homeworks/internal/core/domain"
)

// Claims is what a verified session token carries.
type Claims struct {
	UID       string
	Email     string
	SessionID string
	ExpiresAt time.Time
}

// AuthService is the identity/session provider.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*domain.Identity, error)
	Login(ctx context.Context, email, password string) (string, *domain.Identity, error)
	Logout(ctx context.Context, claims Claims) error
	Authenticate(ctx context.Context, token string) (Claims, error)
	// Subscribe delivers every sign-in and sign-out of uid to onChange, in
	// order and one at a time. The returned func cancels the subscription.
	Subscribe(uid string, onChange func(domain.ChangeEvent)) (unsubscribe func())
}
