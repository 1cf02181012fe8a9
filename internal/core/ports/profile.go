package ports

import (
	"context"

	"github.com/kuroneko-hornet/homeworks/internal/core/domain"
)

// ProfileRepository persists user profiles keyed by uid.
type ProfileRepository interface {
	// Get yields domain.ErrProfileNotFound for first-time users.
	Get(ctx context.Context, uid string) (*domain.UserProfile, error)
	// Upsert writes displayName only, leaving other stored fields untouched.
	Upsert(ctx context.Context, uid, displayName string) (*domain.UserProfile, error)
}

type ProfileService interface {
	Get(ctx context.Context, uid string) (*domain.UserProfile, error)
	Set(ctx context.Context, uid, displayName string) (*domain.UserProfile, error)
}
