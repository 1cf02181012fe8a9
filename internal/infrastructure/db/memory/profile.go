package memory

import (
	"context"
	"sync"
	"time"

	"github.com/kuroneko-hornet/homeworks/internal/core/domain"
)

type ProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]domain.UserProfile
}

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{profiles: make(map[string]domain.UserProfile)}
}

func (r *ProfileRepository) Get(_ context.Context, uid string) (*domain.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[uid]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return &p, nil
}

// Upsert changes only the display name of an existing profile.
func (r *ProfileRepository) Upsert(_ context.Context, uid, displayName string) (*domain.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	p, ok := r.profiles[uid]
	if !ok {
		p = domain.UserProfile{UID: uid, CreatedAt: now}
	}
	p.DisplayName = displayName
	p.UpdatedAt = now
	r.profiles[uid] = p
	return &p, nil
}
