package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kuroneko-hornet/homeworks/internal/core/domain"
)

// IdentityRepository indexes identities by email.
type IdentityRepository struct {
	mu      sync.RWMutex
	byEmail map[string]domain.Identity
}

func NewIdentityRepository() *IdentityRepository {
	return &IdentityRepository{byEmail: make(map[string]domain.Identity)}
}

func (r *IdentityRepository) FindByEmail(_ context.Context, email string) (*domain.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &id, nil
}

func (r *IdentityRepository) Create(_ context.Context, identity *domain.Identity) (*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[identity.Email]; exists {
		return nil, domain.ErrUserExists
	}
	created := *identity
	created.UID = uuid.NewString()
	r.byEmail[created.Email] = created
	return &created, nil
}

// TokenRevoker is an in-process revocation list with expiry.
type TokenRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewTokenRevoker() *TokenRevoker {
	return &TokenRevoker{revoked: make(map[string]time.Time), now: time.Now}
}

func (r *TokenRevoker) Revoke(_ context.Context, sessionID string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[sessionID] = r.now().Add(ttl)
	return nil
}

// IsRevoked also prunes the entry once it has expired.
func (r *TokenRevoker) IsRevoked(_ context.Context, sessionID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	until, ok := r.revoked[sessionID]
	if !ok {
		return false, nil
	}
	if !r.now().Before(until) {
		delete(r.revoked, sessionID)
		return false, nil
	}
	return true, nil
}
