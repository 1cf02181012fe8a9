package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionRevoker keeps a revocation list of signed-out sessions.
// Key format: revoked:<session_id>, expiring with the token.
type SessionRevoker struct {
	client *redis.Client
}

func NewSessionRevoker(client *redis.Client) *SessionRevoker {
	return &SessionRevoker{client: client}
}

// Revoke marks the session as signed out for ttl.
func (r *SessionRevoker) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, key(sessionID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// IsRevoked reports whether the session signed out.
func (r *SessionRevoker) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	n, err := r.client.Exists(ctx, key(sessionID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

func key(sessionID string) string {
	return "revoked:" + sessionID
}
