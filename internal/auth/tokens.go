package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TokenManager issues and resolves opaque bearer tokens backed by Redis.
// A token is only trusted while its Redis entry exists; nothing decoded from
// the client side is used for authorization decisions.
type TokenManager struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTokenManager constructs a TokenManager.
func NewTokenManager(client *redis.Client, ttl time.Duration) *TokenManager {
	return &TokenManager{client: client, ttl: ttl}
}

// Issue creates a new bearer token for the given user.
func (tm *TokenManager) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	token := uuid.NewString()
	if err := tm.client.Set(ctx, tm.key(token), userID.String(), tm.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve returns the user ID a token was issued to. The second return value
// is false when the token is unknown or expired.
func (tm *TokenManager) Resolve(ctx context.Context, token string) (uuid.UUID, bool, error) {
	if token == "" {
		return uuid.Nil, false, nil
	}
	raw, err := tm.client.Get(ctx, tm.key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, err
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false, nil
	}
	return id, true, nil
}

// Revoke invalidates a token. Revoking an unknown token is a no-op.
func (tm *TokenManager) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	err := tm.client.Del(ctx, tm.key(token)).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

// TTL exposes the configured token lifetime.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

func (tm *TokenManager) key(token string) string {
	return "auth:token:" + token
}
