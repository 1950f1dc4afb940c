package services

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist records revoked refresh tokens by JTI until they would
// have expired anyway.
type TokenBlacklist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

const blacklistKeyPrefix = "blacklist:refresh:"

// RedisBlacklist is the Redis-backed TokenBlacklist used in production.
// Entries carry a TTL matching the token's remaining lifetime so the set
// never grows beyond the live token population.
type RedisBlacklist struct {
	client *redis.Client
}

// NewRedisBlacklist constructs a RedisBlacklist.
func NewRedisBlacklist(client *redis.Client) *RedisBlacklist {
	return &RedisBlacklist{client: client}
}

// Revoke marks a refresh token as unusable.
func (b *RedisBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	return b.client.Set(ctx, blacklistKeyPrefix+jti, "1", ttl).Err()
}

// IsRevoked reports whether a refresh token has been revoked.
func (b *RedisBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, blacklistKeyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
