package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistPrefix = "blacklist:"

// Blacklist stores revoked tokens in Redis until they would have expired anyway
type Blacklist struct {
	rdb *redis.Client
}

func NewBlacklist(rdb *redis.Client) *Blacklist {
	return &Blacklist{rdb: rdb}
}

// Revoke blacklists a token for ttl. Already expired tokens are ignored.
func (b *Blacklist) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if b == nil || b.rdb == nil || ttl <= 0 {
		return nil
	}
	return b.rdb.Set(ctx, blacklistPrefix+token, "revoked", ttl).Err()
}

// IsRevoked reports whether token was revoked
func (b *Blacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	if b == nil || b.rdb == nil {
		return false, nil
	}
	err := b.rdb.Get(ctx, blacklistPrefix+token).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
