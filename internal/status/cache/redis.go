// Package cache provides a Redis-backed fast path for revocation checks in
// distributed deployments. The status store remains the source of truth; the
// cache only short-circuits proof requests for already-revoked credentials.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "wallet:revoked:jti:"

// RevokedCache marks revoked credential ids with a TTL covering the
// credential validity window.
type RevokedCache struct {
	client *redis.Client
}

// New constructs a Redis-backed revoked-credential cache. Client lifecycle
// is managed externally.
func New(client *redis.Client) *RevokedCache {
	return &RevokedCache{client: client}
}

// MarkRevoked records a revoked credential id. Key existence is the marker.
func (c *RevokedCache) MarkRevoked(ctx context.Context, credentialID string, ttl time.Duration) error {
	if credentialID == "" {
		return nil
	}
	return c.client.Set(ctx, revokedKeyPrefix+credentialID, "1", ttl).Err()
}

// IsRevoked reports whether the credential id is cached as revoked. A miss
// means "unknown", not "valid" — callers must fall through to the store.
func (c *RevokedCache) IsRevoked(ctx context.Context, credentialID string) (bool, error) {
	if credentialID == "" {
		return false, nil
	}
	_, err := c.client.Get(ctx, revokedKeyPrefix+credentialID).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
