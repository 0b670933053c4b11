package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// CoverURLCache caches presigned cover-image URLs in Redis.
// Key format: cover:<adventure_id>
//
// The cache is strictly best-effort: a Redis failure reads as a miss and
// the caller re-signs, so cover delivery never depends on Redis being up.
type CoverURLCache struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewCoverURLCache(client *redis.Client, log zerolog.Logger) *CoverURLCache {
	return &CoverURLCache{client: client, log: log}
}

func (c *CoverURLCache) Get(ctx context.Context, adventureID string) (string, bool) {
	url, err := c.client.Get(ctx, c.key(adventureID)).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Str("adventure_id", adventureID).Msg("cover cache read failed")
		}
		return "", false
	}
	return url, true
}

func (c *CoverURLCache) Set(ctx context.Context, adventureID, url string, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if err := c.client.Set(ctx, c.key(adventureID), url, ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("adventure_id", adventureID).Msg("cover cache write failed")
	}
}

func (c *CoverURLCache) Invalidate(ctx context.Context, adventureID string) {
	if err := c.client.Del(ctx, c.key(adventureID)).Err(); err != nil {
		c.log.Warn().Err(err).Str("adventure_id", adventureID).Msg("cover cache invalidation failed")
	}
}

func (c *CoverURLCache) key(adventureID string) string {
	return "cover:" + adventureID
}
