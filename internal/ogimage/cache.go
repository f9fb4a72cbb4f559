package ogimage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache remembers validation outcomes per URL. Implementations must treat
// their own failures as a miss.
type Cache interface {
	Get(ctx context.Context, url string) (valid, found bool)
	Set(ctx context.Context, url string, valid bool)
}

// NopCache never remembers anything
type NopCache struct{}

func (NopCache) Get(context.Context, string) (bool, bool) { return false, false }
func (NopCache) Set(context.Context, string, bool)        {}

const redisKeyPrefix = "ogimage:valid:"

// RedisCache stores outcomes as "1"/"0" strings with a TTL
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a cache over an existing client
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, url string) (bool, bool) {
	val, err := c.client.Get(ctx, redisKeyPrefix+url).Result()
	if err != nil {
		return false, false
	}
	return val == "1", true
}

func (c *RedisCache) Set(ctx context.Context, url string, valid bool) {
	val := "0"
	if valid {
		val = "1"
	}
	_ = c.client.Set(ctx, redisKeyPrefix+url, val, c.ttl).Err()
}
