package ogimage

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestNopCache(t *testing.T) {
	var c Cache = NopCache{}
	c.Set(context.Background(), "https://img.example.com/a.jpg", true)
	_, found := c.Get(context.Background(), "https://img.example.com/a.jpg")
	assert.False(t, found)
}

func TestRedisCache_UnreachableIsMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond})
	defer client.Close()
	cache := NewRedisCache(client, time.Minute)

	cache.Set(context.Background(), "https://img.example.com/a.jpg", true)
	_, found := cache.Get(context.Background(), "https://img.example.com/a.jpg")
	assert.False(t, found)
}
