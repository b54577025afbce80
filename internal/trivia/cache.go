package trivia

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultCategoryCacheTTL = 5 * time.Minute
	categoryCacheKey        = "trivia:categories"
)

// CategoryCache holds the id->label map. Categories are seeded out of band
// and never written by the API, so a TTL is the only invalidation.
type CategoryCache interface {
	// Get returns nil, nil on a miss.
	Get(ctx context.Context) (Categories, error)
	Set(ctx context.Context, categories Categories) error
}

// RedisCategoryCache stores the category map as JSON in Redis.
type RedisCategoryCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ CategoryCache = (*RedisCategoryCache)(nil)

func NewRedisCategoryCache(client *redis.Client, ttl time.Duration) *RedisCategoryCache {
	if ttl <= 0 {
		ttl = defaultCategoryCacheTTL
	}
	return &RedisCategoryCache{client: client, ttl: ttl}
}

func (c *RedisCategoryCache) Get(ctx context.Context) (Categories, error) {
	data, err := c.client.Get(ctx, categoryCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var categories Categories
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *RedisCategoryCache) Set(ctx context.Context, categories Categories) error {
	data, err := json.Marshal(categories)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, categoryCacheKey, data, c.ttl).Err()
}
