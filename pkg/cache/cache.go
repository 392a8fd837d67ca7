package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache TTLs. Listing caches are short because every post mutation
// invalidates them anyway; the TTL only bounds staleness when an
// invalidation is lost to a redis hiccup.
const (
	TTLCategories = 5 * time.Minute
	TTLThreads    = 30 * time.Second
	TTLDefault    = 1 * time.Minute
)

// Cache key prefixes
const (
	PrefixCategories = "categories:"
	PrefixThreads    = "threads:"
)

// Service is the redis-backed cache used for category and thread listings.
// All operations degrade to no-ops when redis is unavailable.
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	GetCategoryList(ctx context.Context) ([]byte, error)
	SetCategoryList(ctx context.Context, data interface{}) error
	InvalidateCategoryList(ctx context.Context) error

	GetThreadPage(ctx context.Context, categoryID uint64, page, limit int) ([]byte, error)
	SetThreadPage(ctx context.Context, categoryID uint64, page, limit int, data interface{}) error
	InvalidateThreads(ctx context.Context, categoryID uint64) error

	IsAvailable() bool
	Ping(ctx context.Context) error
}

type redisCache struct {
	client *redis.Client
}

// NewService creates a new cache service
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

// IsAvailable reports whether a redis client is wired in
func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

// Ping tests the redis connection
func (c *redisCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	return c.client.Ping(ctx).Err()
}

// Get reads a JSON value from the cache
func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return fmt.Errorf("redis not available")
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}

	return json.Unmarshal(data, dest)
}

// Set stores a JSON value in the cache
func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

// Delete removes keys from the cache
func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *redisCache) categoriesKey() string {
	return PrefixCategories + "all"
}

func (c *redisCache) GetCategoryList(ctx context.Context) ([]byte, error) {
	if c.client == nil {
		return nil, fmt.Errorf("redis not available")
	}
	return c.client.Get(ctx, c.categoriesKey()).Bytes()
}

func (c *redisCache) SetCategoryList(ctx context.Context, data interface{}) error {
	if c.client == nil {
		return nil
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.categoriesKey(), jsonData, TTLCategories).Err()
}

func (c *redisCache) InvalidateCategoryList(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, c.categoriesKey()).Err()
}

func (c *redisCache) threadsKey(categoryID uint64, page, limit int) string {
	return fmt.Sprintf("%s%d:%d:%d", PrefixThreads, categoryID, page, limit)
}

func (c *redisCache) GetThreadPage(ctx context.Context, categoryID uint64, page, limit int) ([]byte, error) {
	if c.client == nil {
		return nil, fmt.Errorf("redis not available")
	}
	return c.client.Get(ctx, c.threadsKey(categoryID, page, limit)).Bytes()
}

func (c *redisCache) SetThreadPage(ctx context.Context, categoryID uint64, page, limit int, data interface{}) error {
	if c.client == nil {
		return nil
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.threadsKey(categoryID, page, limit), jsonData, TTLThreads).Err()
}

// InvalidateThreads drops every cached thread page for a category
func (c *redisCache) InvalidateThreads(ctx context.Context, categoryID uint64) error {
	if c.client == nil {
		return nil
	}
	return c.deleteByPattern(ctx, fmt.Sprintf("%s%d:*", PrefixThreads, categoryID))
}

func (c *redisCache) deleteByPattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
