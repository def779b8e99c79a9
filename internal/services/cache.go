package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/inkwellhq/inkwell-backend/internal/database"
)

const (
	// CacheKeyPrefix is the Redis key prefix for cached data
	CacheKeyPrefix = "cache:"
	// DefaultCacheTTL for derived read-side data such as user stats
	DefaultCacheTTL = 60 * time.Second
	// MaxCacheTTL caps any caller-supplied TTL
	MaxCacheTTL = 1 * time.Hour
)

// CacheService provides a JSON cache over Redis for derived data.
type CacheService struct{}

// Get retrieves a value from cache
func (c *CacheService) Get(key string, dest interface{}) (bool, error) {
	ctx := context.Background()
	cacheKey := CacheKeyPrefix + key

	val, err := database.RedisClient.Get(ctx, cacheKey).Result()
	if err != nil {
		return false, nil // Cache miss, not an error
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}

	return true, nil
}

// Set stores a value in cache with default TTL
func (c *CacheService) Set(key string, value interface{}) error {
	return c.SetWithTTL(key, value, DefaultCacheTTL)
}

// SetWithTTL stores a value in cache with custom TTL (capped at MaxCacheTTL)
func (c *CacheService) SetWithTTL(key string, value interface{}, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if ttl > MaxCacheTTL {
		ttl = MaxCacheTTL
	}

	ctx := context.Background()
	cacheKey := CacheKeyPrefix + key

	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return database.RedisClient.Set(ctx, cacheKey, jsonData, ttl).Err()
}

// Delete removes a value from cache
func (c *CacheService) Delete(key string) error {
	ctx := context.Background()
	cacheKey := CacheKeyPrefix + key
	return database.RedisClient.Del(ctx, cacheKey).Err()
}

// CacheKey generates a cache key for a specific resource
func CacheKey(resource string, identifier string) string {
	return fmt.Sprintf("%s:%s", resource, identifier)
}

// Global cache service instance
var Cache = &CacheService{}
