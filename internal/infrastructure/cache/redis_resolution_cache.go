package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/erp/pricing/internal/domain/pricing"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Constants for Redis cache configuration
const (
	// resolutionKeyPrefix namespaces every resolution entry
	resolutionKeyPrefix = "pricing:resolution:"
	// defaultScanBatchSize bounds each SCAN iteration
	defaultScanBatchSize = 100
)

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisResolutionCache implements pricing.ResolutionCache using Redis,
// for deployments where several service instances must agree on the
// currently showing price. Entries are stored without TTL and removed
// only through explicit invalidation.
type RedisResolutionCache struct {
	client     *redis.Client
	ownsClient bool // true if we created the client and should close it
	logger     *zap.Logger
}

// RedisResolutionCacheOption is a functional option for configuring the cache
type RedisResolutionCacheOption func(*RedisResolutionCache)

// WithRedisLogger sets the logger for the cache
func WithRedisLogger(logger *zap.Logger) RedisResolutionCacheOption {
	return func(c *RedisResolutionCache) {
		c.logger = logger
	}
}

// NewRedisResolutionCache creates a new Redis-based resolution cache
func NewRedisResolutionCache(cfg RedisConfig, opts ...RedisResolutionCacheOption) (*RedisResolutionCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cache := &RedisResolutionCache{
		client:     client,
		ownsClient: true, // We created this client, so we own it
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache, nil
}

// NewRedisResolutionCacheWithClient creates a cache with an existing Redis client
// Note: The caller retains ownership of the client and is responsible for closing it
func NewRedisResolutionCacheWithClient(client *redis.Client, opts ...RedisResolutionCacheOption) *RedisResolutionCache {
	cache := &RedisResolutionCache{
		client:     client,
		ownsClient: false, // Client is shared, don't close it
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

// resolutionCacheKey builds the Redis key for a pair. Both identifiers
// are query-escaped before joining, so the key stays reversible and
// pairs with colons or glob characters in their IDs cannot collide.
func resolutionCacheKey(key pricing.CacheKey) string {
	return resolutionKeyPrefix + url.QueryEscape(key.CustomerID) + ":" + url.QueryEscape(key.ProductID)
}

// customerScanPattern builds the SCAN pattern matching every entry of
// one customer. Escaping leaves no unescaped glob characters in the
// customer component, so the pattern cannot over-match.
func customerScanPattern(customerID string) string {
	return resolutionKeyPrefix + url.QueryEscape(customerID) + ":*"
}

// Get retrieves a cached resolution; (nil, nil) on miss
func (c *RedisResolutionCache) Get(ctx context.Context, key pricing.CacheKey) (*pricing.Resolution, error) {
	cacheKey := resolutionCacheKey(key)

	data, err := c.client.Get(ctx, cacheKey).Bytes()
	if err == redis.Nil {
		// Cache miss
		c.logger.Debug("Cache miss for price resolution",
			zap.String("customer_id", key.CustomerID),
			zap.String("product_id", key.ProductID))
		return nil, nil
	}
	if err != nil {
		c.logger.Error("Failed to get price resolution from cache",
			zap.String("customer_id", key.CustomerID),
			zap.String("product_id", key.ProductID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get resolution from cache: %w", err)
	}

	var resolution pricing.Resolution
	if err := json.Unmarshal(data, &resolution); err != nil {
		c.logger.Error("Failed to unmarshal price resolution",
			zap.String("customer_id", key.CustomerID),
			zap.String("product_id", key.ProductID),
			zap.Error(err))
		// Delete corrupted cache entry
		_ = c.client.Del(ctx, cacheKey)
		return nil, fmt.Errorf("failed to unmarshal resolution: %w", err)
	}

	c.logger.Debug("Cache hit for price resolution",
		zap.String("customer_id", key.CustomerID),
		zap.String("product_id", key.ProductID))
	return &resolution, nil
}

// Set stores a resolution, overwriting any previous entry for the pair
func (c *RedisResolutionCache) Set(ctx context.Context, key pricing.CacheKey, resolution *pricing.Resolution) error {
	if resolution == nil {
		return nil
	}

	cacheKey := resolutionCacheKey(key)

	data, err := json.Marshal(resolution)
	if err != nil {
		c.logger.Error("Failed to marshal price resolution",
			zap.String("customer_id", key.CustomerID),
			zap.String("product_id", key.ProductID),
			zap.Error(err))
		return fmt.Errorf("failed to marshal resolution: %w", err)
	}

	// No TTL: entries live until explicitly invalidated
	if err := c.client.Set(ctx, cacheKey, data, 0).Err(); err != nil {
		c.logger.Error("Failed to set price resolution in cache",
			zap.String("customer_id", key.CustomerID),
			zap.String("product_id", key.ProductID),
			zap.Error(err))
		return fmt.Errorf("failed to set resolution in cache: %w", err)
	}

	c.logger.Debug("Cached price resolution",
		zap.String("customer_id", key.CustomerID),
		zap.String("product_id", key.ProductID),
		zap.String("kind", string(resolution.Kind)))
	return nil
}

// Delete removes the entry for one pair; no-op when absent
func (c *RedisResolutionCache) Delete(ctx context.Context, key pricing.CacheKey) error {
	cacheKey := resolutionCacheKey(key)

	if err := c.client.Del(ctx, cacheKey).Err(); err != nil {
		c.logger.Error("Failed to delete price resolution from cache",
			zap.String("customer_id", key.CustomerID),
			zap.String("product_id", key.ProductID),
			zap.Error(err))
		return fmt.Errorf("failed to delete resolution from cache: %w", err)
	}

	c.logger.Debug("Deleted price resolution from cache",
		zap.String("customer_id", key.CustomerID),
		zap.String("product_id", key.ProductID))
	return nil
}

// DeleteCustomer removes every entry belonging to one customer
func (c *RedisResolutionCache) DeleteCustomer(ctx context.Context, customerID string) error {
	deleted, err := c.deleteByPattern(ctx, customerScanPattern(customerID))
	if err != nil {
		return err
	}

	c.logger.Debug("Deleted customer price resolutions from cache",
		zap.String("customer_id", customerID),
		zap.Int64("deleted_count", deleted))
	return nil
}

// Clear removes all entries
func (c *RedisResolutionCache) Clear(ctx context.Context) error {
	deleted, err := c.deleteByPattern(ctx, resolutionKeyPrefix+"*")
	if err != nil {
		return err
	}

	c.logger.Info("Cleared price resolution cache",
		zap.Int64("deleted_count", deleted))
	return nil
}

// Count returns the number of cached entries
func (c *RedisResolutionCache) Count(ctx context.Context) (int, error) {
	var cursor uint64
	var count int

	for {
		var keys []string
		var err error
		keys, cursor, err = c.client.Scan(ctx, cursor, resolutionKeyPrefix+"*", defaultScanBatchSize).Result()
		if err != nil {
			return 0, fmt.Errorf("failed to scan cache keys: %w", err)
		}
		count += len(keys)

		if cursor == 0 {
			break
		}
	}

	return count, nil
}

// deleteByPattern removes every key matching the pattern using SCAN to
// avoid blocking Redis with a KEYS command
func (c *RedisResolutionCache) deleteByPattern(ctx context.Context, pattern string) (int64, error) {
	var cursor uint64
	var deletedCount int64

	for {
		var keys []string
		var err error
		keys, cursor, err = c.client.Scan(ctx, cursor, pattern, defaultScanBatchSize).Result()
		if err != nil {
			c.logger.Error("Failed to scan resolution cache keys", zap.Error(err))
			return deletedCount, fmt.Errorf("failed to scan cache keys: %w", err)
		}

		if len(keys) > 0 {
			deleted, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				c.logger.Error("Failed to delete resolution cache keys", zap.Error(err))
				return deletedCount, fmt.Errorf("failed to delete cache keys: %w", err)
			}
			deletedCount += deleted
		}

		if cursor == 0 {
			break
		}
	}

	return deletedCount, nil
}

// Close releases any resources held by the cache
func (c *RedisResolutionCache) Close() error {
	// Only close client if we own it
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

// Ensure RedisResolutionCache implements ResolutionCache
var _ pricing.ResolutionCache = (*RedisResolutionCache)(nil)
