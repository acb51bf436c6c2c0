package cache

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/erp/pricing/internal/domain/pricing"
	"go.uber.org/zap"
)

// InMemoryResolutionCache implements pricing.ResolutionCache using
// in-process storage. It holds the last known resolution per
// (customer, product) pair for the lifetime of the session; entries
// never expire on a timer and are removed only through the explicit
// invalidation operations.
type InMemoryResolutionCache struct {
	entries sync.Map // map[pricing.CacheKey]*pricing.Resolution
	logger  *zap.Logger

	// Stats for monitoring
	hits   int64
	misses int64
}

// InMemoryResolutionCacheOption is a functional option for configuring the cache
type InMemoryResolutionCacheOption func(*InMemoryResolutionCache)

// WithInMemoryLogger sets the logger for the cache
func WithInMemoryLogger(logger *zap.Logger) InMemoryResolutionCacheOption {
	return func(c *InMemoryResolutionCache) {
		c.logger = logger
	}
}

// NewInMemoryResolutionCache creates a new in-memory resolution cache
func NewInMemoryResolutionCache(opts ...InMemoryResolutionCacheOption) *InMemoryResolutionCache {
	cache := &InMemoryResolutionCache{
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

// Get retrieves a cached resolution; (nil, nil) on miss
func (c *InMemoryResolutionCache) Get(ctx context.Context, key pricing.CacheKey) (*pricing.Resolution, error) {
	if value, ok := c.entries.Load(key); ok {
		atomic.AddInt64(&c.hits, 1)
		c.logger.Debug("Cache hit for price resolution",
			zap.String("customer_id", key.CustomerID),
			zap.String("product_id", key.ProductID))
		return value.(*pricing.Resolution), nil
	}

	atomic.AddInt64(&c.misses, 1)
	c.logger.Debug("Cache miss for price resolution",
		zap.String("customer_id", key.CustomerID),
		zap.String("product_id", key.ProductID))
	return nil, nil
}

// Set stores a resolution, overwriting any previous entry for the pair
func (c *InMemoryResolutionCache) Set(ctx context.Context, key pricing.CacheKey, resolution *pricing.Resolution) error {
	if resolution == nil {
		return nil
	}

	c.entries.Store(key, resolution)
	c.logger.Debug("Cached price resolution",
		zap.String("customer_id", key.CustomerID),
		zap.String("product_id", key.ProductID),
		zap.String("kind", string(resolution.Kind)))
	return nil
}

// Delete removes the entry for one pair; no-op when absent
func (c *InMemoryResolutionCache) Delete(ctx context.Context, key pricing.CacheKey) error {
	c.entries.Delete(key)
	c.logger.Debug("Deleted price resolution from cache",
		zap.String("customer_id", key.CustomerID),
		zap.String("product_id", key.ProductID))
	return nil
}

// DeleteCustomer removes every entry belonging to one customer
func (c *InMemoryResolutionCache) DeleteCustomer(ctx context.Context, customerID string) error {
	var removed int
	c.entries.Range(func(key, _ any) bool {
		if key.(pricing.CacheKey).CustomerID == customerID {
			c.entries.Delete(key)
			removed++
		}
		return true
	})

	c.logger.Debug("Deleted customer price resolutions from cache",
		zap.String("customer_id", customerID),
		zap.Int("removed", removed))
	return nil
}

// Clear removes all entries
func (c *InMemoryResolutionCache) Clear(ctx context.Context) error {
	c.entries.Range(func(key, _ any) bool {
		c.entries.Delete(key)
		return true
	})

	c.logger.Info("Cleared price resolution cache")
	return nil
}

// Count returns the number of cached entries
func (c *InMemoryResolutionCache) Count(ctx context.Context) (int, error) {
	var count int
	c.entries.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count, nil
}

// GetStats returns cache statistics
func (c *InMemoryResolutionCache) GetStats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// ResetStats resets the cache statistics
func (c *InMemoryResolutionCache) ResetStats() {
	atomic.StoreInt64(&c.hits, 0)
	atomic.StoreInt64(&c.misses, 0)
}

// Ensure InMemoryResolutionCache implements ResolutionCache
var _ pricing.ResolutionCache = (*InMemoryResolutionCache)(nil)
