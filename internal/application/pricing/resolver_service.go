package pricing

import (
	"context"

	"github.com/erp/pricing/internal/domain/pricing"
	"go.uber.org/zap"
)

// PriceResolver determines the price a specific customer pays for a
// specific product, preferring the pricing authority's answer, falling
// back to locally computed tier prices when the authority is
// unreachable, and keeping the resolution cache consistent throughout.
//
// All cache mutation is confined to this service; the read path never
// mutates external state.
type PriceResolver struct {
	cache     pricing.ResolutionCache
	authority pricing.Authority
	logger    *zap.Logger
}

// PriceResolverOption is a functional option for configuring the resolver
type PriceResolverOption func(*PriceResolver)

// WithLogger sets the logger for the resolver
func WithLogger(logger *zap.Logger) PriceResolverOption {
	return func(r *PriceResolver) {
		r.logger = logger
	}
}

// NewPriceResolver creates a new PriceResolver
func NewPriceResolver(cache pricing.ResolutionCache, authority pricing.Authority, opts ...PriceResolverOption) *PriceResolver {
	resolver := &PriceResolver{
		cache:     cache,
		authority: authority,
		logger:    zap.NewNop(),
	}

	for _, opt := range opts {
		opt(resolver)
	}

	return resolver
}

// ResolvePrice resolves the price for one customer/product pair. It
// never fails: the authority error path degrades to a locally computed
// tier fallback instead of propagating.
//
// A nil customer short-circuits to the retail price without touching
// the cache or the network. A cached entry is served as-is unless it
// records a prior error, in which case resolution is retried so stale
// errors never become sticky.
func (r *PriceResolver) ResolvePrice(ctx context.Context, product *pricing.Product, customer *pricing.Customer) pricing.Resolution {
	if customer == nil {
		return pricing.NewTierResolution(product.RetailPrice, "")
	}

	key := pricing.NewCacheKey(customer.ID, product.ID)

	cached, err := r.cache.Get(ctx, key)
	if err != nil {
		// A broken cache read is treated as a miss
		r.logger.Warn("Resolution cache read failed",
			zap.String("customer_id", customer.ID),
			zap.String("product_id", product.ID),
			zap.Error(err))
	}
	if cached != nil && cached.IsAuthoritative() {
		return *cached
	}

	result, err := r.authority.GetPrice(ctx, customer.ID, product.ID)
	if err != nil {
		fallback := pricing.NewFallbackResolution(product, customer)
		r.logger.Warn("Pricing authority unavailable, using tier fallback",
			zap.String("customer_id", customer.ID),
			zap.String("product_id", product.ID),
			zap.String("tier", string(fallback.Tier)),
			zap.Error(err))

		// Overwrites any stale error entry for the pair
		r.storeResolution(ctx, key, &fallback)
		return fallback
	}

	r.storeResolution(ctx, key, result)
	return *result
}

// ResolveBulk resolves a whole product list for one customer in a
// single authority call, fanning the results into the cache. An empty
// customer ID or product list is a no-op guarding against a wasted
// network call. A failed bulk call returns an empty mapping and leaves
// every previously cached entry untouched.
func (r *PriceResolver) ResolveBulk(ctx context.Context, customerID string, productIDs []string) map[string]pricing.Resolution {
	if customerID == "" || len(productIDs) == 0 {
		return map[string]pricing.Resolution{}
	}

	results, err := r.authority.GetPrices(ctx, customerID, productIDs)
	if err != nil {
		r.logger.Warn("Bulk price resolution failed, cache preserved",
			zap.String("customer_id", customerID),
			zap.Int("product_count", len(productIDs)),
			zap.Error(err))
		return map[string]pricing.Resolution{}
	}

	for productID, resolution := range results {
		res := resolution
		r.storeResolution(ctx, pricing.NewCacheKey(customerID, productID), &res)
	}

	r.logger.Debug("Bulk price resolution completed",
		zap.String("customer_id", customerID),
		zap.Int("requested", len(productIDs)),
		zap.Int("resolved", len(results)))
	return results
}

// SaveOverride persists an explicit manual price override through the
// pricing authority. On success the cached entry for exactly that pair
// is invalidated before returning, so the next read is authoritative.
// On failure the cache is left untouched and false is returned; the
// previously displayed price stays visible.
func (r *PriceResolver) SaveOverride(ctx context.Context, override pricing.CustomPriceInput) bool {
	if err := override.Validate(); err != nil {
		r.logger.Warn("Rejected invalid price override",
			zap.String("customer_id", override.CustomerID),
			zap.String("product_id", override.ProductID),
			zap.Error(err))
		return false
	}

	if err := r.authority.SaveCustomPrice(ctx, override); err != nil {
		r.logger.Error("Failed to save price override",
			zap.String("customer_id", override.CustomerID),
			zap.String("product_id", override.ProductID),
			zap.Error(err))
		return false
	}

	key := pricing.NewCacheKey(override.CustomerID, override.ProductID)
	if err := r.cache.Delete(ctx, key); err != nil {
		r.logger.Warn("Failed to invalidate cache after override",
			zap.String("customer_id", override.CustomerID),
			zap.String("product_id", override.ProductID),
			zap.Error(err))
	}

	r.logger.Info("Saved price override",
		zap.String("customer_id", override.CustomerID),
		zap.String("product_id", override.ProductID),
		zap.String("price", override.Price.String()))
	return true
}

// CachedResolution returns the cached resolution for a pair without
// forcing a resolution: no fallback computation, no network. Used to
// show provenance (e.g. a "custom price" badge). Returns nil on miss.
func (r *PriceResolver) CachedResolution(ctx context.Context, productID, customerID string) *pricing.Resolution {
	cached, err := r.cache.Get(ctx, pricing.NewCacheKey(customerID, productID))
	if err != nil {
		r.logger.Warn("Resolution cache read failed",
			zap.String("customer_id", customerID),
			zap.String("product_id", productID),
			zap.Error(err))
		return nil
	}
	return cached
}

// InvalidateEntry removes the cached resolution for exactly one pair
func (r *PriceResolver) InvalidateEntry(ctx context.Context, customerID, productID string) error {
	return r.cache.Delete(ctx, pricing.NewCacheKey(customerID, productID))
}

// InvalidateCustomer removes every cached resolution for one customer
func (r *PriceResolver) InvalidateCustomer(ctx context.Context, customerID string) error {
	return r.cache.DeleteCustomer(ctx, customerID)
}

// InvalidateAll removes every cached resolution (logout / full refresh)
func (r *PriceResolver) InvalidateAll(ctx context.Context) error {
	return r.cache.Clear(ctx)
}

// storeResolution writes a resolution to the cache, logging rather than
// propagating failures: callers must always receive a price
func (r *PriceResolver) storeResolution(ctx context.Context, key pricing.CacheKey, resolution *pricing.Resolution) {
	if err := r.cache.Set(ctx, key, resolution); err != nil {
		r.logger.Warn("Failed to cache price resolution",
			zap.String("customer_id", key.CustomerID),
			zap.String("product_id", key.ProductID),
			zap.Error(err))
	}
}
