package pricing

import "context"

// CacheKey identifies a cached resolution by (customer, product).
// Using a struct key rather than string concatenation makes collisions
// between different pairs impossible regardless of identifier content.
type CacheKey struct {
	CustomerID string
	ProductID  string
}

// NewCacheKey creates a cache key for a customer/product pair
func NewCacheKey(customerID, productID string) CacheKey {
	return CacheKey{CustomerID: customerID, ProductID: productID}
}

// ResolutionCache is the process-local store of last known resolutions,
// the single source of truth for "what price is currently showing".
// Entries never expire on a timer; they are removed only through the
// explicit invalidation operations.
//
// Get returns (nil, nil) on a miss, matching the repository-style cache
// contracts elsewhere in this codebase.
type ResolutionCache interface {
	Get(ctx context.Context, key CacheKey) (*Resolution, error)
	Set(ctx context.Context, key CacheKey, resolution *Resolution) error

	// Delete removes exactly one entry; no-op when absent
	Delete(ctx context.Context, key CacheKey) error
	// DeleteCustomer removes every entry belonging to one customer
	DeleteCustomer(ctx context.Context, customerID string) error
	// Clear removes all entries (logout / full data refresh)
	Clear(ctx context.Context) error

	// Count returns the number of cached entries
	Count(ctx context.Context) (int, error)
}
