package persistence

import (
	"context"
	"errors"

	"github.com/erp/pricing/internal/domain/pricing"
	"github.com/erp/pricing/internal/domain/shared"
	"go.uber.org/zap"
)

// LocalAuthority implements pricing.Authority against the service's own
// database. It is the system of record for self-hosted deployments
// where no remote pricing authority exists: custom prices live in the
// custom_prices table and tier prices are computed from the local
// price-list projections.
type LocalAuthority struct {
	customPrices pricing.CustomPriceRepository
	catalog      pricing.CatalogReader
	logger       *zap.Logger
}

// NewLocalAuthority creates a new LocalAuthority
func NewLocalAuthority(customPrices pricing.CustomPriceRepository, catalog pricing.CatalogReader, logger *zap.Logger) *LocalAuthority {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalAuthority{
		customPrices: customPrices,
		catalog:      catalog,
		logger:       logger,
	}
}

// GetPrice resolves the price one customer pays for one product. An
// explicit custom price wins; otherwise the customer's effective tier
// selects a list price.
func (a *LocalAuthority) GetPrice(ctx context.Context, customerID, productID string) (*pricing.Resolution, error) {
	custom, err := a.customPrices.FindByPair(ctx, customerID, productID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	if custom != nil {
		resolution := a.customResolution(ctx, custom)
		return &resolution, nil
	}

	product, err := a.catalog.FindProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	customer, err := a.catalog.FindCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	tier := customer.EffectiveTier()
	resolution := pricing.NewTierResolution(product.ListPriceForTier(tier), tier)
	return &resolution, nil
}

// GetPrices resolves a whole product list for one customer. Products
// missing from the local catalog are omitted from the result; any
// storage error fails the whole batch.
func (a *LocalAuthority) GetPrices(ctx context.Context, customerID string, productIDs []string) (map[string]pricing.Resolution, error) {
	customer, err := a.catalog.FindCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	overrides, err := a.customPrices.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	overrideByProduct := make(map[string]*pricing.CustomPrice, len(overrides))
	for _, o := range overrides {
		overrideByProduct[o.ProductID] = o
	}

	tier := customer.EffectiveTier()
	results := make(map[string]pricing.Resolution, len(productIDs))

	for _, productID := range productIDs {
		if custom, ok := overrideByProduct[productID]; ok {
			results[productID] = a.customResolution(ctx, custom)
			continue
		}

		product, err := a.catalog.FindProduct(ctx, productID)
		if errors.Is(err, shared.ErrNotFound) {
			a.logger.Debug("Skipping unknown product in bulk price lookup",
				zap.String("customer_id", customerID),
				zap.String("product_id", productID))
			continue
		}
		if err != nil {
			return nil, err
		}

		results[productID] = pricing.NewTierResolution(product.ListPriceForTier(tier), tier)
	}

	return results, nil
}

// SaveCustomPrice persists an explicit manual price override
func (a *LocalAuthority) SaveCustomPrice(ctx context.Context, override pricing.CustomPriceInput) error {
	record, err := pricing.NewCustomPrice(override)
	if err != nil {
		return err
	}

	if err := a.customPrices.Upsert(ctx, record); err != nil {
		return err
	}

	a.logger.Info("Saved custom price override",
		zap.String("customer_id", override.CustomerID),
		zap.String("product_id", override.ProductID),
		zap.String("price", override.Price.String()))
	return nil
}

// customResolution wraps a stored override, computing the margin when
// the product's cost price is known
func (a *LocalAuthority) customResolution(ctx context.Context, custom *pricing.CustomPrice) pricing.Resolution {
	product, err := a.catalog.FindProduct(ctx, custom.ProductID)
	if err != nil {
		// Margin is informational only; a missing product never blocks
		// serving the negotiated price
		return pricing.NewCustomResolution(custom.Price, nil)
	}
	return pricing.NewCustomResolution(custom.Price, custom.MarginAgainstCost(product.PurchasePrice))
}

// Ensure LocalAuthority implements Authority
var _ pricing.Authority = (*LocalAuthority)(nil)
