package persistence

import (
	"context"
	"errors"

	"github.com/erp/pricing/internal/domain/pricing"
	"github.com/erp/pricing/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCatalogRepository implements pricing.CatalogReader over the local
// price-list tables. The projections are written by an external import
// pipeline; this service only reads them, plus the seed helpers below
// used by tests and development setups.
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewGormCatalogRepository creates a new GormCatalogRepository
func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

// FindProduct finds a product projection by its external identifier
func (r *GormCatalogRepository) FindProduct(ctx context.Context, productID string) (*pricing.Product, error) {
	var record pricing.Product
	if err := r.db.WithContext(ctx).First(&record, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindCustomer finds a customer projection by its external identifier
func (r *GormCatalogRepository) FindCustomer(ctx context.Context, customerID string) (*pricing.Customer, error) {
	var record pricing.Customer
	if err := r.db.WithContext(ctx).First(&record, "id = ?", customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// SaveProduct inserts or updates a product projection
func (r *GormCatalogRepository) SaveProduct(ctx context.Context, product *pricing.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// SaveCustomer inserts or updates a customer projection
func (r *GormCatalogRepository) SaveCustomer(ctx context.Context, customer *pricing.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

// Ensure GormCatalogRepository implements CatalogReader
var _ pricing.CatalogReader = (*GormCatalogRepository)(nil)
