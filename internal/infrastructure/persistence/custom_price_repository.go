package persistence

import (
	"context"
	"errors"

	"github.com/erp/pricing/internal/domain/pricing"
	"github.com/erp/pricing/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCustomPriceRepository implements CustomPriceRepository using GORM
type GormCustomPriceRepository struct {
	db *gorm.DB
}

// NewGormCustomPriceRepository creates a new GormCustomPriceRepository
func NewGormCustomPriceRepository(db *gorm.DB) *GormCustomPriceRepository {
	return &GormCustomPriceRepository{db: db}
}

// Upsert inserts or replaces the override for the record's customer/product pair
func (r *GormCustomPriceRepository) Upsert(ctx context.Context, price *pricing.CustomPrice) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "customer_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"price", "reason", "updated_at",
			}),
		}).
		Create(price).Error
}

// FindByPair finds the override for a customer/product pair
func (r *GormCustomPriceRepository) FindByPair(ctx context.Context, customerID, productID string) (*pricing.CustomPrice, error) {
	var record pricing.CustomPrice
	if err := r.db.WithContext(ctx).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByCustomer finds all overrides for one customer
func (r *GormCustomPriceRepository) FindByCustomer(ctx context.Context, customerID string) ([]*pricing.CustomPrice, error) {
	var records []*pricing.CustomPrice
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("product_id ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteByPair removes the override for a customer/product pair if present
func (r *GormCustomPriceRepository) DeleteByPair(ctx context.Context, customerID, productID string) error {
	return r.db.WithContext(ctx).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		Delete(&pricing.CustomPrice{}).Error
}

// Ensure GormCustomPriceRepository implements CustomPriceRepository
var _ pricing.CustomPriceRepository = (*GormCustomPriceRepository)(nil)
