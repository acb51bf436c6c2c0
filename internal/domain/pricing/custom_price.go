package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomPrice is a persisted, explicitly negotiated price for one
// customer/product pair. It overrides tier/retail computation.
type CustomPrice struct {
	ID         uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	CustomerID string          `json:"customer_id" gorm:"type:varchar(64);not null;uniqueIndex:idx_custom_price_pair,priority:1"`
	ProductID  string          `json:"product_id" gorm:"type:varchar(64);not null;uniqueIndex:idx_custom_price_pair,priority:2"`
	Price      decimal.Decimal `json:"price" gorm:"type:decimal(18,4);not null"`
	Reason     string          `json:"reason" gorm:"type:text"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// TableName returns the table name for GORM
func (CustomPrice) TableName() string {
	return "custom_prices"
}

// NewCustomPrice creates a custom price record from validated input
func NewCustomPrice(input CustomPriceInput) (*CustomPrice, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	return &CustomPrice{
		ID:         uuid.New(),
		CustomerID: input.CustomerID,
		ProductID:  input.ProductID,
		Price:      input.Price,
		Reason:     input.Reason,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// MarginAgainstCost computes the profit margin of this price against a
// product cost: (price - cost) / price. Returns nil when the price is
// zero or the cost is unknown (non-positive).
func (p *CustomPrice) MarginAgainstCost(cost decimal.Decimal) *decimal.Decimal {
	if p.Price.IsZero() || !cost.IsPositive() {
		return nil
	}
	margin := p.Price.Sub(cost).Div(p.Price).Round(4)
	return &margin
}

// CustomPriceRepository persists custom price overrides
type CustomPriceRepository interface {
	// Upsert inserts or replaces the override for the record's pair
	Upsert(ctx context.Context, price *CustomPrice) error
	// FindByPair returns the override for a pair, or shared.ErrNotFound
	FindByPair(ctx context.Context, customerID, productID string) (*CustomPrice, error)
	// FindByCustomer returns all overrides for one customer
	FindByCustomer(ctx context.Context, customerID string) ([]*CustomPrice, error)
	// DeleteByPair removes the override for a pair if present
	DeleteByPair(ctx context.Context, customerID, productID string) error
}
