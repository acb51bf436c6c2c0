package pricing

import (
	"strings"

	"github.com/erp/pricing/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product is the read-only projection of a catalog product that pricing
// needs: its identifier and the four list prices. The catalog itself is
// owned by an external system; this subsystem never mutates products.
type Product struct {
	ID            string          `json:"id" gorm:"type:varchar(64);primaryKey"`
	Name          string          `json:"name" gorm:"type:varchar(200)"`
	Tier1Price    decimal.Decimal `json:"tier1_price" gorm:"type:decimal(18,4);not null;default:0"`
	Tier2Price    decimal.Decimal `json:"tier2_price" gorm:"type:decimal(18,4);not null;default:0"`
	Tier3Price    decimal.Decimal `json:"tier3_price" gorm:"type:decimal(18,4);not null;default:0"`
	RetailPrice   decimal.Decimal `json:"retail_price" gorm:"type:decimal(18,4);not null;default:0"`
	PurchasePrice decimal.Decimal `json:"purchase_price,omitempty" gorm:"type:decimal(18,4);not null;default:0"` // Cost price, used for margin
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a product projection with the given list prices
func NewProduct(id, name string, tier1, tier2, tier3, retail decimal.Decimal) (*Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_ID", "Product ID cannot be empty")
	}
	for _, p := range []decimal.Decimal{tier1, tier2, tier3, retail} {
		if p.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", "List prices cannot be negative")
		}
	}

	return &Product{
		ID:          id,
		Name:        name,
		Tier1Price:  tier1,
		Tier2Price:  tier2,
		Tier3Price:  tier3,
		RetailPrice: retail,
	}, nil
}

// ListPriceForTier maps a price tier to the corresponding list price.
// Anything that is not one of the three known tiers maps to retail.
func (p *Product) ListPriceForTier(tier PriceTier) decimal.Decimal {
	switch tier {
	case PriceTier1:
		return p.Tier1Price
	case PriceTier2:
		return p.Tier2Price
	case PriceTier3:
		return p.Tier3Price
	default:
		return p.RetailPrice
	}
}
