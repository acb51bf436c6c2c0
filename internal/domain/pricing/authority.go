package pricing

import (
	"context"
	"strings"

	"github.com/erp/pricing/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Authority is the external pricing system of record. Lookups are
// idempotent; the bulk lookup either returns the whole batch or fails
// as a whole (partial failure is not part of this contract).
//
// Implementations attach the ambient auth credential to every request;
// the domain layer treats it as opaque.
type Authority interface {
	// GetPrice resolves the price one customer pays for one product
	GetPrice(ctx context.Context, customerID, productID string) (*Resolution, error)

	// GetPrices resolves a whole product list for one customer in a
	// single request, returning a mapping from product ID to resolution.
	// A successful response may omit IDs the authority has no entry for.
	GetPrices(ctx context.Context, customerID string, productIDs []string) (map[string]Resolution, error)

	// SaveCustomPrice persists an explicit manual price override
	SaveCustomPrice(ctx context.Context, override CustomPriceInput) error
}

// CustomPriceInput carries an explicit manual price override to the
// pricing authority
type CustomPriceInput struct {
	CustomerID string
	ProductID  string
	Price      decimal.Decimal
	Reason     string // Optional free-text justification
}

// Validate checks the override input before it is sent anywhere
func (i CustomPriceInput) Validate() error {
	if strings.TrimSpace(i.CustomerID) == "" {
		return shared.NewDomainError("INVALID_CUSTOMER_ID", "Customer ID cannot be empty")
	}
	if strings.TrimSpace(i.ProductID) == "" {
		return shared.NewDomainError("INVALID_PRODUCT_ID", "Product ID cannot be empty")
	}
	if i.Price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Override price cannot be negative")
	}
	return nil
}
