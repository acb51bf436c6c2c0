package pricing

import "context"

// CatalogReader gives the embedded pricing authority read access to the
// price list and customer terms. The catalog is owned elsewhere; this
// subsystem only reads it.
type CatalogReader interface {
	// FindProduct returns a product projection, or shared.ErrNotFound
	FindProduct(ctx context.Context, productID string) (*Product, error)
	// FindCustomer returns a customer projection, or shared.ErrNotFound
	FindCustomer(ctx context.Context, customerID string) (*Customer, error)
}
