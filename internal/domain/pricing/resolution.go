package pricing

import "github.com/shopspring/decimal"

// ResolutionKind classifies how a resolved price was determined
type ResolutionKind string

const (
	// KindCustom means an explicit negotiated override applies
	KindCustom ResolutionKind = "custom"
	// KindTier means the price was computed from a tier/retail list price
	KindTier ResolutionKind = "tier"
	// KindError means the authoritative lookup failed and no usable
	// prior value exists
	KindError ResolutionKind = "error"
)

// SourceFallback tags resolutions computed locally because the pricing
// authority was unreachable
const SourceFallback = "fallback"

// Resolution is the outcome of resolving the price one customer pays
// for one product. It is the value stored in the resolution cache and
// returned to callers.
type Resolution struct {
	Price  decimal.Decimal  `json:"price"`
	Kind   ResolutionKind   `json:"kind"`
	Margin *decimal.Decimal `json:"margin,omitempty"` // Present only for custom prices
	Tier   PriceTier        `json:"tier,omitempty"`   // The tier actually used, if any
	Source string           `json:"source,omitempty"` // Free-text provenance tag
}

// NewTierResolution creates a resolution computed from a list price
func NewTierResolution(price decimal.Decimal, tier PriceTier) Resolution {
	return Resolution{
		Price: price,
		Kind:  KindTier,
		Tier:  tier,
	}
}

// NewCustomResolution creates a resolution for an explicit negotiated price
func NewCustomResolution(price decimal.Decimal, margin *decimal.Decimal) Resolution {
	return Resolution{
		Price:  price,
		Kind:   KindCustom,
		Margin: margin,
	}
}

// NewFallbackResolution computes the tier fallback for a customer and
// product and wraps it as a resolution tagged with the fallback source.
// It never fails: any customer/product pair deterministically yields
// one of the four list prices.
func NewFallbackResolution(product *Product, customer *Customer) Resolution {
	tier := customer.EffectiveTier()
	return Resolution{
		Price:  product.ListPriceForTier(tier),
		Kind:   KindTier,
		Tier:   tier,
		Source: SourceFallback,
	}
}

// IsAuthoritative reports whether the resolution can be served from
// cache as-is. Error-kind entries must never be treated as
// authoritative; a resolver finding one retries via fallback.
func (r Resolution) IsAuthoritative() bool {
	return r.Kind != KindError
}
