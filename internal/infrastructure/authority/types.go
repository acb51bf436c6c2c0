package authority

import (
	"github.com/erp/pricing/internal/domain/pricing"
	"github.com/shopspring/decimal"
)

// resolutionPayload is the wire form of a price resolution
type resolutionPayload struct {
	Price  decimal.Decimal  `json:"price"`
	Kind   string           `json:"kind"`
	Margin *decimal.Decimal `json:"margin,omitempty"`
	Tier   string           `json:"tier,omitempty"`
	Source string           `json:"source,omitempty"`
}

// toDomain converts the wire form into a domain resolution
func (p resolutionPayload) toDomain() pricing.Resolution {
	return pricing.Resolution{
		Price:  p.Price,
		Kind:   pricing.ResolutionKind(p.Kind),
		Margin: p.Margin,
		Tier:   pricing.PriceTier(p.Tier),
		Source: p.Source,
	}
}

// bulkPricesRequest asks for a whole product list in one call
type bulkPricesRequest struct {
	ProductIDs []string `json:"product_ids"`
}

// bulkPricesResponse maps product IDs to their resolutions
type bulkPricesResponse struct {
	Prices map[string]resolutionPayload `json:"prices"`
}

// customPriceRequest carries a manual override write
type customPriceRequest struct {
	Price  decimal.Decimal `json:"price"`
	Reason string          `json:"reason,omitempty"`
}

// errorResponse is the authority's error envelope
type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
