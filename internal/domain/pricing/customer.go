package pricing

import (
	"strings"

	"github.com/erp/pricing/internal/domain/shared"
)

// PriceTier represents a negotiated volume/relationship pricing level.
// Tier 1 is the cheapest (most trusted accounts); anything outside the
// three tiers resolves to the public retail price.
type PriceTier string

const (
	PriceTier1 PriceTier = "tier1"
	PriceTier2 PriceTier = "tier2"
	PriceTier3 PriceTier = "tier3"
)

// Payment-term thresholds for tier derivation (in days)
const (
	tier1MaxPaymentTermDays = 15
	tier2MaxPaymentTermDays = 30
)

// Customer is the read-only projection of a customer account that
// pricing needs: identifier, optional explicit tier label, and the
// payment-term length used to derive a tier when no label is set.
type Customer struct {
	ID              string    `json:"id" gorm:"type:varchar(64);primaryKey"`
	Name            string    `json:"name" gorm:"type:varchar(200)"`
	Tier            PriceTier `json:"tier,omitempty" gorm:"type:varchar(20)"`
	PaymentTermDays int       `json:"payment_term_days" gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a customer projection
func NewCustomer(id, name string, tier PriceTier, paymentTermDays int) (*Customer, error) {
	if strings.TrimSpace(id) == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_ID", "Customer ID cannot be empty")
	}
	if paymentTermDays < 0 {
		return nil, shared.NewDomainError("INVALID_PAYMENT_TERMS", "Payment term days cannot be negative")
	}

	return &Customer{
		ID:              id,
		Name:            name,
		Tier:            tier,
		PaymentTermDays: paymentTermDays,
	}, nil
}

// EffectiveTier returns the tier used to price this customer. An
// explicit tier label always wins, even an unknown one (which maps to
// retail downstream). Without a label the tier is derived from the
// account's payment terms: shorter terms mean a more trusted account
// and a cheaper tier.
func (c *Customer) EffectiveTier() PriceTier {
	if c.Tier != "" {
		return c.Tier
	}
	switch {
	case c.PaymentTermDays <= tier1MaxPaymentTermDays:
		return PriceTier1
	case c.PaymentTermDays <= tier2MaxPaymentTermDays:
		return PriceTier2
	default:
		return PriceTier3
	}
}
