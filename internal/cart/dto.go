package cart

import (
	"github.com/lukouhub/lukouhub-backend/internal/pricing"
)

// CartDTO is the storefront view of a session's cart: the lines, the
// price breakdown for the requested delivery option, and any promo state.
type CartDTO struct {
	Items     []pricing.LineItem `json:"items"`
	Summary   pricing.Summary    `json:"summary"`
	PromoCode *string            `json:"promoCode,omitempty"`
}

// ItemCount sums the quantities across all lines.
func (c *CartDTO) ItemCount() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}
