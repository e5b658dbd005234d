package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lukouhub/lukouhub-backend/pkg/enums"
	"github.com/lukouhub/lukouhub-backend/pkg/money"
)

// Quantity bounds for a single cart line.
const (
	MinQuantity = 1
	MaxQuantity = 99
)

// DeliveryFee is the flat fee charged when a non-empty cart is delivered.
var DeliveryFee = decimal.NewFromFloat(5.00)

// LineItem is one cart line: a catalog snapshot plus a quantity.
type LineItem struct {
	ProductID int64           `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Image     string          `json:"image"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// LineTotal is the item's unit price times its quantity.
func (li LineItem) LineTotal() decimal.Decimal {
	return money.MulQty(li.UnitPrice, li.Quantity)
}

// Summary is the full price breakdown shown to the customer and frozen
// into an order at checkout.
type Summary struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
}

// Summarize computes the breakdown for the given lines. The delivery fee
// applies only when the cart is non-empty and the delivery option is
// delivery. The total never goes below zero however large the discount.
func Summarize(items []LineItem, option enums.DeliveryOption, discount decimal.Decimal) Summary {
	subtotal := money.Zero()
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	subtotal = money.Round(subtotal)

	deliveryFee := money.Zero()
	if len(items) > 0 && option == enums.DeliveryOptionDelivery {
		deliveryFee = DeliveryFee
	}

	discount = money.Round(money.ClampNonNegative(discount))

	total := money.ClampNonNegative(subtotal.Add(deliveryFee).Sub(discount))

	return Summary{
		Subtotal:    subtotal,
		DeliveryFee: deliveryFee,
		Discount:    discount,
		Total:       money.Round(total),
	}
}

// promoTable maps normalized promo codes to their flat ringgit discounts.
var promoTable = map[string]decimal.Decimal{
	"LUKOU10":    decimal.NewFromFloat(10.00),
	"WELCOME":    decimal.NewFromFloat(5.00),
	"FIRSTORDER": decimal.NewFromFloat(15.00),
	"NEWUSER":    decimal.NewFromFloat(8.00),
	"SAVE20":     decimal.NewFromFloat(20.00),
}

// NormalizeCode trims surrounding whitespace and uppercases a promo code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// LookupPromo resolves a promo code to its flat discount. The lookup is
// case-insensitive and ignores surrounding whitespace.
func LookupPromo(code string) (decimal.Decimal, bool) {
	discount, ok := promoTable[NormalizeCode(code)]
	return discount, ok
}

// ClampQuantity forces a requested quantity into the allowed range and
// reports whether it was adjusted and in which direction.
func ClampQuantity(requested int) (clamped int, adjusted bool, belowMin bool) {
	switch {
	case requested < MinQuantity:
		return MinQuantity, true, true
	case requested > MaxQuantity:
		return MaxQuantity, true, false
	default:
		return requested, false, false
	}
}
