package enums

import "strings"

// ProductBadge is the optional ribbon shown on a product card.
type ProductBadge string

const (
	ProductBadgeNew     ProductBadge = "NEW"
	ProductBadgePopular ProductBadge = "POPULAR"
)

// String implements fmt.Stringer.
func (p ProductBadge) String() string {
	return string(p)
}

// CSSClass returns the style class rendered for the badge. Unknown badges
// fall back to their lowercased text, matching the storefront's behavior.
func (p ProductBadge) CSSClass() string {
	switch p {
	case ProductBadgeNew:
		return "new"
	case ProductBadgePopular:
		return "popular"
	default:
		return strings.ToLower(string(p))
	}
}
