package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/lukouhub/lukouhub-backend/pkg/db/models"
	"github.com/lukouhub/lukouhub-backend/pkg/enums"
)

// ProductDTO is the storefront shape of a catalog listing. ID carries the
// numeric display id, not the storage row id.
type ProductDTO struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Price       decimal.Decimal    `json:"price"`
	Category    string             `json:"category"`
	Description string             `json:"description"`
	Image       string             `json:"image"`
	Badge       enums.ProductBadge `json:"badge,omitempty"`
	Calories    *int               `json:"calories,omitempty"`
	Gradient    *string            `json:"gradient,omitempty"`
}

func toProductDTO(p *models.Product) *ProductDTO {
	return &ProductDTO{
		ID:          p.DisplayID,
		Name:        p.Name,
		Price:       p.Price,
		Category:    p.Category,
		Description: p.Description,
		Image:       p.Image,
		Badge:       p.Badge,
		Calories:    p.Calories,
		Gradient:    p.Gradient,
	}
}
