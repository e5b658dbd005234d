package orders

import (
	"time"

	"github.com/lukouhub/lukouhub-backend/internal/pricing"
	"github.com/lukouhub/lukouhub-backend/pkg/db/models"
	"github.com/lukouhub/lukouhub-backend/pkg/enums"
)

// OrderDTO is the confirmation shape returned to the storefront and the
// back office. ID is the human-facing order number, never the row id.
type OrderDTO struct {
	ID                  string               `json:"id"`
	CustomerName        string               `json:"customerName"`
	Phone               string               `json:"phone"`
	Email               *string              `json:"email,omitempty"`
	DeliveryOption      enums.DeliveryOption `json:"deliveryOption"`
	Address             *string              `json:"address,omitempty"`
	PaymentMethod       enums.PaymentMethod  `json:"paymentMethod"`
	SpecialInstructions *string              `json:"specialInstructions,omitempty"`
	Items               []pricing.LineItem   `json:"items"`
	Summary             pricing.Summary      `json:"summary"`
	Status              enums.OrderStatus    `json:"status"`
	CreatedAt           time.Time            `json:"createdAt"`
}

func toOrderDTO(order *models.Order) *OrderDTO {
	items := make([]pricing.LineItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, pricing.LineItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Category:  item.Category,
			Image:     item.Image,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}

	return &OrderDTO{
		ID:                  order.PublicID,
		CustomerName:        order.CustomerName,
		Phone:               order.Phone,
		Email:               order.Email,
		DeliveryOption:      order.DeliveryOption,
		Address:             order.Address,
		PaymentMethod:       order.PaymentMethod,
		SpecialInstructions: order.SpecialInstructions,
		Items:               items,
		Summary: pricing.Summary{
			Subtotal:    order.Subtotal,
			DeliveryFee: order.DeliveryFee,
			Discount:    order.Discount,
			Total:       order.Total,
		},
		Status:    order.Status,
		CreatedAt: order.CreatedAt,
	}
}
