package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lukouhub/lukouhub-backend/pkg/enums"
)

// Order is the immutable checkout snapshot. Totals are frozen at creation
// and must equal a summary computed from the embedded items; status is the
// only field mutated after the fact.
type Order struct {
	ID                  uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PublicID            string               `gorm:"column:public_id;not null;uniqueIndex"`
	CustomerName        string               `gorm:"column:customer_name;not null"`
	Phone               string               `gorm:"column:phone;not null"`
	Email               *string              `gorm:"column:email"`
	DeliveryOption      enums.DeliveryOption `gorm:"column:delivery_option;not null"`
	Address             *string              `gorm:"column:address"`
	PaymentMethod       enums.PaymentMethod  `gorm:"column:payment_method;not null"`
	SpecialInstructions *string              `gorm:"column:special_instructions"`
	Subtotal            decimal.Decimal      `gorm:"column:subtotal;type:numeric(10,2);not null"`
	DeliveryFee         decimal.Decimal      `gorm:"column:delivery_fee;type:numeric(10,2);not null"`
	Discount            decimal.Decimal      `gorm:"column:discount;type:numeric(10,2);not null"`
	Total               decimal.Decimal      `gorm:"column:total;type:numeric(10,2);not null"`
	Status              enums.OrderStatus    `gorm:"column:status;not null;default:'pending'"`
	Items               []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
