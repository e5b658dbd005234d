package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lukouhub/lukouhub-backend/pkg/enums"
)

// Product is a catalog listing. DisplayID is the numeric id the storefront
// and cart reference; it is distinct from the storage-assigned row id.
type Product struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DisplayID   int64              `gorm:"column:display_id;not null;uniqueIndex"`
	Name        string             `gorm:"column:name;not null"`
	Price       decimal.Decimal    `gorm:"column:price;type:numeric(10,2);not null"`
	Category    string             `gorm:"column:category;not null"`
	Description string             `gorm:"column:description;not null;default:''"`
	Image       string             `gorm:"column:image;not null;default:''"`
	Badge       enums.ProductBadge `gorm:"column:badge;not null;default:''"`
	Calories    *int               `gorm:"column:calories"`
	Gradient    *string            `gorm:"column:gradient"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
