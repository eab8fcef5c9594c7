package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Material is an entry in a designer's catalog that quote lines can be
// priced from.
type Material struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	DesignerID    uuid.UUID       `gorm:"type:uuid;index;not null" json:"designerId"`
	Name          string          `gorm:"not null" json:"name"`
	Description   string          `json:"description"`
	Unit          string          `gorm:"type:varchar(30)" json:"unit"`
	Category      string          `gorm:"default:'General'" json:"category"`
	BasePrice     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"basePrice"`
	DiscountPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discountPrice"`
	IsDiscounted  bool            `gorm:"default:false" json:"isDiscounted"`
	IsActive      bool            `gorm:"default:true" json:"isActive"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (m *Material) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}

// EffectivePrice is the price a quote line picks up from this material.
func (m *Material) EffectivePrice() decimal.Decimal {
	if m.IsDiscounted {
		return m.DiscountPrice
	}
	return m.BasePrice
}
