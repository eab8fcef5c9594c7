package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ItemType string

const (
	ItemMaterial  ItemType = "material"
	ItemLabor     ItemType = "labor"
	ItemService   ItemType = "service"
	ItemComponent ItemType = "component"
	ItemOther     ItemType = "other"
)

func (t ItemType) Valid() bool {
	switch t {
	case ItemMaterial, ItemLabor, ItemService, ItemComponent, ItemOther:
		return true
	}
	return false
}

// Scales of the numeric item columns. Prices use MoneyPlaces.
const (
	QuantityPlaces  = 3
	PercentPlaces   = 2
	DimensionPlaces = 2
)

// UnitSquareFeet is the unit for which component quantity follows its
// width and height.
const UnitSquareFeet = "sq.ft"

// QuoteItem is one priced line of a quote.
type QuoteItem struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	QuoteID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"quoteId"`
	Position   int        `gorm:"not null;default:0" json:"position"`
	ItemType   ItemType   `gorm:"type:varchar(20);not null;default:'material'" json:"itemType"`
	MaterialID *uuid.UUID `gorm:"type:uuid;index" json:"materialId"`

	Name        string `gorm:"not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Unit        string `gorm:"type:varchar(30)" json:"unit"`

	Quantity        decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"quantity"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unitPrice"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"discountPercent"`

	// Component sizing in feet. Only set for component items.
	Width  decimal.NullDecimal `gorm:"type:decimal(8,2)" json:"width"`
	Height decimal.NullDecimal `gorm:"type:decimal(8,2)" json:"height"`
	Depth  decimal.NullDecimal `gorm:"type:decimal(8,2)" json:"depth"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (i *QuoteItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

// NewQuoteItem returns an item with the defaults a freshly added line gets.
func NewQuoteItem() QuoteItem {
	return QuoteItem{
		ItemType:        ItemMaterial,
		Quantity:        decimal.NewFromInt(1),
		UnitPrice:       decimal.Zero,
		DiscountPercent: decimal.Zero,
	}
}

// Amount is quantity * unitPrice * (1 - discountPercent/100), rounded to
// paise.
func (i *QuoteItem) Amount() decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(i.DiscountPercent.Div(hundred))
	return RoundMoney(i.Quantity.Mul(i.UnitPrice).Mul(factor))
}

// Normalize rounds every numeric field to the scale its column stores, so
// the line prices the same before and after a save.
func (i *QuoteItem) Normalize() {
	i.Quantity = i.Quantity.Round(QuantityPlaces)
	i.UnitPrice = RoundMoney(i.UnitPrice)
	i.DiscountPercent = i.DiscountPercent.Round(PercentPlaces)
	i.Width = roundNull(i.Width)
	i.Height = roundNull(i.Height)
	i.Depth = roundNull(i.Depth)
}

func roundNull(n decimal.NullDecimal) decimal.NullDecimal {
	if n.Valid {
		n.Decimal = n.Decimal.Round(DimensionPlaces)
	}
	return n
}

// IsComponent reports whether the line is a sized furniture piece.
func (i *QuoteItem) IsComponent() bool {
	return i.ItemType == ItemComponent
}

// Dimensions returns width, height and depth with missing values as zero.
func (i *QuoteItem) Dimensions() (w, h, d decimal.Decimal) {
	return orZero(i.Width), orZero(i.Height), orZero(i.Depth)
}

func orZero(n decimal.NullDecimal) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	return n.Decimal
}
