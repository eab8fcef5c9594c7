package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestQuoteTotalsAreDerived(t *testing.T) {
	q := Quote{
		DiscountAmount: d("100"),
		TaxRate:        d("18"),
		Items: []QuoteItem{
			{Quantity: d("2"), UnitPrice: d("333.33"), DiscountPercent: d("0")},
			{Quantity: d("1"), UnitPrice: d("99.99"), DiscountPercent: d("5")},
		},
	}

	// 666.66 + 94.99 (94.9905 rounded)
	assert.Equal(t, "761.65", q.Subtotal().String())
	// (761.65 - 100) * 0.18 = 119.097
	assert.Equal(t, "119.1", q.TaxAmount().String())
	assert.Equal(t, "780.75", q.TotalAmount().String())

	q.Items = q.Items[:1]
	assert.Equal(t, "666.66", q.Subtotal().String())
}

func TestQuoteIsPastValidity(t *testing.T) {
	validUntil := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	q := Quote{ValidUntil: &validUntil}

	assert.False(t, q.IsPastValidity(time.Date(2026, 10, 15, 23, 59, 0, 0, time.UTC)))
	assert.True(t, q.IsPastValidity(time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)))

	q.ValidUntil = nil
	assert.False(t, q.IsPastValidity(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestQuoteIsPastValidityInServerLocation(t *testing.T) {
	ist := time.FixedZone("IST", 5*60*60+30*60)
	validUntil := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	q := Quote{ValidUntil: &validUntil}

	assert.False(t, q.IsPastValidity(time.Date(2026, 10, 15, 23, 59, 0, 0, ist)))
	assert.True(t, q.IsPastValidity(time.Date(2026, 10, 16, 0, 0, 0, 0, ist)))
	assert.True(t, q.IsPastValidity(time.Date(2026, 10, 16, 4, 0, 0, 0, ist)))
}

func TestQuoteItemNormalize(t *testing.T) {
	item := QuoteItem{
		Quantity:        d("1.2345"),
		UnitPrice:       d("0.004"),
		DiscountPercent: d("12.345"),
		Width:           decimal.NewNullDecimal(d("10.005")),
	}
	item.Normalize()

	assert.Equal(t, "1.235", item.Quantity.String())
	assert.True(t, item.UnitPrice.IsZero())
	assert.Equal(t, "12.35", item.DiscountPercent.String())
	assert.Equal(t, "10.01", item.Width.Decimal.String())
	assert.False(t, item.Height.Valid)
}

func TestStatusHelpers(t *testing.T) {
	assert.True(t, QuoteExpired.Terminal())
	assert.False(t, QuoteSent.Terminal())
	assert.False(t, QuoteStatus("archived").Valid())

	q := Quote{Status: QuoteAccepted}
	assert.True(t, q.IsAccepted())
	q.Status = QuoteRejected
	assert.False(t, q.IsAccepted())
}

func TestMaterialEffectivePrice(t *testing.T) {
	m := Material{BasePrice: d("800"), DiscountPrice: d("500")}
	assert.True(t, m.EffectivePrice().Equal(d("800")))

	m.IsDiscounted = true
	assert.True(t, m.EffectivePrice().Equal(d("500")))
}

func TestQuoteItemDimensions(t *testing.T) {
	item := QuoteItem{Height: decimal.NewNullDecimal(d("7"))}
	w, h, depth := item.Dimensions()

	assert.True(t, w.IsZero())
	assert.True(t, h.Equal(d("7")))
	assert.True(t, depth.IsZero())
}
