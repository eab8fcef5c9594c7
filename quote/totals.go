package quote

import (
	"designhub-backend/models"

	"github.com/shopspring/decimal"
)

// Totals is the money summary of a quote at one point in time.
type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TaxRate        decimal.Decimal `json:"taxRate"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
}

// ComputeTotals derives every total from the quote's items, discount and
// tax rate. It has no side effects.
func ComputeTotals(q *models.Quote) Totals {
	return Totals{
		Subtotal:       q.Subtotal(),
		DiscountAmount: q.DiscountAmount,
		TaxRate:        q.TaxRate,
		TaxAmount:      q.TaxAmount(),
		TotalAmount:    q.TotalAmount(),
	}
}
