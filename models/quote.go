package models

import (
	"time"

	"designhub-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type QuoteStatus string

const (
	QuoteDraft    QuoteStatus = "draft"
	QuoteSent     QuoteStatus = "sent"
	QuoteAccepted QuoteStatus = "accepted"
	QuoteRejected QuoteStatus = "rejected"
	QuoteExpired  QuoteStatus = "expired"
)

// Valid reports whether s is one of the known quote statuses.
func (s QuoteStatus) Valid() bool {
	switch s {
	case QuoteDraft, QuoteSent, QuoteAccepted, QuoteRejected, QuoteExpired:
		return true
	}
	return false
}

// Terminal statuses never move again in normal flow.
func (s QuoteStatus) Terminal() bool {
	return s == QuoteAccepted || s == QuoteRejected || s == QuoteExpired
}

// DefaultTaxRate is the GST percentage applied to new quotes.
var DefaultTaxRate = decimal.NewFromInt(18)

// Quote is a priced proposal from a designer to the customer of a project.
// Money totals are never stored; they are derived from the items, the flat
// discount and the tax rate every time they are read.
type Quote struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	QuoteNumber string    `gorm:"uniqueIndex;not null" json:"quoteNumber"`
	DesignerID  uuid.UUID `gorm:"type:uuid;index;not null" json:"designerId"`
	ProjectID   uuid.UUID `gorm:"type:uuid;index;not null" json:"projectId"`

	Title      string     `gorm:"not null" json:"title"`
	Notes      string     `gorm:"type:text" json:"notes"`
	Terms      string     `gorm:"type:text" json:"terms"`
	ValidUntil *time.Time `gorm:"type:date" json:"validUntil"`

	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discountAmount"`
	TaxRate        decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"taxRate"`

	Status           QuoteStatus `gorm:"type:varchar(20);index;not null;default:'draft'" json:"status"`
	CustomerFeedback string      `gorm:"type:text" json:"customerFeedback"`
	SentAt           *time.Time  `json:"sentAt"`
	RespondedAt      *time.Time  `json:"respondedAt"`

	Items []QuoteItem `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE" json:"items"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (q *Quote) BeforeCreate(tx *gorm.DB) (err error) {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return
}

// Subtotal is the sum of every item amount.
func (q *Quote) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for i := range q.Items {
		total = total.Add(q.Items[i].Amount())
	}
	return total
}

// TaxAmount applies the tax rate to the discounted subtotal.
func (q *Quote) TaxAmount() decimal.Decimal {
	taxable := q.Subtotal().Sub(q.DiscountAmount)
	return RoundMoney(taxable.Mul(q.TaxRate).Div(hundred))
}

// TotalAmount is subtotal - discount + tax.
func (q *Quote) TotalAmount() decimal.Decimal {
	return q.Subtotal().Sub(q.DiscountAmount).Add(q.TaxAmount())
}

// IsAccepted replaces the customer_accepted flag the status used to be
// mirrored into.
func (q *Quote) IsAccepted() bool {
	return q.Status == QuoteAccepted
}

func (q *Quote) IsDraft() bool {
	return q.Status == QuoteDraft
}

// IsPastValidity reports whether now falls after the last day the quote is
// valid. The day ends at midnight in now's location. Quotes without a
// validity date never lapse.
func (q *Quote) IsPastValidity(now time.Time) bool {
	if q.ValidUntil == nil {
		return false
	}
	end := utils.DayAfter(*q.ValidUntil, now.Location())
	return !now.Before(end)
}
