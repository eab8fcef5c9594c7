package quote

import (
	"fmt"
	"strings"

	"designhub-backend/models"

	"github.com/hashicorp/go-multierror"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Validate checks a quote is complete enough to be saved or sent. Every
// failed check is reported; the result matches ErrValidation.
func Validate(q *models.Quote) error {
	var result *multierror.Error

	if strings.TrimSpace(q.Title) == "" {
		result = multierror.Append(result, invalid("title", "title is required"))
	}
	if q.ValidUntil == nil {
		result = multierror.Append(result, invalid("validUntil", "valid until date is required"))
	}
	if len(q.Items) == 0 {
		result = multierror.Append(result, invalid("items", "at least one item is required"))
	}
	for i := range q.Items {
		item := &q.Items[i]
		field := fmt.Sprintf("items[%d]", i)
		if strings.TrimSpace(item.Name) == "" {
			result = multierror.Append(result, invalid(field+".name", "name is required"))
		}
		if !models.RoundMoney(item.UnitPrice).IsPositive() {
			result = multierror.Append(result, invalid(field+".unitPrice", "unit price must be greater than 0"))
		}
		if !item.Quantity.Round(models.QuantityPlaces).IsPositive() {
			result = multierror.Append(result, invalid(field+".quantity", "quantity must be greater than 0"))
		}
		if err := checkDiscountPercent(field, item.DiscountPercent); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if q.DiscountAmount.IsNegative() {
		result = multierror.Append(result, invalid("discountAmount", "discount cannot be negative"))
	} else if len(q.Items) > 0 && q.DiscountAmount.GreaterThan(q.Subtotal()) {
		result = multierror.Append(result, invalid("discountAmount", "discount cannot exceed the subtotal"))
	}
	if q.TaxRate.IsNegative() {
		result = multierror.Append(result, invalid("taxRate", "tax rate cannot be negative"))
	}

	if result != nil {
		result.ErrorFormat = joinFormat
	}
	return result.ErrorOrNil()
}

func checkDiscountPercent(field string, d decimal.Decimal) error {
	if d.IsNegative() || d.GreaterThan(hundred) {
		return invalid(field+".discountPercent", "discount must be between 0 and 100")
	}
	return nil
}

// checkItemRanges guards edits: values may still be incomplete, but never
// out of range.
func checkItemRanges(field string, item *models.QuoteItem) error {
	if !item.ItemType.Valid() {
		return invalid(field+".itemType", "unknown item type %q", item.ItemType)
	}
	if item.Quantity.IsNegative() {
		return invalid(field+".quantity", "quantity cannot be negative")
	}
	if item.UnitPrice.IsNegative() {
		return invalid(field+".unitPrice", "unit price cannot be negative")
	}
	if err := checkDiscountPercent(field, item.DiscountPercent); err != nil {
		return err
	}
	w, h, d := item.Dimensions()
	if w.IsNegative() || h.IsNegative() || d.IsNegative() {
		return invalid(field, "dimensions cannot be negative")
	}
	return nil
}
