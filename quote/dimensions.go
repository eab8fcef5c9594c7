package quote

import (
	"fmt"
	"regexp"

	"designhub-backend/models"

	"github.com/shopspring/decimal"
)

var (
	widthPattern  = regexp.MustCompile(`Width:\s*(\d+(?:\.\d+)?)\s*ft`)
	heightPattern = regexp.MustCompile(`Height:\s*(\d+(?:\.\d+)?)\s*ft`)
	depthPattern  = regexp.MustCompile(`Depth:\s*(\d+(?:\.\d+)?)\s*ft`)
)

// FormatDimensions renders component sizing the way quotes display it.
func FormatDimensions(w, h, d decimal.Decimal) string {
	return fmt.Sprintf("Width: %sft, Height: %sft, Depth: %sft", w.String(), h.String(), d.String())
}

// ParseDimensions reads sizing back out of a description written by
// FormatDimensions. Anything missing or unreadable is zero.
func ParseDimensions(s string) (w, h, d decimal.Decimal) {
	return matchDimension(widthPattern, s), matchDimension(heightPattern, s), matchDimension(depthPattern, s)
}

func matchDimension(re *regexp.Regexp, s string) decimal.Decimal {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return decimal.Zero
	}
	v, err := decimal.NewFromString(m[1])
	if err != nil {
		return decimal.Zero
	}
	return v
}

// HasDimensions reports whether s mentions any of the three sizes.
func HasDimensions(s string) bool {
	return widthPattern.MatchString(s) || heightPattern.MatchString(s) || depthPattern.MatchString(s)
}

// DisplayDescription is what a line shows under its name. Component lines
// always show their sizing; everything else shows the free text.
func DisplayDescription(item *models.QuoteItem) string {
	if item.IsComponent() {
		return FormatDimensions(item.Dimensions())
	}
	return item.Description
}

// resize keeps a square-foot component's quantity equal to its face area.
func resize(item *models.QuoteItem) {
	if !item.IsComponent() || item.Unit != models.UnitSquareFeet {
		return
	}
	w, h, _ := item.Dimensions()
	item.Quantity = w.Mul(h).Round(models.QuantityPlaces)
}

func clearDimensions(item *models.QuoteItem) {
	item.Width = decimal.NullDecimal{}
	item.Height = decimal.NullDecimal{}
	item.Depth = decimal.NullDecimal{}
}

func validDecimal(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
