package quote

import (
	"fmt"
	"time"
)

// NewQuoteNumber builds a human readable number from the creation time,
// e.g. QT-20261015-482913.
func NewQuoteNumber(now time.Time) string {
	return fmt.Sprintf("QT-%s-%06d", now.Format("20060102"), now.UnixMilli()%1000000)
}
