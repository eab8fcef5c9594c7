// services/report_service.go
package services

import (
	"context"
	"sort"
	"time"

	"designhub-backend/models"

	"github.com/shopspring/decimal"
)

// Analytics is the designer's accepted-quote revenue report.
type Analytics struct {
	CurrentMonthRevenue   decimal.Decimal `json:"currentMonthRevenue"`
	MonthGrowth           decimal.Decimal `json:"monthGrowth"`
	CurrentQuarterRevenue decimal.Decimal `json:"currentQuarterRevenue"`
	QuarterGrowth         decimal.Decimal `json:"quarterGrowth"`
	CurrentYearRevenue    decimal.Decimal `json:"currentYearRevenue"`
	YearGrowth            decimal.Decimal `json:"yearGrowth"`
	TopItems              []ItemSummary   `json:"topItems"`
	QuickStats            QuickStatistics `json:"quickStats"`
}

// ItemSummary aggregates accepted lines by name.
type ItemSummary struct {
	Name    string          `json:"name"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

type QuickStatistics struct {
	TotalQuotes      int             `json:"totalQuotes"`
	AcceptedQuotes   int             `json:"acceptedQuotes"`
	AvgQuoteValue    decimal.Decimal `json:"avgQuoteValue"`
	AvgResponseHours decimal.Decimal `json:"avgResponseHours"`
}

// TopItemsLimit caps the TopItems list.
const TopItemsLimit = 4

// Report builds revenue figures from accepted quotes, dated by when the
// customer accepted them.
func (s *QuoteService) Report(ctx context.Context, actor Actor) (*Analytics, error) {
	if actor.Role != models.RoleDesigner {
		return nil, ErrForbidden
	}
	quotes, err := s.store.FetchQuotesForDesigner(ctx, actor.ID)
	if err != nil {
		return nil, persistence("fetch quotes", err)
	}

	now := s.now()
	year, month, _ := now.Date()
	loc := now.Location()
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	quarterStart := QuarterStart(now)
	yearStart := time.Date(year, 1, 1, 0, 0, 0, 0, loc)

	monthRev := acceptedRevenue(quotes, monthStart, monthStart.AddDate(0, 1, 0))
	prevMonthRev := acceptedRevenue(quotes, monthStart.AddDate(0, -1, 0), monthStart)
	quarterRev := acceptedRevenue(quotes, quarterStart, quarterStart.AddDate(0, 3, 0))
	prevQuarterRev := acceptedRevenue(quotes, quarterStart.AddDate(0, -3, 0), quarterStart)
	yearRev := acceptedRevenue(quotes, yearStart, yearStart.AddDate(1, 0, 0))
	prevYearRev := acceptedRevenue(quotes, yearStart.AddDate(-1, 0, 0), yearStart)

	return &Analytics{
		CurrentMonthRevenue:   monthRev,
		MonthGrowth:           GrowthPercentage(monthRev, prevMonthRev),
		CurrentQuarterRevenue: quarterRev,
		QuarterGrowth:         GrowthPercentage(quarterRev, prevQuarterRev),
		CurrentYearRevenue:    yearRev,
		YearGrowth:            GrowthPercentage(yearRev, prevYearRev),
		TopItems:              topItems(quotes, monthStart, monthStart.AddDate(0, 1, 0), TopItemsLimit),
		QuickStats:            quickStatistics(quotes),
	}, nil
}

// QuarterStart returns the first day of the calendar quarter containing t.
func QuarterStart(t time.Time) time.Time {
	quarter := (int(t.Month()) - 1) / 3
	return time.Date(t.Year(), time.Month(quarter*3+1), 1, 0, 0, 0, 0, t.Location())
}

// GrowthPercentage is the change from previous to current in percent. Growth
// from nothing counts as 100.
func GrowthPercentage(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		if current.IsZero() {
			return decimal.Zero
		}
		return decimal.NewFromInt(100)
	}
	return current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(models.MoneyPlaces)
}

func acceptedIn(q *models.Quote, start, end time.Time) bool {
	return q.IsAccepted() && q.RespondedAt != nil &&
		!q.RespondedAt.Before(start) && q.RespondedAt.Before(end)
}

func acceptedRevenue(quotes []models.Quote, start, end time.Time) decimal.Decimal {
	total := decimal.Zero
	for i := range quotes {
		if acceptedIn(&quotes[i], start, end) {
			total = total.Add(quotes[i].TotalAmount())
		}
	}
	return total
}

func topItems(quotes []models.Quote, start, end time.Time, limit int) []ItemSummary {
	byName := map[string]*ItemSummary{}
	for i := range quotes {
		if !acceptedIn(&quotes[i], start, end) {
			continue
		}
		for j := range quotes[i].Items {
			item := &quotes[i].Items[j]
			entry, ok := byName[item.Name]
			if !ok {
				entry = &ItemSummary{Name: item.Name, Revenue: decimal.Zero}
				byName[item.Name] = entry
			}
			entry.Count++
			entry.Revenue = entry.Revenue.Add(item.Amount())
		}
	}

	items := make([]ItemSummary, 0, len(byName))
	for _, entry := range byName {
		items = append(items, *entry)
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].Revenue.Equal(items[j].Revenue) {
			return items[i].Revenue.GreaterThan(items[j].Revenue)
		}
		return items[i].Name < items[j].Name
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

func quickStatistics(quotes []models.Quote) QuickStatistics {
	stats := QuickStatistics{
		TotalQuotes:      len(quotes),
		AvgQuoteValue:    decimal.Zero,
		AvgResponseHours: decimal.Zero,
	}

	acceptedTotal := decimal.Zero
	responseHours := decimal.Zero
	responded := 0
	for i := range quotes {
		q := &quotes[i]
		if q.IsAccepted() {
			stats.AcceptedQuotes++
			acceptedTotal = acceptedTotal.Add(q.TotalAmount())
		}
		if q.SentAt != nil && q.RespondedAt != nil {
			responded++
			responseHours = responseHours.Add(decimal.NewFromFloat(q.RespondedAt.Sub(*q.SentAt).Hours()))
		}
	}
	if stats.AcceptedQuotes > 0 {
		stats.AvgQuoteValue = acceptedTotal.Div(decimal.NewFromInt(int64(stats.AcceptedQuotes))).Round(models.MoneyPlaces)
	}
	if responded > 0 {
		stats.AvgResponseHours = responseHours.Div(decimal.NewFromInt(int64(responded))).Round(1)
	}
	return stats
}
