package services

import (
	"context"
	"testing"
	"time"

	"designhub-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrowthPercentage(t *testing.T) {
	assert.True(t, GrowthPercentage(dec("0"), dec("0")).IsZero())
	assert.True(t, GrowthPercentage(dec("500"), dec("0")).Equal(dec("100")))
	assert.True(t, GrowthPercentage(dec("150"), dec("100")).Equal(dec("50")))
	assert.True(t, GrowthPercentage(dec("50"), dec("200")).Equal(dec("-75")))
}

func TestQuarterStart(t *testing.T) {
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), QuarterStart(testNow))
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), QuarterStart(time.Date(2026, 3, 31, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), QuarterStart(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)))
}

func TestReportCountsAcceptedQuotes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	accepted := f.createQuote(t, models.QuoteSent)
	_, err := f.svc.Accept(ctx, f.customerActor(), accepted.ID, "")
	require.NoError(t, err)

	lastMonth := f.createQuote(t, models.QuoteSent)
	_, err = f.svc.Accept(ctx, f.customerActor(), lastMonth.ID, "")
	require.NoError(t, err)
	respondedAt := time.Date(2026, 9, 20, 12, 0, 0, 0, time.UTC)
	require.NoError(t, f.db.Model(&models.Quote{}).Where("id = ?", lastMonth.ID).Update("responded_at", respondedAt).Error)

	f.createQuote(t, models.QuoteSent)

	report, err := f.svc.Report(ctx, f.designerActor())
	require.NoError(t, err)

	assert.True(t, report.CurrentMonthRevenue.Equal(dec("29500")))
	assert.True(t, report.MonthGrowth.IsZero())
	assert.True(t, report.CurrentQuarterRevenue.Equal(dec("29500")))
	assert.True(t, report.QuarterGrowth.IsZero())
	assert.True(t, report.CurrentYearRevenue.Equal(dec("59000")))
	assert.True(t, report.YearGrowth.Equal(dec("100")))
	assert.Equal(t, 3, report.QuickStats.TotalQuotes)
	assert.Equal(t, 2, report.QuickStats.AcceptedQuotes)
	assert.True(t, report.QuickStats.AvgQuoteValue.Equal(dec("29500")))

	require.Len(t, report.TopItems, 2)
	assert.Equal(t, "Carpentry", report.TopItems[0].Name)
	assert.True(t, report.TopItems[0].Revenue.Equal(dec("15000")))

	_, err = f.svc.Report(ctx, f.customerActor())
	assert.ErrorIs(t, err, ErrForbidden)
}
