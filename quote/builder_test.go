package quote

import (
	"testing"
	"time"

	"designhub-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s %v", want, got, msgAndArgs)
}

func newTestBuilder() *Builder {
	return NewBuilder(uuid.New(), uuid.New(), time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC))
}

func TestNewBuilderDefaults(t *testing.T) {
	b := newTestBuilder()
	q := b.Quote()

	assert.Equal(t, models.QuoteDraft, q.Status)
	assertDecimal(t, "18", q.TaxRate)
	assertDecimal(t, "0", q.DiscountAmount)
	assert.Regexp(t, `^QT-20261015-\d{6}$`, q.QuoteNumber)
	assert.Empty(t, b.Items())
}

func TestAddItemDefaults(t *testing.T) {
	b := newTestBuilder()
	i := b.AddItem()
	j := b.AddItem()

	require.Equal(t, 0, i)
	require.Equal(t, 1, j)
	item := b.Items()[j]
	assert.Equal(t, models.ItemMaterial, item.ItemType)
	assertDecimal(t, "1", item.Quantity)
	assertDecimal(t, "0", item.UnitPrice)
	assertDecimal(t, "0", item.DiscountPercent)
	assert.Equal(t, 1, item.Position)
}

func TestItemAmountFollowsEveryMutation(t *testing.T) {
	cases := []struct {
		quantity, price, discount string
		want                      string
	}{
		{"2", "150", "0", "300"},
		{"2", "150", "10", "270"},
		{"3", "33.33", "0", "99.99"},
		{"1.5", "99.99", "12.5", "131.24"},
		{"4", "250", "100", "0"},
	}

	for _, tc := range cases {
		b := newTestBuilder()
		i := b.AddItem()
		require.NoError(t, b.UpdateItem(i, FieldQuantity, tc.quantity))
		require.NoError(t, b.UpdateItem(i, FieldUnitPrice, tc.price))
		require.NoError(t, b.UpdateItem(i, FieldDiscountPercent, tc.discount))

		item := b.Items()[i]
		want := models.RoundMoney(dec(tc.quantity).Mul(dec(tc.price)).Mul(decimal.NewFromInt(1).Sub(dec(tc.discount).Div(decimal.NewFromInt(100)))))
		assertDecimal(t, want.String(), item.Amount(), tc)
		assertDecimal(t, tc.want, item.Amount(), tc)
	}
}

func TestSubtotalTracksAddUpdateRemove(t *testing.T) {
	b := newTestBuilder()
	first := b.AddItem()
	second := b.AddItem()
	require.NoError(t, b.UpdateItem(first, FieldUnitPrice, "100"))
	require.NoError(t, b.UpdateItem(second, FieldUnitPrice, "250"))
	require.NoError(t, b.UpdateItem(second, FieldQuantity, "2"))

	sum := func() decimal.Decimal {
		total := decimal.Zero
		for _, it := range b.Items() {
			total = total.Add(it.Amount())
		}
		return total
	}

	assertDecimal(t, "600", b.Totals().Subtotal)
	assert.True(t, sum().Equal(b.Totals().Subtotal))

	require.NoError(t, b.RemoveItem(first))
	assertDecimal(t, "500", b.Totals().Subtotal)
	assert.True(t, sum().Equal(b.Totals().Subtotal))
	assert.Equal(t, 0, b.Items()[0].Position)

	require.NoError(t, b.UpdateItem(0, FieldDiscountPercent, "50"))
	assertDecimal(t, "250", b.Totals().Subtotal)
}

func TestTotalsWithDiscountAndTax(t *testing.T) {
	b := newTestBuilder()
	i := b.AddItem()
	require.NoError(t, b.UpdateItem(i, FieldUnitPrice, "10000"))
	require.NoError(t, b.SetDiscountAmount(dec("1000")))
	require.NoError(t, b.SetTaxRate(dec("18")))

	totals := b.Totals()
	assertDecimal(t, "10000", totals.Subtotal)
	assertDecimal(t, "1000", totals.DiscountAmount)
	assertDecimal(t, "1620", totals.TaxAmount)
	assertDecimal(t, "10620", totals.TotalAmount)

	// tax = (subtotal - discount) * rate / 100, total = subtotal - discount + tax
	assert.True(t, totals.TaxAmount.Equal(models.RoundMoney(totals.Subtotal.Sub(totals.DiscountAmount).Mul(totals.TaxRate).Div(decimal.NewFromInt(100)))))
	assert.True(t, totals.TotalAmount.Equal(totals.Subtotal.Sub(totals.DiscountAmount).Add(totals.TaxAmount)))
}

func TestSetDiscountAndTaxRejectNegatives(t *testing.T) {
	b := newTestBuilder()

	err := b.SetDiscountAmount(dec("-1"))
	assert.ErrorIs(t, err, ErrValidation)
	err = b.SetTaxRate(dec("-5"))
	assert.ErrorIs(t, err, ErrValidation)

	assertDecimal(t, "0", b.Quote().DiscountAmount)
	assertDecimal(t, "18", b.Quote().TaxRate)
}

func TestComponentDimensionsDriveQuantity(t *testing.T) {
	b := newTestBuilder()
	i := b.AddItem()
	require.NoError(t, b.UpdateItem(i, FieldItemType, string(models.ItemComponent)))
	require.NoError(t, b.UpdateItem(i, FieldUnit, models.UnitSquareFeet))
	require.NoError(t, b.UpdateItem(i, FieldWidth, "10"))
	require.NoError(t, b.UpdateItem(i, FieldHeight, "12"))

	item := b.Items()[i]
	assertDecimal(t, "120", item.Quantity)
	assert.Contains(t, DisplayDescription(&item), "Width: 10ft, Height: 12ft, Depth: 0ft")
}

func TestNumbersRoundToStoredScale(t *testing.T) {
	b := newTestBuilder()
	i := b.AddItem()
	require.NoError(t, b.UpdateItem(i, FieldQuantity, "1.2345"))
	require.NoError(t, b.UpdateItem(i, FieldUnitPrice, "100.004"))
	require.NoError(t, b.UpdateItem(i, FieldDiscountPercent, "2.505"))

	item := b.Items()[i]
	assertDecimal(t, "1.235", item.Quantity)
	assertDecimal(t, "100", item.UnitPrice)
	assertDecimal(t, "2.51", item.DiscountPercent)
	// 1.235 * 100 * 0.9749, the same amount the stored row gives back
	assertDecimal(t, "120.4", item.Amount())

	require.NoError(t, b.SetDiscountAmount(dec("10.555")))
	require.NoError(t, b.SetTaxRate(dec("18.005")))
	assertDecimal(t, "10.56", b.Quote().DiscountAmount)
	assertDecimal(t, "18.01", b.Quote().TaxRate)
}

func TestSubPaisePriceFailsValidation(t *testing.T) {
	b := newTestBuilder()
	b.SetTitle("Study")
	validUntil := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	b.SetValidUntil(&validUntil)
	require.NoError(t, b.SetItems([]models.QuoteItem{{
		ItemType: models.ItemLabor, Name: "Polish", Quantity: dec("1"), UnitPrice: dec("0.004"),
	}}))

	assertDecimal(t, "0", b.Items()[0].UnitPrice)
	err := b.Validate()
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, ValidationMessages(err), "items[0].unitPrice: unit price must be greater than 0")
}

func TestComponentDimensionsRoundBeforeSizing(t *testing.T) {
	b := newTestBuilder()
	require.NoError(t, b.SetItems([]models.QuoteItem{{
		ItemType:  models.ItemComponent,
		Name:      "Shutter",
		Unit:      models.UnitSquareFeet,
		UnitPrice: dec("100"),
		Width:     decimal.NewNullDecimal(dec("2.345")),
		Height:    decimal.NewNullDecimal(dec("1.115")),
	}}))

	item := b.Items()[0]
	assertDecimal(t, "2.35", item.Width.Decimal)
	assertDecimal(t, "1.12", item.Height.Decimal)
	assertDecimal(t, "2.632", item.Quantity)
	assertDecimal(t, "263.2", item.Amount())
}

func TestComponentWithOtherUnitKeepsQuantity(t *testing.T) {
	b := newTestBuilder()
	i := b.AddItem()
	require.NoError(t, b.UpdateItem(i, FieldItemType, string(models.ItemComponent)))
	require.NoError(t, b.UpdateItem(i, FieldUnit, "piece"))
	require.NoError(t, b.UpdateItem(i, FieldQuantity, "2"))
	require.NoError(t, b.UpdateItem(i, FieldWidth, "6"))
	require.NoError(t, b.UpdateItem(i, FieldHeight, "7"))

	assertDecimal(t, "2", b.Items()[i].Quantity)
}

func TestDimensionsOnlyForComponents(t *testing.T) {
	b := newTestBuilder()
	i := b.AddItem()

	err := b.UpdateItem(i, FieldWidth, "10")
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, b.UpdateItem(i, FieldItemType, string(models.ItemComponent)))
	require.NoError(t, b.UpdateItem(i, FieldWidth, "10"))
	require.NoError(t, b.UpdateItem(i, FieldItemType, string(models.ItemLabor)))
	assert.False(t, b.Items()[i].Width.Valid)
}

func TestUpdateItemRejectsBadValuesWithoutChange(t *testing.T) {
	b := newTestBuilder()
	i := b.AddItem()
	require.NoError(t, b.UpdateItem(i, FieldQuantity, "3"))

	for _, tc := range []struct {
		field Field
		value string
	}{
		{FieldQuantity, "-1"},
		{FieldQuantity, "three"},
		{FieldUnitPrice, "-10"},
		{FieldDiscountPercent, "101"},
		{FieldItemType, "furniture"},
		{Field("colour"), "red"},
	} {
		err := b.UpdateItem(i, tc.field, tc.value)
		assert.ErrorIs(t, err, ErrValidation, tc)
	}

	item := b.Items()[i]
	assertDecimal(t, "3", item.Quantity)
	assert.Equal(t, models.ItemMaterial, item.ItemType)
}

func TestItemIndexOutOfRange(t *testing.T) {
	b := newTestBuilder()
	b.AddItem()

	assert.ErrorIs(t, b.UpdateItem(1, FieldName, "x"), ErrValidation)
	assert.ErrorIs(t, b.RemoveItem(-1), ErrValidation)
	assert.ErrorIs(t, b.PutItem(5, models.NewQuoteItem()), ErrValidation)
}

func TestMaterialSelectionUsesEffectivePrice(t *testing.T) {
	discounted := models.Material{
		ID:            uuid.New(),
		Name:          "Teak veneer",
		Description:   "4mm teak",
		Unit:          models.UnitSquareFeet,
		BasePrice:     dec("800"),
		DiscountPrice: dec("500"),
		IsDiscounted:  true,
	}
	regular := models.Material{
		ID:            uuid.New(),
		Name:          "Laminate",
		Unit:          models.UnitSquareFeet,
		BasePrice:     dec("120"),
		DiscountPrice: dec("90"),
	}

	b := newTestBuilder().WithCatalog([]models.Material{discounted, regular})
	i := b.AddItem()

	require.NoError(t, b.UpdateItem(i, FieldMaterialID, discounted.ID.String()))
	item := b.Items()[i]
	assertDecimal(t, "500", item.UnitPrice)
	assert.Equal(t, "Teak veneer", item.Name)
	assert.Equal(t, "4mm teak", item.Description)
	assert.Equal(t, models.UnitSquareFeet, item.Unit)

	require.NoError(t, b.UpdateItem(i, FieldMaterialID, regular.ID.String()))
	assertDecimal(t, "120", b.Items()[i].UnitPrice)

	err := b.UpdateItem(i, FieldMaterialID, uuid.NewString())
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Laminate", b.Items()[i].Name)
}

func TestSetItemsKeepsManualEditsForUnchangedMaterial(t *testing.T) {
	m := models.Material{ID: uuid.New(), Name: "Plywood", BasePrice: dec("60")}
	b := newTestBuilder().WithCatalog([]models.Material{m})

	require.NoError(t, b.SetItems([]models.QuoteItem{{MaterialID: &m.ID, Quantity: dec("10")}}))
	first := b.Items()[0]
	assertDecimal(t, "60", first.UnitPrice)
	assert.Equal(t, "Plywood", first.Name)

	// The designer negotiates the price down on the same material.
	edited := first
	edited.UnitPrice = dec("55")
	edited.Name = "Plywood (BWR)"
	require.NoError(t, b.SetItems([]models.QuoteItem{edited}))

	item := b.Items()[0]
	assertDecimal(t, "55", item.UnitPrice)
	assert.Equal(t, "Plywood (BWR)", item.Name)
	assert.Equal(t, first.ID, item.ID)
}

func TestSetItemsReadsLegacyDimensionText(t *testing.T) {
	b := newTestBuilder()
	require.NoError(t, b.SetItems([]models.QuoteItem{{
		ItemType:    models.ItemComponent,
		Name:        "Wardrobe shutter",
		Unit:        models.UnitSquareFeet,
		Description: "Width: 4ft, Height: 3.5ft, Depth: 2ft",
		UnitPrice:   dec("900"),
	}}))

	item := b.Items()[0]
	require.True(t, item.Width.Valid)
	assertDecimal(t, "4", item.Width.Decimal)
	assertDecimal(t, "3.5", item.Height.Decimal)
	assertDecimal(t, "2", item.Depth.Decimal)
	assertDecimal(t, "14", item.Quantity)
}

func TestSetItemsDropsDimensionsFromOtherTypes(t *testing.T) {
	b := newTestBuilder()
	require.NoError(t, b.SetItems([]models.QuoteItem{{
		ItemType: models.ItemLabor,
		Name:     "Carpentry",
		Quantity: dec("8"),
		Width:    decimal.NewNullDecimal(dec("3")),
	}}))

	assert.False(t, b.Items()[0].Width.Valid)
	assertDecimal(t, "8", b.Items()[0].Quantity)
}

func TestEditOnlyDrafts(t *testing.T) {
	q := &models.Quote{QuoteNumber: "QT-1", Status: models.QuoteSent}
	_, err := Edit(q)
	assert.ErrorIs(t, err, ErrNotEditable)

	q.Status = models.QuoteDraft
	b, err := Edit(q)
	require.NoError(t, err)
	assert.Same(t, q, b.Quote())
}
