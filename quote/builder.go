package quote

import (
	"fmt"
	"strings"
	"time"

	"designhub-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Field names an editable property of a quote line.
type Field string

const (
	FieldItemType        Field = "itemType"
	FieldMaterialID      Field = "materialId"
	FieldName            Field = "name"
	FieldDescription     Field = "description"
	FieldQuantity        Field = "quantity"
	FieldUnit            Field = "unit"
	FieldUnitPrice       Field = "unitPrice"
	FieldDiscountPercent Field = "discountPercent"
	FieldWidth           Field = "width"
	FieldHeight          Field = "height"
	FieldDepth           Field = "depth"
)

// Builder edits a draft quote. Totals are never cached: every read of
// Totals reflects the latest mutation.
type Builder struct {
	q       *models.Quote
	catalog map[uuid.UUID]models.Material
}

// NewBuilder starts a draft for designerID on projectID.
func NewBuilder(designerID, projectID uuid.UUID, now time.Time) *Builder {
	return &Builder{q: &models.Quote{
		QuoteNumber:    NewQuoteNumber(now),
		DesignerID:     designerID,
		ProjectID:      projectID,
		Status:         models.QuoteDraft,
		DiscountAmount: decimal.Zero,
		TaxRate:        models.DefaultTaxRate,
	}}
}

// Edit wraps an existing quote. Only drafts can be edited.
func Edit(q *models.Quote) (*Builder, error) {
	if !q.IsDraft() {
		return nil, fmt.Errorf("%w: quote %s is %s", ErrNotEditable, q.QuoteNumber, q.Status)
	}
	return &Builder{q: q}, nil
}

// WithCatalog makes the designer's materials selectable by id.
func (b *Builder) WithCatalog(materials []models.Material) *Builder {
	b.catalog = make(map[uuid.UUID]models.Material, len(materials))
	for _, m := range materials {
		b.catalog[m.ID] = m
	}
	return b
}

// Quote returns the quote being built.
func (b *Builder) Quote() *models.Quote {
	return b.q
}

func (b *Builder) Items() []models.QuoteItem {
	return b.q.Items
}

func (b *Builder) Totals() Totals {
	return ComputeTotals(b.q)
}

func (b *Builder) Validate() error {
	return Validate(b.q)
}

func (b *Builder) SetTitle(title string) {
	b.q.Title = strings.TrimSpace(title)
}

func (b *Builder) SetNotes(notes, terms string) {
	b.q.Notes = notes
	b.q.Terms = terms
}

func (b *Builder) SetValidUntil(t *time.Time) {
	b.q.ValidUntil = t
}

func (b *Builder) SetDiscountAmount(d decimal.Decimal) error {
	if d.IsNegative() {
		return invalid("discountAmount", "discount cannot be negative")
	}
	b.q.DiscountAmount = models.RoundMoney(d)
	return nil
}

func (b *Builder) SetTaxRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return invalid("taxRate", "tax rate cannot be negative")
	}
	b.q.TaxRate = rate.Round(models.PercentPlaces)
	return nil
}

// AddItem appends a default line and returns its index.
func (b *Builder) AddItem() int {
	item := models.NewQuoteItem()
	item.ID = uuid.New()
	item.QuoteID = b.q.ID
	b.q.Items = append(b.q.Items, item)
	b.renumber()
	return len(b.q.Items) - 1
}

// RemoveItem drops the line at index.
func (b *Builder) RemoveItem(index int) error {
	if _, err := b.item(index); err != nil {
		return err
	}
	b.q.Items = append(b.q.Items[:index], b.q.Items[index+1:]...)
	b.renumber()
	return nil
}

// UpdateItem sets one field of the line at index from its text value. Numbers
// are rounded to the scale their column stores. A rejected value leaves the
// line untouched.
func (b *Builder) UpdateItem(index int, field Field, value string) error {
	item, err := b.item(index)
	if err != nil {
		return err
	}
	name := fmt.Sprintf("items[%d]", index)
	next := *item

	switch field {
	case FieldItemType:
		next.ItemType = models.ItemType(value)
		if !next.IsComponent() {
			clearDimensions(&next)
		}
	case FieldMaterialID:
		if value == "" {
			next.MaterialID = nil
			break
		}
		id, err := uuid.Parse(value)
		if err != nil {
			return invalid(name+".materialId", "invalid material id")
		}
		if err := b.applyMaterial(name, &next, id); err != nil {
			return err
		}
	case FieldName:
		next.Name = value
	case FieldDescription:
		next.Description = value
	case FieldUnit:
		next.Unit = value
	case FieldQuantity, FieldUnitPrice, FieldDiscountPercent:
		d, err := parseDecimal(name, field, value)
		if err != nil {
			return err
		}
		switch field {
		case FieldQuantity:
			next.Quantity = d
		case FieldUnitPrice:
			next.UnitPrice = d
		default:
			next.DiscountPercent = d
		}
	case FieldWidth, FieldHeight, FieldDepth:
		if !next.IsComponent() {
			return invalid(name+"."+string(field), "only component items have dimensions")
		}
		d, err := parseDecimal(name, field, value)
		if err != nil {
			return err
		}
		d = d.Round(models.DimensionPlaces)
		switch field {
		case FieldWidth:
			next.Width = validDecimal(d)
		case FieldHeight:
			next.Height = validDecimal(d)
		default:
			next.Depth = validDecimal(d)
		}
		if field != FieldDepth {
			resize(&next)
		}
	default:
		return invalid(name, "unknown field %q", field)
	}

	next.Normalize()
	if err := checkItemRanges(name, &next); err != nil {
		return err
	}
	*item = next
	return nil
}

// PutItem replaces the line at index with item. A material id that differs
// from the one already on the line is looked up and overwrites the name,
// description, unit and price; an unchanged id keeps manual edits.
func (b *Builder) PutItem(index int, item models.QuoteItem) error {
	current, err := b.item(index)
	if err != nil {
		return err
	}
	return b.put(index, current, item)
}

// SetItems replaces every line. Lines whose ID matches an existing line are
// treated as edits of it; anything else is new.
func (b *Builder) SetItems(items []models.QuoteItem) error {
	existing := make(map[uuid.UUID]models.QuoteItem, len(b.q.Items))
	for _, it := range b.q.Items {
		existing[it.ID] = it
	}

	next := make([]models.QuoteItem, len(items))
	for i, in := range items {
		prev, ok := existing[in.ID]
		if !ok || in.ID == uuid.Nil {
			prev = models.NewQuoteItem()
			prev.ID = uuid.New()
		}
		delete(existing, in.ID)
		next[i] = prev
		if err := b.put(i, &next[i], in); err != nil {
			return err
		}
	}
	b.q.Items = next
	b.renumber()
	return nil
}

func (b *Builder) put(index int, current *models.QuoteItem, in models.QuoteItem) error {
	name := fmt.Sprintf("items[%d]", index)
	next := in
	next.ID = current.ID
	next.QuoteID = b.q.ID
	next.Position = index
	if next.ItemType == "" {
		next.ItemType = models.ItemMaterial
	}

	if next.MaterialID != nil && (current.MaterialID == nil || *current.MaterialID != *next.MaterialID) {
		if err := b.applyMaterial(name, &next, *next.MaterialID); err != nil {
			return err
		}
	}

	if next.IsComponent() {
		if !next.Width.Valid && !next.Height.Valid && !next.Depth.Valid && HasDimensions(next.Description) {
			w, h, d := ParseDimensions(next.Description)
			next.Width, next.Height, next.Depth = validDecimal(w), validDecimal(h), validDecimal(d)
		}
	} else {
		clearDimensions(&next)
	}
	next.Normalize()
	if next.IsComponent() && (next.Width.Valid || next.Height.Valid) {
		resize(&next)
	}

	if err := checkItemRanges(name, &next); err != nil {
		return err
	}
	*current = next
	return nil
}

func (b *Builder) applyMaterial(field string, item *models.QuoteItem, id uuid.UUID) error {
	m, ok := b.catalog[id]
	if !ok {
		return invalid(field+".materialId", "material %s is not in the catalog", id)
	}
	item.MaterialID = &m.ID
	item.Name = m.Name
	item.Description = m.Description
	item.Unit = m.Unit
	item.UnitPrice = m.EffectivePrice()
	return nil
}

func (b *Builder) item(index int) (*models.QuoteItem, error) {
	if index < 0 || index >= len(b.q.Items) {
		return nil, invalid("items", "no item at position %d", index)
	}
	return &b.q.Items[index], nil
}

func (b *Builder) renumber() {
	for i := range b.q.Items {
		b.q.Items[i].Position = i
	}
}

func parseDecimal(name string, field Field, value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, invalid(name+"."+string(field), "%q is not a number", value)
	}
	return d, nil
}
