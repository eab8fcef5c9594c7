// services/quote_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"designhub-backend/models"
	"designhub-backend/quote"
	"designhub-backend/utils"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/shopspring/decimal"
)

// Actor is the authenticated caller.
type Actor struct {
	ID   uuid.UUID
	Role models.Role
}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

// QuoteInput carries the designer-editable parts of a quote.
type QuoteInput struct {
	ProjectID      uuid.UUID
	QuoteNumber    string
	Title          string
	Notes          string
	Terms          string
	ValidUntil     *time.Time
	DiscountAmount decimal.Decimal
	TaxRate        *decimal.Decimal
	Items          []models.QuoteItem
}

// StatusSummary aggregates one status on the designer dashboard.
type StatusSummary struct {
	Status models.QuoteStatus `json:"status"`
	Count  int                `json:"count"`
	Total  decimal.Decimal    `json:"total"`
}

// Summary is the designer's quote dashboard.
type Summary struct {
	TotalQuotes    int             `json:"totalQuotes"`
	AcceptedValue  decimal.Decimal `json:"acceptedValue"`
	PendingValue   decimal.Decimal `json:"pendingValue"`
	AcceptanceRate decimal.Decimal `json:"acceptanceRate"`
	ByStatus       []StatusSummary `json:"byStatus"`
	ExpiringSoon   []ExpiringQuote `json:"expiringSoon"`
}

// ExpiringQuote is a sent quote close to its validity date.
type ExpiringQuote struct {
	ID            uuid.UUID       `json:"id"`
	QuoteNumber   string          `json:"quoteNumber"`
	Title         string          `json:"title"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	DaysRemaining int             `json:"daysRemaining"`
}

// ExpiringWindow is how far ahead the dashboard looks for lapsing quotes.
const ExpiringWindow = 7

type QuoteService struct {
	store          Store
	notifier       Notifier
	now            func() time.Time
	defaultTaxRate decimal.Decimal
}

func NewQuoteService(store Store, notifier Notifier) *QuoteService {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &QuoteService{
		store:          store,
		notifier:       notifier,
		now:            time.Now,
		defaultTaxRate: models.DefaultTaxRate,
	}
}

func (s *QuoteService) WithClock(now func() time.Time) *QuoteService {
	s.now = now
	return s
}

func (s *QuoteService) WithDefaultTaxRate(rate decimal.Decimal) *QuoteService {
	s.defaultTaxRate = rate
	return s
}

func (s *QuoteService) lifecycle(st Store) *quote.Lifecycle {
	return quote.NewLifecycle(st).WithClock(s.now)
}

// Actions lists what can be done to q next.
func (s *QuoteService) Actions(ctx context.Context, q *models.Quote) []string {
	return quote.NewLifecycle(nil).WithClock(s.now).Actions(ctx, q)
}

// Preview prices an unsaved quote.
func (s *QuoteService) Preview(ctx context.Context, actor Actor, in QuoteInput) (*models.Quote, quote.Totals, error) {
	if actor.Role != models.RoleDesigner {
		return nil, quote.Totals{}, ErrForbidden
	}
	b := quote.NewBuilder(actor.ID, in.ProjectID, s.now())
	if err := s.fill(ctx, b, actor.ID, in); err != nil {
		return nil, quote.Totals{}, err
	}
	return b.Quote(), b.Totals(), nil
}

// Create saves a new quote as a draft, or saves and sends it. The quote and
// its items are written in one transaction.
func (s *QuoteService) Create(ctx context.Context, actor Actor, in QuoteInput, status models.QuoteStatus) (*models.Quote, error) {
	if status != models.QuoteDraft && status != models.QuoteSent {
		return nil, fmt.Errorf("%w: new quotes are saved as draft or sent, not %s", quote.ErrInvalidTransition, status)
	}
	if actor.Role != models.RoleDesigner {
		return nil, ErrForbidden
	}
	project, err := s.store.GetProject(ctx, in.ProjectID)
	if err != nil {
		return nil, persistence("load project", err)
	}
	if !project.AssignedTo(actor.ID) {
		return nil, ErrForbidden
	}

	b := quote.NewBuilder(actor.ID, project.ID, s.now())
	if in.QuoteNumber != "" {
		b.Quote().QuoteNumber = in.QuoteNumber
	}
	if err := s.fill(ctx, b, actor.ID, in); err != nil {
		return nil, err
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}

	q := b.Quote()
	err = s.store.WithinTx(ctx, func(tx Store) error {
		if err := tx.CreateQuote(ctx, q); err != nil {
			return persistence("create quote", err)
		}
		if err := tx.CreateQuoteItems(ctx, q.ID, q.Items); err != nil {
			return persistence("create quote items", err)
		}
		if status == models.QuoteSent {
			return s.lifecycle(tx).Submit(ctx, q)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "quote created", "quote", q.QuoteNumber, "status", q.Status, "designer", actor.ID)
	if q.Status == models.QuoteSent {
		s.notifyCustomer(ctx, q, project)
	}
	return q, nil
}

// UpdateDraft replaces the editable fields and items of a draft.
func (s *QuoteService) UpdateDraft(ctx context.Context, actor Actor, id uuid.UUID, in QuoteInput) (*models.Quote, error) {
	return s.editDraft(ctx, actor, id, func(b *quote.Builder) error {
		if err := s.fill(ctx, b, actor.ID, in); err != nil {
			return err
		}
		return b.Validate()
	})
}

// AddItem appends a default line to a draft.
func (s *QuoteService) AddItem(ctx context.Context, actor Actor, id uuid.UUID) (*models.Quote, error) {
	return s.editDraft(ctx, actor, id, func(b *quote.Builder) error {
		b.AddItem()
		return nil
	})
}

// UpdateItem sets one field of one line of a draft.
func (s *QuoteService) UpdateItem(ctx context.Context, actor Actor, id uuid.UUID, index int, field quote.Field, value string) (*models.Quote, error) {
	return s.editDraft(ctx, actor, id, func(b *quote.Builder) error {
		if field == quote.FieldMaterialID {
			catalog, err := s.store.FetchMaterialCatalog(ctx, actor.ID)
			if err != nil {
				return persistence("fetch material catalog", err)
			}
			b.WithCatalog(catalog)
		}
		return b.UpdateItem(index, field, value)
	})
}

// RemoveItem drops one line of a draft.
func (s *QuoteService) RemoveItem(ctx context.Context, actor Actor, id uuid.UUID, index int) (*models.Quote, error) {
	return s.editDraft(ctx, actor, id, func(b *quote.Builder) error {
		return b.RemoveItem(index)
	})
}

// Submit sends a draft to the project's customer.
func (s *QuoteService) Submit(ctx context.Context, actor Actor, id uuid.UUID) (*models.Quote, error) {
	q, err := s.ownQuote(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.lifecycle(s.store).Submit(ctx, q); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "quote sent", "quote", q.QuoteNumber)

	project, err := s.store.GetProject(ctx, q.ProjectID)
	if err != nil {
		slog.WarnContext(ctx, "quote sent but project lookup failed", "quote", q.QuoteNumber, "error", err)
		return q, nil
	}
	s.notifyCustomer(ctx, q, project)
	return q, nil
}

// Accept records the customer's acceptance.
func (s *QuoteService) Accept(ctx context.Context, actor Actor, id uuid.UUID, feedback string) (*models.Quote, error) {
	return s.respond(ctx, actor, id, func(lc *quote.Lifecycle, q *models.Quote) error {
		return lc.Accept(ctx, q, feedback)
	})
}

// Reject records the customer's rejection; feedback is required.
func (s *QuoteService) Reject(ctx context.Context, actor Actor, id uuid.UUID, feedback string) (*models.Quote, error) {
	return s.respond(ctx, actor, id, func(lc *quote.Lifecycle, q *models.Quote) error {
		return lc.Reject(ctx, q, feedback)
	})
}

// Get returns a quote visible to actor.
func (s *QuoteService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*models.Quote, error) {
	q, err := s.store.GetQuote(ctx, id)
	if err != nil {
		return nil, persistence("load quote", err)
	}
	switch {
	case actor.IsAdmin(), q.DesignerID == actor.ID:
		return q, nil
	case actor.Role == models.RoleCustomer && !q.IsDraft():
		project, err := s.store.GetProject(ctx, q.ProjectID)
		if err != nil {
			return nil, persistence("load project", err)
		}
		if project.CustomerID == actor.ID {
			return q, nil
		}
	}
	return nil, ErrForbidden
}

// ListForProject returns the quotes of a project that actor may see:
// customers see everything that was sent to them, designers their own.
func (s *QuoteService) ListForProject(ctx context.Context, actor Actor, projectID uuid.UUID) ([]models.Quote, error) {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, persistence("load project", err)
	}
	if !actor.IsAdmin() && project.CustomerID != actor.ID && !project.AssignedTo(actor.ID) {
		return nil, ErrForbidden
	}

	quotes, err := s.store.FetchQuotesForProject(ctx, projectID)
	if err != nil {
		return nil, persistence("fetch quotes", err)
	}
	if actor.IsAdmin() {
		return quotes, nil
	}

	visible := make([]models.Quote, 0, len(quotes))
	for _, q := range quotes {
		switch {
		case actor.Role == models.RoleCustomer && !q.IsDraft():
			visible = append(visible, q)
		case actor.Role == models.RoleDesigner && q.DesignerID == actor.ID:
			visible = append(visible, q)
		}
	}
	return visible, nil
}

// Catalog returns the designer's active materials.
func (s *QuoteService) Catalog(ctx context.Context, designerID uuid.UUID) ([]models.Material, error) {
	materials, err := s.store.FetchMaterialCatalog(ctx, designerID)
	if err != nil {
		return nil, persistence("fetch material catalog", err)
	}
	return materials, nil
}

// Summary builds the designer dashboard.
func (s *QuoteService) Summary(ctx context.Context, actor Actor) (*Summary, error) {
	if actor.Role != models.RoleDesigner {
		return nil, ErrForbidden
	}
	quotes, err := s.store.FetchQuotesForDesigner(ctx, actor.ID)
	if err != nil {
		return nil, persistence("fetch quotes", err)
	}

	order := []models.QuoteStatus{models.QuoteDraft, models.QuoteSent, models.QuoteAccepted, models.QuoteRejected, models.QuoteExpired}
	byStatus := make(map[models.QuoteStatus]*StatusSummary, len(order))
	for _, st := range order {
		byStatus[st] = &StatusSummary{Status: st, Total: decimal.Zero}
	}
	now := s.now()
	expiring := []ExpiringQuote{}
	for i := range quotes {
		q := &quotes[i]
		entry := byStatus[q.Status]
		if entry == nil {
			continue
		}
		entry.Count++
		entry.Total = entry.Total.Add(q.TotalAmount())

		if q.Status == models.QuoteSent && q.ValidUntil != nil {
			days := utils.DaysBetween(now, *q.ValidUntil)
			if days >= 0 && days <= ExpiringWindow {
				expiring = append(expiring, ExpiringQuote{
					ID:            q.ID,
					QuoteNumber:   q.QuoteNumber,
					Title:         q.Title,
					TotalAmount:   q.TotalAmount(),
					DaysRemaining: days,
				})
			}
		}
	}
	sort.Slice(expiring, func(i, j int) bool { return expiring[i].DaysRemaining < expiring[j].DaysRemaining })

	summary := &Summary{
		TotalQuotes:    len(quotes),
		AcceptedValue:  byStatus[models.QuoteAccepted].Total,
		PendingValue:   byStatus[models.QuoteSent].Total,
		AcceptanceRate: decimal.Zero,
		ExpiringSoon:   expiring,
	}
	decided := byStatus[models.QuoteAccepted].Count + byStatus[models.QuoteRejected].Count + byStatus[models.QuoteExpired].Count
	if decided > 0 {
		summary.AcceptanceRate = decimal.NewFromInt(int64(byStatus[models.QuoteAccepted].Count)).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(decided))).
			Round(models.MoneyPlaces)
	}
	for _, st := range order {
		summary.ByStatus = append(summary.ByStatus, *byStatus[st])
	}
	return summary, nil
}

// ExpireOverdue moves every sent quote whose validity has lapsed to expired
// and reports how many were moved.
func (s *QuoteService) ExpireOverdue(ctx context.Context) (int, error) {
	now := s.now()
	quotes, err := s.store.ListSentPastValidity(ctx, utils.CalendarDate(now))
	if err != nil {
		return 0, persistence("list overdue quotes", err)
	}

	var result *multierror.Error
	expired := 0
	lc := s.lifecycle(s.store)
	for i := range quotes {
		q := &quotes[i]
		if !q.IsPastValidity(now) {
			continue
		}
		if err := lc.Expire(ctx, q); err != nil {
			result = multierror.Append(result, fmt.Errorf("quote %s: %w", q.QuoteNumber, err))
			continue
		}
		expired++
	}
	return expired, result.ErrorOrNil()
}

func (s *QuoteService) fill(ctx context.Context, b *quote.Builder, designerID uuid.UUID, in QuoteInput) error {
	b.SetTitle(in.Title)
	b.SetNotes(in.Notes, in.Terms)
	b.SetValidUntil(in.ValidUntil)
	if err := b.SetDiscountAmount(in.DiscountAmount); err != nil {
		return err
	}
	rate := s.defaultTaxRate
	if in.TaxRate != nil {
		rate = *in.TaxRate
	}
	if err := b.SetTaxRate(rate); err != nil {
		return err
	}

	for _, it := range in.Items {
		if it.MaterialID != nil {
			catalog, err := s.store.FetchMaterialCatalog(ctx, designerID)
			if err != nil {
				return persistence("fetch material catalog", err)
			}
			b.WithCatalog(catalog)
			break
		}
	}
	return b.SetItems(in.Items)
}

func (s *QuoteService) editDraft(ctx context.Context, actor Actor, id uuid.UUID, edit func(b *quote.Builder) error) (*models.Quote, error) {
	q, err := s.ownQuote(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	b, err := quote.Edit(q)
	if err != nil {
		return nil, err
	}
	if err := edit(b); err != nil {
		return nil, err
	}
	if err := s.store.UpdateDraft(ctx, b.Quote()); err != nil {
		if errors.Is(err, quote.ErrNotEditable) {
			return nil, err
		}
		return nil, persistence("update draft", err)
	}
	return b.Quote(), nil
}

func (s *QuoteService) ownQuote(ctx context.Context, actor Actor, id uuid.UUID) (*models.Quote, error) {
	q, err := s.store.GetQuote(ctx, id)
	if err != nil {
		return nil, persistence("load quote", err)
	}
	if actor.Role != models.RoleDesigner || q.DesignerID != actor.ID {
		return nil, ErrForbidden
	}
	return q, nil
}

func (s *QuoteService) respond(ctx context.Context, actor Actor, id uuid.UUID, transition func(*quote.Lifecycle, *models.Quote) error) (*models.Quote, error) {
	if actor.Role != models.RoleCustomer {
		return nil, ErrForbidden
	}
	q, err := s.store.GetQuote(ctx, id)
	if err != nil {
		return nil, persistence("load quote", err)
	}
	// Drafts are invisible to customers, so they cannot be answered either.
	if q.IsDraft() {
		return nil, ErrForbidden
	}
	project, err := s.store.GetProject(ctx, q.ProjectID)
	if err != nil {
		return nil, persistence("load project", err)
	}
	if project.CustomerID != actor.ID {
		return nil, ErrForbidden
	}

	if err := transition(s.lifecycle(s.store), q); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "quote answered", "quote", q.QuoteNumber, "status", q.Status)

	designer, err := s.store.GetUser(ctx, q.DesignerID)
	if err != nil {
		slog.WarnContext(ctx, "no designer profile to notify", "quote", q.QuoteNumber, "error", err)
		return q, nil
	}
	s.notifier.QuoteResponded(ctx, q, designer)
	return q, nil
}

func (s *QuoteService) notifyCustomer(ctx context.Context, q *models.Quote, project *models.Project) {
	customer, err := s.store.GetUser(ctx, project.CustomerID)
	if err != nil {
		slog.WarnContext(ctx, "no customer profile to notify", "quote", q.QuoteNumber, "error", err)
		return
	}
	s.notifier.QuoteSent(ctx, q, customer)
}

// persistence wraps storage failures; not-found passes through so callers
// can map it.
func persistence(op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return err
	}
	var perr *quote.PersistenceError
	if errors.As(err, &perr) {
		return err
	}
	return &quote.PersistenceError{Op: op, Err: err}
}
