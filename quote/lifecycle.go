package quote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"designhub-backend/models"

	"github.com/google/uuid"
	"github.com/qmuntal/stateless"
)

type trigger string

const (
	triggerSubmit trigger = "submit"
	triggerAccept trigger = "accept"
	triggerReject trigger = "reject"
	triggerExpire trigger = "expire"
)

// DefaultAcceptFeedback is recorded when a customer accepts without comment.
const DefaultAcceptFeedback = "Quote accepted"

// StatusUpdate is everything a transition writes back to storage.
type StatusUpdate struct {
	Status           models.QuoteStatus
	CustomerFeedback string
	SentAt           *time.Time
	RespondedAt      *time.Time
}

// StatusWriter persists the result of a transition.
type StatusWriter interface {
	UpdateQuoteStatus(ctx context.Context, quoteID uuid.UUID, update StatusUpdate) error
}

// Lifecycle moves quotes through draft -> sent -> accepted|rejected|expired.
//
// Transitions update the quote passed in only once the write succeeded. When
// the write fails the error is a *PersistenceError and the quote is left as
// it was before the call.
type Lifecycle struct {
	writer StatusWriter
	now    func() time.Time
}

func NewLifecycle(writer StatusWriter) *Lifecycle {
	return &Lifecycle{writer: writer, now: time.Now}
}

// WithClock replaces the time source used for timestamps and validity.
func (l *Lifecycle) WithClock(now func() time.Time) *Lifecycle {
	l.now = now
	return l
}

// Submit sends a valid draft to the customer.
func (l *Lifecycle) Submit(ctx context.Context, q *models.Quote) error {
	if q.IsDraft() {
		if err := Validate(q); err != nil {
			return err
		}
	}
	return l.fire(ctx, q, triggerSubmit)
}

// Accept records the customer's acceptance. Blank feedback becomes
// DefaultAcceptFeedback. Accepting an accepted quote applies the same
// update again.
func (l *Lifecycle) Accept(ctx context.Context, q *models.Quote, feedback string) error {
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		feedback = DefaultAcceptFeedback
	}
	if q.Status == models.QuoteSent && q.IsPastValidity(l.now()) {
		return fmt.Errorf("%w: quote %s was valid until %s", ErrQuoteExpired, q.QuoteNumber, q.ValidUntil.Format("2006-01-02"))
	}
	return l.fire(ctx, q, triggerAccept, feedback)
}

// Reject records the customer's rejection. Feedback is mandatory.
func (l *Lifecycle) Reject(ctx context.Context, q *models.Quote, feedback string) error {
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return invalid("feedback", "feedback is required to reject a quote")
	}
	return l.fire(ctx, q, triggerReject, feedback)
}

// Expire closes a sent quote whose validity has lapsed.
func (l *Lifecycle) Expire(ctx context.Context, q *models.Quote) error {
	return l.fire(ctx, q, triggerExpire)
}

// Actions lists the transitions currently allowed for q. A sent quote past
// its validity can no longer be accepted.
func (l *Lifecycle) Actions(ctx context.Context, q *models.Quote) []string {
	triggers, err := l.machine(q).PermittedTriggersCtx(ctx)
	if err != nil {
		return nil
	}
	lapsed := q.Status == models.QuoteSent && q.IsPastValidity(l.now())
	actions := make([]string, 0, len(triggers))
	for _, t := range triggers {
		if lapsed && t == triggerAccept {
			continue
		}
		actions = append(actions, string(t.(trigger)))
	}
	return actions
}

func (l *Lifecycle) fire(ctx context.Context, q *models.Quote, t trigger, args ...any) error {
	before := StatusUpdate{
		Status:           q.Status,
		CustomerFeedback: q.CustomerFeedback,
		SentAt:           q.SentAt,
		RespondedAt:      q.RespondedAt,
	}
	err := l.machine(q).FireCtx(ctx, t, args...)
	var perr *PersistenceError
	if errors.As(err, &perr) {
		q.Status = before.Status
		q.CustomerFeedback = before.CustomerFeedback
		q.SentAt = before.SentAt
		q.RespondedAt = before.RespondedAt
	}
	return err
}

func (l *Lifecycle) machine(q *models.Quote) *stateless.StateMachine {
	sm := stateless.NewStateMachineWithExternalStorage(
		func(_ context.Context) (stateless.State, error) {
			return q.Status, nil
		},
		func(_ context.Context, state stateless.State) error {
			q.Status = state.(models.QuoteStatus)
			return nil
		},
		stateless.FiringImmediate,
	)

	sm.Configure(models.QuoteDraft).
		Permit(triggerSubmit, models.QuoteSent)

	sm.Configure(models.QuoteSent).
		OnEntryFrom(triggerSubmit, l.onSubmit(q)).
		Permit(triggerAccept, models.QuoteAccepted).
		Permit(triggerReject, models.QuoteRejected).
		Permit(triggerExpire, models.QuoteExpired)

	sm.Configure(models.QuoteAccepted).
		OnEntryFrom(triggerAccept, l.onResponse(q)).
		PermitReentry(triggerAccept)

	sm.Configure(models.QuoteRejected).
		OnEntryFrom(triggerReject, l.onResponse(q)).
		PermitReentry(triggerReject)

	sm.Configure(models.QuoteExpired).
		OnEntryFrom(triggerExpire, l.persist(q))

	sm.OnUnhandledTrigger(func(_ context.Context, state stateless.State, t stateless.Trigger, _ []string) error {
		return fmt.Errorf("%w: cannot %s a quote that is %s", ErrInvalidTransition, t, state)
	})

	return sm
}

func (l *Lifecycle) onSubmit(q *models.Quote) stateless.ActionFunc {
	return func(ctx context.Context, args ...any) error {
		now := l.now()
		q.SentAt = &now
		return l.persist(q)(ctx, args...)
	}
}

func (l *Lifecycle) onResponse(q *models.Quote) stateless.ActionFunc {
	return func(ctx context.Context, args ...any) error {
		q.CustomerFeedback = args[0].(string)
		if q.RespondedAt == nil {
			now := l.now()
			q.RespondedAt = &now
		}
		return l.persist(q)(ctx, args...)
	}
}

func (l *Lifecycle) persist(q *models.Quote) stateless.ActionFunc {
	return func(ctx context.Context, _ ...any) error {
		if l.writer == nil {
			return nil
		}
		err := l.writer.UpdateQuoteStatus(ctx, q.ID, StatusUpdate{
			Status:           q.Status,
			CustomerFeedback: q.CustomerFeedback,
			SentAt:           q.SentAt,
			RespondedAt:      q.RespondedAt,
		})
		if err != nil {
			return &PersistenceError{Op: "update quote status", Err: err}
		}
		return nil
	}
}
