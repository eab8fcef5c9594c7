// services/expiry_service.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// DefaultExpirySchedule runs the sweep daily at 01:00.
const DefaultExpirySchedule = "0 1 * * *"

// QuoteExpirer is the part of QuoteService the sweep needs.
type QuoteExpirer interface {
	ExpireOverdue(ctx context.Context) (int, error)
}

// ExpiryService closes sent quotes whose validity has lapsed on a schedule.
type ExpiryService struct {
	quotes   QuoteExpirer
	schedule string
	cron     *cron.Cron
}

func NewExpiryService(quotes QuoteExpirer, schedule string) *ExpiryService {
	if schedule == "" {
		schedule = DefaultExpirySchedule
	}
	return &ExpiryService{
		quotes:   quotes,
		schedule: schedule,
		cron:     cron.New(),
	}
}

// Start registers the sweep and starts the scheduler.
func (s *ExpiryService) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, func() { s.RunOnce(context.Background()) }); err != nil {
		return fmt.Errorf("invalid expiry schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()
	slog.Info("quote expiry scheduler started", "schedule", s.schedule)
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *ExpiryService) Stop() {
	<-s.cron.Stop().Done()
}

// RunOnce performs a single sweep.
func (s *ExpiryService) RunOnce(ctx context.Context) (int, error) {
	slog.InfoContext(ctx, "starting quote expiry sweep")
	n, err := s.quotes.ExpireOverdue(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "quote expiry sweep finished with errors", "expired", n, "error", err)
		return n, err
	}
	slog.InfoContext(ctx, "quote expiry sweep completed", "expired", n)
	return n, nil
}
