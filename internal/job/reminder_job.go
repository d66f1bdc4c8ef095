package job

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"quote-pipeline-api/internal/client"
	"quote-pipeline-api/internal/domain"
	"quote-pipeline-api/internal/metrics"
	"quote-pipeline-api/internal/repository"
)

// ReminderJob scans for quotes whose chase reminder has elapsed and
// emails the configured recipient. A dispatched reminder clears
// next_chase_at, so each due occurrence fires at most once; a failed
// send leaves the quote due for the next tick.
type ReminderJob struct {
	quoteRepo repository.QuoteRepository
	mailer    client.Mailer
	metrics   *metrics.Metrics
	logger    *zap.Logger

	// now is injectable for tests
	now func() time.Time

	running atomic.Bool
}

// NewReminderJob creates a new ReminderJob instance
func NewReminderJob(
	quoteRepo repository.QuoteRepository,
	mailer client.Mailer,
	m *metrics.Metrics,
	logger *zap.Logger,
) *ReminderJob {
	return &ReminderJob{
		quoteRepo: quoteRepo,
		mailer:    mailer,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

// Run executes one reminder sweep. Overlapping invocations are skipped:
// a tick that finds the previous one still running returns immediately.
func (j *ReminderJob) Run() {
	if !j.running.CompareAndSwap(false, true) {
		j.logger.Warn("Reminder sweep still running, skipping tick")
		if j.metrics != nil {
			j.metrics.IncrementReminderTickSkipped()
		}
		return
	}
	defer j.running.Store(false)

	start := j.now()
	ctx := context.Background()

	due, err := j.quoteRepo.FindDueReminders(ctx, start.UTC())
	if err != nil {
		j.logger.Error("Failed to find due reminders", zap.Error(err))
		return
	}
	if len(due) == 0 {
		return
	}

	j.logger.Info("Found due reminders", zap.Int("count", len(due)))

	sent := 0
	failed := 0
	for _, quote := range due {
		if err := j.dispatch(ctx, quote); err != nil {
			failed++
			if j.metrics != nil {
				j.metrics.IncrementReminderFailed()
			}
			j.logger.Error("Failed to send reminder",
				zap.String("quote_id", quote.ID.String()),
				zap.String("recipient", quote.ReminderEmail),
				zap.Error(err),
			)
			continue
		}
		sent++
		if j.metrics != nil {
			j.metrics.IncrementReminderSent()
		}
	}

	if j.metrics != nil {
		j.metrics.ObserveReminderTick(j.now().Sub(start))
	}
	j.logger.Info("Reminder sweep completed",
		zap.Int("due", len(due)),
		zap.Int("sent", sent),
		zap.Int("failed", failed),
	)
}

// dispatch sends one reminder and marks it delivered. The mark happens
// after the send: an email may be duplicated if marking fails, but a
// quote is never silently skipped.
func (j *ReminderJob) dispatch(ctx context.Context, quote *domain.Quote) error {
	msg := client.Message{
		To:      quote.ReminderEmail,
		Subject: fmt.Sprintf("Chase reminder: %s (%s)", quote.Title, quote.ClientName),
		Body:    reminderBody(quote),
	}
	if err := j.mailer.Send(ctx, msg); err != nil {
		return err
	}

	if err := j.quoteRepo.MarkReminderSent(ctx, quote.ID, j.now().UTC()); err != nil {
		j.logger.Warn("Reminder sent but not marked",
			zap.String("quote_id", quote.ID.String()),
			zap.Error(err),
		)
		return err
	}

	j.logger.Debug("Reminder sent",
		zap.String("quote_id", quote.ID.String()),
		zap.String("recipient", quote.ReminderEmail),
	)
	return nil
}

// reminderBody renders the plain-text reminder email
func reminderBody(quote *domain.Quote) string {
	value := "N/A"
	if quote.Value != nil {
		value = fmt.Sprintf("%.2f", *quote.Value)
	}
	lastChased := "Never"
	if quote.LastChasedAt != nil {
		lastChased = quote.LastChasedAt.Format("2006-01-02 15:04")
	}

	return fmt.Sprintf(
		"Quote %q for %s needs chasing.\n\nStage: %s\nValue: %s\nLast chased: %s\n",
		quote.Title,
		quote.ClientName,
		quote.Stage,
		value,
		lastChased,
	)
}
