// Package notify holds the scheduled jobs that message every active admin.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spolyanaa/MyBarKeeperBot/internal/ledger"
	"github.com/spolyanaa/MyBarKeeperBot/internal/metrics"

	"go.uber.org/zap"
)

const (
	JobExpiry   = "expiry"
	JobReminder = "reminder"

	expiryHeader = "Упс! Кажется, через месяц истекает срок годности:"
	expiryLine   = "• %s — срок до %s (%s шт.)"
	reminderText = "Алё? Пора закупаться!"
	dateFormat   = "02.01.2006"
)

// Notifier delivers a plain text message to a chat.
type Notifier interface {
	Notify(ctx context.Context, chatID int64, text string) error
}

// AdminLister returns the ids of users who opened the admin menu.
type AdminLister interface {
	List(ctx context.Context) ([]int64, error)
}

// ExpirySweeper returns the lots that expire horizonDays after today.
type ExpirySweeper interface {
	Sweep(ctx context.Context, today time.Time, horizonDays int) ([]ledger.ExpiryLot, error)
}

// Jobs are the callbacks handed to the scheduler.
type Jobs struct {
	expiry      ExpirySweeper
	admins      AdminLister
	notifier    Notifier
	metrics     *metrics.Registry
	logger      *zap.Logger
	location    *time.Location
	horizonDays int
	now         func() time.Time
}

type Options struct {
	Location    *time.Location
	HorizonDays int
	Metrics     *metrics.Registry
}

func NewJobs(expiry ExpirySweeper, admins AdminLister, notifier Notifier, logger *zap.Logger, opts Options) *Jobs {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Jobs{
		expiry:      expiry,
		admins:      admins,
		notifier:    notifier,
		metrics:     opts.Metrics,
		logger:      logger,
		location:    loc,
		horizonDays: opts.HorizonDays,
		now:         time.Now,
	}
}

// ExpirySweep warns admins about lots expiring exactly horizonDays from
// today. Nothing is sent when no lot is due.
func (j *Jobs) ExpirySweep(ctx context.Context) error {
	today := j.now().In(j.location)
	lots, err := j.expiry.Sweep(ctx, today, j.horizonDays)
	if err != nil {
		j.logger.Error("Expiry sweep failed", zap.Error(err))
		return err
	}
	if len(lots) == 0 {
		j.logger.Debug("No lots due", zap.String("today", today.Format(time.DateOnly)))
		return nil
	}
	return j.broadcast(ctx, JobExpiry, FormatExpiry(lots))
}

// Reminder sends the weekly restock reminder.
func (j *Jobs) Reminder(ctx context.Context) error {
	return j.broadcast(ctx, JobReminder, reminderText)
}

// FormatExpiry renders the expiry warning for lots.
func FormatExpiry(lots []ledger.ExpiryLot) string {
	var b strings.Builder
	b.WriteString(expiryHeader)
	for _, lot := range lots {
		b.WriteByte('\n')
		fmt.Fprintf(&b, expiryLine, lot.Product, lot.Date.Format(dateFormat), lot.Quantity.String())
	}
	return b.String()
}

// broadcast sends text to every admin. A failed delivery is logged and the
// loop moves on to the next recipient.
func (j *Jobs) broadcast(ctx context.Context, job, text string) error {
	ids, err := j.admins.List(ctx)
	if err != nil {
		j.logger.Error("Failed to list admins", zap.String("job", job), zap.Error(err))
		return fmt.Errorf("failed to list admins: %w", err)
	}

	delivered := 0
	for _, id := range ids {
		if err := j.notifier.Notify(ctx, id, text); err != nil {
			j.metrics.Notification(job, false)
			j.logger.Warn("Failed to notify admin",
				zap.String("job", job),
				zap.Int64("chat_id", id),
				zap.Error(err),
			)
			continue
		}
		j.metrics.Notification(job, true)
		delivered++
	}

	j.logger.Info("Notification sent",
		zap.String("job", job),
		zap.Int("recipients", len(ids)),
		zap.Int("delivered", delivered),
	)
	return nil
}
