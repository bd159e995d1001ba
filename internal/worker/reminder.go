package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/agendafacil/booking-api/internal/metrics"
	"github.com/agendafacil/booking-api/internal/repository"
	"github.com/agendafacil/booking-api/internal/service/notification"
)

const checkInterval = time.Minute

// ReminderWorker sends, once per day at the configured local hour, a
// reminder for every confirmed booking scheduled for the next day.
// Customers leave a phone number but no email, so reminders go to the
// admin inbox as a call list.
type ReminderWorker struct {
	bookings   repository.BookingRepository
	notifier   notification.Notifier
	adminEmail string
	location   *time.Location
	hour       int
	logger     zerolog.Logger
	metrics    *metrics.Metrics

	lastRunDate string
}

func NewReminderWorker(
	bookings repository.BookingRepository,
	notifier notification.Notifier,
	adminEmail string,
	location *time.Location,
	hour int,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *ReminderWorker {
	return &ReminderWorker{
		bookings:   bookings,
		notifier:   notifier,
		adminEmail: adminEmail,
		location:   location,
		hour:       hour,
		logger:     logger,
		metrics:    m,
	}
}

// Run blocks until ctx is cancelled.
func (w *ReminderWorker) Run(ctx context.Context) {
	w.logger.Info().Int("hour", w.hour).Str("timezone", w.location.String()).
		Msg("reminder worker started")

	ticker := time.NewTicker(checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("reminder worker stopped")
			return
		case <-ticker.C:
			w.checkAndRun(ctx)
		}
	}
}

func (w *ReminderWorker) checkAndRun(ctx context.Context) {
	now := time.Now().In(w.location)
	today := now.Format(time.DateOnly)

	if w.lastRunDate == today || now.Hour() != w.hour {
		return
	}
	w.lastRunDate = today

	if err := w.sendReminders(ctx, now); err != nil {
		w.logger.Error().Err(err).Msg("reminder run failed")
	}
}

func (w *ReminderWorker) sendReminders(ctx context.Context, now time.Time) error {
	tomorrow := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)

	bookings, err := w.bookings.ListConfirmedByDate(ctx, tomorrow)
	if err != nil {
		return err
	}

	sent := 0
	for _, b := range bookings {
		if err := w.notifier.BookingReminder(ctx, b, w.adminEmail); err != nil {
			w.logger.Error().Err(err).Str("booking_id", b.ID.String()).
				Msg("failed to send reminder")
			continue
		}
		sent++
		w.metrics.RemindersSent.Inc()
	}

	w.logger.Info().Str("date", tomorrow.Format(time.DateOnly)).
		Int("bookings", len(bookings)).Int("sent", sent).
		Msg("daily reminders processed")
	return nil
}
