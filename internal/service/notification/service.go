package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/agendafacil/booking-api/internal/config"
	"github.com/agendafacil/booking-api/internal/model"
)

// Notifier sends best-effort notifications. Failures are logged and never
// fail the operation that triggered them.
type Notifier interface {
	RequestReceived(ctx context.Context, req *model.ServiceRequest)
	BookingCreated(ctx context.Context, b *model.Booking)
	BookingApproved(ctx context.Context, b *model.Booking, req *model.ServiceRequest)
	BookingReminder(ctx context.Context, b *model.Booking, to string) error
}

type mailNotifier struct {
	dialer     *gomail.Dialer
	from       string
	adminEmail string
	logger     zerolog.Logger
}

// NewMailNotifier builds an SMTP-backed notifier. With SMTP unconfigured it
// returns a notifier that only logs, so local setups work without a mail
// server.
func NewMailNotifier(cfg config.SMTPConfig, logger zerolog.Logger) Notifier {
	if cfg.Host == "" {
		return &logNotifier{logger: logger}
	}
	return &mailNotifier{
		dialer:     gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:       cfg.From,
		adminEmail: cfg.AdminEmail,
		logger:     logger,
	}
}

func (n *mailNotifier) RequestReceived(ctx context.Context, req *model.ServiceRequest) {
	subject := fmt.Sprintf("New service request from %s", req.ClientName)
	body := fmt.Sprintf(
		"Service: %s\nClient: %s\nPhone: %s\nAddress: %s\n",
		req.ServiceName, req.ClientName, req.ClientPhone, req.Address,
	)
	if req.Notes != nil {
		body += "Notes: " + *req.Notes + "\n"
	}
	n.send(n.adminEmail, subject, body)
}

func (n *mailNotifier) BookingCreated(ctx context.Context, b *model.Booking) {
	subject := fmt.Sprintf("New booking: %s on %s", b.ServiceName, b.Date.Format(time.DateOnly))
	body := fmt.Sprintf(
		"Service: %s\nClient: %s\nPhone: %s\nDate: %s %s\n",
		b.ServiceName, b.ClientName, b.ClientPhone, b.Date.Format(time.DateOnly), b.Time,
	)
	n.send(n.adminEmail, subject, body)
}

func (n *mailNotifier) BookingApproved(ctx context.Context, b *model.Booking, req *model.ServiceRequest) {
	subject := fmt.Sprintf("Request approved: %s on %s", b.ServiceName, b.Date.Format(time.DateOnly))
	body := fmt.Sprintf(
		"The request from %s was approved and scheduled for %s at %s.\n",
		req.ClientName, b.Date.Format(time.DateOnly), b.Time,
	)
	n.send(n.adminEmail, subject, body)
}

func (n *mailNotifier) BookingReminder(ctx context.Context, b *model.Booking, to string) error {
	subject := fmt.Sprintf("Reminder: %s tomorrow at %s", b.ServiceName, b.Time)
	body := fmt.Sprintf(
		"Hello %s,\n\nThis is a reminder of your %s appointment on %s at %s.\n",
		b.ClientName, b.ServiceName, b.Date.Format(time.DateOnly), b.Time,
	)
	return n.deliver(to, subject, body)
}

func (n *mailNotifier) send(to, subject, body string) {
	if err := n.deliver(to, subject, body); err != nil {
		n.logger.Error().Err(err).Str("to", to).Str("subject", subject).
			Msg("failed to send notification email")
	}
}

func (n *mailNotifier) deliver(to, subject, body string) error {
	if to == "" {
		return nil
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", n.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return n.dialer.DialAndSend(msg)
}

// logNotifier is the no-SMTP fallback; it is also handy in tests.
type logNotifier struct {
	logger zerolog.Logger
}

func (n *logNotifier) RequestReceived(ctx context.Context, req *model.ServiceRequest) {
	n.logger.Info().Str("request_id", req.ID.String()).Msg("service request received")
}

func (n *logNotifier) BookingCreated(ctx context.Context, b *model.Booking) {
	n.logger.Info().Str("booking_id", b.ID.String()).Msg("booking created")
}

func (n *logNotifier) BookingApproved(ctx context.Context, b *model.Booking, req *model.ServiceRequest) {
	n.logger.Info().Str("booking_id", b.ID.String()).Str("request_id", req.ID.String()).
		Msg("service request approved")
}

func (n *logNotifier) BookingReminder(ctx context.Context, b *model.Booking, to string) error {
	n.logger.Info().Str("booking_id", b.ID.String()).Msg("booking reminder")
	return nil
}
