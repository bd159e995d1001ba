package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/agendafacil/booking-api/internal/metrics"
	"github.com/agendafacil/booking-api/internal/model"
	"github.com/agendafacil/booking-api/internal/repository"
	"github.com/agendafacil/booking-api/internal/service/availability"
	"github.com/agendafacil/booking-api/internal/service/notification"
)

// Service owns booking creation and the booking status lifecycle. All slot
// validity questions are delegated to the availability service; this package
// never computes availability on its own.
type Service struct {
	repo         repository.BookingRepository
	availability *availability.Service
	notifier     notification.Notifier
	logger       zerolog.Logger
	metrics      *metrics.Metrics
}

func NewService(
	repo repository.BookingRepository,
	availabilitySvc *availability.Service,
	notifier notification.Notifier,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		repo:         repo,
		availability: availabilitySvc,
		notifier:     notifier,
		logger:       logger,
		metrics:      m,
	}
}

// Create books a slot for a customer. The availability pre-check produces
// the caller-friendly error (DayClosed, OutOfHours, SlotTaken); the
// repository then re-checks conflicts under the per-date lock, so a race
// lost between the two checks still comes back as ErrSlotTaken.
func (s *Service) Create(ctx context.Context, req *model.CreateBookingRequest) (*model.Booking, error) {
	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid service id", model.ErrInvalidSchedule)
	}
	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", model.ErrInvalidSchedule, req.Date)
	}

	svc, err := s.availability.CheckSlot(ctx, serviceID, date, req.Time)
	if err != nil {
		if errors.Is(err, model.ErrSlotTaken) {
			s.metrics.BookingConflicts.Inc()
		}
		return nil, err
	}

	b := &model.Booking{
		ServiceID:   serviceID,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		Date:        date,
		Time:        req.Time,
		Status:      model.BookingStatusPending,
		Notes:       req.Notes,
	}
	if err := s.repo.CreateConflictFree(ctx, b, svc.Duration); err != nil {
		if errors.Is(err, model.ErrSlotTaken) {
			s.metrics.BookingConflicts.Inc()
		}
		return nil, err
	}
	b.ServiceName = svc.Name
	b.ServiceDuration = svc.Duration

	s.metrics.BookingsCreated.Inc()
	s.logger.Info().
		Str("booking_id", b.ID.String()).
		Str("service", svc.Name).
		Str("date", req.Date).
		Str("time", req.Time).
		Msg("booking created")

	go s.notifier.BookingCreated(context.WithoutCancel(ctx), b)

	return b, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filters *model.BookingFilters) ([]*model.Booking, error) {
	bookings, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// UpdateStatus transitions a booking. The repository enforces the closed
// transition table and the conflict guard for transitions that re-occupy a
// slot.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req *model.UpdateBookingRequest) (*model.Booking, error) {
	if req.Status == nil {
		// Notes-only update; keep the current status.
		b, err := s.repo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if req.Notes == nil {
			return b, nil
		}
		return s.repo.SetStatus(ctx, id, b.Status, req.Notes)
	}
	if !req.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", model.ErrInvalidStateTransition, *req.Status)
	}

	b, err := s.repo.SetStatus(ctx, id, *req.Status, req.Notes)
	if err != nil {
		if errors.Is(err, model.ErrSlotTaken) {
			s.metrics.BookingConflicts.Inc()
		}
		return nil, err
	}

	s.logger.Info().
		Str("booking_id", id.String()).
		Str("status", string(*req.Status)).
		Msg("booking status updated")
	return b, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
