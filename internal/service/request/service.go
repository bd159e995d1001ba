package request

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

// Service implements the request approval workflow: a pending request is
// approved exactly once, producing exactly one booking in the same
// transaction, or rejected exactly once, producing none.
type Service struct {
	repo         repository.ServiceRequestRepository
	services     repository.ServiceRepository
	availability *availability.Service
	notifier     notification.Notifier
	logger       zerolog.Logger
	metrics      *metrics.Metrics
}

func NewService(
	repo repository.ServiceRequestRepository,
	services repository.ServiceRepository,
	availabilitySvc *availability.Service,
	notifier notification.Notifier,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		repo:         repo,
		services:     services,
		availability: availabilitySvc,
		notifier:     notifier,
		logger:       logger,
		metrics:      m,
	}
}

func (s *Service) Create(ctx context.Context, in *model.CreateServiceRequestRequest) (*model.ServiceRequest, error) {
	serviceID, err := uuid.Parse(in.ServiceID)
	if err != nil {
		return nil, model.ErrServiceNotFound
	}
	svc, err := s.services.Get(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if !svc.Active {
		return nil, model.ErrServiceNotFound
	}

	req := &model.ServiceRequest{
		ServiceID:   serviceID,
		ClientName:  in.ClientName,
		ClientPhone: in.ClientPhone,
		Address:     in.Address,
		Notes:       in.Notes,
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}
	req.ServiceName = svc.Name

	s.logger.Info().
		Str("request_id", req.ID.String()).
		Str("service", svc.Name).
		Msg("service request created")

	go s.notifier.RequestReceived(context.WithoutCancel(ctx), req)

	return req, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.ServiceRequest, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, status *model.RequestStatus) ([]*model.ServiceRequest, error) {
	return s.repo.List(ctx, status)
}

// Approve validates the decision against current availability and commits
// the approval and its booking as one transaction. Validation order:
// price, schedule syntax, request state, then slot validity, so the caller
// always sees the most specific failure. Nothing is persisted on any
// failure; the request stays pending.
func (s *Service) Approve(ctx context.Context, id uuid.UUID, in *model.ApproveRequestRequest) (*model.Booking, error) {
	if in.Price <= 0 {
		return nil, model.ErrInvalidPrice
	}
	date, err := time.Parse(time.DateOnly, in.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", model.ErrInvalidSchedule, in.Date)
	}

	req, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != model.RequestStatusPending {
		return nil, fmt.Errorf("%w: request is %s", model.ErrInvalidStateTransition, req.Status)
	}

	svc, err := s.availability.CheckSlot(ctx, req.ServiceID, date, in.Time)
	if err != nil {
		if errors.Is(err, model.ErrSlotTaken) {
			s.metrics.BookingConflicts.Inc()
		}
		return nil, err
	}

	price := in.Price
	b := &model.Booking{
		ServiceID:   req.ServiceID,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		Date:        date,
		Time:        in.Time,
		Status:      model.BookingStatusPending,
		Price:       &price,
		Notes:       bookingNotes(req),
	}

	booking, err := s.repo.ApproveAndBook(ctx, id, in.AdminNotes, b, svc.Duration)
	if err != nil {
		if errors.Is(err, model.ErrSlotTaken) {
			s.metrics.BookingConflicts.Inc()
		}
		// The transaction rolled back: the request is still pending and no
		// booking exists. Worth noticing in logs even though no repair is
		// needed.
		s.metrics.ApprovalFailures.Inc()
		s.logger.Error().Err(err).
			Str("request_id", id.String()).
			Str("date", in.Date).
			Str("time", in.Time).
			Msg("approval transaction failed, request remains pending")
		return nil, err
	}
	booking.ServiceName = svc.Name
	booking.ServiceDuration = svc.Duration

	s.metrics.RequestsApproved.Inc()
	s.metrics.BookingsCreated.Inc()
	s.logger.Info().
		Str("request_id", id.String()).
		Str("booking_id", booking.ID.String()).
		Str("date", in.Date).
		Str("time", in.Time).
		Msg("service request approved")

	go s.notifier.BookingApproved(context.WithoutCancel(ctx), booking, req)

	return booking, nil
}

func (s *Service) Reject(ctx context.Context, id uuid.UUID, in *model.RejectRequestRequest) (*model.ServiceRequest, error) {
	req, err := s.repo.Reject(ctx, id, in.AdminNotes)
	if err != nil {
		return nil, err
	}

	s.metrics.RequestsRejected.Inc()
	s.logger.Info().Str("request_id", id.String()).Msg("service request rejected")
	return req, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// bookingNotes carries the request's address (and any customer notes) onto
// the booking, since bookings have no address field of their own.
func bookingNotes(req *model.ServiceRequest) *string {
	notes := "Address: " + req.Address
	if req.Notes != nil && *req.Notes != "" {
		notes += "\n" + *req.Notes
	}
	return &notes
}
