package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/agendafacil/booking-api/internal/model"
)

// All repository interfaces in one file. Implementations live in
// repository/postgres.
type (
	ServiceRepository interface {
		Create(ctx context.Context, svc *model.Service) error
		Get(ctx context.Context, id uuid.UUID) (*model.Service, error)
		Update(ctx context.Context, svc *model.Service) error
		Deactivate(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, activeOnly bool) ([]*model.Service, error)
	}

	// ScheduleRepository serves the calendar inputs: the weekly
	// working-hours table and day-off exception dates.
	ScheduleRepository interface {
		ListWorkingHours(ctx context.Context) ([]model.WorkingHours, error)
		UpsertWorkingHours(ctx context.Context, wh *model.WorkingHours) error
		ListDayOffs(ctx context.Context) ([]model.DayOff, error)
		ListDayOffsInRange(ctx context.Context, from, to time.Time) ([]model.DayOff, error)
		CreateDayOff(ctx context.Context, d *model.DayOff) error
		DeleteDayOff(ctx context.Context, id uuid.UUID) error
	}

	// BookingRepository owns the only shared mutable resource of the
	// engine. Every write that makes a booking occupy a slot goes through
	// a conflict-guarded method; nothing may bypass the check.
	BookingRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Booking, error)
		List(ctx context.Context, filters *model.BookingFilters) ([]*model.Booking, error)
		// ListOccupying returns pending/confirmed bookings for the date,
		// joined with their service duration.
		ListOccupying(ctx context.Context, date time.Time) ([]*model.Booking, error)
		// CreateConflictFree inserts the booking inside a transaction that
		// serializes writers on the booking's date and re-checks interval
		// overlap first. Returns model.ErrSlotTaken when the slot was
		// claimed by a concurrent writer.
		CreateConflictFree(ctx context.Context, b *model.Booking, durationMinutes int) error
		// SetStatus updates status and notes under the same per-date
		// serialization when the transition re-occupies a slot.
		SetStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus, notes *string) (*model.Booking, error)
		Delete(ctx context.Context, id uuid.UUID) error
		ListConfirmedByDate(ctx context.Context, date time.Time) ([]*model.Booking, error)
	}

	ServiceRequestRepository interface {
		Create(ctx context.Context, req *model.ServiceRequest) error
		Get(ctx context.Context, id uuid.UUID) (*model.ServiceRequest, error)
		List(ctx context.Context, status *model.RequestStatus) ([]*model.ServiceRequest, error)
		// ApproveAndBook marks the request approved and inserts its booking
		// as one transaction: both happen or neither does. Returns
		// model.ErrInvalidStateTransition when the request is not pending
		// and model.ErrSlotTaken when the slot is no longer free.
		ApproveAndBook(ctx context.Context, requestID uuid.UUID, adminNotes *string, b *model.Booking, durationMinutes int) (*model.Booking, error)
		Reject(ctx context.Context, requestID uuid.UUID, adminNotes *string) (*model.ServiceRequest, error)
		Delete(ctx context.Context, id uuid.UUID) error
	}

	UserRepository interface {
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	}
)
