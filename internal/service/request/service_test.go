package request

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendafacil/booking-api/internal/config"
	"github.com/agendafacil/booking-api/internal/metrics"
	"github.com/agendafacil/booking-api/internal/model"
	"github.com/agendafacil/booking-api/internal/repository/repositorytest"
	"github.com/agendafacil/booking-api/internal/service/availability"
	"github.com/agendafacil/booking-api/internal/service/notification"
)

// 2024-06-04 is a Tuesday.
const testDate = "2024-06-04"

type fixture struct {
	service  *Service
	svc      *model.Service
	requests *repositorytest.RequestRepo
	bookings *repositorytest.BookingRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	svc := &model.Service{ID: uuid.New(), Name: "Garden work", Duration: 60, Active: true}
	serviceRepo := repositorytest.NewServiceRepo(svc)
	scheduleRepo := &repositorytest.ScheduleRepo{
		Hours: []model.WorkingHours{
			{Weekday: 2, StartTime: "08:00", EndTime: "12:00", Active: true},
		},
	}
	bookingRepo := repositorytest.NewBookingRepo(svc)
	requestRepo := repositorytest.NewRequestRepo(bookingRepo)

	m := metrics.New(prometheus.NewRegistry())
	availabilitySvc := availability.NewService(
		serviceRepo, scheduleRepo, bookingRepo,
		cache.New(time.Minute, time.Minute), zerolog.Nop(), m)
	notifier := notification.NewMailNotifier(config.SMTPConfig{}, zerolog.Nop())

	return &fixture{
		service:  NewService(requestRepo, serviceRepo, availabilitySvc, notifier, zerolog.Nop(), m),
		svc:      svc,
		requests: requestRepo,
		bookings: bookingRepo,
	}
}

func (f *fixture) createRequest(t *testing.T) *model.ServiceRequest {
	t.Helper()
	req, err := f.service.Create(context.Background(), &model.CreateServiceRequestRequest{
		ServiceID:   f.svc.ID.String(),
		ClientName:  "Carlos",
		ClientPhone: "+5511988880000",
		Address:     "Rua das Flores 10",
	})
	require.NoError(t, err)
	return req
}

func TestCreateRequest(t *testing.T) {
	f := newFixture(t)

	req := f.createRequest(t)
	assert.Equal(t, model.RequestStatusPending, req.Status)
	assert.Equal(t, f.svc.Name, req.ServiceName)
}

func TestCreateRequestInactiveService(t *testing.T) {
	f := newFixture(t)
	f.svc.Active = false

	_, err := f.service.Create(context.Background(), &model.CreateServiceRequestRequest{
		ServiceID:   f.svc.ID.String(),
		ClientName:  "Carlos",
		ClientPhone: "+5511988880000",
		Address:     "Rua das Flores 10",
	})
	assert.ErrorIs(t, err, model.ErrServiceNotFound)
}

func TestApproveRequest(t *testing.T) {
	f := newFixture(t)
	req := f.createRequest(t)

	booking, err := f.service.Approve(context.Background(), req.ID, &model.ApproveRequestRequest{
		Date:  testDate,
		Time:  "09:00",
		Price: 150,
	})
	require.NoError(t, err)

	assert.Equal(t, model.BookingStatusPending, booking.Status)
	require.NotNil(t, booking.Price)
	assert.Equal(t, 150.0, *booking.Price)
	require.NotNil(t, booking.Notes)
	assert.True(t, strings.HasPrefix(*booking.Notes, "Address: Rua das Flores 10"))

	stored, err := f.requests.Get(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusApproved, stored.Status)
}

func TestApproveRequestExactlyOnce(t *testing.T) {
	f := newFixture(t)
	req := f.createRequest(t)

	_, err := f.service.Approve(context.Background(), req.ID, &model.ApproveRequestRequest{
		Date: testDate, Time: "09:00", Price: 150,
	})
	require.NoError(t, err)

	_, err = f.service.Approve(context.Background(), req.ID, &model.ApproveRequestRequest{
		Date: testDate, Time: "10:00", Price: 150,
	})
	assert.ErrorIs(t, err, model.ErrInvalidStateTransition)

	// Exactly one booking came out of the request.
	assert.Len(t, f.bookings.Bookings, 1)
}

func TestApproveRequestInvalidPrice(t *testing.T) {
	f := newFixture(t)
	req := f.createRequest(t)

	for _, price := range []float64{0, -10} {
		_, err := f.service.Approve(context.Background(), req.ID, &model.ApproveRequestRequest{
			Date: testDate, Time: "09:00", Price: price,
		})
		assert.ErrorIs(t, err, model.ErrInvalidPrice)
	}

	// The failed approvals left the request pending.
	stored, err := f.requests.Get(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusPending, stored.Status)
}

// A conflicting slot fails the approval atomically: no booking is written
// and the request stays pending for a retry with another slot.
func TestApproveRequestSlotConflictKeepsRequestPending(t *testing.T) {
	f := newFixture(t)
	req := f.createRequest(t)

	require.NoError(t, f.bookings.CreateConflictFree(context.Background(), &model.Booking{
		ServiceID: f.svc.ID,
		Date:      time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC),
		Time:      "09:00",
		Status:    model.BookingStatusConfirmed,
	}, f.svc.Duration))

	_, err := f.service.Approve(context.Background(), req.ID, &model.ApproveRequestRequest{
		Date: testDate, Time: "09:00", Price: 150,
	})
	assert.ErrorIs(t, err, model.ErrSlotTaken)

	stored, err := f.requests.Get(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusPending, stored.Status)
	assert.Len(t, f.bookings.Bookings, 1)

	// The retry with a free slot succeeds.
	_, err = f.service.Approve(context.Background(), req.ID, &model.ApproveRequestRequest{
		Date: testDate, Time: "10:00", Price: 150,
	})
	require.NoError(t, err)
}

func TestApproveRequestClosedDay(t *testing.T) {
	f := newFixture(t)
	req := f.createRequest(t)

	_, err := f.service.Approve(context.Background(), req.ID, &model.ApproveRequestRequest{
		Date: "2024-06-05", Time: "09:00", Price: 150,
	})
	assert.ErrorIs(t, err, model.ErrDayClosed)
}

func TestRejectRequest(t *testing.T) {
	f := newFixture(t)
	req := f.createRequest(t)

	notes := "out of coverage area"
	rejected, err := f.service.Reject(context.Background(), req.ID, &model.RejectRequestRequest{AdminNotes: &notes})
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusRejected, rejected.Status)

	// Rejected is terminal.
	_, err = f.service.Approve(context.Background(), req.ID, &model.ApproveRequestRequest{
		Date: testDate, Time: "09:00", Price: 150,
	})
	assert.ErrorIs(t, err, model.ErrInvalidStateTransition)
	assert.Empty(t, f.bookings.Bookings)
}
