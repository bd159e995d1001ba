package booking

import (
	"context"
	"sync"
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

func newTestService(t *testing.T) (*Service, *model.Service, *repositorytest.BookingRepo) {
	t.Helper()

	svc := &model.Service{ID: uuid.New(), Name: "Cleaning", Duration: 60, Active: true}
	serviceRepo := repositorytest.NewServiceRepo(svc)
	scheduleRepo := &repositorytest.ScheduleRepo{
		Hours: []model.WorkingHours{
			{Weekday: 2, StartTime: "08:00", EndTime: "12:00", Active: true},
		},
	}
	bookingRepo := repositorytest.NewBookingRepo(svc)

	m := metrics.New(prometheus.NewRegistry())
	availabilitySvc := availability.NewService(
		serviceRepo, scheduleRepo, bookingRepo,
		cache.New(time.Minute, time.Minute), zerolog.Nop(), m)
	notifier := notification.NewMailNotifier(config.SMTPConfig{}, zerolog.Nop())

	return NewService(bookingRepo, availabilitySvc, notifier, zerolog.Nop(), m), svc, bookingRepo
}

func TestCreateBooking(t *testing.T) {
	s, svc, _ := newTestService(t)

	b, err := s.Create(context.Background(), &model.CreateBookingRequest{
		ServiceID:   svc.ID.String(),
		Date:        testDate,
		Time:        "09:00",
		ClientName:  "Maria",
		ClientPhone: "+5511999990000",
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, b.ID)
	assert.Equal(t, model.BookingStatusPending, b.Status)
	assert.Equal(t, svc.Name, b.ServiceName)
	assert.Equal(t, svc.Duration, b.ServiceDuration)
}

func TestCreateBookingSlotTaken(t *testing.T) {
	s, svc, _ := newTestService(t)

	req := &model.CreateBookingRequest{
		ServiceID:   svc.ID.String(),
		Date:        testDate,
		Time:        "09:00",
		ClientName:  "Maria",
		ClientPhone: "+5511999990000",
	}
	_, err := s.Create(context.Background(), req)
	require.NoError(t, err)

	_, err = s.Create(context.Background(), req)
	assert.ErrorIs(t, err, model.ErrSlotTaken)
}

func TestCreateBookingClosedDay(t *testing.T) {
	s, svc, _ := newTestService(t)

	_, err := s.Create(context.Background(), &model.CreateBookingRequest{
		ServiceID:   svc.ID.String(),
		Date:        "2024-06-05", // Wednesday, no working hours
		Time:        "09:00",
		ClientName:  "Maria",
		ClientPhone: "+5511999990000",
	})
	assert.ErrorIs(t, err, model.ErrDayClosed)
}

func TestCreateBookingBadInput(t *testing.T) {
	s, svc, _ := newTestService(t)

	tests := []struct {
		name string
		req  model.CreateBookingRequest
		want error
	}{
		{"bad service id", model.CreateBookingRequest{ServiceID: "nope", Date: testDate, Time: "09:00"}, model.ErrInvalidSchedule},
		{"bad date", model.CreateBookingRequest{ServiceID: svc.ID.String(), Date: "04/06/2024", Time: "09:00"}, model.ErrInvalidSchedule},
		{"bad time", model.CreateBookingRequest{ServiceID: svc.ID.String(), Date: testDate, Time: "9h"}, model.ErrInvalidSchedule},
		{"off-grid time", model.CreateBookingRequest{ServiceID: svc.ID.String(), Date: testDate, Time: "09:30"}, model.ErrOutOfHours},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(context.Background(), &tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

// Two concurrent creates for the same slot: exactly one wins, the loser
// gets ErrSlotTaken from the repository's conflict guard.
func TestCreateBookingConcurrentSameSlot(t *testing.T) {
	s, svc, _ := newTestService(t)

	req := func(name string) *model.CreateBookingRequest {
		return &model.CreateBookingRequest{
			ServiceID:   svc.ID.String(),
			Date:        testDate,
			Time:        "10:00",
			ClientName:  name,
			ClientPhone: "+5511999990000",
		}
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, name := range []string{"Maria", "Joana"} {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			_, errs[i] = s.Create(context.Background(), req(name))
		}(i, name)
	}
	wg.Wait()

	succeeded := 0
	conflicted := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		default:
			assert.ErrorIs(t, err, model.ErrSlotTaken)
			conflicted++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicted)
}

func TestUpdateStatus(t *testing.T) {
	s, svc, _ := newTestService(t)

	b, err := s.Create(context.Background(), &model.CreateBookingRequest{
		ServiceID:   svc.ID.String(),
		Date:        testDate,
		Time:        "08:00",
		ClientName:  "Maria",
		ClientPhone: "+5511999990000",
	})
	require.NoError(t, err)

	confirmed := model.BookingStatusConfirmed
	updated, err := s.UpdateStatus(context.Background(), b.ID, &model.UpdateBookingRequest{Status: &confirmed})
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusConfirmed, updated.Status)

	completed := model.BookingStatusCompleted
	_, err = s.UpdateStatus(context.Background(), b.ID, &model.UpdateBookingRequest{Status: &completed})
	require.NoError(t, err)

	// Completed is terminal.
	pending := model.BookingStatusPending
	_, err = s.UpdateStatus(context.Background(), b.ID, &model.UpdateBookingRequest{Status: &pending})
	assert.ErrorIs(t, err, model.ErrInvalidStateTransition)
}

func TestUpdateStatusUnknownValue(t *testing.T) {
	s, svc, _ := newTestService(t)

	b, err := s.Create(context.Background(), &model.CreateBookingRequest{
		ServiceID:   svc.ID.String(),
		Date:        testDate,
		Time:        "08:00",
		ClientName:  "Maria",
		ClientPhone: "+5511999990000",
	})
	require.NoError(t, err)

	bogus := model.BookingStatus("archived")
	_, err = s.UpdateStatus(context.Background(), b.ID, &model.UpdateBookingRequest{Status: &bogus})
	assert.ErrorIs(t, err, model.ErrInvalidStateTransition)
}

// Reactivating a cancelled booking re-occupies its slot and must lose to a
// booking that claimed the slot in between.
func TestReactivateCancelledBookingChecksConflicts(t *testing.T) {
	s, svc, _ := newTestService(t)

	first, err := s.Create(context.Background(), &model.CreateBookingRequest{
		ServiceID:   svc.ID.String(),
		Date:        testDate,
		Time:        "09:00",
		ClientName:  "Maria",
		ClientPhone: "+5511999990000",
	})
	require.NoError(t, err)

	cancelled := model.BookingStatusCancelled
	_, err = s.UpdateStatus(context.Background(), first.ID, &model.UpdateBookingRequest{Status: &cancelled})
	require.NoError(t, err)

	_, err = s.Create(context.Background(), &model.CreateBookingRequest{
		ServiceID:   svc.ID.String(),
		Date:        testDate,
		Time:        "09:00",
		ClientName:  "Joana",
		ClientPhone: "+5511999990001",
	})
	require.NoError(t, err)

	pending := model.BookingStatusPending
	_, err = s.UpdateStatus(context.Background(), first.ID, &model.UpdateBookingRequest{Status: &pending})
	assert.ErrorIs(t, err, model.ErrSlotTaken)
}

func TestNotesOnlyUpdateKeepsStatus(t *testing.T) {
	s, svc, repo := newTestService(t)

	b, err := s.Create(context.Background(), &model.CreateBookingRequest{
		ServiceID:   svc.ID.String(),
		Date:        testDate,
		Time:        "08:00",
		ClientName:  "Maria",
		ClientPhone: "+5511999990000",
	})
	require.NoError(t, err)

	notes := "bring keys"
	updated, err := s.UpdateStatus(context.Background(), b.ID, &model.UpdateBookingRequest{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusPending, updated.Status)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, notes, *updated.Notes)

	stored, err := repo.Get(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusPending, stored.Status)
}
